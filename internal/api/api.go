package api

import (
	"context"

	"github.com/driveport/driveport/internal/admin"
	"github.com/driveport/driveport/internal/booking"
	"github.com/driveport/driveport/internal/common/config"
	"github.com/driveport/driveport/internal/common/logger"
	"github.com/driveport/driveport/internal/location"
	"github.com/driveport/driveport/internal/reservation"
	"github.com/driveport/driveport/internal/vehicle"
)

// ReservationDirectory is the read/delete side of the reservation store the
// HTTP layer needs beyond the admission controller. Implemented by
// reservation.Repo.
type ReservationDirectory interface {
	List(ctx context.Context, status reservation.Status, offset, limit int) ([]reservation.Reservation, int64, error)
	ListByEmail(ctx context.Context, email string) ([]reservation.Reservation, error)
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) ([]reservation.StatusCount, error)
	RevenueByDay(ctx context.Context, days int) ([]reservation.DailyRevenue, error)
	TotalRevenue(ctx context.Context) (float64, error)
}

// Deps collects everything the HTTP surface is wired to.
type Deps struct {
	Config       *config.Config
	Log          logger.Logger
	Vehicles     *vehicle.Service
	Locations    *location.Service
	Admins       *admin.Service
	Availability *booking.Availability
	Admission    *booking.Admission
	Reservations ReservationDirectory
}

// API is the gin HTTP surface of the service.
type API struct {
	cfg          *config.Config
	log          logger.Logger
	vehicles     *vehicle.Service
	locations    *location.Service
	admins       *admin.Service
	availability *booking.Availability
	admission    *booking.Admission
	reservations ReservationDirectory
}

func New(d Deps) *API {
	return &API{
		cfg:          d.Config,
		log:          d.Log,
		vehicles:     d.Vehicles,
		locations:    d.Locations,
		admins:       d.Admins,
		availability: d.Availability,
		admission:    d.Admission,
		reservations: d.Reservations,
	}
}
