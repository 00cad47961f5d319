package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/driveport/driveport/internal/common/errs"
	"github.com/driveport/driveport/internal/common/logger"
	"github.com/driveport/driveport/internal/common/middleware"
	"github.com/driveport/driveport/internal/reservation"
	"github.com/driveport/driveport/internal/vehicle"
	"gorm.io/gorm"
)

// VehicleSource is the fleet read side the resolvers need.
type VehicleSource interface {
	FindByID(ctx context.Context, id string) (*vehicle.Vehicle, error)
	ActiveByLocation(ctx context.Context, locationID string) ([]vehicle.Vehicle, error)
}

// Availability resolves vehicle and fleet availability. It performs no
// writes and keeps no state between calls, so it is safe to call
// concurrently.
type Availability struct {
	reservations reservation.Source
	vehicles     VehicleSource
	log          logger.Logger
	breaker      *middleware.CircuitBreaker
	storeTimeout time.Duration
}

type AvailabilityOption func(*Availability)

// WithStoreTimeout bounds every record-store call.
func WithStoreTimeout(d time.Duration) AvailabilityOption {
	return func(a *Availability) {
		if d > 0 {
			a.storeTimeout = d
		}
	}
}

// WithBreaker guards record-store reads with a circuit breaker; an open
// breaker surfaces as errs.ErrStoreUnavailable.
func WithBreaker(cb *middleware.CircuitBreaker) AvailabilityOption {
	return func(a *Availability) {
		a.breaker = cb
	}
}

func NewAvailability(reservations reservation.Source, vehicles VehicleSource, log logger.Logger, opts ...AvailabilityOption) *Availability {
	a := &Availability{
		reservations: reservations,
		vehicles:     vehicles,
		log:          log,
		storeTimeout: 5 * time.Second,
	}
	for _, apply := range opts {
		if apply != nil {
			apply(a)
		}
	}
	return a
}

// IsVehicleAvailable reports whether the vehicle can be booked for the
// requested window. excludeID, when set, leaves that reservation out of the
// overlap universe (used when re-checking an edit-in-place).
func (a *Availability) IsVehicleAvailable(ctx context.Context, vehicleID string, w Window, excludeID string) (bool, error) {
	return a.vehicleAvailable(ctx, a.reservations, vehicleID, w, excludeID)
}

// vehicleAvailable is the shared core, parameterized over the reservation
// source so the admission guard can run it against a transaction-bound repo.
func (a *Availability) vehicleAvailable(ctx context.Context, src reservation.Source, vehicleID string, w Window, excludeID string) (bool, error) {
	existing, err := a.fetchActive(ctx, src, vehicleID, excludeID)
	if err != nil {
		return false, err
	}

	for _, res := range existing {
		rw, ok, err := WindowOf(res)
		if err != nil {
			return false, err
		}
		if !ok {
			// Partial windows cannot be evaluated; they never block.
			continue
		}
		if w.Overlaps(rw) {
			return false, nil
		}
	}
	return true, nil
}

// FindAvailableVehicles returns the active vehicles at the branch whose
// windows are free, in store order. An empty fleet or a fully booked one
// yields an empty list, not an error.
func (a *Availability) FindAvailableVehicles(ctx context.Context, locationID string, w Window) ([]vehicle.Vehicle, error) {
	vehicles, err := a.fetchVehicles(ctx, locationID)
	if err != nil {
		return nil, err
	}

	available := make([]vehicle.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		free, err := a.vehicleAvailable(ctx, a.reservations, v.ID, w, "")
		if err != nil {
			return nil, err
		}
		if free {
			available = append(available, v)
		}
	}
	if a.log != nil {
		a.log.Debugf("availability: %d of %d vehicles free at location %s", len(available), len(vehicles), locationID)
	}
	return available, nil
}

func (a *Availability) fetchActive(ctx context.Context, src reservation.Source, vehicleID, excludeID string) ([]reservation.Reservation, error) {
	cctx, cancel := context.WithTimeout(ctx, a.storeTimeout)
	defer cancel()

	var out []reservation.Reservation
	call := func() error {
		var err error
		out, err = src.ActiveByVehicle(cctx, vehicleID, excludeID)
		return err
	}
	if err := a.callStore(cctx, call); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Availability) fetchVehicles(ctx context.Context, locationID string) ([]vehicle.Vehicle, error) {
	cctx, cancel := context.WithTimeout(ctx, a.storeTimeout)
	defer cancel()

	var out []vehicle.Vehicle
	call := func() error {
		var err error
		out, err = a.vehicles.ActiveByLocation(cctx, locationID)
		return err
	}
	if err := a.callStore(cctx, call); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Availability) callStore(ctx context.Context, call func() error) error {
	var err error
	if a.breaker != nil {
		err = a.breaker.Call(ctx, call)
	} else {
		err = call()
	}
	if err != nil {
		return mapStoreErr(err)
	}
	return nil
}

// mapStoreErr translates collaborator failures into the shared taxonomy.
func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, middleware.ErrBreakerOpen),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", errs.ErrNotFound, err)
	}
	return err
}
