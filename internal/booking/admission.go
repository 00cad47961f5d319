package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/driveport/driveport/internal/common/errs"
	"github.com/driveport/driveport/internal/common/logger"
	"github.com/driveport/driveport/internal/reservation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor identifies the caller of the admission controller. Trust is an
// explicit property of the authenticated caller, never inferred from which
// request fields are populated.
type Actor struct {
	AdminID string
	IsAdmin bool
}

// ReservationStore is the write side the admission controller needs. The
// guarded methods run the supplied guard and the write inside one
// transaction holding a per-vehicle lock.
type ReservationStore interface {
	reservation.Source
	FindByID(ctx context.Context, id string) (*reservation.Reservation, error)
	CreateGuarded(ctx context.Context, res *reservation.Reservation, guard func(ctx context.Context, src reservation.Source) error) error
	UpdateGuarded(ctx context.Context, res *reservation.Reservation, guard func(ctx context.Context, src reservation.Source) error) error
}

// Admission is the single write path for reservations: it validates the
// request, re-runs the availability check as a guard immediately before
// insert, prices the booking, and commits.
type Admission struct {
	availability *Availability
	reservations ReservationStore
	vehicles     VehicleSource
	log          logger.Logger
}

func NewAdmission(availability *Availability, reservations ReservationStore, vehicles VehicleSource, log logger.Logger) *Admission {
	return &Admission{
		availability: availability,
		reservations: reservations,
		vehicles:     vehicles,
		log:          log,
	}
}

// ReservationRequest is the inbound booking request. On the public path the
// vehicle, location, full window and all customer fields are required; the
// admin path may omit any of them.
type ReservationRequest struct {
	VehicleID  string     `json:"vehicleId"`
	LocationID string     `json:"locationId"`
	PickupDate *time.Time `json:"pickupDate"`
	PickupTime string     `json:"pickupTime"`
	ReturnDate *time.Time `json:"returnDate"`
	ReturnTime string     `json:"returnTime"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	IDNumber  string `json:"idNumber"`
	Notes     string `json:"notes"`

	Deposit       float64  `json:"deposit"`
	OverridePrice *float64 `json:"overridePrice"`

	// Status may only be set by a trusted actor; defaults to CONFIRMED on
	// the admin path.
	Status reservation.Status `json:"status"`
}

// Create admits a booking request.
//
// The availability guard runs only when a vehicle is specified AND the actor
// is not trusted: an admin may force-book or record a booking with
// incomplete vehicle/date information.
func (s *Admission) Create(ctx context.Context, actor Actor, req ReservationRequest) (*reservation.Reservation, error) {
	if err := validateRequest(actor, req); err != nil {
		return nil, err
	}

	w, hasWindow, err := requestWindow(req)
	if err != nil {
		return nil, err
	}
	if hasWindow && !w.Return.After(w.Pickup) {
		return nil, fmt.Errorf("%w: return must be after pickup", errs.ErrValidation)
	}

	price, err := s.resolvePrice(ctx, req, w, hasWindow)
	if err != nil {
		return nil, err
	}

	status := reservation.StatusPending
	if actor.IsAdmin {
		status = reservation.StatusConfirmed
		if req.Status != "" {
			if !reservation.ValidStatus(req.Status) {
				return nil, fmt.Errorf("%w: invalid status %q", errs.ErrValidation, req.Status)
			}
			status = req.Status
		}
	}

	res := &reservation.Reservation{
		ID:         uuid.NewString(),
		VehicleID:  optional(req.VehicleID),
		LocationID: optional(req.LocationID),
		PickupDate: req.PickupDate,
		PickupTime: strings.TrimSpace(req.PickupTime),
		ReturnDate: req.ReturnDate,
		ReturnTime: strings.TrimSpace(req.ReturnTime),
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:      strings.TrimSpace(req.Phone),
		IDNumber:   strings.TrimSpace(req.IDNumber),
		Notes:      strings.TrimSpace(req.Notes),
		TotalPrice: price,
		Deposit:    req.Deposit,
		Status:     status,
	}

	var guard func(ctx context.Context, src reservation.Source) error
	if req.VehicleID != "" && !actor.IsAdmin {
		guard = s.availabilityGuard(req.VehicleID, w, "")
	}

	if err := s.reservations.CreateGuarded(ctx, res, guard); err != nil {
		return nil, mapStoreErr(err)
	}
	if s.log != nil {
		s.log.Infof("reservation %s admitted status=%s vehicle=%v", res.ID, res.Status, req.VehicleID)
	}
	return res, nil
}

// ReservationPatch is a partial update from the back office. Nil fields are
// left unchanged.
type ReservationPatch struct {
	Status     *reservation.Status `json:"status"`
	Notes      *string             `json:"notes"`
	PickupDate *time.Time          `json:"pickupDate"`
	PickupTime *string             `json:"pickupTime"`
	ReturnDate *time.Time          `json:"returnDate"`
	ReturnTime *string             `json:"returnTime"`
}

func (p ReservationPatch) touchesWindow() bool {
	return p.PickupDate != nil || p.PickupTime != nil || p.ReturnDate != nil || p.ReturnTime != nil
}

// Update applies a back-office edit. Status changes follow the transition
// table; date edits re-run the availability guard with the reservation
// itself excluded from the overlap universe.
func (s *Admission) Update(ctx context.Context, actor Actor, id string, patch ReservationPatch) (*reservation.Reservation, error) {
	res, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if patch.Status != nil {
		if !reservation.ValidStatus(*patch.Status) {
			return nil, fmt.Errorf("%w: invalid status %q", errs.ErrValidation, *patch.Status)
		}
		if err := reservation.ApplyTransition(res, *patch.Status); err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrValidation, err)
		}
	}
	if patch.Notes != nil {
		res.Notes = strings.TrimSpace(*patch.Notes)
	}
	if patch.PickupDate != nil {
		res.PickupDate = patch.PickupDate
	}
	if patch.PickupTime != nil {
		res.PickupTime = strings.TrimSpace(*patch.PickupTime)
	}
	if patch.ReturnDate != nil {
		res.ReturnDate = patch.ReturnDate
	}
	if patch.ReturnTime != nil {
		res.ReturnTime = strings.TrimSpace(*patch.ReturnTime)
	}

	var guard func(ctx context.Context, src reservation.Source) error
	if patch.touchesWindow() && res.VehicleID != nil && res.Blocking() {
		w, ok, err := WindowOf(*res)
		if err != nil {
			return nil, err
		}
		if ok {
			if !w.Return.After(w.Pickup) {
				return nil, fmt.Errorf("%w: return must be after pickup", errs.ErrValidation)
			}
			guard = s.availabilityGuard(*res.VehicleID, w, res.ID)
		}
	}

	res.Vehicle = nil
	res.Location = nil
	if err := s.reservations.UpdateGuarded(ctx, res, guard); err != nil {
		return nil, mapStoreErr(err)
	}
	return s.Get(ctx, id)
}

func (s *Admission) Get(ctx context.Context, id string) (*reservation.Reservation, error) {
	res, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return res, nil
}

func (s *Admission) availabilityGuard(vehicleID string, w Window, excludeID string) func(ctx context.Context, src reservation.Source) error {
	return func(ctx context.Context, src reservation.Source) error {
		free, err := s.availability.vehicleAvailable(ctx, src, vehicleID, w, excludeID)
		if err != nil {
			return err
		}
		if !free {
			return fmt.Errorf("%w: vehicle %s is already booked for the requested window", errs.ErrSlotUnavailable, vehicleID)
		}
		return nil
	}
}

func (s *Admission) resolvePrice(ctx context.Context, req ReservationRequest, w Window, hasWindow bool) (float64, error) {
	if req.OverridePrice != nil {
		// Manual pricing from the back office is taken verbatim.
		return *req.OverridePrice, nil
	}
	if req.VehicleID == "" || !hasWindow {
		return 0, fmt.Errorf("%w: total price cannot be derived without a vehicle and a complete window", errs.ErrValidation)
	}

	v, err := s.vehicles.FindByID(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: vehicle %s", errs.ErrNotFound, req.VehicleID)
		}
		return 0, mapStoreErr(err)
	}
	return TotalPrice(v.DailyPrice, w.Pickup, w.Return), nil
}

func validateRequest(actor Actor, req ReservationRequest) error {
	if !actor.IsAdmin {
		for field, value := range map[string]string{
			"vehicleId":  req.VehicleID,
			"locationId": req.LocationID,
			"pickupTime": req.PickupTime,
			"returnTime": req.ReturnTime,
			"firstName":  req.FirstName,
			"lastName":   req.LastName,
			"email":      req.Email,
			"phone":      req.Phone,
			"idNumber":   req.IDNumber,
		} {
			if strings.TrimSpace(value) == "" {
				return fmt.Errorf("%w: %s is required", errs.ErrValidation, field)
			}
		}
		if req.PickupDate == nil || req.ReturnDate == nil {
			return fmt.Errorf("%w: pickup and return dates are required", errs.ErrValidation)
		}
		if req.Status != "" {
			return fmt.Errorf("%w: status cannot be set on a public booking", errs.ErrValidation)
		}
		if req.OverridePrice != nil {
			return fmt.Errorf("%w: price cannot be overridden on a public booking", errs.ErrValidation)
		}
		return nil
	}

	// Admin records may be partial, but a date without its paired time (or
	// the reverse) cannot be evaluated later and is rejected outright.
	if (req.PickupDate != nil) != (strings.TrimSpace(req.PickupTime) != "") {
		return fmt.Errorf("%w: pickup date and time must be set together", errs.ErrValidation)
	}
	if (req.ReturnDate != nil) != (strings.TrimSpace(req.ReturnTime) != "") {
		return fmt.Errorf("%w: return date and time must be set together", errs.ErrValidation)
	}
	return nil
}

func requestWindow(req ReservationRequest) (Window, bool, error) {
	if req.PickupDate == nil || req.ReturnDate == nil ||
		strings.TrimSpace(req.PickupTime) == "" || strings.TrimSpace(req.ReturnTime) == "" {
		return Window{}, false, nil
	}
	pickup, err := CombineDateTime(*req.PickupDate, strings.TrimSpace(req.PickupTime))
	if err != nil {
		return Window{}, false, err
	}
	ret, err := CombineDateTime(*req.ReturnDate, strings.TrimSpace(req.ReturnTime))
	if err != nil {
		return Window{}, false, err
	}
	return Window{Pickup: pickup, Return: ret}, true, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
