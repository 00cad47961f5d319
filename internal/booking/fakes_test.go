package booking

import (
	"context"
	"fmt"

	"github.com/driveport/driveport/internal/reservation"
	"github.com/driveport/driveport/internal/vehicle"
	"gorm.io/gorm"
)

// fakeReservations is an in-memory ReservationStore whose guarded writes run
// the guard against itself, mirroring the transactional repo.
type fakeReservations struct {
	reservations []reservation.Reservation
	failWith     error
}

func (f *fakeReservations) ActiveByVehicle(ctx context.Context, vehicleID, excludeID string) ([]reservation.Reservation, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []reservation.Reservation
	for _, r := range f.reservations {
		if r.VehicleID == nil || *r.VehicleID != vehicleID {
			continue
		}
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		if !r.Blocking() {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReservations) FindByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for i := range f.reservations {
		if f.reservations[i].ID == id {
			r := f.reservations[i]
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReservations) CreateGuarded(ctx context.Context, res *reservation.Reservation, guard func(ctx context.Context, src reservation.Source) error) error {
	if f.failWith != nil {
		return f.failWith
	}
	if guard != nil && res.VehicleID != nil {
		if err := guard(ctx, f); err != nil {
			return err
		}
	}
	f.reservations = append(f.reservations, *res)
	return nil
}

func (f *fakeReservations) UpdateGuarded(ctx context.Context, res *reservation.Reservation, guard func(ctx context.Context, src reservation.Source) error) error {
	if f.failWith != nil {
		return f.failWith
	}
	if guard != nil && res.VehicleID != nil {
		if err := guard(ctx, f); err != nil {
			return err
		}
	}
	for i := range f.reservations {
		if f.reservations[i].ID == res.ID {
			f.reservations[i] = *res
			return nil
		}
	}
	return fmt.Errorf("reservation %s not stored", res.ID)
}

func (f *fakeReservations) setStatus(id string, status reservation.Status) {
	for i := range f.reservations {
		if f.reservations[i].ID == id {
			f.reservations[i].Status = status
		}
	}
}

type fakeVehicles struct {
	vehicles   map[string]*vehicle.Vehicle
	byLocation map[string][]vehicle.Vehicle
	failWith   error
}

func (f *fakeVehicles) FindByID(ctx context.Context, id string) (*vehicle.Vehicle, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	v, ok := f.vehicles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (f *fakeVehicles) ActiveByLocation(ctx context.Context, locationID string) ([]vehicle.Vehicle, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.byLocation[locationID], nil
}
