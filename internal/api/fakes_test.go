package api_test

import (
	"context"
	"fmt"

	"github.com/driveport/driveport/internal/reservation"
	"github.com/driveport/driveport/internal/vehicle"
	"gorm.io/gorm"
)

// fakeStore backs both the admission controller and the directory reads with
// an in-memory slice.
type fakeStore struct {
	reservations []reservation.Reservation
}

func (f *fakeStore) ActiveByVehicle(ctx context.Context, vehicleID, excludeID string) ([]reservation.Reservation, error) {
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

func (f *fakeStore) FindByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	for i := range f.reservations {
		if f.reservations[i].ID == id {
			r := f.reservations[i]
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) CreateGuarded(ctx context.Context, res *reservation.Reservation, guard func(ctx context.Context, src reservation.Source) error) error {
	if guard != nil && res.VehicleID != nil {
		if err := guard(ctx, f); err != nil {
			return err
		}
	}
	f.reservations = append(f.reservations, *res)
	return nil
}

func (f *fakeStore) UpdateGuarded(ctx context.Context, res *reservation.Reservation, guard func(ctx context.Context, src reservation.Source) error) error {
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

func (f *fakeStore) List(ctx context.Context, status reservation.Status, offset, limit int) ([]reservation.Reservation, int64, error) {
	var out []reservation.Reservation
	for _, r := range f.reservations {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) ListByEmail(ctx context.Context, email string) ([]reservation.Reservation, error) {
	var out []reservation.Reservation
	for _, r := range f.reservations {
		if r.Email == email {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	for i := range f.reservations {
		if f.reservations[i].ID == id {
			f.reservations = append(f.reservations[:i], f.reservations[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) CountByStatus(ctx context.Context) ([]reservation.StatusCount, error) {
	byStatus := map[reservation.Status]int64{}
	for _, r := range f.reservations {
		byStatus[r.Status]++
	}
	var out []reservation.StatusCount
	for status, count := range byStatus {
		out = append(out, reservation.StatusCount{Status: status, Count: count})
	}
	return out, nil
}

func (f *fakeStore) RevenueByDay(ctx context.Context, days int) ([]reservation.DailyRevenue, error) {
	return []reservation.DailyRevenue{}, nil
}

func (f *fakeStore) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	for _, r := range f.reservations {
		if r.Status == reservation.StatusConfirmed || r.Status == reservation.StatusCompleted {
			total += r.TotalPrice
		}
	}
	return total, nil
}

type fakeFleet struct {
	vehicles   map[string]*vehicle.Vehicle
	byLocation map[string][]vehicle.Vehicle
}

func (f *fakeFleet) FindByID(ctx context.Context, id string) (*vehicle.Vehicle, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (f *fakeFleet) ActiveByLocation(ctx context.Context, locationID string) ([]vehicle.Vehicle, error) {
	return f.byLocation[locationID], nil
}
