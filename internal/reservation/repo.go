package reservation

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Source is the read side the availability resolver needs. Implemented by
// Repo both standalone and bound to a transaction.
type Source interface {
	ActiveByVehicle(ctx context.Context, vehicleID, excludeID string) ([]Reservation, error)
}

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

// ActiveByVehicle returns the PENDING/CONFIRMED reservations for a vehicle,
// excluding excludeID when set (used when re-checking an edit-in-place).
func (r *Repo) ActiveByVehicle(ctx context.Context, vehicleID, excludeID string) ([]Reservation, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	q := db.Where("vehicle_id = ? AND status IN ?", vehicleID, []Status{StatusPending, StatusConfirmed})
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var reservations []Reservation
	if err := q.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// CreateGuarded inserts the reservation inside a transaction. When guard is
// non-nil and the reservation references a vehicle, the vehicle row is
// locked (SELECT ... FOR UPDATE) for the duration of guard+insert so two
// concurrent admissions for the same vehicle serialize instead of racing
// check-then-act.
func (r *Repo) CreateGuarded(ctx context.Context, res *Reservation, guard func(ctx context.Context, src Source) error) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if guard != nil && res.VehicleID != nil {
			if err := lockVehicleRow(tx, *res.VehicleID); err != nil {
				return err
			}
			if err := guard(ctx, &Repo{db: tx}); err != nil {
				return err
			}
		}
		return tx.Omit("Vehicle", "Location").Create(res).Error
	})
}

// UpdateGuarded saves the reservation under the same per-vehicle lock
// discipline as CreateGuarded.
func (r *Repo) UpdateGuarded(ctx context.Context, res *Reservation, guard func(ctx context.Context, src Source) error) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if guard != nil && res.VehicleID != nil {
			if err := lockVehicleRow(tx, *res.VehicleID); err != nil {
				return err
			}
			if err := guard(ctx, &Repo{db: tx}); err != nil {
				return err
			}
		}
		return tx.Omit("Vehicle", "Location").Save(res).Error
	})
}

func lockVehicleRow(tx *gorm.DB, vehicleID string) error {
	var locked struct{ ID string }
	return tx.Table("vehicles").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", vehicleID).
		Take(&locked).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Reservation, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var res Reservation
	if err := db.Preload("Vehicle").Preload("Location").Where("id = ?", id).First(&res).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

// List supports optional status filtering plus pagination, newest first.
func (r *Repo) List(ctx context.Context, status Status, offset, limit int) ([]Reservation, int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, 0, fmt.Errorf("repo db is nil")
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := db.Model(&Reservation{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reservations []Reservation
	if err := q.Preload("Vehicle").Preload("Location").
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&reservations).Error; err != nil {
		return nil, 0, err
	}
	return reservations, total, nil
}

// ListByEmail returns a customer's reservations, newest first.
func (r *Repo) ListByEmail(ctx context.Context, email string) ([]Reservation, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var reservations []Reservation
	err := db.Preload("Vehicle").Preload("Location").
		Where("email = ?", email).
		Order("created_at DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Delete(&Reservation{}, "id = ?", id).Error
}

// StatusCount is one row of the dashboard status breakdown.
type StatusCount struct {
	Status Status `json:"status"`
	Count  int64  `json:"count"`
}

func (r *Repo) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var counts []StatusCount
	err := db.Model(&Reservation{}).
		Select("status, COUNT(id) as count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// DailyRevenue is one row of the dashboard revenue chart.
type DailyRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// RevenueByDay sums confirmed/completed reservation totals per creation day
// over the trailing period.
func (r *Repo) RevenueByDay(ctx context.Context, days int) ([]DailyRevenue, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	if days <= 0 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days)

	var results []DailyRevenue
	err := db.Model(&Reservation{}).
		Select("DATE_FORMAT(created_at, '%Y-%m-%d') as date, SUM(total_price) as revenue").
		Where("status IN ? AND created_at >= ?", []Status{StatusConfirmed, StatusCompleted}, since).
		Group("DATE_FORMAT(created_at, '%Y-%m-%d')").
		Order("date ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// TotalRevenue sums confirmed/completed reservation totals.
func (r *Repo) TotalRevenue(ctx context.Context) (float64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return 0, fmt.Errorf("repo db is nil")
	}
	var total *float64
	err := db.Model(&Reservation{}).
		Select("SUM(total_price)").
		Where("status IN ?", []Status{StatusConfirmed, StatusCompleted}).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
