package vehicle

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

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

// Create inserts the vehicle and its location attachments in one transaction.
func (r *Repo) Create(ctx context.Context, v *Vehicle, locationIDs []string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(v).Error; err != nil {
			return err
		}
		for _, locID := range locationIDs {
			if err := tx.Create(&VehicleLocation{VehicleID: v.ID, LocationID: locID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Update saves the vehicle and atomically replaces its location set.
func (r *Repo) Update(ctx context.Context, v *Vehicle, locationIDs []string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Locations").Save(v).Error; err != nil {
			return err
		}
		if err := tx.Where("vehicle_id = ?", v.ID).Delete(&VehicleLocation{}).Error; err != nil {
			return err
		}
		for _, locID := range locationIDs {
			if err := tx.Create(&VehicleLocation{VehicleID: v.ID, LocationID: locID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete hard-deletes the vehicle and its location attachments.
func (r *Repo) Delete(ctx context.Context, id string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vehicle_id = ?", id).Delete(&VehicleLocation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Vehicle{}, "id = ?", id).Error
	})
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var v Vehicle
	if err := db.Preload("Locations.Location").Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Repo) FindByPlate(ctx context.Context, plate string) (*Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var v Vehicle
	if err := db.Where("plate = ?", plate).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// List returns vehicles, optionally restricted to active ones.
func (r *Repo) List(ctx context.Context, activeOnly bool) ([]Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	q := db.Preload("Locations.Location").Order("created_at desc")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var vehicles []Vehicle
	if err := q.Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// ActiveByLocation returns active vehicles attached to the branch, in store
// order.
func (r *Repo) ActiveByLocation(ctx context.Context, locationID string) ([]Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var vehicles []Vehicle
	err := db.
		Joins("JOIN vehicle_locations vl ON vl.vehicle_id = vehicles.id").
		Where("vl.location_id = ? AND vehicles.is_active = ?", locationID, true).
		Preload("Locations.Location").
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}
