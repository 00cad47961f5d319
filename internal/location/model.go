package location

import "time"

// Location is the GORM model for rental branches.
type Location struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"size:128;not null" json:"name"`
	Address      string    `gorm:"size:255;not null" json:"address"`
	Phone        string    `gorm:"size:32;not null" json:"phone"`
	WorkingHours string    `gorm:"size:128" json:"workingHours,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
