package admin

import "time"

const RoleAdmin = "admin"

// Admin is the GORM model for back-office accounts. Email is the login key.
type Admin struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:128;not null" json:"email"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	Name         string    `gorm:"size:64" json:"name"`
	Role         string    `gorm:"size:32;not null" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
