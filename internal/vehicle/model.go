package vehicle

import (
	"time"

	"github.com/driveport/driveport/internal/location"
)

type Transmission string

const (
	TransmissionManual    Transmission = "MANUAL"
	TransmissionAutomatic Transmission = "AUTOMATIC"
)

type FuelType string

const (
	FuelGasoline FuelType = "GASOLINE"
	FuelDiesel   FuelType = "DIESEL"
	FuelElectric FuelType = "ELECTRIC"
	FuelHybrid   FuelType = "HYBRID"
)

type Category string

const (
	CategoryEconomy Category = "ECONOMY"
	CategoryComfort Category = "COMFORT"
	CategoryLuxury  Category = "LUXURY"
	CategorySUV     Category = "SUV"
)

func ValidTransmission(t Transmission) bool {
	return t == TransmissionManual || t == TransmissionAutomatic
}

func ValidFuelType(f FuelType) bool {
	switch f {
	case FuelGasoline, FuelDiesel, FuelElectric, FuelHybrid:
		return true
	}
	return false
}

func ValidCategory(c Category) bool {
	switch c {
	case CategoryEconomy, CategoryComfort, CategoryLuxury, CategorySUV:
		return true
	}
	return false
}

// Vehicle is the GORM model for fleet vehicles. The plate is the immutable
// business key. IsActive gates visibility in the booking search but not
// direct fetches.
type Vehicle struct {
	ID           string       `gorm:"primaryKey;size:36" json:"id"`
	Brand        string       `gorm:"size:64;not null" json:"brand"`
	Model        string       `gorm:"size:64;not null" json:"model"`
	Year         int          `gorm:"not null" json:"year"`
	Plate        string       `gorm:"uniqueIndex;size:16;not null" json:"plate"`
	Transmission Transmission `gorm:"type:varchar(16);not null" json:"transmission"`
	FuelType     FuelType     `gorm:"type:varchar(16);not null" json:"fuelType"`
	Category     Category     `gorm:"type:varchar(16);not null" json:"category"`
	DailyPrice   float64      `gorm:"not null" json:"dailyPrice"`
	Deposit      float64      `gorm:"not null" json:"deposit"`
	Features     []string     `gorm:"serializer:json" json:"features"`
	Images       []string     `gorm:"serializer:json" json:"images"`
	IsActive     bool         `gorm:"index;not null;default:true" json:"isActive"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime" json:"updatedAt"`

	Locations []VehicleLocation `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"locations,omitempty"`
}

// VehicleLocation is the explicit many-to-many join between vehicles and
// branches.
type VehicleLocation struct {
	VehicleID  string             `gorm:"primaryKey;size:36" json:"vehicleId"`
	LocationID string             `gorm:"primaryKey;size:36" json:"locationId"`
	Location   *location.Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
}
