package reservation

import (
	"fmt"
	"time"

	"github.com/driveport/driveport/internal/location"
	"github.com/driveport/driveport/internal/vehicle"
)

// Status is the reservation lifecycle state (persisted as a string).
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// AllowTransition defines the permitted status transitions. COMPLETED and
// CANCELLED are terminal.
var AllowTransition = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition reports whether from -> to is permitted.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	allowed, ok := AllowTransition[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// ApplyTransition moves the reservation to the target status, enforcing the
// transition table.
func ApplyTransition(r *Reservation, to Status) error {
	if r == nil {
		return fmt.Errorf("reservation is nil")
	}
	if !CanTransition(r.Status, to) {
		return fmt.Errorf("invalid reservation status transition: %s -> %s", r.Status, to)
	}
	r.Status = to
	return nil
}

// Reservation is the GORM model for bookings. Vehicle, location and the four
// window fields are all optional: the back office may record a booking made
// outside the standard flow with any of them missing. Pickup/return are kept
// as separate date and HH:MM time-of-day columns to match the stored format.
type Reservation struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	VehicleID  *string    `gorm:"index;size:36" json:"vehicleId,omitempty"`
	LocationID *string    `gorm:"index;size:36" json:"locationId,omitempty"`
	PickupDate *time.Time `json:"pickupDate,omitempty"`
	PickupTime string     `gorm:"size:5" json:"pickupTime,omitempty"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
	ReturnTime string     `gorm:"size:5" json:"returnTime,omitempty"`

	FirstName string `gorm:"size:64" json:"firstName"`
	LastName  string `gorm:"size:64" json:"lastName"`
	Email     string `gorm:"index;size:128" json:"email"`
	Phone     string `gorm:"size:32" json:"phone"`
	IDNumber  string `gorm:"size:32" json:"idNumber"`
	Notes     string `gorm:"size:1024" json:"notes,omitempty"`

	TotalPrice float64 `gorm:"not null" json:"totalPrice"`
	Deposit    float64 `gorm:"not null" json:"deposit"`
	Status     Status  `gorm:"type:varchar(16);index;not null" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Vehicle  *vehicle.Vehicle   `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Location *location.Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
}

// Blocking reports whether the reservation occupies its booking window.
// Cancelled and completed reservations free their window.
func (r Reservation) Blocking() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// HasCompleteWindow reports whether all four date/time fields are present.
// Reservations with a partial window are administrative records and are
// never considered for overlap checking.
func (r Reservation) HasCompleteWindow() bool {
	return r.PickupDate != nil && r.ReturnDate != nil && r.PickupTime != "" && r.ReturnTime != ""
}
