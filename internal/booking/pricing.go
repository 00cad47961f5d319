package booking

import (
	"math"
	"time"
)

// TotalPrice derives a rental total from the daily rate and the booking
// window: the day span rounded up, never below one day. Inverted instants
// are normalized by absolute value; ordering validation is the admission
// controller's job.
func TotalPrice(dailyRate float64, pickup, ret time.Time) float64 {
	span := ret.Sub(pickup)
	if span < 0 {
		span = -span
	}
	days := math.Ceil(span.Hours() / 24)
	if days < 1 {
		days = 1
	}
	return dailyRate * days
}
