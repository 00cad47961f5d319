package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/driveport/driveport/internal/common/errs"
	"github.com/driveport/driveport/internal/reservation"
)

// Window is a half-open booking interval [Pickup, Return). Degenerate
// windows (Pickup >= Return) are a caller contract violation; ordering is
// validated at admission, not here.
type Window struct {
	Pickup time.Time
	Return time.Time
}

// Overlaps reports whether the two half-open windows share an instant.
// A shared boundary does not overlap: a rental returned at 10:00 can be
// picked up again at 10:00.
func (w Window) Overlaps(o Window) bool {
	return w.Pickup.Before(o.Return) && o.Pickup.Before(w.Return)
}

// CombineDateTime merges a calendar date with an HH:MM time-of-day string
// into a single instant: the date's year/month/day with hour and minute
// overwritten and seconds zeroed. The instant is built in the server's local
// calendar; no timezone conversion happens, which keeps round-trips with
// stored values consistent.
func CombineDateTime(date time.Time, timeOfDay string) (time.Time, error) {
	hour, minute, err := parseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.Local), nil
}

func parseTimeOfDay(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q is not in HH:MM form", errs.ErrMalformedTime, s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: hour in %q out of range", errs.ErrMalformedTime, s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: minute in %q out of range", errs.ErrMalformedTime, s)
	}
	return hour, minute, nil
}

// WindowOf builds a reservation's booking window. ok is false when any of
// the four date/time fields is missing: partial windows belong to
// administrative records and never enter overlap checks.
func WindowOf(r reservation.Reservation) (w Window, ok bool, err error) {
	if !r.HasCompleteWindow() {
		return Window{}, false, nil
	}
	pickup, err := CombineDateTime(*r.PickupDate, r.PickupTime)
	if err != nil {
		return Window{}, false, err
	}
	ret, err := CombineDateTime(*r.ReturnDate, r.ReturnTime)
	if err != nil {
		return Window{}, false, err
	}
	return Window{Pickup: pickup, Return: ret}, true, nil
}
