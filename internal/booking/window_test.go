package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/driveport/driveport/internal/common/errs"
	"github.com/driveport/driveport/internal/reservation"
	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2025, time.May, d, 0, 0, 0, 0, time.Local)
}

func at(d, hour int) time.Time {
	return time.Date(2025, time.May, d, hour, 0, 0, 0, time.Local)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Window
		want bool
	}{
		{
			name: "touching boundary is not overlap",
			a:    Window{at(1, 10), at(1, 12)},
			b:    Window{at(1, 12), at(1, 14)},
			want: false,
		},
		{
			name: "partial overlap",
			a:    Window{at(1, 10), at(1, 12)},
			b:    Window{at(1, 11), at(1, 13)},
			want: true,
		},
		{
			name: "full containment",
			a:    Window{at(1, 10), at(1, 14)},
			b:    Window{at(1, 11), at(1, 12)},
			want: true,
		},
		{
			name: "disjoint",
			a:    Window{at(1, 8), at(1, 9)},
			b:    Window{at(1, 12), at(1, 14)},
			want: false,
		},
		{
			name: "multi-day overlap",
			a:    Window{at(1, 10), at(3, 10)},
			b:    Window{at(2, 10), at(4, 10)},
			want: true,
		},
		{
			name: "back-to-back days",
			a:    Window{at(1, 10), at(3, 10)},
			b:    Window{at(3, 10), at(5, 10)},
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			// Overlap is symmetric.
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a))
		})
	}
}

func TestCombineDateTime(t *testing.T) {
	got, err := CombineDateTime(day(10), "09:30")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.May, 10, 9, 30, 0, 0, time.Local), got)

	// Seconds and sub-seconds of the date are discarded.
	noisy := time.Date(2025, time.May, 10, 17, 45, 33, 123, time.Local)
	got, err = CombineDateTime(noisy, "08:15")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.May, 10, 8, 15, 0, 0, time.Local), got)
}

func TestCombineDateTimeMalformed(t *testing.T) {
	for _, bad := range []string{"", "10", "10:00:00", "aa:bb", "24:00", "-1:30", "10:60", "10:-5"} {
		_, err := CombineDateTime(day(1), bad)
		if !errors.Is(err, errs.ErrMalformedTime) {
			t.Fatalf("expected ErrMalformedTime for %q, got %v", bad, err)
		}
	}
}

func TestWindowOf(t *testing.T) {
	pickup := day(10)
	ret := day(12)

	full := reservation.Reservation{
		PickupDate: &pickup, PickupTime: "10:00",
		ReturnDate: &ret, ReturnTime: "10:00",
	}
	w, ok, err := WindowOf(full)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, at(10, 10), w.Pickup)
	assert.Equal(t, at(12, 10), w.Return)

	partial := reservation.Reservation{PickupDate: &pickup, PickupTime: "10:00"}
	_, ok, err = WindowOf(partial)
	assert.NoError(t, err)
	assert.False(t, ok)

	malformed := reservation.Reservation{
		PickupDate: &pickup, PickupTime: "25:00",
		ReturnDate: &ret, ReturnTime: "10:00",
	}
	_, _, err = WindowOf(malformed)
	assert.ErrorIs(t, err, errs.ErrMalformedTime)
}
