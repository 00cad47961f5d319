package reservation

import (
	"testing"
	"time"
)

func TestCanTransitionAndApply(t *testing.T) {
	if !CanTransition(StatusPending, StatusConfirmed) {
		t.Fatalf("expected pending -> confirmed allowed")
	}
	if !CanTransition(StatusConfirmed, StatusCompleted) {
		t.Fatalf("expected confirmed -> completed allowed")
	}
	if CanTransition(StatusPending, StatusCompleted) {
		t.Fatalf("expected pending -> completed not allowed")
	}
	if CanTransition(StatusCancelled, StatusPending) {
		t.Fatalf("expected cancelled to be terminal")
	}

	r := &Reservation{Status: StatusPending}
	if err := ApplyTransition(r, StatusConfirmed); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}
	if r.Status != StatusConfirmed {
		t.Fatalf("expected status confirmed, got %s", r.Status)
	}

	if err := ApplyTransition(r, StatusPending); err == nil {
		t.Fatalf("expected backwards transition to fail")
	}
}

func TestBlocking(t *testing.T) {
	for _, tc := range []struct {
		status Status
		want   bool
	}{
		{StatusPending, true},
		{StatusConfirmed, true},
		{StatusCompleted, false},
		{StatusCancelled, false},
	} {
		r := Reservation{Status: tc.status}
		if got := r.Blocking(); got != tc.want {
			t.Fatalf("Blocking() for %s = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestHasCompleteWindow(t *testing.T) {
	day := time.Date(2025, 5, 10, 0, 0, 0, 0, time.Local)

	full := Reservation{PickupDate: &day, ReturnDate: &day, PickupTime: "10:00", ReturnTime: "10:00"}
	if !full.HasCompleteWindow() {
		t.Fatalf("expected complete window")
	}

	missingTime := Reservation{PickupDate: &day, ReturnDate: &day, PickupTime: "10:00"}
	if missingTime.HasCompleteWindow() {
		t.Fatalf("expected incomplete window when return time missing")
	}

	empty := Reservation{}
	if empty.HasCompleteWindow() {
		t.Fatalf("expected incomplete window for empty reservation")
	}
}
