package middleware

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCircuitBreakerTripsAndRecovers(t *testing.T) {
	cb := NewCircuitBreaker("test", 2, 20*time.Millisecond)
	ctx := context.Background()
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		if err := cb.Call(ctx, func() error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
	}
	if cb.GetState() != StateOpen {
		t.Fatalf("expected open state after %d failures", 2)
	}

	if err := cb.Call(ctx, func() error { return nil }); !errors.Is(err, ErrBreakerOpen) {
		t.Fatalf("expected ErrBreakerOpen, got %v", err)
	}

	time.Sleep(25 * time.Millisecond)
	if err := cb.Call(ctx, func() error { return nil }); err != nil {
		t.Fatalf("expected probe call to pass, got %v", err)
	}
	if cb.GetState() != StateClosed {
		t.Fatalf("expected closed state after successful probe")
	}
}
