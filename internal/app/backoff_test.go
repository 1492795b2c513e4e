package app

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBackoff_Next(t *testing.T) {
	b := NewBackoff(100*time.Millisecond, 400*time.Millisecond)

	wantBase := []time.Duration{100, 200, 400, 400}
	for i, base := range wantBase {
		base *= time.Millisecond
		if b.Current() != base {
			t.Fatalf("attempt %d: Current() = %v, want %v", i, b.Current(), base)
		}
		d := b.Next()
		lo, hi := time.Duration(float64(base)*0.8), time.Duration(float64(base)*1.2)
		if d < lo || d > hi {
			t.Errorf("attempt %d: Next() = %v, want within [%v, %v]", i, d, lo, hi)
		}
	}

	b.Reset()
	if b.Current() != 100*time.Millisecond {
		t.Errorf("Current() after Reset = %v", b.Current())
	}
}

func TestNewBackoff_Defaults(t *testing.T) {
	b := NewBackoff(0, 0)
	if b.Current() != DefaultBackoffInitial {
		t.Errorf("Current() = %v, want %v", b.Current(), DefaultBackoffInitial)
	}
	if b.max != DefaultBackoffMax {
		t.Errorf("max = %v, want %v", b.max, DefaultBackoffMax)
	}

	b = NewBackoff(time.Minute, time.Second)
	if b.max != time.Minute {
		t.Errorf("max = %v, want initial when default is smaller", b.max)
	}
}

func TestBackoff_WaitCanceled(t *testing.T) {
	b := NewBackoff(time.Hour, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := b.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() = %v, want context.Canceled", err)
	}
}

func TestBackoff_Wait(t *testing.T) {
	b := NewBackoff(time.Millisecond, time.Millisecond)
	if err := b.Wait(context.Background()); err != nil {
		t.Errorf("Wait() = %v", err)
	}
}
