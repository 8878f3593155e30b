package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTriggerCoalescesBurst(t *testing.T) {
	var calls atomic.Int64
	d := New(20*time.Millisecond, func() { calls.Add(1) })

	for i := 0; i < 5; i++ {
		d.Trigger()
	}

	time.Sleep(100 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 invocation, got %d", got)
	}
}

func TestTriggerReArms(t *testing.T) {
	var calls atomic.Int64
	d := New(15*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	time.Sleep(60 * time.Millisecond)
	d.Trigger()
	time.Sleep(60 * time.Millisecond)

	if got := calls.Load(); got != 2 {
		t.Fatalf("expected re-armed debouncer to fire twice, got %d", got)
	}
}

func TestFlushFiresPendingImmediately(t *testing.T) {
	var calls atomic.Int64
	d := New(time.Hour, func() { calls.Add(1) })

	d.Trigger()
	d.Flush()

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected flush to fire pending invocation, got %d", got)
	}

	d.Flush()
	if got := calls.Load(); got != 1 {
		t.Fatalf("flush without pending trigger should be a no-op, got %d", got)
	}
}

func TestCancelDisarmsPending(t *testing.T) {
	var calls atomic.Int64
	d := New(10*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	d.Cancel()

	time.Sleep(50 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Fatalf("expected cancel to disarm, got %d calls", got)
	}
}

func TestZeroIntervalFiresSynchronously(t *testing.T) {
	ran := false
	d := New(0, func() { ran = true })
	d.Trigger()
	if !ran {
		t.Fatal("expected immediate fire with zero interval")
	}
}
