package game

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLatchFiresOnce(t *testing.T) {
	var calls atomic.Int32
	var got []error
	l := NewLatch(10, func(errs []error) {
		calls.Add(1)
		got = errs
	})

	boom := errors.New("boom")
	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%3 == 0 {
				l.Done(boom)
				return
			}
			l.Done(nil)
		}()
	}
	wg.Wait()
	l.Done(nil)

	if calls.Load() != 1 {
		t.Fatalf("onDone called %d times, want 1", calls.Load())
	}
	if len(got) != 4 {
		t.Errorf("errors = %d, want 4", len(got))
	}
	if l.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", l.Remaining())
	}
}

func TestLatchEmptyFiresImmediately(t *testing.T) {
	fired := false
	NewLatch(0, func([]error) { fired = true })
	if !fired {
		t.Fatal("empty latch did not fire")
	}
}

func TestCountdown(t *testing.T) {
	var c Countdown
	c.Start(3, time.Second)

	if c.Advance(500*time.Millisecond) || c.Remaining() != 3 {
		t.Fatalf("remaining = %d, want 3", c.Remaining())
	}
	if c.Advance(500*time.Millisecond) || c.Remaining() != 2 {
		t.Fatalf("remaining = %d, want 2", c.Remaining())
	}
	if !c.Advance(2 * time.Second) {
		t.Fatal("countdown did not fire")
	}
	if c.Active() || c.Advance(time.Second) {
		t.Fatal("countdown fired twice")
	}
}

func TestCountdownCancel(t *testing.T) {
	var c Countdown
	c.Start(2, time.Second)
	c.Advance(time.Second)
	c.Cancel()

	if c.Advance(time.Hour) {
		t.Fatal("cancelled countdown fired")
	}
	if c.Remaining() != 1 {
		t.Errorf("remaining = %d, want 1", c.Remaining())
	}
}
