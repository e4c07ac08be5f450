package grid

import (
	"testing"
	"time"
)

type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	wasPending := !t.stopped && !t.fired
	t.stopped = true
	return wasPending
}

// manualClock 只在测试显式推进时触发定时器
type manualClock struct {
	timers []*manualTimer
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &manualTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// fire 触发所有时长为 d 且仍在等待的定时器
func (c *manualClock) fire(d time.Duration) int {
	n := 0
	for _, t := range c.timers {
		if t.d == d && !t.stopped && !t.fired {
			t.fired = true
			t.f()
			n++
		}
	}
	return n
}

func (c *manualClock) pending(d time.Duration) int {
	n := 0
	for _, t := range c.timers {
		if t.d == d && !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func TestScrollTrackerSettle(t *testing.T) {
	clock := &manualClock{}
	tracker := NewScrollTracker(clock, 40, 0)

	var changes []bool
	tracker.OnScrollingChange = func(s bool) { changes = append(changes, s) }

	tracker.Scroll(10)
	tracker.Scroll(20)
	tracker.Scroll(30)

	if !tracker.Scrolling() {
		t.Fatal("expected scrolling")
	}
	if got := clock.pending(DefaultSettleDelay); got != 1 {
		t.Fatalf("expected exactly one pending settle timer, got %d", got)
	}
	if got := clock.pending(DefaultFrameDelay); got != 1 {
		t.Fatalf("expected exactly one pending frame request, got %d", got)
	}

	clock.fire(DefaultSettleDelay)
	if tracker.Scrolling() {
		t.Error("expected scrolling to settle")
	}
	if len(changes) != 2 || !changes[0] || changes[1] {
		t.Errorf("expected [true false], got %v", changes)
	}
}

func TestScrollTrackerFrame(t *testing.T) {
	clock := &manualClock{}
	tracker := NewScrollTracker(clock, 40, 200*time.Millisecond)

	var offsets []float64
	tracker.OnOffset = func(o float64) { offsets = append(offsets, o) }

	tracker.Scroll(5)
	tracker.Scroll(100)
	clock.fire(DefaultFrameDelay)

	tracker.Scroll(110)
	clock.fire(DefaultFrameDelay)

	tracker.Scroll(200)
	clock.fire(DefaultFrameDelay)

	if len(offsets) != 2 || offsets[0] != 100 || offsets[1] != 200 {
		t.Errorf("expected [100 200], got %v", offsets)
	}
	if tracker.Offset() != 200 {
		t.Errorf("offset = %v", tracker.Offset())
	}
	if got := clock.pending(200 * time.Millisecond); got != 1 {
		t.Errorf("expected custom settle delay, got %d pending", got)
	}
}

func TestScrollTrackerStop(t *testing.T) {
	clock := &manualClock{}
	tracker := NewScrollTracker(clock, 40, 0)
	called := false
	tracker.OnOffset = func(float64) { called = true }

	tracker.Scroll(100)
	tracker.Stop()

	if n := clock.fire(DefaultFrameDelay); n != 0 {
		t.Errorf("expected no timers after stop, %d fired", n)
	}
	if called {
		t.Error("offset callback should not run after stop")
	}
}
