package loop

import (
	"fmt"
	"time"
)

// ManualScheduler is a deterministic Scheduler driven by Advance.
// It is not safe for concurrent use.
type ManualScheduler struct {
	now    time.Duration
	timers []*manualTimer
}

var _ Scheduler = (*ManualScheduler)(nil)

// NewManualScheduler returns a ManualScheduler at virtual time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

type manualTimer struct {
	scheduler *ManualScheduler
	period    time.Duration
	next      time.Duration
	fn        func()
	stopped   bool
}

func (t *manualTimer) Stop() {
	if t.stopped {
		return
	}
	t.stopped = true

	timers := t.scheduler.timers[:0]
	for _, other := range t.scheduler.timers {
		if other != t {
			timers = append(timers, other)
		}
	}
	t.scheduler.timers = timers
}

// Every implements Scheduler.
func (m *ManualScheduler) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		panic(fmt.Sprintf("invalid period: %v", d))
	}

	t := &manualTimer{
		scheduler: m,
		period:    d,
		next:      m.now + d,
		fn:        fn,
	}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves virtual time forward by d, firing due callbacks in time
// order. It returns the number of callbacks fired.
func (m *ManualScheduler) Advance(d time.Duration) int {
	target := m.now + d
	fired := 0
	for {
		t := m.earliest()
		if t == nil || t.next > target {
			break
		}
		m.now = t.next
		t.next += t.period
		fired++
		t.fn()
	}
	m.now = target
	return fired
}

// Now returns the current virtual time.
func (m *ManualScheduler) Now() time.Duration {
	return m.now
}

// Active returns the number of timers that have not been stopped.
func (m *ManualScheduler) Active() int {
	return len(m.timers)
}

// Periods returns the periods of the active timers.
func (m *ManualScheduler) Periods() []time.Duration {
	periods := make([]time.Duration, 0, len(m.timers))
	for _, t := range m.timers {
		periods = append(periods, t.period)
	}
	return periods
}

func (m *ManualScheduler) earliest() *manualTimer {
	var next *manualTimer
	for _, t := range m.timers {
		if next == nil || t.next < next.next {
			next = t
		}
	}
	return next
}
