package loop

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Timer is a handle to a repeating schedule.
type Timer interface {
	// Stop cancels the schedule. After Stop returns on the loop goroutine
	// the callback is never invoked again.
	Stop()
}

// Scheduler schedules repeating callbacks.
type Scheduler interface {
	// Every invokes fn once per period d until the returned Timer is stopped.
	// The first invocation happens one period after the call.
	Every(d time.Duration, fn func()) Timer
}

// TimerScheduler delivers repeating callbacks on a Loop.
type TimerScheduler struct {
	loop *Loop
}

var _ Scheduler = (*TimerScheduler)(nil)

// NewTimerScheduler returns a Scheduler whose callbacks run on loop.
func NewTimerScheduler(loop *Loop) *TimerScheduler {
	if loop == nil {
		panic("loop is nil")
	}
	return &TimerScheduler{loop: loop}
}

// Every implements Scheduler.
func (s *TimerScheduler) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		panic(fmt.Sprintf("invalid period: %v", d))
	}

	t := &loopTimer{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.run(s.loop, fn)
	return t
}

type loopTimer struct {
	ticker  *time.Ticker
	done    chan struct{}
	stopped atomic.Bool
	once    sync.Once
}

func (t *loopTimer) run(loop *Loop, fn func()) {
	defer t.ticker.Stop()
	for {
		select {
		case <-t.ticker.C:
			loop.Post(func() {
				// ticks queued before Stop are dropped
				if !t.stopped.Load() {
					fn()
				}
			})
		case <-t.done:
			return
		}
	}
}

func (t *loopTimer) Stop() {
	t.once.Do(func() {
		t.stopped.Store(true)
		close(t.done)
	})
}
