// Package loop provides a single-goroutine event loop and timers whose
// callbacks are delivered on that loop.
package loop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrRunning is returned by Run when the loop is already running.
var ErrRunning = errors.New("loop is already running")

// Loop executes posted functions one at a time, in posting order, on the
// goroutine that calls Run. Handlers never run concurrently, so state owned
// by the loop needs no locking.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	running atomic.Bool
}

// New returns a new Loop.
func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
	}
}

// Post schedules fn to run on the loop. Post never blocks and is safe to
// call from any goroutine, including from a handler running on the loop.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}

	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Call posts fn and waits until it has run or ctx is done.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes posted functions until ctx is done. Functions still queued
// when ctx is done are discarded.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer l.running.Store(false)

	for {
		for _, fn := range l.drain() {
			if ctx.Err() != nil {
				return nil
			}
			fn()
		}

		select {
		case <-ctx.Done():
			return nil
		case <-l.wake:
		}
	}
}

// drain takes ownership of the queued functions.
func (l *Loop) drain() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	batch := l.queue
	l.queue = nil
	return batch
}
