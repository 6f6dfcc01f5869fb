// Package monitor implements the memory usage monitor: a repeating check
// of system memory that notifies once per episode of usage at or above a
// threshold.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/reugn/memwarn"
	"github.com/reugn/memwarn/loop"
	"go.uber.org/zap"
)

const (
	// NotificationTitle is the title of the threshold notification.
	NotificationTitle = "Memory usage alert!"
	// NotificationIcon is the freedesktop icon name of the threshold notification.
	NotificationIcon = "dialog-warning"

	defaultReadTimeout = 2 * time.Second
)

// Controller owns the monitor state and reacts to commands and timer ticks.
//
// Controller is not safe for concurrent use: every method must be called
// from the goroutine that delivers the scheduler callbacks, typically the
// loop.Loop goroutine.
type Controller struct {
	reader    memwarn.MemoryReader
	notifier  memwarn.Notifier
	display   memwarn.Display
	scheduler loop.Scheduler
	logger    *zap.Logger

	readTimeout time.Duration

	state State
	timer loop.Timer
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithState sets the initial state. Threshold and interval are clamped and
// the controller always starts stopped.
func WithState(state State) Option {
	return func(c *Controller) {
		c.state = State{
			ThresholdPercent: ClampThreshold(state.ThresholdPercent),
			IntervalSeconds:  ClampInterval(state.IntervalSeconds),
			Armed:            state.Armed,
		}
	}
}

// WithReadTimeout bounds each metrics read.
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Controller) {
		if timeout > 0 {
			c.readTimeout = timeout
		}
	}
}

// NewController returns a stopped Controller with the default state.
func NewController(
	reader memwarn.MemoryReader,
	notifier memwarn.Notifier,
	display memwarn.Display,
	scheduler loop.Scheduler,
	opts ...Option,
) *Controller {
	if reader == nil || notifier == nil || display == nil || scheduler == nil {
		panic("monitor: nil collaborator")
	}

	c := &Controller{
		reader:      reader,
		notifier:    notifier,
		display:     display,
		scheduler:   scheduler,
		logger:      zap.NewNop(),
		readTimeout: defaultReadTimeout,
		state:       DefaultState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the monitor state.
func (c *Controller) State() State {
	return c.state
}

// Start begins periodic checks at the current interval. It reports false
// if the monitor is already running.
func (c *Controller) Start() bool {
	if c.state.Running {
		return false
	}

	c.state.Running = true
	c.schedule()
	c.logger.Info("monitoring started",
		zap.Float64("threshold", c.state.ThresholdPercent),
		zap.Int("interval", c.state.IntervalSeconds))
	c.display.ShowStatus(memwarn.StatusRunning)
	return true
}

// Stop cancels periodic checks. It reports false if the monitor is not
// running. The armed flag is kept as is.
func (c *Controller) Stop() bool {
	if !c.state.Running {
		return false
	}

	c.cancel()
	c.state.Running = false
	c.logger.Info("monitoring stopped")
	c.display.ShowStatus(memwarn.StatusStopped)
	return true
}

// SetThreshold clamps v to [10, 100], applies it and re-arms the
// notification. It returns the effective threshold.
func (c *Controller) SetThreshold(v float64) float64 {
	threshold := ClampThreshold(v)
	if threshold != v {
		c.logger.Debug("threshold clamped", zap.Float64("requested", v), zap.Float64("effective", threshold))
	}

	c.state.ThresholdPercent = threshold
	c.state.Armed = true
	c.display.ShowSettings(c.state.Settings())
	return threshold
}

// SetInterval clamps v to [1, 60] seconds and applies it. A running monitor
// swaps its timer for one at the new period. It returns the effective
// interval.
func (c *Controller) SetInterval(v int) int {
	interval := ClampInterval(v)
	if interval != v {
		c.logger.Debug("interval clamped", zap.Int("requested", v), zap.Int("effective", interval))
	}

	c.state.IntervalSeconds = interval
	if c.state.Running {
		c.cancel()
		c.schedule()
	}
	c.display.ShowSettings(c.state.Settings())
	return interval
}

// Tick performs a single check: read memory, publish the reading and apply
// the threshold with hysteresis.
func (c *Controller) Tick(ctx context.Context) {
	reading, ok := c.read(ctx)
	if !ok {
		return
	}

	switch {
	case reading.Percent >= c.state.ThresholdPercent && c.state.Armed:
		c.notify(reading)
		c.state.Armed = false
	case reading.Percent < c.state.ThresholdPercent:
		c.state.Armed = true
	}
}

// Refresh reads and publishes the current memory usage without evaluating
// the threshold.
func (c *Controller) Refresh(ctx context.Context) {
	c.read(ctx)
}

// Close stops the monitor if it is running.
func (c *Controller) Close() {
	c.Stop()
}

func (c *Controller) read(ctx context.Context) (memwarn.Reading, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.readTimeout)
	defer cancel()

	reading, err := c.reader.Read(ctx)
	if err != nil {
		c.logger.Warn("failed to read memory usage", zap.Error(err))
		c.display.ShowError(err)
		return memwarn.Reading{}, false
	}

	c.display.ShowReading(reading)
	return reading, true
}

func (c *Controller) notify(reading memwarn.Reading) {
	n := NewNotification(reading.Percent, c.state.ThresholdPercent)
	c.logger.Info("memory threshold exceeded",
		zap.Float64("percent", reading.Percent),
		zap.Float64("threshold", c.state.ThresholdPercent),
		zap.String("used", humanize.IBytes(reading.UsedBytes)),
		zap.String("total", humanize.IBytes(reading.TotalBytes)))

	if err := c.notifier.Notify(n); err != nil {
		c.logger.Error("failed to show notification", zap.Error(err))
	}
}

func (c *Controller) schedule() {
	c.timer = c.scheduler.Every(c.state.Settings().Interval(), func() {
		c.Tick(context.Background())
	})
}

func (c *Controller) cancel() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// NewNotification builds the threshold notification for the given usage.
func NewNotification(percent, threshold float64) memwarn.Notification {
	return memwarn.Notification{
		Title: NotificationTitle,
		Body: fmt.Sprintf("Memory usage has reached %.1f%%, exceeding the configured threshold of %.1f%%",
			percent, threshold),
		Icon:    NotificationIcon,
		Urgency: memwarn.UrgencyCritical,
	}
}
