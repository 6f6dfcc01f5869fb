package monitor

import (
	"context"

	"github.com/reugn/memwarn/loop"
)

// Commands forwards user commands from any goroutine to a Controller
// running on a loop. Every method returns immediately. Commands issued
// before a controller is bound are dropped.
type Commands struct {
	loop       *loop.Loop
	controller *Controller
}

// NewCommands returns Commands posting to l.
func NewCommands(l *loop.Loop) *Commands {
	return &Commands{loop: l}
}

// Bind sets the target controller. It must be called before the loop runs.
func (c *Commands) Bind(controller *Controller) *Commands {
	c.controller = controller
	return c
}

func (c *Commands) post(fn func(*Controller)) {
	c.loop.Post(func() {
		if c.controller != nil {
			fn(c.controller)
		}
	})
}

func (c *Commands) Start() {
	c.post(func(ctrl *Controller) { ctrl.Start() })
}

func (c *Commands) Stop() {
	c.post(func(ctrl *Controller) { ctrl.Stop() })
}

func (c *Commands) SetThreshold(v float64) {
	c.post(func(ctrl *Controller) { ctrl.SetThreshold(v) })
}

func (c *Commands) SetInterval(v int) {
	c.post(func(ctrl *Controller) { ctrl.SetInterval(v) })
}

// AdjustThreshold changes the threshold by delta relative to its value at
// the time the command runs.
func (c *Commands) AdjustThreshold(delta float64) {
	c.post(func(ctrl *Controller) {
		ctrl.SetThreshold(ctrl.State().ThresholdPercent + delta)
	})
}

// AdjustInterval changes the interval by delta relative to its value at
// the time the command runs.
func (c *Commands) AdjustInterval(delta int) {
	c.post(func(ctrl *Controller) {
		ctrl.SetInterval(ctrl.State().IntervalSeconds + delta)
	})
}

func (c *Commands) Refresh() {
	c.post(func(ctrl *Controller) { ctrl.Refresh(context.Background()) })
}
