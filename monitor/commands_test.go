package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/reugn/memwarn/internal/assert"
	"github.com/reugn/memwarn/loop"
)

func TestCommands(t *testing.T) {
	f := newFixture(90)
	l := loop.New()
	cmds := NewCommands(l)
	cmds.Bind(f.controller)

	cmds.SetThreshold(50)
	cmds.AdjustThreshold(5)
	cmds.AdjustThreshold(5)
	cmds.SetInterval(10)
	cmds.AdjustInterval(-3)
	cmds.Start()
	cmds.Refresh()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = l.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	var state State
	callCtx, callCancel := context.WithTimeout(context.Background(), time.Second)
	defer callCancel()
	assert.NoError(t, l.Call(callCtx, func() { state = f.controller.State() }))

	assert.Equal(t, 60.0, state.ThresholdPercent)
	assert.Equal(t, 7, state.IntervalSeconds)
	assert.True(t, state.Running)
	assert.Equal(t, []time.Duration{7 * time.Second}, f.scheduler.Periods())

	cmds.AdjustInterval(100)
	cmds.Stop()
	assert.NoError(t, l.Call(callCtx, func() { state = f.controller.State() }))
	assert.Equal(t, 60, state.IntervalSeconds)
	assert.False(t, state.Running)
}

func TestCommands_Unbound(t *testing.T) {
	l := loop.New()
	cmds := NewCommands(l)
	cmds.Start()
	cmds.AdjustThreshold(5)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = l.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	callCtx, callCancel := context.WithTimeout(context.Background(), time.Second)
	defer callCancel()
	assert.NoError(t, l.Call(callCtx, func() {}))
}
