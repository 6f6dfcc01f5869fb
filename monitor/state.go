package monitor

import (
	"math"

	"github.com/reugn/memwarn"
	"github.com/samber/lo"
)

const (
	// MinThresholdPercent is the lowest accepted alert threshold.
	MinThresholdPercent = 10.0
	// MaxThresholdPercent is the highest accepted alert threshold.
	MaxThresholdPercent = 100.0
	// DefaultThresholdPercent is the threshold a new monitor starts with.
	DefaultThresholdPercent = 80.0

	// MinIntervalSeconds is the shortest accepted poll interval.
	MinIntervalSeconds = 1
	// MaxIntervalSeconds is the longest accepted poll interval.
	MaxIntervalSeconds = 60
	// DefaultIntervalSeconds is the poll interval a new monitor starts with.
	DefaultIntervalSeconds = 5
)

// State is the complete mutable state of a monitor.
type State struct {
	ThresholdPercent float64
	IntervalSeconds  int
	Running          bool
	// Armed permits the next reading at or above the threshold to notify.
	Armed bool
}

// DefaultState returns the state of a freshly created monitor.
func DefaultState() State {
	return State{
		ThresholdPercent: DefaultThresholdPercent,
		IntervalSeconds:  DefaultIntervalSeconds,
		Armed:            true,
	}
}

// Status returns the running status.
func (s State) Status() memwarn.Status {
	if s.Running {
		return memwarn.StatusRunning
	}
	return memwarn.StatusStopped
}

// Settings returns the user adjustable part of the state.
func (s State) Settings() memwarn.Settings {
	return memwarn.Settings{
		ThresholdPercent: s.ThresholdPercent,
		IntervalSeconds:  s.IntervalSeconds,
	}
}

// ClampThreshold limits v to the accepted threshold range.
func ClampThreshold(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultThresholdPercent
	}
	return lo.Clamp(v, MinThresholdPercent, MaxThresholdPercent)
}

// ClampInterval limits v to the accepted interval range.
func ClampInterval(v int) int {
	return lo.Clamp(v, MinIntervalSeconds, MaxIntervalSeconds)
}
