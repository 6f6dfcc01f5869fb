package memwarn

import (
	"errors"
	"fmt"
	"time"
)

// ErrMetricsUnavailable is returned when the operating system does not
// expose memory statistics.
var ErrMetricsUnavailable = errors.New("memory metrics unavailable")

const bytesPerGB = 1024 * 1024 * 1024

// Reading is a single memory utilization sample.
type Reading struct {
	Percent    float64
	UsedBytes  uint64
	TotalBytes uint64
	Timestamp  time.Time
}

// UsedGB returns the used memory in gibibytes.
func (r Reading) UsedGB() float64 {
	return float64(r.UsedBytes) / bytesPerGB
}

// TotalGB returns the total memory in gibibytes.
func (r Reading) TotalGB() float64 {
	return float64(r.TotalBytes) / bytesPerGB
}

// Urgency is the urgency level of a desktop notification.
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// String returns the freedesktop name of the urgency level.
func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "low"
	case UrgencyCritical:
		return "critical"
	default:
		return "normal"
	}
}

// Notification is a desktop notification request.
type Notification struct {
	Title   string
	Body    string
	Icon    string
	Urgency Urgency
}

// Status is the running state of the monitor.
type Status int

const (
	StatusStopped Status = iota
	StatusRunning
)

func (s Status) String() string {
	if s == StatusRunning {
		return "Running"
	}
	return "Stopped"
}

// Settings are the user adjustable monitor parameters.
type Settings struct {
	ThresholdPercent float64
	IntervalSeconds  int
}

// Interval returns the poll interval as a time.Duration.
func (s Settings) Interval() time.Duration {
	return time.Duration(s.IntervalSeconds) * time.Second
}

func (s Settings) String() string {
	return fmt.Sprintf("threshold=%.1f%% interval=%ds", s.ThresholdPercent, s.IntervalSeconds)
}
