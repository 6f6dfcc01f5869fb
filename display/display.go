// Package display renders monitor output and forwards user input.
package display

import (
	"fmt"

	"github.com/reugn/memwarn"
)

// Commander receives the user commands of an interactive display.
type Commander interface {
	Start()
	Stop()
	AdjustThreshold(delta float64)
	AdjustInterval(delta int)
}

const (
	// ThresholdStep is the threshold change of a single key press.
	ThresholdStep = 5.0
	// IntervalStep is the interval change of a single key press.
	IntervalStep = 1
)

// FormatUsage renders the usage line of a reading.
func FormatUsage(r memwarn.Reading) string {
	return fmt.Sprintf("Memory usage: %.1f%%", r.Percent)
}

// FormatSize renders the used and total memory of a reading in GB.
func FormatSize(r memwarn.Reading) string {
	return fmt.Sprintf("Used: %.2f GB / Total: %.2f GB", r.UsedGB(), r.TotalGB())
}

// FormatSettings renders the user adjustable settings.
func FormatSettings(s memwarn.Settings) string {
	return fmt.Sprintf("Alert threshold: %.0f%%  Check interval: %ds", s.ThresholdPercent, s.IntervalSeconds)
}

// Multi fans out every update to all displays in order.
type Multi []memwarn.Display

var _ memwarn.Display = Multi(nil)

func (m Multi) ShowReading(r memwarn.Reading) {
	for _, d := range m {
		d.ShowReading(r)
	}
}

func (m Multi) ShowError(err error) {
	for _, d := range m {
		d.ShowError(err)
	}
}

func (m Multi) ShowStatus(s memwarn.Status) {
	for _, d := range m {
		d.ShowStatus(s)
	}
}

func (m Multi) ShowSettings(s memwarn.Settings) {
	for _, d := range m {
		d.ShowSettings(s)
	}
}
