package display

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/reugn/memwarn"
	"github.com/reugn/memwarn/monitor"
)

// Console prints monitor output as colored lines. Usage below the
// threshold is green, usage at or above it is red.
type Console struct {
	out       io.Writer
	threshold float64

	normal *color.Color
	alert  *color.Color
	status *color.Color
	info   *color.Color
	failed *color.Color
}

var _ memwarn.Display = (*Console)(nil)

// NewConsole returns a Console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{
		out:       out,
		threshold: monitor.DefaultThresholdPercent,
		normal:    color.New(color.FgGreen),
		alert:     color.New(color.FgRed, color.Bold),
		status:    color.New(color.FgCyan, color.Bold),
		info:      color.New(color.FgYellow),
		failed:    color.New(color.FgRed),
	}
}

// DisableColor turns off color output.
func (c *Console) DisableColor() *Console {
	for _, col := range []*color.Color{c.normal, c.alert, c.status, c.info, c.failed} {
		col.DisableColor()
	}
	return c
}

func (c *Console) ShowReading(r memwarn.Reading) {
	col := c.normal
	if r.Percent >= c.threshold {
		col = c.alert
	}
	line := fmt.Sprintf("%s  %s", FormatUsage(r), FormatSize(r))
	if !r.Timestamp.IsZero() {
		line = r.Timestamp.Format("15:04:05") + " " + line
	}
	col.Fprintln(c.out, line)
}

func (c *Console) ShowError(err error) {
	c.failed.Fprintf(c.out, "Error: %v\n", err)
}

func (c *Console) ShowStatus(s memwarn.Status) {
	c.status.Fprintf(c.out, "Status: %s\n", s)
}

func (c *Console) ShowSettings(s memwarn.Settings) {
	c.threshold = s.ThresholdPercent
	c.info.Fprintln(c.out, FormatSettings(s))
}
