package display

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/reugn/memwarn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleReading = memwarn.Reading{
	Percent:    45.26,
	UsedBytes:  7 << 30,
	TotalBytes: 16 << 30,
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "Memory usage: 45.3%", FormatUsage(sampleReading))
	assert.Equal(t, "Used: 7.00 GB / Total: 16.00 GB", FormatSize(sampleReading))
	assert.Equal(t, "Alert threshold: 80%  Check interval: 5s",
		FormatSettings(memwarn.Settings{ThresholdPercent: 80, IntervalSeconds: 5}))
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(&buf).DisableColor()

	console.ShowSettings(memwarn.Settings{ThresholdPercent: 70, IntervalSeconds: 3})
	console.ShowStatus(memwarn.StatusRunning)
	r := sampleReading
	r.Timestamp = time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	console.ShowReading(r)
	console.ShowError(errors.New("memory metrics unavailable"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Alert threshold: 70%  Check interval: 3s", lines[0])
	assert.Equal(t, "Status: Running", lines[1])
	assert.Equal(t, "08:30:00 Memory usage: 45.3%  Used: 7.00 GB / Total: 16.00 GB", lines[2])
	assert.Equal(t, "Error: memory metrics unavailable", lines[3])
}

type recordingDisplay struct {
	calls []string
}

func (d *recordingDisplay) ShowReading(memwarn.Reading)   { d.calls = append(d.calls, "reading") }
func (d *recordingDisplay) ShowError(error)               { d.calls = append(d.calls, "error") }
func (d *recordingDisplay) ShowStatus(memwarn.Status)     { d.calls = append(d.calls, "status") }
func (d *recordingDisplay) ShowSettings(memwarn.Settings) { d.calls = append(d.calls, "settings") }

func TestMulti(t *testing.T) {
	a, b := &recordingDisplay{}, &recordingDisplay{}
	m := Multi{a, b}

	m.ShowReading(sampleReading)
	m.ShowError(errors.New("x"))
	m.ShowStatus(memwarn.StatusStopped)
	m.ShowSettings(memwarn.Settings{})

	expected := []string{"reading", "error", "status", "settings"}
	assert.Equal(t, expected, a.calls)
	assert.Equal(t, expected, b.calls)
}

type recordingCommander struct {
	calls []string
}

func (c *recordingCommander) Start() { c.calls = append(c.calls, "start") }
func (c *recordingCommander) Stop()  { c.calls = append(c.calls, "stop") }
func (c *recordingCommander) AdjustThreshold(delta float64) {
	if delta > 0 {
		c.calls = append(c.calls, "threshold+")
	} else {
		c.calls = append(c.calls, "threshold-")
	}
}
func (c *recordingCommander) AdjustInterval(delta int) {
	if delta > 0 {
		c.calls = append(c.calls, "interval+")
	} else {
		c.calls = append(c.calls, "interval-")
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_Keys(t *testing.T) {
	commander := &recordingCommander{}
	var m tea.Model = newModel(commander)

	for _, key := range []string{"s", "+", "-", "]", "[", "x", "z"} {
		var cmd tea.Cmd
		m, cmd = m.Update(keyRunes(key))
		assert.Nil(t, cmd)
	}

	assert.Equal(t, []string{
		"start", "threshold+", "threshold-", "interval+", "interval-", "stop",
	}, commander.calls)
}

func TestModel_Quit(t *testing.T) {
	m := newModel(&recordingCommander{})

	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_View(t *testing.T) {
	var m tea.Model = newModel(&recordingCommander{})
	assert.Contains(t, m.View(), waitingLine)
	assert.Contains(t, m.View(), "Stopped")

	m, _ = m.Update(settingsMsg(memwarn.Settings{ThresholdPercent: 40, IntervalSeconds: 9}))
	m, _ = m.Update(statusMsg(memwarn.StatusRunning))
	m, _ = m.Update(readingMsg(sampleReading))

	view := m.View()
	assert.Contains(t, view, "Memory usage: 45.3%")
	assert.Contains(t, view, "Used: 7.00 GB / Total: 16.00 GB")
	assert.Contains(t, view, "Alert threshold: 40%  Check interval: 9s")
	assert.Contains(t, view, "Running")
	assert.NotContains(t, view, waitingLine)

	m, _ = m.Update(errorMsg{err: errors.New("memory metrics unavailable")})
	view = m.View()
	assert.Contains(t, view, "Error: memory metrics unavailable")
	assert.Contains(t, view, "Memory usage: 45.3%")

	// a successful reading clears the error
	m, _ = m.Update(readingMsg(sampleReading))
	assert.NotContains(t, m.View(), "Error:")
}
