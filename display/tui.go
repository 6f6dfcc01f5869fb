package display

import (
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/reugn/memwarn"
	"github.com/reugn/memwarn/monitor"
)

const (
	tuiBufferSize = 64
	helpLine      = "s start • x stop • +/- threshold • [/] interval • q quit"
	waitingLine   = "Reading memory usage..."
)

type (
	readingMsg  memwarn.Reading
	errorMsg    struct{ err error }
	statusMsg   memwarn.Status
	settingsMsg memwarn.Settings
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	normalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	alertStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	frameStyle   = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder())
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	stoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// model is the bubbletea model of the terminal UI.
type model struct {
	commands Commander

	reading  *memwarn.Reading
	err      error
	status   memwarn.Status
	settings memwarn.Settings
}

func newModel(commands Commander) model {
	return model{
		commands: commands,
		status:   memwarn.StatusStopped,
		settings: monitor.DefaultState().Settings(),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case readingMsg:
		r := memwarn.Reading(msg)
		m.reading = &r
		m.err = nil
	case errorMsg:
		m.err = msg.err
	case statusMsg:
		m.status = memwarn.Status(msg)
	case settingsMsg:
		m.settings = memwarn.Settings(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case "s", "enter":
		m.commands.Start()
	case "x", " ":
		m.commands.Stop()
	case "+", "=", "up":
		m.commands.AdjustThreshold(ThresholdStep)
	case "-", "down":
		m.commands.AdjustThreshold(-ThresholdStep)
	case "]", "right":
		m.commands.AdjustInterval(IntervalStep)
	case "[", "left":
		m.commands.AdjustInterval(-IntervalStep)
	}
	return nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Memory Monitor"))
	b.WriteString("\n\n")

	switch {
	case m.reading == nil && m.err == nil:
		b.WriteString(mutedStyle.Render(waitingLine))
		b.WriteString("\n")
	case m.reading != nil:
		style := normalStyle
		if m.reading.Percent >= m.settings.ThresholdPercent {
			style = alertStyle
		}
		b.WriteString(style.Render(FormatUsage(*m.reading)))
		b.WriteString("\n")
		b.WriteString(FormatSize(*m.reading))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FormatSettings(m.settings))
	b.WriteString("\n")

	statusStyle := stoppedStyle
	if m.status == memwarn.StatusRunning {
		statusStyle = runningStyle
	}
	b.WriteString("Status: " + statusStyle.Render(m.status.String()))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(helpLine))

	return frameStyle.Render(b.String()) + "\n"
}

// TUI is an interactive terminal display. Key presses are forwarded to a
// Commander; monitor output is delivered to the bubbletea program in order.
type TUI struct {
	program *tea.Program
	msgs    chan tea.Msg
	done    chan struct{}
	once    sync.Once
}

var _ memwarn.Display = (*TUI)(nil)

// NewTUI creates a terminal UI that sends user commands to commands.
func NewTUI(commands Commander, opts ...tea.ProgramOption) *TUI {
	return &TUI{
		program: tea.NewProgram(newModel(commands), opts...),
		msgs:    make(chan tea.Msg, tuiBufferSize),
		done:    make(chan struct{}),
	}
}

// Run runs the program until the user quits or Quit is called.
func (t *TUI) Run() error {
	go t.forward()
	defer t.once.Do(func() { close(t.done) })

	_, err := t.program.Run()
	return err
}

// Quit asks the program to exit.
func (t *TUI) Quit() {
	t.program.Quit()
}

func (t *TUI) forward() {
	for {
		select {
		case msg := <-t.msgs:
			t.program.Send(msg)
		case <-t.done:
			return
		}
	}
}

func (t *TUI) send(msg tea.Msg) {
	select {
	case t.msgs <- msg:
	case <-t.done:
	}
}

func (t *TUI) ShowReading(r memwarn.Reading) {
	t.send(readingMsg(r))
}

func (t *TUI) ShowError(err error) {
	t.send(errorMsg{err: err})
}

func (t *TUI) ShowStatus(s memwarn.Status) {
	t.send(statusMsg(s))
}

func (t *TUI) ShowSettings(s memwarn.Settings) {
	t.send(settingsMsg(s))
}
