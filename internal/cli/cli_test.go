package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/reugn/memwarn"
	"github.com/reugn/memwarn/display"
	"github.com/reugn/memwarn/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFlags(t *testing.T) {
	cmd := NewRootCommand()
	require.NoError(t, cmd.Flags().Parse([]string{"--threshold", "65", "--headless", "--log-level", "debug"}))

	// config file values that flags must override or keep
	cfg := config.DefaultConfig()
	cfg.ThresholdPercent = 90
	cfg.IntervalSeconds = 30
	cfg.Source = "auto"

	var flagCfg *config.Config
	flags := cmd.Flags()
	threshold, err := flags.GetFloat64("threshold")
	require.NoError(t, err)
	headless, err := flags.GetBool("headless")
	require.NoError(t, err)
	level, err := flags.GetString("log-level")
	require.NoError(t, err)
	flagCfg = config.DefaultConfig()
	flagCfg.ThresholdPercent = threshold
	flagCfg.Headless = headless
	flagCfg.Log.Level = level

	applyFlags(flags, flagCfg, cfg)

	assert.Equal(t, 65.0, cfg.ThresholdPercent)
	assert.True(t, cfg.Headless)
	assert.Equal(t, "debug", cfg.Log.Level)
	// not set on the command line
	assert.Equal(t, 30, cfg.IntervalSeconds)
	assert.Equal(t, "auto", cfg.Source)
}

func TestRootCommand_RejectsArgs(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"extra"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}

func TestRootCommand_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memwarn.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threshold: [\n"), 0o600))

	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--config", path})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.ErrorContains(t, cmd.Execute(), "failed to parse config")
}

func TestRootCommand_BadSource(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--headless", "--source", "swap"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.ErrorContains(t, cmd.Execute(), "unknown memory source")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunHeadless(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Headless = true
	cfg.IntervalSeconds = 1
	cfg.ThresholdPercent = 90
	cfg.Log.Level = "error"

	var mu sync.Mutex
	var notifications []memwarn.Notification
	notifier := memwarn.NotifierFunc(func(n memwarn.Notification) error {
		mu.Lock()
		defer mu.Unlock()
		notifications = append(notifications, n)
		return nil
	})

	a, err := newApp(cfg, notifier)
	require.NoError(t, err)
	a.reader = memwarn.MemoryReaderFunc(func(context.Context) (memwarn.Reading, error) {
		return memwarn.Reading{Percent: 95, UsedBytes: 15 << 30, TotalBytes: 16 << 30}, nil
	})

	out := &syncBuffer{}
	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()

	require.NoError(t, a.runHeadless(ctx, display.NewConsole(out).DisableColor()))
	a.close()

	text := out.String()
	assert.Contains(t, text, "Alert threshold: 90%  Check interval: 1s")
	assert.Contains(t, text, "Status: Running")
	assert.Contains(t, text, "Memory usage: 95.0%  Used: 15.00 GB / Total: 16.00 GB")
	assert.Contains(t, text, "Status: Stopped")

	mu.Lock()
	defer mu.Unlock()
	// the startup refresh does not notify; the first tick does, once
	require.Len(t, notifications, 1)
	assert.Equal(t, "Memory usage alert!", notifications[0].Title)
}
