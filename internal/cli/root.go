package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/reugn/memwarn/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is set at build time.
var Version = "dev"

var errWriter io.Writer = os.Stderr

// NewRootCommand returns the memwarn command.
func NewRootCommand() *cobra.Command {
	var cfgFile string
	flagCfg := *config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "memwarn",
		Short: "Desktop notifications when memory usage crosses a threshold",
		Long: `memwarn polls system memory usage and raises a desktop notification when
usage reaches the alert threshold. It notifies once per episode: usage has
to drop below the threshold before the next notification.

Keys in the terminal UI: s start, x stop, +/- threshold, [/] interval, q quit.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			applyFlags(cmd.Flags(), &flagCfg, cfg)
			cfg.Normalize()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfgFile, "config", "c", "", "YAML file with startup settings")
	f.Float64VarP(&flagCfg.ThresholdPercent, "threshold", "t", flagCfg.ThresholdPercent,
		"Alert threshold in percent (10-100)")
	f.IntVarP(&flagCfg.IntervalSeconds, "interval", "i", flagCfg.IntervalSeconds,
		"Check interval in seconds (1-60)")
	f.BoolVar(&flagCfg.AutoStart, "start", flagCfg.AutoStart, "Start monitoring immediately")
	f.BoolVar(&flagCfg.Headless, "headless", flagCfg.Headless,
		"Print readings to stdout instead of running the terminal UI")
	f.StringVar(&flagCfg.Source, "source", flagCfg.Source, "Memory statistics source (host, cgroup, auto)")
	f.StringVar(&flagCfg.Log.Level, "log-level", flagCfg.Log.Level, "Log level (debug, info, warn, error)")
	f.StringVar(&flagCfg.Log.File, "log-file", flagCfg.Log.File,
		"Log file (default stderr in headless mode, disabled in the terminal UI)")

	return cmd
}

// applyFlags copies explicitly set flags over the loaded config.
func applyFlags(flags *pflag.FlagSet, from, to *config.Config) {
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "threshold":
			to.ThresholdPercent = from.ThresholdPercent
		case "interval":
			to.IntervalSeconds = from.IntervalSeconds
		case "start":
			to.AutoStart = from.AutoStart
		case "headless":
			to.Headless = from.Headless
		case "source":
			to.Source = from.Source
		case "log-level":
			to.Log.Level = from.Log.Level
		case "log-file":
			to.Log.File = from.Log.File
		}
	})
}

// Execute runs the root command and reports errors on stderr.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(errWriter, "Error:", err)
		return 1
	}
	return 0
}
