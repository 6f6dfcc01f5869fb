package cli

import (
	"context"
	"errors"
	"io"

	"github.com/reugn/memwarn"
	"github.com/reugn/memwarn/display"
	"github.com/reugn/memwarn/internal/config"
	"github.com/reugn/memwarn/internal/logging"
	"github.com/reugn/memwarn/loop"
	"github.com/reugn/memwarn/metrics"
	"github.com/reugn/memwarn/monitor"
	"github.com/reugn/memwarn/notify"
	"go.uber.org/zap"
)

// app holds the wired components of a memwarn process.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	reader   memwarn.MemoryReader
	notifier *notify.Async
	loop     *loop.Loop
}

func newApp(cfg *config.Config, notifier memwarn.Notifier) (*app, error) {
	logCfg := cfg.Log
	if !cfg.Headless && logCfg.File == "" {
		// stderr belongs to the terminal UI
		logCfg.Disabled = true
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, err
	}

	source, err := metrics.ParseSource(cfg.Source)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		reader:   metrics.NewReader(source, metrics.WithLogger(logger)),
		notifier: notify.NewAsync(notifier, logger),
		loop:     loop.New(),
	}, nil
}

func (a *app) newController(d memwarn.Display) *monitor.Controller {
	return monitor.NewController(
		a.reader,
		a.notifier,
		d,
		loop.NewTimerScheduler(a.loop),
		monitor.WithLogger(a.logger),
		monitor.WithState(a.cfg.State()),
	)
}

// boot publishes the initial state and, if configured, starts monitoring.
func (a *app) boot(ctx context.Context, controller *monitor.Controller, d memwarn.Display, start bool) {
	state := controller.State()
	d.ShowSettings(state.Settings())
	d.ShowStatus(state.Status())
	controller.Refresh(ctx)
	if start {
		controller.Start()
	}
}

func (a *app) close() {
	a.notifier.Wait()
	_ = a.logger.Sync()
}

func run(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	a, err := newApp(cfg, notify.Detect(notify.DefaultAppName))
	if err != nil {
		return err
	}
	defer a.close()

	a.logger.Info("memwarn starting",
		zap.String("version", Version),
		zap.Float64("threshold", cfg.ThresholdPercent),
		zap.Int("interval", cfg.IntervalSeconds),
		zap.String("source", cfg.Source),
		zap.Bool("headless", cfg.Headless))

	if cfg.Headless {
		return a.runHeadless(ctx, display.NewConsole(stdout))
	}
	return a.runInteractive(ctx)
}

// runHeadless monitors until ctx is done. Without an input surface the
// monitor always starts right away.
func (a *app) runHeadless(ctx context.Context, d memwarn.Display) error {
	controller := a.newController(d)
	a.loop.Post(func() {
		a.boot(ctx, controller, d, true)
	})

	err := a.loop.Run(ctx)
	// Run has returned, so this goroutine now owns the controller
	controller.Close()
	return err
}

func (a *app) runInteractive(ctx context.Context) error {
	commands := monitor.NewCommands(a.loop)
	tui := display.NewTUI(commands)
	controller := a.newController(tui)
	commands.Bind(controller)

	loopCtx, cancelLoop := context.WithCancel(ctx)
	loopDone := make(chan error, 1)
	go func() {
		loopDone <- a.loop.Run(loopCtx)
	}()

	a.loop.Post(func() {
		a.boot(loopCtx, controller, tui, a.cfg.AutoStart)
	})

	go func() {
		<-loopCtx.Done()
		tui.Quit()
	}()

	tuiErr := tui.Run()

	cancelLoop()
	loopErr := <-loopDone
	// the loop has stopped, so this goroutine now owns the controller
	controller.Close()

	return errors.Join(tuiErr, loopErr)
}
