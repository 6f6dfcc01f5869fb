// Package notify delivers desktop notifications.
package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/reugn/memwarn"
	"go.uber.org/zap"
)

// DefaultAppName is the application name attached to notifications.
const DefaultAppName = "memwarn"

const notifySendTimeout = 5 * time.Second

// Beeep shows notifications through the platform native service.
type Beeep struct{}

var _ memwarn.Notifier = Beeep{}

// NewBeeep returns a Beeep notifier that reports as app.
func NewBeeep(app string) Beeep {
	beeep.AppName = app
	return Beeep{}
}

// Notify implements memwarn.Notifier. Critical notifications are raised
// as alerts.
func (Beeep) Notify(n memwarn.Notification) error {
	if n.Urgency == memwarn.UrgencyCritical {
		return beeep.Alert(n.Title, n.Body, n.Icon)
	}
	return beeep.Notify(n.Title, n.Body, n.Icon)
}

// CommandRunner runs an external command.
type CommandRunner func(ctx context.Context, name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil && len(out) > 0 {
		return fmt.Errorf("%w: %s", err, out)
	}
	return err
}

// NotifySend shows notifications with the freedesktop notify-send tool.
type NotifySend struct {
	App string
	Run CommandRunner
}

var _ memwarn.Notifier = (*NotifySend)(nil)

// NewNotifySend returns a notify-send backed notifier.
func NewNotifySend(app string) *NotifySend {
	return &NotifySend{App: app, Run: runCommand}
}

// Notify implements memwarn.Notifier.
func (s *NotifySend) Notify(n memwarn.Notification) error {
	args := []string{"-a", s.App, "-u", n.Urgency.String()}
	if n.Icon != "" {
		args = append(args, "-i", n.Icon)
	}
	args = append(args, n.Title, n.Body)

	ctx, cancel := context.WithTimeout(context.Background(), notifySendTimeout)
	defer cancel()

	if err := s.Run(ctx, "notify-send", args...); err != nil {
		return fmt.Errorf("notify-send: %w", err)
	}
	return nil
}

// Detect returns notify-send on Linux desktops that provide it and the
// native backend everywhere else.
func Detect(app string) memwarn.Notifier {
	if runtime.GOOS == "linux" {
		if _, err := exec.LookPath("notify-send"); err == nil {
			return NewNotifySend(app)
		}
	}
	return NewBeeep(app)
}

// Async delivers notifications on a separate goroutine so the caller never
// waits on the notification service. Delivery failures are logged.
type Async struct {
	next   memwarn.Notifier
	logger *zap.Logger
	wg     sync.WaitGroup
}

var _ memwarn.Notifier = (*Async)(nil)

// NewAsync wraps next with fire-and-forget delivery.
func NewAsync(next memwarn.Notifier, logger *zap.Logger) *Async {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Async{next: next, logger: logger}
}

// Notify starts delivery and returns nil immediately.
func (a *Async) Notify(n memwarn.Notification) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.next.Notify(n); err != nil {
			a.logger.Warn("notification delivery failed",
				zap.String("title", n.Title), zap.Error(err))
			return
		}
		a.logger.Debug("notification delivered", zap.String("title", n.Title))
	}()
	return nil
}

// Wait blocks until all started deliveries have finished.
func (a *Async) Wait() {
	a.wg.Wait()
}
