// Package job runs the periodic auto-close sweep.
package job

import (
	"context"
	"time"

	"time-tracking-bot/internal/task"
	pkgLog "time-tracking-bot/pkg/log"
)

const (
	defaultInterval   = 5 * time.Minute
	defaultFirstDelay = 60 * time.Second
)

// Notifier tells a user that the sweep closed their task.
type Notifier interface {
	NotifyAutoClosed(ctx context.Context, closed task.AutoClosed) error
}

// Config tunes the job. Zero values select the defaults.
type Config struct {
	Interval   time.Duration
	FirstDelay time.Duration
}

// AutoCloser runs AutoCloseSweep on a fixed schedule.
type AutoCloser struct {
	l        pkgLog.Logger
	uc       task.UseCase
	notifier Notifier
	cfg      Config
	now      func() time.Time
}

// New creates the auto-close job. notifier may be nil.
func New(l pkgLog.Logger, uc task.UseCase, notifier Notifier, cfg Config) *AutoCloser {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.FirstDelay <= 0 {
		cfg.FirstDelay = defaultFirstDelay
	}
	return &AutoCloser{
		l:        l,
		uc:       uc,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}
