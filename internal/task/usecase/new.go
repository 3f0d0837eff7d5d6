package usecase

import (
	"time"

	"time-tracking-bot/internal/task"
	"time-tracking-bot/internal/task/repository"
	"time-tracking-bot/pkg/datemath"
	"time-tracking-bot/pkg/gcalendar"
	pkgLog "time-tracking-bot/pkg/log"
)

const (
	defaultStorageTimeout = 5 * time.Second
	defaultUpdateWindow   = 60 * time.Second
)

// Config holds the tracking defaults applied to new users and to storage calls.
type Config struct {
	DefaultTimezone     string
	DefaultWorkdayStart datemath.TimeOfDay
	DefaultWorkdayEnd   datemath.TimeOfDay
	StorageTimeout      time.Duration
	UpdateWindow        time.Duration
	CalendarID          string
}

type implUseCase struct {
	l        pkgLog.Logger
	repo     repository.Repository
	calendar gcalendar.ICalendar
	cfg      Config
	locks    *keyedMutex
	now      func() time.Time
}

// New creates a new task UseCase instance. calendar may be nil, in which
// case closed tasks are not mirrored.
func New(
	l pkgLog.Logger,
	repo repository.Repository,
	calendar gcalendar.ICalendar,
	cfg Config,
) task.UseCase {
	if cfg.DefaultTimezone == "" {
		cfg.DefaultTimezone = "Europe/Moscow"
	}
	if cfg.DefaultWorkdayStart == (datemath.TimeOfDay{}) && cfg.DefaultWorkdayEnd == (datemath.TimeOfDay{}) {
		cfg.DefaultWorkdayStart = datemath.MustTimeOfDay(9, 0)
		cfg.DefaultWorkdayEnd = datemath.MustTimeOfDay(18, 0)
	}
	if cfg.StorageTimeout <= 0 {
		cfg.StorageTimeout = defaultStorageTimeout
	}
	if cfg.UpdateWindow <= 0 {
		cfg.UpdateWindow = defaultUpdateWindow
	}

	return &implUseCase{
		l:        l,
		repo:     repo,
		calendar: calendar,
		cfg:      cfg,
		locks:    newKeyedMutex(),
		now:      time.Now,
	}
}
