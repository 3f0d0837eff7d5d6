// Package app wires configuration, storage and the task domain for the binaries.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"time-tracking-bot/config"
	"time-tracking-bot/internal/task"
	"time-tracking-bot/internal/task/delivery/job"
	tgDelivery "time-tracking-bot/internal/task/delivery/telegram"
	"time-tracking-bot/internal/task/repository"
	"time-tracking-bot/internal/task/repository/sqlite"
	"time-tracking-bot/internal/task/usecase"
	"time-tracking-bot/internal/webhook"
	"time-tracking-bot/pkg/gcalendar"
	"time-tracking-bot/pkg/log"
	"time-tracking-bot/pkg/telegram"
)

// App is the dependency bag shared by cmd/api, cmd/consumer and cmd/trackerctl.
type App struct {
	Config  *config.Config
	Logger  log.Logger
	DB      *sql.DB
	Repo    repository.Repository
	UseCase task.UseCase
}

// NewLogger builds the zap logger from the logger section.
func NewLogger(cfg *config.Config) log.Logger {
	return log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})
}

// New opens and migrates the database and builds the task use case.
// The calendar mirror is optional: a misconfigured calendar is logged and skipped.
func New(ctx context.Context, cfg *config.Config, logger log.Logger) (*App, error) {
	db, err := sqlite.Open(ctx, cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := sqlite.MigrateUp(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	repo := sqlite.New(db, logger)

	var calendar gcalendar.ICalendar
	if cfg.GoogleCalendar.CredentialsPath != "" {
		client, calErr := gcalendar.NewClientFromCredentialsFile(ctx, cfg.GoogleCalendar.CredentialsPath, cfg.GoogleCalendar.TokenPath)
		if calErr != nil {
			logger.Warnf(ctx, "Google Calendar not available (optional): %v", calErr)
		} else {
			calendar = client
			logger.Info(ctx, "Google Calendar mirror enabled")
		}
	}

	uc := usecase.New(logger, repo, calendar, usecase.Config{
		DefaultTimezone:     cfg.Tracker.DefaultTimezone,
		DefaultWorkdayStart: cfg.Tracker.WorkdayStart,
		DefaultWorkdayEnd:   cfg.Tracker.WorkdayEnd,
		StorageTimeout:      cfg.Tracker.StorageTimeout,
		UpdateWindow:        cfg.Tracker.UpdateWindow,
		CalendarID:          cfg.GoogleCalendar.CalendarID,
	})

	return &App{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Repo:    repo,
		UseCase: uc,
	}, nil
}

// TelegramHandler builds the bot delivery. poller may be nil in webhook mode.
func (a *App) TelegramHandler(bot telegram.IBot, poller telegram.IPoller) tgDelivery.Handler {
	security := webhook.NewSecurityValidator(webhook.SecurityConfig{
		SecretToken:     a.Config.Telegram.SecretToken,
		AllowedIPs:      a.Config.Webhook.AllowedIPs,
		RateLimitPerMin: a.Config.Webhook.RateLimitPerMin,
	})

	return tgDelivery.New(a.Logger, a.UseCase, bot, poller, security, tgDelivery.Config{
		PollTimeout:    a.Config.Telegram.PollTimeout,
		TrackerBaseURL: a.Config.Tracker.TrackerBaseURL,
	})
}

// AutoCloseJob builds the periodic sweep. notifier may be nil.
func (a *App) AutoCloseJob(notifier job.Notifier) *job.AutoCloser {
	return job.New(a.Logger, a.UseCase, notifier, job.Config{
		Interval:   a.Config.AutoClose.Interval,
		FirstDelay: a.Config.AutoClose.FirstDelay,
	})
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}
