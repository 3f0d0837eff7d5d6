package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"time-tracking-bot/config"
	_ "time-tracking-bot/docs" // Swagger docs
	"time-tracking-bot/internal/app"
	"time-tracking-bot/internal/httpserver"
	"time-tracking-bot/internal/task/delivery/job"
	tgDelivery "time-tracking-bot/internal/task/delivery/telegram"
	"time-tracking-bot/pkg/telegram"
)

// @title       Time Tracking Bot API
// @description Telegram time tracker: webhook intake and service probes.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := app.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting time tracking bot (webhook mode)...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Storage + task domain
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize: ", err)
		os.Exit(1)
	}
	defer a.Close()

	// 4. Telegram
	var telegramHandler tgDelivery.Handler
	if cfg.Telegram.BotToken != "" {
		bot := telegram.NewBot(cfg.Telegram.BotToken)
		telegramHandler = a.TelegramHandler(bot, nil)

		// Register webhook: explicit URL or ngrok auto-detection
		webhookURL := cfg.Telegram.WebhookURL
		if webhookURL == "" && cfg.Telegram.NgrokAPIURL != "" {
			ngrokURL, ngrokErr := detectNgrokURL(ctx, cfg.Telegram.NgrokAPIURL)
			if ngrokErr != nil {
				logger.Warnf(ctx, "Could not detect ngrok URL: %v", ngrokErr)
			} else {
				webhookURL = ngrokURL + "/webhook/telegram"
				logger.Infof(ctx, "Auto-detected ngrok URL: %s", webhookURL)
			}
		}

		if webhookURL != "" {
			if whErr := bot.SetWebhook(ctx, webhookURL, cfg.Telegram.SecretToken); whErr != nil {
				logger.Warnf(ctx, "Failed to set Telegram webhook: %v", whErr)
			} else {
				logger.Infof(ctx, "Telegram webhook registered at %s", webhookURL)
			}
		} else {
			logger.Warn(ctx, "No webhook URL: updates will not arrive. Use cmd/consumer for polling mode.")
		}
	} else {
		logger.Warn(ctx, "Telegram skipped: TELEGRAM_BOT_TOKEN is missing")
	}

	// 5. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		DB:              a.Repo,
		TelegramHandler: telegramHandler,
		DeliveryMode:    httpserver.DeliveryModeWebhook,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		os.Exit(1)
	}

	// 6. Run
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpServer.Run(gctx) })

	if cfg.AutoClose.Enabled {
		var notifier job.Notifier
		if telegramHandler != nil {
			notifier = telegramHandler
		}
		autoClose := a.AutoCloseJob(notifier)
		g.Go(func() error { return autoClose.Run(gctx) })
	}

	err = g.Wait()

	// Accepted updates finish before the database is closed
	if telegramHandler != nil {
		logger.Info(ctx, "Waiting for in-flight updates...")
		telegramHandler.Wait()
	}
	if err != nil {
		logger.Error(ctx, "Server stopped with error: ", err)
		a.Close()
		os.Exit(1)
	}

	logger.Info(ctx, "Server stopped gracefully")
}
