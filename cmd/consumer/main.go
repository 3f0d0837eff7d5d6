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
	"time-tracking-bot/pkg/telegram"
)

const deliveryModePolling = "polling"

// main is the entry point for the long-polling consumer.
// It pulls updates with getUpdates instead of receiving a webhook, so it
// needs no public URL. The HTTP server only serves probes.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting time tracking bot (polling mode)...")

	if cfg.Telegram.BotToken == "" {
		logger.Error(ctx, "TELEGRAM_BOT_TOKEN is required in polling mode")
		os.Exit(1)
	}

	// Infrastructure
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize: ", err)
		os.Exit(1)
	}
	defer a.Close()

	// getUpdates is rejected while a webhook is set
	bot := telegram.NewBot(cfg.Telegram.BotToken)
	if err := bot.DeleteWebhook(ctx); err != nil {
		logger.Warnf(ctx, "Failed to delete Telegram webhook: %v", err)
	}
	telegramHandler := a.TelegramHandler(bot, bot)

	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		DB:              a.Repo,
		TelegramHandler: telegramHandler,
		DeliveryMode:    deliveryModePolling,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		os.Exit(1)
	}

	// Run & graceful shutdown
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return telegramHandler.Poll(gctx) })
	g.Go(func() error { return httpServer.Run(gctx) })
	if cfg.AutoClose.Enabled {
		autoClose := a.AutoCloseJob(telegramHandler)
		g.Go(func() error { return autoClose.Run(gctx) })
	}

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "Consumer stopped with error: ", err)
		os.Exit(1)
	}

	logger.Info(ctx, "Consumer stopped gracefully")
}
