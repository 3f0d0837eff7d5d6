package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"time-tracking-bot/internal/middleware"
	tgDelivery "time-tracking-bot/internal/task/delivery/telegram"
	"time-tracking-bot/pkg/log"
)

const defaultShutdownTimeout = 10 * time.Second

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin             *gin.Engine
	l               log.Logger
	port            int
	mode            string
	environment     string
	shutdownTimeout time.Duration
	startedAt       time.Time

	// Readiness
	db Pinger

	// Task domain
	telegramHandler tgDelivery.Handler
	deliveryMode    string
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger          log.Logger
	Port            int
	Mode            string
	Environment     string
	ShutdownTimeout time.Duration

	DB Pinger

	// TelegramHandler is nil when the bot is not configured. The webhook
	// route is only registered when DeliveryMode is "webhook".
	TelegramHandler tgDelivery.Handler
	DeliveryMode    string
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.New(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		shutdownTimeout: cfg.ShutdownTimeout,
		startedAt:       time.Now(),
		db:              cfg.DB,
		telegramHandler: cfg.TelegramHandler,
		deliveryMode:    cfg.DeliveryMode,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	srv.mapHandlers(middleware.New(logger))

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	return nil
}
