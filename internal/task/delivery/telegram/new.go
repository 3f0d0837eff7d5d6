package telegram

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"time-tracking-bot/internal/task"
	"time-tracking-bot/internal/webhook"
	pkgLog "time-tracking-bot/pkg/log"
	"time-tracking-bot/pkg/tasktext"
	pkgTelegram "time-tracking-bot/pkg/telegram"
)

const (
	defaultPollTimeout    = 30 * time.Second
	defaultProcessTimeout = 30 * time.Second
	defaultRetryDelay     = 3 * time.Second
	seenUpdatesSize       = 4096
	seenUpdatesTTL        = 10 * time.Minute
)

// Handler is the interface for the Telegram delivery handler.
type Handler interface {
	// HandleWebhook is the gin handler for updates pushed by Telegram.
	HandleWebhook(c *gin.Context)
	// Poll consumes updates with getUpdates until ctx is done.
	Poll(ctx context.Context) error
	// NotifyAutoClosed tells the owner that the sweep closed their task.
	NotifyAutoClosed(ctx context.Context, closed task.AutoClosed) error
	// Wait blocks until every accepted webhook update has been processed.
	Wait()
}

// Config tunes the handler. Zero values select the defaults.
type Config struct {
	PollTimeout    time.Duration
	ProcessTimeout time.Duration
	RetryDelay     time.Duration
	TrackerBaseURL string
}

type handler struct {
	l        pkgLog.Logger
	uc       task.UseCase
	bot      pkgTelegram.IBot
	poller   pkgTelegram.IPoller
	security *webhook.SecurityValidator
	format   tasktext.Formatter
	keyboard *pkgTelegram.ReplyKeyboardMarkup
	seenMu   sync.Mutex
	seen     *expirable.LRU[int64, struct{}]
	inflight sync.WaitGroup
	cfg      Config
}

// New creates a new Telegram delivery handler. poller may be nil when only
// webhook delivery is used.
func New(
	l pkgLog.Logger,
	uc task.UseCase,
	bot pkgTelegram.IBot,
	poller pkgTelegram.IPoller,
	security *webhook.SecurityValidator,
	cfg Config,
) Handler {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = defaultPollTimeout
	}
	if cfg.ProcessTimeout <= 0 {
		cfg.ProcessTimeout = defaultProcessTimeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if security == nil {
		security = webhook.NewSecurityValidator(webhook.SecurityConfig{})
	}

	return &handler{
		l:        l,
		uc:       uc,
		bot:      bot,
		poller:   poller,
		security: security,
		format:   tasktext.NewFormatter(cfg.TrackerBaseURL),
		keyboard: mainKeyboard(),
		seen:     expirable.NewLRU[int64, struct{}](seenUpdatesSize, nil, seenUpdatesTTL),
		cfg:      cfg,
	}
}
