package telegram

import (
	"context"
	"errors"
	"time"

	pkgLog "time-tracking-bot/pkg/log"
)

var errNoPoller = errors.New("telegram handler: polling is not configured")

// Poll consumes updates one at a time, so messages of a user keep their order.
func (h *handler) Poll(ctx context.Context) error {
	if h.poller == nil {
		return errNoPoller
	}

	h.l.Infof(ctx, "telegram poller: started (timeout %s)", h.cfg.PollTimeout)
	var offset int64
	for {
		if ctx.Err() != nil {
			h.l.Info(ctx, "telegram poller: stopped")
			return nil
		}

		updates, err := h.poller.GetUpdates(ctx, offset, h.cfg.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			h.l.Warnf(ctx, "telegram poller: %v", err)
			select {
			case <-ctx.Done():
			case <-time.After(h.cfg.RetryDelay):
			}
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			if u.Message == nil || !h.markSeen(u.UpdateID) {
				continue
			}

			msgCtx, cancel := context.WithTimeout(pkgLog.WithTraceID(ctx, ""), h.cfg.ProcessTimeout)
			h.processMessage(msgCtx, u.Message)
			cancel()
		}
	}
}
