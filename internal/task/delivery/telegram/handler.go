package telegram

import (
	"context"

	"github.com/gin-gonic/gin"

	pkgLog "time-tracking-bot/pkg/log"
	pkgResponse "time-tracking-bot/pkg/response"
	pkgTelegram "time-tracking-bot/pkg/telegram"
)

// HandleWebhook validates the request, acknowledges it immediately and
// processes the message in the background so Telegram never times out.
// @Summary Telegram webhook
// @Description Receives updates pushed by the Telegram Bot API
// @Tags telegram
// @Accept json
// @Produce json
// @Param X-Telegram-Bot-Api-Secret-Token header string false "Webhook secret"
// @Param update body pkgTelegram.Update true "Telegram update"
// @Success 200 {object} pkgResponse.Resp
// @Failure 400 {object} pkgResponse.Resp
// @Failure 401 {object} pkgResponse.Resp
// @Failure 403 {object} pkgResponse.Resp
// @Router /webhook/telegram [post]
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.security.ValidateIPAddress(c.Request); err != nil {
		h.l.Warnf(ctx, "telegram handler: %v", err)
		pkgResponse.Forbidden(c)
		return
	}
	if err := h.security.ValidateSecretToken(c.GetHeader(pkgTelegram.SecretTokenHeader)); err != nil {
		h.l.Warnf(ctx, "telegram handler: %v", err)
		pkgResponse.Unauthorized(c)
		return
	}

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "telegram handler: failed to parse update: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	// Ignore non-message updates and redeliveries
	if update.Message == nil || !h.markSeen(update.UpdateID) {
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	msg := update.Message
	traceID := pkgLog.TraceID(ctx)

	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()
		// Detach from the request context, which is cancelled after the response
		bgCtx, cancel := context.WithTimeout(pkgLog.WithTraceID(context.Background(), traceID), h.cfg.ProcessTimeout)
		defer cancel()
		h.processMessage(bgCtx, msg)
	}()

	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

// markSeen records updateID and reports whether it is new.
func (h *handler) markSeen(updateID int64) bool {
	h.seenMu.Lock()
	defer h.seenMu.Unlock()
	if h.seen.Contains(updateID) {
		return false
	}
	h.seen.Add(updateID, struct{}{})
	return true
}

// Wait drains the background processing started by HandleWebhook. The caller
// must stop accepting requests first.
func (h *handler) Wait() {
	h.inflight.Wait()
}
