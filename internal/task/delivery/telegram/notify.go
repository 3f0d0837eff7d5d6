package telegram

import (
	"context"

	"time-tracking-bot/internal/task"
	pkgTelegram "time-tracking-bot/pkg/telegram"
)

// NotifyAutoClosed messages the owner of an auto-closed task. Users talk to
// the bot in private chats, so the chat id equals the user id.
func (h *handler) NotifyAutoClosed(ctx context.Context, closed task.AutoClosed) error {
	return h.bot.SendMessageWithKeyboard(ctx, closed.User.ID, h.autoClosed(closed), pkgTelegram.ParseModeMarkdown, h.keyboard)
}
