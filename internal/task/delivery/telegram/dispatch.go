package telegram

import (
	"context"
	"strings"
	"time"

	"time-tracking-bot/internal/model"
	"time-tracking-bot/internal/task"
	pkgTelegram "time-tracking-bot/pkg/telegram"
)

// Reply keyboard buttons.
const (
	ButtonRest    = "🏖️ Отдых"
	ButtonSummary = "📊 Сводка"
	ButtonHelp    = "❓ Помощь"
)

const summaryDateLayout = "02.01.2006"

func mainKeyboard() *pkgTelegram.ReplyKeyboardMarkup {
	return pkgTelegram.NewReplyKeyboard(
		[]string{ButtonRest, ButtonSummary},
		[]string{ButtonHelp},
	)
}

// processMessage routes one message. Failures are reported to the chat and logged.
func (h *handler) processMessage(ctx context.Context, msg *pkgTelegram.Message) {
	if msg.From == nil || msg.Chat == nil || msg.From.IsBot {
		return
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	sc := model.Scope{
		UserID:   msg.From.ID,
		ChatID:   msg.Chat.ID,
		Username: msg.From.Username,
	}

	if err := h.security.CheckUserRateLimit(sc.UserID); err != nil {
		h.l.Warnf(ctx, "telegram handler: user %d throttled", sc.UserID)
		h.reply(ctx, sc, msgRateLimited)
		return
	}

	if err := h.route(ctx, sc, text); err != nil {
		h.l.Errorf(ctx, "telegram handler: user %d: %v", sc.UserID, err)
		h.reply(ctx, sc, errorMessage(err))
	}
}

func (h *handler) route(ctx context.Context, sc model.Scope, text string) error {
	command, args := splitCommand(text)

	switch {
	case command == "/start":
		return h.handleStart(ctx, sc)
	case command == "/help" || isButton(text, ButtonHelp):
		h.reply(ctx, sc, msgHelp)
		return nil
	case command == "/set_timezone":
		return h.handleSetTimezone(ctx, sc, args)
	case command == "/set_workday":
		return h.handleSetWorkday(ctx, sc, args)
	case command == "/summary" || isButton(text, ButtonSummary):
		return h.handleSummary(ctx, sc, args)
	case command == "/rest" || isButton(text, ButtonRest):
		return h.handleRest(ctx, sc)
	case command == "/stop":
		return h.handleStop(ctx, sc)
	case command != "":
		h.reply(ctx, sc, msgUnknownCommand)
		return nil
	}

	return h.handleTrack(ctx, sc, text)
}

func (h *handler) handleStart(ctx context.Context, sc model.Scope) error {
	if _, err := h.uc.RegisterUser(ctx, sc); err != nil {
		return err
	}
	h.reply(ctx, sc, msgWelcome)
	return nil
}

func (h *handler) handleSetTimezone(ctx context.Context, sc model.Scope, args []string) error {
	if len(args) != 1 {
		h.reply(ctx, sc, msgTimezoneUsage)
		return nil
	}
	u, err := h.uc.SetTimezone(ctx, sc, task.SetTimezoneInput{Timezone: args[0]})
	if err != nil {
		return err
	}
	h.reply(ctx, sc, h.timezoneSet(u, time.Now()))
	return nil
}

func (h *handler) handleSetWorkday(ctx context.Context, sc model.Scope, args []string) error {
	if len(args) != 2 {
		h.reply(ctx, sc, msgWorkdayUsage)
		return nil
	}
	u, err := h.uc.SetWorkday(ctx, sc, task.SetWorkdayInput{Start: args[0], End: args[1]})
	if err != nil {
		return err
	}
	h.reply(ctx, sc, workdaySet(u))
	return nil
}

func (h *handler) handleSummary(ctx context.Context, sc model.Scope, args []string) error {
	var input task.SummaryInput
	if len(args) > 0 {
		date, err := time.Parse(summaryDateLayout, args[0])
		if err != nil {
			h.reply(ctx, sc, msgSummaryUsage)
			return nil
		}
		input.Date = date
	}

	report, err := h.uc.DailySummary(ctx, sc, input)
	if err != nil {
		return err
	}
	h.reply(ctx, sc, h.summary(report))
	return nil
}

func (h *handler) handleRest(ctx context.Context, sc model.Scope) error {
	out, err := h.uc.StartRest(ctx, sc, task.RestInput{})
	if err != nil {
		return err
	}
	h.reply(ctx, sc, h.restStarted(out))
	return nil
}

func (h *handler) handleStop(ctx context.Context, sc model.Scope) error {
	out, err := h.uc.CloseActive(ctx, sc, task.CloseInput{})
	if err != nil {
		return err
	}
	h.reply(ctx, sc, h.stopped(out))
	return nil
}

func (h *handler) handleTrack(ctx context.Context, sc model.Scope, text string) error {
	out, err := h.uc.TrackMessage(ctx, sc, task.TrackInput{Text: text})
	if err != nil {
		return err
	}
	h.reply(ctx, sc, h.tracked(out))
	return nil
}

func (h *handler) reply(ctx context.Context, sc model.Scope, text string) {
	err := h.bot.SendMessageWithKeyboard(ctx, sc.ChatID, text, pkgTelegram.ParseModeMarkdown, h.keyboard)
	if err != nil {
		h.l.Warnf(ctx, "telegram handler: failed to reply to chat %d: %v", sc.ChatID, err)
	}
}

// splitCommand returns the lower-cased command without a @botname suffix and
// its arguments. Plain text yields an empty command.
func splitCommand(text string) (string, []string) {
	if !strings.HasPrefix(text, "/") {
		return "", nil
	}
	fields := strings.Fields(text)
	command := strings.ToLower(fields[0])
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}
	return command, fields[1:]
}

// isButton matches a keyboard button with or without its emoji.
func isButton(text, button string) bool {
	if text == button {
		return true
	}
	_, word, _ := strings.Cut(button, " ")
	return strings.EqualFold(text, word)
}
