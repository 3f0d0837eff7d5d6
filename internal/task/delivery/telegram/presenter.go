package telegram

import (
	"fmt"
	"strings"
	"time"

	"time-tracking-bot/internal/model"
	"time-tracking-bot/internal/task"
	"time-tracking-bot/pkg/datemath"
	"time-tracking-bot/pkg/tasktext"
)

const (
	msgWelcome = "🚀 *Бот для учёта рабочего времени*\n\n" +
		"Отправьте название задачи, и я начну отсчёт. Новая задача завершает предыдущую.\n\n" +
		"• `Разработка фичи` — начать задачу\n" +
		"• `Совещание - обсуждение планов` — задача с комментарием\n" +
		"• `https://jira.company.com/browse/PROJ-123` — задача по тикету\n" +
		"• `14:30 Код-ревью` — задача с указанным временем начала\n\n" +
		"Настройки: /set\\_timezone и /set\\_workday. Подробнее: /help"

	msgHelp = "📋 *Команды*\n\n" +
		"• /start — приветствие\n" +
		"• /set\\_timezone `Europe/Moscow` — часовой пояс\n" +
		"• /set\\_workday `09:00 18:00` — рабочий день\n" +
		"• /summary `ДД.ММ.ГГГГ` — сводка за день\n" +
		"• /rest — начать отдых\n" +
		"• /stop — завершить текущую задачу\n\n" +
		"*Кнопки*\n" +
		"• " + ButtonRest + " — завершить задачу и начать отдых\n" +
		"• " + ButtonSummary + " — сводка за сегодня\n" +
		"• " + ButtonHelp + " — эта справка\n\n" +
		"*Задачи*\n" +
		"• Комментарий отделяется ` - `\n" +
		"• Время начала можно указать в начале: `14:00` или `14_00`\n" +
		"• Повтор той же задачи в течение минуты обновляет её\n" +
		"• В конце рабочего дня задача завершается автоматически"

	msgTimezoneUsage = "❌ Укажите часовой пояс\n\nПример: `/set_timezone Europe/Moscow`"
	msgWorkdayUsage  = "❌ Укажите начало и конец рабочего дня\n\nПример: `/set_workday 09:00 18:00`"
	msgSummaryUsage  = "❌ Неверная дата\n\nПример: `/summary 01.05.2024`"

	msgUnknownCommand = "🤔 Неизвестная команда. Список команд: /help"
	msgRateLimited    = "⏳ Слишком много сообщений. Подождите немного."
	msgNoActiveTask   = "💤 Нет активной задачи"
)

// label renders a stored task label for Markdown.
func (h *handler) label(t model.Task) string {
	return h.format.Format(t.Label, tasktext.IsTicketLabel(t.Label), t.OriginalMessage)
}

// localClock renders instant as HH:MM in the user's zone, UTC if the zone is unusable.
func localClock(u model.User, instant time.Time) string {
	if z, err := u.Zone(); err == nil {
		return datemath.FormatClock(z.ToLocal(instant))
	}
	return datemath.FormatClock(instant.UTC())
}

func (h *handler) closedLine(prefix string, c *task.ClosedTask) string {
	return fmt.Sprintf("%s %s\n⏱️ Продолжительность: %s", prefix, h.label(c.Task), datemath.FormatDuration(c.Duration))
}

func (h *handler) tracked(out task.TrackOutput) string {
	var sb strings.Builder
	if out.Action == task.ActionUpdated {
		fmt.Fprintf(&sb, "✏️ Задача обновлена: %s\n⏰ Время начала: %s", h.label(out.Task), localClock(out.User, out.Task.StartTime))
	} else {
		if out.Previous != nil {
			sb.WriteString(h.closedLine("✅ Предыдущая задача завершена:", out.Previous))
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "🚀 Начата задача: %s\n⏰ Время начала: %s", h.label(out.Task), localClock(out.User, out.Task.StartTime))
	}
	if out.Task.Comment != "" {
		fmt.Fprintf(&sb, "\n💬 Комментарий: %s", tasktext.EscapeMarkdown(out.Task.Comment))
	}
	return sb.String()
}

func (h *handler) restStarted(out task.RestOutput) string {
	var sb strings.Builder
	if out.Previous != nil {
		sb.WriteString(h.closedLine("✅ Завершена задача", out.Previous))
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, "😴 Начат отдых в %s\n\nОтправьте новую задачу, чтобы продолжить работу", localClock(out.User, out.Task.StartTime))
	return sb.String()
}

func (h *handler) stopped(out task.CloseOutput) string {
	if out.Closed == nil {
		return msgNoActiveTask
	}
	return h.closedLine("⏹️ Завершена задача", out.Closed)
}

func (h *handler) autoClosed(c task.AutoClosed) string {
	return h.closedLine("⏰ Задача автоматически завершена:", &c.Closed) +
		fmt.Sprintf("\n🔔 Окончание рабочего дня в %s", c.User.WorkdayEnd)
}

func (h *handler) timezoneSet(u model.User, now time.Time) string {
	return fmt.Sprintf("✅ Часовой пояс установлен: `%s`\n🕐 Текущее время: `%s`", u.Timezone, localClock(u, now))
}

func workdaySet(u model.User) string {
	return fmt.Sprintf("✅ Рабочий день установлен: `%s - %s`", u.WorkdayStart, u.WorkdayEnd)
}

func (h *handler) summary(r task.SummaryReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 *Сводка за %s*\n\n", r.Date.Format(summaryDateLayout))

	if r.Empty {
		sb.WriteString("📝 Задач за этот день нет")
		return sb.String()
	}

	if r.Active != nil {
		fmt.Fprintf(&sb, "🔄 *Текущая задача:* %s\n⏰ Начало: %s\n\n", h.label(*r.Active), localClock(r.User, r.Active.StartTime))
	}

	if len(r.Groups) > 0 {
		sb.WriteString("📝 *Задачи:*\n")
		for _, g := range r.Groups {
			fmt.Fprintf(&sb, "• %s — %s\n", h.format.Format(g.Label, g.IsTicket, g.OriginalMessage), datemath.FormatDuration(g.Duration))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("🕘 *Хронология:*\n")
	for _, e := range r.Entries {
		fmt.Fprintf(&sb, "%s - %s %s (%s)\n", e.Start, e.End, h.label(e.Task), datemath.FormatDuration(e.Duration))
	}

	if len(r.Comments) > 0 {
		sb.WriteString("\n💬 *Комментарии:*\n")
		for _, c := range r.Comments {
			fmt.Fprintf(&sb, "• %s\n", tasktext.EscapeMarkdown(c))
		}
	}

	fmt.Fprintf(&sb, "\n⏱️ *Работа:* %s\n☕ *Отдых:* %s", datemath.FormatDuration(r.TotalWork), datemath.FormatDuration(r.TotalRest))
	return sb.String()
}
