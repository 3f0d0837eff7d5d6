package telegram

import (
	"errors"

	"time-tracking-bot/internal/task"
)

// errorMessage returns a user-facing error string for the given error.
func errorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, task.ErrEmptyTaskLabel):
		return "❌ Не удалось распознать задачу. Отправьте её название текстом."
	case errors.Is(err, task.ErrInvalidTimeZone):
		return "❌ Неверный часовой пояс\n\nИспользуйте формат: `Europe/Moscow`, `America/New_York`"
	case errors.Is(err, task.ErrInvalidTimeOfDay):
		return "❌ Неверное время. Используйте формат ЧЧ:ММ, например `09:00`"
	case errors.Is(err, task.ErrStartBeforeActive):
		return "❌ Время начала раньше начала текущей задачи"
	default:
		return "❌ Не удалось сохранить данные. Попробуйте ещё раз."
	}
}
