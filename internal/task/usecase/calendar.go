package usecase

import (
	"context"

	"time-tracking-bot/internal/model"
	"time-tracking-bot/internal/task"
	"time-tracking-bot/pkg/gcalendar"
)

// mirrorClosed copies closed tasks into the calendar. Failures are logged only.
func (uc *implUseCase) mirrorClosed(ctx context.Context, u model.User, closed ...*task.ClosedTask) {
	if uc.calendar == nil {
		return
	}
	for _, c := range closed {
		if c == nil || c.Task.EndTime == nil {
			continue
		}
		summary := c.Task.Label
		if c.Task.Comment != "" {
			summary += " - " + c.Task.Comment
		}
		_, err := uc.calendar.CreateEvent(ctx, gcalendar.CreateEventRequest{
			CalendarID:  uc.cfg.CalendarID,
			Summary:     summary,
			Description: c.Task.OriginalMessage,
			StartTime:   c.Task.StartTime,
			EndTime:     *c.Task.EndTime,
			Timezone:    u.Timezone,
		})
		if err != nil {
			uc.l.Warnf(ctx, "task.usecase.mirrorClosed: task %d: %v", c.Task.ID, err)
			continue
		}
		uc.l.Debugf(ctx, "task.usecase.mirrorClosed: task %d mirrored", c.Task.ID)
	}
}
