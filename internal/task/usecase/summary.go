package usecase

import (
	"context"
	"sort"
	"time"

	"time-tracking-bot/internal/model"
	"time-tracking-bot/internal/task"
	"time-tracking-bot/internal/task/repository"
	"time-tracking-bot/pkg/datemath"
	"time-tracking-bot/pkg/tasktext"
)

// DailySummary aggregates the tasks that started on one local calendar day.
func (uc *implUseCase) DailySummary(ctx context.Context, sc model.Scope, input task.SummaryInput) (task.SummaryReport, error) {
	u, err := uc.loadUser(ctx, sc.UserID)
	if err != nil {
		return task.SummaryReport{}, err
	}

	zone, err := uc.zoneOf(ctx, u)
	if err != nil {
		return task.SummaryReport{}, err
	}
	now := uc.now().UTC()

	day := input.Date
	if day.IsZero() {
		day = zone.ToLocal(now)
	}
	y, m, d := day.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, zone.Location())
	from, to := zone.DayBounds(date)

	sctx, cancel := uc.storageCtx(ctx)
	tasks, err := uc.repo.ListTasksInRange(sctx, repository.ListTasksInRangeOptions{
		UserID: sc.UserID,
		From:   from,
		To:     to,
	})
	cancel()
	if err != nil {
		return task.SummaryReport{}, storageErr("list tasks", err)
	}

	report := buildReport(zone, tasks, now)
	report.User = u
	report.Date = date
	return report, nil
}

// buildReport sums the day's tasks. Open tasks run until now.
func buildReport(zone *datemath.Zone, tasks []model.Task, now time.Time) task.SummaryReport {
	report := task.SummaryReport{Empty: len(tasks) == 0}
	if report.Empty {
		return report
	}

	groupIdx := make(map[string]int)
	comments := make(map[string]struct{})

	for i := range tasks {
		t := tasks[i]
		dur := t.Duration(now)

		entry := task.SummaryEntry{
			Task:     t,
			Start:    datemath.FormatClock(zone.ToLocal(t.StartTime)),
			Duration: dur,
		}
		if t.IsActive() {
			entry.End = task.OngoingMarker
			entry.Ongoing = true
			report.Active = &tasks[i]
		} else {
			entry.End = datemath.FormatClock(zone.ToLocal(*t.EndTime))
		}
		report.Entries = append(report.Entries, entry)

		if t.Comment != "" {
			comments[t.Comment] = struct{}{}
		}

		if t.IsRest {
			report.TotalRest += dur
			continue
		}
		report.TotalWork += dur

		idx, ok := groupIdx[t.Label]
		if !ok {
			idx = len(report.Groups)
			groupIdx[t.Label] = idx
			report.Groups = append(report.Groups, task.LabelTotal{
				Label:    t.Label,
				IsTicket: tasktext.IsTicketLabel(t.Label),
			})
		}
		g := &report.Groups[idx]
		g.Duration += dur
		if g.OriginalMessage == "" {
			g.OriginalMessage = t.OriginalMessage
		}
	}

	for c := range comments {
		report.Comments = append(report.Comments, c)
	}
	sort.Strings(report.Comments)
	return report
}
