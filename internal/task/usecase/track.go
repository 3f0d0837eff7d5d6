package usecase

import (
	"context"
	"strings"
	"time"

	"time-tracking-bot/internal/model"
	"time-tracking-bot/internal/task"
	"time-tracking-bot/internal/task/repository"
	"time-tracking-bot/pkg/datemath"
	"time-tracking-bot/pkg/tasktext"
)

type trackRequest struct {
	raw      string
	parsed   tasktext.Parsed
	tod      datemath.TimeOfDay
	explicit bool
}

// TrackMessage applies one free-text task message for the user: the active
// task is either corrected in place or closed and replaced.
func (uc *implUseCase) TrackMessage(ctx context.Context, sc model.Scope, input task.TrackInput) (task.TrackOutput, error) {
	raw := strings.TrimSpace(input.Text)
	tod, explicit, rest := tasktext.ExtractLeadingTime(raw)
	parsed := tasktext.Parse(rest)
	if parsed.Label == "" {
		return task.TrackOutput{}, task.ErrEmptyTaskLabel
	}

	unlock := uc.locks.Lock(sc.UserID)
	out, err := uc.track(ctx, sc, trackRequest{raw: raw, parsed: parsed, tod: tod, explicit: explicit})
	unlock()
	if err != nil {
		return task.TrackOutput{}, err
	}

	uc.mirrorClosed(ctx, out.User, out.Previous)
	return out, nil
}

func (uc *implUseCase) track(ctx context.Context, sc model.Scope, req trackRequest) (task.TrackOutput, error) {
	u, err := uc.loadUser(ctx, sc.UserID)
	if err != nil {
		return task.TrackOutput{}, err
	}

	now := uc.now().UTC()
	start := now
	if req.explicit {
		zone, err := uc.zoneOf(ctx, u)
		if err != nil {
			return task.TrackOutput{}, err
		}
		start = zone.AtTimeOfDay(req.tod, now)
	}

	active, err := uc.getActive(ctx, sc.UserID)
	if err != nil {
		return task.TrackOutput{}, err
	}

	out := task.TrackOutput{
		Action:       task.ActionCreated,
		IsTicket:     req.parsed.IsTicket,
		ExplicitTime: req.explicit,
		User:         u,
	}

	if active.ID != 0 {
		if active.Label == req.parsed.Label && absDuration(start.Sub(active.StartTime)) <= uc.cfg.UpdateWindow {
			updated, ok, err := uc.updateInPlace(ctx, active, req)
			if err != nil {
				return task.TrackOutput{}, err
			}
			if ok {
				out.Action = task.ActionUpdated
				out.Task = updated
				uc.l.Infof(ctx, "task.usecase.TrackMessage: user %d updated task %d", sc.UserID, updated.ID)
				return out, nil
			}
			active = model.Task{}
		}
	}

	if active.ID != 0 {
		if start.Before(active.StartTime) {
			if req.explicit {
				return task.TrackOutput{}, task.ErrStartBeforeActive
			}
			start = active.StartTime
		}
		closed, err := uc.closeTask(ctx, active, start)
		if err != nil {
			return task.TrackOutput{}, err
		}
		out.Previous = closed
	}

	created, err := uc.createTask(ctx, repository.CreateTaskOptions{
		UserID:          sc.UserID,
		Label:           req.parsed.Label,
		Comment:         req.parsed.Comment,
		OriginalMessage: req.raw,
		StartTime:       start,
	})
	if err != nil {
		return task.TrackOutput{}, err
	}

	out.Task = created
	uc.l.Infof(ctx, "task.usecase.TrackMessage: user %d started task %d", sc.UserID, created.ID)
	return out, nil
}

// updateInPlace rewrites the text fields of the active task. It reports false
// when the task was closed in the meantime.
func (uc *implUseCase) updateInPlace(ctx context.Context, active model.Task, req trackRequest) (model.Task, bool, error) {
	sctx, cancel := uc.storageCtx(ctx)
	defer cancel()

	ok, err := uc.repo.UpdateTaskFields(sctx, repository.UpdateTaskFieldsOptions{
		TaskID:          active.ID,
		Label:           req.parsed.Label,
		Comment:         req.parsed.Comment,
		OriginalMessage: req.raw,
	})
	if err != nil {
		return model.Task{}, false, storageErr("update task", err)
	}
	if !ok {
		return model.Task{}, false, nil
	}

	active.Label = req.parsed.Label
	active.Comment = req.parsed.Comment
	active.OriginalMessage = req.raw
	return active, true, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
