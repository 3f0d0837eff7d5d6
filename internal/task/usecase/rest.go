package usecase

import (
	"context"

	"time-tracking-bot/internal/model"
	"time-tracking-bot/internal/task"
	"time-tracking-bot/internal/task/repository"
)

// StartRest closes the active task, if any, and opens a rest period at the same instant.
func (uc *implUseCase) StartRest(ctx context.Context, sc model.Scope, input task.RestInput) (task.RestOutput, error) {
	unlock := uc.locks.Lock(sc.UserID)
	out, err := uc.startRest(ctx, sc, input)
	unlock()
	if err != nil {
		return task.RestOutput{}, err
	}

	uc.mirrorClosed(ctx, out.User, out.Previous)
	return out, nil
}

func (uc *implUseCase) startRest(ctx context.Context, sc model.Scope, input task.RestInput) (task.RestOutput, error) {
	u, err := uc.loadUser(ctx, sc.UserID)
	if err != nil {
		return task.RestOutput{}, err
	}

	at := orNow(input.At, uc.now())
	active, err := uc.getActive(ctx, sc.UserID)
	if err != nil {
		return task.RestOutput{}, err
	}

	out := task.RestOutput{User: u}
	if active.ID != 0 {
		if at.Before(active.StartTime) {
			at = active.StartTime
		}
		closed, err := uc.closeTask(ctx, active, at)
		if err != nil {
			return task.RestOutput{}, err
		}
		out.Previous = closed
	}

	created, err := uc.createTask(ctx, repository.CreateTaskOptions{
		UserID:    sc.UserID,
		Label:     model.RestLabel,
		StartTime: at,
		IsRest:    true,
	})
	if err != nil {
		return task.RestOutput{}, err
	}

	out.Task = created
	uc.l.Infof(ctx, "task.usecase.StartRest: user %d started rest %d", sc.UserID, created.ID)
	return out, nil
}

// CloseActive closes the user's active task at input.At (now if zero).
func (uc *implUseCase) CloseActive(ctx context.Context, sc model.Scope, input task.CloseInput) (task.CloseOutput, error) {
	unlock := uc.locks.Lock(sc.UserID)
	u, closed, err := uc.closeActive(ctx, sc.UserID, input)
	unlock()
	if err != nil {
		return task.CloseOutput{}, err
	}

	uc.mirrorClosed(ctx, u, closed)
	return task.CloseOutput{Closed: closed}, nil
}

func (uc *implUseCase) closeActive(ctx context.Context, userID int64, input task.CloseInput) (model.User, *task.ClosedTask, error) {
	u, err := uc.loadUser(ctx, userID)
	if err != nil {
		return model.User{}, nil, err
	}

	active, err := uc.getActive(ctx, userID)
	if err != nil {
		return model.User{}, nil, err
	}
	if active.ID == 0 {
		return u, nil, nil
	}

	closed, err := uc.closeTask(ctx, active, orNow(input.At, uc.now()))
	if err != nil {
		return model.User{}, nil, err
	}
	if closed != nil {
		uc.l.Infof(ctx, "task.usecase.CloseActive: user %d closed task %d", userID, closed.Task.ID)
	}
	return u, closed, nil
}
