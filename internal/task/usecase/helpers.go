package usecase

import (
	"context"
	"fmt"
	"time"

	"time-tracking-bot/internal/model"
	"time-tracking-bot/internal/task"
	"time-tracking-bot/internal/task/repository"
	"time-tracking-bot/pkg/datemath"
)

// storageCtx bounds a single storage call.
func (uc *implUseCase) storageCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, uc.cfg.StorageTimeout)
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", task.ErrStorageFailure, op, err)
}

// loadUser returns the stored user, creating it with the defaults on first contact.
func (uc *implUseCase) loadUser(ctx context.Context, userID int64) (model.User, error) {
	sctx, cancel := uc.storageCtx(ctx)
	defer cancel()

	u, err := uc.repo.GetUser(sctx, userID)
	if err != nil {
		return model.User{}, storageErr("get user", err)
	}
	if u.ID != 0 {
		return u, nil
	}

	u, err = uc.repo.CreateUser(sctx, repository.CreateUserOptions{
		UserID:       userID,
		Timezone:     uc.cfg.DefaultTimezone,
		WorkdayStart: uc.cfg.DefaultWorkdayStart,
		WorkdayEnd:   uc.cfg.DefaultWorkdayEnd,
	})
	if err != nil {
		return model.User{}, storageErr("create user", err)
	}
	uc.l.Infof(ctx, "task.usecase.loadUser: registered user %d", userID)
	return u, nil
}

// zoneOf resolves the user's stored zone. A name that no longer loads is
// reported as task.ErrInvalidTimeZone rather than replaced.
func (uc *implUseCase) zoneOf(ctx context.Context, u model.User) (*datemath.Zone, error) {
	z, err := u.Zone()
	if err != nil {
		uc.l.Warnf(ctx, "task.usecase.zoneOf: user %d has unusable zone %q: %v", u.ID, u.Timezone, err)
		return nil, fmt.Errorf("%w: %q", task.ErrInvalidTimeZone, u.Timezone)
	}
	return z, nil
}

func (uc *implUseCase) getActive(ctx context.Context, userID int64) (model.Task, error) {
	sctx, cancel := uc.storageCtx(ctx)
	defer cancel()

	t, err := uc.repo.GetActiveTask(sctx, userID)
	if err != nil {
		return model.Task{}, storageErr("get active task", err)
	}
	return t, nil
}

// closeTask closes active at end, never earlier than its start. It returns
// nil when the task was already closed by someone else.
func (uc *implUseCase) closeTask(ctx context.Context, active model.Task, end time.Time) (*task.ClosedTask, error) {
	if end.Before(active.StartTime) {
		end = active.StartTime
	}
	end = end.UTC()

	sctx, cancel := uc.storageCtx(ctx)
	defer cancel()

	ok, err := uc.repo.CloseTask(sctx, repository.CloseTaskOptions{TaskID: active.ID, EndTime: end})
	if err != nil {
		return nil, storageErr("close task", err)
	}
	if !ok {
		uc.l.Warnf(ctx, "task.usecase.closeTask: task %d was no longer open", active.ID)
		return nil, nil
	}

	active.EndTime = &end
	return &task.ClosedTask{Task: active, Duration: active.Duration(end)}, nil
}

func (uc *implUseCase) createTask(ctx context.Context, opt repository.CreateTaskOptions) (model.Task, error) {
	sctx, cancel := uc.storageCtx(ctx)
	defer cancel()

	t, err := uc.repo.CreateTask(sctx, opt)
	if err != nil {
		return model.Task{}, storageErr("create task", err)
	}
	return t, nil
}

func orNow(at time.Time, now time.Time) time.Time {
	if at.IsZero() {
		return now.UTC()
	}
	return at.UTC()
}
