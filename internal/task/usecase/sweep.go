package usecase

import (
	"context"
	"time"

	"time-tracking-bot/internal/model"
	"time-tracking-bot/internal/task"
)

// AutoCloseSweep closes every active task that has run past its owner's
// workday end as of now. A failure for one user does not stop the sweep.
func (uc *implUseCase) AutoCloseSweep(ctx context.Context, now time.Time) (task.SweepOutput, error) {
	sctx, cancel := uc.storageCtx(ctx)
	users, err := uc.repo.ListUsersWithActiveTask(sctx)
	cancel()
	if err != nil {
		return task.SweepOutput{}, storageErr("list users with active task", err)
	}

	var out task.SweepOutput
	for _, u := range users {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}

		closed, err := uc.sweepUser(ctx, u, now)
		if err != nil {
			uc.l.Errorf(ctx, "task.usecase.AutoCloseSweep: user %d: %v", u.ID, err)
			out.Failed++
			continue
		}
		if closed == nil {
			continue
		}

		uc.mirrorClosed(ctx, u, closed)
		out.Closed = append(out.Closed, task.AutoClosed{User: u, Closed: *closed})
	}

	if len(out.Closed) > 0 || out.Failed > 0 {
		uc.l.Infof(ctx, "task.usecase.AutoCloseSweep: checked %d users, closed %d, failed %d", len(users), len(out.Closed), out.Failed)
	}
	return out, nil
}

func (uc *implUseCase) sweepUser(ctx context.Context, u model.User, now time.Time) (*task.ClosedTask, error) {
	unlock := uc.locks.Lock(u.ID)
	defer unlock()

	active, err := uc.getActive(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if active.ID == 0 {
		return nil, nil
	}

	zone, err := uc.zoneOf(ctx, u)
	if err != nil {
		return nil, err
	}
	should, closeAt := zone.ShouldAutoClose(u.WorkdayEnd, active.StartTime, now)
	if !should {
		return nil, nil
	}
	return uc.closeTask(ctx, active, closeAt)
}
