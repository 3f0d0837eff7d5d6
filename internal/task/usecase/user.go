package usecase

import (
	"context"
	"strings"

	"time-tracking-bot/internal/model"
	"time-tracking-bot/internal/task"
	"time-tracking-bot/internal/task/repository"
	"time-tracking-bot/pkg/datemath"
)

func (uc *implUseCase) RegisterUser(ctx context.Context, sc model.Scope) (model.User, error) {
	return uc.loadUser(ctx, sc.UserID)
}

// SetTimezone stores a new IANA zone. An invalid name leaves the prior value in place.
func (uc *implUseCase) SetTimezone(ctx context.Context, sc model.Scope, input task.SetTimezoneInput) (model.User, error) {
	name := strings.TrimSpace(input.Timezone)
	if !datemath.ValidateTimeZone(name) {
		return model.User{}, task.ErrInvalidTimeZone
	}

	unlock := uc.locks.Lock(sc.UserID)
	defer unlock()

	u, err := uc.loadUser(ctx, sc.UserID)
	if err != nil {
		return model.User{}, err
	}

	sctx, cancel := uc.storageCtx(ctx)
	defer cancel()
	if err := uc.repo.UpdateUserTimezone(sctx, sc.UserID, name); err != nil {
		return model.User{}, storageErr("update timezone", err)
	}

	uc.l.Infof(ctx, "task.usecase.SetTimezone: user %d now in %s", sc.UserID, name)
	u.Timezone = name
	return u, nil
}

// SetWorkday stores a new workday window given as two "HH:MM" tokens.
func (uc *implUseCase) SetWorkday(ctx context.Context, sc model.Scope, input task.SetWorkdayInput) (model.User, error) {
	start, err := datemath.ParseTimeOfDay(strings.TrimSpace(input.Start))
	if err != nil {
		return model.User{}, task.ErrInvalidTimeOfDay
	}
	end, err := datemath.ParseTimeOfDay(strings.TrimSpace(input.End))
	if err != nil {
		return model.User{}, task.ErrInvalidTimeOfDay
	}

	unlock := uc.locks.Lock(sc.UserID)
	defer unlock()

	u, err := uc.loadUser(ctx, sc.UserID)
	if err != nil {
		return model.User{}, err
	}

	sctx, cancel := uc.storageCtx(ctx)
	defer cancel()
	err = uc.repo.UpdateUserWorkday(sctx, repository.UpdateWorkdayOptions{
		UserID: sc.UserID,
		Start:  start,
		End:    end,
	})
	if err != nil {
		return model.User{}, storageErr("update workday", err)
	}

	uc.l.Infof(ctx, "task.usecase.SetWorkday: user %d workday %s-%s", sc.UserID, start, end)
	u.WorkdayStart = start
	u.WorkdayEnd = end
	return u, nil
}
