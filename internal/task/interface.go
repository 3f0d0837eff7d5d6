package task

import (
	"context"
	"time"

	"time-tracking-bot/internal/model"
)

// UseCase defines the business logic interface for time tracking.
type UseCase interface {
	// RegisterUser returns the user's settings, creating them with defaults on first contact.
	RegisterUser(ctx context.Context, sc model.Scope) (model.User, error)

	// TrackMessage interprets a free-text task message: update the active task in place,
	// or close it and start a new one.
	TrackMessage(ctx context.Context, sc model.Scope, input TrackInput) (TrackOutput, error)

	// StartRest closes the active task (if any) and starts a rest period.
	StartRest(ctx context.Context, sc model.Scope, input RestInput) (RestOutput, error)

	// CloseActive closes the active task (if any).
	CloseActive(ctx context.Context, sc model.Scope, input CloseInput) (CloseOutput, error)

	// AutoCloseSweep closes every active task that has run past its owner's workday end.
	AutoCloseSweep(ctx context.Context, now time.Time) (SweepOutput, error)

	// DailySummary aggregates the user's tasks for one local calendar day.
	DailySummary(ctx context.Context, sc model.Scope, input SummaryInput) (SummaryReport, error)

	// SetTimezone validates and stores an IANA zone for the user.
	SetTimezone(ctx context.Context, sc model.Scope, input SetTimezoneInput) (model.User, error)

	// SetWorkday validates and stores the user's workday window.
	SetWorkday(ctx context.Context, sc model.Scope, input SetWorkdayInput) (model.User, error)
}
