package repository

import (
	"context"

	"time-tracking-bot/internal/model"
)

// Repository is the composed interface for the time tracker data store.
type Repository interface {
	UserRepository
	TaskRepository

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}

// UserRepository defines data access for user settings.
// Getters return a zero-value User (ID == 0) when not found.
type UserRepository interface {
	GetUser(ctx context.Context, userID int64) (model.User, error)
	CreateUser(ctx context.Context, opt CreateUserOptions) (model.User, error)
	UpdateUserTimezone(ctx context.Context, userID int64, timezone string) error
	UpdateUserWorkday(ctx context.Context, opt UpdateWorkdayOptions) error
	ListUsersWithActiveTask(ctx context.Context) ([]model.User, error)
}

// TaskRepository defines data access for tracked tasks.
// Getters return a zero-value Task (ID == 0) when not found.
type TaskRepository interface {
	GetActiveTask(ctx context.Context, userID int64) (model.Task, error)
	CreateTask(ctx context.Context, opt CreateTaskOptions) (model.Task, error)
	CloseTask(ctx context.Context, opt CloseTaskOptions) (bool, error)
	UpdateTaskFields(ctx context.Context, opt UpdateTaskFieldsOptions) (bool, error)
	ListTasksInRange(ctx context.Context, opt ListTasksInRangeOptions) ([]model.Task, error)
}
