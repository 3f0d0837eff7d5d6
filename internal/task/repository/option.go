package repository

import (
	"time"

	"time-tracking-bot/pkg/datemath"
)

// CreateUserOptions holds the defaults for a new user.
type CreateUserOptions struct {
	UserID       int64
	Timezone     string
	WorkdayStart datemath.TimeOfDay
	WorkdayEnd   datemath.TimeOfDay
}

// UpdateWorkdayOptions holds a new workday window.
type UpdateWorkdayOptions struct {
	UserID int64
	Start  datemath.TimeOfDay
	End    datemath.TimeOfDay
}

// CreateTaskOptions holds the parameters for inserting an open task.
type CreateTaskOptions struct {
	UserID          int64
	Label           string
	Comment         string // "" stored as NULL
	OriginalMessage string // "" stored as NULL
	StartTime       time.Time
	IsRest          bool
}

// CloseTaskOptions sets the end time of a task.
type CloseTaskOptions struct {
	TaskID  int64
	EndTime time.Time
}

// UpdateTaskFieldsOptions rewrites the text fields of a task in place.
type UpdateTaskFieldsOptions struct {
	TaskID          int64
	Label           string
	Comment         string
	OriginalMessage string
}

// ListTasksInRangeOptions selects a user's tasks whose start lies in [From, To].
type ListTasksInRangeOptions struct {
	UserID int64
	From   time.Time
	To     time.Time
}
