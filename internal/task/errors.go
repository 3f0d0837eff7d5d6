package task

import "errors"

// Domain-specific errors for the task package.
var (
	ErrInvalidTimeZone   = errors.New("invalid time zone")
	ErrInvalidTimeOfDay  = errors.New("invalid time of day")
	ErrEmptyTaskLabel    = errors.New("task label is empty")
	ErrStartBeforeActive = errors.New("start time precedes the active task start")
	ErrStorageFailure    = errors.New("storage failure")
)
