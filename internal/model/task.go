package model

import "time"

// RestLabel is the label of break periods.
const RestLabel = "отдых"

// Task is one tracked period. EndTime == nil means the task is active.
// Empty Comment and OriginalMessage mean absent.
type Task struct {
	ID              int64
	UserID          int64
	Label           string
	Comment         string
	OriginalMessage string
	StartTime       time.Time
	EndTime         *time.Time
	IsRest          bool
}

// IsActive reports whether the task is still open.
func (t Task) IsActive() bool {
	return t.EndTime == nil
}

// Duration is EndTime-StartTime, using now for an open task. Never negative.
func (t Task) Duration(now time.Time) time.Duration {
	end := now
	if t.EndTime != nil {
		end = *t.EndTime
	}
	d := end.Sub(t.StartTime)
	if d < 0 {
		return 0
	}
	return d
}
