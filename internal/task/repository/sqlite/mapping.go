package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"time-tracking-bot/internal/model"
	repo "time-tracking-bot/internal/task/repository"
	"time-tracking-bot/pkg/datemath"
)

// Fixed width so stored instants compare correctly as strings.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type scanner interface {
	Scan(dest ...any) error
}

type userRow struct {
	id           int64
	timezone     string
	workdayStart string
	workdayEnd   string
}

type taskRow struct {
	id              int64
	userID          int64
	label           string
	comment         sql.NullString
	originalMessage sql.NullString
	startTime       string
	endTime         sql.NullString
	isRest          int
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func parseTime(v string) (time.Time, error) {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q", repo.ErrMalformedRow, v)
	}
	return t, nil
}

func scanUser(s scanner) (userRow, error) {
	var row userRow
	err := s.Scan(&row.id, &row.timezone, &row.workdayStart, &row.workdayEnd)
	return row, err
}

func scanTask(s scanner) (taskRow, error) {
	var row taskRow
	err := s.Scan(&row.id, &row.userID, &row.label, &row.comment, &row.originalMessage,
		&row.startTime, &row.endTime, &row.isRest)
	return row, err
}

// toUser validates a row and builds the entity.
func toUser(row userRow) (model.User, error) {
	if row.id == 0 || strings.TrimSpace(row.timezone) == "" {
		return model.User{}, fmt.Errorf("%w: user %d", repo.ErrMalformedRow, row.id)
	}
	start, err := datemath.ParseTimeOfDay(row.workdayStart)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: user %d workday start: %v", repo.ErrMalformedRow, row.id, err)
	}
	end, err := datemath.ParseTimeOfDay(row.workdayEnd)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: user %d workday end: %v", repo.ErrMalformedRow, row.id, err)
	}
	return model.User{
		ID:           row.id,
		Timezone:     row.timezone,
		WorkdayStart: start,
		WorkdayEnd:   end,
	}, nil
}

// toTask validates a row and builds the entity.
func toTask(row taskRow) (model.Task, error) {
	if row.label == "" {
		return model.Task{}, fmt.Errorf("%w: task %d has empty label", repo.ErrMalformedRow, row.id)
	}
	start, err := parseTime(row.startTime)
	if err != nil {
		return model.Task{}, err
	}

	out := model.Task{
		ID:              row.id,
		UserID:          row.userID,
		Label:           row.label,
		Comment:         row.comment.String,
		OriginalMessage: row.originalMessage.String,
		StartTime:       start,
		IsRest:          row.isRest == 1,
	}
	if row.endTime.Valid {
		end, err := parseTime(row.endTime.String)
		if err != nil {
			return model.Task{}, err
		}
		if end.Before(start) {
			return model.Task{}, fmt.Errorf("%w: task %d ends before it starts", repo.ErrMalformedRow, row.id)
		}
		out.EndTime = &end
	}
	return out, nil
}
