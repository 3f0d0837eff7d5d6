package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"time-tracking-bot/internal/model"
	repo "time-tracking-bot/internal/task/repository"
)

const taskColumns = `id, user_id, label, comment, original_message, start_time, end_time, is_rest`

// GetActiveTask returns the user's most recent open task, or a zero-value Task.
func (r *implRepository) GetActiveTask(ctx context.Context, userID int64) (model.Task, error) {
	row, err := scanTask(r.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE user_id = ? AND end_time IS NULL
		ORDER BY start_time DESC, id DESC
		LIMIT 1`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetActiveTask"), err)
		return model.Task{}, repo.ErrFailedToGet
	}
	return toTask(row)
}

// CreateTask inserts an open task and returns it with its assigned id.
func (r *implRepository) CreateTask(ctx context.Context, opt repo.CreateTaskOptions) (model.Task, error) {
	isRest := 0
	if opt.IsRest {
		isRest = 1
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (user_id, label, comment, original_message, start_time, end_time, is_rest, created_at)
		VALUES (?, ?, ?, ?, ?, NULL, ?, ?)`,
		opt.UserID, opt.Label, nullString(opt.Comment), nullString(opt.OriginalMessage),
		formatTime(opt.StartTime), isRest, formatTime(time.Now()),
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateTask"), err)
		return model.Task{}, repo.ErrFailedToInsert
	}
	id, err := res.LastInsertId()
	if err != nil {
		r.l.Errorf(ctx, "%s last id: %v", r.dsn("CreateTask"), err)
		return model.Task{}, repo.ErrFailedToInsert
	}

	return model.Task{
		ID:              id,
		UserID:          opt.UserID,
		Label:           opt.Label,
		Comment:         opt.Comment,
		OriginalMessage: opt.OriginalMessage,
		StartTime:       opt.StartTime.UTC(),
		IsRest:          opt.IsRest,
	}, nil
}

// CloseTask sets end_time on an open task. It reports false when the task
// does not exist or is already closed.
func (r *implRepository) CloseTask(ctx context.Context, opt repo.CloseTaskOptions) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET end_time = ? WHERE id = ? AND end_time IS NULL`,
		formatTime(opt.EndTime), opt.TaskID,
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CloseTask"), err)
		return false, repo.ErrFailedToUpdate
	}
	return affected(res)
}

// UpdateTaskFields rewrites label, comment and original message of an open task.
func (r *implRepository) UpdateTaskFields(ctx context.Context, opt repo.UpdateTaskFieldsOptions) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET label = ?, comment = ?, original_message = ?
		WHERE id = ? AND end_time IS NULL`,
		opt.Label, nullString(opt.Comment), nullString(opt.OriginalMessage), opt.TaskID,
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpdateTaskFields"), err)
		return false, repo.ErrFailedToUpdate
	}
	return affected(res)
}

// ListTasksInRange returns tasks whose start lies in [From, To], oldest first.
func (r *implRepository) ListTasksInRange(ctx context.Context, opt repo.ListTasksInRangeOptions) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE user_id = ? AND start_time >= ? AND start_time <= ?
		ORDER BY start_time, id`,
		opt.UserID, formatTime(opt.From), formatTime(opt.To),
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListTasksInRange"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		row, err := scanTask(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListTasksInRange"), err)
			return nil, repo.ErrFailedToList
		}
		t, err := toTask(row)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "%s rows: %v", r.dsn("ListTasksInRange"), err)
		return nil, repo.ErrFailedToList
	}
	return tasks, nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, repo.ErrFailedToUpdate
	}
	return n > 0, nil
}
