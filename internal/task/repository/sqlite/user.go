package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"time-tracking-bot/internal/model"
	repo "time-tracking-bot/internal/task/repository"
)

const userColumns = `user_id, timezone, workday_start, workday_end`

// GetUser returns the user, or a zero-value User when not found.
func (r *implRepository) GetUser(ctx context.Context, userID int64) (model.User, error) {
	row, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = ?`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetUser"), err)
		return model.User{}, repo.ErrFailedToGet
	}
	return toUser(row)
}

// CreateUser inserts the user if missing and returns the stored row.
func (r *implRepository) CreateUser(ctx context.Context, opt repo.CreateUserOptions) (model.User, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, timezone, workday_start, workday_end, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO NOTHING`,
		opt.UserID, opt.Timezone, opt.WorkdayStart.String(), opt.WorkdayEnd.String(), formatTime(time.Now()),
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateUser"), err)
		return model.User{}, repo.ErrFailedToInsert
	}

	user, err := r.GetUser(ctx, opt.UserID)
	if err != nil {
		return model.User{}, err
	}
	if user.ID == 0 {
		return model.User{}, repo.ErrFailedToInsert
	}
	return user, nil
}

func (r *implRepository) UpdateUserTimezone(ctx context.Context, userID int64, timezone string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET timezone = ? WHERE user_id = ?`, timezone, userID)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpdateUserTimezone"), err)
		return repo.ErrFailedToUpdate
	}
	return nil
}

func (r *implRepository) UpdateUserWorkday(ctx context.Context, opt repo.UpdateWorkdayOptions) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET workday_start = ?, workday_end = ? WHERE user_id = ?`,
		opt.Start.String(), opt.End.String(), opt.UserID,
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpdateUserWorkday"), err)
		return repo.ErrFailedToUpdate
	}
	return nil
}

// ListUsersWithActiveTask returns every user that owns an open task. Rows that
// cannot be mapped are logged and skipped.
func (r *implRepository) ListUsersWithActiveTask(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT u.user_id, u.timezone, u.workday_start, u.workday_end
		FROM users u
		JOIN tasks t ON t.user_id = u.user_id
		WHERE t.end_time IS NULL
		ORDER BY u.user_id`)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListUsersWithActiveTask"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		row, err := scanUser(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListUsersWithActiveTask"), err)
			return nil, repo.ErrFailedToList
		}
		user, err := toUser(row)
		if err != nil {
			// One bad row must not hide the other users from the sweep
			r.l.Warnf(ctx, "%s: skipping user %d: %v", r.dsn("ListUsersWithActiveTask"), row.id, err)
			continue
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "%s rows: %v", r.dsn("ListUsersWithActiveTask"), err)
		return nil, repo.ErrFailedToList
	}
	return users, nil
}
