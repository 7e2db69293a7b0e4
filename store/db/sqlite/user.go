package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/memorykeeper/memorykeeper/store"
)

func (d *DB) CreateUser(ctx context.Context, create *store.User) (*store.User, error) {
	fields := []string{
		"uid", "name", "age", "avatar", "avatar_url", "theme", "plan",
		"memory_strength", "streak", "longest_streak",
	}
	args := []any{
		create.UID, create.Name, create.Age, create.Avatar, create.AvatarURL, create.Theme, create.Plan,
		create.MemoryStrength, create.Streak, create.LongestStreak,
	}

	if create.TrialEndTs != nil {
		fields = append(fields, "trial_end_ts")
		args = append(args, *create.TrialEndTs)
	}

	stmt := `INSERT INTO user (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, created_ts, updated_ts`

	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return create, nil
}

func (d *DB) UpdateUser(ctx context.Context, update *store.UpdateUser) (*store.User, error) {
	set, args := []string{"updated_ts = (strftime('%s', 'now'))"}, []any{}

	if v := update.Name; v != nil {
		set, args = append(set, "name = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Age; v != nil {
		set, args = append(set, "age = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Avatar; v != nil {
		set, args = append(set, "avatar = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.AvatarURL; v != nil {
		set, args = append(set, "avatar_url = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Theme; v != nil {
		set, args = append(set, "theme = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Plan; v != nil {
		set, args = append(set, "plan = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.TrialEndTs; v != nil {
		set, args = append(set, "trial_end_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.MemoryStrength; v != nil {
		set, args = append(set, "memory_strength = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Streak; v != nil {
		set, args = append(set, "streak = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.LongestStreak; v != nil {
		set, args = append(set, "longest_streak = "+placeholder(len(args)+1)), append(args, *v)
	}

	args = append(args, update.ID)

	stmt := `UPDATE user SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	users, err := d.ListUsers(ctx, &store.FindUser{ID: &update.ID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user not found")
	}
	return users[0], nil
}

func (d *DB) ListUsers(ctx context.Context, find *store.FindUser) ([]*store.User, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "user.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "user.uid = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT
			id, uid, created_ts, updated_ts,
			name, age, avatar, avatar_url, theme, plan, trial_end_ts,
			memory_strength, streak, longest_streak
		FROM user
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY user.id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	list := make([]*store.User, 0)
	for rows.Next() {
		var user store.User
		var trialEndTs sql.NullInt64

		if err := rows.Scan(
			&user.ID,
			&user.UID,
			&user.CreatedTs,
			&user.UpdatedTs,
			&user.Name,
			&user.Age,
			&user.Avatar,
			&user.AvatarURL,
			&user.Theme,
			&user.Plan,
			&trialEndTs,
			&user.MemoryStrength,
			&user.Streak,
			&user.LongestStreak,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		if trialEndTs.Valid {
			user.TrialEndTs = &trialEndTs.Int64
		}
		list = append(list, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return list, nil
}

func (d *DB) DeleteUser(ctx context.Context, delete *store.DeleteUser) error {
	stmt := `DELETE FROM user WHERE id = ` + placeholder(1)
	if _, err := d.db.ExecContext(ctx, stmt, delete.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
