package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/memorykeeper/memorykeeper/store"
)

func (d *DB) CreateGameResult(ctx context.Context, create *store.GameResult) (*store.GameResult, error) {
	fields := []string{
		"session_id", "user_id", "game_type", "difficulty", "score",
		"strength_before", "strength_after", "degenerate",
	}
	args := []any{
		create.SessionID, create.UserID, create.GameType, create.Difficulty, create.Score,
		create.StrengthBefore, create.StrengthAfter, create.Degenerate,
	}

	stmt := `INSERT INTO game_result (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create game result: %w", err)
	}

	return create, nil
}

func (d *DB) ListGameResults(ctx context.Context, find *store.FindGameResult) ([]*store.GameResult, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.UserID; v != nil {
		where, args = append(where, "game_result.user_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.GameType; v != nil {
		where, args = append(where, "game_result.game_type = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT
			id, session_id, user_id, created_ts,
			game_type, difficulty, score, strength_before, strength_after, degenerate
		FROM game_result
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY game_result.created_ts DESC, game_result.id DESC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query game results: %w", err)
	}
	defer rows.Close()

	list := make([]*store.GameResult, 0)
	for rows.Next() {
		var result store.GameResult
		if err := rows.Scan(
			&result.ID,
			&result.SessionID,
			&result.UserID,
			&result.CreatedTs,
			&result.GameType,
			&result.Difficulty,
			&result.Score,
			&result.StrengthBefore,
			&result.StrengthAfter,
			&result.Degenerate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan game result: %w", err)
		}
		list = append(list, &result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game results: %w", err)
	}

	return list, nil
}
