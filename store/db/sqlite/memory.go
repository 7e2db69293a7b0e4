package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/memorykeeper/memorykeeper/store"
)

func (d *DB) CreateMemory(ctx context.Context, create *store.Memory) (*store.Memory, error) {
	tags, err := marshalTags(create.Tags)
	if err != nil {
		return nil, err
	}

	fields := []string{"uid", "creator_id", "content", "tags"}
	args := []any{create.UID, create.CreatorID, create.Content, tags}

	if create.Image != nil {
		fields = append(fields, "image")
		args = append(args, *create.Image)
	}
	if create.Audio != nil {
		fields = append(fields, "audio")
		args = append(args, *create.Audio)
	}

	stmt := `INSERT INTO memory (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, created_ts, updated_ts`

	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create memory: %w", err)
	}

	return create, nil
}

func (d *DB) ListMemories(ctx context.Context, find *store.FindMemory) ([]*store.Memory, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "memory.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "memory.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "memory.creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Tag; v != nil {
		// Tags are stored as a JSON array of strings.
		where, args = append(where, "memory.tags LIKE "+placeholder(len(args)+1)), append(args, "%"+jsonStringLiteral(*v)+"%")
	}

	query := `
		SELECT
			id, uid, creator_id, created_ts, updated_ts,
			content, tags, image, audio
		FROM memory
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY memory.created_ts DESC, memory.id DESC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query memories: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Memory, 0)
	for rows.Next() {
		var memory store.Memory
		var tags string
		var image, audio sql.NullString

		if err := rows.Scan(
			&memory.ID,
			&memory.UID,
			&memory.CreatorID,
			&memory.CreatedTs,
			&memory.UpdatedTs,
			&memory.Content,
			&tags,
			&image,
			&audio,
		); err != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", err)
		}

		memory.Tags = unmarshalTags(tags)
		if image.Valid {
			memory.Image = &image.String
		}
		if audio.Valid {
			memory.Audio = &audio.String
		}

		list = append(list, &memory)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memories: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateMemory(ctx context.Context, update *store.UpdateMemory) error {
	set, args := []string{"updated_ts = (strftime('%s', 'now'))"}, []any{}

	if v := update.Image; v != nil {
		set, args = append(set, "image = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Audio; v != nil {
		set, args = append(set, "audio = "+placeholder(len(args)+1)), append(args, *v)
	}

	args = append(args, update.ID)

	stmt := `UPDATE memory SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update memory: %w", err)
	}

	return nil
}

func (d *DB) DeleteMemory(ctx context.Context, delete *store.DeleteMemory) error {
	stmt := `DELETE FROM memory WHERE id = ` + placeholder(1)
	result, err := d.db.ExecContext(ctx, stmt, delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete memory: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("memory not found")
	}

	return nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tags: %w", err)
	}
	return string(raw), nil
}

func unmarshalTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return []string{}
	}
	return tags
}

func jsonStringLiteral(s string) string {
	raw, err := json.Marshal(s)
	if err != nil {
		return s
	}
	return string(raw)
}
