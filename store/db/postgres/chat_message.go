package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/memorykeeper/memorykeeper/store"
)

func (d *DB) CreateChatMessage(ctx context.Context, create *store.ChatMessage) (*store.ChatMessage, error) {
	reactions, err := marshalReactions(create.Reactions)
	if err != nil {
		return nil, err
	}

	fields := []string{"uid", "owner_id", "sender_name", "sender_avatar", "reactions", "edited"}
	args := []any{create.UID, create.OwnerID, create.SenderName, create.SenderAvatar, reactions, create.Edited}

	if create.Text != nil {
		fields = append(fields, "text")
		args = append(args, *create.Text)
	}
	if create.ImageURL != nil {
		fields = append(fields, "image_url")
		args = append(args, *create.ImageURL)
	}

	stmt := `INSERT INTO chat_message (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create chat message: %w", err)
	}

	return create, nil
}

func (d *DB) ListChatMessages(ctx context.Context, find *store.FindChatMessage) ([]*store.ChatMessage, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "chat_message.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "chat_message.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.OwnerID; v != nil {
		where, args = append(where, "chat_message.owner_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, uid, owner_id, created_ts, sender_name, sender_avatar, text, image_url, reactions, edited
		FROM chat_message
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY chat_message.created_ts ASC, chat_message.id ASC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	list := make([]*store.ChatMessage, 0)
	for rows.Next() {
		var message store.ChatMessage
		var text, imageURL sql.NullString
		var reactions string

		if err := rows.Scan(
			&message.ID,
			&message.UID,
			&message.OwnerID,
			&message.CreatedTs,
			&message.SenderName,
			&message.SenderAvatar,
			&text,
			&imageURL,
			&reactions,
			&message.Edited,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}

		if text.Valid {
			message.Text = &text.String
		}
		if imageURL.Valid {
			message.ImageURL = &imageURL.String
		}
		message.Reactions = unmarshalReactions(reactions)

		list = append(list, &message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chat messages: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateChatMessage(ctx context.Context, update *store.UpdateChatMessage) (*store.ChatMessage, error) {
	set, args := []string{}, []any{}

	if v := update.Text; v != nil {
		set, args = append(set, "text = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Edited; v != nil {
		set, args = append(set, "edited = "+placeholder(len(args)+1)), append(args, *v)
	}
	if update.Reactions != nil {
		reactions, err := marshalReactions(update.Reactions)
		if err != nil {
			return nil, err
		}
		set, args = append(set, "reactions = "+placeholder(len(args)+1)), append(args, reactions)
	}

	if len(set) > 0 {
		args = append(args, update.ID)
		stmt := `UPDATE chat_message SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
		if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
			return nil, fmt.Errorf("failed to update chat message: %w", err)
		}
	}

	messages, err := d.ListChatMessages(ctx, &store.FindChatMessage{ID: &update.ID})
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("chat message not found")
	}
	return messages[0], nil
}

func (d *DB) DeleteChatMessage(ctx context.Context, delete *store.DeleteChatMessage) error {
	stmt := `DELETE FROM chat_message WHERE id = ` + placeholder(1)
	result, err := d.db.ExecContext(ctx, stmt, delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete chat message: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("chat message not found")
	}

	return nil
}

func marshalReactions(reactions map[string][]string) (string, error) {
	if reactions == nil {
		reactions = map[string][]string{}
	}
	raw, err := json.Marshal(reactions)
	if err != nil {
		return "", fmt.Errorf("failed to marshal reactions: %w", err)
	}
	return string(raw), nil
}

func unmarshalReactions(raw string) map[string][]string {
	reactions := map[string][]string{}
	if raw == "" {
		return reactions
	}
	if err := json.Unmarshal([]byte(raw), &reactions); err != nil {
		return map[string][]string{}
	}
	return reactions
}
