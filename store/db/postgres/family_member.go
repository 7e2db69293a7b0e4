package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/memorykeeper/memorykeeper/store"
)

func (d *DB) CreateFamilyMember(ctx context.Context, create *store.FamilyMember) (*store.FamilyMember, error) {
	fields := []string{"uid", "owner_id", "name", "permission", "avatar_url"}
	args := []any{create.UID, create.OwnerID, create.Name, create.Permission, create.AvatarURL}

	stmt := `INSERT INTO family_member (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create family member: %w", err)
	}

	return create, nil
}

func (d *DB) ListFamilyMembers(ctx context.Context, find *store.FindFamilyMember) ([]*store.FamilyMember, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "family_member.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "family_member.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.OwnerID; v != nil {
		where, args = append(where, "family_member.owner_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, uid, owner_id, created_ts, name, permission, avatar_url
		FROM family_member
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY family_member.id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query family members: %w", err)
	}
	defer rows.Close()

	list := make([]*store.FamilyMember, 0)
	for rows.Next() {
		var member store.FamilyMember
		if err := rows.Scan(
			&member.ID,
			&member.UID,
			&member.OwnerID,
			&member.CreatedTs,
			&member.Name,
			&member.Permission,
			&member.AvatarURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		list = append(list, &member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate family members: %w", err)
	}

	return list, nil
}

func (d *DB) DeleteFamilyMember(ctx context.Context, delete *store.DeleteFamilyMember) error {
	stmt := `DELETE FROM family_member WHERE id = ` + placeholder(1)
	result, err := d.db.ExecContext(ctx, stmt, delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete family member: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("family member not found")
	}

	return nil
}
