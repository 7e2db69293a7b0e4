package store

import (
	"context"
)

// FamilyMember is the object representing an invited family member.
type FamilyMember struct {
	ID        int32
	UID       string
	OwnerID   int32
	CreatedTs int64

	Name       string
	Permission string // view, comment, contribute
	AvatarURL  string
}

// FindFamilyMember is the find condition for family member.
type FindFamilyMember struct {
	ID      *int32
	UID     *string
	OwnerID *int32
}

// DeleteFamilyMember is the delete request for family member.
type DeleteFamilyMember struct {
	ID int32
}

// CreateFamilyMember creates a new family member.
func (s *Store) CreateFamilyMember(ctx context.Context, create *FamilyMember) (*FamilyMember, error) {
	return s.driver.CreateFamilyMember(ctx, create)
}

// ListFamilyMembers lists family members with filter.
func (s *Store) ListFamilyMembers(ctx context.Context, find *FindFamilyMember) ([]*FamilyMember, error) {
	return s.driver.ListFamilyMembers(ctx, find)
}

// DeleteFamilyMember deletes a family member.
func (s *Store) DeleteFamilyMember(ctx context.Context, delete *DeleteFamilyMember) error {
	return s.driver.DeleteFamilyMember(ctx, delete)
}
