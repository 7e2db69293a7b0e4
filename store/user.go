package store

import (
	"context"
)

// User is the object representing the keeper profile.
type User struct {
	ID        int32
	UID       string
	CreatedTs int64
	UpdatedTs int64

	Name      string
	Age       int32
	Avatar    string
	AvatarURL string
	Theme     string
	Plan      string
	TrialEndTs *int64

	// MemoryStrength is the persistent 0-100 recall skill estimate.
	MemoryStrength int32
	Streak         int32
	LongestStreak  int32
}

// FindUser is the find condition for user.
type FindUser struct {
	ID  *int32
	UID *string
}

// UpdateUser is the update request for user.
type UpdateUser struct {
	ID int32

	Name           *string
	Age            *int32
	Avatar         *string
	AvatarURL      *string
	Theme          *string
	Plan           *string
	TrialEndTs     *int64
	MemoryStrength *int32
	Streak         *int32
	LongestStreak  *int32
}

// DeleteUser is the delete request for user.
type DeleteUser struct {
	ID int32
}

// CreateUser creates a new user.
func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	user, err := s.driver.CreateUser(ctx, create)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(user.UID, user)
	return user, nil
}

// UpdateUser updates a user.
func (s *Store) UpdateUser(ctx context.Context, update *UpdateUser) (*User, error) {
	user, err := s.driver.UpdateUser(ctx, update)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(user.UID, user)
	return user, nil
}

// ListUsers lists users with filter.
func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	return s.driver.ListUsers(ctx, find)
}

// GetUser gets a user by find condition.
func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	if find.UID != nil {
		if cached, ok := s.userCache.Get(*find.UID); ok {
			if user, ok := cached.(*User); ok {
				return user, nil
			}
		}
	}

	list, err := s.driver.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	user := list[0]
	s.userCache.Set(user.UID, user)
	return user, nil
}

// DeleteUser deletes a user.
func (s *Store) DeleteUser(ctx context.Context, delete *DeleteUser) error {
	return s.driver.DeleteUser(ctx, delete)
}
