package store

import (
	"context"
)

// Memory is the object representing a scrapbook memory entry.
// Content and tags are immutable after creation; a generated image or
// narration may be attached later.
type Memory struct {
	ID        int32
	UID       string
	CreatorID int32
	CreatedTs int64
	UpdatedTs int64

	Content string
	Tags    []string
	// Image is an opaque encoded image (data URL), attached by generation.
	Image *string
	// Audio is an opaque encoded narration (data URL), attached by generation.
	Audio *string
}

// FindMemory is the find condition for memory.
type FindMemory struct {
	ID        *int32
	UID       *string
	CreatorID *int32
	Tag       *string

	// Pagination
	Limit  *int
	Offset *int
}

// UpdateMemory is the update request for memory.
// Only generated attachments may change after creation.
type UpdateMemory struct {
	ID    int32
	Image *string
	Audio *string
}

// DeleteMemory is the delete request for memory.
type DeleteMemory struct {
	ID int32
}

// CreateMemory creates a new memory.
func (s *Store) CreateMemory(ctx context.Context, create *Memory) (*Memory, error) {
	return s.driver.CreateMemory(ctx, create)
}

// ListMemories lists memories with filter, newest first.
func (s *Store) ListMemories(ctx context.Context, find *FindMemory) ([]*Memory, error) {
	return s.driver.ListMemories(ctx, find)
}

// GetMemory gets a memory by find condition.
func (s *Store) GetMemory(ctx context.Context, find *FindMemory) (*Memory, error) {
	list, err := s.driver.ListMemories(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateMemory updates a memory.
func (s *Store) UpdateMemory(ctx context.Context, update *UpdateMemory) error {
	return s.driver.UpdateMemory(ctx, update)
}

// DeleteMemory deletes a memory.
func (s *Store) DeleteMemory(ctx context.Context, delete *DeleteMemory) error {
	return s.driver.DeleteMemory(ctx, delete)
}
