package store

import (
	"context"
)

// ChatMessage is the object representing a message on the family feed.
type ChatMessage struct {
	ID        int32
	UID       string
	OwnerID   int32
	CreatedTs int64

	SenderName   string
	SenderAvatar string
	Text         *string
	ImageURL     *string
	// Reactions maps an emoji to the names of the people who reacted with it.
	Reactions map[string][]string
	Edited    bool
}

// FindChatMessage is the find condition for chat message.
type FindChatMessage struct {
	ID      *int32
	UID     *string
	OwnerID *int32

	// Pagination
	Limit  *int
	Offset *int
}

// UpdateChatMessage is the update request for chat message.
type UpdateChatMessage struct {
	ID        int32
	Text      *string
	Edited    *bool
	Reactions map[string][]string
}

// DeleteChatMessage is the delete request for chat message.
type DeleteChatMessage struct {
	ID int32
}

// CreateChatMessage creates a new chat message.
func (s *Store) CreateChatMessage(ctx context.Context, create *ChatMessage) (*ChatMessage, error) {
	return s.driver.CreateChatMessage(ctx, create)
}

// ListChatMessages lists chat messages with filter, oldest first.
func (s *Store) ListChatMessages(ctx context.Context, find *FindChatMessage) ([]*ChatMessage, error) {
	return s.driver.ListChatMessages(ctx, find)
}

// GetChatMessage gets a chat message by find condition.
func (s *Store) GetChatMessage(ctx context.Context, find *FindChatMessage) (*ChatMessage, error) {
	list, err := s.driver.ListChatMessages(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateChatMessage updates a chat message.
func (s *Store) UpdateChatMessage(ctx context.Context, update *UpdateChatMessage) (*ChatMessage, error) {
	return s.driver.UpdateChatMessage(ctx, update)
}

// DeleteChatMessage deletes a chat message.
func (s *Store) DeleteChatMessage(ctx context.Context, delete *DeleteChatMessage) error {
	return s.driver.DeleteChatMessage(ctx, delete)
}
