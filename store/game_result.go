package store

import (
	"context"
)

// GameResult is the record of a completed game session.
type GameResult struct {
	ID        int32
	SessionID string
	UserID    int32
	CreatedTs int64

	GameType   string
	Difficulty string
	Score      int32

	// StrengthBefore/StrengthAfter bracket the memory strength update applied
	// for this session. Equal for degenerate sessions.
	StrengthBefore int32
	StrengthAfter  int32

	// Degenerate marks a "not enough memories" session where no game was
	// actually played. Degenerate sessions never move memory strength.
	Degenerate bool
}

// FindGameResult is the find condition for game result.
type FindGameResult struct {
	UserID   *int32
	GameType *string

	// Pagination
	Limit  *int
	Offset *int
}

// CreateGameResult creates a new game result.
func (s *Store) CreateGameResult(ctx context.Context, create *GameResult) (*GameResult, error) {
	return s.driver.CreateGameResult(ctx, create)
}

// ListGameResults lists game results with filter, newest first.
func (s *Store) ListGameResults(ctx context.Context, find *FindGameResult) ([]*GameResult, error) {
	return s.driver.ListGameResults(ctx, find)
}
