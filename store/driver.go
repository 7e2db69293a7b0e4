package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	UpdateUser(ctx context.Context, update *UpdateUser) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)
	DeleteUser(ctx context.Context, delete *DeleteUser) error

	// Memory model related methods.
	CreateMemory(ctx context.Context, create *Memory) (*Memory, error)
	ListMemories(ctx context.Context, find *FindMemory) ([]*Memory, error)
	UpdateMemory(ctx context.Context, update *UpdateMemory) error
	DeleteMemory(ctx context.Context, delete *DeleteMemory) error

	// FamilyMember model related methods.
	CreateFamilyMember(ctx context.Context, create *FamilyMember) (*FamilyMember, error)
	ListFamilyMembers(ctx context.Context, find *FindFamilyMember) ([]*FamilyMember, error)
	DeleteFamilyMember(ctx context.Context, delete *DeleteFamilyMember) error

	// ChatMessage model related methods.
	CreateChatMessage(ctx context.Context, create *ChatMessage) (*ChatMessage, error)
	ListChatMessages(ctx context.Context, find *FindChatMessage) ([]*ChatMessage, error)
	UpdateChatMessage(ctx context.Context, update *UpdateChatMessage) (*ChatMessage, error)
	DeleteChatMessage(ctx context.Context, delete *DeleteChatMessage) error

	// GameResult model related methods.
	CreateGameResult(ctx context.Context, create *GameResult) (*GameResult, error)
	ListGameResults(ctx context.Context, find *FindGameResult) ([]*GameResult, error)
}
