package storage

import (
	"context"
	"time"
)

// SessionStorage defines interface for keeping the server session on the client
type SessionStorage interface {
	// SaveSession stores session data, replacing any previous session
	SaveSession(ctx context.Context, session *SessionData) error

	// GetSession retrieves the stored session
	// Returns ErrSessionNotFound if the client is not logged in
	GetSession(ctx context.Context) (*SessionData, error)

	// DeleteSession removes the stored session (logout)
	// Returns ErrSessionNotFound if there is nothing to delete
	DeleteSession(ctx context.Context) error
}

// SessionData represents the session cookie issued by the server
type SessionData struct {
	CreatedAt time.Time `json:"created_at"`
	Email     string    `json:"email"`
	SessionID string    `json:"session_id"`
	ServerURL string    `json:"server_url"` // сервер, выдавший сессию
}
