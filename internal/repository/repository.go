package repository

import (
	"context"
	"errors"

	"artshare/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository persists sessions between restarts. It is an
// optimization: the in-memory store stays the source of truth.
type SessionRepository interface {
	Save(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	Delete(ctx context.Context, sessionID string) error
	Count(ctx context.Context) (int, error)
	Kind() string
}
