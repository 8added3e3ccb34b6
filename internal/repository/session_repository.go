package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"artshare/internal/models"
)

type sessionRow struct {
	SessionID string `db:"session_id"`
	Token     string `db:"token"`
	UserData  string `db:"user_data"`
	UpdatedAt int64  `db:"updated_at"`
}

type sqlSessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository works with any sqlx driver; queries are rebound to
// the driver's placeholder style.
func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sqlSessionRepository{db: db}
}

func (r *sqlSessionRepository) Kind() string {
	return r.db.DriverName()
}

func (r *sqlSessionRepository) Save(ctx context.Context, session *models.Session) error {
	if session.User == nil || session.Token == "" {
		return fmt.Errorf("refusing to persist incomplete session %s", session.ID)
	}

	userData, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("error encoding session user: %w", err)
	}

	query := r.db.Rebind(`
		INSERT INTO web_sessions (session_id, token, user_data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id) DO UPDATE
		SET token = excluded.token, user_data = excluded.user_data, updated_at = excluded.updated_at
	`)

	_, err = r.db.ExecContext(ctx, query, session.ID, session.Token, string(userData), session.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}

	return nil
}

func (r *sqlSessionRepository) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	var row sessionRow

	query := r.db.Rebind(`SELECT session_id, token, user_data, updated_at FROM web_sessions WHERE session_id = ?`)

	err := r.db.GetContext(ctx, &row, query, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("error loading session: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(row.UserData), &user); err != nil {
		return nil, fmt.Errorf("error decoding session user: %w", err)
	}

	return &models.Session{
		ID:        row.SessionID,
		User:      &user,
		Token:     row.Token,
		UpdatedAt: time.Unix(row.UpdatedAt, 0).UTC(),
	}, nil
}

func (r *sqlSessionRepository) Delete(ctx context.Context, sessionID string) error {
	query := r.db.Rebind(`DELETE FROM web_sessions WHERE session_id = ?`)

	if _, err := r.db.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}

	return nil
}

func (r *sqlSessionRepository) Count(ctx context.Context) (int, error) {
	var count int

	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM web_sessions`); err != nil {
		return 0, fmt.Errorf("error counting sessions: %w", err)
	}

	return count, nil
}
