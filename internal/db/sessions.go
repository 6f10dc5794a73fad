package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"todo-app/internal/apperr"
	"todo-app/internal/models"
)

// CreateSession persists s. A duplicate token hash yields apperr.ErrConflict.
func (db *DB) CreateSession(ctx context.Context, s *models.Session) error {
	_, err := db.conn().exec(ctx,
		"INSERT INTO sessions (token_hash, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)",
		s.TokenHash, s.UserID, s.CreatedAt.UTC(), s.ExpiresAt.UTC())
	if isUniqueViolation(err) {
		return apperr.ErrConflict
	}
	return err
}

// GetSession returns the session for tokenHash, or nil if there is none.
// Expiry is left to the caller.
func (db *DB) GetSession(ctx context.Context, tokenHash string) (*models.Session, error) {
	s := &models.Session{}
	err := db.conn().queryRow(ctx,
		"SELECT token_hash, user_id, created_at, expires_at FROM sessions WHERE token_hash = ?", tokenHash,
	).Scan(&s.TokenHash, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// DeleteSession removes the session. Deleting a missing session is not an error.
func (db *DB) DeleteSession(ctx context.Context, tokenHash string) error {
	_, err := db.conn().exec(ctx, "DELETE FROM sessions WHERE token_hash = ?", tokenHash)
	return err
}

// PurgeSessions deletes every session expired at now and reports how many.
func (db *DB) PurgeSessions(ctx context.Context, now time.Time) (int, error) {
	res, err := db.conn().exec(ctx, "DELETE FROM sessions WHERE expires_at <= ?", now.UTC())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
