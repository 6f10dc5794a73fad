package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"todo-app/internal/apperr"
	"todo-app/internal/models"
)

// CreateUser inserts a user and returns its id. A taken username yields
// apperr.ErrConflict, including when two registrations race.
func (db *DB) CreateUser(ctx context.Context, username, name, passwordHash string) (int64, error) {
	var id int64
	err := db.conn().queryRow(ctx,
		"INSERT INTO users (username, name, password_hash, created_at) VALUES (?, ?, ?, ?) RETURNING id",
		username, name, passwordHash, time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperr.Conflict("username already exists")
		}
		return 0, err
	}
	return id, nil
}

// GetUserByUsername returns apperr.ErrNotFound when no user matches.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return db.scanUser(db.conn().queryRow(ctx,
		"SELECT id, username, name, password_hash, created_at FROM users WHERE username = ?", username))
}

// GetUserByID returns apperr.ErrNotFound when no user matches.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return db.scanUser(db.conn().queryRow(ctx,
		"SELECT id, username, name, password_hash, created_at FROM users WHERE id = ?", id))
}

func (db *DB) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Name, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
