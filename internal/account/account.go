// Package account registers users and verifies their credentials.
package account

import (
	"context"
	"errors"
	"strings"

	"todo-app/internal/apperr"
	"todo-app/internal/models"
	"todo-app/internal/security"
)

// Users is the persistence the account service needs; *db.DB implements it.
type Users interface {
	CreateUser(ctx context.Context, username, name, passwordHash string) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// bcrypt only reads the first 72 bytes of its input.
const maxPasswordBytes = 72

type Service struct {
	users  Users
	hasher *security.Hasher
}

func NewService(users Users, hasher *security.Hasher) *Service {
	return &Service{users: users, hasher: hasher}
}

// Register creates a user. The username is trimmed; the password is used
// verbatim and only its bcrypt hash is stored.
func (s *Service) Register(ctx context.Context, username, password, confirm string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || confirm == "" {
		return 0, apperr.Validation("All fields required")
	}
	if password != confirm {
		return 0, apperr.Validation("Passwords do not match")
	}
	if len(password) > maxPasswordBytes {
		return 0, apperr.Validation("Password is too long")
	}

	// Fast path; the unique constraint still decides concurrent registrations.
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return 0, apperr.Conflict("Username already exists")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return 0, apperr.Internal("register", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, apperr.Internal("register", err)
	}
	id, err := s.users.CreateUser(ctx, username, username, hash)
	if errors.Is(err, apperr.ErrConflict) {
		return 0, apperr.Conflict("Username already exists")
	}
	if err != nil {
		return 0, apperr.Internal("register", err)
	}
	return id, nil
}

// Verify returns the id of the user whose credentials match. Unknown users
// yield apperr.ErrNotFound and wrong passwords apperr.ErrInvalidCredentials.
func (s *Service) Verify(ctx context.Context, username, password string) (int64, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, apperr.ErrNotFound) {
		return 0, apperr.ErrNotFound
	}
	if err != nil {
		return 0, apperr.Internal("verify", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return 0, apperr.ErrInvalidCredentials
	}
	return user.ID, nil
}

// Get returns the user's public profile.
func (s *Service) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, apperr.Internal("get user", err)
	}
	return user, nil
}
