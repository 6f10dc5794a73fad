// Package todo validates board and task input before handing it to the
// ownership-scoped store.
package todo

import (
	"context"
	"errors"
	"strings"

	"todo-app/internal/apperr"
	"todo-app/internal/models"
)

// Store is the persistence the to-do service needs; *db.DB implements it.
// Every method must treat a board or task not owned by userID as
// apperr.ErrNotFound.
type Store interface {
	ListBoards(ctx context.Context, userID int64) ([]models.BoardSummary, error)
	CreateBoard(ctx context.Context, userID int64, title string) (int64, error)
	RenameBoard(ctx context.Context, userID, boardID int64, title string) error
	DeleteBoard(ctx context.Context, userID, boardID int64) error
	ListTasks(ctx context.Context, userID, boardID int64) (*models.BoardSummary, []models.Task, error)
	CreateTask(ctx context.Context, userID, boardID int64, title string) (int64, error)
	UpdateTask(ctx context.Context, userID, taskID int64, upd models.TaskUpdate) error
	DeleteTask(ctx context.Context, userID, taskID int64) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) ListBoards(ctx context.Context, userID int64) ([]models.BoardSummary, error) {
	boards, err := s.store.ListBoards(ctx, userID)
	if err != nil {
		return nil, wrap("list boards", err)
	}
	return boards, nil
}

func (s *Service) CreateBoard(ctx context.Context, userID int64, title string) (int64, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return 0, err
	}
	id, err := s.store.CreateBoard(ctx, userID, title)
	if err != nil {
		return 0, wrap("create board", err)
	}
	return id, nil
}

func (s *Service) RenameBoard(ctx context.Context, userID, boardID int64, title string) error {
	title, err := cleanTitle(title)
	if err != nil {
		return err
	}
	return wrap("rename board", s.store.RenameBoard(ctx, userID, boardID, title))
}

// DeleteBoard removes the board and all of its tasks.
func (s *Service) DeleteBoard(ctx context.Context, userID, boardID int64) error {
	return wrap("delete board", s.store.DeleteBoard(ctx, userID, boardID))
}

// ListTasks returns the board with its tasks in creation order.
func (s *Service) ListTasks(ctx context.Context, userID, boardID int64) (*models.BoardSummary, []models.Task, error) {
	board, tasks, err := s.store.ListTasks(ctx, userID, boardID)
	if err != nil {
		return nil, nil, wrap("list tasks", err)
	}
	return board, tasks, nil
}

func (s *Service) CreateTask(ctx context.Context, userID, boardID int64, title string) (int64, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return 0, err
	}
	id, err := s.store.CreateTask(ctx, userID, boardID, title)
	if err != nil {
		return 0, wrap("create task", err)
	}
	return id, nil
}

// UpdateTask applies a partial update. At least one field must be set.
func (s *Service) UpdateTask(ctx context.Context, userID, taskID int64, upd models.TaskUpdate) error {
	if upd.Empty() {
		return apperr.Validation("Nothing to update")
	}
	if upd.Title != nil {
		title, err := cleanTitle(*upd.Title)
		if err != nil {
			return err
		}
		upd.Title = &title
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return apperr.Validation("Status must be pending or done")
	}
	return wrap("update task", s.store.UpdateTask(ctx, userID, taskID, upd))
}

func (s *Service) DeleteTask(ctx context.Context, userID, taskID int64) error {
	return wrap("delete task", s.store.DeleteTask(ctx, userID, taskID))
}

func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperr.Validation("Title is required")
	}
	return title, nil
}

// wrap passes domain errors through and marks everything else internal.
func wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperr.ErrNotFound),
		errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrConflict):
		return err
	default:
		return apperr.Internal(op, err)
	}
}
