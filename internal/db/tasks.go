package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"todo-app/internal/apperr"
	"todo-app/internal/models"
)

// ownedTask loads taskID and defers the ownership decision to ownedBoard.
func (c conn) ownedTask(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	t := &models.Task{}
	err := c.queryRow(ctx,
		"SELECT id, board_id, title, status, created_at FROM tasks WHERE id = ?", taskID,
	).Scan(&t.ID, &t.BoardID, &t.Title, &t.Status, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := c.ownedBoard(ctx, userID, t.BoardID); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTasks returns the board summary and its tasks in creation order.
func (db *DB) ListTasks(ctx context.Context, userID, boardID int64) (*models.BoardSummary, []models.Task, error) {
	board, err := db.GetBoardSummary(ctx, userID, boardID)
	if err != nil {
		return nil, nil, err
	}

	rows, err := db.conn().query(ctx,
		"SELECT id, board_id, title, status, created_at FROM tasks WHERE board_id = ? ORDER BY id ASC", board.ID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.BoardID, &t.Title, &t.Status, &t.CreatedAt); err != nil {
			return nil, nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return board, tasks, nil
}

// CreateTask inserts a pending task under one of userID's boards. The guard and
// the insert share a transaction so nothing is written for a foreign board.
func (db *DB) CreateTask(ctx context.Context, userID, boardID int64, title string) (int64, error) {
	var id int64
	err := db.withTx(ctx, func(c conn) error {
		if _, err := c.ownedBoard(ctx, userID, boardID); err != nil {
			return err
		}
		return c.queryRow(ctx,
			"INSERT INTO tasks (board_id, title, status, created_at) VALUES (?, ?, ?, ?) RETURNING id",
			boardID, title, string(models.StatusPending), time.Now().UTC(),
		).Scan(&id)
	})
	return id, err
}

// UpdateTask applies the non-nil fields of upd.
func (db *DB) UpdateTask(ctx context.Context, userID, taskID int64, upd models.TaskUpdate) error {
	var (
		sets []string
		args []any
	)
	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*upd.Status))
	}

	return db.withTx(ctx, func(c conn) error {
		if _, err := c.ownedTask(ctx, userID, taskID); err != nil {
			return err
		}
		if len(sets) == 0 {
			return nil
		}
		_, err := c.exec(ctx, "UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?", append(args, taskID)...)
		return err
	})
}

func (db *DB) DeleteTask(ctx context.Context, userID, taskID int64) error {
	return db.withTx(ctx, func(c conn) error {
		if _, err := c.ownedTask(ctx, userID, taskID); err != nil {
			return err
		}
		_, err := c.exec(ctx, "DELETE FROM tasks WHERE id = ?", taskID)
		return err
	})
}
