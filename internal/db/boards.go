package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"todo-app/internal/apperr"
	"todo-app/internal/models"
)

// ownedBoard is the ownership guard for every board and task path. It fails
// with apperr.ErrNotFound unless boardID exists and belongs to userID, so a
// foreign board is indistinguishable from a missing one.
func (c conn) ownedBoard(ctx context.Context, userID, boardID int64) (*models.Board, error) {
	b := &models.Board{}
	err := c.queryRow(ctx,
		"SELECT id, user_id, title, created_at FROM boards WHERE id = ? AND user_id = ?", boardID, userID,
	).Scan(&b.ID, &b.UserID, &b.Title, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (c conn) countTasks(ctx context.Context, boardID int64) (int, error) {
	var n int
	err := c.queryRow(ctx, "SELECT COUNT(*) FROM tasks WHERE board_id = ?", boardID).Scan(&n)
	return n, err
}

// ListBoards returns userID's boards, newest first, each with its task count.
func (db *DB) ListBoards(ctx context.Context, userID int64) ([]models.BoardSummary, error) {
	rows, err := db.conn().query(ctx, `
		SELECT b.id, b.title, b.created_at, COUNT(t.id)
		FROM boards b
		LEFT JOIN tasks t ON t.board_id = b.id
		WHERE b.user_id = ?
		GROUP BY b.id, b.title, b.created_at
		ORDER BY b.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	boards := []models.BoardSummary{}
	for rows.Next() {
		var b models.BoardSummary
		if err := rows.Scan(&b.ID, &b.Title, &b.CreatedAt, &b.ItemCount); err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

// GetBoardSummary returns one of userID's boards with its task count.
func (db *DB) GetBoardSummary(ctx context.Context, userID, boardID int64) (*models.BoardSummary, error) {
	c := db.conn()
	b, err := c.ownedBoard(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}
	n, err := c.countTasks(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	return &models.BoardSummary{ID: b.ID, Title: b.Title, ItemCount: n, CreatedAt: b.CreatedAt}, nil
}

func (db *DB) CreateBoard(ctx context.Context, userID int64, title string) (int64, error) {
	var id int64
	err := db.conn().queryRow(ctx,
		"INSERT INTO boards (user_id, title, created_at) VALUES (?, ?, ?) RETURNING id",
		userID, title, time.Now().UTC(),
	).Scan(&id)
	return id, err
}

func (db *DB) RenameBoard(ctx context.Context, userID, boardID int64, title string) error {
	return db.withTx(ctx, func(c conn) error {
		if _, err := c.ownedBoard(ctx, userID, boardID); err != nil {
			return err
		}
		_, err := c.exec(ctx, "UPDATE boards SET title = ? WHERE id = ?", title, boardID)
		return err
	})
}

// DeleteBoard removes the board and all of its tasks in one transaction.
func (db *DB) DeleteBoard(ctx context.Context, userID, boardID int64) error {
	return db.withTx(ctx, func(c conn) error {
		if _, err := c.ownedBoard(ctx, userID, boardID); err != nil {
			return err
		}
		if _, err := c.exec(ctx, "DELETE FROM tasks WHERE board_id = ?", boardID); err != nil {
			return err
		}
		res, err := c.exec(ctx, "DELETE FROM boards WHERE id = ?", boardID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n != 1 {
			// lost a race with a concurrent delete
			return apperr.ErrNotFound
		}
		return nil
	})
}
