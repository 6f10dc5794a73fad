package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Status is the completion state of a task.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusDone
}

// ID is a row identifier that decodes from either a JSON number or a numeric
// string, since browsers often forward route parameters verbatim.
type ID int64

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", string(b))
	}
	*id = ID(n)
	return nil
}

// Board is a to-do list owned by exactly one user.
type Board struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// BoardSummary is a board annotated with the live number of its tasks.
type BoardSummary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	ItemCount int       `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
}

type Task struct {
	ID        int64     `json:"id"`
	BoardID   int64     `json:"list_id"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskUpdate is a partial update; nil fields are left untouched.
type TaskUpdate struct {
	Title  *string
	Status *Status
}

func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Status == nil
}
