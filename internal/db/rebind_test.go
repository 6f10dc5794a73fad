package db

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

func TestRebind(t *testing.T) {
	q := "UPDATE tasks SET title = ?, status = ? WHERE id = ?"

	if got := (conn{}).rebind(q); got != q {
		t.Errorf("sqlite rebind changed query: %q", got)
	}
	want := "UPDATE tasks SET title = $1, status = $2 WHERE id = $3"
	if got := (conn{postgres: true}).rebind(q); got != want {
		t.Errorf("postgres rebind = %q, want %q", got, want)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{"pq unique", &pq.Error{Code: "23505"}, true},
		{"pq fk", &pq.Error{Code: "23503"}, false},
		{"sqlite unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, true},
		{"sqlite pk", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, true},
		{"sqlite check", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintCheck}, false},
		{"other", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isUniqueViolation(tc.err); got != tc.want {
				t.Errorf("isUniqueViolation = %v, want %v", got, tc.want)
			}
		})
	}
}
