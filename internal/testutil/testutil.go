package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"todo-app/internal/db"
)

// SetupTestDB creates a fresh, migrated SQLite database in a temp dir.
func SetupTestDB(t *testing.T) *db.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on&_busy_timeout=5000"
	database, err := db.Init("sqlite3", dsn)
	if err != nil {
		t.Fatalf("Failed to set up test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// CreateTestUser inserts a user with a cheap bcrypt hash and returns its id.
func CreateTestUser(t *testing.T, database *db.DB, username, password string) int64 {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	id, err := database.CreateUser(context.Background(), username, username, string(hash))
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return id
}

// CreateTestBoard creates a board for userID and returns its id.
func CreateTestBoard(t *testing.T, database *db.DB, userID int64, title string) int64 {
	t.Helper()

	id, err := database.CreateBoard(context.Background(), userID, title)
	if err != nil {
		t.Fatalf("Failed to create test board: %v", err)
	}
	return id
}

// CreateTestTask creates a task on boardID and returns its id.
func CreateTestTask(t *testing.T, database *db.DB, userID, boardID int64, title string) int64 {
	t.Helper()

	id, err := database.CreateTask(context.Background(), userID, boardID, title)
	if err != nil {
		t.Fatalf("Failed to create test task: %v", err)
	}
	return id
}

// MakeRequest creates an HTTP test request with an optional JSON body
func MakeRequest(method, path string, body interface{}, cookies ...*http.Cookie) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for _, c := range cookies {
		req.AddCookie(c)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
