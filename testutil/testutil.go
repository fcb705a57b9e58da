// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/valentine/auth"
	"github.com/danielhkuo/valentine/cliparse"
	"github.com/danielhkuo/valentine/db"
	"github.com/danielhkuo/valentine/middleware"
)

// SetupTestDB creates a fresh SQLite database with the full schema.
// Each test gets its own file under t.TempDir().
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   "file:test.db",
		DatabaseType:  "sqlite",
		IPHashSalt:    "test-ip-salt",
		SessionSecret: "test-session-secret",
		SessionTTL:    time.Hour,
	}
}

// CreateTestAccount inserts an account and returns its ID.
// The password hash is not a real bcrypt hash; log in through the
// account service when a test needs working credentials.
func CreateTestAccount(t *testing.T, db *sql.DB, email string) string {
	t.Helper()

	id := auth.GenerateID()
	_, err := db.Exec(`
		INSERT INTO account (id, email, password_hash, display_name, created_at)
		VALUES ($1, $2, 'not-a-hash', 'Tester', $3)
	`, id, email, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return id
}

// CreateTestProposal inserts a proposal owned by ownerID and returns its ID and slug
func CreateTestProposal(t *testing.T, db *sql.DB, ownerID, creator, partner string) (proposalID, slug string) {
	t.Helper()

	proposalID = auth.GenerateID()
	slug, err := auth.GenerateSlug()
	if err != nil {
		t.Fatalf("Failed to generate slug: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO proposal (id, slug, creator_name, partner_name, message, owner_id, created_at)
		VALUES ($1, $2, $3, $4, 'Will you be my valentine?', $5, $6)
	`, proposalID, slug, creator, partner, ownerID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test proposal: %v", err)
	}

	return proposalID, slug
}

// CreateTestResponse inserts an answered response and returns its ID
func CreateTestResponse(t *testing.T, db *sql.DB, proposalID string, timeToYesMs int64, noAttempts int) string {
	t.Helper()

	id := auth.GenerateID()
	now := time.Now().UTC()
	_, err := db.Exec(`
		INSERT INTO response (id, proposal_id, answered, time_to_yes_ms, no_attempts, responded_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, proposalID, true, timeToYesMs, noAttempts, now, now)
	if err != nil {
		t.Fatalf("Failed to create test response: %v", err)
	}

	return id
}

// CountRows returns the number of rows in table matching proposal_id
func CountRows(t *testing.T, db *sql.DB, table, proposalID string) int {
	t.Helper()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE proposal_id = $1`, proposalID).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s rows: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AsAccount attaches an authenticated account to the request context,
// as middleware.RequireSession would
func AsAccount(req *http.Request, accountID string) *http.Request {
	return req.WithContext(middleware.ContextWithAccountID(req.Context(), accountID))
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
