// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Open connects to the configured database and verifies the connection.
// dbType is "postgres" or "sqlite".
func Open(dbType, url string) (*sql.DB, error) {
	driver := dbType
	if dbType == "sqlite" && !strings.Contains(url, "_pragma=foreign_keys") {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		url += sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbType, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", dbType, err)
	}
	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// IsUniqueViolation reports whether err came from a UNIQUE or PRIMARY KEY
// constraint on either supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return false
}

// The same DDL runs on PostgreSQL and SQLite, so it sticks to the common
// subset: TEXT ids, TIMESTAMP columns, no NOW().
const schema = `
-- Accounts
CREATE TABLE IF NOT EXISTS account (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    display_name TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);

-- Proposals
CREATE TABLE IF NOT EXISTS proposal (
    id TEXT PRIMARY KEY,
    slug TEXT NOT NULL UNIQUE,
    creator_name TEXT NOT NULL,
    partner_name TEXT NOT NULL,
    message TEXT,
    photo TEXT,
    owner_id TEXT NOT NULL REFERENCES account(id),
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_proposal_owner_id ON proposal(owner_id);

-- Responses
CREATE TABLE IF NOT EXISTS response (
    id TEXT PRIMARY KEY,
    proposal_id TEXT NOT NULL REFERENCES proposal(id),
    answered BOOLEAN NOT NULL DEFAULT TRUE,
    time_to_yes_ms BIGINT NOT NULL DEFAULT 0,
    no_attempts INTEGER NOT NULL DEFAULT 0,
    photo TEXT,
    responded_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_response_proposal_id ON response(proposal_id);

-- Views
CREATE TABLE IF NOT EXISTS proposal_view (
    id TEXT PRIMARY KEY,
    proposal_id TEXT NOT NULL REFERENCES proposal(id) ON DELETE CASCADE,
    ip_hash TEXT NOT NULL,
    user_agent TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_proposal_view_proposal_id ON proposal_view(proposal_id);
CREATE INDEX IF NOT EXISTS idx_proposal_view_ip_hash ON proposal_view(proposal_id, ip_hash);
`
