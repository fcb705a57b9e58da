// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens connections and creates the schema.

# Drivers

	conn, err := db.Open("postgres", "postgres://...") // lib/pq
	conn, err := db.Open("sqlite", "file:dev.db")      // modernc.org/sqlite

SQLite URLs get foreign keys and a busy timeout turned on unless the caller
already set the foreign_keys pragma. Queries use $N placeholders, which both
drivers accept.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

	account 1──* proposal
	proposal 1──* response
	proposal 1──* proposal_view (ON DELETE CASCADE)

proposal.slug and account.email are UNIQUE. Responses are removed by the
proposal service before the proposal itself.

# Constraint Errors

IsUniqueViolation recognises duplicate-key errors from both drivers; the
proposal service uses it to retry slug collisions.
*/
package db
