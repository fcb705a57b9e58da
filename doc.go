// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Valentine API server.

Valentine lets someone build a personalized "will you be my valentine?"
page, share it with a short link and see when their partner says yes,
how long it took and how often they chased the "no" button first.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:valentine.db SESSION_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -session-secret ...

A .env file in the working directory is loaded first if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - SESSION_SECRET (-session-secret): HMAC key for session tokens

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - IP_HASH_SALT (-ip-salt): Salt for visitor address hashing
  - SESSION_TTL (-session-ttl): Session lifetime (default: 720h)
  - REDIS_URL (-redis): Shared store for logouts and visit state
  - LOG_FORMAT: text or json (default: text)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (accounts, proposals, responses, visits)
  - services: Validation and persistence for each entity
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, sessions, JSON helpers
  - sessions: Signed session tokens and revocation
  - visit: Resumable timer and dodge state per visitor
  - models: Request/response types
  - auth: IDs, slugs, address hashing, passwords
  - db: Connection and schema
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
