// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/valentine/auth"
)

// recordTimeout bounds a background view write once the request is gone
const recordTimeout = 5 * time.Second

type ViewService struct {
	db   *sql.DB
	salt string
	now  func() time.Time

	// mu orders inflight.Add against Close so no write starts after the drain
	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

func NewViewService(db *sql.DB, salt string) *ViewService {
	return &ViewService{db: db, salt: salt, now: utcNow}
}

// Record stores one page view. The raw address is hashed before it
// reaches the database.
func (s *ViewService) Record(ctx context.Context, proposalID, rawAddress, userAgent string) error {
	var ua *string
	if userAgent != "" {
		ua = &userAgent
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO proposal_view (id, proposal_id, ip_hash, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, auth.GenerateID(), proposalID, auth.HashIP(rawAddress, s.salt), ua, s.now())
	if err != nil {
		return fmt.Errorf("insert view: %w", err)
	}
	return nil
}

// RecordAsync records a view in the background. Failures are logged and
// dropped; the caller never sees them.
func (s *ViewService) RecordAsync(proposalID, rawAddress, userAgent string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		slog.Warn("view dropped during shutdown", "proposal_id", proposalID)
		return
	}
	s.inflight.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.inflight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if err := s.Record(ctx, proposalID, rawAddress, userAgent); err != nil {
			slog.Error("failed to record view", "error", err, "proposal_id", proposalID)
		}
	}()
}

// Wait blocks until background writes started so far have finished.
func (s *ViewService) Wait() {
	s.inflight.Wait()
}

// Close stops accepting background writes and waits for the ones in
// flight. Call it before closing the database.
func (s *ViewService) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.inflight.Wait()
}

// CountTotal returns the number of recorded page loads.
func (s *ViewService) CountTotal(ctx context.Context, proposalID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM proposal_view WHERE proposal_id = $1
	`, proposalID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count views: %w", err)
	}
	return n, nil
}

// CountDistinct returns the number of distinct hashed addresses. Repeat
// visits each keep their own row; only this query deduplicates.
func (s *ViewService) CountDistinct(ctx context.Context, proposalID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT ip_hash) FROM proposal_view WHERE proposal_id = $1
	`, proposalID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unique visitors: %w", err)
	}
	return n, nil
}
