// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/valentine/auth"
	"github.com/danielhkuo/valentine/models"
)

type ResponseService struct {
	db  *sql.DB
	now func() time.Time
}

func NewResponseService(db *sql.DB) *ResponseService {
	return &ResponseService{db: db, now: utcNow}
}

// Create records a visitor accepting a proposal. Responses are only ever
// written on acceptance, so answered is always true.
func (s *ResponseService) Create(ctx context.Context, req models.CreateResponseRequest) (models.Response, error) {
	proposalID := strings.TrimSpace(req.ProposalID)
	if proposalID == "" {
		return models.Response{}, validationError("proposalId is required")
	}

	var found int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM proposal WHERE id = $1`, proposalID).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Response{}, ErrNotFound
	}
	if err != nil {
		return models.Response{}, fmt.Errorf("query proposal: %w", err)
	}

	now := s.now()
	resp := models.Response{
		ID:          auth.GenerateID(),
		ProposalID:  proposalID,
		Answered:    true,
		TimeToYesMs: firstNonNegative(req.TimeToYesMs, req.TimeToYes),
		NoAttempts:  int(firstNonNegative(intPtr64(req.DodgeCount), intPtr64(req.NoAttempts))),
		RespondedAt: &now,
		CreatedAt:   now,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO response (id, proposal_id, answered, time_to_yes_ms, no_attempts, responded_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, resp.ID, resp.ProposalID, resp.Answered, resp.TimeToYesMs, resp.NoAttempts, resp.RespondedAt, resp.CreatedAt)
	if err != nil {
		return models.Response{}, fmt.Errorf("insert response: %w", err)
	}

	slog.Info("response recorded",
		"response_id", resp.ID,
		"proposal_id", proposalID,
		"time_to_yes_ms", resp.TimeToYesMs,
		"no_attempts", resp.NoAttempts,
	)
	return resp, nil
}

// Get returns a response with its proposal's display names.
func (s *ResponseService) Get(ctx context.Context, id string) (models.ResponseWithProposal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.ResponseWithProposal{}, validationError("id is required")
	}

	var r models.ResponseWithProposal
	err := s.db.QueryRowContext(ctx, `
		SELECT r.id, r.proposal_id, r.answered, r.time_to_yes_ms, r.no_attempts,
		       r.photo, r.responded_at, r.created_at,
		       p.creator_name, p.partner_name
		FROM response r
		JOIN proposal p ON p.id = r.proposal_id
		WHERE r.id = $1
	`, id).Scan(
		&r.ID, &r.ProposalID, &r.Answered, &r.TimeToYesMs, &r.NoAttempts,
		&r.Photo, &r.RespondedAt, &r.CreatedAt,
		&r.Proposal.CreatorName, &r.Proposal.PartnerName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ResponseWithProposal{}, ErrNotFound
	}
	if err != nil {
		return models.ResponseWithProposal{}, fmt.Errorf("query response: %w", err)
	}
	return r, nil
}

// AttachPhoto sets or replaces the photo on a response.
func (s *ResponseService) AttachPhoto(ctx context.Context, id string, photo *string) (models.Response, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Response{}, validationError("id is required")
	}
	if photo == nil || *photo == "" {
		return models.Response{}, validationError("photo is required")
	}
	if err := checkPhoto(photo); err != nil {
		return models.Response{}, err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE response SET photo = $1 WHERE id = $2`, *photo, id)
	if err != nil {
		return models.Response{}, fmt.Errorf("update response photo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Response{}, fmt.Errorf("update response photo: %w", err)
	}
	if n == 0 {
		return models.Response{}, ErrNotFound
	}

	r, err := s.Get(ctx, id)
	if err != nil {
		return models.Response{}, err
	}

	slog.Info("response photo attached", "response_id", id, "photo_len", len(*photo))
	return r.Response, nil
}

// ListAnswered returns a proposal's answered responses, newest first.
func (s *ResponseService) ListAnswered(ctx context.Context, proposalID string) ([]models.Response, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, proposal_id, answered, time_to_yes_ms, no_attempts, photo, responded_at, created_at
		FROM response
		WHERE proposal_id = $1 AND answered = $2
		ORDER BY created_at DESC, id
	`, proposalID, true)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	defer rows.Close()

	responses := []models.Response{}
	for rows.Next() {
		var r models.Response
		if err := rows.Scan(&r.ID, &r.ProposalID, &r.Answered, &r.TimeToYesMs, &r.NoAttempts, &r.Photo, &r.RespondedAt, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		responses = append(responses, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate responses: %w", err)
	}
	return responses, nil
}

// firstNonNegative returns the first set value, clamped at zero
func firstNonNegative(vals ...*int64) int64 {
	for _, v := range vals {
		if v != nil {
			if *v < 0 {
				return 0
			}
			return *v
		}
	}
	return 0
}

func intPtr64(v *int) *int64 {
	if v == nil {
		return nil
	}
	n := int64(*v)
	return &n
}
