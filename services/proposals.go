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
	"github.com/danielhkuo/valentine/db"
	"github.com/danielhkuo/valentine/models"
)

// maxSlugAttempts bounds retries when a fresh slug hits the UNIQUE constraint
const maxSlugAttempts = 5

type ProposalService struct {
	db        *sql.DB
	views     *ViewService
	responses *ResponseService
	newSlug   func() (string, error)
	now       func() time.Time
}

func NewProposalService(db *sql.DB, views *ViewService, responses *ResponseService) *ProposalService {
	return &ProposalService{
		db:        db,
		views:     views,
		responses: responses,
		newSlug:   auth.GenerateSlug,
		now:       utcNow,
	}
}

// Create stores a new proposal for ownerID under a freshly drawn slug.
func (s *ProposalService) Create(ctx context.Context, ownerID string, req models.CreateProposalRequest) (models.Proposal, error) {
	creator := cleanText(req.CreatorName)
	partner := cleanText(req.PartnerName)
	if creator == "" || partner == "" {
		return models.Proposal{}, validationError("creatorName and partnerName are required")
	}
	if err := checkPhoto(req.Photo); err != nil {
		return models.Proposal{}, err
	}

	var message *string
	if req.Message != nil {
		m := cleanText(*req.Message)
		message = nonEmpty(&m)
	}

	p := models.Proposal{
		ID:          auth.GenerateID(),
		CreatorName: creator,
		PartnerName: partner,
		Message:     message,
		Photo:       nonEmpty(req.Photo),
		OwnerID:     ownerID,
		CreatedAt:   s.now(),
	}

	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		slug, err := s.newSlug()
		if err != nil {
			return models.Proposal{}, err
		}

		_, err = s.db.ExecContext(ctx, `
			INSERT INTO proposal (id, slug, creator_name, partner_name, message, photo, owner_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, p.ID, slug, p.CreatorName, p.PartnerName, p.Message, p.Photo, p.OwnerID, p.CreatedAt)
		if err == nil {
			p.Slug = slug
			slog.Info("proposal created", "proposal_id", p.ID, "slug", slug, "owner_id", ownerID)
			return p, nil
		}
		if !db.IsUniqueViolation(err) {
			return models.Proposal{}, fmt.Errorf("insert proposal: %w", err)
		}
		slog.Warn("slug collision, retrying", "slug", slug, "attempt", attempt)
	}

	return models.Proposal{}, fmt.Errorf("insert proposal: no free slug after %d attempts", maxSlugAttempts)
}

// GetPublic looks a proposal up by slug for anonymous visitors.
// View recording is left to the caller so the read never waits on it.
func (s *ProposalService) GetPublic(ctx context.Context, slug string) (models.PublicProposal, error) {
	var p models.PublicProposal
	err := s.db.QueryRowContext(ctx, `
		SELECT id, slug, creator_name, partner_name, message, photo, created_at
		FROM proposal
		WHERE slug = $1
	`, slug).Scan(&p.ID, &p.Slug, &p.CreatorName, &p.PartnerName, &p.Message, &p.Photo, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PublicProposal{}, ErrNotFound
	}
	if err != nil {
		return models.PublicProposal{}, fmt.Errorf("query proposal by slug: %w", err)
	}
	return p, nil
}

// ListForOwner returns the owner's proposals, newest first, with view
// counts and answered responses.
func (s *ProposalService) ListForOwner(ctx context.Context, ownerID string) ([]models.ProposalWithStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, slug, creator_name, partner_name, message, photo, owner_id, created_at
		FROM proposal
		WHERE owner_id = $1
		ORDER BY created_at DESC, id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query proposals: %w", err)
	}

	proposals := []models.ProposalWithStats{}
	for rows.Next() {
		var p models.ProposalWithStats
		if err := rows.Scan(&p.ID, &p.Slug, &p.CreatorName, &p.PartnerName, &p.Message, &p.Photo, &p.OwnerID, &p.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		proposals = append(proposals, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate proposals: %w", err)
	}
	// Release the connection before the per-proposal queries
	rows.Close()

	for i := range proposals {
		p := &proposals[i]
		if p.TotalViews, err = s.views.CountTotal(ctx, p.ID); err != nil {
			return nil, err
		}
		if p.UniqueVisitors, err = s.views.CountDistinct(ctx, p.ID); err != nil {
			return nil, err
		}
		if p.Responses, err = s.responses.ListAnswered(ctx, p.ID); err != nil {
			return nil, err
		}
	}

	return proposals, nil
}

// Update changes the name and message fields of an owned proposal.
// Nil or blank names keep their value; a nil message keeps it and an empty
// one clears it.
func (s *ProposalService) Update(ctx context.Context, ownerID string, req models.UpdateProposalRequest) (models.Proposal, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return models.Proposal{}, validationError("id is required")
	}

	p, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return models.Proposal{}, err
	}

	if req.CreatorName != nil {
		if v := cleanText(*req.CreatorName); v != "" {
			p.CreatorName = v
		}
	}
	if req.PartnerName != nil {
		if v := cleanText(*req.PartnerName); v != "" {
			p.PartnerName = v
		}
	}
	if req.Message != nil {
		m := cleanText(*req.Message)
		p.Message = nonEmpty(&m)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE proposal
		SET creator_name = $1, partner_name = $2, message = $3
		WHERE id = $4 AND owner_id = $5
	`, p.CreatorName, p.PartnerName, p.Message, p.ID, ownerID)
	if err != nil {
		return models.Proposal{}, fmt.Errorf("update proposal: %w", err)
	}

	slog.Info("proposal updated", "proposal_id", p.ID)
	return p, nil
}

// Delete removes an owned proposal with its responses and views.
func (s *ProposalService) Delete(ctx context.Context, ownerID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return validationError("id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	var found int
	err = tx.QueryRowContext(ctx, `
		SELECT 1 FROM proposal WHERE id = $1 AND owner_id = $2
	`, id, ownerID).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("query proposal: %w", err)
	}

	// Responses first; proposal_view also cascades but SQLite only
	// enforces that with foreign_keys on
	if _, err := tx.ExecContext(ctx, `DELETE FROM response WHERE proposal_id = $1`, id); err != nil {
		return fmt.Errorf("delete responses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM proposal_view WHERE proposal_id = $1`, id); err != nil {
		return fmt.Errorf("delete views: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM proposal WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete proposal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}

	slog.Info("proposal deleted", "proposal_id", id, "owner_id", ownerID)
	return nil
}

// getOwned loads a proposal only if ownerID owns it. Missing and foreign
// proposals both return ErrNotFound.
func (s *ProposalService) getOwned(ctx context.Context, ownerID, id string) (models.Proposal, error) {
	var p models.Proposal
	err := s.db.QueryRowContext(ctx, `
		SELECT id, slug, creator_name, partner_name, message, photo, owner_id, created_at
		FROM proposal
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID).Scan(&p.ID, &p.Slug, &p.CreatorName, &p.PartnerName, &p.Message, &p.Photo, &p.OwnerID, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Proposal{}, ErrNotFound
	}
	if err != nil {
		return models.Proposal{}, fmt.Errorf("query proposal: %w", err)
	}
	return p, nil
}
