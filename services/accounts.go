// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/danielhkuo/valentine/auth"
	"github.com/danielhkuo/valentine/db"
	"github.com/danielhkuo/valentine/models"
)

const (
	minPasswordLength = 8
	// bcrypt rejects anything longer
	maxPasswordBytes = 72
)

type AccountService struct {
	db  *sql.DB
	now func() time.Time
}

func NewAccountService(db *sql.DB) *AccountService {
	return &AccountService{db: db, now: utcNow}
}

// Register creates an account. Emails are compared case-insensitively.
func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (models.Account, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return models.Account{}, err
	}
	if len(req.Password) < minPasswordLength {
		return models.Account{}, validationError(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if len(req.Password) > maxPasswordBytes {
		return models.Account{}, validationError(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.Account{}, err
	}

	acct := models.Account{
		ID:           auth.GenerateID(),
		Email:        email,
		DisplayName:  cleanText(req.DisplayName),
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO account (id, email, password_hash, display_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, acct.ID, acct.Email, acct.PasswordHash, acct.DisplayName, acct.CreatedAt)
	if db.IsUniqueViolation(err) {
		return models.Account{}, fmt.Errorf("%w: email already registered", ErrConflict)
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("insert account: %w", err)
	}

	slog.Info("account registered", "account_id", acct.ID)
	return acct, nil
}

// Authenticate checks credentials. Unknown email and wrong password both
// return ErrUnauthorized.
func (s *AccountService) Authenticate(ctx context.Context, req models.LoginRequest) (models.Account, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	acct, err := s.scanOne(ctx, `WHERE email = $1`, email)
	if errors.Is(err, ErrNotFound) {
		return models.Account{}, ErrUnauthorized
	}
	if err != nil {
		return models.Account{}, err
	}
	if !auth.CheckPassword(req.Password, acct.PasswordHash) {
		return models.Account{}, ErrUnauthorized
	}
	return acct, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (models.Account, error) {
	return s.scanOne(ctx, `WHERE id = $1`, id)
}

func (s *AccountService) scanOne(ctx context.Context, where string, arg string) (models.Account, error) {
	var a models.Account
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, display_name, created_at
		FROM account `+where, arg).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.DisplayName, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrNotFound
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("query account: %w", err)
	}
	return a, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", validationError("a valid email is required")
	}
	return email, nil
}
