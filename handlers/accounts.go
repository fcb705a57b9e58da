// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/valentine/middleware"
	"github.com/danielhkuo/valentine/models"
	"github.com/danielhkuo/valentine/services"
	"github.com/danielhkuo/valentine/sessions"
)

type AccountHandler struct {
	svc      *services.Services
	sessions *sessions.Manager
}

func NewAccountHandler(svc *services.Services, sm *sessions.Manager) *AccountHandler {
	return &AccountHandler{svc: svc, sessions: sm}
}

// Register handles POST /auth/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	acct, err := h.svc.Accounts.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, "register account", err)
		return
	}

	h.startSession(w, http.StatusCreated, acct)
}

// Login handles POST /auth/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	acct, err := h.svc.Accounts.Authenticate(r.Context(), req)
	if err != nil {
		writeServiceError(w, "authenticate", err)
		return
	}

	h.startSession(w, http.StatusOK, acct)
}

// Logout handles POST /auth/logout
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if claims, ok := middleware.SessionClaims(r); ok {
		if err := h.sessions.Revoke(r.Context(), claims); err != nil {
			slog.Error("failed to revoke session", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	acct, err := h.svc.Accounts.Get(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, "load account", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, acct)
}

func (h *AccountHandler) startSession(w http.ResponseWriter, status int, acct models.Account) {
	token, expiresAt, err := h.sessions.Issue(acct.ID)
	if err != nil {
		slog.Error("failed to issue session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	middleware.SetSessionCookie(w, token, expiresAt)
	middleware.JSONResponse(w, status, models.SessionResponse{
		Account:   acct,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
