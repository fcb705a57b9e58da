// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/valentine/auth"
	"github.com/danielhkuo/valentine/middleware"
	"github.com/danielhkuo/valentine/models"
	"github.com/danielhkuo/valentine/services"
	"github.com/danielhkuo/valentine/visit"
)

// VisitorCookie identifies an anonymous visitor across reloads
const VisitorCookie = "visitor"

const visitorCookieAge = 30 * 24 * time.Hour

type VisitHandler struct {
	svc     *services.Services
	tracker *visit.Tracker
}

func NewVisitHandler(svc *services.Services, tracker *visit.Tracker) *VisitHandler {
	return &VisitHandler{svc: svc, tracker: tracker}
}

// Resume handles GET /proposals/{slug}/visit
func (h *VisitHandler) Resume(w http.ResponseWriter, r *http.Request) {
	slug, ok := h.lookup(w, r)
	if !ok {
		return
	}

	st, err := h.tracker.Resume(r.Context(), visitorID(w, r), slug)
	if err != nil {
		slog.Error("failed to resume visit", "error", err, "slug", slug)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, st)
}

// Dodge handles POST /proposals/{slug}/dodge
func (h *VisitHandler) Dodge(w http.ResponseWriter, r *http.Request) {
	slug, ok := h.lookup(w, r)
	if !ok {
		return
	}

	st, err := h.tracker.Dodge(r.Context(), visitorID(w, r), slug)
	if err != nil {
		slog.Error("failed to record dodge", "error", err, "slug", slug)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, st)
}

// Accept handles POST /proposals/{slug}/accept. The tracked time and dodge
// count become the response.
func (h *VisitHandler) Accept(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if !auth.IsValidSlug(slug) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
		return
	}

	p, err := h.svc.Proposals.GetPublic(r.Context(), slug)
	if err != nil {
		writeServiceError(w, "load proposal", err)
		return
	}

	var resp models.Response
	err = h.tracker.Accept(r.Context(), visitorID(w, r), slug, func(o visit.Outcome) error {
		var err error
		resp, err = h.svc.Responses.Create(r.Context(), models.CreateResponseRequest{
			ProposalID:  p.ID,
			TimeToYesMs: &o.TimeToYesMs,
			DodgeCount:  &o.NoAttempts,
		})
		return err
	})
	if err != nil {
		writeServiceError(w, "accept proposal", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// lookup checks the slug names a proposal
func (h *VisitHandler) lookup(w http.ResponseWriter, r *http.Request) (string, bool) {
	slug := r.PathValue("slug")
	if !auth.IsValidSlug(slug) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
		return "", false
	}
	if _, err := h.svc.Proposals.GetPublic(r.Context(), slug); err != nil {
		writeServiceError(w, "load proposal", err)
		return "", false
	}
	return slug, true
}

// visitorID reads the visitor cookie, issuing one when missing
func visitorID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(VisitorCookie); err == nil && c.Value != "" {
		return c.Value
	}

	id := auth.GenerateID()
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(visitorCookieAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

