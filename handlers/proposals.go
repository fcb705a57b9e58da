// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/valentine/auth"
	"github.com/danielhkuo/valentine/middleware"
	"github.com/danielhkuo/valentine/models"
	"github.com/danielhkuo/valentine/services"
)

type ProposalHandler struct {
	svc *services.Services
}

func NewProposalHandler(svc *services.Services) *ProposalHandler {
	return &ProposalHandler{svc: svc}
}

// GetPublic handles GET /proposals/{slug}
func (h *ProposalHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
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

	// The response does not wait on the view write
	h.svc.Views.RecordAsync(p.ID, middleware.GetClientIP(r), r.UserAgent())

	middleware.JSONResponse(w, http.StatusOK, p)
}

// List handles GET /proposals
func (h *ProposalHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.AccountID(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	proposals, err := h.svc.Proposals.ListForOwner(r.Context(), ownerID)
	if err != nil {
		writeServiceError(w, "list proposals", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, proposals)
}

// Create handles POST /proposals
func (h *ProposalHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.AccountID(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CreateProposalRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p, err := h.svc.Proposals.Create(r.Context(), ownerID, req)
	if err != nil {
		writeServiceError(w, "create proposal", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, p)
}

// Update handles PUT /proposals
func (h *ProposalHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.AccountID(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.UpdateProposalRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p, err := h.svc.Proposals.Update(r.Context(), ownerID, req)
	if err != nil {
		writeServiceError(w, "update proposal", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, p)
}

// Delete handles DELETE /proposals?id=
func (h *ProposalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.AccountID(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.svc.Proposals.Delete(r.Context(), ownerID, r.URL.Query().Get("id")); err != nil {
		writeServiceError(w, "delete proposal", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DeleteProposalResponse{Success: true})
}
