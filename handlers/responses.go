// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/valentine/middleware"
	"github.com/danielhkuo/valentine/models"
	"github.com/danielhkuo/valentine/services"
)

type ResponseHandler struct {
	svc *services.Services
}

func NewResponseHandler(svc *services.Services) *ResponseHandler {
	return &ResponseHandler{svc: svc}
}

// Get handles GET /responses?id=
func (h *ResponseHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Responses.Get(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		writeServiceError(w, "load response", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Create handles POST /responses
func (h *ResponseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateResponseRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	resp, err := h.svc.Responses.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, "create response", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// AttachPhoto handles PUT /responses
func (h *ResponseHandler) AttachPhoto(w http.ResponseWriter, r *http.Request) {
	var req models.AttachPhotoRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	resp, err := h.svc.Responses.AttachPhoto(r.Context(), req.ID, req.Photo)
	if err != nil {
		writeServiceError(w, "attach photo", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
