// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/valentine/middleware"
	"github.com/danielhkuo/valentine/services"
)

// writeServiceError maps a service error onto a status code. Anything
// unrecognised is logged and reported as a 500 without detail.
func writeServiceError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrPayloadTooLarge):
		middleware.ErrorResponse(w, http.StatusBadRequest, services.ErrPayloadTooLarge.Error())
	case errors.Is(err, services.ErrValidation):
		middleware.ErrorResponse(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, services.ErrUnauthorized):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, services.ErrConflict):
		middleware.ErrorResponse(w, http.StatusConflict, strings.TrimPrefix(err.Error(), services.ErrConflict.Error()+": "))
	default:
		slog.Error("failed to "+action, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
	}
}

// validationMessage drops the sentinel prefix so clients see only the field message
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), services.ErrValidation.Error()+": ")
}
