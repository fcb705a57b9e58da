// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/valentine/handlers"
	"github.com/danielhkuo/valentine/middleware"
	"github.com/danielhkuo/valentine/services"
	"github.com/danielhkuo/valentine/sessions"
	"github.com/danielhkuo/valentine/visit"
)

func NewRouter(svc *services.Services, sm *sessions.Manager, tracker *visit.Tracker) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(svc, sm)
	proposalHandler := handlers.NewProposalHandler(svc)
	responseHandler := handlers.NewResponseHandler(svc)
	visitHandler := handlers.NewVisitHandler(svc, tracker)

	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireSession(sm, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts
	mux.HandleFunc("POST /auth/register", middleware.WithLogging(accountHandler.Register))
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(accountHandler.Login))
	mux.HandleFunc("POST /auth/logout", authed(accountHandler.Logout))
	mux.HandleFunc("GET /auth/me", authed(accountHandler.Me))

	// Proposal management (owner only)
	mux.HandleFunc("GET /proposals", authed(proposalHandler.List))
	mux.HandleFunc("POST /proposals", authed(proposalHandler.Create))
	mux.HandleFunc("PUT /proposals", authed(proposalHandler.Update))
	mux.HandleFunc("DELETE /proposals", authed(proposalHandler.Delete))

	// Public proposal page
	mux.HandleFunc("GET /proposals/{slug}", middleware.WithLogging(proposalHandler.GetPublic))
	mux.HandleFunc("GET /proposals/{slug}/visit", middleware.WithLogging(visitHandler.Resume))
	mux.HandleFunc("POST /proposals/{slug}/dodge", middleware.WithLogging(visitHandler.Dodge))
	mux.HandleFunc("POST /proposals/{slug}/accept", middleware.WithLogging(visitHandler.Accept))

	// Responses (public)
	mux.HandleFunc("GET /responses", middleware.WithLogging(responseHandler.Get))
	mux.HandleFunc("POST /responses", middleware.WithLogging(responseHandler.Create))
	mux.HandleFunc("PUT /responses", middleware.WithLogging(responseHandler.AttachPhoto))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("valentine API v1"))
	})

	return mux
}
