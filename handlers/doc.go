// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Valentine API.

# Handler Types

Each handler is a struct over the service bundle:

  - AccountHandler: registration, login, logout and the current account
  - ProposalHandler: public proposal page and the owner's CRUD
  - ResponseHandler: recording a "yes" and attaching a photo

Handlers are created via constructor functions:

	proposals := handlers.NewProposalHandler(svc)
	accounts := handlers.NewAccountHandler(svc, sessionManager)

# Proposal Flow

An owner signs in and creates a proposal. The response carries the slug
used to build the share link:

	POST /proposals        → Create (returns slug)
	GET  /proposals        → List (with view counts and responses)
	PUT  /proposals        → Update (partial)
	DELETE /proposals?id=  → Delete (responses and views go too)

The partner opens the link anonymously:

	GET  /proposals/{slug} → GetPublic (records a view in the background)
	POST /responses        → Create (timeToYesMs, dodgeCount)
	PUT  /responses        → AttachPhoto
	GET  /responses?id=    → Get (with the proposal's names)

Owner routes read the account from the request context, which
middleware.RequireSession fills in. A proposal owned by someone else is
reported as not found.

# Error Handling

Service errors are mapped in one place:

  - services.ErrValidation: 400 with the field message
  - services.ErrPayloadTooLarge: 400 "photo too large, maximum size is 5MB"
  - services.ErrNotFound: 404
  - services.ErrUnauthorized: 401
  - services.ErrConflict: 409
  - anything else: 500 "Internal server error", logged

All errors use the JSON shape of models.ErrorResponse.
*/
package handlers
