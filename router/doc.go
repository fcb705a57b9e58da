// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Valentine API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(svc, sessionManager, tracker)

# Endpoints

Health:

	GET /health

Accounts:

	POST /auth/register - Create account, start session
	POST /auth/login    - Start session
	POST /auth/logout   - End session (session required)
	GET  /auth/me       - Current account (session required)

Proposal management (session required):

	GET    /proposals       - Owner's proposals with stats
	POST   /proposals       - Create proposal
	PUT    /proposals       - Update proposal
	DELETE /proposals?id=   - Delete proposal

Public proposal page (uses share slug):

	GET  /proposals/{slug}        - Proposal for the partner
	GET  /proposals/{slug}/visit  - Resume timer and dodge count
	POST /proposals/{slug}/dodge  - Move the "no" button
	POST /proposals/{slug}/accept - Say yes with the tracked numbers

Responses (public):

	GET  /responses?id= - Response with proposal names
	POST /responses     - Record a yes
	PUT  /responses     - Attach photo

# Sessions

Owner routes are wrapped with middleware.RequireSession, which accepts the
session cookie or an Authorization: Bearer token.
*/
package router
