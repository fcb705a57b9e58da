// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

JSON field names are camelCase to match the web client.

# Request Types

  - RegisterRequest, LoginRequest: account credentials
  - CreateProposalRequest: creatorName, partnerName, message, photo
  - UpdateProposalRequest: id plus optional name/message fields
  - CreateResponseRequest: proposalId, timeToYesMs, dodgeCount
  - AttachPhotoRequest: id, photo

# Domain Types

  - Account: a creator who signs in
  - Proposal: the shareable page, owned by one account
  - PublicProposal: the visitor projection (no owner id)
  - ProposalWithStats: dashboard row with view counts and answered responses
  - Response: a visitor's acceptance (time-to-yes, dodge count, photo)
  - View: one page load, keyed by a hashed client address

# Limits

	MaxPhotoLength = 7_000_000 // base64 characters, ~5MB decoded
	SlugLength     = 8
*/
package models
