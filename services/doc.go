// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package services holds the business logic of the Valentine API on top of
database/sql.

# Service Bundle

New wires every service over one database handle:

	svc := services.New(database, cfg)
	svc.Accounts   // register, authenticate, lookup
	svc.Proposals  // create, public read, owner CRUD
	svc.Responses  // record a "yes", attach a photo
	svc.Views      // page views, written in the background

Handlers only see this bundle; none of them touch SQL.

# Errors

Callers classify failures with errors.Is:

  - ErrValidation: bad input, the message after the colon is user facing
  - ErrPayloadTooLarge: photo data URL over 5MB
  - ErrNotFound: missing, or owned by another account
  - ErrUnauthorized: wrong email or password
  - ErrConflict: email already registered

Anything else is an infrastructure failure and should be logged.

# Free Text

Names and messages are reduced to plain text before they are stored.
Entities are decoded and markup is stripped until the result stops
changing, so an encoded tag such as "&lt;script&gt;" cannot come back as
markup. Text like "a < b" or "I <3 you" is kept as typed.

Passwords must be 8 to 72 bytes; bcrypt ignores anything longer.

# Background Views

ProposalService.GetPublic records a view with ViewService.RecordAsync so
the page renders without waiting on the insert. Shut down in this order:

	server.Shutdown(ctx) // no new requests
	svc.Views.Close()    // drop late views, wait for the rest
	database.Close()
*/
package services
