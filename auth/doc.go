// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifiers, slugs, address hashing and password hashing.

# Share Slugs

Slugs are 8 random characters from a 64-symbol URL-safe alphabet:

	slug, err := auth.GenerateSlug()

They are not derived from the proposal ID, so two proposals can in theory
draw the same slug. The slug column is UNIQUE and the proposal service
retries with a fresh slug when the insert hits that constraint.

# ID Generation

Record IDs are random UUIDs:

	id := auth.GenerateID()

# IP Hashing

Visitor addresses are never stored in the clear:

	hash := auth.HashIP(ipAddress, salt)

Returns the first 8 bytes (16 hex chars) of HMAC-SHA256. An empty address
hashes as "unknown" so unidentifiable visitors collapse into one bucket.

# Passwords

Account passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(pw)
	ok := auth.CheckPassword(pw, hash)
*/
package auth
