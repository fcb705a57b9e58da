// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package sessions issues and verifies the signed tokens that authenticate
proposal owners.

# Tokens

A Manager signs HS256 JWTs carrying the account ID and a unique token ID:

	sm := sessions.NewManager(cfg.SessionSecret, cfg.SessionTTL, revoker)
	token, expiresAt, err := sm.Issue(account.ID)
	claims, err := sm.Parse(ctx, token)

Parse returns ErrInvalidSession for a bad signature, a foreign algorithm
or an expired token, and ErrRevokedSession after logout.

# Revocation

Logout calls Manager.Revoke, which records the token ID until the token
would have expired anyway. Two Revoker implementations exist:

  - MemoryRevoker: per process, lost on restart
  - RedisRevoker: shared across instances, keys expire with the token

ConnectRedis parses a redis:// URL and pings the server before handing
the client back.
*/
package sessions
