// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Sources

Settings are layered, later sources winning:

  1. .env in the working directory (optional)
  2. Environment variables
  3. CLI flags

# Config Fields

  - Port (PORT, -p): listen port, default 3318
  - DatabaseURL (DATABASE_URL, -d): connection string (required)
  - DatabaseType (DATABASE_TYPE, -t): "sqlite" (default) or "postgres"
  - SessionSecret (SESSION_SECRET, -session-secret): JWT signing key (required)
  - SessionTTL (SESSION_TTL, -session-ttl): session lifetime, default 720h
  - IPHashSalt (IP_HASH_SALT, -ip-salt): visitor address salt, default "valentine-salt"
  - RedisURL (REDIS_URL, -redis): optional; enables shared session revocation
  - LogFormat (LOG_FORMAT): "text" (default) or "json"

# Example

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
*/
package cliparse
