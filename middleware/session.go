// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/valentine/sessions"
)

// SessionCookie is the cookie carrying the session token
const SessionCookie = "session"

type contextKey int

const (
	accountIDKey contextKey = iota
	claimsKey
)

// RequireSession rejects requests without a valid session with 401 and
// otherwise stores the account ID and claims in the request context.
func RequireSession(sm *sessions.Manager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := SessionToken(r)
		if token == "" {
			ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		claims, err := sm.Parse(r.Context(), token)
		if err != nil {
			if !errors.Is(err, sessions.ErrInvalidSession) && !errors.Is(err, sessions.ErrRevokedSession) {
				slog.Error("failed to verify session", "error", err)
			}
			ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := ContextWithAccountID(r.Context(), claims.AccountID)
		ctx = context.WithValue(ctx, claimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// SessionToken reads the token from the Authorization header or the session cookie
func SessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func ContextWithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

// AccountID returns the authenticated account, if any
func AccountID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(accountIDKey).(string)
	return id, ok && id != ""
}

// SessionClaims returns the verified claims set by RequireSession
func SessionClaims(r *http.Request) (*sessions.Claims, bool) {
	c, ok := r.Context().Value(claimsKey).(*sessions.Claims)
	return c, ok
}

// SetSessionCookie writes the session token as an HttpOnly cookie
func SetSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
