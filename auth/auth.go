// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"github.com/danielhkuo/valentine/models"
)

// slugAlphabet has 64 symbols so a random byte masked with 63 is unbiased
const slugAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_-"

// GenerateID creates a random identifier for a database record
func GenerateID() string {
	return uuid.NewString()
}

// GenerateSlug creates a short random URL slug for a proposal.
// Uniqueness is enforced by the database; callers retry on conflict.
func GenerateSlug() (string, error) {
	b := make([]byte, models.SlugLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate slug: %w", err)
	}
	for i := range b {
		b[i] = slugAlphabet[b[i]&63]
	}
	return string(b), nil
}

// IsValidSlug reports whether s could have been produced by GenerateSlug
func IsValidSlug(s string) bool {
	if len(s) != models.SlugLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c == '_' || c == '-') {
			return false
		}
	}
	return true
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	if ip == "" {
		ip = "unknown"
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
