// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("GenerateID() = %q is not a UUID: %v", id, err)
	}

	// Test randomness - two IDs should be different
	if GenerateID() == GenerateID() {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestGenerateSlug(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		slug, err := GenerateSlug()
		if err != nil {
			t.Fatalf("GenerateSlug() error = %v", err)
		}
		if len(slug) != 8 {
			t.Fatalf("GenerateSlug() length = %d, want 8", len(slug))
		}
		for _, c := range slug {
			if !strings.ContainsRune(slugAlphabet, c) {
				t.Errorf("GenerateSlug() contains invalid char: %c", c)
			}
		}
		if !IsValidSlug(slug) {
			t.Errorf("IsValidSlug(%q) = false for generated slug", slug)
		}
		seen[slug] = true
	}

	// 48 bits of randomness; 500 draws should never collide
	if len(seen) != 500 {
		t.Errorf("GenerateSlug() produced %d unique slugs out of 500", len(seen))
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"abcDEF12", true},
		{"a_b-c_d-", true},
		{"short", false},
		{"toolongslug", false},
		{"abc/ef12", false},
		{"abc ef12", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidSlug(tt.slug); got != tt.want {
			t.Errorf("IsValidSlug(%q) = %v, want %v", tt.slug, got, tt.want)
		}
	}
}

func TestHashIP(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		salt string
	}{
		{"IPv4", "192.168.1.1", "valentine-salt"},
		{"IPv6", "2001:0db8:85a3::8a2e:0370:7334", "valentine-salt"},
		{"localhost", "127.0.0.1", "valentine-salt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := HashIP(tt.ip, tt.salt)

			// Should be 16 hex characters (8 bytes * 2)
			if len(hash) != 16 {
				t.Errorf("HashIP() length = %d, want 16", len(hash))
			}

			for _, c := range hash {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("HashIP() contains invalid hex char: %c", c)
				}
			}

			if hash != HashIP(tt.ip, tt.salt) {
				t.Error("HashIP() is not deterministic")
			}
		})
	}

	if HashIP("192.168.1.1", "salt") == HashIP("192.168.1.2", "salt") {
		t.Error("HashIP() produced same hash for different IPs")
	}
	if HashIP("192.168.1.1", "salt1") == HashIP("192.168.1.1", "salt2") {
		t.Error("HashIP() produced same hash for different salts")
	}
	if HashIP("", "salt") != HashIP("unknown", "salt") {
		t.Error("HashIP() should treat empty address as unknown")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("HashPassword() returned the plaintext")
	}
	if !CheckPassword("correct horse", hash) {
		t.Error("CheckPassword() rejected the right password")
	}
	if CheckPassword("wrong horse", hash) {
		t.Error("CheckPassword() accepted the wrong password")
	}
}
