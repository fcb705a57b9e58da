// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package visit tracks a visitor's progress on a proposal page: when they
// first opened it, how many times they chased the "no" button and where
// that button currently sits. State is kept per visitor and slug under
// "valentine_session_<slug>" in a Store (in memory or redis) and cleared
// once the visitor says yes.
package visit
