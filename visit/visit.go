// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package visit

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// stateTTL is how long an abandoned visit keeps its timer and dodge count
const stateTTL = 7 * 24 * time.Hour

// Offset is where the "no" button sits relative to its home position, in pixels
type Offset struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Offsets are the positions the "no" button can jump to
var Offsets = []Offset{
	{X: 150, Y: 0},
	{X: -150, Y: 0},
	{X: 0, Y: 80},
	{X: 120, Y: 60},
	{X: -120, Y: 60},
	{X: 100, Y: -50},
	{X: -100, Y: -50},
	{X: 80, Y: 100},
	{X: -80, Y: 100},
}

// NextOffset picks a random offset different from current
func NextOffset(current Offset, rnd *rand.Rand) Offset {
	for {
		next := Offsets[rnd.IntN(len(Offsets))]
		if next != current {
			return next
		}
	}
}

// State is one visitor's progress on one proposal page. Times are unix
// milliseconds.
type State struct {
	Slug       string `json:"slug"`
	StartTime  int64  `json:"startTime"`
	NoAttempts int    `json:"noAttempts"`
	LastVisit  int64  `json:"lastVisit"`
	Offset     Offset `json:"offset"`
}

// Outcome is what a visit amounts to when the visitor says yes
type Outcome struct {
	TimeToYesMs int64
	NoAttempts  int
}

// Key is the store key for a visitor's state on slug
func Key(visitorID, slug string) string {
	key := "valentine_session_" + slug
	if visitorID != "" {
		key += ":" + visitorID
	}
	return key
}

// Tracker keeps visit state in a Store so a reload resumes the timer and
// dodge count instead of starting over.
type Tracker struct {
	store Store
	ttl   time.Duration
	now   func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewTracker(store Store) *Tracker {
	return &Tracker{
		store: store,
		ttl:   stateTTL,
		now:   time.Now,
		rnd:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Resume loads the visitor's state, starting a fresh one on first visit.
func (t *Tracker) Resume(ctx context.Context, visitorID, slug string) (State, error) {
	return t.update(ctx, visitorID, slug, func(st *State) {})
}

// Dodge moves the "no" button and counts the attempt. Concurrent dodges on
// the same key each count.
func (t *Tracker) Dodge(ctx context.Context, visitorID, slug string) (State, error) {
	return t.update(ctx, visitorID, slug, func(st *State) {
		t.mu.Lock()
		st.Offset = NextOffset(st.Offset, t.rnd)
		t.mu.Unlock()
		st.NoAttempts++
	})
}

// Accept hands the visit's outcome to submit and clears the state once
// submit succeeds. On failure the state is kept so a retry sees the same
// numbers.
func (t *Tracker) Accept(ctx context.Context, visitorID, slug string, submit func(Outcome) error) error {
	st, err := t.load(ctx, visitorID, slug)
	if err != nil {
		return err
	}

	elapsed := t.now().UnixMilli() - st.StartTime
	if elapsed < 0 {
		elapsed = 0
	}
	if err := submit(Outcome{TimeToYesMs: elapsed, NoAttempts: st.NoAttempts}); err != nil {
		return err
	}

	return t.store.Delete(ctx, Key(visitorID, slug))
}

// update applies change to the stored state in one atomic step and stamps
// the visit time
func (t *Tracker) update(ctx context.Context, visitorID, slug string, change func(*State)) (State, error) {
	var st State
	err := t.store.Update(ctx, Key(visitorID, slug), t.ttl, func(raw []byte, ok bool) ([]byte, error) {
		st = t.decode(raw, ok, slug)
		change(&st)
		st.LastVisit = t.now().UnixMilli()

		next, err := json.Marshal(st)
		if err != nil {
			return nil, fmt.Errorf("encode visit state: %w", err)
		}
		return next, nil
	})
	if err != nil {
		return State{}, err
	}
	return st, nil
}

func (t *Tracker) load(ctx context.Context, visitorID, slug string) (State, error) {
	raw, ok, err := t.store.Get(ctx, Key(visitorID, slug))
	if err != nil {
		return State{}, err
	}
	return t.decode(raw, ok, slug), nil
}

// decode reads stored state; missing or unreadable state starts fresh
func (t *Tracker) decode(raw []byte, ok bool, slug string) State {
	if ok {
		var st State
		if err := json.Unmarshal(raw, &st); err == nil && st.StartTime > 0 {
			st.Slug = slug
			return st
		}
	}

	now := t.now().UnixMilli()
	return State{Slug: slug, StartTime: now, LastVisit: now}
}
