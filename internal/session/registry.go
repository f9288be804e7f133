// Package session owns per-call state: the transcript accumulator, the risk
// history tracker, and the call-start instant. State is confined to one
// owner; nothing here is shared across sessions.
package session

import (
	"sync"
	"time"

	"github.com/anchorwatch/anchor/internal/metrics"
	"github.com/anchorwatch/anchor/internal/risk"
)

// DefaultID is used when a producer omits a session identifier — the engine
// serves a single concurrent call in the common deployment.
const DefaultID = "default"

// State is one session's mutable state. Mu serializes the trigger path so
// at most one aggregation runs per session at a time, and guards every
// field below it — including LastSeen, which the registry writes on each
// Get and the status handler reads concurrently.
type State struct {
	ID        string
	StartedAt time.Time

	Mu       sync.Mutex
	LastSeen time.Time
	Window   *Accumulator
	History  *risk.Tracker

	LastAssessment *risk.Assessment
}

// Config carries the per-session construction parameters.
type Config struct {
	MinWords           int
	TriggerInterval    time.Duration
	WindowChunks       int
	HistoryCapacity    int
	EscalationDelta    float64
	DurationBonusAfter time.Duration
	DurationBonus      float64
}

// Registry maps session identifiers to state, creating lazily on first
// sight and evicting sessions idle past the TTL.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*State
	cfg      Config
	ttl      time.Duration
}

func NewRegistry(cfg Config, ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*State),
		cfg:      cfg,
		ttl:      ttl,
	}
}

// Get returns the session state, creating it on first use. First contact is
// never an error.
func (r *Registry) Get(id string, now time.Time) *State {
	if id == "" {
		id = DefaultID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.sessions[id]
	if !ok {
		st = &State{
			ID:        id,
			StartedAt: now,
			LastSeen:  now,
			Window:    NewAccumulator(r.cfg.MinWords, r.cfg.TriggerInterval, r.cfg.WindowChunks),
			History: risk.NewTracker(r.cfg.HistoryCapacity, r.cfg.EscalationDelta,
				r.cfg.DurationBonusAfter, r.cfg.DurationBonus),
		}
		r.sessions[id] = st
		metrics.Default.SessionsActive.Set(float64(len(r.sessions)))
		return st
	}
	st.Mu.Lock()
	st.LastSeen = now
	st.Mu.Unlock()
	return st
}

// All returns a snapshot of current sessions.
func (r *Registry) All() []*State {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*State, 0, len(r.sessions))
	for _, st := range r.sessions {
		out = append(out, st)
	}
	return out
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle longer than the TTL and returns how many were
// evicted.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, st := range r.sessions {
		st.Mu.Lock()
		lastSeen := st.LastSeen
		st.Mu.Unlock()
		if now.Sub(lastSeen) > r.ttl {
			delete(r.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		metrics.Default.SessionsActive.Set(float64(len(r.sessions)))
	}
	return evicted
}
