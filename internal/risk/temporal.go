package risk

import "time"

// escalationWindow is the number of recent entries an escalation verdict
// spans: the delta is measured from the oldest to the newest of the last
// three retained scores.
const escalationWindow = 3

// Tracker holds one session's bounded risk history and computes the
// escalation and duration adjustments. It is owned by exactly one session
// and mutated only from that session's trigger path.
type Tracker struct {
	entries    []HistoryEntry
	capacity   int
	delta      float64
	bonusAfter time.Duration
	bonus      float64
}

// NewTracker creates a tracker with ring-buffer semantics: at most capacity
// entries are retained, oldest evicted first.
func NewTracker(capacity int, delta float64, bonusAfter time.Duration, bonus float64) *Tracker {
	return &Tracker{
		capacity:   capacity,
		delta:      delta,
		bonusAfter: bonusAfter,
		bonus:      bonus,
	}
}

// Record appends a score (evicting the oldest entry at capacity) and
// reports whether the retained window shows escalation: at least three
// entries with a rise of at least the configured delta from oldest to
// newest.
func (t *Tracker) Record(score float64, level Level, at time.Time) bool {
	t.entries = append(t.entries, HistoryEntry{Score: score, Level: level, At: at})
	if len(t.entries) > t.capacity {
		t.entries = t.entries[len(t.entries)-t.capacity:]
	}

	if len(t.entries) < escalationWindow {
		return false
	}
	window := t.entries[len(t.entries)-escalationWindow:]
	return window[escalationWindow-1].Score-window[0].Score >= t.delta
}

// DurationBonus returns the fixed additive bonus once the call has run
// longer than the configured threshold, else 0. Sustained manipulation
// outweighs single-utterance spikes.
func (t *Tracker) DurationBonus(sessionStart, now time.Time) float64 {
	if now.Sub(sessionStart) > t.bonusAfter {
		return t.bonus
	}
	return 0
}

// Len returns the number of retained history entries.
func (t *Tracker) Len() int { return len(t.entries) }

// Entries returns a copy of the retained history, most recent last.
func (t *Tracker) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(t.entries))
	copy(out, t.entries)
	return out
}
