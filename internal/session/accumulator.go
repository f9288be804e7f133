package session

import (
	"strings"
	"time"

	"github.com/anchorwatch/anchor/internal/analyzer"
)

// defaultDurationHint stands in for the window span when chunk timing can't
// supply one (single chunk, clock skew).
const defaultDurationHint = 2.5

// Chunk is one appended transcript fragment.
type Chunk struct {
	Text       string
	Words      int
	ReceivedAt time.Time
}

// Accumulator buffers transcript fragments for one session until enough
// text has piled up for an analysis pass. It is the sole de-bounce point
// between rapid partial ASR output and the aggregator.
type Accumulator struct {
	chunks       []Chunk
	words        int
	lastTrigger  time.Time
	minWords     int
	interval     time.Duration
	windowChunks int
}

// NewAccumulator gates triggers on at least minWords accumulated words and
// at least interval since the previous trigger; a trigger returns the last
// windowChunks chunks joined.
func NewAccumulator(minWords int, interval time.Duration, windowChunks int) *Accumulator {
	return &Accumulator{
		minWords:     minWords,
		interval:     interval,
		windowChunks: windowChunks,
	}
}

// Add appends a transcript fragment.
func (a *Accumulator) Add(text string, at time.Time) {
	words := len(strings.Fields(text))
	if words == 0 {
		return
	}
	a.chunks = append(a.chunks, Chunk{Text: text, Words: words, ReceivedAt: at})
	a.words += words
}

// Words returns the accumulated word count.
func (a *Accumulator) Words() int { return a.words }

// MaybeTrigger returns the buffered window and clears the buffer when both
// gates are satisfied; otherwise it reports not-ready with no side effect.
// Clearing (not merely reading) prevents re-analyzing stale text.
func (a *Accumulator) MaybeTrigger(now time.Time) (analyzer.Window, bool) {
	if a.words < a.minWords {
		return analyzer.Window{}, false
	}
	if !a.lastTrigger.IsZero() && now.Sub(a.lastTrigger) < a.interval {
		return analyzer.Window{}, false
	}

	window := a.chunks
	if len(window) > a.windowChunks {
		window = window[len(window)-a.windowChunks:]
	}

	parts := make([]string, len(window))
	wordCount := 0
	for i, c := range window {
		parts[i] = c.Text
		wordCount += c.Words
	}

	dur := defaultDurationHint
	if len(window) >= 2 {
		if span := window[len(window)-1].ReceivedAt.Sub(window[0].ReceivedAt).Seconds(); span > 0 {
			dur = span
		}
	}

	a.chunks = nil
	a.words = 0
	a.lastTrigger = now

	return analyzer.Window{
		Text:            strings.Join(parts, " "),
		WordCount:       wordCount,
		DurationSeconds: dur,
	}, true
}
