// Package engine runs the trigger pipeline: transcript chunks in, gated
// analysis passes, assessments out. All per-session mutation happens under
// the session mutex so triggers for one call never interleave.
package engine

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/anchorwatch/anchor/internal/analyzer"
	"github.com/anchorwatch/anchor/internal/bus"
	"github.com/anchorwatch/anchor/internal/metrics"
	"github.com/anchorwatch/anchor/internal/publish"
	"github.com/anchorwatch/anchor/internal/risk"
	"github.com/anchorwatch/anchor/internal/session"
)

// sweepEvery bounds how often idle sessions are checked for eviction.
const sweepEvery = time.Minute

// TranscriptPayload is the inbound transcript chunk shape.
type TranscriptPayload struct {
	SessionID string    `json:"session_id"`
	Text      string    `json:"text"`
	IsFinal   bool      `json:"is_final"`
	Timestamp time.Time `json:"timestamp"`
}

// Engine wires the bus to the per-session state and the scoring pipeline.
type Engine struct {
	bus        *bus.Bus
	registry   *session.Registry
	extractors []analyzer.Extractor
	publisher  *publish.Publisher
	logger     *slog.Logger

	thresholds       risk.Thresholds
	extractorTimeout time.Duration
	triggerInterval  time.Duration
}

type Options struct {
	Bus              *bus.Bus
	Registry         *session.Registry
	Extractors       []analyzer.Extractor
	Publisher        *publish.Publisher
	Logger           *slog.Logger
	Thresholds       risk.Thresholds
	ExtractorTimeout time.Duration
	TriggerInterval  time.Duration
}

func New(opts Options) *Engine {
	return &Engine{
		bus:              opts.Bus,
		registry:         opts.Registry,
		extractors:       opts.Extractors,
		publisher:        opts.Publisher,
		logger:           opts.Logger,
		thresholds:       opts.Thresholds,
		extractorTimeout: opts.ExtractorTimeout,
		triggerInterval:  opts.TriggerInterval,
	}
}

// Run consumes transcript chunks until the context is cancelled. A ticker
// re-checks every session on the trigger interval so buffered text still
// gets analyzed when the transcript stream goes quiet.
func (e *Engine) Run(ctx context.Context) {
	sub := e.bus.Subscribe(bus.TopicTranscript)
	defer sub.Cancel()

	tick := time.NewTicker(e.triggerInterval)
	defer tick.Stop()

	sweep := time.NewTicker(sweepEvery)
	defer sweep.Stop()

	e.logger.Info("engine started", "extractors", len(e.extractors))

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("engine stopped")
			return
		case env, ok := <-sub.C():
			if !ok {
				return
			}
			e.handleTranscript(ctx, env)
		case <-tick.C:
			now := time.Now().UTC()
			for _, st := range e.registry.All() {
				e.maybeAnalyze(ctx, st, now)
			}
		case <-sweep.C:
			if n := e.registry.Sweep(time.Now().UTC()); n > 0 {
				e.logger.Info("sessions evicted", "count", n)
			}
		}
	}
}

func (e *Engine) handleTranscript(ctx context.Context, env bus.Envelope) {
	var p TranscriptPayload
	if err := env.Decode(&p); err != nil {
		e.logger.Warn("dropping malformed transcript", "error", err)
		return
	}

	text := strings.TrimSpace(p.Text)
	if text == "" || text == "(silence)" {
		return
	}
	if !p.IsFinal {
		return
	}

	now := time.Now().UTC()
	st := e.registry.Get(p.SessionID, now)

	st.Mu.Lock()
	st.Window.Add(text, now)
	st.Mu.Unlock()

	e.maybeAnalyze(ctx, st, now)
}

// maybeAnalyze runs one gated analysis pass for the session. The base
// assessment is computed first, its score recorded into history, and the
// aggregation re-run with the escalation flag when the history says the
// trend qualifies — the published score then includes the escalation
// contribution the history just detected.
func (e *Engine) maybeAnalyze(ctx context.Context, st *session.State, now time.Time) {
	st.Mu.Lock()
	defer st.Mu.Unlock()

	window, ok := st.Window.MaybeTrigger(now)
	metrics.Default.RecordTrigger(ok)
	if !ok {
		return
	}

	started := time.Now()
	signals := analyzer.Run(ctx, e.extractors, window, e.extractorTimeout, e.logger)

	base := risk.Aggregate(st.ID, signals, false, 0, e.thresholds, window.WordCount, now)

	escalating := st.History.Record(base.Score, base.Level, now)
	bonus := st.History.DurationBonus(st.StartedAt, now)

	final := base
	if escalating || bonus > 0 {
		final = risk.Aggregate(st.ID, signals, escalating, bonus, e.thresholds, window.WordCount, now)
	}

	st.LastAssessment = &final
	metrics.Default.RecordAssessment(string(final.Level), time.Since(started).Seconds())

	e.publisher.Publish(final, window.Text)
}
