package bus

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func recvOne(t *testing.T, sub *Subscription) Envelope {
	t.Helper()
	select {
	case env := <-sub.C():
		return env
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for envelope")
		return Envelope{}
	}
}

func TestPublishDeliversInOrder(t *testing.T) {
	b := New(testLogger())
	defer b.Close()

	sub := b.Subscribe(TopicTranscript)

	for i := 0; i < 5; i++ {
		b.Publish(TopicTranscript, map[string]int{"seq": i})
	}

	for i := 0; i < 5; i++ {
		env := recvOne(t, sub)
		var payload map[string]int
		if err := env.Decode(&payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if payload["seq"] != i {
			t.Errorf("expected seq %d, got %d", i, payload["seq"])
		}
	}
}

func TestPublishWithoutSubscribersSucceeds(t *testing.T) {
	b := New(testLogger())
	defer b.Close()

	// Must not panic or block.
	b.Publish(TopicRiskResult, map[string]string{"level": "low"})
}

func TestSubscriberOnlySeesItsTopic(t *testing.T) {
	b := New(testLogger())
	defer b.Close()

	sub := b.Subscribe(TopicStressResult)

	b.Publish(TopicTranscript, map[string]string{"text": "hello"})
	b.Publish(TopicStressResult, map[string]float64{"stress_score": 0.4})

	env := recvOne(t, sub)
	if env.Topic != TopicStressResult {
		t.Errorf("expected topic %q, got %q", TopicStressResult, env.Topic)
	}

	select {
	case env := <-sub.C():
		t.Errorf("unexpected second envelope on topic %q", env.Topic)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWildcardSeesAllTopics(t *testing.T) {
	b := New(testLogger())
	defer b.Close()

	sub := b.Subscribe(WildcardAll)

	topics := []string{TopicAudio, TopicTranscript, TopicRiskResult}
	for _, topic := range topics {
		b.Publish(topic, map[string]string{})
	}

	for _, want := range topics {
		env := recvOne(t, sub)
		if env.Topic != want {
			t.Errorf("expected topic %q, got %q", want, env.Topic)
		}
	}
}

func TestSlowSubscriberDropsWithoutBlocking(t *testing.T) {
	b := New(testLogger())
	defer b.Close()

	sub := b.SubscribeBuffered(TopicTranscript, 2)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.Publish(TopicTranscript, map[string]int{"seq": i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on a full subscriber")
	}

	// The two buffered envelopes are the earliest published; the rest were
	// dropped at the full buffer.
	first := recvOne(t, sub)
	var payload map[string]int
	if err := first.Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["seq"] != 0 {
		t.Errorf("expected seq 0 first, got %d", payload["seq"])
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	b := New(testLogger())
	sub := b.Subscribe(TopicAudio)

	sub.Cancel()
	sub.Cancel()

	if _, ok := <-sub.C(); ok {
		t.Error("expected closed channel after cancel")
	}

	b.Publish(TopicAudio, map[string]string{})
}

func TestNewEnvelopeFillsIdentity(t *testing.T) {
	env, err := NewEnvelope(TopicTranscript, map[string]string{"text": "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.ID == "" {
		t.Error("expected non-empty envelope ID")
	}
	if env.Topic != TopicTranscript {
		t.Errorf("expected topic %q, got %q", TopicTranscript, env.Topic)
	}
	if env.Timestamp.IsZero() {
		t.Error("expected non-zero timestamp")
	}
}

func TestDecodeEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		hasError bool
	}{
		{
			name:     "valid envelope",
			input:    `{"id":"abc","topic":"transcript","timestamp":"2026-08-31T12:00:00Z","data":{"text":"hi"}}`,
			hasError: false,
		},
		{
			name:     "missing id tolerated",
			input:    `{"topic":"transcript","timestamp":"2026-08-31T12:00:00Z","data":{}}`,
			hasError: false,
		},
		{
			name:     "missing topic rejected",
			input:    `{"id":"abc","timestamp":"2026-08-31T12:00:00Z","data":{}}`,
			hasError: true,
		},
		{
			name:     "not json",
			input:    `topic=transcript`,
			hasError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := DecodeEnvelope([]byte(tt.input))
			if tt.hasError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if env.Topic != TopicTranscript {
				t.Errorf("expected topic %q, got %q", TopicTranscript, env.Topic)
			}
		})
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	env, err := NewEnvelope(TopicRiskResult, map[string]any{"score": 0.5, "level": "medium"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := env.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !json.Valid(data) {
		t.Fatal("encoded envelope is not valid JSON")
	}

	got, err := DecodeEnvelope(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != env.ID || got.Topic != env.Topic {
		t.Errorf("round trip changed identity: %+v vs %+v", got, env)
	}
}
