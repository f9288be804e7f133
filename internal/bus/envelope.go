package bus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Topic constants — one per pipeline stage. These are fixed deployment-time
// contracts between producers and consumers, not data.
const (
	TopicAudio        = "audio"
	TopicTranscript   = "transcript"
	TopicStressResult = "stress-result"
	TopicTacticResult = "tactic-result"
	TopicRiskResult   = "risk-result"
)

// Envelope is the unit exchanged on the bus: a topic, a JSON payload, and a
// publish timestamp. Immutable once published.
type Envelope struct {
	ID        string          `json:"id"`
	Topic     string          `json:"topic"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEnvelope wraps payload in an envelope stamped with a fresh ID and the
// current UTC time.
func NewEnvelope(topic string, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal payload: %w", err)
	}
	return Envelope{
		ID:        uuid.NewString(),
		Topic:     topic,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}, nil
}

// Encode serializes the envelope to its wire form.
func (e Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Decode unmarshals the envelope payload into v.
func (e Envelope) Decode(v any) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Topic, err)
	}
	return nil
}

// DecodeEnvelope parses a wire-form envelope. Producers written before the
// envelope carried an ID omit it; that is accepted.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if e.Topic == "" {
		return Envelope{}, fmt.Errorf("decode envelope: missing topic")
	}
	return e, nil
}
