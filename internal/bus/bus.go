// Package bus provides the in-process publish/subscribe transport connecting
// pipeline stages. Publishing is fire-and-forget: it never blocks and never
// fails the caller, even with zero subscribers. A subscriber that cannot keep
// up loses messages from its own buffer; it never slows the publisher down.
package bus

import (
	"log/slog"
	"sync"

	"github.com/anchorwatch/anchor/internal/metrics"
)

// WildcardAll subscribes to every topic.
const WildcardAll = "*"

const defaultBuffer = 64

// Bus is a topic-addressed pub/sub hub. Delivery order is preserved per
// publisher/subscriber pair; no message is retained after delivery.
type Bus struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	logger *slog.Logger
}

// Subscription is one subscriber's view of the bus. Envelopes arrive on C
// in publish order until Cancel is called, which closes the channel.
type Subscription struct {
	pattern string
	ch      chan Envelope
	bus     *Bus
	once    sync.Once
}

// C returns the envelope stream for this subscription.
func (s *Subscription) C() <-chan Envelope { return s.ch }

// Cancel detaches the subscription and closes its channel. Idempotent.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s)
		s.bus.mu.Unlock()
		close(s.ch)
	})
}

func (s *Subscription) matches(topic string) bool {
	return s.pattern == WildcardAll || s.pattern == topic
}

// New creates an empty bus.
func New(logger *slog.Logger) *Bus {
	return &Bus{
		subs:   make(map[*Subscription]struct{}),
		logger: logger,
	}
}

// Subscribe registers for envelopes whose topic equals pattern, or for all
// topics when pattern is WildcardAll. The default buffer holds 64 envelopes.
func (b *Bus) Subscribe(pattern string) *Subscription {
	return b.SubscribeBuffered(pattern, defaultBuffer)
}

// SubscribeBuffered is Subscribe with an explicit buffer size. When the
// buffer is full, further envelopes for this subscriber are dropped.
func (b *Bus) SubscribeBuffered(pattern string, buffer int) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	sub := &Subscription{
		pattern: pattern,
		ch:      make(chan Envelope, buffer),
		bus:     b,
	}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Publish wraps payload in an envelope and delivers it to every matching
// subscriber connected right now. Messages without subscribers are silently
// dropped. Marshal failures are logged and swallowed — by contract the
// publisher is never failed.
func (b *Bus) Publish(topic string, payload any) {
	env, err := NewEnvelope(topic, payload)
	if err != nil {
		b.logger.Error("publish dropped: unmarshalable payload", "topic", topic, "error", err)
		return
	}
	b.PublishEnvelope(env)
}

// PublishEnvelope delivers an already-built envelope, e.g. one re-injected
// by the NATS bridge.
func (b *Bus) PublishEnvelope(env Envelope) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs {
		if !sub.matches(env.Topic) {
			continue
		}
		select {
		case sub.ch <- env:
			metrics.Default.RecordPublish(env.Topic)
		default:
			metrics.Default.RecordDrop(env.Topic)
			b.logger.Debug("subscriber buffer full, envelope dropped",
				"topic", env.Topic, "pattern", sub.pattern)
		}
	}
}

// Close cancels every subscription.
func (b *Bus) Close() {
	b.mu.Lock()
	subs := make([]*Subscription, 0, len(b.subs))
	for sub := range b.subs {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
}
