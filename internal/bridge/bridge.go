// Package bridge mirrors the in-process bus over NATS so producers and
// consumers in other processes can join the pipeline. Each bus topic maps
// to the subject "anchor.<topic>"; inbound subjects feed the bus, outbound
// results are re-published verbatim.
package bridge

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/anchorwatch/anchor/internal/bus"
	"github.com/anchorwatch/anchor/internal/metrics"
)

const subjectPrefix = "anchor."

// inboundTopics are fed from NATS into the bus; outboundTopics flow the
// other way. A topic never appears in both lists, so the bridge cannot
// echo its own traffic.
var (
	inboundTopics  = []string{bus.TopicAudio, bus.TopicTranscript}
	outboundTopics = []string{bus.TopicStressResult, bus.TopicTacticResult, bus.TopicRiskResult}
)

// Bridge connects one bus to one NATS server.
type Bridge struct {
	conn   *nats.Conn
	bus    *bus.Bus
	subs   []*nats.Subscription
	cancel []*bus.Subscription
	logger *slog.Logger
}

// New connects to NATS and starts mirroring in both directions. The
// connection retries in the background, so a late-starting server is fine.
func New(url, token string, b *bus.Bus, logger *slog.Logger) (*Bridge, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	br := &Bridge{conn: nc, bus: b, logger: logger}

	for _, topic := range inboundTopics {
		if err := br.subscribeInbound(topic); err != nil {
			br.Close()
			return nil, err
		}
	}
	for _, topic := range outboundTopics {
		br.forwardOutbound(topic)
	}

	logger.Info("nats bridge started", "url", url)
	return br, nil
}

func (br *Bridge) subscribeInbound(topic string) error {
	subject := subjectPrefix + topic
	sub, err := br.conn.Subscribe(subject, func(msg *nats.Msg) {
		env, err := bus.DecodeEnvelope(msg.Data)
		if err != nil {
			br.logger.Warn("dropping malformed inbound message",
				"subject", msg.Subject, "error", err)
			return
		}
		// The subject, not the embedded topic, decides routing; a producer
		// publishing a transcript envelope on anchor.audio stays on audio.
		env.Topic = topic
		br.bus.PublishEnvelope(env)
		metrics.Default.RecordBridge("inbound")
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	br.subs = append(br.subs, sub)
	return nil
}

func (br *Bridge) forwardOutbound(topic string) {
	sub := br.bus.Subscribe(topic)
	br.cancel = append(br.cancel, sub)

	go func() {
		subject := subjectPrefix + topic
		for env := range sub.C() {
			data, err := env.Encode()
			if err != nil {
				br.logger.Warn("encode outbound envelope", "topic", topic, "error", err)
				continue
			}
			if err := br.conn.Publish(subject, data); err != nil {
				br.logger.Warn("publish outbound", "subject", subject, "error", err)
				continue
			}
			metrics.Default.RecordBridge("outbound")
		}
	}()
}

// Close stops both directions and drops the connection.
func (br *Bridge) Close() {
	for _, sub := range br.subs {
		_ = sub.Unsubscribe()
	}
	for _, sub := range br.cancel {
		sub.Cancel()
	}
	br.conn.Close()
}
