// anchorfeed reads transcript lines from stdin and publishes them to the
// engine over NATS, one final chunk per line. Useful for replaying saved
// call transcripts against a running engine.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/anchorwatch/anchor/internal/bus"
	"github.com/anchorwatch/anchor/internal/engine"
)

func main() {
	url := flag.String("nats", nats.DefaultURL, "NATS server URL")
	token := flag.String("token", "", "NATS auth token")
	sessionID := flag.String("session", "replay", "session identifier")
	delay := flag.Duration("delay", 0, "pause between lines")
	flag.Parse()

	opts := []nats.Option{}
	if *token != "" {
		opts = append(opts, nats.Token(*token))
	}
	nc, err := nats.Connect(*url, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nats connect: %v\n", err)
		os.Exit(1)
	}
	defer nc.Close()

	subject := "anchor." + bus.TopicTranscript

	scanner := bufio.NewScanner(os.Stdin)
	sent := 0
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		env, err := bus.NewEnvelope(bus.TopicTranscript, engine.TranscriptPayload{
			SessionID: *sessionID,
			Text:      text,
			IsFinal:   true,
			Timestamp: time.Now().UTC(),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "build envelope: %v\n", err)
			os.Exit(1)
		}
		data, err := env.Encode()
		if err != nil {
			fmt.Fprintf(os.Stderr, "encode envelope: %v\n", err)
			os.Exit(1)
		}
		if err := nc.Publish(subject, data); err != nil {
			fmt.Fprintf(os.Stderr, "publish: %v\n", err)
			os.Exit(1)
		}
		sent++

		if *delay > 0 {
			time.Sleep(*delay)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "read stdin: %v\n", err)
		os.Exit(1)
	}

	if err := nc.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "flush: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("published %d chunks to %s\n", sent, subject)
}
