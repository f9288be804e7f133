package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full engine configuration. Defaults come from the scoring
// contract; a YAML file and environment variables may override any field.
type Config struct {
	Port      int
	NatsURL   string
	NatsToken string
	LogLevel  string

	EmbedServiceURL  string
	SubscriberBuffer int
	SessionTTL       time.Duration

	TriggerInterval    time.Duration
	MinWords           int
	WindowChunks       int
	HistoryCapacity    int
	EscalationDelta    float64
	DurationBonusAfter time.Duration
	DurationBonus      float64
	SimilarityRelevant float64
	SimilarityStrong   float64
	MediumThreshold    float64
	HighThreshold      float64
	ExtractorTimeout   time.Duration
}

// fileConfig is the YAML file shape. Durations are Go duration strings
// ("5s", "30m"); absent fields leave the default untouched.
type fileConfig struct {
	Port      *int    `yaml:"port"`
	NatsURL   *string `yaml:"nats_url"`
	NatsToken *string `yaml:"nats_token"`
	LogLevel  *string `yaml:"log_level"`

	EmbedServiceURL  *string `yaml:"embed_service_url"`
	SubscriberBuffer *int    `yaml:"subscriber_buffer"`
	SessionTTL       *string `yaml:"session_ttl"`

	TriggerInterval    *string  `yaml:"trigger_interval"`
	MinWords           *int     `yaml:"min_words"`
	WindowChunks       *int     `yaml:"window_chunks"`
	HistoryCapacity    *int     `yaml:"history_capacity"`
	EscalationDelta    *float64 `yaml:"escalation_delta"`
	DurationBonusAfter *string  `yaml:"duration_bonus_after"`
	DurationBonus      *float64 `yaml:"duration_bonus"`
	SimilarityRelevant *float64 `yaml:"similarity_relevant"`
	SimilarityStrong   *float64 `yaml:"similarity_strong"`
	MediumThreshold    *float64 `yaml:"medium_threshold"`
	HighThreshold      *float64 `yaml:"high_threshold"`
	ExtractorTimeout   *string  `yaml:"extractor_timeout"`
}

func (fc fileConfig) apply(cfg *Config) error {
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setDur := func(dst *time.Duration, src *string) error {
		if src == nil {
			return nil
		}
		d, err := time.ParseDuration(*src)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", *src, err)
		}
		*dst = d
		return nil
	}

	setInt(&cfg.Port, fc.Port)
	setStr(&cfg.NatsURL, fc.NatsURL)
	setStr(&cfg.NatsToken, fc.NatsToken)
	setStr(&cfg.LogLevel, fc.LogLevel)
	setStr(&cfg.EmbedServiceURL, fc.EmbedServiceURL)
	setInt(&cfg.SubscriberBuffer, fc.SubscriberBuffer)
	setInt(&cfg.MinWords, fc.MinWords)
	setInt(&cfg.WindowChunks, fc.WindowChunks)
	setInt(&cfg.HistoryCapacity, fc.HistoryCapacity)
	setFloat(&cfg.EscalationDelta, fc.EscalationDelta)
	setFloat(&cfg.DurationBonus, fc.DurationBonus)
	setFloat(&cfg.SimilarityRelevant, fc.SimilarityRelevant)
	setFloat(&cfg.SimilarityStrong, fc.SimilarityStrong)
	setFloat(&cfg.MediumThreshold, fc.MediumThreshold)
	setFloat(&cfg.HighThreshold, fc.HighThreshold)

	for _, p := range []struct {
		dst *time.Duration
		src *string
	}{
		{&cfg.SessionTTL, fc.SessionTTL},
		{&cfg.TriggerInterval, fc.TriggerInterval},
		{&cfg.DurationBonusAfter, fc.DurationBonusAfter},
		{&cfg.ExtractorTimeout, fc.ExtractorTimeout},
	} {
		if err := setDur(p.dst, p.src); err != nil {
			return err
		}
	}
	return nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:      8780,
		NatsURL:   "",
		NatsToken: "",
		LogLevel:  "info",

		EmbedServiceURL:  "",
		SubscriberBuffer: 64,
		SessionTTL:       30 * time.Minute,

		TriggerInterval:    5 * time.Second,
		MinWords:           8,
		WindowChunks:       5,
		HistoryCapacity:    3,
		EscalationDelta:    0.2,
		DurationBonusAfter: 5 * time.Minute,
		DurationBonus:      0.05,
		SimilarityRelevant: 0.45,
		SimilarityStrong:   0.6,
		MediumThreshold:    0.3,
		HighThreshold:      0.6,
		ExtractorTimeout:   2 * time.Second,
	}
}

// Load builds the configuration: defaults, then the optional YAML file named
// by ANCHOR_CONFIG (or config/anchor.yaml if present), then env overrides.
func Load() (Config, error) {
	cfg := Defaults()

	path := os.Getenv("ANCHOR_CONFIG")
	if path == "" {
		if _, err := os.Stat("config/anchor.yaml"); err == nil {
			path = "config/anchor.yaml"
		}
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file %s: %w", path, err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
		if err := fc.apply(&cfg); err != nil {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	var env envReader
	cfg.Port = env.intVal("ANCHOR_PORT", cfg.Port)
	cfg.NatsURL = envStr("NATS_URL", cfg.NatsURL)
	cfg.NatsToken = envStr("NATS_TOKEN", cfg.NatsToken)
	cfg.LogLevel = envStr("LOG_LEVEL", cfg.LogLevel)

	cfg.EmbedServiceURL = envStr("ANCHOR_EMBED_URL", cfg.EmbedServiceURL)
	cfg.SubscriberBuffer = env.intVal("ANCHOR_SUB_BUFFER", cfg.SubscriberBuffer)
	cfg.SessionTTL = env.durVal("ANCHOR_SESSION_TTL", cfg.SessionTTL)

	cfg.TriggerInterval = env.durVal("ANCHOR_TRIGGER_INTERVAL", cfg.TriggerInterval)
	cfg.MinWords = env.intVal("ANCHOR_MIN_WORDS", cfg.MinWords)
	cfg.WindowChunks = env.intVal("ANCHOR_WINDOW_CHUNKS", cfg.WindowChunks)
	cfg.HistoryCapacity = env.intVal("ANCHOR_HISTORY_CAPACITY", cfg.HistoryCapacity)
	cfg.EscalationDelta = env.floatVal("ANCHOR_ESCALATION_DELTA", cfg.EscalationDelta)
	cfg.DurationBonusAfter = env.durVal("ANCHOR_DURATION_BONUS_AFTER", cfg.DurationBonusAfter)
	cfg.DurationBonus = env.floatVal("ANCHOR_DURATION_BONUS", cfg.DurationBonus)
	cfg.SimilarityRelevant = env.floatVal("ANCHOR_SIMILARITY_RELEVANT", cfg.SimilarityRelevant)
	cfg.SimilarityStrong = env.floatVal("ANCHOR_SIMILARITY_STRONG", cfg.SimilarityStrong)
	cfg.MediumThreshold = env.floatVal("ANCHOR_MEDIUM_THRESHOLD", cfg.MediumThreshold)
	cfg.HighThreshold = env.floatVal("ANCHOR_HIGH_THRESHOLD", cfg.HighThreshold)
	cfg.ExtractorTimeout = env.durVal("ANCHOR_EXTRACTOR_TIMEOUT", cfg.ExtractorTimeout)

	if env.err != nil {
		return cfg, env.err
	}
	return cfg, nil
}

// Validate rejects out-of-domain values. Threshold correctness is the whole
// contract, so any failure here is fatal at startup.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.TriggerInterval <= 0 {
		return fmt.Errorf("trigger interval must be positive, got %s", c.TriggerInterval)
	}
	if c.MinWords < 1 {
		return fmt.Errorf("min words must be at least 1, got %d", c.MinWords)
	}
	if c.WindowChunks < 1 {
		return fmt.Errorf("window chunks must be at least 1, got %d", c.WindowChunks)
	}
	if c.HistoryCapacity < 1 {
		return fmt.Errorf("history capacity must be at least 1, got %d", c.HistoryCapacity)
	}
	if c.EscalationDelta <= 0 || c.EscalationDelta > 1 {
		return fmt.Errorf("escalation delta out of (0,1]: %f", c.EscalationDelta)
	}
	if c.DurationBonusAfter <= 0 {
		return fmt.Errorf("duration bonus threshold must be positive, got %s", c.DurationBonusAfter)
	}
	if c.DurationBonus < 0 || c.DurationBonus > 1 {
		return fmt.Errorf("duration bonus out of [0,1]: %f", c.DurationBonus)
	}
	if !in01(c.SimilarityRelevant) || !in01(c.SimilarityStrong) {
		return fmt.Errorf("similarity thresholds out of [0,1]: relevant=%f strong=%f",
			c.SimilarityRelevant, c.SimilarityStrong)
	}
	if c.SimilarityRelevant >= c.SimilarityStrong {
		return fmt.Errorf("similarity relevant (%f) must be below strong (%f)",
			c.SimilarityRelevant, c.SimilarityStrong)
	}
	if !in01(c.MediumThreshold) || !in01(c.HighThreshold) {
		return fmt.Errorf("level thresholds out of [0,1]: medium=%f high=%f",
			c.MediumThreshold, c.HighThreshold)
	}
	if c.MediumThreshold >= c.HighThreshold {
		return fmt.Errorf("medium threshold (%f) must be below high (%f)",
			c.MediumThreshold, c.HighThreshold)
	}
	if c.ExtractorTimeout <= 0 {
		return fmt.Errorf("extractor timeout must be positive, got %s", c.ExtractorTimeout)
	}
	if c.SubscriberBuffer < 1 {
		return fmt.Errorf("subscriber buffer must be at least 1, got %d", c.SubscriberBuffer)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.SessionTTL)
	}
	return nil
}

func in01(v float64) bool { return v >= 0 && v <= 1 }

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envReader parses typed environment overrides and keeps the first parse
// failure. A malformed threshold must fail the load, not silently fall back
// to a default the operator did not choose.
type envReader struct {
	err error
}

func (r *envReader) fail(key, value string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
}

func (r *envReader) intVal(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, v, err)
		return fallback
	}
	return n
}

func (r *envReader) floatVal(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(key, v, err)
		return fallback
	}
	return f
}

func (r *envReader) durVal(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, v, err)
		return fallback
	}
	return d
}
