package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anchorwatch/anchor/internal/risk"
	"github.com/anchorwatch/anchor/internal/session"
)

func testRegistry() *session.Registry {
	return session.NewRegistry(session.Config{
		MinWords:           8,
		TriggerInterval:    5 * time.Second,
		WindowChunks:       5,
		HistoryCapacity:    3,
		EscalationDelta:    0.2,
		DurationBonusAfter: 5 * time.Minute,
		DurationBonus:      0.05,
	}, 30*time.Minute)
}

func TestHealthEndpoint(t *testing.T) {
	srv := NewServer(8780, testRegistry())

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	registry := testRegistry()
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	st := registry.Get("call-1", now)
	st.Mu.Lock()
	st.Window.Add("hello there", now)
	st.LastAssessment = &risk.Assessment{
		SessionID: "call-1",
		Score:     0.45,
		Level:     risk.LevelMedium,
	}
	st.Mu.Unlock()

	srv := NewServer(8780, registry)

	req := httptest.NewRequest("GET", "/api/v1/anchor/status", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body struct {
		Service  string          `json:"service"`
		Count    int             `json:"count"`
		Sessions []SessionStatus `json:"sessions"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Service != "anchor" {
		t.Errorf("expected service anchor, got %q", body.Service)
	}
	if body.Count != 1 || len(body.Sessions) != 1 {
		t.Fatalf("expected 1 session, got %+v", body)
	}
	got := body.Sessions[0]
	if got.ID != "call-1" {
		t.Errorf("expected session call-1, got %q", got.ID)
	}
	if got.BufferedWords != 2 {
		t.Errorf("expected 2 buffered words, got %d", got.BufferedWords)
	}
	if got.LastAssessment == nil || got.LastAssessment.Level != risk.LevelMedium {
		t.Errorf("expected last assessment carried, got %+v", got.LastAssessment)
	}
}

func TestStatusEndpoint_Empty(t *testing.T) {
	srv := NewServer(8780, testRegistry())

	req := httptest.NewRequest("GET", "/api/v1/anchor/status", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	var body struct {
		Count    int               `json:"count"`
		Sessions []json.RawMessage `json:"sessions"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Count != 0 || len(body.Sessions) != 0 {
		t.Errorf("expected empty status, got %+v", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := NewServer(8780, testRegistry())

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestNotFoundEndpoint(t *testing.T) {
	srv := NewServer(8780, testRegistry())

	req := httptest.NewRequest("GET", "/nonexistent", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
