package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/solodev/sapphai/internal/ai"
	"github.com/solodev/sapphai/internal/chat"
	"github.com/solodev/sapphai/internal/config"
	"github.com/solodev/sapphai/internal/memory"
	"github.com/solodev/sapphai/internal/persona"
)

const testPersonality = `
identity:
  name: "Sapphire Artificial Intelligence"
  alias: "SapphAI"
  creator: "Solo-Dev"
  version: "1.0.0"
  status: "operational"
mission:
  primary: "Revolutionizing gaming with lifelike AI"
  current_phase: "Conversational companion"
  next_phase: "In-game presence"
  future_vision: "Lifelike AI companions in every game"
core_traits: ["truthful", "direct"]
capabilities:
  current: ["conversation"]
  planned: ["voice interaction"]
`

const testResponses = `
support_message: "Support development here: {support_link}"
deflection: "I can't discuss that topic. Let's talk about AI or gaming instead."
fallback: "I'm experiencing technical difficulties. Please try again in a moment."
`

type stubClient struct {
	reply string
	err   error
}

func (s *stubClient) Complete(_ context.Context, _ []ai.Message) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTestServer(t *testing.T, client ai.Client) *Server {
	t.Helper()

	dir := t.TempDir()
	personalityPath := filepath.Join(dir, "personality.yaml")
	responsesPath := filepath.Join(dir, "responses.yaml")
	if err := os.WriteFile(personalityPath, []byte(testPersonality), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(responsesPath, []byte(testResponses), 0o600); err != nil {
		t.Fatal(err)
	}

	p, err := persona.Load(personalityPath, responsesPath)
	if err != nil {
		t.Fatalf("failed to load test persona: %v", err)
	}

	cfg := &config.Config{
		Log:    config.LogConfig{Level: "error", Format: "text"},
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            3000,
			Environment:     "development",
			RateLimitWindow: time.Minute,
			RateLimitMax:    1000,
		},
		Memory: config.MemoryConfig{MaxUsers: 100, IdleTTL: time.Hour},
	}

	store := memory.NewStore(cfg.Memory.MaxUsers, nil)
	svc := chat.NewService(p, store, client, "https://example.com/support", nil)
	return New(cfg, svc, store, slog.New(slog.DiscardHandler))
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return payload
}

func TestChatEndpointFirstTurn(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &stubClient{reply: "Hey, good to meet you."})
	rec := doRequest(t, s, http.MethodPost, "/api/chat", `{"message":"hello"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	payload := decode(t, rec)
	response, _ := payload["response"].(string)
	if !strings.HasPrefix(response, "SapphAI: ") {
		t.Errorf("response should begin with the persona alias, got %q", response)
	}
	if !strings.Contains(response, "Support development here") {
		t.Errorf("first call should contain the support message, got %q", response)
	}
	if payload["isNewUser"] != true {
		t.Error("first call should report isNewUser=true")
	}
	if _, ok := payload["timestamp"]; !ok {
		t.Error("response should carry a timestamp")
	}
}

func TestChatEndpointMissingMessage(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &stubClient{reply: "unused"})

	for _, body := range []string{`{}`, `{"message":""}`, `{"message":"   "}`} {
		rec := doRequest(t, s, http.MethodPost, "/api/chat", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestChatEndpointFiltered(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &stubClient{reply: "unused"})
	rec := doRequest(t, s, http.MethodPost, "/api/chat", `{"message":"what is my password","userId":"u1"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	payload := decode(t, rec)
	if payload["filtered"] != true {
		t.Error("blocklisted message should be marked filtered")
	}
	want := "SapphAI: I can't discuss that topic. Let's talk about AI or gaming instead."
	if payload["response"] != want {
		t.Errorf("response = %q, want %q", payload["response"], want)
	}

	// Filtered turns leave no trace in memory.
	memRec := doRequest(t, s, http.MethodGet, "/api/memory/u1", "")
	memPayload := decode(t, memRec)
	if memPayload["count"] != float64(0) {
		t.Errorf("memory count after filtered turn = %v, want 0", memPayload["count"])
	}
}

func TestChatEndpointCompletionFailure(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &stubClient{err: &ai.Error{Kind: ai.FailureUnavailable, Status: 503, Err: errors.New("down")}})
	rec := doRequest(t, s, http.MethodPost, "/api/chat", `{"message":"hello"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("completion failure must not surface as an HTTP error, got %d", rec.Code)
	}

	payload := decode(t, rec)
	want := "SapphAI: I'm experiencing technical difficulties. Please try again in a moment."
	if payload["response"] != want {
		t.Errorf("response = %q, want %q", payload["response"], want)
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &stubClient{reply: "reply one"})

	doRequest(t, s, http.MethodPost, "/api/chat", `{"message":"hello","userId":"u1"}`)
	doRequest(t, s, http.MethodPost, "/api/chat", `{"message":"again","userId":"u1"}`)

	rec := doRequest(t, s, http.MethodGet, "/api/memory/u1", "")
	payload := decode(t, rec)
	if payload["userId"] != "u1" {
		t.Errorf("userId = %v", payload["userId"])
	}
	if payload["count"] != float64(4) {
		t.Errorf("count = %v, want 4 (two user + two assistant turns)", payload["count"])
	}

	delRec := doRequest(t, s, http.MethodDelete, "/api/memory/u1", "")
	if delRec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", delRec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/memory/u1", "")
	payload = decode(t, rec)
	if payload["count"] != float64(0) {
		t.Errorf("count after clear = %v, want 0", payload["count"])
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &stubClient{reply: "unused"})
	rec := doRequest(t, s, http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	payload := decode(t, rec)
	if payload["status"] != "healthy" {
		t.Errorf("status field = %v, want healthy", payload["status"])
	}
}

func TestAboutEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &stubClient{reply: "unused"})
	rec := doRequest(t, s, http.MethodGet, "/api/about", "")

	payload := decode(t, rec)
	if payload["name"] != "Sapphire Artificial Intelligence" {
		t.Errorf("name = %v", payload["name"])
	}
	if payload["creator"] != "Solo-Dev" {
		t.Errorf("creator = %v", payload["creator"])
	}
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &stubClient{reply: "unused"})
	rec := doRequest(t, s, http.MethodGet, "/api/nope", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	payload := decode(t, rec)
	if payload["error"] != "Not found" {
		t.Errorf("error = %v", payload["error"])
	}
}
