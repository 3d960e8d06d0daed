package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"taskdesk.org/internal/obs"
)

func TestRequestIDHeader(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	})
	h := RequestID(inner)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if seen == "" {
		t.Fatal("no request id in context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != seen {
		t.Errorf("X-Request-ID header = %q, context = %q", got, seen)
	}

	// A caller-provided id is preserved.
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-12345")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "req-12345" {
		t.Errorf("context request id = %q, want req-12345", seen)
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := newTestAPI(t).Handler()
	rec := doJSON(t, h, http.MethodGet, "/healthz", "", nil)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestAPI(t).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/v1/tasks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestRateLimitExceeded(t *testing.T) {
	codecAPI := newTestAPI(t)
	codecAPI.rateLimit = RateLimitConfig{Burst: 2, PerSecond: 1}
	h := codecAPI.Handler()

	var last *httptest.ResponseRecorder
	limited := false
	for i := 0; i < 10; i++ {
		last = doJSON(t, h, http.MethodGet, "/healthz", "", nil)
		if last.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Fatal("rate limiter never tripped")
	}
	if got := last.Header().Get("Retry-After"); got != "1" {
		t.Errorf("Retry-After = %q, want 1", got)
	}
	var body map[string]any
	if err := json.Unmarshal(last.Body.Bytes(), &body); err != nil {
		t.Fatalf("429 body is not JSON: %s", last.Body.String())
	}
	if body["error"] != "rate limit exceeded" {
		t.Errorf("error = %v", body["error"])
	}
	if _, ok := body["request_id"]; !ok {
		t.Error("429 body has no request_id")
	}
}

func TestRateLimitIsPerClient(t *testing.T) {
	api := newTestAPI(t)
	api.rateLimit = RateLimitConfig{Burst: 1, PerSecond: 1}
	h := api.Handler()

	send := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	// Exhaust the first client's bucket.
	send("198.51.100.1:1000")
	if code := send("198.51.100.1:1000"); code != http.StatusTooManyRequests {
		t.Fatalf("second request from same ip: status = %d, want 429", code)
	}

	// Other clients each get their own bucket.
	for i := 2; i < 6; i++ {
		remote := fmt.Sprintf("198.51.100.%d:1000", i)
		if code := send(remote); code != http.StatusOK {
			t.Errorf("fresh client %s: status = %d, want 200", remote, code)
		}
	}
}

func TestLoggingJSONEntry(t *testing.T) {
	var buf bytes.Buffer
	obs.Logger().SetOutput(&buf)
	defer obs.Logger().SetOutput(os.Stdout)

	h := newTestAPI(t).Handler()
	doJSON(t, h, http.MethodGet, "/healthz", "", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	var entry map[string]any
	if err := json.Unmarshal([]byte(last), &entry); err != nil {
		t.Fatalf("log line is not JSON: %s", last)
	}
	for _, key := range []string{"ts", "level", "msg", "request_id", "method", "path", "status", "duration_ms"} {
		if _, ok := entry[key]; !ok {
			t.Errorf("log entry missing %q: %s", key, last)
		}
	}
	if entry["msg"] != "request_complete" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["path"] != "/healthz" {
		t.Errorf("path = %v", entry["path"])
	}
}

func TestMaxBodyBytes(t *testing.T) {
	h := newTestAPI(t).Handler()
	token := login(t, h, "owner@demo.com", "Owner123!")

	big := make([]byte, 2<<20)
	for i := range big {
		big[i] = 'a'
	}
	rec := doJSON(t, h, http.MethodPost, "/v1/tasks", token, map[string]string{
		"title":       "oversized",
		"description": string(big),
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("oversized body: status = %d, want 400", rec.Code)
	}
}
