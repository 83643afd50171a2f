package analytics

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type capture struct {
	mu       sync.Mutex
	requests []map[string]any
	paths    []string
}

func captureServer(t *testing.T, rec *capture) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		rec.mu.Lock()
		rec.requests = append(rec.requests, body)
		rec.paths = append(rec.paths, r.URL.Path)
		rec.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"success":true,"id":"rec-1"}`)
	}))
}

func TestTrackPageview_DedupesRepeatedPath(t *testing.T) {
	var rec capture
	server := captureServer(t, &rec)
	defer server.Close()

	c := New(server.URL, testLogger())
	c.TrackPageview("/de", "de", "", "test-agent")
	c.TrackPageview("/de", "de", "", "test-agent") // re-render, no navigation
	c.TrackPageview("/de/contact", "de", "", "test-agent")
	c.TrackPageview("/de", "de", "", "test-agent") // genuine back-navigation
	c.Flush()

	if len(rec.requests) != 3 {
		t.Fatalf("requests = %d, want 3", len(rec.requests))
	}
	for _, p := range rec.paths {
		if p != "/api/analytics/pageview" {
			t.Errorf("posted to %s", p)
		}
	}
}

func TestSessionID_StableAcrossCalls(t *testing.T) {
	var rec capture
	server := captureServer(t, &rec)
	defer server.Close()

	c := New(server.URL, testLogger())
	c.TrackPageview("/en", "en", "", "")
	c.TrackEvent("cta_click", nil, "/en", "en")
	c.Flush()

	if len(rec.requests) != 2 {
		t.Fatalf("requests = %d, want 2", len(rec.requests))
	}
	first, _ := rec.requests[0]["sessionId"].(string)
	second, _ := rec.requests[1]["sessionId"].(string)
	if first == "" || first != second {
		t.Errorf("session ids %q and %q, want one stable non-empty id", first, second)
	}
	if !strings.Contains(first, "-") {
		t.Errorf("session id %q missing timestamp-suffix separator", first)
	}
}

func TestTrackEvent_SerializesEventData(t *testing.T) {
	var rec capture
	server := captureServer(t, &rec)
	defer server.Close()

	c := New(server.URL, testLogger())
	c.TrackEvent("form_submission", map[string]any{"form": "contact", "fields": 9}, "/de/contact", "de")
	c.Flush()

	if len(rec.requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(rec.requests))
	}
	raw, ok := rec.requests[0]["eventData"].(string)
	if !ok {
		t.Fatalf("eventData is %T, want opaque string", rec.requests[0]["eventData"])
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		t.Fatalf("eventData not valid JSON text: %v", err)
	}
	if decoded["form"] != "contact" {
		t.Errorf("eventData = %v", decoded)
	}
}

func TestTrackEvent_WithoutDataOmitsField(t *testing.T) {
	var rec capture
	server := captureServer(t, &rec)
	defer server.Close()

	c := New(server.URL, testLogger())
	c.TrackEvent("language_switch", nil, "/en", "en")
	c.Flush()

	if _, present := rec.requests[0]["eventData"]; present {
		t.Error("eventData sent for nil payload")
	}
}

// Transport failures must be invisible to the caller.
func TestFireAndForget_UnreachableServer(t *testing.T) {
	c := New("http://127.0.0.1:1", testLogger())
	c.TrackPageview("/de", "de", "", "")
	c.TrackEvent("cta_click", nil, "/de", "de")
	c.Flush()
}
