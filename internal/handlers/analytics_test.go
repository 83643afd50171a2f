package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/lokaldigital/site-service/internal/store"
)

func newAnalyticsRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	st := newTestStore(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAnalyticsHandlers(st, testLogger()).Register(r.Group("/api"))
	return r, st
}

func TestPageView_Valid(t *testing.T) {
	r, st := newAnalyticsRouter(t)

	w := postJSON(t, r, "/api/analytics/pageview", map[string]any{
		"path":      "/de/services",
		"locale":    "de",
		"referrer":  "https://www.google.com/",
		"userAgent": "test-agent",
		"sessionId": "1724800000000-abc123xyz",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp createdResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.ID == "" {
		t.Fatalf("response = %+v", resp)
	}

	views, err := st.ListPageViews(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 1 || views[0].Path != "/de/services" {
		t.Errorf("stored views = %+v", views)
	}
}

func TestPageView_RequiredFields(t *testing.T) {
	r, _ := newAnalyticsRouter(t)

	cases := []struct {
		name    string
		payload map[string]any
		field   string
	}{
		{"missing path", map[string]any{"locale": "de"}, "path"},
		{"missing locale", map[string]any{"path": "/de"}, "locale"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, r, "/api/analytics/pageview", tc.payload)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", w.Code)
			}
			if fields := errorFields(t, w); !fields[tc.field] {
				t.Errorf("errors missing field %q: %v", tc.field, fields)
			}
		})
	}
}

func TestEvent_MinimalPayload(t *testing.T) {
	r, st := newAnalyticsRouter(t)

	w := postJSON(t, r, "/api/analytics/event", map[string]any{"eventType": "cta_click"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	events, err := st.ListEvents(context.Background(), "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].EventType != "cta_click" {
		t.Errorf("stored events = %+v", events)
	}
	if events[0].EventData != "" {
		t.Errorf("eventData = %q, want empty", events[0].EventData)
	}
}

func TestEvent_RequiresEventType(t *testing.T) {
	r, _ := newAnalyticsRouter(t)

	w := postJSON(t, r, "/api/analytics/event", map[string]any{
		"path":   "/en/contact",
		"locale": "en",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if fields := errorFields(t, w); !fields["eventType"] {
		t.Errorf("errors missing eventType: %v", fields)
	}
}

func TestEvent_OpaqueEventData(t *testing.T) {
	r, st := newAnalyticsRouter(t)

	w := postJSON(t, r, "/api/analytics/event", map[string]any{
		"eventType": "form_submission",
		"eventData": `{"form":"contact"}`,
		"path":      "/de/contact",
		"locale":    "de",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}

	events, err := st.ListEvents(context.Background(), "form_submission", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].EventData != `{"form":"contact"}` {
		t.Errorf("stored events = %+v", events)
	}
}

func TestPageView_UnknownLocaleAccepted(t *testing.T) {
	r, _ := newAnalyticsRouter(t)

	w := postJSON(t, r, "/api/analytics/pageview", map[string]any{
		"path":   "/fr",
		"locale": "fr",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}
