// Package analytics is a fire-and-forget client for the ingestion API.
// Tracking must never slow down or break the caller: every call posts
// in the background, and transport failures end as log lines.
package analytics

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"
)

const sessionAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Client emits pageviews and events to the ingestion API. A single
// Client models one session: the session identifier is created lazily
// on first use and attached to every record after that.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger

	mu        sync.Mutex
	sessionID string
	lastPath  string

	inflight sync.WaitGroup
}

// New builds a client for the ingestion API at baseURL.
func New(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
		logger:  logger,
	}
}

// TrackPageview records a navigation. A pageview only fires when path
// differs from the immediately previous tracked path, which guards
// against redundant fires without real navigation; genuine
// back-and-forth repeats are tracked again.
func (c *Client) TrackPageview(path, locale, referrer, userAgent string) {
	c.mu.Lock()
	if path == c.lastPath {
		c.mu.Unlock()
		return
	}
	c.lastPath = path
	session := c.session()
	c.mu.Unlock()

	c.post("/api/analytics/pageview", map[string]any{
		"path":      path,
		"locale":    locale,
		"referrer":  referrer,
		"userAgent": userAgent,
		"sessionId": session,
	})
}

// TrackEvent records a user action. eventData, when present, is
// serialized to an opaque string; the server never interprets it.
func (c *Client) TrackEvent(eventType string, eventData map[string]any, path, locale string) {
	body := map[string]any{
		"eventType": eventType,
		"path":      path,
		"locale":    locale,
		"sessionId": c.currentSession(),
	}
	if eventData != nil {
		data, err := json.Marshal(eventData)
		if err != nil {
			c.logger.Error("analytics: event data not serializable", "event_type", eventType, "error", err)
			return
		}
		body["eventData"] = string(data)
	}
	c.post("/api/analytics/event", body)
}

// Flush waits for every in-flight post to finish. The posts stay
// detached; this only exists so shutdown paths and tests can join
// them.
func (c *Client) Flush() {
	c.inflight.Wait()
}

func (c *Client) currentSession() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session()
}

// session lazily creates the session identifier: unix millis plus a
// random suffix. Callers must hold mu.
func (c *Client) session() string {
	if c.sessionID == "" {
		c.sessionID = fmt.Sprintf("%d-%s", time.Now().UnixMilli(), randomSuffix(9))
	}
	return c.sessionID
}

func randomSuffix(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(sessionAlphabet))))
		if err != nil {
			// crypto/rand failing is effectively fatal elsewhere; for
			// an analytics correlation key a clock-derived digit will do.
			b.WriteByte(sessionAlphabet[time.Now().Nanosecond()%len(sessionAlphabet)])
			continue
		}
		b.WriteByte(sessionAlphabet[idx.Int64()])
	}
	return b.String()
}

// post sends the payload in a detached goroutine. Failures of any kind
// are logged and dropped; there are no retries.
func (c *Client) post(path string, payload map[string]any) {
	body, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("analytics: encode failed", "path", path, "error", err)
		return
	}

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()

		resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(body))
		if err != nil {
			c.logger.Error("analytics: post failed", "path", path, "error", err)
			return
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			c.logger.Error("analytics: post rejected", "path", path, "status", resp.StatusCode)
		}
	}()
}
