// Package notify delivers lead-notification emails. Delivery is a
// side-channel: lead capture already succeeded by the time a mailer
// runs, so every failure here ends as a log line and a false return,
// never as an error the submitter can see.
package notify

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lokaldigital/site-service/internal/models"
)

//go:embed lead_email.html.tmpl
var leadEmailTmpl string

var leadEmail = template.Must(template.New("lead_email").Parse(leadEmailTmpl))

// needsLabels maps primaryNeeds codes to the human-readable labels
// used in the email body.
var needsLabels = map[string]string{
	"local-growth":  "Local Growth (Maps/SEO)",
	"website":       "Website Creation",
	"ai-automation": "AI Automation",
	"custom-it":     "Custom IT Solutions",
}

// LeadNotifier is what the contact handler dispatches to after a
// submission has been persisted.
type LeadNotifier interface {
	NotifyLead(ctx context.Context, sub models.ContactSubmission) bool
}

// Mailer sends lead summaries through a Resend-compatible HTTP API.
type Mailer struct {
	baseURL string
	apiKey  string
	from    string
	to      string
	client  *http.Client
	logger  *slog.Logger
}

// NewMailer builds a mailer for the given delivery endpoint. An empty
// apiKey yields a mailer that logs and reports failure on every send,
// which keeps the dispatch path uniform when delivery is unconfigured.
func NewMailer(baseURL, apiKey, from, to string, logger *slog.Logger) *Mailer {
	return &Mailer{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		from:    from,
		to:      to,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

type emailData struct {
	Submission  models.ContactSubmission
	Needs       string
	SiteLabel   string
	SubmittedAt string
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// NotifyLead renders and sends the lead summary email. The boolean is
// the only outcome; failures are logged here and go no further.
func (m *Mailer) NotifyLead(ctx context.Context, sub models.ContactSubmission) bool {
	if m.apiKey == "" || m.from == "" || m.to == "" {
		m.logger.Warn("lead notification skipped: delivery not configured", "submission_id", sub.ID)
		return false
	}

	needs := formatNeeds(sub.PrimaryNeeds)

	siteLabel := "English"
	if sub.Locale == "de" {
		siteLabel = "German"
	}

	var body bytes.Buffer
	err := leadEmail.Execute(&body, emailData{
		Submission:  sub,
		Needs:       needs,
		SiteLabel:   siteLabel,
		SubmittedAt: time.Now().UTC().Format("Monday, January 2, 2006 15:04 MST"),
	})
	if err != nil {
		m.logger.Error("lead notification: render failed", "submission_id", sub.ID, "error", err)
		return false
	}

	payload, err := json.Marshal(sendRequest{
		From:    m.from,
		To:      m.to,
		Subject: fmt.Sprintf("New Lead: %s - %s", sub.BusinessName, needs),
		HTML:    body.String(),
	})
	if err != nil {
		m.logger.Error("lead notification: encode failed", "submission_id", sub.ID, "error", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		m.logger.Error("lead notification: build request failed", "submission_id", sub.ID, "error", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		m.logger.Error("lead notification: send failed", "submission_id", sub.ID, "error", err)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		m.logger.Error("lead notification: delivery rejected", "submission_id", sub.ID, "status", resp.StatusCode)
		return false
	}

	m.logger.Info("lead notification sent", "submission_id", sub.ID, "business", sub.BusinessName)
	return true
}

func formatNeeds(codes []string) string {
	labels := make([]string, 0, len(codes))
	for _, code := range codes {
		if label, ok := needsLabels[code]; ok {
			labels = append(labels, label)
		} else {
			labels = append(labels, code)
		}
	}
	return strings.Join(labels, ", ")
}
