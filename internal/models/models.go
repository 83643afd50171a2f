package models

import "time"

// User is a stored account record. The site itself has no login flow;
// the kind exists so operator tooling can be attached later.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// ContactSubmission is one captured lead. Records are immutable once
// created; id and createdAt are assigned by the store.
type ContactSubmission struct {
	ID           string    `json:"id"`
	BusinessName string    `json:"businessName"`
	Website      string    `json:"website,omitempty"`
	GBPLink      string    `json:"gbpLink,omitempty"`
	Country      string    `json:"country"`
	City         string    `json:"city"`
	PrimaryNeeds []string  `json:"primaryNeeds"`
	BudgetRange  string    `json:"budgetRange"`
	Timeline     string    `json:"timeline"`
	Message      string    `json:"message"`
	Locale       string    `json:"locale"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PageView is one tracked navigation.
type PageView struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Locale    string    `json:"locale"`
	Referrer  string    `json:"referrer,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AnalyticsEvent is one tracked user action. EventData is an opaque
// serialized payload; the server never interprets its structure.
type AnalyticsEvent struct {
	ID        string    `json:"id"`
	EventType string    `json:"eventType"`
	EventData string    `json:"eventData,omitempty"`
	Path      string    `json:"path,omitempty"`
	Locale    string    `json:"locale,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContactRequest is the POST /api/contact payload. Website and GBPLink
// accept an empty string, which is treated as absent.
type ContactRequest struct {
	BusinessName string   `json:"businessName" binding:"required,min=2"`
	Website      string   `json:"website" binding:"omitempty,url"`
	GBPLink      string   `json:"gbpLink" binding:"omitempty,url"`
	Country      string   `json:"country" binding:"required,min=2"`
	City         string   `json:"city" binding:"required,min=2"`
	PrimaryNeeds []string `json:"primaryNeeds" binding:"required,min=1"`
	BudgetRange  string   `json:"budgetRange" binding:"required"`
	Timeline     string   `json:"timeline" binding:"required"`
	Message      string   `json:"message" binding:"required,min=10"`
	Locale       string   `json:"locale"`
}

// PageViewRequest is the POST /api/analytics/pageview payload.
type PageViewRequest struct {
	Path      string `json:"path" binding:"required"`
	Locale    string `json:"locale" binding:"required"`
	Referrer  string `json:"referrer"`
	UserAgent string `json:"userAgent"`
	SessionID string `json:"sessionId"`
}

// EventRequest is the POST /api/analytics/event payload.
type EventRequest struct {
	EventType string `json:"eventType" binding:"required"`
	EventData string `json:"eventData"`
	Path      string `json:"path"`
	Locale    string `json:"locale"`
	SessionID string `json:"sessionId"`
}

// FieldError is one validation issue, keyed by the offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// PageViewStat is the page-view count for one (path, locale) pair.
type PageViewStat struct {
	Path   string `json:"path"`
	Locale string `json:"locale"`
	Count  int64  `json:"count"`
}

// EventStat is the event count for one event type.
type EventStat struct {
	EventType string `json:"eventType"`
	Count     int64  `json:"count"`
}
