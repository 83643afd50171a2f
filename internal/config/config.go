package config

import (
	"os"
	"strings"
)

// Config contains runtime configuration required by the service.
type Config struct {
	Port string

	// Allowed browser origin for the JSON API. Empty keeps the local
	// dev default in the CORS middleware.
	FrontendOrigin string

	// Lead-notification email delivery. An empty NotifyAPIKey disables
	// dispatch entirely; lead capture works regardless.
	NotifyAPIURL string
	NotifyAPIKey string
	NotifyFrom   string
	NotifyTo     string

	// Storage DSN. Defaults to the in-memory database; records live
	// for the lifetime of the process only.
	StoreDSN string
}

// Load reads configuration from environment variables. Every value has
// a local-dev fallback so the service runs out-of-the-box.
func Load() Config {
	return Config{
		Port:           env("PORT", "8080"),
		FrontendOrigin: env("FE_ORIGIN", ""),
		NotifyAPIURL:   env("NOTIFY_API_URL", "https://api.resend.com"),
		NotifyAPIKey:   env("NOTIFY_API_KEY", ""),
		NotifyFrom:     env("NOTIFY_FROM", ""),
		NotifyTo:       env("NOTIFY_TO", ""),
		StoreDSN:       env("STORE_DSN", ":memory:"),
	}
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
