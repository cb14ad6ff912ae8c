package ratelimit

import (
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/hireflow/internal/config"
)

// Endpoint groups. Requests to aliases of the same operation share one bucket.
const (
	GroupSuggest = "suggest"
	GroupSend    = "send"

	// GroupUnmatched covers every request that matches no endpoint config.
	GroupUnmatched = "unmatched"
	// GroupUnlimited covers preflight, health and metrics requests.
	GroupUnlimited = "unlimited"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Group  string        // Bucket group; defaults to Path when empty
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

func (c *EndpointConfig) bucketGroup() string {
	if c.Group != "" {
		return c.Group
	}
	return c.Path
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration // Buckets unused for longer are dropped by cleanup
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// FromSettings builds a limiter Config from the application rate-limit settings.
func FromSettings(s config.RateLimitConfig) *Config {
	if !s.Enabled {
		return &Config{Enabled: false}
	}

	window := s.DefaultWindow
	if window <= 0 {
		window = time.Minute
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    s.DefaultLimit,
		DefaultWindow:   window,
		CleanupInterval: s.CleanupInterval,
		IdleTTL:         time.Hour,
		Whitelist:       toSet(s.Whitelist),
		Blacklist:       toSet(s.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(s.SuggestLimit, s.SendLimit, window),
	}
}

// DefaultEndpointConfigs returns the per-operation limits.
// Suggestions call a paid inference API and sending dials an SMTP relay,
// so both get their own, tighter budgets than the default.
func DefaultEndpointConfigs(suggestLimit, sendLimit int, window time.Duration) []EndpointConfig {
	suggestBurst := max(1, suggestLimit/6)
	sendBurst := max(1, sendLimit/4)
	return []EndpointConfig{
		{Path: "/api/suggest-company", Method: http.MethodPost, Group: GroupSuggest, Limit: suggestLimit, Window: window, Burst: suggestBurst},
		{Path: "/api/sugerir-empresa", Method: http.MethodPost, Group: GroupSuggest, Limit: suggestLimit, Window: window, Burst: suggestBurst},
		{Path: "/api/send-email", Method: http.MethodPost, Group: GroupSend, Limit: sendLimit, Window: window, Burst: sendBurst},
	}
}

// toSet converts a list of IP addresses into a lookup set, ignoring blanks.
func toSet(list []string) map[string]bool {
	result := make(map[string]bool, len(list))
	for _, ip := range list {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
