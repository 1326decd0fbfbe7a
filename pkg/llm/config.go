package llm

import (
	"time"

	"github.com/sony/gobreaker"
)

const (
	DefaultBaseURL = "https://ai.gateway.lovable.dev/v1"
	DefaultModel   = "google/gemini-2.5-flash"
)

// Config represents the configuration for the chat-completions client
type Config struct {
	// APIKey is sent as a bearer token. Calls fail with ErrMissingAPIKey when empty.
	APIKey string

	// BaseURL of an OpenAI-compatible gateway, without the /chat/completions suffix
	BaseURL string

	// Model is the default model for every call
	Model string

	// Timeout bounds each gateway call
	Timeout time.Duration

	// Breaker tuning; zero values fall back to defaults
	BreakerMaxRequests uint32
	BreakerInterval    time.Duration
	BreakerTimeout     time.Duration
	BreakerMinRequests uint32
	BreakerFailureRate float64

	// OnStateChange is notified when the circuit breaker changes state
	OnStateChange func(from, to gobreaker.State)
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.BreakerMaxRequests == 0 {
		c.BreakerMaxRequests = 3
	}
	if c.BreakerInterval <= 0 {
		c.BreakerInterval = 60 * time.Second
	}
	if c.BreakerTimeout <= 0 {
		c.BreakerTimeout = 30 * time.Second
	}
	if c.BreakerMinRequests == 0 {
		c.BreakerMinRequests = 5
	}
	if c.BreakerFailureRate <= 0 {
		c.BreakerFailureRate = 0.5
	}
}
