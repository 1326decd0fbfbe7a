package resend

import "time"

const DefaultBaseURL = "https://api.resend.com"

// Config represents the configuration for the Resend client
type Config struct {
	// APIKey authenticates against the Resend API (re_...)
	APIKey string

	// BaseURL defaults to DefaultBaseURL
	BaseURL string

	// Timeout bounds each API call; defaults to 10s
	Timeout time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
