package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cravings-app/cravings-backend/pkg/logger"
	"github.com/sony/gobreaker"
)

// Client calls an OpenAI-compatible chat-completions gateway through a circuit breaker.
type Client struct {
	config     Config
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewClient(config Config) *Client {
	config.applyDefaults()
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	cfg := config
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "llm-gateway",
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= cfg.BreakerFailureRate {
				logger.Warn("LLM circuit breaker tripping", map[string]interface{}{
					"requests": counts.Requests,
					"failures": counts.TotalFailures,
					"ratio":    ratio,
				})
				return true
			}
			return false
		},
		// Quota answers mean the gateway is healthy.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrRateLimited) || errors.Is(err, ErrPaymentRequired)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("LLM circuit breaker state change", map[string]interface{}{
				"name": name,
				"from": from.String(),
				"to":   to.String(),
			})
			if cfg.OnStateChange != nil {
				cfg.OnStateChange(from, to)
			}
		},
	})

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		breaker:    breaker,
	}
}

// State reports the circuit breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

// Complete sends messages and returns the first choice's content. jsonMode asks the
// gateway for a JSON object response.
func (c *Client) Complete(ctx context.Context, messages []Message, jsonMode bool) (string, error) {
	if c.config.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	req := ChatRequest{Model: c.config.Model, Messages: messages}
	if jsonMode {
		req.ResponseFormat = &ResponseFormat{Type: "json_object"}
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doRequest(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return "", err
	}
	return out.(string), nil
}

// CompleteJSON runs Complete and decodes the JSON object found in the reply into v.
func (c *Client) CompleteJSON(ctx context.Context, messages []Message, jsonMode bool, v interface{}) error {
	content, err := c.Complete(ctx, messages, jsonMode)
	if err != nil {
		return err
	}
	raw, err := ExtractJSON(content)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: %v", ErrNoJSON, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, payload ChatRequest) (string, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case resp.StatusCode == http.StatusPaymentRequired:
		return "", ErrPaymentRequired
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		logger.Error("AI gateway error", nil, map[string]interface{}{
			"status": resp.StatusCode,
			"body":   truncate(string(body), 512),
		})
		return "", fmt.Errorf("%w: status %d", ErrGateway, resp.StatusCode)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrGateway, chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// ExtractJSON returns the text from the first '{' to the last '}' in s.
func ExtractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", ErrNoJSON
	}
	return s[start : end+1], nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
