package llm

import "errors"

var (
	// ErrMissingAPIKey is returned when no gateway key is configured
	ErrMissingAPIKey = errors.New("llm: API key is not configured")

	// ErrRateLimited is returned when the gateway answers 429
	ErrRateLimited = errors.New("llm: rate limited")

	// ErrPaymentRequired is returned when the gateway answers 402
	ErrPaymentRequired = errors.New("llm: payment required")

	// ErrGateway covers other non-2xx gateway responses
	ErrGateway = errors.New("llm: gateway error")

	// ErrNetworkError is returned when the gateway could not be reached
	ErrNetworkError = errors.New("llm: network error")

	// ErrUnavailable is returned while the circuit breaker is open
	ErrUnavailable = errors.New("llm: temporarily unavailable")

	// ErrEmptyResponse is returned when the gateway sends no choices
	ErrEmptyResponse = errors.New("llm: empty response")

	// ErrNoJSON is returned when the model output holds no JSON object
	ErrNoJSON = errors.New("llm: failed to parse AI response")
)
