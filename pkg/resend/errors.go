package resend

import "errors"

var (
	// ErrMissingAPIKey is returned when the client is built without an API key
	ErrMissingAPIKey = errors.New("resend: API key is required")

	// ErrInvalidRequest is returned for 400/422 responses
	ErrInvalidRequest = errors.New("resend: invalid request")

	// ErrUnauthorized is returned when the API key is rejected
	ErrUnauthorized = errors.New("resend: unauthorized")

	// ErrRateLimited is returned on 429
	ErrRateLimited = errors.New("resend: rate limited")

	// ErrNetworkError is returned when the API could not be reached
	ErrNetworkError = errors.New("resend: network error")

	// ErrSendFailed covers any other non-2xx response
	ErrSendFailed = errors.New("resend: send failed")
)
