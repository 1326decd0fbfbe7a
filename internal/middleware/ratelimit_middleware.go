package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/cravings-app/cravings-backend/internal/errors"
	"github.com/cravings-app/cravings-backend/internal/metrics"
	"github.com/gin-gonic/gin"
)

// WindowCounter increments a fixed-window counter and returns the count so far.
type WindowCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// maxKeyBodyBytes bounds how much of a body ByJSONEmail reads; {email} fits easily.
const maxKeyBodyBytes = 4 << 10

// KeyFunc derives the limiter key from a request. An empty key skips that dimension.
type KeyFunc func(c *gin.Context) string

// Limit is a request budget per window.
type Limit struct {
	Requests int
	Window   time.Duration
}

type RateLimiter struct {
	counter WindowCounter
}

// NewRateLimiter returns a limiter; a nil counter disables limiting.
func NewRateLimiter(counter WindowCounter) *RateLimiter {
	return &RateLimiter{counter: counter}
}

// Limit rejects requests with 429 once any key exceeds the budget for the bucket.
// Counter errors are logged and the request is let through.
func (rl *RateLimiter) Limit(bucket string, limit Limit, keys ...KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.counter == nil || limit.Requests <= 0 {
			c.Next()
			return
		}
		log := GetLoggerFromContext(c)

		for _, keyFn := range keys {
			key := keyFn(c)
			if key == "" {
				continue
			}
			fullKey := "ratelimit:" + bucket + ":" + key

			n, err := rl.counter.Incr(c.Request.Context(), fullKey, limit.Window)
			if err != nil {
				log.Warn("Rate limiter unavailable, allowing request", map[string]interface{}{
					"bucket": bucket,
					"error":  err.Error(),
				})
				c.Next()
				return
			}
			if n > int64(limit.Requests) {
				log.Warn("Rate limit exceeded", map[string]interface{}{
					"bucket": bucket,
					"count":  n,
				})
				metrics.RateLimited.WithLabelValues(bucket).Inc()
				apperrors.TooManyRequests(c, "")
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

// ByIP keys on the client IP.
func ByIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// ByJSONEmail keys on the normalized "email" field of a JSON body and restores the body
// for the handler.
func ByJSONEmail(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}
	limited := http.MaxBytesReader(c.Writer, c.Request.Body, maxKeyBodyBytes)
	raw, err := io.ReadAll(limited)
	if err != nil {
		// The handler gets the same read error and rejects the body.
		c.Request.Body = limited
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	if email == "" {
		return ""
	}
	return "email:" + email
}
