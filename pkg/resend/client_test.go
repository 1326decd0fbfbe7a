package resend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestClient_SendEmail(t *testing.T) {
	var got SendEmailRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "re_test", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	resp, err := client.SendEmail(context.Background(), SendEmailRequest{
		From:    "CRAVINGS <onboarding@resend.dev>",
		To:      []string{"cook@example.com"},
		Subject: "Your Password Reset Code",
		HTML:    "<p>123456</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "email_123", resp.ID)
	assert.Equal(t, []string{"cook@example.com"}, got.To)
	assert.Equal(t, "Your Password Reset Code", got.Subject)
}

func TestClient_SendEmailErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"validation", http.StatusUnprocessableEntity, ErrInvalidRequest},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"server error", http.StatusInternalServerError, ErrSendFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"statusCode":0,"name":"error","message":"nope"}`))
			}))
			defer srv.Close()

			client, err := NewClient(Config{APIKey: "re_test", BaseURL: srv.URL})
			require.NoError(t, err)

			_, err = client.SendEmail(context.Background(), SendEmailRequest{
				From: "a@example.com", To: []string{"b@example.com"}, Subject: "s",
			})
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestClient_SendEmailRejectsIncompleteMessage(t *testing.T) {
	client, err := NewClient(Config{APIKey: "re_test"})
	require.NoError(t, err)

	_, err = client.SendEmail(context.Background(), SendEmailRequest{From: "a@example.com"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
