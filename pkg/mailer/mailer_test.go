package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"testing"

	"github.com/cravings-app/cravings-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetCodeEmail(t *testing.T) {
	html, err := ResetCodeEmail("042917", 10)
	require.NoError(t, err)
	assert.Contains(t, html, "042917")
	assert.Contains(t, html, "This code expires in 10 minutes.")
}

func TestNew_SelectsTransport(t *testing.T) {
	m, err := New(config.MailConfig{ResendAPIKey: "re_test"})
	require.NoError(t, err)
	assert.IsType(t, &ResendMailer{}, m)

	m, err = New(config.MailConfig{SMTPHost: "smtp.example.com"})
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, m)

	m, err = New(config.MailConfig{})
	require.NoError(t, err)
	assert.IsType(t, LogMailer{}, m)
}

func TestResendMailer_Send(t *testing.T) {
	var payload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, _ = w.Write([]byte(`{"id":"email_1"}`))
	}))
	defer srv.Close()

	m, err := New(config.MailConfig{ResendAPIKey: "re_test", ResendBaseURL: srv.URL})
	require.NoError(t, err)

	err = m.Send(context.Background(), Message{
		From:    "CRAVINGS <onboarding@resend.dev>",
		To:      "cook@example.com",
		Subject: ResetCodeSubject,
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "CRAVINGS <onboarding@resend.dev>", payload["from"])
	assert.Equal(t, []interface{}{"cook@example.com"}, payload["to"])
}

func TestSMTPMailer_Send(t *testing.T) {
	m := NewSMTPMailer("smtp.example.com", "", "user", "pass")

	var (
		gotAddr string
		gotFrom string
		gotTo   []string
		gotMsg  string
	)
	m.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, string(msg)
		return nil
	}

	err := m.Send(context.Background(), Message{
		From:    "CRAVINGS <noreply@example.com>",
		To:      "cook@example.com",
		Subject: ResetCodeSubject,
		HTML:    "<p>123456</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Equal(t, []string{"cook@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Your Password Reset Code\r\n")
	assert.Contains(t, gotMsg, "<p>123456</p>")
}

func TestSMTPMailer_RejectsHeaderInjection(t *testing.T) {
	m := NewSMTPMailer("smtp.example.com", "587", "", "")
	m.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("must not send")
		return nil
	}

	err := m.Send(context.Background(), Message{
		From:    "noreply@example.com",
		To:      "cook@example.com\r\nBcc: victim@example.com",
		Subject: "x",
	})
	assert.Error(t, err)
}
