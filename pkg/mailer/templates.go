package mailer

import (
	"bytes"
	"html/template"
)

const ResetCodeSubject = "Your Password Reset Code"

var resetCodeTmpl = template.Must(template.New("reset_code").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #333; text-align: center;">Password Reset</h1>
  <p style="color: #666; text-align: center;">
    You requested to reset your password for CRAVINGS. Enter the following code in the app:
  </p>
  <div style="background: #f4f4f4; border-radius: 8px; padding: 30px; text-align: center; margin: 30px 0;">
    <span style="font-size: 36px; font-weight: bold; letter-spacing: 8px; color: #333;">{{.Code}}</span>
  </div>
  <p style="color: #999; text-align: center; font-size: 14px;">
    This code expires in {{.Minutes}} minutes. If you didn't request this, please ignore this email.
  </p>
</div>
`))

// ResetCodeEmail renders the password reset email body for code.
func ResetCodeEmail(code string, ttlMinutes int) (string, error) {
	var buf bytes.Buffer
	err := resetCodeTmpl.Execute(&buf, struct {
		Code    string
		Minutes int
	}{code, ttlMinutes})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
