package resend

// SendEmailRequest is the body of POST /emails
type SendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// SendEmailResponse is returned when Resend accepts a message
type SendEmailResponse struct {
	ID string `json:"id"`
}

// ErrorResponse is the error body returned by the Resend API
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}
