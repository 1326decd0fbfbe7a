// Package resetflow drives the forgot-password screens of a client: request a code,
// enter it with a new password, done.
package resetflow

import (
	"errors"
	"fmt"

	"github.com/cravings-app/cravings-backend/pkg/util"
)

var (
	ErrEmailRequired     = errors.New("email is required")
	ErrCannotSubmit      = errors.New("code must be 6 digits and the password must meet every requirement")
	ErrInvalidTransition = errors.New("invalid transition")
)

// Step is the screen the flow is on: StepEmail, StepVerify or StepDone.
type Step interface {
	isStep()
}

// StepEmail collects the address. Email holds the last submitted value while the code
// request is in flight.
type StepEmail struct {
	Email string
}

// StepVerify collects the code and the new password for Email.
type StepVerify struct {
	Email string
}

type StepDone struct {
	Email string
}

func (StepEmail) isStep()  {}
func (StepVerify) isStep() {}
func (StepDone) isStep()   {}

type Event interface {
	isEvent()
}

type EmailSubmitted struct {
	Email string
}

// CodeRequested reports the outcome of a send-reset-code call.
type CodeRequested struct {
	Err error
}

type ResetSubmitted struct {
	Code     string
	Password string
}

// ResetCompleted reports the outcome of a reset-password call.
type ResetCompleted struct {
	Err error
}

type ResendRequested struct{}

func (EmailSubmitted) isEvent()  {}
func (CodeRequested) isEvent()   {}
func (ResetSubmitted) isEvent()  {}
func (ResetCompleted) isEvent()  {}
func (ResendRequested) isEvent() {}

// CanSubmitReset reports whether the verify screen's submit button is enabled.
func CanSubmitReset(code, password string) bool {
	return util.IsNumericCode(code) && util.ValidatePasswordStrength(password) == nil
}

// Transition applies e to s. On failure it returns s unchanged together with the error
// to show; server errors are returned as they came.
func Transition(s Step, e Event) (Step, error) {
	switch st := s.(type) {
	case StepEmail:
		switch ev := e.(type) {
		case EmailSubmitted:
			email := util.NormalizeEmail(ev.Email)
			if email == "" {
				return st, ErrEmailRequired
			}
			return StepEmail{Email: email}, nil
		case CodeRequested:
			if st.Email == "" {
				break
			}
			if ev.Err != nil {
				return st, ev.Err
			}
			return StepVerify{Email: st.Email}, nil
		}

	case StepVerify:
		switch ev := e.(type) {
		case ResetSubmitted:
			if !CanSubmitReset(ev.Code, ev.Password) {
				return st, ErrCannotSubmit
			}
			return st, nil
		case ResetCompleted:
			if ev.Err != nil {
				return st, ev.Err
			}
			return StepDone{Email: st.Email}, nil
		case ResendRequested:
			return st, nil
		case CodeRequested:
			// Outcome of a resend; the screen stays put either way.
			return st, ev.Err
		}
	}
	return s, fmt.Errorf("%w: %T in %T", ErrInvalidTransition, e, s)
}
