package resetflow

import (
	"context"
	"errors"
	"sync"

	"github.com/cravings-app/cravings-backend/pkg/logger"
)

// ErrSubmitInFlight is returned when a request is already running for this controller.
var ErrSubmitInFlight = errors.New("a request is already in progress")

// API is the server side of the flow; *Client implements it.
type API interface {
	SendResetCode(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

// Controller holds one user's flow. It is safe to call from several goroutines but
// only one request runs at a time.
type Controller struct {
	api API

	mu       sync.Mutex
	step     Step
	inFlight bool

	// OnDone runs once the password has been changed.
	OnDone func(email string)
	// OnBack runs when the user leaves the flow.
	OnBack func()
}

func NewController(api API) *Controller {
	return &Controller{api: api, step: StepEmail{}}
}

func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Busy reports whether a request is running; submit controls stay disabled meanwhile.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// SubmitEmail requests a code and moves to the verify step on success.
func (c *Controller) SubmitEmail(ctx context.Context, email string) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	next, err := Transition(c.step, EmailSubmitted{Email: email})
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.step = next
	c.inFlight = true
	email = next.(StepEmail).Email
	c.mu.Unlock()

	callErr := c.api.SendResetCode(ctx, email)
	return c.finish(CodeRequested{Err: callErr})
}

// Resend asks for a fresh code for the same email. The step does not change.
func (c *Controller) Resend(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	if _, err := Transition(c.step, ResendRequested{}); err != nil {
		c.mu.Unlock()
		return err
	}
	email := c.step.(StepVerify).Email
	c.inFlight = true
	c.mu.Unlock()

	callErr := c.api.SendResetCode(ctx, email)
	return c.finish(CodeRequested{Err: callErr})
}

// SubmitReset sends the code and new password. It makes no request unless
// CanSubmitReset holds.
func (c *Controller) SubmitReset(ctx context.Context, code, password string) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	if _, err := Transition(c.step, ResetSubmitted{Code: code, Password: password}); err != nil {
		c.mu.Unlock()
		return err
	}
	email := c.step.(StepVerify).Email
	c.inFlight = true
	c.mu.Unlock()

	callErr := c.api.ResetPassword(ctx, email, code, password)
	return c.finish(ResetCompleted{Err: callErr})
}

// Back abandons the flow and starts over at the email step. It is refused while a
// request is running so the result of that request is still applied.
func (c *Controller) Back() error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	c.step = StepEmail{}
	c.mu.Unlock()
	if c.OnBack != nil {
		c.OnBack()
	}
	return nil
}

func (c *Controller) finish(e Event) error {
	c.mu.Lock()
	next, err := Transition(c.step, e)
	c.step = next
	c.inFlight = false
	c.mu.Unlock()

	if err != nil {
		logger.Debug("Password reset step failed", map[string]interface{}{
			"retryable": IsRetryable(err),
			"error":     err.Error(),
		})
		return err
	}
	if done, ok := next.(StepDone); ok && c.OnDone != nil {
		c.OnDone(done.Email)
	}
	return nil
}
