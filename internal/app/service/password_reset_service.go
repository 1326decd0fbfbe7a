package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cravings-app/cravings-backend/internal/app/model"
	"github.com/cravings-app/cravings-backend/internal/app/repository"
	"github.com/cravings-app/cravings-backend/internal/metrics"
	"github.com/cravings-app/cravings-backend/pkg/logger"
	"github.com/cravings-app/cravings-backend/pkg/mailer"
	"github.com/cravings-app/cravings-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailRequired        = errors.New("email is required")
	ErrResetFieldsRequired  = errors.New("email, code, and new password are required")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	ErrAccountNotFound      = errors.New("account not found")
	ErrWeakPassword         = util.ErrWeakPassword
	ErrMailDelivery         = errors.New("failed to deliver reset email")
)

// DefaultResetCodeTTL is how long an issued code stays consumable.
const DefaultResetCodeTTL = 10 * time.Minute

type PasswordResetService interface {
	// IssueCode sends a fresh code to email if an account exists. Unknown emails succeed
	// silently so callers cannot probe for accounts.
	IssueCode(ctx context.Context, email string) error
	// VerifyAndReset consumes the code and sets the account's new password.
	VerifyAndReset(ctx context.Context, email, code, newPassword string) error
}

type PasswordResetOptions struct {
	CodeTTL   time.Duration
	CodeSpace util.CodeSpace
	MailFrom  string
	// Now overrides the clock; tests only.
	Now func() time.Time
}

type passwordResetService struct {
	userRepo repository.UserRepository
	codeRepo repository.ResetCodeRepository
	mailer   mailer.Mailer
	opts     PasswordResetOptions
}

func NewPasswordResetService(
	userRepo repository.UserRepository,
	codeRepo repository.ResetCodeRepository,
	m mailer.Mailer,
	opts PasswordResetOptions,
) PasswordResetService {
	if opts.CodeTTL <= 0 {
		opts.CodeTTL = DefaultResetCodeTTL
	}
	if opts.CodeSpace == "" {
		opts.CodeSpace = util.CodeSpaceFull
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &passwordResetService{
		userRepo: userRepo,
		codeRepo: codeRepo,
		mailer:   m,
		opts:     opts,
	}
}

func (s *passwordResetService) now() time.Time {
	return s.opts.Now().UTC()
}

func (s *passwordResetService) IssueCode(ctx context.Context, email string) error {
	email = util.NormalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}

	logger.Info("Processing password reset code request", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Info("Reset code requested for unknown email", map[string]interface{}{
				"email": email,
			})
			metrics.ResetCodesIssued.WithLabelValues("unknown_account").Inc()
			return nil
		}
		metrics.ResetCodesIssued.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to look up account: %w", err)
	}

	code, err := util.GenerateResetCode(s.opts.CodeSpace)
	if err != nil {
		metrics.ResetCodesIssued.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to generate reset code: %w", err)
	}

	now := s.now()
	entry := &model.ResetCode{
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(s.opts.CodeTTL),
		Used:      false,
		CreatedAt: now,
	}
	if err := s.codeRepo.Put(ctx, entry); err != nil {
		metrics.ResetCodesIssued.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	body, err := mailer.ResetCodeEmail(code, int(s.opts.CodeTTL/time.Minute))
	if err != nil {
		metrics.ResetCodesIssued.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to render reset email: %w", err)
	}

	err = s.mailer.Send(ctx, mailer.Message{
		From:    s.opts.MailFrom,
		To:      email,
		Subject: mailer.ResetCodeSubject,
		HTML:    body,
	})
	if err != nil {
		logger.Error("Failed to send reset code email", err, map[string]interface{}{
			"email":   email,
			"user_id": user.ID,
		})
		metrics.ResetCodesIssued.WithLabelValues("failed").Inc()
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}

	logger.Info("Password reset code sent", map[string]interface{}{
		"user_id":    user.ID,
		"expires_at": entry.ExpiresAt,
	})
	metrics.ResetCodesIssued.WithLabelValues("sent").Inc()
	return nil
}

func (s *passwordResetService) VerifyAndReset(ctx context.Context, email, code, newPassword string) error {
	email = util.NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" || newPassword == "" {
		return ErrResetFieldsRequired
	}

	if err := util.ValidatePasswordStrength(newPassword); err != nil {
		metrics.ResetAttempts.WithLabelValues("weak_password").Inc()
		return err
	}

	consumed, err := s.codeRepo.MarkUsed(ctx, email, code, s.now())
	if err != nil {
		metrics.ResetAttempts.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to consume reset code: %w", err)
	}
	if !consumed {
		logger.Warn("Invalid or expired reset code submitted", map[string]interface{}{
			"email": email,
		})
		metrics.ResetAttempts.WithLabelValues("invalid_code").Inc()
		return ErrInvalidOrExpiredCode
	}

	// The code is burned from here on; a failure below leaves the old password in place.
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.ResetAttempts.WithLabelValues("account_not_found").Inc()
			return ErrAccountNotFound
		}
		metrics.ResetAttempts.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to look up account: %w", err)
	}

	hash, err := util.HashPassword(newPassword)
	if err != nil {
		metrics.ResetAttempts.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		metrics.ResetAttempts.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to update password: %w", err)
	}

	logger.Info("Password reset successful", map[string]interface{}{
		"user_id": user.ID,
	})
	metrics.ResetAttempts.WithLabelValues("success").Inc()
	return nil
}
