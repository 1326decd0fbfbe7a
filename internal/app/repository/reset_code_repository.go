package repository

import (
	"context"
	"time"

	"github.com/cravings-app/cravings-backend/internal/app/model"
	"github.com/cravings-app/cravings-backend/pkg/logger"
	"gorm.io/gorm"
)

// ResetCodeRepository stores outstanding password reset codes, at most one per email.
type ResetCodeRepository interface {
	Put(ctx context.Context, code *model.ResetCode) error
	FindValid(ctx context.Context, email, code string, now time.Time) (*model.ResetCode, error)
	MarkUsed(ctx context.Context, email, code string, now time.Time) (bool, error)
	FindByEmail(ctx context.Context, email string) (*model.ResetCode, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type resetCodeRepository struct {
	db *gorm.DB
}

func NewResetCodeRepository(db *gorm.DB) ResetCodeRepository {
	return &resetCodeRepository{db: db}
}

// Put replaces any existing code for the email inside one transaction.
func (r *resetCodeRepository) Put(ctx context.Context, code *model.ResetCode) error {
	logger.Debug("Storing password reset code", map[string]interface{}{
		"email":      code.Email,
		"expires_at": code.ExpiresAt,
	})

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted := tx.Where("email = ?", code.Email).Delete(&model.ResetCode{})
		if deleted.Error != nil {
			return deleted.Error
		}
		if deleted.RowsAffected > 0 {
			logger.Debug("Superseded previous reset code", map[string]interface{}{
				"email":   code.Email,
				"removed": deleted.RowsAffected,
			})
		}
		return tx.Create(code).Error
	})
	if err != nil {
		logger.Error("Failed to store password reset code", err, map[string]interface{}{
			"email": code.Email,
		})
		return err
	}

	logger.Debug("Password reset code stored", map[string]interface{}{
		"id":    code.ID,
		"email": code.Email,
	})
	return nil
}

func (r *resetCodeRepository) FindValid(ctx context.Context, email, code string, now time.Time) (*model.ResetCode, error) {
	var rc model.ResetCode
	err := r.db.WithContext(ctx).
		Where("email = ? AND code = ? AND used = ? AND expires_at >= ?", email, code, false, now).
		First(&rc).Error
	if err != nil {
		logLookupError("No valid reset code found", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	return &rc, nil
}

// MarkUsed consumes a matching, unused, unexpired code with a single conditional update.
// It reports false when no row qualified, which is the only serialization point between
// concurrent resets for the same code.
func (r *resetCodeRepository) MarkUsed(ctx context.Context, email, code string, now time.Time) (bool, error) {
	logger.Debug("Consuming password reset code", map[string]interface{}{
		"email": email,
	})

	result := r.db.WithContext(ctx).Model(&model.ResetCode{}).
		Where("email = ? AND code = ? AND used = ? AND expires_at >= ?", email, code, false, now).
		Update("used", true)
	if result.Error != nil {
		logger.Error("Failed to consume password reset code", result.Error, map[string]interface{}{
			"email": email,
		})
		return false, result.Error
	}

	logger.Debug("Password reset code consume attempted", map[string]interface{}{
		"email":    email,
		"consumed": result.RowsAffected == 1,
	})
	return result.RowsAffected == 1, nil
}

func (r *resetCodeRepository) FindByEmail(ctx context.Context, email string) (*model.ResetCode, error) {
	var rc model.ResetCode
	if err := r.db.WithContext(ctx).Where("email = ?", email).Order("created_at DESC, id DESC").First(&rc).Error; err != nil {
		logLookupError("Failed to find reset code by email", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	return &rc, nil
}

func (r *resetCodeRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	logger.Debug("Deleting expired password reset codes", map[string]interface{}{
		"before": before,
	})

	result := r.db.WithContext(ctx).Where("expires_at < ?", before).Delete(&model.ResetCode{})
	if result.Error != nil {
		logger.Error("Failed to delete expired password reset codes", result.Error, nil)
		return 0, result.Error
	}

	logger.Debug("Expired password reset codes deleted", map[string]interface{}{
		"count": result.RowsAffected,
	})
	return result.RowsAffected, nil
}
