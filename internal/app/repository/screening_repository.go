package repository

import (
	"context"

	"github.com/cravings-app/cravings-backend/internal/app/model"
	"github.com/cravings-app/cravings-backend/pkg/logger"
	"gorm.io/gorm"
)

type ScreeningRepository interface {
	Create(ctx context.Context, s *model.RecipeScreening) error
	ListByCategory(ctx context.Context, category string, limit int) ([]model.RecipeScreening, error)
}

type screeningRepository struct {
	db *gorm.DB
}

func NewScreeningRepository(db *gorm.DB) ScreeningRepository {
	return &screeningRepository{db: db}
}

func (r *screeningRepository) Create(ctx context.Context, s *model.RecipeScreening) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		logger.Error("Failed to record recipe screening", err, map[string]interface{}{
			"user_id":  s.UserID,
			"category": s.CommunityCategory,
		})
		return err
	}

	logger.Debug("Recipe screening recorded", map[string]interface{}{
		"id":       s.ID,
		"category": s.CommunityCategory,
		"is_match": s.IsMatch,
	})
	return nil
}

// ListByCategory returns the newest screenings for a community category.
func (r *screeningRepository) ListByCategory(ctx context.Context, category string, limit int) ([]model.RecipeScreening, error) {
	var out []model.RecipeScreening
	err := r.db.WithContext(ctx).
		Where("community_category = ?", category).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		logger.Error("Failed to list recipe screenings", err, map[string]interface{}{
			"category": category,
		})
		return nil, err
	}
	return out, nil
}
