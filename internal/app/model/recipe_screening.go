package model

import (
	"database/sql/driver"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Categories is a list of community categories, a text[] column on PostgreSQL.
type Categories []string

func (c Categories) Value() (driver.Value, error) {
	return pq.StringArray(c).Value()
}

func (c *Categories) Scan(src interface{}) error {
	return (*pq.StringArray)(c).Scan(src)
}

func (Categories) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// RecipeScreening records one moderation decision on whether a recipe fits a community.
type RecipeScreening struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	UserID              uint       `gorm:"index;not null" json:"user_id"` // who submitted the recipe
	RecipeTitle         string     `gorm:"size:255;not null" json:"recipe_title"`
	CommunityCategory   string     `gorm:"size:100;not null;index" json:"community_category"`
	IsMatch             bool       `json:"is_match"`
	Confidence          float64    `json:"confidence"` // 0-100
	Reason              string     `gorm:"type:text" json:"reason"`
	SuggestedCategories Categories `json:"suggested_categories"`
	CreatedAt           time.Time  `json:"created_at"`
}

func (RecipeScreening) TableName() string {
	return "recipe_screenings"
}
