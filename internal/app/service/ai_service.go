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
	"github.com/cravings-app/cravings-backend/pkg/llm"
	"github.com/cravings-app/cravings-backend/pkg/logger"
)

var (
	ErrInvalidMode        = errors.New("mode must be cook or pickup")
	ErrInvalidProficiency = errors.New("proficiency must be beginner, intermediate, or advanced")
)

// ChatCompleter is the part of the LLM gateway client the AI service needs.
type ChatCompleter interface {
	CompleteJSON(ctx context.Context, messages []llm.Message, jsonMode bool, v interface{}) error
}

type AIService interface {
	ProcessCraving(ctx context.Context, req *model.ProcessCravingRequest) (*model.CravingResult, error)
	ValidateCommunity(ctx context.Context, req *model.ValidateCommunityRequest) (*model.CommunityValidation, error)
	ScreenRecipe(ctx context.Context, userID uint, req *model.ScreenRecipeRequest) (*model.RecipeScreeningResult, error)
	ListScreenings(ctx context.Context, category string, limit int) ([]model.RecipeScreening, error)
}

const (
	defaultScreeningLimit = 20
	maxScreeningLimit     = 100
)

type aiService struct {
	llm        ChatCompleter
	screenings repository.ScreeningRepository
}

func NewAIService(completer ChatCompleter, screenings repository.ScreeningRepository) AIService {
	return &aiService{
		llm:        completer,
		screenings: screenings,
	}
}

func (s *aiService) ProcessCraving(ctx context.Context, req *model.ProcessCravingRequest) (*model.CravingResult, error) {
	proficiency := req.Proficiency
	if proficiency == "" {
		proficiency = model.ProficiencyBeginner
	}
	switch proficiency {
	case model.ProficiencyBeginner, model.ProficiencyIntermediate, model.ProficiencyAdvanced:
	default:
		return nil, ErrInvalidProficiency
	}

	var systemPrompt, userPrompt string
	switch req.Mode {
	case model.ModeCook:
		systemPrompt = cookSystemPrompt(proficiency)
		userPrompt = fmt.Sprintf("The user is craving: %q. Their cooking proficiency is %s. Suggest appropriate recipes.",
			req.Craving, proficiency)
	case model.ModePickup:
		systemPrompt = pickupSystemPrompt
		userPrompt = fmt.Sprintf("The user is craving: %q. Suggest types of nearby locations where they can satisfy this craving.",
			req.Craving)
	default:
		return nil, ErrInvalidMode
	}

	var result model.CravingResult
	err := s.complete(ctx, "process_craving", []llm.Message{
		llm.System(systemPrompt),
		llm.User(userPrompt),
	}, true, &result)
	if err != nil {
		return nil, err
	}

	result.Mode = req.Mode
	if req.Mode == model.ModeCook {
		result.Proficiency = proficiency
	}
	logger.Info("Craving processed", map[string]interface{}{
		"mode":      req.Mode,
		"recipes":   len(result.Recipes),
		"locations": len(result.Locations),
	})
	return &result, nil
}

func (s *aiService) ValidateCommunity(ctx context.Context, req *model.ValidateCommunityRequest) (*model.CommunityValidation, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "No description provided"
	}

	var result model.CommunityValidation
	err := s.complete(ctx, "validate_community", []llm.Message{
		llm.System("You are a food community validator. Respond only with valid JSON."),
		llm.User(fmt.Sprintf(validateCommunityPrompt, req.CommunityName, description)),
	}, false, &result)
	if err != nil {
		return nil, err
	}

	logger.Info("Community validation result", map[string]interface{}{
		"community": req.CommunityName,
		"is_valid":  result.IsValid,
		"category":  result.SuggestedCategory,
	})
	return &result, nil
}

func (s *aiService) ScreenRecipe(ctx context.Context, userID uint, req *model.ScreenRecipeRequest) (*model.RecipeScreeningResult, error) {
	description := strings.TrimSpace(req.RecipeDescription)
	if description == "" {
		description = "No description provided"
	}
	ingredients := "Not specified"
	if len(req.Ingredients) > 0 {
		ingredients = strings.Join(req.Ingredients, ", ")
	}

	prompt := fmt.Sprintf(screenRecipePrompt,
		req.RecipeTitle, description, ingredients, req.CommunityCategory, req.CommunityCategory)

	var result model.RecipeScreeningResult
	err := s.complete(ctx, "screen_recipe", []llm.Message{
		llm.System("You are a food categorization expert. Respond only with valid JSON."),
		llm.User(prompt),
	}, false, &result)
	if err != nil {
		return nil, err
	}

	record := &model.RecipeScreening{
		UserID:              userID,
		RecipeTitle:         req.RecipeTitle,
		CommunityCategory:   req.CommunityCategory,
		IsMatch:             result.IsMatch,
		Confidence:          result.Confidence,
		Reason:              result.Reason,
		SuggestedCategories: model.Categories(result.SuggestedCategories),
	}
	// The caller still gets the verdict when the audit row cannot be written.
	if err := s.screenings.Create(ctx, record); err != nil {
		logger.Warn("Recipe screening not recorded", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}

	logger.Info("Recipe screening result", map[string]interface{}{
		"user_id":    userID,
		"category":   req.CommunityCategory,
		"is_match":   result.IsMatch,
		"confidence": result.Confidence,
	})
	return &result, nil
}

// ListScreenings returns the newest screening decisions for a community category.
func (s *aiService) ListScreenings(ctx context.Context, category string, limit int) ([]model.RecipeScreening, error) {
	if limit <= 0 {
		limit = defaultScreeningLimit
	}
	if limit > maxScreeningLimit {
		limit = maxScreeningLimit
	}
	return s.screenings.ListByCategory(ctx, strings.TrimSpace(category), limit)
}

func (s *aiService) complete(ctx context.Context, function string, messages []llm.Message, jsonMode bool, v interface{}) error {
	start := time.Now()
	err := s.llm.CompleteJSON(ctx, messages, jsonMode, v)
	metrics.LLMRequestDuration.WithLabelValues(function, llmStatus(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Error("AI gateway call failed", err, map[string]interface{}{
			"function": function,
		})
	}
	return err
}

func llmStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, llm.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, llm.ErrPaymentRequired):
		return "payment_required"
	case errors.Is(err, llm.ErrUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

func cookSystemPrompt(p model.Proficiency) string {
	return fmt.Sprintf(`You are a helpful culinary assistant. Generate recipe suggestions based on user cravings and their cooking proficiency level.
Return a JSON object with this exact structure:
{
  "mode": "cook",
  "proficiency": "%[1]s",
  "recipes": [
    {
      "title": "Recipe Name",
      "difficulty": "%[1]s",
      "cookTime": "X minutes",
      "ingredients": ["ingredient 1", "ingredient 2", ...],
      "instructions": ["step 1", "step 2", ...]
    }
  ]
}
Provide 2-3 recipes that match the proficiency level. For beginners, keep recipes simple with 5-7 ingredients and clear steps. For intermediate, add more variety and techniques. For advanced, include complex techniques and refined flavors.`, p)
}

const pickupSystemPrompt = `You are a local food discovery assistant. Based on user cravings, suggest types of restaurants, cafes, or grocery stores they should look for nearby.
Return a JSON object with this exact structure:
{
  "mode": "pickup",
  "locations": [
    {
      "name": "Type of Location",
      "type": "Restaurant/Cafe/Grocery Store",
      "description": "What to look for or order here",
      "distance": "Nearby"
    }
  ]
}
Provide 3-4 location suggestions that would satisfy their craving. Be specific about what dishes or items to look for.`

const validateCommunityPrompt = `You are a food community name validator. Analyze if a community name is valid and food-related.

Community Name: %q
Description: %q

Rules:
1. The name must be related to food, cooking, recipes, cuisines, or eating
2. The name should be appropriate and not offensive
3. The name should make sense as a food community

Valid examples: "Sweet Treats", "Italian Cuisine", "Quick Meals", "Healthy Eating", "Comfort Food Lovers", "Baking Enthusiasts"
Invalid examples: "Sports Fans", "Movie Night", "Random Stuff", "Tech Talk"

Respond with JSON only:
{
  "isValid": boolean,
  "reason": "brief explanation",
  "suggestedCategory": "one of: Sweet, Savory, Beverages, Healthy, Comfort Food, Quick Meals, Baking, International, or a specific cuisine name"
}`

const screenRecipePrompt = `You are a food recipe categorization expert. Analyze if a recipe fits a community's food category.

Recipe Details:
- Title: %s
- Description: %s
- Ingredients: %s

Community Category: %s

Determine if this recipe is appropriate for the %q community.

Categories and what they include:
- "Sweet" / "Desserts": Cakes, cookies, pastries, candies, sweet drinks, ice cream, fruit desserts
- "Savory": Main dishes, appetizers, soups, salads with savory dressings, meat dishes, pasta, rice dishes
- "Beverages" / "Drinks": Cocktails, smoothies, teas, coffees, juices (both sweet and savory)
- "Healthy" / "Health": Low-calorie, nutritious, diet-friendly, vegan, vegetarian options
- "Comfort Food": Hearty, warming, nostalgic dishes
- "Quick Meals" / "Fast": Recipes under 30 minutes
- "Baking": Breads, pastries, anything oven-baked
- "International" / specific cuisines: Dishes from that cuisine

Respond with JSON only:
{
  "isMatch": boolean,
  "confidence": number (0-100),
  "reason": "brief explanation",
  "suggestedCategories": ["array of 1-3 better matching categories if not a match"]
}`
