package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cravings-app/cravings-backend/internal/app/model"
	"github.com/cravings-app/cravings-backend/internal/app/repository"
	"github.com/cravings-app/cravings-backend/internal/db"
	"github.com/cravings-app/cravings-backend/pkg/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply    string
	err      error
	messages []llm.Message
	jsonMode bool
	calls    int
}

func (f *fakeCompleter) CompleteJSON(_ context.Context, messages []llm.Message, jsonMode bool, v interface{}) error {
	f.calls++
	f.messages = messages
	f.jsonMode = jsonMode
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.reply), v)
}

func setupAIService(t *testing.T, completer *fakeCompleter) (AIService, repository.ScreeningRepository) {
	testDB := db.SetupTestDB(t)
	screenings := repository.NewScreeningRepository(testDB)
	return NewAIService(completer, screenings), screenings
}

func TestProcessCraving_Cook(t *testing.T) {
	completer := &fakeCompleter{reply: `{"mode":"cook","proficiency":"beginner","recipes":[
		{"title":"Garlic Noodles","difficulty":"beginner","cookTime":"15 minutes","ingredients":["noodles","garlic"],"instructions":["boil","toss"]}]}`}
	svc, _ := setupAIService(t, completer)

	result, err := svc.ProcessCraving(context.Background(), &model.ProcessCravingRequest{
		Craving: "something garlicky",
		Mode:    model.ModeCook,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ModeCook, result.Mode)
	assert.Equal(t, model.ProficiencyBeginner, result.Proficiency)
	require.Len(t, result.Recipes, 1)
	assert.Equal(t, "Garlic Noodles", result.Recipes[0].Title)

	assert.True(t, completer.jsonMode)
	require.Len(t, completer.messages, 2)
	assert.Equal(t, "system", completer.messages[0].Role)
	assert.Contains(t, completer.messages[1].Content, `"something garlicky"`)
	assert.Contains(t, completer.messages[1].Content, "proficiency is beginner")
}

func TestProcessCraving_Pickup(t *testing.T) {
	completer := &fakeCompleter{reply: `{"mode":"pickup","locations":[
		{"name":"Ramen Shop","type":"Restaurant","description":"Order tonkotsu","distance":"Nearby"}]}`}
	svc, _ := setupAIService(t, completer)

	result, err := svc.ProcessCraving(context.Background(), &model.ProcessCravingRequest{
		Craving:     "warm soup",
		Proficiency: model.ProficiencyAdvanced,
		Mode:        model.ModePickup,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ModePickup, result.Mode)
	assert.Empty(t, result.Proficiency)
	require.Len(t, result.Locations, 1)
	assert.Equal(t, "Ramen Shop", result.Locations[0].Name)
}

func TestProcessCraving_RejectsBadInput(t *testing.T) {
	completer := &fakeCompleter{}
	svc, _ := setupAIService(t, completer)
	ctx := context.Background()

	_, err := svc.ProcessCraving(ctx, &model.ProcessCravingRequest{Craving: "pie", Mode: "deliver"})
	assert.ErrorIs(t, err, ErrInvalidMode)

	_, err = svc.ProcessCraving(ctx, &model.ProcessCravingRequest{Craving: "pie", Mode: model.ModeCook, Proficiency: "chef"})
	assert.ErrorIs(t, err, ErrInvalidProficiency)

	assert.Zero(t, completer.calls)
}

func TestProcessCraving_GatewayError(t *testing.T) {
	completer := &fakeCompleter{err: llm.ErrRateLimited}
	svc, _ := setupAIService(t, completer)

	_, err := svc.ProcessCraving(context.Background(), &model.ProcessCravingRequest{Craving: "pie", Mode: model.ModeCook})
	assert.ErrorIs(t, err, llm.ErrRateLimited)
}

func TestValidateCommunity(t *testing.T) {
	completer := &fakeCompleter{reply: `{"isValid":true,"reason":"Clearly about baking","suggestedCategory":"Baking"}`}
	svc, _ := setupAIService(t, completer)

	result, err := svc.ValidateCommunity(context.Background(), &model.ValidateCommunityRequest{
		CommunityName: "Sourdough Society",
	})
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Equal(t, "Baking", result.SuggestedCategory)

	assert.False(t, completer.jsonMode)
	assert.Contains(t, completer.messages[1].Content, `"Sourdough Society"`)
	assert.Contains(t, completer.messages[1].Content, "No description provided")
}

func TestScreenRecipe_PersistsResult(t *testing.T) {
	completer := &fakeCompleter{reply: `{"isMatch":false,"confidence":85,"reason":"This is a savory dish","suggestedCategories":["Savory","Comfort Food"]}`}
	svc, screenings := setupAIService(t, completer)
	ctx := context.Background()

	result, err := svc.ScreenRecipe(ctx, 7, &model.ScreenRecipeRequest{
		RecipeTitle:       "Beef Stew",
		Ingredients:       []string{"beef", "carrots"},
		CommunityCategory: "Sweet",
	})
	require.NoError(t, err)
	assert.False(t, result.IsMatch)
	assert.Equal(t, 85.0, result.Confidence)
	assert.Equal(t, []string{"Savory", "Comfort Food"}, result.SuggestedCategories)
	assert.Contains(t, completer.messages[1].Content, "beef, carrots")

	rows, err := screenings.ListByCategory(ctx, "Sweet", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, uint(7), rows[0].UserID)
	assert.Equal(t, "Beef Stew", rows[0].RecipeTitle)
	assert.Equal(t, model.Categories{"Savory", "Comfort Food"}, rows[0].SuggestedCategories)
}

func TestScreenRecipe_GatewayErrorIsNotPersisted(t *testing.T) {
	completer := &fakeCompleter{err: llm.ErrNoJSON}
	svc, screenings := setupAIService(t, completer)
	ctx := context.Background()

	_, err := svc.ScreenRecipe(ctx, 7, &model.ScreenRecipeRequest{RecipeTitle: "Tea", CommunityCategory: "Beverages"})
	assert.ErrorIs(t, err, llm.ErrNoJSON)

	rows, err := screenings.ListByCategory(ctx, "Beverages", 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
