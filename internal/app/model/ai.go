package model

// CravingMode picks between cooking at home and finding food nearby.
type CravingMode string

const (
	ModeCook   CravingMode = "cook"
	ModePickup CravingMode = "pickup"
)

type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
)

type ProcessCravingRequest struct {
	Craving     string      `json:"craving" binding:"required"`
	Proficiency Proficiency `json:"proficiency"`
	Mode        CravingMode `json:"mode" binding:"required"`
}

type Recipe struct {
	Title        string   `json:"title"`
	Difficulty   string   `json:"difficulty"`
	CookTime     string   `json:"cookTime"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

type PickupLocation struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Distance    string `json:"distance"`
}

// CravingResult carries recipes in cook mode and locations in pickup mode.
type CravingResult struct {
	Mode        CravingMode      `json:"mode"`
	Proficiency Proficiency      `json:"proficiency,omitempty"`
	Recipes     []Recipe         `json:"recipes,omitempty"`
	Locations   []PickupLocation `json:"locations,omitempty"`
}

type ValidateCommunityRequest struct {
	CommunityName string `json:"communityName" binding:"required"`
	Description   string `json:"description"`
}

type CommunityValidation struct {
	IsValid           bool   `json:"isValid"`
	Reason            string `json:"reason"`
	SuggestedCategory string `json:"suggestedCategory"`
}

type ScreenRecipeRequest struct {
	RecipeTitle       string   `json:"recipeTitle" binding:"required"`
	RecipeDescription string   `json:"recipeDescription"`
	Ingredients       []string `json:"ingredients"`
	CommunityCategory string   `json:"communityCategory" binding:"required"`
}

type RecipeScreeningResult struct {
	IsMatch             bool     `json:"isMatch"`
	Confidence          float64  `json:"confidence"`
	Reason              string   `json:"reason"`
	SuggestedCategories []string `json:"suggestedCategories"`
}
