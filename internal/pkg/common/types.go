package common

import (
	"strings"
	"time"
)

// Difficulty levels accepted on a canonical recipe.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Clamp boundaries applied by the formatter.
const (
	MinCookTimeMinutes = 1
	MaxCookTimeMinutes = 480
	MinServings        = 1
	MaxServings        = 20

	DefaultCookTimeMinutes = 30
	DefaultServings        = 4
)

// PantryIngredient is a user-added pantry item. Immutable once created.
type PantryIngredient struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Quantity string    `json:"quantity,omitempty"`
	Unit     string    `json:"unit,omitempty"`
	AddedAt  time.Time `json:"added_at"`
}

// GenerationRequest carries the constraints for one recipe generation
// call. Built fresh per call, never persisted.
type GenerationRequest struct {
	Ingredients         []string `json:"ingredients"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	MaxTimeMinutes      int      `json:"max_time_minutes,omitempty"`
	Difficulty          string   `json:"difficulty,omitempty"`
	Servings            int      `json:"servings,omitempty"`
}

// RecipeIngredient is one normalized ingredient line on a recipe.
type RecipeIngredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// Recipe is the canonical recipe shape the rest of the application
// depends on. Produced once by the formatter and treated as immutable
// value data afterwards. Image is always populated, either from the
// image provider or from the fallback photo set.
type Recipe struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Image           string             `json:"image"`
	CookTimeMinutes int                `json:"cook_time_minutes"`
	Difficulty      string             `json:"difficulty"`
	Servings        int                `json:"servings"`
	Ingredients     []RecipeIngredient `json:"ingredients"`
	Instructions    []string           `json:"instructions"`
	DietaryTags     []string           `json:"dietary_tags"`
	CreatedAt       time.Time          `json:"created_at"`
}

// CookingTip is a single tip entry inside a CookingTips bundle.
type CookingTip struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Category   string `json:"category,omitempty"`
	Importance string `json:"importance,omitempty"`
}

// CookingTips bundles the five enhancement categories produced for a
// recipe. Regenerated per recipe view, never mutated.
type CookingTips struct {
	RecipeTips        []CookingTip `json:"recipe_tips"`
	IngredientSecrets []CookingTip `json:"ingredient_secrets"`
	FlavorEnhancers   []CookingTip `json:"flavor_enhancers"`
	CommonPitfalls    []CookingTip `json:"common_pitfalls"`
	PresentationTips  []CookingTip `json:"presentation_tips"`
}

// IsEmpty reports whether no category carries any tip.
func (t *CookingTips) IsEmpty() bool {
	if t == nil {
		return true
	}
	return len(t.RecipeTips) == 0 &&
		len(t.IngredientSecrets) == 0 &&
		len(t.FlavorEnhancers) == 0 &&
		len(t.CommonPitfalls) == 0 &&
		len(t.PresentationTips) == 0
}

// NormalizeDifficulty lower-cases the input and falls back to medium for
// anything outside the accepted set.
func NormalizeDifficulty(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case DifficultyEasy:
		return DifficultyEasy
	case DifficultyHard:
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}
