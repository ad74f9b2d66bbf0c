package recipe

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"pantry-chef/internal/pkg/common"
)

var stepPrefixPattern = regexp.MustCompile(`(?i)^step\s*\d+\s*[:.\-]?\s*`)

// FormatRecipe turns the dynamic object recovered from a model reply
// into a canonical Recipe. Validation happens before any formatting so
// partial responses never escape as half-built recipes. Pure except
// for the stamped id and timestamp.
func FormatRecipe(raw map[string]interface{}, fallback *FallbackResolver) (*common.Recipe, error) {
	title := strings.TrimSpace(stringField(raw, "title"))
	if title == "" {
		return nil, common.NewError(common.ErrCodeMissingTitle,
			"the generated recipe has no title", http.StatusBadGateway, nil)
	}

	rawIngredients, _ := raw["ingredients"].([]interface{})
	if len(rawIngredients) == 0 {
		return nil, common.NewError(common.ErrCodeMissingIngredients,
			"the generated recipe has no ingredients", http.StatusBadGateway, nil)
	}

	rawInstructions, _ := raw["instructions"].([]interface{})
	if len(rawInstructions) == 0 {
		return nil, common.NewError(common.ErrCodeMissingInstructions,
			"the generated recipe has no instructions", http.StatusBadGateway, nil)
	}

	recipe := &common.Recipe{
		Title:           title,
		Description:     stringField(raw, "description"),
		CookTimeMinutes: clampInt(raw["cook_time_minutes"], common.DefaultCookTimeMinutes, common.MinCookTimeMinutes, common.MaxCookTimeMinutes),
		Difficulty:      common.NormalizeDifficulty(stringField(raw, "difficulty")),
		Servings:        clampInt(raw["servings"], common.DefaultServings, common.MinServings, common.MaxServings),
		Ingredients:     formatIngredients(rawIngredients),
		Instructions:    formatInstructions(rawInstructions),
		DietaryTags:     stringSliceField(raw, "dietary_tags"),
		CreatedAt:       time.Now(),
	}

	if recipe.Description == "" {
		recipe.Description = fmt.Sprintf("A delicious %s made from your pantry.", strings.ToLower(title))
	}
	if len(recipe.DietaryTags) == 0 {
		recipe.DietaryTags = []string{"general"}
	}

	recipe.ID = stringField(raw, "id")
	if recipe.ID == "" {
		recipe.ID = common.NewRecipeID("ai")
	}

	names := make([]string, len(recipe.Ingredients))
	for i, ing := range recipe.Ingredients {
		names[i] = ing.Name
	}
	recipe.Image = stringField(raw, "image")
	if recipe.Image == "" {
		recipe.Image = stringField(raw, "image_url")
	}
	if recipe.Image == "" {
		recipe.Image = fallback.ImageFor(title, names)
	}

	return recipe, nil
}

// formatIngredients promotes bare strings and fills missing fields.
func formatIngredients(raw []interface{}) []common.RecipeIngredient {
	out := make([]common.RecipeIngredient, 0, len(raw))
	for _, entry := range raw {
		switch v := entry.(type) {
		case string:
			out = append(out, common.RecipeIngredient{
				Name:     v,
				Quantity: "1",
				Unit:     "piece",
			})
		case map[string]interface{}:
			ing := common.RecipeIngredient{
				Name:     stringField(v, "name"),
				Quantity: stringField(v, "quantity"),
				Unit:     stringField(v, "unit"),
			}
			if ing.Name == "" {
				ing.Name = "Unknown ingredient"
			}
			if ing.Quantity == "" {
				ing.Quantity = "1"
			}
			if ing.Unit == "" {
				ing.Unit = "piece"
			}
			out = append(out, ing)
		default:
			out = append(out, common.RecipeIngredient{
				Name:     fmt.Sprint(entry),
				Quantity: "1",
				Unit:     "piece",
			})
		}
	}
	return out
}

// formatInstructions strips any existing step prefix and renumbers from
// one, so formatting is idempotent regardless of what the model wrote.
func formatInstructions(raw []interface{}) []string {
	out := make([]string, 0, len(raw))
	for i, entry := range raw {
		text := strings.TrimSpace(fmt.Sprint(entry))
		text = stepPrefixPattern.ReplaceAllString(text, "")
		out = append(out, fmt.Sprintf("Step %d: %s", i+1, text))
	}
	return out
}

// clampInt coerces a dynamic numeric field to an int within [min, max],
// falling back to def for non-numeric or sub-minimum values.
func clampInt(raw interface{}, def, min, max int) int {
	n := def
	switch v := raw.(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			n = int(f)
		}
	case float64:
		n = int(v)
	case int:
		n = v
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			n = parsed
		}
	}
	if n < min {
		n = def
	}
	if n > max {
		n = max
	}
	return n
}

func stringField(raw map[string]interface{}, key string) string {
	if v, ok := raw[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func stringSliceField(raw map[string]interface{}, key string) []string {
	entries, ok := raw[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if s := strings.TrimSpace(fmt.Sprint(e)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
