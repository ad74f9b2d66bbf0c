package recipe

import (
	"strings"
	"testing"

	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseRaw(t *testing.T, body string) map[string]interface{} {
	t.Helper()
	var raw map[string]interface{}
	require.NoError(t, common.ParseJSON(body, &raw))
	return raw
}

func testResolver() *FallbackResolver {
	return NewFallbackResolver(config.FallbackConfig{})
}

const validRecipeJSON = `{
	"title": "Garlic Butter Pasta",
	"description": "Quick weeknight pasta.",
	"cook_time_minutes": 25,
	"difficulty": "easy",
	"servings": 2,
	"ingredients": [
		{"name": "spaghetti", "quantity": "200", "unit": "g"},
		{"name": "garlic", "quantity": "3", "unit": "cloves"}
	],
	"instructions": ["Boil the pasta", "Saute the garlic", "Toss together"],
	"dietary_tags": ["vegetarian"]
}`

func TestFormatRecipeHappyPath(t *testing.T) {
	recipe, err := FormatRecipe(parseRaw(t, validRecipeJSON), testResolver())
	require.NoError(t, err)

	assert.Equal(t, "Garlic Butter Pasta", recipe.Title)
	assert.Equal(t, 25, recipe.CookTimeMinutes)
	assert.Equal(t, common.DifficultyEasy, recipe.Difficulty)
	assert.Equal(t, 2, recipe.Servings)
	assert.Equal(t, []string{"vegetarian"}, recipe.DietaryTags)
	assert.NotEmpty(t, recipe.ID)
	assert.NotEmpty(t, recipe.Image)
	require.Len(t, recipe.Instructions, 3)
	assert.Equal(t, "Step 1: Boil the pasta", recipe.Instructions[0])
	assert.Equal(t, "Step 3: Toss together", recipe.Instructions[2])
}

func TestFormatRecipeIdempotent(t *testing.T) {
	raw := parseRaw(t, validRecipeJSON)

	first, err := FormatRecipe(raw, testResolver())
	require.NoError(t, err)
	second, err := FormatRecipe(raw, testResolver())
	require.NoError(t, err)

	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.CookTimeMinutes, second.CookTimeMinutes)
	assert.Equal(t, first.Difficulty, second.Difficulty)
	assert.Equal(t, first.Servings, second.Servings)
	assert.Equal(t, first.Ingredients, second.Ingredients)
	assert.Equal(t, first.Instructions, second.Instructions)
	assert.Equal(t, first.DietaryTags, second.DietaryTags)
}

func TestFormatRecipeReprefixesSteps(t *testing.T) {
	raw := parseRaw(t, `{
		"title": "Omelette",
		"ingredients": ["eggs"],
		"instructions": ["Step 3: Crack the eggs", "step 1. Whisk well", "STEP 2 - Fry gently", "Serve hot"]
	}`)

	recipe, err := FormatRecipe(raw, testResolver())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Step 1: Crack the eggs",
		"Step 2: Whisk well",
		"Step 3: Fry gently",
		"Step 4: Serve hot",
	}, recipe.Instructions)
}

func TestFormatRecipeClampsNumbers(t *testing.T) {
	cases := []struct {
		name         string
		cookTime     string
		servings     string
		wantCookTime int
		wantServings int
	}{
		{"non-numeric falls to defaults", `"abc"`, `"xyz"`, common.DefaultCookTimeMinutes, common.DefaultServings},
		{"below minimum falls to defaults", `-5`, `0`, common.DefaultCookTimeMinutes, common.DefaultServings},
		{"above maximum clamps to maximum", `1000`, `99`, common.MaxCookTimeMinutes, common.MaxServings},
		{"numeric string parses", `"45"`, `"6"`, 45, 6},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := parseRaw(t, `{
				"title": "Test Dish",
				"cook_time_minutes": `+tc.cookTime+`,
				"servings": `+tc.servings+`,
				"ingredients": ["salt"],
				"instructions": ["Do the thing"]
			}`)

			recipe, err := FormatRecipe(raw, testResolver())
			require.NoError(t, err)
			assert.Equal(t, tc.wantCookTime, recipe.CookTimeMinutes)
			assert.Equal(t, tc.wantServings, recipe.Servings)
		})
	}
}

func TestFormatRecipeDifficultyNormalization(t *testing.T) {
	cases := map[string]string{
		"EASY":    common.DifficultyEasy,
		"Hard":    common.DifficultyHard,
		"extreme": common.DifficultyMedium,
		"":        common.DifficultyMedium,
	}

	for input, want := range cases {
		raw := parseRaw(t, `{
			"title": "Test Dish",
			"difficulty": "`+input+`",
			"ingredients": ["salt"],
			"instructions": ["Do the thing"]
		}`)

		recipe, err := FormatRecipe(raw, testResolver())
		require.NoError(t, err)
		assert.Equal(t, want, recipe.Difficulty, "difficulty %q", input)
	}
}

func TestFormatRecipeRejectsIncompleteObjects(t *testing.T) {
	cases := []struct {
		name string
		body string
		code string
	}{
		{
			"missing title",
			`{"ingredients": ["salt"], "instructions": ["Stir"]}`,
			common.ErrCodeMissingTitle,
		},
		{
			"blank title",
			`{"title": "   ", "ingredients": ["salt"], "instructions": ["Stir"]}`,
			common.ErrCodeMissingTitle,
		},
		{
			"empty ingredients",
			`{"title": "Dish", "ingredients": [], "instructions": ["Stir"]}`,
			common.ErrCodeMissingIngredients,
		},
		{
			"missing instructions",
			`{"title": "Dish", "ingredients": ["salt"]}`,
			common.ErrCodeMissingInstructions,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recipe, err := FormatRecipe(parseRaw(t, tc.body), testResolver())
			require.Error(t, err)
			assert.Nil(t, recipe)
			assert.Equal(t, tc.code, common.Kind(err))
		})
	}
}

func TestFormatRecipePromotesStringIngredients(t *testing.T) {
	raw := parseRaw(t, `{
		"title": "Toast",
		"ingredients": ["bread", {"name": "butter", "quantity": "10", "unit": "g"}, {"quantity": "2"}],
		"instructions": ["Toast the bread"]
	}`)

	recipe, err := FormatRecipe(raw, testResolver())
	require.NoError(t, err)
	require.Len(t, recipe.Ingredients, 3)

	assert.Equal(t, common.RecipeIngredient{Name: "bread", Quantity: "1", Unit: "piece"}, recipe.Ingredients[0])
	assert.Equal(t, common.RecipeIngredient{Name: "butter", Quantity: "10", Unit: "g"}, recipe.Ingredients[1])
	assert.Equal(t, common.RecipeIngredient{Name: "Unknown ingredient", Quantity: "2", Unit: "piece"}, recipe.Ingredients[2])
}

func TestFormatRecipeFillsDefaults(t *testing.T) {
	raw := parseRaw(t, `{
		"title": "Plain Rice",
		"ingredients": ["rice"],
		"instructions": ["Cook the rice"]
	}`)

	recipe, err := FormatRecipe(raw, testResolver())
	require.NoError(t, err)

	assert.Equal(t, common.DefaultCookTimeMinutes, recipe.CookTimeMinutes)
	assert.Equal(t, common.DefaultServings, recipe.Servings)
	assert.Equal(t, common.DifficultyMedium, recipe.Difficulty)
	assert.Equal(t, []string{"general"}, recipe.DietaryTags)
	assert.NotEmpty(t, recipe.Description)
	assert.True(t, strings.HasPrefix(recipe.ID, "ai_"), "generated id %q", recipe.ID)
}

func TestFormatRecipeImageNeverEmpty(t *testing.T) {
	raw := parseRaw(t, `{
		"title": "Creamy Spaghetti",
		"ingredients": ["spaghetti"],
		"instructions": ["Boil"]
	}`)

	recipe, err := FormatRecipe(raw, testResolver())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultFallbackImages()["pasta"], recipe.Image)
}

func TestFormatRecipeImageStableForMultiBucketTitle(t *testing.T) {
	// The title matches both the pasta and soup keyword buckets; the
	// fallback photo must come out the same on every formatting pass.
	raw := parseRaw(t, `{
		"title": "Pasta Soup",
		"ingredients": ["macaroni", "broth"],
		"instructions": ["Simmer everything"]
	}`)

	want := config.DefaultFallbackImages()["pasta"]
	for i := 0; i < 100; i++ {
		recipe, err := FormatRecipe(raw, testResolver())
		require.NoError(t, err)
		assert.Equal(t, want, recipe.Image)
	}
}

func TestFormatRecipeKeepsProvidedImage(t *testing.T) {
	raw := parseRaw(t, `{
		"title": "Dish",
		"image": "https://example.com/dish.png",
		"ingredients": ["salt"],
		"instructions": ["Stir"]
	}`)

	recipe, err := FormatRecipe(raw, testResolver())
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/dish.png", recipe.Image)
}
