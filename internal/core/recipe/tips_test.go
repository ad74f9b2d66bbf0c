package recipe

import (
	"context"
	"net/http"
	"testing"

	"pantry-chef/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const richTipsReply = "```json\n" + `{
	"recipe_tips": [{"title": "Low and slow", "content": "Simmer gently.", "category": "technique", "importance": "high"}],
	"ingredient_secrets": [{"title": "Fresh garlic", "content": "Use fresh cloves.", "category": "ingredients", "importance": "medium"}],
	"flavor_enhancers": [{"title": "Acid at the end", "content": "Finish with lemon.", "category": "flavor", "importance": "medium"}],
	"common_pitfalls": [{"title": "Burnt garlic", "content": "Garlic burns fast.", "category": "pitfalls", "importance": "high"}],
	"presentation_tips": [{"title": "Herbs on top", "content": "Scatter parsley.", "category": "presentation", "importance": "low"}]
}` + "\n```"

const genericTipsReply = `{
	"ingredient_secrets": [{"title": "Season early", "content": "Salt the base.", "category": "ingredients"}],
	"flavor_enhancers": [{"title": "Umami boost", "content": "A splash of soy.", "category": "flavor"}],
	"common_pitfalls": [{"title": "High heat", "content": "Keep it medium.", "category": "pitfalls"}],
	"presentation_tips": [{"title": "Warm plates", "content": "Serve on warm plates.", "category": "presentation"}]
}`

func tipsRecipe() *common.Recipe {
	return &common.Recipe{
		ID:    "ai_test",
		Title: "Chickpea Curry",
		Ingredients: []common.RecipeIngredient{
			{Name: "chickpeas", Quantity: "400", Unit: "g"},
		},
	}
}

func TestEnhancementsRichStrategy(t *testing.T) {
	text := &scriptedCompleter{script: []completion{{reply: richTipsReply}}}
	svc := newTestService(text, &stubGenerator{}, nil)

	tips := svc.GetRecipeEnhancements(context.Background(), tipsRecipe())
	require.NotNil(t, tips)
	assert.Equal(t, 1, text.calls)

	require.Len(t, tips.RecipeTips, 1)
	assert.Equal(t, "Low and slow", tips.RecipeTips[0].Title)
	assert.Len(t, tips.IngredientSecrets, 1)
	assert.Len(t, tips.PresentationTips, 1)
}

func TestEnhancementsDegradeToGeneric(t *testing.T) {
	text := &scriptedCompleter{script: []completion{
		{reply: "I have no tips for that recipe."},
		{reply: genericTipsReply},
	}}
	svc := newTestService(text, &stubGenerator{}, nil)

	tips := svc.GetRecipeEnhancements(context.Background(), tipsRecipe())
	require.NotNil(t, tips)
	assert.Equal(t, 2, text.calls)

	assert.Empty(t, tips.RecipeTips)
	require.Len(t, tips.IngredientSecrets, 1)
	assert.Equal(t, "Season early", tips.IngredientSecrets[0].Title)
}

func TestEnhancementsMinimalFallback(t *testing.T) {
	text := &scriptedCompleter{script: []completion{
		{err: common.NewError(common.ErrCodeRateLimited, "slow down", http.StatusTooManyRequests, nil)},
	}}
	svc := newTestService(text, &stubGenerator{}, nil)

	tips := svc.GetRecipeEnhancements(context.Background(), tipsRecipe())
	require.NotNil(t, tips)

	// Both provider strategies were attempted before degrading.
	assert.Equal(t, 2, text.calls)

	assert.NotEmpty(t, tips.RecipeTips)
	assert.NotEmpty(t, tips.IngredientSecrets)
	assert.NotEmpty(t, tips.FlavorEnhancers)
	assert.NotEmpty(t, tips.CommonPitfalls)
	assert.NotEmpty(t, tips.PresentationTips)

	// The minimal bundle is personalized with the leading ingredient
	// and a dish-type read of the title.
	assert.Contains(t, tips.IngredientSecrets[0].Content, "chickpeas")
	assert.Contains(t, tips.RecipeTips[0].Content, "curry")
}

func TestEnhancementsRejectEmptyBundle(t *testing.T) {
	// A parseable but empty object is treated as a failure and the
	// chain keeps degrading.
	text := &scriptedCompleter{script: []completion{
		{reply: "{}"},
		{reply: "{}"},
	}}
	svc := newTestService(text, &stubGenerator{}, nil)

	tips := svc.GetRecipeEnhancements(context.Background(), tipsRecipe())
	require.NotNil(t, tips)
	assert.Equal(t, 2, text.calls)
	assert.False(t, tips.IsEmpty())
}

func TestEnhancementsWithoutIngredients(t *testing.T) {
	text := &scriptedCompleter{script: []completion{
		{err: common.NewError(common.ErrCodeNetworkError, "down", http.StatusBadGateway, nil)},
	}}
	svc := newTestService(text, &stubGenerator{}, nil)

	tips := svc.GetRecipeEnhancements(context.Background(), &common.Recipe{Title: "Mystery Bake"})
	require.NotNil(t, tips)
	assert.Contains(t, tips.IngredientSecrets[0].Content, "your main ingredient")
}
