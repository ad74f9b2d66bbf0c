package recipe

import (
	"context"
	"fmt"
	"net/http"

	"pantry-chef/internal/core/ai/normalize"
	"pantry-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// GetRecipeEnhancements produces cooking tips for a recipe through an
// ordered fallback chain: recipe-specific tips, then generic
// ingredient tips, then a hardcoded minimal bundle. Each level is a
// strictly degraded but always-successful result, so this never
// returns an error to the caller.
func (s *Service) GetRecipeEnhancements(ctx context.Context, recipe *common.Recipe) *common.CookingTips {
	strategies := []struct {
		name string
		run  func(context.Context, *common.Recipe) (*common.CookingTips, error)
	}{
		{"recipe_specific", s.richTips},
		{"generic_ingredient", s.genericTips},
	}

	for _, strategy := range strategies {
		tips, err := strategy.run(ctx, recipe)
		if err == nil {
			common.LogInfo("Cooking tips generated",
				zap.String("strategy", strategy.name),
				zap.String("recipe_id", recipe.ID),
			)
			return tips
		}
		common.LogWarn("Tips strategy failed, degrading",
			zap.String("strategy", strategy.name),
			zap.Error(err),
			zap.String("recipe_id", recipe.ID),
		)
	}

	return s.minimalTips(recipe)
}

// richTips asks for the full five-category bundle tied to the recipe
// title.
func (s *Service) richTips(ctx context.Context, recipe *common.Recipe) (*common.CookingTips, error) {
	content, err := s.complete(ctx, tipsSystemPrompt, buildRichTipsPrompt(recipe), s.cfg.TextProvider.Temperature)
	if err != nil {
		return nil, err
	}
	return parseTips(content)
}

// genericTips asks for the simpler title-agnostic bundle.
func (s *Service) genericTips(ctx context.Context, recipe *common.Recipe) (*common.CookingTips, error) {
	content, err := s.complete(ctx, tipsSystemPrompt, buildGenericTipsPrompt(recipe), s.cfg.TextProvider.Temperature)
	if err != nil {
		return nil, err
	}
	return parseTips(content)
}

func parseTips(content string) (*common.CookingTips, error) {
	var tips common.CookingTips
	if err := normalize.ExtractInto(content, &tips); err != nil {
		return nil, err
	}
	if tips.IsEmpty() {
		return nil, common.NewError(common.ErrCodeEmptyResponse,
			"tips reply carried no usable entries", http.StatusBadGateway, nil)
	}
	return &tips, nil
}

// minimalTips builds the last-resort bundle from the first ingredient
// and a crude dish-type read of the title. Always succeeds.
func (s *Service) minimalTips(recipe *common.Recipe) *common.CookingTips {
	ingredient := "your main ingredient"
	if len(recipe.Ingredients) > 0 && recipe.Ingredients[0].Name != "" {
		ingredient = recipe.Ingredients[0].Name
	}
	dish := s.fallback.DishLabel(recipe.Title)

	common.LogInfo("Serving minimal fallback tips",
		zap.String("recipe_id", recipe.ID),
		zap.String("dish_type", dish),
	)

	return &common.CookingTips{
		RecipeTips: []common.CookingTip{
			{
				Title:      "Read the recipe first",
				Content:    fmt.Sprintf("Read every step of this %s before you start so nothing surprises you mid-cook.", dish),
				Category:   "technique",
				Importance: "high",
			},
		},
		IngredientSecrets: []common.CookingTip{
			{
				Title:      fmt.Sprintf("Prep the %s", ingredient),
				Content:    fmt.Sprintf("Cut the %s into even pieces so everything cooks at the same rate.", ingredient),
				Category:   "ingredients",
				Importance: "medium",
			},
		},
		FlavorEnhancers: []common.CookingTip{
			{
				Title:      "Season in layers",
				Content:    "Add a little salt at each stage instead of all at the end, and taste as you go.",
				Category:   "flavor",
				Importance: "medium",
			},
		},
		CommonPitfalls: []common.CookingTip{
			{
				Title:      "Don't crowd the pan",
				Content:    fmt.Sprintf("Overcrowding steams a %s instead of browning it. Cook in batches if needed.", dish),
				Category:   "pitfalls",
				Importance: "high",
			},
		},
		PresentationTips: []common.CookingTip{
			{
				Title:      "Finish fresh",
				Content:    "A squeeze of lemon or a few fresh herbs right before serving brightens the plate.",
				Category:   "presentation",
				Importance: "low",
			},
		},
	}
}
