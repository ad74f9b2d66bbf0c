package recipe

import (
	"fmt"
	"strings"

	"pantry-chef/internal/pkg/common"
)

const recipeSystemPrompt = `You are a professional chef who writes clear, beginner-friendly recipes. Always answer with a single JSON object and nothing else: no markdown fences, no commentary. All keys and string values must use double quotes.`

const tipsSystemPrompt = `You are a seasoned cooking instructor sharing practical kitchen tips. Always answer with a single JSON object and nothing else.`

// buildRecipePrompt renders the fixed recipe template for one
// generation request.
func buildRecipePrompt(req common.GenerationRequest) string {
	var sb strings.Builder

	sb.WriteString("Create a recipe using these ingredients: ")
	sb.WriteString(strings.Join(req.Ingredients, ", "))
	sb.WriteString(".\n")

	if len(req.DietaryRestrictions) > 0 {
		sb.WriteString(fmt.Sprintf("Dietary restrictions: %s.\n", strings.Join(req.DietaryRestrictions, ", ")))
	}
	if req.MaxTimeMinutes > 0 {
		sb.WriteString(fmt.Sprintf("Total cooking time must not exceed %d minutes.\n", req.MaxTimeMinutes))
	}
	if req.Difficulty != "" {
		sb.WriteString(fmt.Sprintf("Difficulty level: %s.\n", common.NormalizeDifficulty(req.Difficulty)))
	}
	servings := req.Servings
	if servings <= 0 {
		servings = common.DefaultServings
	}
	sb.WriteString(fmt.Sprintf("The recipe must serve %d people.\n", servings))

	sb.WriteString(`
Requirements:
1. Use only the listed ingredients plus common pantry staples (salt, pepper, oil, water).
2. Every instruction step must be specific enough for a beginner, with times and temperatures.
3. cook_time_minutes and servings must be integers.
4. difficulty must be exactly one of "easy", "medium" or "hard".

Return JSON in exactly this shape:
{
"title": "Recipe name",
"description": "One or two appetizing sentences",
"cook_time_minutes": 30,
"difficulty": "easy",
"servings": 2,
"ingredients": [
{"name": "ingredient", "quantity": "2", "unit": "cups"}
],
"instructions": ["First step", "Second step"],
"dietary_tags": ["vegetarian"]
}
`)

	return sb.String()
}

// buildRichTipsPrompt asks for the full five-category tip bundle for a
// specific recipe.
func buildRichTipsPrompt(r *common.Recipe) string {
	names := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		names = append(names, ing.Name)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Share cooking tips for making %q with: %s.\n", r.Title, strings.Join(names, ", ")))
	sb.WriteString(`
Return JSON in exactly this shape, with 2-3 entries per category:
{
"recipe_tips": [{"title": "...", "content": "...", "category": "technique", "importance": "high"}],
"ingredient_secrets": [{"title": "...", "content": "...", "category": "ingredients", "importance": "medium"}],
"flavor_enhancers": [{"title": "...", "content": "...", "category": "flavor", "importance": "medium"}],
"common_pitfalls": [{"title": "...", "content": "...", "category": "pitfalls", "importance": "high"}],
"presentation_tips": [{"title": "...", "content": "...", "category": "presentation", "importance": "low"}]
}
`)
	return sb.String()
}

// buildGenericTipsPrompt asks for the simpler title-agnostic bundle
// based only on the ingredient list.
func buildGenericTipsPrompt(r *common.Recipe) string {
	names := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		names = append(names, ing.Name)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Share general cooking tips for dishes made with: %s.\n", strings.Join(names, ", ")))
	sb.WriteString(`
Return JSON in exactly this shape, with 1-2 entries per category:
{
"ingredient_secrets": [{"title": "...", "content": "..."}],
"flavor_enhancers": [{"title": "...", "content": "..."}],
"common_pitfalls": [{"title": "...", "content": "..."}],
"presentation_tips": [{"title": "...", "content": "..."}]
}
`)
	return sb.String()
}
