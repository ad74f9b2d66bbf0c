package recipe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pantry-chef/internal/core/ai/cache"
	"pantry-chef/internal/core/ai/imagegen"
	"pantry-chef/internal/core/ai/normalize"
	"pantry-chef/internal/core/ai/textgen"
	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// enhanceDelay spaces the detached image attempt away from the main
// response so it does not contend with response rendering.
const defaultEnhanceDelay = 500 * time.Millisecond

// Service is the orchestrator the HTTP surface calls. It sequences the
// text client, normalizer, formatter and image client, owns the
// user-facing error wording, and runs the tips fallback chain.
type Service struct {
	cfg          *config.Config
	text         textgen.Completer
	image        imagegen.Generator
	completions  cache.Store
	fallback     *FallbackResolver
	enhanceDelay time.Duration
}

// NewService wires the orchestrator. completions may be nil when the
// cache is disabled.
func NewService(cfg *config.Config, text textgen.Completer, image imagegen.Generator, completions cache.Store) *Service {
	return &Service{
		cfg:          cfg,
		text:         text,
		image:        image,
		completions:  completions,
		fallback:     NewFallbackResolver(cfg.Fallback),
		enhanceDelay: defaultEnhanceDelay,
	}
}

// GenerateRecipe produces a canonical recipe for the request. An empty
// ingredient list is rejected before any provider call. The image
// enhancement at the end is best-effort: its failure never fails the
// recipe.
func (s *Service) GenerateRecipe(ctx context.Context, req common.GenerationRequest) (*common.Recipe, error) {
	recipe, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	if url, imgErr := s.generateImage(ctx, recipe); imgErr == nil && url != "" {
		recipe.Image = url
	} else if imgErr != nil {
		common.LogWarn("Image enhancement failed, keeping fallback photo",
			zap.Error(imgErr),
			zap.String("recipe_id", recipe.ID),
		)
	}

	return recipe, nil
}

// GenerateRecipeAsync returns the recipe immediately with its fallback
// image and delivers a generated image through onImage later. On
// enhancement failure onImage receives the existing fallback image, so
// the callback always fires exactly once.
func (s *Service) GenerateRecipeAsync(ctx context.Context, req common.GenerationRequest, onImage func(imageURL string)) (*common.Recipe, error) {
	recipe, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	fallbackImage := recipe.Image
	go func() {
		time.Sleep(s.enhanceDelay)

		// The request context is gone once the caller has its recipe.
		imgCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ImageProvider.Timeout)
		defer cancel()

		url, imgErr := s.generateImage(imgCtx, recipe)
		if imgErr != nil || url == "" {
			if imgErr != nil {
				common.LogWarn("Async image enhancement failed",
					zap.Error(imgErr),
					zap.String("recipe_id", recipe.ID),
				)
			}
			onImage(fallbackImage)
			return
		}
		onImage(url)
	}()

	return recipe, nil
}

// generate runs the text pipeline: validate, prompt, complete,
// normalize, format, cap to the requested time budget.
func (s *Service) generate(ctx context.Context, req common.GenerationRequest) (*common.Recipe, error) {
	if len(req.Ingredients) == 0 {
		return nil, common.NewError(common.ErrCodeInvalidInput,
			"🧺 Add some ingredients to your pantry before generating a recipe.",
			http.StatusBadRequest, nil)
	}

	prompt := buildRecipePrompt(req)
	content, err := s.complete(ctx, recipeSystemPrompt, prompt, s.cfg.TextProvider.Temperature)
	if err != nil {
		return nil, s.translateError(err)
	}

	raw, err := normalize.ExtractObject(content)
	if err != nil {
		common.LogError("Failed to extract recipe JSON",
			zap.Error(err),
			zap.String("content_preview", common.Truncate(content, 300)),
		)
		return nil, s.translateError(err)
	}

	recipe, err := FormatRecipe(raw, s.fallback)
	if err != nil {
		return nil, s.translateError(err)
	}

	if req.MaxTimeMinutes > 0 && recipe.CookTimeMinutes > req.MaxTimeMinutes {
		recipe.CookTimeMinutes = req.MaxTimeMinutes
	}

	common.LogInfo("Recipe generated",
		zap.String("recipe_id", recipe.ID),
		zap.String("title", recipe.Title),
		zap.Int("steps", len(recipe.Instructions)),
	)

	return recipe, nil
}

// complete runs one completion through the cache.
func (s *Service) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	if s.completions != nil {
		if cached, ok := s.completions.Get(ctx, user); ok {
			common.LogDebug("Serving completion from cache")
			return cached, nil
		}
	}

	content, err := s.text.Complete(ctx, []textgen.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, temperature)
	if err != nil {
		return "", err
	}

	if s.completions != nil {
		s.completions.Set(ctx, user, content)
	}
	return content, nil
}

func (s *Service) generateImage(ctx context.Context, recipe *common.Recipe) (string, error) {
	names := make([]string, len(recipe.Ingredients))
	for i, ing := range recipe.Ingredients {
		names[i] = ing.Name
	}
	return s.image.GenerateImage(ctx, recipe.Title, names, imagegen.StyleOptions{
		Style: imagegen.StyleFoodPhotography,
	})
}

// translateError rewords pipeline errors for the user, dispatching on
// the tagged kind. The original error stays wrapped for diagnostics.
func (s *Service) translateError(err error) error {
	ce := func(code, msg string, status int) error {
		return common.NewError(code, msg, status, err)
	}

	switch common.Kind(err) {
	case common.ErrCodeInvalidInput:
		return err
	case common.ErrCodeNotConfigured:
		return ce(common.ErrCodeNotConfigured,
			"🔑 The AI provider is not configured. Check your API key.",
			http.StatusServiceUnavailable)
	case common.ErrCodeAuthFailed:
		return ce(common.ErrCodeAuthFailed,
			"🔑 The AI provider rejected the API key. Check your credentials.",
			http.StatusUnauthorized)
	case common.ErrCodeRateLimited:
		return ce(common.ErrCodeRateLimited,
			"⏳ Too many requests right now. Wait a moment and try again.",
			http.StatusTooManyRequests)
	case common.ErrCodeProviderUnavailable:
		return ce(common.ErrCodeProviderUnavailable,
			"🛠️ The AI service is temporarily unavailable. Try again shortly.",
			http.StatusServiceUnavailable)
	case common.ErrCodeNetworkError:
		return ce(common.ErrCodeNetworkError,
			"🌐 Could not reach the AI service. Check your connection and retry.",
			http.StatusBadGateway)
	case common.ErrCodeEmptyResponse, common.ErrCodeFormatError:
		return ce(common.Kind(err),
			"🍳 The AI returned an incomplete answer. Try generating again.",
			http.StatusBadGateway)
	case common.ErrCodeMissingTitle, common.ErrCodeMissingIngredients, common.ErrCodeMissingInstructions:
		return ce(common.Kind(err),
			"🍳 The AI produced an unusable recipe. Try generating again.",
			http.StatusBadGateway)
	default:
		return ce(common.ErrCodeInternalError,
			fmt.Sprintf("Recipe generation failed: %v", err),
			http.StatusInternalServerError)
	}
}
