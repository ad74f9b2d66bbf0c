package recipe

import (
	"errors"
	"io"
	"net/http"

	recipeService "pantry-chef/internal/core/recipe"
	"pantry-chef/internal/infrastructure/storage"
	"pantry-chef/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerateRequest is the body for POST /recipe/generate.
type GenerateRequest struct {
	Ingredients         []string `json:"ingredients" binding:"required"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	MaxTimeMinutes      int      `json:"max_time_minutes,omitempty"`
	Difficulty          string   `json:"difficulty,omitempty"`
	Servings            int      `json:"servings,omitempty"`
}

// GenerateFromPantryRequest is the body for POST
// /recipe/generate-from-pantry. The ingredient list comes from the
// stored pantry, so only the constraints are accepted.
type GenerateFromPantryRequest struct {
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	MaxTimeMinutes      int      `json:"max_time_minutes,omitempty"`
	Difficulty          string   `json:"difficulty,omitempty"`
	Servings            int      `json:"servings,omitempty"`
}

// TipsRequest is the body for POST /recipe/tips.
type TipsRequest struct {
	Recipe common.Recipe `json:"recipe" binding:"required"`
}

// Handler serves the recipe generation and enhancement endpoints.
type Handler struct {
	service *recipeService.Service
	pantry  *storage.PantryStore
}

// NewHandler creates the recipe handler.
func NewHandler(service *recipeService.Service, pantry *storage.PantryStore) *Handler {
	return &Handler{service: service, pantry: pantry}
}

// HandleGenerate runs the full generation pipeline and returns the
// canonical recipe.
func (h *Handler) HandleGenerate(c *gin.Context) {
	requestID := ensureRequestID(c)

	common.LogInfo("Recipe generation requested",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("Invalid generation request",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
			"code":  common.ErrCodeInvalidInput,
		})
		return
	}

	recipe, err := h.service.GenerateRecipe(c.Request.Context(), common.GenerationRequest{
		Ingredients:         req.Ingredients,
		DietaryRestrictions: req.DietaryRestrictions,
		MaxTimeMinutes:      req.MaxTimeMinutes,
		Difficulty:          req.Difficulty,
		Servings:            req.Servings,
	})
	if err != nil {
		common.LogError("Recipe generation failed",
			zap.Error(err),
			zap.String("code", common.Kind(err)),
			zap.String("request_id", requestID),
		)
		writeError(c, err)
		return
	}

	common.LogInfo("Recipe generation succeeded",
		zap.String("request_id", requestID),
		zap.String("recipe_id", recipe.ID),
		zap.String("title", recipe.Title),
	)

	c.JSON(http.StatusOK, recipe)
}

// HandleGenerateFromPantry runs the generation pipeline over whatever
// is currently in the pantry. An empty pantry reads as an empty
// ingredient list and is rejected by the orchestrator.
func (h *Handler) HandleGenerateFromPantry(c *gin.Context) {
	requestID := ensureRequestID(c)

	// The body is optional; an absent one means no extra constraints.
	var req GenerateFromPantryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		common.LogWarn("Invalid pantry generation request",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
			"code":  common.ErrCodeInvalidInput,
		})
		return
	}

	ingredients := h.pantry.Names()
	common.LogInfo("Pantry recipe generation requested",
		zap.String("request_id", requestID),
		zap.Int("pantry_items", len(ingredients)),
	)

	recipe, err := h.service.GenerateRecipe(c.Request.Context(), common.GenerationRequest{
		Ingredients:         ingredients,
		DietaryRestrictions: req.DietaryRestrictions,
		MaxTimeMinutes:      req.MaxTimeMinutes,
		Difficulty:          req.Difficulty,
		Servings:            req.Servings,
	})
	if err != nil {
		common.LogError("Pantry recipe generation failed",
			zap.Error(err),
			zap.String("code", common.Kind(err)),
			zap.String("request_id", requestID),
		)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// HandleTips returns a cooking tips bundle for an existing recipe. The
// fallback chain inside the service guarantees a 200 with content.
func (h *Handler) HandleTips(c *gin.Context) {
	requestID := ensureRequestID(c)

	var req TipsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Recipe.Title == "" {
		if err == nil {
			err = errors.New("recipe title is required")
		}
		common.LogWarn("Invalid tips request",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
			"code":  common.ErrCodeInvalidInput,
		})
		return
	}

	tips := h.service.GetRecipeEnhancements(c.Request.Context(), &req.Recipe)

	common.LogInfo("Cooking tips served",
		zap.String("request_id", requestID),
		zap.String("recipe_id", req.Recipe.ID),
	)

	c.JSON(http.StatusOK, tips)
}

func ensureRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}
	return requestID
}

// writeError answers with the tagged error's status, message and code.
func writeError(c *gin.Context, err error) {
	c.JSON(common.StatusOf(err), gin.H{
		"error":     err.Error(),
		"code":      common.Kind(err),
		"retryable": common.IsRetryable(err),
	})
}
