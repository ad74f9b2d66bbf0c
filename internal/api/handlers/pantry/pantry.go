package pantry

import (
	"net/http"
	"strings"

	"pantry-chef/internal/infrastructure/storage"
	"pantry-chef/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AddRequest is the body for POST /pantry/ingredients.
type AddRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity string `json:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty"`
}

// Handler serves the pantry ingredient endpoints.
type Handler struct {
	store *storage.PantryStore
}

// NewHandler creates the pantry handler.
func NewHandler(store *storage.PantryStore) *Handler {
	return &Handler{store: store}
}

// HandleList returns all pantry ingredients in added order.
func (h *Handler) HandleList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ingredients": h.store.List(),
	})
}

// HandleAdd creates a pantry ingredient. Duplicate names are allowed.
func (h *Handler) HandleAdd(c *gin.Context) {
	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Ingredient name is required",
			"code":  common.ErrCodeInvalidInput,
		})
		return
	}

	item := h.store.Add(req.Name, req.Quantity, req.Unit)

	common.LogInfo("Pantry ingredient added",
		zap.String("id", item.ID),
		zap.String("name", item.Name),
	)

	c.JSON(http.StatusCreated, item)
}

// HandleDelete removes a pantry ingredient by id.
func (h *Handler) HandleDelete(c *gin.Context) {
	id := c.Param("id")
	if !h.store.Remove(id) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Ingredient not found",
			"code":  common.ErrCodeNotFound,
		})
		return
	}

	common.LogInfo("Pantry ingredient removed", zap.String("id", id))

	c.Status(http.StatusNoContent)
}
