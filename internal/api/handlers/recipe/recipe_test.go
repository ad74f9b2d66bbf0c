package recipe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pantry-chef/internal/core/ai/imagegen"
	"pantry-chef/internal/core/ai/textgen"
	recipeService "pantry-chef/internal/core/recipe"
	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/infrastructure/storage"
	"pantry-chef/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCompleter struct {
	lastPrompt string
	reply      string
	err        error
}

func (f *fixedCompleter) Complete(ctx context.Context, messages []textgen.Message, temperature float64) (string, error) {
	for _, m := range messages {
		if m.Role == "user" {
			f.lastPrompt = m.Content
		}
	}
	return f.reply, f.err
}

type fixedGenerator struct{ url string }

func (g *fixedGenerator) GenerateImage(ctx context.Context, title string, ingredients []string, opts imagegen.StyleOptions) (string, error) {
	return g.url, nil
}

const recipeReply = "```json\n" + `{
	"title": "Pantry Fried Rice",
	"ingredients": [{"name": "rice", "quantity": "2", "unit": "cups"}],
	"instructions": ["Cook the rice", "Fry it all together"]
}` + "\n```"

func newTestRouter(t *testing.T, completer *fixedCompleter) (*gin.Engine, *storage.PantryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		TextProvider:  config.TextProviderConfig{Temperature: 0.7},
		ImageProvider: config.ImageProviderConfig{Timeout: time.Second},
	}
	store := storage.NewPantryStore(filepath.Join(t.TempDir(), "pantry.json"))
	svc := recipeService.NewService(cfg, completer, &fixedGenerator{url: "https://example.com/dish.png"}, nil)
	h := NewHandler(svc, store)

	r := gin.New()
	r.POST("/generate", h.HandleGenerate)
	r.POST("/generate-from-pantry", h.HandleGenerateFromPantry)
	r.POST("/tips", h.HandleTips)
	return r, store
}

func do(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateFromPantryUsesStoredIngredients(t *testing.T) {
	completer := &fixedCompleter{reply: recipeReply}
	r, store := newTestRouter(t, completer)

	store.Add("rice", "1", "kg")
	store.Add("garlic", "3", "cloves")

	w := do(r, "/generate-from-pantry", `{"servings": 2}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var recipe common.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipe))
	assert.Equal(t, "Pantry Fried Rice", recipe.Title)

	// The stored pantry names reached the provider prompt.
	assert.Contains(t, completer.lastPrompt, "rice, garlic")
}

func TestGenerateFromPantryAcceptsEmptyBody(t *testing.T) {
	completer := &fixedCompleter{reply: recipeReply}
	r, store := newTestRouter(t, completer)
	store.Add("rice", "", "")

	w := do(r, "/generate-from-pantry", "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestGenerateFromPantryRejectsEmptyPantry(t *testing.T) {
	completer := &fixedCompleter{reply: recipeReply}
	r, _ := newTestRouter(t, completer)

	w := do(r, "/generate-from-pantry", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, common.ErrCodeInvalidInput, resp.Code)
	assert.Empty(t, completer.lastPrompt)
}

func TestGenerateRejectsMalformedBody(t *testing.T) {
	r, _ := newTestRouter(t, &fixedCompleter{reply: recipeReply})

	w := do(r, "/generate", `{"ingredients": "not-a-list"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateMapsProviderErrors(t *testing.T) {
	completer := &fixedCompleter{
		err: common.NewError(common.ErrCodeRateLimited, "slow down", http.StatusTooManyRequests, nil),
	}
	r, _ := newTestRouter(t, completer)

	w := do(r, "/generate", `{"ingredients": ["rice"]}`)
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp struct {
		Code      string `json:"code"`
		Retryable bool   `json:"retryable"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, common.ErrCodeRateLimited, resp.Code)
	assert.True(t, resp.Retryable)
}
