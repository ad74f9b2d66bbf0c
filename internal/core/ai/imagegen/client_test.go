package imagegen

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func urlModeConfig() *config.ImageProviderConfig {
	return &config.ImageProviderConfig{
		Mode:    "url",
		BaseURL: "https://image.example.com",
		Model:   "flux",
		Width:   1024,
		Height:  768,
		Timeout: time.Second,
	}
}

func apiModeConfig(baseURL string) *config.ImageProviderConfig {
	return &config.ImageProviderConfig{
		Mode:    "api",
		BaseURL: baseURL,
		APIKey:  "img-key",
		Model:   "image-model",
		Timeout: 2 * time.Second,
	}
}

func TestGenerateImageURLMode(t *testing.T) {
	client := NewClient(urlModeConfig())

	got, err := client.GenerateImage(context.Background(), "Tomato Soup",
		[]string{"tomatoes", "basil", "cream", "onion"}, StyleOptions{Style: StyleRustic})
	require.NoError(t, err)

	parsed, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "image.example.com", parsed.Host)

	// Prompt carries the title and only the three leading ingredients.
	assert.Contains(t, parsed.Path, "Tomato Soup")
	assert.Contains(t, parsed.Path, "basil")
	assert.NotContains(t, parsed.Path, "onion")
	assert.Contains(t, parsed.Path, "rustic")

	query := parsed.Query()
	assert.Equal(t, "1024", query.Get("width"))
	assert.Equal(t, "768", query.Get("height"))
	assert.Equal(t, "flux", query.Get("model"))
	assert.NotEmpty(t, query.Get("seed"))
}

func TestGenerateImageURLModeDeterministic(t *testing.T) {
	client := NewClient(urlModeConfig())

	first, err := client.GenerateImage(context.Background(), "Pad Thai", []string{"noodles"}, StyleOptions{})
	require.NoError(t, err)
	second, err := client.GenerateImage(context.Background(), "Pad Thai", []string{"noodles"}, StyleOptions{})
	require.NoError(t, err)

	assert.Equal(t, first, second)

	other, err := client.GenerateImage(context.Background(), "Laksa", []string{"noodles"}, StyleOptions{})
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestGenerateImageUnknownStyleFallsBack(t *testing.T) {
	client := NewClient(urlModeConfig())

	got, err := client.GenerateImage(context.Background(), "Dish", nil, StyleOptions{Style: "vaporwave"})
	require.NoError(t, err)
	assert.Contains(t, got, url.PathEscape("professional food photography"))
}

func TestGenerateImageAPIModeExtractsURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices": [{"message": {"content": "Here you go: https://cdn.example.com/dish-42.png enjoy!"}}]}`)
	}))
	defer server.Close()

	client := NewClient(apiModeConfig(server.URL))
	got, err := client.GenerateImage(context.Background(), "Dish", nil, StyleOptions{})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/dish-42.png", got)
}

func TestGenerateImageAPIModeExtractsDataURI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content": "data:image/png;base64,iVBORw0KGgoAAAANSUhEUg=="}`)
	}))
	defer server.Close()

	client := NewClient(apiModeConfig(server.URL))
	got, err := client.GenerateImage(context.Background(), "Dish", nil, StyleOptions{})
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgoAAAANSUhEUg==", got)
}

func TestGenerateImageAPIModeNoImageInReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices": [{"message": {"content": "I cannot generate images."}}]}`)
	}))
	defer server.Close()

	client := NewClient(apiModeConfig(server.URL))
	got, err := client.GenerateImage(context.Background(), "Dish", nil, StyleOptions{})

	// A reply with no image is a normal negative, not an error.
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGenerateImageAPIModeNotConfigured(t *testing.T) {
	cfg := apiModeConfig("http://localhost")
	cfg.APIKey = ""
	client := NewClient(cfg)

	_, err := client.GenerateImage(context.Background(), "Dish", nil, StyleOptions{})
	require.Error(t, err)
	assert.Equal(t, common.ErrCodeNotConfigured, common.Kind(err))
}

func TestGenerateImageAPIModeProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(apiModeConfig(server.URL))
	_, err := client.GenerateImage(context.Background(), "Dish", nil, StyleOptions{})
	require.Error(t, err)
	assert.Equal(t, common.ErrCodeProviderError, common.Kind(err))
}
