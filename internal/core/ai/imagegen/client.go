package imagegen

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Style descriptors accepted by StyleOptions.
const (
	StyleFoodPhotography = "food-photography"
	StyleMinimalist      = "minimalist"
	StyleRustic          = "rustic"
	StyleElegant         = "elegant"
)

// StyleOptions tunes the generated photo prompt.
type StyleOptions struct {
	Style   string
	Quality string
}

// Generator produces a dish photo URL, or "" when no image could be
// obtained. An empty result is a normal negative outcome, not an error;
// the caller substitutes a fallback photo.
type Generator interface {
	GenerateImage(ctx context.Context, title string, ingredients []string, opts StyleOptions) (string, error)
}

// Client implements Generator against either an unauthenticated
// URL-construction provider or an authenticated chat-style endpoint.
type Client struct {
	cfg    *config.ImageProviderConfig
	client *resty.Client
}

var (
	urlPattern     = regexp.MustCompile(`https?://\S+\.(?:png|jpe?g|webp)(?:\?\S*)?`)
	dataURIPattern = regexp.MustCompile(`data:image/[a-z]+;base64,[A-Za-z0-9+/=]+`)

	styleDescriptors = map[string]string{
		StyleFoodPhotography: "professional food photography, shallow depth of field",
		StyleMinimalist:      "minimalist plating on a plain background",
		StyleRustic:          "rustic presentation on a wooden table",
		StyleElegant:         "elegant fine-dining presentation",
	}
)

// NewClient creates an image client from config.
func NewClient(cfg *config.ImageProviderConfig) *Client {
	return &Client{
		cfg: cfg,
		client: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(cfg.Timeout),
	}
}

// GenerateImage returns a dish photo URL for the title and leading
// ingredients, or "" when the provider had nothing usable.
func (c *Client) GenerateImage(ctx context.Context, title string, ingredients []string, opts StyleOptions) (string, error) {
	prompt := buildPrompt(title, ingredients, opts)

	if c.cfg.Mode == "url" {
		return c.buildURL(prompt), nil
	}
	return c.requestImage(ctx, prompt)
}

// buildPrompt embeds the title, up to three leading ingredients, and
// the style and quality descriptors.
func buildPrompt(title string, ingredients []string, opts StyleOptions) string {
	desc, ok := styleDescriptors[opts.Style]
	if !ok {
		desc = styleDescriptors[StyleFoodPhotography]
	}
	quality := opts.Quality
	if quality == "" {
		quality = "high detail, appetizing lighting"
	}

	var sb strings.Builder
	sb.WriteString("A photo of ")
	sb.WriteString(title)
	if len(ingredients) > 0 {
		lead := ingredients
		if len(lead) > 3 {
			lead = lead[:3]
		}
		sb.WriteString(", featuring ")
		sb.WriteString(strings.Join(lead, ", "))
	}
	sb.WriteString(", ")
	sb.WriteString(desc)
	sb.WriteString(", ")
	sb.WriteString(quality)
	return sb.String()
}

// buildURL constructs the deterministic unauthenticated image URL. The
// URL itself is the deliverable; nothing is fetched here.
func (c *Client) buildURL(prompt string) string {
	u := fmt.Sprintf("%s/prompt/%s?width=%d&height=%d&seed=%d&model=%s",
		strings.TrimRight(c.cfg.BaseURL, "/"),
		url.PathEscape(prompt),
		c.cfg.Width,
		c.cfg.Height,
		promptSeed(prompt),
		url.QueryEscape(c.cfg.Model),
	)
	common.LogDebug("Built image URL",
		zap.String("url", common.Truncate(u, 200)),
	)
	return u
}

// promptSeed derives a stable seed so the same dish renders the same
// photo across sessions.
func promptSeed(prompt string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(prompt))
	return h.Sum32()
}

// requestImage posts to the authenticated endpoint and pattern-matches
// a URL or base64 data URI out of the reply text.
func (c *Client) requestImage(ctx context.Context, prompt string) (imageURL string, err error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", common.NewError(common.ErrCodeNotConfigured,
			"image provider API key is not configured", http.StatusServiceUnavailable, nil)
	}

	body := map[string]interface{}{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	start := time.Now()
	defer func() {
		common.LogAICall("image_generation", c.cfg.Model, time.Since(start), err)
	}()

	resp, httpErr := c.client.R().
		SetContext(ctx).
		SetAuthToken(c.cfg.APIKey).
		SetBody(body).
		Post("/chat/completions")
	if httpErr != nil {
		return "", common.NewError(common.ErrCodeNetworkError,
			"network failure while contacting the image provider", http.StatusBadGateway, httpErr)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", common.NewError(common.ErrCodeProviderError,
			fmt.Sprintf("image provider error (%d)", resp.StatusCode()),
			http.StatusBadGateway, nil)
	}

	text := resp.String()
	if m := urlPattern.FindString(text); m != "" {
		return m, nil
	}
	if m := dataURIPattern.FindString(text); m != "" {
		return m, nil
	}

	// No image in the reply. Not an error, the caller falls back.
	common.LogWarn("Image provider reply contained no image",
		zap.Int("body_length", len(text)),
	)
	return "", nil
}
