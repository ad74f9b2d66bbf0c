package textgen

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Message is one role-tagged chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer turns an ordered message sequence into raw assistant text.
type Completer interface {
	Complete(ctx context.Context, messages []Message, temperature float64) (string, error)
}

// Clock abstracts time for the throttle so tests run without sleeping.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Client is the chat-completions provider client. One mutable
// last-request timestamp per instance drives a cooperative minimum
// inter-request delay; the mutex is held across the wait so concurrent
// callers queue behind it.
type Client struct {
	cfg    *config.TextProviderConfig
	client *resty.Client
	clock  Clock

	mu          sync.Mutex
	lastRequest time.Time
}

type request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	TopP        float64   `json:"top_p"`
	Stream      bool      `json:"stream"`
}

type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type providerError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient creates a provider client from config.
func NewClient(cfg *config.TextProviderConfig) *Client {
	return NewClientWithClock(cfg, systemClock{})
}

// NewClientWithClock creates a client with an injected clock.
func NewClientWithClock(cfg *config.TextProviderConfig, clock Clock) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("HTTP-Referer", "https://pantry-chef.app").
		SetHeader("X-Title", "Pantry Chef")

	return &Client{
		cfg:    cfg,
		client: client,
		clock:  clock,
	}
}

// Complete sends the messages and returns the assistant text. Fails
// with NOT_CONFIGURED before any network traffic when the credential is
// missing or malformed, and with a tagged provider error otherwise.
func (c *Client) Complete(ctx context.Context, messages []Message, temperature float64) (content string, err error) {
	if err := c.checkCredential(); err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "", common.NewError(common.ErrCodeInvalidInput, "no messages to send", http.StatusBadRequest, nil)
	}
	if temperature < 0 {
		temperature = 0
	} else if temperature > 1 {
		temperature = 1
	}

	c.throttle()

	req := request{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   c.cfg.MaxTokens,
		TopP:        0.9,
		Stream:      false,
	}

	common.LogInfo("Sending completion request",
		zap.String("model", req.Model),
		zap.Int("messages", len(messages)),
		zap.Float64("temperature", temperature),
	)

	start := time.Now()
	defer func() {
		common.LogAICall("text_completion", c.cfg.Model, time.Since(start), err)
	}()

	resp, httpErr := c.client.R().
		SetContext(ctx).
		SetAuthToken(c.cfg.APIKey).
		SetBody(req).
		Post("/chat/completions")
	if httpErr != nil {
		return "", common.NewError(common.ErrCodeNetworkError,
			"network failure while contacting the text provider", http.StatusBadGateway, httpErr)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", c.statusError(resp)
	}

	var result response
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		common.LogError("Unparseable provider response",
			zap.Error(err),
			zap.String("model", req.Model),
			zap.String("body", common.Truncate(resp.String(), 300)),
		)
		return "", common.NewError(common.ErrCodeEmptyResponse,
			"provider returned an unreadable response", http.StatusBadGateway, err)
	}

	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		common.LogError("Empty completion content",
			zap.String("model", req.Model),
		)
		return "", common.NewError(common.ErrCodeEmptyResponse,
			"provider returned no usable text content", http.StatusBadGateway, nil)
	}

	return result.Choices[0].Message.Content, nil
}

// checkCredential validates presence and prefix shape of the API key.
func (c *Client) checkCredential() error {
	key := strings.TrimSpace(c.cfg.APIKey)
	if key == "" {
		return common.NewError(common.ErrCodeNotConfigured,
			"text provider API key is not configured", http.StatusServiceUnavailable, nil)
	}
	if c.cfg.KeyPrefix != "" && !strings.HasPrefix(key, c.cfg.KeyPrefix) {
		return common.NewError(common.ErrCodeNotConfigured,
			fmt.Sprintf("text provider API key does not start with %q", c.cfg.KeyPrefix),
			http.StatusServiceUnavailable, nil)
	}
	return nil
}

// throttle enforces the minimum inter-request delay.
func (c *Client) throttle() {
	if c.cfg.MinInterval <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lastRequest.IsZero() {
		if wait := c.cfg.MinInterval - c.clock.Now().Sub(c.lastRequest); wait > 0 {
			common.LogDebug("Throttling completion request",
				zap.Duration("wait", wait),
			)
			c.clock.Sleep(wait)
		}
	}
	c.lastRequest = c.clock.Now()
}

// statusError maps a non-2xx provider response to a tagged error.
func (c *Client) statusError(resp *resty.Response) error {
	msg := providerMessage(resp.Body())
	status := resp.StatusCode()

	common.LogError("Provider returned error status",
		zap.Int("status_code", status),
		zap.String("message", common.Truncate(msg, 300)),
	)

	switch {
	case status == http.StatusUnauthorized:
		return common.NewError(common.ErrCodeAuthFailed,
			fmt.Sprintf("provider rejected the credential (401): %s", msg),
			http.StatusUnauthorized, nil)
	case status == http.StatusTooManyRequests:
		return common.NewError(common.ErrCodeRateLimited,
			fmt.Sprintf("provider rate limit hit (429): %s", msg),
			http.StatusTooManyRequests, nil)
	case status == http.StatusInternalServerError,
		status == http.StatusBadGateway,
		status == http.StatusServiceUnavailable:
		return common.NewError(common.ErrCodeProviderUnavailable,
			fmt.Sprintf("provider unavailable (%d): %s", status, msg),
			http.StatusServiceUnavailable, nil)
	default:
		return common.NewError(common.ErrCodeProviderError,
			fmt.Sprintf("provider error (%d): %s", status, msg),
			http.StatusBadGateway, nil)
	}
}

func providerMessage(body []byte) string {
	var pe providerError
	if err := common.ParseJSONBytes(body, &pe); err == nil && pe.Error.Message != "" {
		return pe.Error.Message
	}
	return common.Truncate(string(body), 200)
}
