package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	TextProvider  TextProviderConfig  `mapstructure:"text_provider"`
	ImageProvider ImageProviderConfig `mapstructure:"image_provider"`
	Cache         CacheConfig         `mapstructure:"cache"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	Fallback      FallbackConfig      `mapstructure:"fallback"`
	Pantry        PantryConfig        `mapstructure:"pantry"`
	DedupWindow   time.Duration       `mapstructure:"dedup_window"`
	LogLevel      string              `mapstructure:"log_level"`
}

// AppConfig holds application identity settings.
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// TextProviderConfig configures the chat-completions provider.
type TextProviderConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	MinInterval time.Duration `mapstructure:"min_interval"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ImageProviderConfig configures dish photo generation. Mode "url"
// builds an unauthenticated image URL locally; mode "api" posts to an
// authenticated endpoint and extracts a URL or data URI from the reply.
type ImageProviderConfig struct {
	Mode    string        `mapstructure:"mode"`
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Width   int           `mapstructure:"width"`
	Height  int           `mapstructure:"height"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig configures the completion cache. When RedisAddr is set the
// cache is backed by Redis, otherwise by an in-process TTL+LRU map.
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	RedisAddr       string        `mapstructure:"redis_addr"`
}

// RateLimitConfig configures the inbound request limiter.
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// FallbackConfig maps dish-type buckets to keyword lists and stock
// photos. The category set is fixed; the keyword-to-bucket mapping is
// data, overridable without touching code.
type FallbackConfig struct {
	Keywords     map[string][]string `mapstructure:"keywords"`
	Images       map[string]string   `mapstructure:"images"`
	DefaultImage string              `mapstructure:"default_image"`
}

// PantryConfig configures the local pantry snapshot.
type PantryConfig struct {
	Path string `mapstructure:"path"`
}

// LoadConfig reads .env, applies defaults and env bindings, and
// validates the result.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	setDefaults()

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.BindEnv("text_provider.api_key", "TEXT_PROVIDER_API_KEY")
	viper.BindEnv("text_provider.model", "TEXT_PROVIDER_MODEL")
	viper.BindEnv("text_provider.base_url", "TEXT_PROVIDER_BASE_URL")
	viper.BindEnv("image_provider.mode", "IMAGE_PROVIDER_MODE")
	viper.BindEnv("image_provider.api_key", "IMAGE_PROVIDER_API_KEY")
	viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	viper.BindEnv("cache.redis_addr", "CACHE_REDIS_ADDR")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("dedup_window", "DEDUP_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Logger is not up yet, plain stdout is fine here.
	fmt.Println("Loading configuration",
		"text_provider_api_key:", maskAPIKey(viper.GetString("text_provider.api_key")),
		"text_provider_model:", viper.GetString("text_provider.model"))

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// maskAPIKey keeps only the first and last four characters.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "pantry-chef")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	viper.SetDefault("text_provider.base_url", "https://openrouter.ai/api/v1")
	viper.SetDefault("text_provider.key_prefix", "sk-or-")
	viper.SetDefault("text_provider.model", "meta-llama/llama-3.3-70b-instruct:free")
	viper.SetDefault("text_provider.max_tokens", 2048)
	viper.SetDefault("text_provider.temperature", 0.7)
	viper.SetDefault("text_provider.min_interval", "1s")
	viper.SetDefault("text_provider.timeout", "60s")

	viper.SetDefault("image_provider.mode", "url")
	viper.SetDefault("image_provider.base_url", "https://image.pollinations.ai")
	viper.SetDefault("image_provider.model", "flux")
	viper.SetDefault("image_provider.width", 1024)
	viper.SetDefault("image_provider.height", 768)
	viper.SetDefault("image_provider.timeout", "45s")

	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_size", 1000)
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("cache.cleanup_interval", "10m")
	viper.SetDefault("cache.redis_addr", "")

	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	viper.SetDefault("pantry.path", "data/pantry.json")

	viper.SetDefault("dedup_window", "1s")
	viper.SetDefault("log_level", "info")

	viper.SetDefault("fallback.keywords", DefaultFallbackKeywords())
	viper.SetDefault("fallback.images", DefaultFallbackImages())
	viper.SetDefault("fallback.default_image", defaultGeneralImage)
}

const defaultGeneralImage = "https://images.unsplash.com/photo-1546069901-ba9599a7e63c?w=1024&q=80"

// DefaultFallbackKeywords is the built-in dish-type keyword mapping.
func DefaultFallbackKeywords() map[string][]string {
	return map[string][]string{
		"pasta":    {"pasta", "spaghetti", "noodle", "penne", "linguine", "macaroni"},
		"salad":    {"salad", "slaw", "greens"},
		"soup":     {"soup", "broth", "stew", "chowder", "bisque"},
		"curry":    {"curry", "masala", "tikka", "korma"},
		"stirfry":  {"stir-fry", "stir fry", "stirfry", "wok", "fry"},
		"pizza":    {"pizza", "flatbread", "margherita"},
		"sandwich": {"sandwich", "burger", "wrap", "toast", "panini"},
		"rice":     {"rice", "risotto", "paella", "pilaf", "fried rice"},
	}
}

// DefaultFallbackImages maps each dish-type bucket to one stock photo.
func DefaultFallbackImages() map[string]string {
	return map[string]string{
		"pasta":    "https://images.unsplash.com/photo-1621996346565-e3dbc646d9a9?w=1024&q=80",
		"salad":    "https://images.unsplash.com/photo-1512621776951-a57141f2eefd?w=1024&q=80",
		"soup":     "https://images.unsplash.com/photo-1547592166-23ac45744acd?w=1024&q=80",
		"curry":    "https://images.unsplash.com/photo-1565557623262-b51c2513a641?w=1024&q=80",
		"stirfry":  "https://images.unsplash.com/photo-1512058564366-18510be2db19?w=1024&q=80",
		"pizza":    "https://images.unsplash.com/photo-1513104890138-7c749659a591?w=1024&q=80",
		"sandwich": "https://images.unsplash.com/photo-1528735602780-2552fd46c7af?w=1024&q=80",
		"rice":     "https://images.unsplash.com/photo-1516684732162-798a0062be99?w=1024&q=80",
		"general":  defaultGeneralImage,
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	if config.TextProvider.BaseURL == "" {
		return fmt.Errorf("text provider base url is required")
	}

	switch config.ImageProvider.Mode {
	case "url", "api":
	default:
		return fmt.Errorf("invalid image provider mode %q", config.ImageProvider.Mode)
	}

	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 {
			return fmt.Errorf("invalid rate limit requests")
		}
		if config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit window")
		}
	}

	return nil
}
