package config

import (
	"fmt"
	"strings"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// ServerConfig configures the reference backend (cmd/api).
type ServerConfig struct {
	Port           string `env:"PORT" envDefault:"8080"`
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"memory"`
	DatabaseURL    string `env:"DATABASE_URL"`

	OpenRouterAPIKey  string `env:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL string `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	OpenRouterModel   string `env:"OPENROUTER_MODEL" envDefault:"openai/gpt-3.5-turbo"`
	// AppURL is sent as the HTTP-Referer header on generation calls.
	AppURL string `env:"APP_URL" envDefault:"http://localhost:3000"`

	// GenerateRatePerMin limits generation and question calls per client IP. 0 disables limiting.
	GenerateRatePerMin int `env:"GENERATE_RATE_PER_MIN" envDefault:"10"`

	AvatarDir      string `env:"AVATAR_DIR" envDefault:"./data/avatars"`
	AvatarBaseURL  string `env:"AVATAR_BASE_URL" envDefault:"/avatars"`
	AvatarMaxBytes int64  `env:"AVATAR_MAX_BYTES" envDefault:"2097152"`

	// ImageURLTemplate, when set, has {destination} replaced by the query-escaped
	// destination to produce the imageUrl of a generation response. Empty means null.
	ImageURLTemplate string `env:"IMAGE_URL_TEMPLATE"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

func (c *ServerConfig) Sanitize() {
	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	c.AvatarBaseURL = strings.TrimRight(c.AvatarBaseURL, "/")
	c.OpenRouterBaseURL = strings.TrimRight(c.OpenRouterBaseURL, "/")
	if c.GenerateRatePerMin < 0 {
		c.GenerateRatePerMin = 0
	}
	if c.AvatarMaxBytes <= 0 {
		c.AvatarMaxBytes = 2 << 20
	}
}

func (c ServerConfig) Validate() error {
	switch c.StorageBackend {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q (expected %q or %q)", c.StorageBackend, StorageMemory, StoragePostgres)
	}
	return nil
}

func LoadServer(files ...string) (ServerConfig, error) {
	var cfg ServerConfig
	if err := load(&cfg, files...); err != nil {
		return ServerConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}
