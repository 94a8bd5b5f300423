package config

import (
	"strings"
	"time"
)

// ClientConfig configures the planner client (cmd/planner).
type ClientConfig struct {
	APIBaseURL string `env:"PLANNER_API_BASE_URL" envDefault:"http://localhost:8080"`
	// CacheDir holds the durable local cache. Empty keeps the cache in memory.
	CacheDir string `env:"PLANNER_CACHE_DIR"`
	// HTTPTimeout bounds each backend request. Zero means no timeout beyond the transport's.
	HTTPTimeout time.Duration `env:"PLANNER_HTTP_TIMEOUT" envDefault:"0s"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`
}

func (c *ClientConfig) Sanitize() {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.HTTPTimeout < 0 {
		c.HTTPTimeout = 0
	}
}

func LoadClient(files ...string) (ClientConfig, error) {
	var cfg ClientConfig
	if err := load(&cfg, files...); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}
