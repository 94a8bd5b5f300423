// Package openrouter implements textgen.Completer over an OpenAI-compatible
// chat completions API.
package openrouter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Overland-East-Bay/itinerary-planner/internal/platform/logger"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/textgen"
)

const (
	DefaultMaxTokens   = 2000
	DefaultTemperature = 0.7
	DefaultTimeout     = 30 * time.Second

	appTitle = "Travel Itinerary Builder"
)

// ErrEmptyCompletion is returned when the upstream answers without any text.
var ErrEmptyCompletion = errors.New("empty completion")

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// AppURL is sent as HTTP-Referer so the upstream can attribute traffic.
	AppURL string

	MaxTokens   int64
	Temperature float64
	Timeout     time.Duration

	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Completer struct {
	client      openai.Client
	configured  bool
	model       string
	maxTokens   int64
	temperature float64
	log         *slog.Logger
}

func New(cfg Config) *Completer {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(1),
		option.WithHeader("X-Title", appTitle),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"))
	}
	if cfg.AppURL != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.AppURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Completer{
		client:      openai.NewClient(opts...),
		configured:  cfg.APIKey != "",
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		log:         logger.OrDefault(cfg.Logger),
	}
}

func (c *Completer) Complete(ctx context.Context, system, prompt string) (string, error) {
	if !c.configured {
		return "", textgen.ErrNotConfigured
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(c.maxTokens),
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			c.log.Warn("completion rejected",
				slog.Int("status", apiErr.StatusCode),
				slog.String("model", c.model),
			)
			return "", fmt.Errorf("upstream status %d: %w", apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("completion request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
