// Package openai adapts the OpenAI chat completions API to the
// ai.ContentGenerator interface.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/spigell/talent-scout/internal/secrets"
)

const (
	defaultModel       = "gpt-4o-mini"
	defaultTemperature = 0.1
	defaultTimeout     = 30 * time.Second
)

// Config holds the OpenAI provider settings.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
	// BaseURL overrides the API endpoint, for OpenAI-compatible backends
	// and tests.
	BaseURL string
}

// Generator produces JSON-formatted completions from OpenAI models.
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewGenerator validates the configuration and builds a generator.
func NewGenerator(cfg *Config, logger *zap.Logger) (*Generator, error) {
	if cfg == nil {
		return nil, errors.New("openai config is required")
	}

	if secrets.IsPlaceholder(cfg.APIKey) {
		return nil, errors.New("openai api key is required")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Generator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: temperature,
		logger:      logger,
	}, nil
}

// GenerateContent sends the prompt pair and returns the model's text. The
// request asks for a JSON object response.
func (g *Generator) GenerateContent(ctx context.Context, system, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	g.logger.Debug("openai chat completion request", zap.String("model", g.model))

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai api error (%d): %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("openai request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("openai returned empty content")
	}

	return content, nil
}

// Model returns the configured model identifier.
func (g *Generator) Model() string {
	return g.model
}
