// Package llm wraps the generative model used by the planning endpoints
// behind a small JSON-in/JSON-out interface.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// ErrInvalidJSON is returned when the model produced no usable JSON payload.
var ErrInvalidJSON = errors.New("llm: invalid JSON from model")

// Client generates a JSON document from a prompt plus a JSON-encodable input.
type Client interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	Close() error
}

// Config selects and configures a provider.
type Config struct {
	Provider string
	APIKey   string
	Model    string
}

// New builds the configured client: "fake" and "groq" are explicit,
// everything else goes to Gemini.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "fake":
		return &FakeClient{}, nil
	case "groq":
		return NewGroqClient(cfg.APIKey, cfg.Model)
	default:
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	}
}
