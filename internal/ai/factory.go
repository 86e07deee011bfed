package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/solodev/sapphai/internal/config"
)

// New creates a completion client for the configured backend. It acts as
// a factory, selecting either the OpenAI or Gemini implementation.
func New(ctx context.Context, cfg config.AIConfig, log *slog.Logger) (Client, error) {
	log.Info("initializing completion client", "provider", cfg.Provider, "model", cfg.Model)

	switch cfg.Provider {
	case "openai":
		return newOpenAIClient(cfg, log)
	case "gemini":
		return newGeminiClient(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown ai provider: %s", cfg.Provider)
	}
}
