package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/solodev/sapphai/internal/config"
)

// geminiClient implements Client using the Google GenAI SDK.
type geminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	timeout     time.Duration
	tokenPrint  string
	log         *slog.Logger
}

func newGeminiClient(ctx context.Context, cfg config.AIConfig, log *slog.Logger) (*geminiClient, error) {
	if cfg.Token == "" {
		return nil, errors.New("ai token is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Token,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiClient{
		client:      gi,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   int32(cfg.MaxTokens),
		timeout:     cfg.Timeout,
		tokenPrint:  fingerprint(cfg.Token),
		log:         log.With("component", "gemini_client"),
	}, nil
}

func (c *geminiClient) Complete(ctx context.Context, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	temperature := c.temperature
	genCfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: c.maxTokens,
	}

	// The system message travels as a system instruction; the rest map to
	// user/model turns.
	var contents []*genai.Content
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			genCfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: m.Content}}}
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, genCfg)
	if err != nil {
		cerr := c.classify(err)
		c.log.ErrorContext(ctx, "content generation failed",
			"kind", cerr.Kind,
			"status", cerr.Status,
			"model", c.model,
			"credential", c.tokenPrint,
			"message_count", len(messages),
			"error", err)
		return "", cerr
	}

	text := resp.Text()
	if text == "" {
		cerr := &Error{Kind: FailureMalformed, Err: errors.New("response contains no text")}
		c.log.ErrorContext(ctx, "content generation returned empty response",
			"model", c.model,
			"credential", c.tokenPrint)
		return "", cerr
	}

	return text, nil
}

func (c *geminiClient) classify(err error) *Error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		return &Error{Kind: classifyStatus(apiErr.Code), Status: apiErr.Code, Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: FailureTimeout, Err: err}
	}

	return &Error{Kind: FailureNetwork, Err: err}
}
