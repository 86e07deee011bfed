package ai

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/solodev/sapphai/internal/config"
)

// openAIClient implements Client against an OpenAI-compatible
// chat-completions endpoint.
type openAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	tokenPrint  string
	log         *slog.Logger
}

func newOpenAIClient(cfg config.AIConfig, log *slog.Logger) (*openAIClient, error) {
	if cfg.Token == "" {
		return nil, errors.New("ai token is required")
	}

	clientCfg := openai.DefaultConfig(cfg.Token)
	clientCfg.BaseURL = cfg.BaseURL
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &openAIClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		tokenPrint:  fingerprint(cfg.Token),
		log:         log.With("component", "openai_client"),
	}, nil
}

func (c *openAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		cerr := c.classify(err)
		c.log.ErrorContext(ctx, "chat completion failed",
			"kind", cerr.Kind,
			"status", cerr.Status,
			"model", c.model,
			"credential", c.tokenPrint,
			"message_count", len(messages),
			"error", err)
		return "", cerr
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		cerr := &Error{Kind: FailureMalformed, Err: errors.New("response contains no usable choices")}
		c.log.ErrorContext(ctx, "chat completion returned malformed response",
			"model", c.model,
			"credential", c.tokenPrint,
			"choices", len(resp.Choices))
		return "", cerr
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *openAIClient) classify(err error) *Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{Kind: classifyStatus(apiErr.HTTPStatusCode), Status: apiErr.HTTPStatusCode, Err: err}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{Kind: classifyStatus(reqErr.HTTPStatusCode), Status: reqErr.HTTPStatusCode, Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: FailureTimeout, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return &Error{Kind: FailureTimeout, Err: err}
		}
		return &Error{Kind: FailureNetwork, Err: err}
	}

	return &Error{Kind: FailureUnknown, Err: err}
}
