// Package ai provides the completion-service client used to generate
// replies, with implementations for multiple backends behind a common
// interface. Every upstream failure resolves to a classified *Error;
// nothing escapes this package unclassified.
package ai

import (
	"context"
	"errors"
	"fmt"
)

// Message roles accepted by the completion request.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a role/content pair in the composed prompt.
type Message struct {
	Role    string
	Content string
}

// Client generates a reply from a composed message sequence. The call is
// bounded by the configured request timeout.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// FailureKind classifies a completion failure for observability. All
// kinds degrade identically; the orchestrator falls back regardless.
type FailureKind string

const (
	FailureAuth        FailureKind = "auth"
	FailureRateLimited FailureKind = "rate_limited"
	FailureUnavailable FailureKind = "unavailable"
	FailureNetwork     FailureKind = "network"
	FailureTimeout     FailureKind = "timeout"
	FailureMalformed   FailureKind = "malformed_response"
	FailureUnknown     FailureKind = "unknown"
)

// Error is a classified completion failure.
type Error struct {
	Kind   FailureKind
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("completion failed (%s)", e.Kind)
	}
	return fmt.Sprintf("completion failed (%s): %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure classification from an error returned by a
// Client, defaulting to unknown.
func KindOf(err error) FailureKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return FailureUnknown
}

// StatusOf extracts the upstream HTTP status from a classified error, or
// zero when the failure never reached the service.
func StatusOf(err error) int {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Status
	}
	return 0
}

// fingerprint returns a log-safe credential suffix. The full credential is
// never logged.
func fingerprint(token string) string {
	const visible = 4
	if len(token) <= visible {
		return "..."
	}
	return "..." + token[len(token)-visible:]
}

func classifyStatus(status int) FailureKind {
	switch {
	case status == 401 || status == 403:
		return FailureAuth
	case status == 429:
		return FailureRateLimited
	case status >= 500:
		return FailureUnavailable
	default:
		return FailureUnknown
	}
}
