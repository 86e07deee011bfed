// Package chat implements the conversation orchestrator: it composes the
// safety gate, conversation store, persona, completion client, and reply
// formatter into the end-to-end processing of one user turn.
package chat

import (
	"context"
	"log/slog"

	"github.com/solodev/sapphai/internal/ai"
	"github.com/solodev/sapphai/internal/format"
	"github.com/solodev/sapphai/internal/logger"
	"github.com/solodev/sapphai/internal/memory"
	"github.com/solodev/sapphai/internal/persona"
	"github.com/solodev/sapphai/internal/safety"
)

// AnonymousUserID is used when the caller supplies no user identity.
const AnonymousUserID = "anonymous"

// firstTurnInstruction augments the system prompt on a user's first turn.
const firstTurnInstruction = "\n\nIMPORTANT: This is the user's first message. Include the support message at the beginning of your response."

// Result is the outcome of one processed turn.
type Result struct {
	Reply     string
	IsNewUser bool
	Filtered  bool
	Fallback  bool
}

// Service orchestrates one user turn at a time. It is safe for concurrent
// use; two in-flight turns for the same user may interleave, and whichever
// completion resolves first is appended first.
type Service struct {
	persona     *persona.Persona
	store       *memory.Store
	client      ai.Client
	supportLink string
	log         *slog.Logger
}

// NewService wires the orchestrator's collaborators.
func NewService(p *persona.Persona, store *memory.Store, client ai.Client, supportLink string, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		persona:     p,
		store:       store,
		client:      client,
		supportLink: supportLink,
		log:         log.With("component", "chat_service"),
	}
}

// Process handles a single user turn.
//
// Safety-filtered messages short-circuit before any state mutation: the
// filtered turn is not recorded in conversation history. A completion
// failure of any classification degrades to the formatted fallback reply;
// fallback replies are terminal output only and are never persisted as
// assistant turns. The support latch is set as soon as the new-user branch
// is entered, even if the completion later fails.
func (s *Service) Process(ctx context.Context, userID, message string) Result {
	if userID == "" {
		userID = AnonymousUserID
	}

	if !safety.IsSafe(message) {
		s.log.WarnContext(ctx, "safety filter triggered",
			"user_id", userID,
			"message_length", len(message))
		return Result{
			Reply:    format.Reply(s.persona.Deflection(), s.persona.Alias()),
			Filtered: true,
		}
	}

	s.log.InfoContext(ctx, "processing turn",
		"user_id", userID,
		"message_preview", logger.Truncate(message, 50))

	isNewUser := !s.store.HasSeenSupport(userID)

	s.store.Append(userID, memory.RoleUser, message)

	systemPrompt := s.persona.SystemPrompt()
	if isNewUser {
		systemPrompt += firstTurnInstruction
		s.store.MarkSupportShown(userID)
	}

	// The recent window already ends with the user message appended above.
	history := s.store.Recent(userID, memory.DefaultRecentWindow)
	messages := make([]ai.Message, 0, len(history)+1)
	messages = append(messages, ai.Message{Role: ai.RoleSystem, Content: systemPrompt})
	for _, m := range history {
		messages = append(messages, ai.Message{Role: m.Role, Content: m.Content})
	}

	reply, err := s.client.Complete(ctx, messages)
	if err != nil {
		s.log.ErrorContext(ctx, "completion failed, using fallback reply",
			"user_id", userID,
			"kind", ai.KindOf(err),
			"status", ai.StatusOf(err),
			"message_length", len(message),
			"error", err)
		return Result{
			Reply:     format.Reply(s.persona.Fallback(), s.persona.Alias()),
			IsNewUser: isNewUser,
			Fallback:  true,
		}
	}

	if isNewUser {
		reply = s.persona.SupportMessage(s.supportLink) + "\n\n" + reply
	}

	reply = format.Reply(reply, s.persona.Alias())
	s.store.Append(userID, memory.RoleAssistant, reply)

	s.log.InfoContext(ctx, "turn completed", "user_id", userID, "is_new_user", isNewUser)

	return Result{Reply: reply, IsNewUser: isNewUser}
}

// History returns the user's full retained conversation log.
func (s *Service) History(userID string) []memory.Message {
	return s.store.All(userID)
}

// ClearHistory discards the user's conversation log.
func (s *Service) ClearHistory(userID string) {
	s.store.Clear(userID)
}

// About exposes the persona projection for the informational endpoint.
func (s *Service) About() persona.About {
	return s.persona.About()
}
