// Package memory implements the per-user conversation store. All state is
// process-lifetime only; nothing survives a restart.
package memory

import (
	"log/slog"
	"sync"
	"time"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	// maxConversationLength caps each user's retained log; older messages
	// are dropped from the front.
	maxConversationLength = 20

	// DefaultRecentWindow is the number of messages fed to the completion
	// request, independent of the retention cap.
	DefaultRecentWindow = 6
)

// Message is a single conversation entry. Immutable once appended.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}

type conversation struct {
	messages []Message
	lastSeen time.Time
}

// Store tracks per-user conversations and the one-way support latch.
// Unknown users are created transparently on first access. The number of
// tracked users is capped: when a new user would exceed the cap, the least
// recently active user is evicted, latch included.
type Store struct {
	mu            sync.Mutex
	conversations map[string]*conversation
	supportShown  map[string]struct{}
	maxUsers      int
	log           *slog.Logger
}

// NewStore creates an empty store bounded to maxUsers tracked identities.
func NewStore(maxUsers int, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		conversations: make(map[string]*conversation),
		supportShown:  make(map[string]struct{}),
		maxUsers:      maxUsers,
		log:           log.With("component", "memory_store"),
	}
}

// locked; creates the conversation and applies the user cap.
func (s *Store) conversationFor(userID string) *conversation {
	conv, ok := s.conversations[userID]
	if !ok {
		if len(s.conversations) >= s.maxUsers {
			s.evictOldest()
		}
		conv = &conversation{}
		s.conversations[userID] = conv
	}
	conv.lastSeen = time.Now()
	return conv
}

// locked; removes the least recently active user.
func (s *Store) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, conv := range s.conversations {
		if oldestID == "" || conv.lastSeen.Before(oldest) {
			oldestID = id
			oldest = conv.lastSeen
		}
	}
	if oldestID != "" {
		delete(s.conversations, oldestID)
		delete(s.supportShown, oldestID)
		s.log.Info("evicted least recently active user", "user_id", oldestID, "last_seen", oldest)
	}
}

// Append adds a timestamped message to the user's conversation, trimming
// from the front when the retention cap is exceeded.
func (s *Store) Append(userID, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.conversationFor(userID)
	conv.messages = append(conv.messages, Message{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
	if len(conv.messages) > maxConversationLength {
		conv.messages = conv.messages[len(conv.messages)-maxConversationLength:]
	}
}

// Recent returns a copy of the last limit messages in append order.
func (s *Store) Recent(userID string, limit int) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.conversationFor(userID)
	start := len(conv.messages) - limit
	if start < 0 {
		start = 0
	}
	out := make([]Message, len(conv.messages)-start)
	copy(out, conv.messages[start:])
	return out
}

// All returns a copy of the user's full retained log.
func (s *Store) All(userID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.conversationFor(userID)
	out := make([]Message, len(conv.messages))
	copy(out, conv.messages)
	return out
}

// Clear discards the user's conversation log. The support latch is left
// untouched.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, userID)
}

// MarkSupportShown latches the user as having seen the support message.
// There is no unset operation.
func (s *Store) MarkSupportShown(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supportShown[userID] = struct{}{}
}

// HasSeenSupport reports whether the user's support latch is set.
func (s *Store) HasSeenSupport(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.supportShown[userID]
	return ok
}

// UserCount returns the number of tracked user identities.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations)
}

// EvictIdle removes every user whose last activity is older than ttl,
// latch included, and returns the number of evicted users.
func (s *Store) EvictIdle(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-ttl)
	evicted := 0
	for id, conv := range s.conversations {
		if conv.lastSeen.Before(cutoff) {
			delete(s.conversations, id)
			delete(s.supportShown, id)
			evicted++
		}
	}
	return evicted
}
