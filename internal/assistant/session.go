// Package assistant keeps the floating chat widget's transcript. The session
// is independent of the rest of the workspace except for the user identity,
// lives only in memory and resets when the workspace restarts.
package assistant

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/datahiredevops/datahire-workspace/internal/types"
)

// failedReply is shown in place of a reply when a send fails, keeping the
// transcript a consistent append-only sequence instead of surfacing an error
// out of band.
const failedReply = "Sorry, I couldn't process that message. Please try again."

// Chatter sends one user message and returns the assistant's reply text.
type Chatter interface {
	Chat(ctx context.Context, userID int, message string) (string, error)
}

// Session is one user's assistant conversation. Every send appends exactly
// two messages: the user's, then either the reply or a failure placeholder.
// Messages are never removed or edited.
type Session struct {
	mu sync.Mutex

	id       string
	chatter  Chatter
	userID   int
	messages []types.ChatMessage

	now func() time.Time
}

// NewSession opens an empty session for the user.
func NewSession(chatter Chatter, userID int) *Session {
	return &Session{
		id:      uuid.NewString(),
		chatter: chatter,
		userID:  userID,
		now:     time.Now,
	}
}

// ID returns the session's identifier, fresh per workspace lifetime.
func (s *Session) ID() string {
	return s.id
}

// Send appends the user's message, awaits the reply and appends it. A failed
// send appends a visible placeholder instead of a reply; Send itself never
// returns an error. Blank messages are ignored.
func (s *Session) Send(ctx context.Context, message string) types.ChatMessage {
	message = strings.TrimSpace(message)
	if message == "" {
		return types.ChatMessage{}
	}

	s.mu.Lock()
	s.messages = append(s.messages, types.ChatMessage{
		Role:    types.RoleUser,
		Content: message,
		At:      s.now(),
	})
	s.mu.Unlock()

	reply, err := s.chatter.Chat(ctx, s.userID, message)
	msg := types.ChatMessage{Role: types.RoleAssistant, Content: reply, At: s.now()}
	if err != nil {
		log.Printf("[assistant] send failed for session %s: %v", s.id, err)
		msg.Content = failedReply
		msg.Failed = true
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	return msg
}

// Transcript returns a copy of the conversation so far, in order.
func (s *Session) Transcript() []types.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages in the transcript.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}
