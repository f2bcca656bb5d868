package types

import "time"

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one entry of the assistant transcript. Transcripts are
// session-scoped and in-memory only.
type ChatMessage struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
	// Failed marks an assistant-role entry that stands in for a reply the
	// server never produced.
	Failed bool `json:"failed,omitempty"`
}

// ChatRequest is the body of POST /agent/chat.
type ChatRequest struct {
	UserID  int    `json:"user_id"`
	Message string `json:"message"`
}

// ChatResponse is the payload returned by POST /agent/chat.
type ChatResponse struct {
	Response string `json:"response"`
}
