package models

import "github.com/google/uuid"

// Role identifies who produced a chat message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// ChatMessage is one turn in the design conversation. Messages are
// append-only; after creation only the transient flags are toggled.
type ChatMessage struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
	Text string    `json:"text"`

	// Interim marks a voice transcript that is still being finalized.
	// The finalized message replaces it — the two never coexist.
	Interim bool `json:"interim,omitempty"`

	// Speaking is set while voice playback of this message is running.
	// Toggled by message ID, never by position, so out-of-order network
	// completions cannot flip the wrong message.
	Speaking bool `json:"speaking,omitempty"`
}

// NewChatMessage creates a message with a fresh ID.
func NewChatMessage(role Role, text string) ChatMessage {
	return ChatMessage{ID: uuid.New(), Role: role, Text: text}
}
