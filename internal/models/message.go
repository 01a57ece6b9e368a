package models

import (
	"strings"
	"time"
)

// Role identifies the author of a conversation message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation message. Messages are immutable once
// created and ordered by CreatedAt within a session.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// UserMessages returns only the user-authored messages, preserving order
func UserMessages(messages []Message) []Message {
	var out []Message
	for _, m := range messages {
		if m.Role == RoleUser {
			out = append(out, m)
		}
	}
	return out
}

// ConversationText concatenates all message contents in order
func ConversationText(messages []Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.Content)
	}
	return b.String()
}
