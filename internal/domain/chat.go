package domain

import (
	"fmt"
	"strings"
	"time"
)

// ChatRole enumerates chat message authors.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ParseChatRole validates a chat role.
func ParseChatRole(v string) (ChatRole, error) {
	switch r := ChatRole(v); r {
	case ChatRoleUser, ChatRoleAssistant:
		return r, nil
	}
	return "", fmt.Errorf("%w: chat role %q", ErrInvalidInput, v)
}

// ChatMessage is one turn of a conversation attached to a consultation.
type ChatMessage struct {
	ID             string
	UserID         string
	ConsultationID string
	Role           ChatRole
	Content        string
	CreatedAt      time.Time
}

// Validate reports whether m may be stored.
func (m *ChatMessage) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: chat message is required", ErrInvalidInput)
	}
	if strings.TrimSpace(m.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if _, err := ParseChatRole(string(m.Role)); err != nil {
		return err
	}
	if strings.TrimSpace(m.Content) == "" {
		return fmt.Errorf("%w: message content is required", ErrInvalidInput)
	}
	return nil
}
