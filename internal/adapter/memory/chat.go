package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"farmaai/internal/domain"
)

// ChatStore implements domain.ChatRepository.
type ChatStore struct {
	mu    sync.RWMutex
	now   func() time.Time
	items map[string][]domain.ChatMessage
}

func NewChatStore(now func() time.Time) *ChatStore {
	if now == nil {
		now = time.Now
	}
	return &ChatStore{now: now, items: make(map[string][]domain.ChatMessage)}
}

func (s *ChatStore) Append(ctx context.Context, msgs ...*domain.ChatMessage) error {
	for _, msg := range msgs {
		if err := msg.Validate(); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, msg := range msgs {
		m := *msg
		m.ID = uuid.NewString()
		m.CreatedAt = s.now()
		key := chatKey(m.UserID, m.ConsultationID)
		s.items[key] = append(s.items[key], m)
		msg.ID, msg.CreatedAt = m.ID, m.CreatedAt
	}
	return nil
}

func (s *ChatStore) List(ctx context.Context, userID, consultationID string) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ChatMessage(nil), s.items[chatKey(userID, consultationID)]...), nil
}

func chatKey(userID, consultationID string) string {
	return userID + "/" + consultationID
}

var _ domain.ChatRepository = (*ChatStore)(nil)
