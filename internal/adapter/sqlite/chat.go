package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"farmaai/internal/domain"
)

// ChatStore implements domain.ChatRepository.
type ChatStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewChatStore(db *gorm.DB, now func() time.Time) *ChatStore {
	if now == nil {
		now = time.Now
	}
	return &ChatStore{db: db, now: now}
}

func (s *ChatStore) Append(ctx context.Context, msgs ...*domain.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	rows := make([]chatRow, 0, len(msgs))
	for _, msg := range msgs {
		if err := msg.Validate(); err != nil {
			return err
		}
		rows = append(rows, chatRow{
			ID:             uuid.NewString(),
			UserID:         msg.UserID,
			ConsultationID: msg.ConsultationID,
			Role:           string(msg.Role),
			Content:        msg.Content,
			CreatedNano:    s.now().UnixNano(),
		})
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return persistenceErr("insert chat messages", err)
	}
	for i, msg := range msgs {
		msg.ID = rows[i].ID
		msg.CreatedAt = fromNano(rows[i].CreatedNano)
	}
	return nil
}

func (s *ChatStore) List(ctx context.Context, userID, consultationID string) ([]domain.ChatMessage, error) {
	var rows []chatRow
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND consultation_id = ?", userID, consultationID).
		Order("created_nano asc").
		Order("rowid asc").
		Find(&rows).Error
	if err != nil {
		return nil, persistenceErr("list chat messages", err)
	}
	out := make([]domain.ChatMessage, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ChatMessage{
			ID:             row.ID,
			UserID:         row.UserID,
			ConsultationID: row.ConsultationID,
			Role:           domain.ChatRole(row.Role),
			Content:        row.Content,
			CreatedAt:      fromNano(row.CreatedNano),
		})
	}
	return out, nil
}

var _ domain.ChatRepository = (*ChatStore)(nil)
