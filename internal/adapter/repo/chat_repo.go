package repo

import (
	"context"

	"farmaai/internal/domain"
	"farmaai/internal/infra"
	"farmaai/internal/sqlinline"
)

// ChatRepositoryPG implements domain.ChatRepository.
type ChatRepositoryPG struct {
	sql TxExecutor
}

func NewChatRepository(sql TxExecutor) *ChatRepositoryPG {
	return &ChatRepositoryPG{sql: sql}
}

// Append inserts msgs in one transaction. IDs and timestamps are only
// copied back once the transaction has committed.
func (r *ChatRepositoryPG) Append(ctx context.Context, msgs ...*domain.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	for _, msg := range msgs {
		if err := msg.Validate(); err != nil {
			return err
		}
	}
	saved := make([]domain.ChatMessage, len(msgs))
	err := r.sql.InTx(ctx, func(tx infra.SQLExecutor) error {
		for i, msg := range msgs {
			row := tx.QueryRow(ctx, sqlinline.QInsertChatMessage, msg.UserID, msg.ConsultationID, string(msg.Role), msg.Content)
			if err := row.Scan(&saved[i].ID, &saved[i].CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return persistenceErr("insert chat messages", err)
	}
	for i, msg := range msgs {
		msg.ID, msg.CreatedAt = saved[i].ID, saved[i].CreatedAt
	}
	return nil
}

func (r *ChatRepositoryPG) List(ctx context.Context, userID, consultationID string) ([]domain.ChatMessage, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectChatMessages, userID, consultationID)
	if err != nil {
		return nil, persistenceErr("list chat messages", err)
	}
	defer rows.Close()

	var out []domain.ChatMessage
	for rows.Next() {
		var (
			m    domain.ChatMessage
			role string
		)
		if err := rows.Scan(&m.ID, &m.UserID, &m.ConsultationID, &role, &m.Content, &m.CreatedAt); err != nil {
			return nil, persistenceErr("scan chat message", err)
		}
		m.Role = domain.ChatRole(role)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceErr("list chat messages", err)
	}
	return out, nil
}

var _ domain.ChatRepository = (*ChatRepositoryPG)(nil)
