package domain

import (
	"context"
	"time"
)

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateName(ctx context.Context, id, name string) (*User, error)
	SetPremium(ctx context.Context, id string, premium bool) (*User, error)
}

// ConsultationLedger is the append-only store of consultations.
//
// Append assigns ID and CreatedAt; CreatedAt never goes backwards for a
// given user. History returns newest first and treats a negative limit as
// unbounded.
type ConsultationLedger interface {
	Append(ctx context.Context, c *Consultation) (string, error)
	CountSince(ctx context.Context, userID string, since time.Time) (int, error)
	History(ctx context.Context, userID string, limit int) ([]Consultation, error)
	Get(ctx context.Context, userID, id string) (*Consultation, error)
}

// GuardedAppender is implemented by ledgers that can count and insert as one
// atomic step per user. AppendWithinQuota returns ErrDailyQuotaExceeded
// without inserting when the user already has quota records since dayStart.
type GuardedAppender interface {
	AppendWithinQuota(ctx context.Context, c *Consultation, dayStart time.Time, quota int) (string, error)
}

// ChatRepository persists chat transcripts. Append stores msgs as one unit,
// in order: either every message is saved or none is. It fills in ID and
// CreatedAt on success.
type ChatRepository interface {
	Append(ctx context.Context, msgs ...*ChatMessage) error
	List(ctx context.Context, userID, consultationID string) ([]ChatMessage, error)
}
