package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"farmaai/internal/domain"
)

// Ledger implements domain.ConsultationLedger and domain.GuardedAppender.
type Ledger struct {
	mu    sync.RWMutex
	now   func() time.Time
	byUID map[string][]domain.Consultation
}

// NewLedger creates an empty ledger. now may be nil to use time.Now.
func NewLedger(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{now: now, byUID: make(map[string][]domain.Consultation)}
}

// Append stores a consultation. Timestamps are clamped so they never go
// backwards for the same user.
func (l *Ledger) Append(ctx context.Context, c *domain.Consultation) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appendLocked(*c), nil
}

// AppendWithinQuota counts and inserts under the ledger lock.
func (l *Ledger) AppendWithinQuota(ctx context.Context, c *domain.Consultation, dayStart time.Time, quota int) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if quota >= 0 && l.countLocked(c.UserID, dayStart) >= quota {
		return "", domain.ErrDailyQuotaExceeded
	}
	return l.appendLocked(*c), nil
}

func (l *Ledger) appendLocked(c domain.Consultation) string {
	c.ID = uuid.NewString()
	c.CreatedAt = l.now()
	c.Medications = append([]string(nil), c.Medications...)
	list := l.byUID[c.UserID]
	if n := len(list); n > 0 && c.CreatedAt.Before(list[n-1].CreatedAt) {
		c.CreatedAt = list[n-1].CreatedAt
	}
	l.byUID[c.UserID] = append(list, c)
	return c.ID
}

func (l *Ledger) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.countLocked(userID, since), nil
}

func (l *Ledger) countLocked(userID string, since time.Time) int {
	list := l.byUID[userID]
	// list is ordered by CreatedAt
	idx := sort.Search(len(list), func(i int) bool { return !list[i].CreatedAt.Before(since) })
	return len(list) - idx
}

func (l *Ledger) History(ctx context.Context, userID string, limit int) ([]domain.Consultation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	list := l.byUID[userID]
	n := len(list)
	if limit >= 0 && limit < n {
		n = limit
	}
	out := make([]domain.Consultation, 0, n)
	for i := len(list) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, clone(list[i]))
	}
	return out, nil
}

func (l *Ledger) Get(ctx context.Context, userID, id string) (*domain.Consultation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, c := range l.byUID[userID] {
		if c.ID == id {
			out := clone(c)
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func clone(c domain.Consultation) domain.Consultation {
	c.Medications = append([]string(nil), c.Medications...)
	return c
}

var (
	_ domain.ConsultationLedger = (*Ledger)(nil)
	_ domain.GuardedAppender    = (*Ledger)(nil)
)
