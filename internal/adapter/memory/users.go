// Package memory keeps users, consultations and chat transcripts in process
// memory. It backs tests and the memory store driver.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"farmaai/internal/domain"
)

// UserStore implements domain.UserRepository.
type UserStore struct {
	mu     sync.RWMutex
	now    func() time.Time
	users  map[string]*domain.User
	emails map[string]string
}

// NewUserStore creates an empty user store. now may be nil to use time.Now.
func NewUserStore(now func() time.Time) *UserStore {
	if now == nil {
		now = time.Now
	}
	return &UserStore{now: now, users: make(map[string]*domain.User), emails: make(map[string]string)}
}

func (s *UserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(user.Email))
	if _, ok := s.emails[email]; ok {
		return nil, domain.ErrEmailTaken
	}
	u := *user
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = email
	u.CreatedAt = s.now()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = &u
	s.emails[email] = u.ID
	out := u
	return &out, nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	id, ok := s.emails[strings.ToLower(strings.TrimSpace(email))]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

func (s *UserStore) UpdateName(ctx context.Context, id, name string) (*domain.User, error) {
	return s.update(id, func(u *domain.User) { u.Name = name })
}

func (s *UserStore) SetPremium(ctx context.Context, id string, premium bool) (*domain.User, error) {
	return s.update(id, func(u *domain.User) { u.Premium = premium })
}

func (s *UserStore) update(id string, apply func(*domain.User)) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	apply(u)
	u.UpdatedAt = s.now()
	out := *u
	return &out, nil
}

var _ domain.UserRepository = (*UserStore)(nil)
