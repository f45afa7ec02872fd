// Package identity handles account signup, login and profile updates.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"farmaai/internal/domain"
)

// Password bounds. bcrypt reads at most 72 bytes of input.
const (
	MinPasswordLength = 6
	MaxPasswordBytes  = 72
)

// ErrPasswordTooShort is returned by Signup for passwords under
// MinPasswordLength characters. It wraps domain.ErrInvalidInput.
var ErrPasswordTooShort = fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, MinPasswordLength)

// ErrPasswordTooLong is returned by Signup for passwords over
// MaxPasswordBytes bytes. It wraps domain.ErrInvalidInput.
var ErrPasswordTooLong = fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, MaxPasswordBytes)

// TokenIssuer mints session tokens for a user id.
type TokenIssuer func(userID string, now time.Time) (string, error)

// Session is returned by Signup and Login.
type Session struct {
	Token string       `json:"token"`
	User  *domain.User `json:"-"`
}

type Service struct {
	users  domain.UserRepository
	issue  TokenIssuer
	now    func() time.Time
	cost   int
	logger zerolog.Logger
}

// NewService builds the identity service. cost of zero uses bcrypt.DefaultCost.
func NewService(users domain.UserRepository, issue TokenIssuer, cost int, logger zerolog.Logger) *Service {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{users: users, issue: issue, now: time.Now, cost: cost, logger: logger}
}

// Signup creates a free account and returns a session for it.
func (s *Service) Signup(ctx context.Context, name, email, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len([]rune(password)) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if len(password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("account created")
	return s.session(user)
}

// Login verifies credentials. Unknown emails and wrong passwords both return
// domain.ErrUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil || len(password) > MaxPasswordBytes {
		return nil, domain.ErrUnauthorized
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Debug().Str("user_id", user.ID).Msg("login rejected")
		return nil, domain.ErrUnauthorized
	}
	return s.session(user)
}

// UpdateName changes the display name.
func (s *Service) UpdateName(ctx context.Context, userID, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	return s.users.UpdateName(ctx, userID, name)
}

// Subscribe upgrades the user to premium. Payment is simulated.
func (s *Service) Subscribe(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.SetPremium(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", userID).Msg("premium activated")
	return user, nil
}

func (s *Service) session(user *domain.User) (*Session, error) {
	token, err := s.issue(user.ID, s.now())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: token, User: user}, nil
}

func normalizeEmail(v string) (string, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v {
		return "", fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	return v, nil
}
