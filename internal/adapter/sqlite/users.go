package sqlite

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"farmaai/internal/domain"
)

// UserStore implements domain.UserRepository.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	row := userRow{
		ID:           user.ID,
		Email:        strings.ToLower(strings.TrimSpace(user.Email)),
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		Premium:      user.Premium,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isDuplicate(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, persistenceErr("create user", err)
	}
	return toUser(row), nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.first(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (s *UserStore) UpdateName(ctx context.Context, id, name string) (*domain.User, error) {
	return s.update(ctx, id, map[string]any{"name": name})
}

func (s *UserStore) SetPremium(ctx context.Context, id string, premium bool) (*domain.User, error) {
	return s.update(ctx, id, map[string]any{"premium": premium})
}

func (s *UserStore) update(ctx context.Context, id string, fields map[string]any) (*domain.User, error) {
	fields["updated_at"] = time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&userRow{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, persistenceErr("update user", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

func (s *UserStore) first(ctx context.Context, cond string, arg any) (*domain.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).Where(cond, arg).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, persistenceErr("load user", err)
	}
	return toUser(row), nil
}

func toUser(row userRow) *domain.User {
	return &domain.User{
		ID:           row.ID,
		Email:        row.Email,
		Name:         row.Name,
		PasswordHash: row.PasswordHash,
		Premium:      row.Premium,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

var _ domain.UserRepository = (*UserStore)(nil)
