// Package sqlite persists users, consultations and chat transcripts through
// gorm on a local SQLite file. It backs the sqlite store driver.
package sqlite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"farmaai/internal/domain"
)

type userRow struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	Name         string
	PasswordHash string
	Premium      bool `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

type consultationRow struct {
	ID              string `gorm:"primaryKey"`
	UserID          string `gorm:"not null;index:idx_consultations_user_created,priority:1"`
	Symptoms        string
	Diagnosis       string
	Severity        string
	Medications     datatypes.JSON
	Recommendations string
	CreatedNano     int64 `gorm:"not null;index:idx_consultations_user_created,priority:2"`
}

func (consultationRow) TableName() string { return "consultations" }

type chatRow struct {
	ID             string `gorm:"primaryKey"`
	UserID         string `gorm:"not null;index:idx_chat_user_consultation,priority:1"`
	ConsultationID string `gorm:"index:idx_chat_user_consultation,priority:2"`
	Role           string
	Content        string
	CreatedNano    int64 `gorm:"not null"`
}

func (chatRow) TableName() string { return "chat_messages" }

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*gorm.DB, error) {
	if path == "" {
		path = filepath.Join("data", "farmaai.db")
	}
	if !strings.HasPrefix(path, "file:") && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create dir: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite: handle: %w", err)
	}
	// one writer at a time; also keeps :memory: databases on a single connection
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&userRow{}, &consultationRow{}, &chatRow{}); err != nil {
		return nil, fmt.Errorf("sqlite: auto migrate: %w", err)
	}
	return db, nil
}

func persistenceErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrPersistence, op, err)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func fromNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
