package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"farmaai/internal/domain"
)

// Ledger implements domain.ConsultationLedger and domain.GuardedAppender.
type Ledger struct {
	db  *gorm.DB
	now func() time.Time
	// serializes count+insert for guarded appends in this process
	mu sync.Mutex
}

// NewLedger wraps db. now may be nil to use time.Now.
func NewLedger(db *gorm.DB, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{db: db, now: now}
}

func (l *Ledger) Append(ctx context.Context, c *domain.Consultation) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	var id string
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		id, err = l.insert(tx, c)
		return err
	})
	if err != nil {
		return "", persistenceErr("insert consultation", err)
	}
	return id, nil
}

func (l *Ledger) AppendWithinQuota(ctx context.Context, c *domain.Consultation, dayStart time.Time, quota int) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	var id string
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if quota >= 0 {
			n, err := countSince(tx, c.UserID, dayStart)
			if err != nil {
				return err
			}
			if n >= int64(quota) {
				return domain.ErrDailyQuotaExceeded
			}
		}
		var err error
		id, err = l.insert(tx, c)
		return err
	})
	if errors.Is(err, domain.ErrDailyQuotaExceeded) {
		return "", err
	}
	if err != nil {
		return "", persistenceErr("guarded insert consultation", err)
	}
	return id, nil
}

// insert clamps the timestamp to the user's latest record.
func (l *Ledger) insert(tx *gorm.DB, c *domain.Consultation) (string, error) {
	meds := c.Medications
	if meds == nil {
		meds = []string{}
	}
	raw, err := json.Marshal(meds)
	if err != nil {
		return "", err
	}

	var latest int64
	if err := tx.Model(&consultationRow{}).
		Where("user_id = ?", c.UserID).
		Select("coalesce(max(created_nano), 0)").
		Scan(&latest).Error; err != nil {
		return "", err
	}
	ts := l.now().UnixNano()
	if ts < latest {
		ts = latest
	}

	row := consultationRow{
		ID:              uuid.NewString(),
		UserID:          c.UserID,
		Symptoms:        c.Symptoms,
		Diagnosis:       c.Diagnosis,
		Severity:        string(c.Severity),
		Medications:     datatypes.JSON(raw),
		Recommendations: c.Recommendations,
		CreatedNano:     ts,
	}
	if err := tx.Create(&row).Error; err != nil {
		return "", err
	}
	return row.ID, nil
}

func (l *Ledger) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	n, err := countSince(l.db.WithContext(ctx), userID, since)
	if err != nil {
		return 0, persistenceErr("count consultations", err)
	}
	return int(n), nil
}

func countSince(db *gorm.DB, userID string, since time.Time) (int64, error) {
	var n int64
	err := db.Model(&consultationRow{}).
		Where("user_id = ? AND created_nano >= ?", userID, since.UnixNano()).
		Count(&n).Error
	return n, err
}

func (l *Ledger) History(ctx context.Context, userID string, limit int) ([]domain.Consultation, error) {
	q := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_nano desc").
		Order("rowid desc")
	if limit >= 0 {
		q = q.Limit(limit)
	}
	var rows []consultationRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, persistenceErr("list consultations", err)
	}
	out := make([]domain.Consultation, 0, len(rows))
	for _, row := range rows {
		c, err := toConsultation(row)
		if err != nil {
			return nil, persistenceErr("decode consultation", err)
		}
		out = append(out, *c)
	}
	return out, nil
}

func (l *Ledger) Get(ctx context.Context, userID, id string) (*domain.Consultation, error) {
	var row consultationRow
	if err := l.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, persistenceErr("get consultation", err)
	}
	c, err := toConsultation(row)
	if err != nil {
		return nil, persistenceErr("decode consultation", err)
	}
	return c, nil
}

func toConsultation(row consultationRow) (*domain.Consultation, error) {
	var meds []string
	if len(row.Medications) > 0 {
		if err := json.Unmarshal(row.Medications, &meds); err != nil {
			return nil, err
		}
	}
	return &domain.Consultation{
		ID:              row.ID,
		UserID:          row.UserID,
		Symptoms:        row.Symptoms,
		Diagnosis:       row.Diagnosis,
		Severity:        domain.Severity(row.Severity),
		Medications:     meds,
		Recommendations: row.Recommendations,
		CreatedAt:       fromNano(row.CreatedNano),
	}, nil
}

var (
	_ domain.ConsultationLedger = (*Ledger)(nil)
	_ domain.GuardedAppender    = (*Ledger)(nil)
)
