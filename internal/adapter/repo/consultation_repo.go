package repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"farmaai/internal/domain"
	"farmaai/internal/infra"
	"farmaai/internal/sqlinline"
)

// TxExecutor runs plain queries and transactions. The ledger needs
// transactions for guarded appends and the chat store for multi-turn writes.
type TxExecutor interface {
	infra.SQLExecutor
	infra.TxRunner
}

// ConsultationRepositoryPG implements domain.ConsultationLedger and
// domain.GuardedAppender on PostgreSQL.
type ConsultationRepositoryPG struct {
	db TxExecutor
}

func NewConsultationRepository(db TxExecutor) *ConsultationRepositoryPG {
	return &ConsultationRepositoryPG{db: db}
}

func (r *ConsultationRepositoryPG) Append(ctx context.Context, c *domain.Consultation) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	id, err := insertConsultation(ctx, r.db, c)
	if err != nil {
		return "", persistenceErr("insert consultation", err)
	}
	return id, nil
}

// AppendWithinQuota takes a per-user advisory lock for the length of the
// transaction, so concurrent writers for one user count and insert in turn.
// A negative quota never denies.
func (r *ConsultationRepositoryPG) AppendWithinQuota(ctx context.Context, c *domain.Consultation, dayStart time.Time, quota int) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	var id string
	denied := false
	err := r.db.InTx(ctx, func(tx infra.SQLExecutor) error {
		if _, err := tx.Exec(ctx, sqlinline.QLockUserLedger, c.UserID); err != nil {
			return err
		}
		if quota >= 0 {
			var count int
			if err := tx.QueryRow(ctx, sqlinline.QCountConsultationsSince, c.UserID, dayStart).Scan(&count); err != nil {
				return err
			}
			if count >= quota {
				denied = true
				return nil
			}
		}
		var err error
		id, err = insertConsultation(ctx, tx, c)
		return err
	})
	if err != nil {
		return "", persistenceErr("guarded insert consultation", err)
	}
	if denied {
		return "", domain.ErrDailyQuotaExceeded
	}
	return id, nil
}

func insertConsultation(ctx context.Context, sql infra.SQLExecutor, c *domain.Consultation) (string, error) {
	meds := c.Medications
	if meds == nil {
		meds = []string{}
	}
	var id string
	err := sql.QueryRow(ctx, sqlinline.QInsertConsultation,
		c.UserID,
		c.Symptoms,
		c.Diagnosis,
		string(c.Severity),
		meds,
		c.Recommendations,
	).Scan(&id)
	return id, err
}

func (r *ConsultationRepositoryPG) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, sqlinline.QCountConsultationsSince, userID, since).Scan(&count); err != nil {
		return 0, persistenceErr("count consultations", err)
	}
	return count, nil
}

func (r *ConsultationRepositoryPG) History(ctx context.Context, userID string, limit int) ([]domain.Consultation, error) {
	rows, err := r.db.Query(ctx, sqlinline.QSelectConsultationHistory, userID, limit)
	if err != nil {
		return nil, persistenceErr("list consultations", err)
	}
	defer rows.Close()

	var out []domain.Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, persistenceErr("scan consultation", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceErr("list consultations", err)
	}
	return out, nil
}

func (r *ConsultationRepositoryPG) Get(ctx context.Context, userID, id string) (*domain.Consultation, error) {
	c, err := scanConsultation(r.db.QueryRow(ctx, sqlinline.QSelectConsultation, userID, id))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, persistenceErr("get consultation", err)
	}
	return c, nil
}

func scanConsultation(row pgx.Row) (*domain.Consultation, error) {
	var (
		c        domain.Consultation
		severity string
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.Symptoms, &c.Diagnosis, &severity, &c.Medications, &c.Recommendations, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Severity = domain.Severity(severity)
	return &c, nil
}

var (
	_ domain.ConsultationLedger = (*ConsultationRepositoryPG)(nil)
	_ domain.GuardedAppender    = (*ConsultationRepositoryPG)(nil)
)
