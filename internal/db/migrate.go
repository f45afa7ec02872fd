package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "embed"

	"github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the DDL applied by Migrate.
func Schema() string {
	return schemaSQL
}

// Migrate applies schema.sql. Every statement is guarded with "if not
// exists", so running it against an up-to-date database is a no-op.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return fmt.Errorf("migrate: %s (%s): %w", pqErr.Message, pqErr.Code.Name(), err)
		}
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
