package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"farmaai/internal/infra"
)

type call struct {
	query string
	args  []any
}

// stubDB answers QueryRow and Query from per-query handlers and records calls.
type stubDB struct {
	rows    map[string]func(args []any) pgx.Row
	queries map[string]func(args []any) (pgx.Rows, error)
	execErr error
	calls   []call
	txCalls int
}

func newStubDB() *stubDB {
	return &stubDB{
		rows:    map[string]func(args []any) pgx.Row{},
		queries: map[string]func(args []any) (pgx.Rows, error){},
	}
}

func (s *stubDB) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.calls = append(s.calls, call{query, args})
	return pgconn.CommandTag{}, s.execErr
}

func (s *stubDB) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	s.calls = append(s.calls, call{query, args})
	if fn, ok := s.rows[query]; ok {
		return fn(args)
	}
	return funcRow(func(dest ...any) error { return pgx.ErrNoRows })
}

func (s *stubDB) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	s.calls = append(s.calls, call{query, args})
	if fn, ok := s.queries[query]; ok {
		return fn(args)
	}
	return nil, errors.New("unexpected query")
}

func (s *stubDB) InTx(ctx context.Context, fn func(tx infra.SQLExecutor) error) error {
	s.txCalls++
	return fn(s)
}

func (s *stubDB) queriesRun() []string {
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.query)
	}
	return out
}

type funcRow func(dest ...any) error

func (f funcRow) Scan(dest ...any) error { return f(dest...) }

// assign copies values into pointer destinations of matching type.
func assign(dest []any, values ...any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan: want %d dest, got %d", len(values), len(dest))
	}
	for i, v := range values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *int:
			*d = v.(int)
		case *bool:
			*d = v.(bool)
		case *[]string:
			*d = v.([]string)
		case *time.Time:
			*d = v.(time.Time)
		default:
			return fmt.Errorf("scan: unsupported dest %T", dest[i])
		}
	}
	return nil
}

// sliceRows replays rows of values through assign.
type sliceRows struct {
	data [][]any
	idx  int
	err  error
}

func (r *sliceRows) Close()                                       {}
func (r *sliceRows) Err() error                                   { return r.err }
func (r *sliceRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *sliceRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *sliceRows) Values() ([]any, error)                       { return nil, errors.New("not supported") }
func (r *sliceRows) RawValues() [][]byte                          { return nil }
func (r *sliceRows) Conn() *pgx.Conn                              { return nil }

func (r *sliceRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *sliceRows) Scan(dest ...any) error {
	return assign(dest, r.data[r.idx-1]...)
}
