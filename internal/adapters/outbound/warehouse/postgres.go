// Package warehouse mirrors snapshots into a Postgres table. The warehouse
// is an external collaborator: runs proceed without one when no DSN is
// configured.
package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kintsugidata/kintsugi/internal/domain"
)

// Postgres implements domain.WarehouseWriter over a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against the DSN and verifies connectivity.
func Connect(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, &domain.StorageError{Op: "connect", Path: "warehouse", Err: err}
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &domain.StorageError{Op: "ping", Path: "warehouse", Err: err}
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the pool.
func (p *Postgres) Close() { p.pool.Close() }

// Replace creates the table if needed, truncates it, and bulk-loads the
// snapshot. A snapshot with no columns leaves the warehouse untouched.
func (p *Postgres) Replace(ctx context.Context, table string, snap *domain.Snapshot) error {
	cols := snap.Columns()
	if len(cols) == 0 {
		return nil
	}

	if _, err := p.pool.Exec(ctx, createTableSQL(table, cols)); err != nil {
		return &domain.StorageError{Op: "create table", Path: table, Err: err}
	}
	if _, err := p.pool.Exec(ctx, fmt.Sprintf("TRUNCATE %s", pgx.Identifier{table}.Sanitize())); err != nil {
		return &domain.StorageError{Op: "truncate", Path: table, Err: err}
	}

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	if _, err := p.pool.CopyFrom(ctx, pgx.Identifier{table}, names, pgx.CopyFromRows(rowValues(snap))); err != nil {
		return &domain.StorageError{Op: "copy", Path: table, Err: err}
	}
	return nil
}

// createTableSQL maps column types onto Postgres types.
func createTableSQL(table string, cols []domain.Column) string {
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = fmt.Sprintf("%s %s", pgx.Identifier{c.Name}.Sanitize(), sqlType(c.Type))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		pgx.Identifier{table}.Sanitize(), strings.Join(defs, ", "))
}

func sqlType(t domain.ColumnType) string {
	switch t {
	case domain.ColumnInt:
		return "BIGINT"
	case domain.ColumnFloat:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}

// rowValues converts the columnar snapshot to pgx row tuples, with nil for
// null cells.
func rowValues(snap *domain.Snapshot) [][]any {
	cols := snap.Columns()
	rows := make([][]any, snap.RowCount())
	for i := range rows {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = c.ValueAt(i)
		}
		rows[i] = row
	}
	return rows
}
