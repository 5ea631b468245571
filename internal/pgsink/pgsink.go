// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package pgsink exports deduplicated log tables into PostgreSQL over a pgx
// connection pool.
//
// Every CSV column becomes a text column of the target table, which is created
// on first use. Rows are loaded with COPY inside a single transaction, so an
// export either lands completely or not at all.
package pgsink

import (
	"context"
	"fmt"
	"strings"

	"sqldedupe/cli/internal/table"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pterm/pterm"
)

// DefaultTable is the target table used when none is configured.
const DefaultTable = "query_logs"

// Sink writes tables into one PostgreSQL table.
type Sink struct {
	// Pool is the PostgreSQL connection pool
	Pool *pgxpool.Pool
	// Target is the schema-qualified destination table
	Target pgx.Identifier
	// Replace truncates the destination before loading
	Replace bool
}

// Open connects to dsn and returns a Sink for tableName.
// tableName may be schema-qualified ("audit.query_logs").
func Open(ctx context.Context, dsn, tableName string, replace bool) (*Sink, error) {
	target, err := ParseIdentifier(tableName)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect: %w", err)
	}

	return &Sink{Pool: pool, Target: target, Replace: replace}, nil
}

// Close releases the pool.
func (s *Sink) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// Export creates the target table if needed and copies t's rows into it.
func (s *Sink) Export(ctx context.Context, t *table.Table) error {
	columns := ColumnNames(t.Header)

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	if _, err := tx.Exec(ctx, CreateTableSQL(s.Target, columns)); err != nil {
		return fmt.Errorf("create table %s: %w", s.Target.Sanitize(), err)
	}

	if s.Replace {
		if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+s.Target.Sanitize()); err != nil {
			return fmt.Errorf("truncate %s: %w", s.Target.Sanitize(), err)
		}
	}

	n, err := tx.CopyFrom(ctx, s.Target, columns, pgx.CopyFromRows(copyRows(t.Rows, len(columns))))
	if err != nil {
		return fmt.Errorf("copy into %s: %w", s.Target.Sanitize(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	pterm.Debug.Printfln("copied %d rows into %s", n, s.Target.Sanitize())
	return nil
}

// ParseIdentifier splits a dotted table name into an identifier.
func ParseIdentifier(name string) (pgx.Identifier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultTable
	}
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("invalid table name %q: use table or schema.table", name)
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return nil, fmt.Errorf("invalid table name %q: empty identifier", name)
		}
	}
	return pgx.Identifier(parts), nil
}

// ColumnNames turns a CSV header into distinct, non-empty column names.
// Blank headers become column_N and repeats get a numeric suffix.
func ColumnNames(header []string) []string {
	seen := make(map[string]bool, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		base := name
		for n := 1; seen[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		seen[name] = true
		out[i] = name
	}
	return out
}

// CreateTableSQL returns the DDL for a text-only table with the given columns.
func CreateTableSQL(target pgx.Identifier, columns []string) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = pgx.Identifier{c}.Sanitize() + " text"
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", target.Sanitize(), strings.Join(defs, ", "))
}

// copyRows converts rows to COPY input, padding short rows with NULL.
func copyRows(rows []table.Row, width int) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		vals := make([]any, width)
		for j := 0; j < width && j < len(r); j++ {
			vals[j] = r[j]
		}
		out[i] = vals
	}
	return out
}
