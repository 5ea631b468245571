// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dedupe collapses log records whose queries share a dedup key.
//
// Records are visited once, in input order. The first record seen for a key
// is retained and later records with the same key are dropped. A record whose
// query cannot be obtained aborts the whole pass: callers never receive a
// partially built ResultSet.
package dedupe

import (
	"fmt"

	"sqldedupe/cli/internal/querykey"
	"sqldedupe/cli/internal/table"
)

// QueryFunc returns the SQL text carried by a record.
type QueryFunc func(table.Row) (string, error)

// Stats counts what a pass did with its input.
type Stats struct {
	Input   int
	Kept    int
	Dropped int
	// Standalone counts kept records keyed by their full query text.
	Standalone int
}

// RowError reports the record that stopped a pass.
type RowError struct {
	// Row is the 1-based position of the record in the input.
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Deduplicate runs a single pass over records and returns the retained set.
func Deduplicate(records []table.Row, query QueryFunc, ex querykey.Extractor) (*ResultSet, Stats, error) {
	set := NewResultSet()
	stats := Stats{Input: len(records)}

	for i, rec := range records {
		q, err := query(rec)
		if err != nil {
			return nil, Stats{}, &RowError{Row: i + 1, Err: err}
		}

		standalone, key := ex.Extract(q)
		if !set.Put(key, rec) {
			stats.Dropped++
			continue
		}
		stats.Kept++
		if standalone {
			stats.Standalone++
		}
	}

	return set, stats, nil
}

// Column returns a QueryFunc that reads the query from the JSON payload
// stored in column idx.
func Column(idx int, parse func(string) (string, error)) QueryFunc {
	return func(rec table.Row) (string, error) {
		if idx < 0 || idx >= len(rec) {
			return "", fmt.Errorf("column %d out of range for record with %d fields", idx, len(rec))
		}
		return parse(rec[idx])
	}
}
