// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package pipeline runs one deduplication job end to end:
// read the CSV export, collapse records by query key, write the reduced set.
//
// Run is the only entry point. Callers build Options, invoke Run, and inspect
// the Result. Failures are returned as *errors.E and never come with a
// partial Result.
package pipeline

import (
	"context"
	stderrors "errors"
	"strings"

	"sqldedupe/cli/internal/dedupe"
	"sqldedupe/cli/internal/errors"
	"sqldedupe/cli/internal/payload"
	"sqldedupe/cli/internal/querykey"
	"sqldedupe/cli/internal/table"

	"github.com/pterm/pterm"
)

// DefaultColumn is the column that holds the JSON log line.
const DefaultColumn = "Line"

// Sink receives the deduplicated table after it is written.
type Sink interface {
	Export(ctx context.Context, t *table.Table) error
}

// Options configures a single Run.
type Options struct {
	InputPath  string
	OutputPath string
	// Column names the payload column. Empty means DefaultColumn.
	Column string
	// Placeholder is the token that splits a query into its key prefix.
	// Empty means querykey.Placeholder.
	Placeholder string
	// DryRun skips writing OutputPath.
	DryRun bool
	// Sink, when set, receives the reduced table after the file is written.
	Sink Sink
}

// Result describes what Run produced.
type Result struct {
	// Table is the deduplicated table, or the input unchanged when the
	// payload column is missing.
	Table *table.Table
	Stats dedupe.Stats
	// ColumnFound is false when the input lacks the payload column.
	ColumnFound bool
	Written     bool
	Exported    bool
}

func (o Options) column() string {
	if strings.TrimSpace(o.Column) == "" {
		return DefaultColumn
	}
	return o.Column
}

// Run executes the job described by opts.
func Run(ctx context.Context, opts Options) (*Result, error) {
	in, err := read(opts.InputPath)
	if err != nil {
		return nil, err
	}

	col := opts.column()
	if !in.Has(col) {
		pterm.Debug.Printfln("column %q not found in %s; leaving input unchanged", col, opts.InputPath)
		return &Result{
			Table: in,
			Stats: dedupe.Stats{Input: len(in.Rows), Kept: len(in.Rows)},
		}, nil
	}

	set, stats, err := dedupe.Deduplicate(in.Rows, dedupe.Column(in.Index(col), payload.Query), querykey.New(opts.Placeholder))
	if err != nil {
		return nil, errors.Wrap(errors.PayloadMalformed, "cannot extract query from "+col, err)
	}
	pterm.Debug.Printfln("deduplicated %d rows into %d keys", stats.Input, stats.Kept)

	res := &Result{
		Table:       in.WithRows(set.Records()),
		Stats:       stats,
		ColumnFound: true,
	}

	if !opts.DryRun {
		if err := table.Write(opts.OutputPath, res.Table); err != nil {
			return nil, errors.Wrap(errors.OutputFailed, "cannot write "+opts.OutputPath, err)
		}
		res.Written = true
	}

	if opts.Sink != nil {
		if err := opts.Sink.Export(ctx, res.Table); err != nil {
			return nil, errors.Wrap(errors.ExportFailed, "cannot export deduplicated rows", err)
		}
		res.Exported = true
	}

	return res, nil
}

// read loads the input and maps table errors onto error kinds.
func read(path string) (*table.Table, error) {
	t, err := table.Read(path)
	switch {
	case err == nil:
	case stderrors.Is(err, table.ErrNotFound):
		return nil, errors.Wrap(errors.InputMissing, "cannot find input", err)
	case stderrors.Is(err, table.ErrEmpty):
		return nil, errors.Wrap(errors.InputEmpty, "input has no data", err)
	case stderrors.Is(err, table.ErrMalformed):
		return nil, errors.Wrap(errors.InputMalformed, "cannot parse input as CSV", err)
	default:
		return nil, errors.Wrap(errors.InputMissing, "cannot read input", err)
	}

	if len(t.Header) == 0 || (len(t.Header) == 1 && t.Header[0] == "" && len(t.Rows) == 0) {
		return nil, errors.New(errors.InputEmpty, "input has no columns")
	}
	return t, nil
}
