// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"sqldedupe/cli/internal/config"
	"sqldedupe/cli/internal/dsn"
	"sqldedupe/cli/internal/errors"
	"sqldedupe/cli/internal/logging"
	"sqldedupe/cli/internal/pgsink"
	"sqldedupe/cli/internal/pipeline"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	dedupeColumn      string
	dedupePlaceholder string
	dedupeDryRun      bool
	dedupeExport      bool
	dedupeDSN         string
	dedupeTable       string
	dedupeReplace     bool
	verboseDedupe     bool
)

// dedupeCmd reads a CSV log export, collapses records whose queries share a
// dedup key and writes the first record of each key to the output file.
var dedupeCmd = &cobra.Command{
	Use:   "dedupe <input.csv> [output.csv]",
	Short: "Deduplicate SQL queries in a CSV log export",
	Long: `The dedupe command reads a CSV export whose "Line" column holds a JSON log line
of the form {"fields": {"query": "..."}} and keeps the first row for every distinct
query key.

A query containing $1 is keyed by the text before the first $1, so statements
that differ only in their parameters collapse into one row. A query without $1
is keyed by its full text.

If the input has no "Line" column it is left unchanged and no output file is
written. When the output path is omitted, <input>_deduped.csv is used.

With --export the reduced rows are also copied into a PostgreSQL table. The
connection string is read from --dsn, SQLDEDUPE_DSN or DATABASE_URL.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			logging.PresentFailure(err)
			return errReported
		}
		applyDedupeFlags(cmd, &cfg)
		if err := cfg.Validate(); err != nil {
			logging.PresentFailure(err)
			return errReported
		}
		logging.SetLevel(cfg.LogLevel)

		input := args[0]
		output := defaultOutputPath(input)
		if len(args) == 2 {
			output = args[1]
		}

		opts := pipeline.Options{
			InputPath:   input,
			OutputPath:  output,
			Column:      cfg.Column,
			Placeholder: cfg.Placeholder,
			DryRun:      dedupeDryRun,
		}

		ctx := cmd.Context()
		if dedupeExport {
			sink, err := openSink(ctx, cfg)
			if err != nil {
				logging.PresentFailure(err)
				return errReported
			}
			defer sink.Close()
			opts.Sink = sink
		}

		pterm.Debug.Printfln("input=%s output=%s column=%s placeholder=%s", input, output, cfg.Column, cfg.Placeholder)

		stop := startSpinner("Deduplicating " + filepath.Base(input))
		res, err := pipeline.Run(ctx, opts)
		stop()
		if err != nil {
			logging.PresentFailure(err)
			return errReported
		}

		printSummary(res, opts, cfg)
		return nil
	},
}

func init() {
	dedupeCmd.Flags().StringVar(&dedupeColumn, "column", "", "Column holding the JSON log line (default from config, \"Line\")")
	dedupeCmd.Flags().StringVar(&dedupePlaceholder, "placeholder", "", "Token that marks the first query parameter (default from config, \"$1\")")
	dedupeCmd.Flags().BoolVar(&dedupeDryRun, "dry-run", false, "Report what would be kept without writing the output file")
	dedupeCmd.Flags().BoolVar(&dedupeExport, "export", false, "Also copy the deduplicated rows into PostgreSQL")
	dedupeCmd.Flags().StringVar(&dedupeDSN, "dsn", "", "PostgreSQL connection string for --export (overrides SQLDEDUPE_DSN and DATABASE_URL)")
	dedupeCmd.Flags().StringVar(&dedupeTable, "table", "", "Target table for --export, optionally schema-qualified")
	dedupeCmd.Flags().BoolVar(&dedupeReplace, "replace", false, "Truncate the target table before --export")
	dedupeCmd.Flags().BoolVarP(&verboseDedupe, "verbose", "v", false, "Print debug output")
	rootCmd.AddCommand(dedupeCmd)
}

// applyDedupeFlags overrides config values with flags the user set explicitly.
func applyDedupeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("column") {
		cfg.Column = dedupeColumn
	}
	if flags.Changed("placeholder") {
		cfg.Placeholder = dedupePlaceholder
	}
	if flags.Changed("table") {
		cfg.Export.Table = dedupeTable
	}
	if flags.Changed("replace") {
		cfg.Export.Replace = dedupeReplace
	}
	if verboseDedupe {
		cfg.LogLevel = "debug"
	}
}

// defaultOutputPath derives "<name>_deduped.csv" next to the input file.
func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_deduped.csv"
}

// openSink resolves the DSN and connects to the export database.
func openSink(ctx context.Context, cfg config.Config) (*pgsink.Sink, error) {
	raw, source := dsn.Resolve(dedupeDSN)
	if raw == "" {
		return nil, errors.New(errors.ConfigInvalid,
			fmt.Sprintf("--export needs a connection string: pass --dsn or set %s or %s", dsn.EnvDSN, dsn.EnvDatabaseURL))
	}

	normalized, err := dsn.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid, "invalid connection string from "+source, err)
	}

	pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Export to: ") +
		pterm.NewStyle(pterm.FgLightBlue).Sprint(logging.Mask(normalized)))

	sink, err := pgsink.Open(ctx, normalized, cfg.Export.Table, cfg.Export.Replace)
	if err != nil {
		return nil, errors.Wrap(errors.ExportFailed, "cannot connect to export database", err)
	}
	return sink, nil
}

// printSummary reports the outcome of a successful run.
func printSummary(res *pipeline.Result, opts pipeline.Options, cfg config.Config) {
	if !res.ColumnFound {
		pterm.Warning.Printfln("Column %q not found in %s; input left unchanged, no file written", cfg.Column, opts.InputPath)
		return
	}

	_ = pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Input rows", "Kept", "Dropped", "Full-text keys"},
		{
			fmt.Sprint(res.Stats.Input),
			fmt.Sprint(res.Stats.Kept),
			fmt.Sprint(res.Stats.Dropped),
			fmt.Sprint(res.Stats.Standalone),
		},
	}).Render()

	switch {
	case res.Written:
		pterm.Success.Printfln("Wrote %d distinct queries to %s", res.Stats.Kept, opts.OutputPath)
	case opts.DryRun:
		pterm.Info.Printfln("Dry run: %s was not written", opts.OutputPath)
	}
	if res.Exported {
		pterm.Success.Printfln("Exported %d rows to PostgreSQL table %s", res.Stats.Kept, cfg.Export.Table)
	}
}
