// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for sqldedupe.
// It implements subcommands for deduplicating SQL query log exports and for
// managing settings using the Cobra CLI framework, with pterm for terminal output.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
)

// errReported marks failures that were already presented to the user.
var errReported = errors.New("failure already reported")

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sqldedupe",
	Short: "Collapse near-duplicate SQL queries in exported query logs",
	Long: `sqldedupe reads a CSV export of SQL query logs, keeps one record per
distinct query shape, and writes the reduced set to a new CSV file.

Queries are compared by the text before their first positional parameter ($1),
so statements that differ only in bound values collapse into one row.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("sqldedupe %s\n", Version)
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
}
