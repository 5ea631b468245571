// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strings"

	"sqldedupe/cli/internal/config"
	"sqldedupe/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// configCmd shows the effective settings.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current settings",
	Long: `The config command prints the settings used by dedupe. Settings live in
$XDG_CONFIG_HOME/sqldedupe/config.json; missing keys fall back to defaults.
Connection strings are never stored here.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			logging.PresentFailure(err)
			return errReported
		}
		path, _ := config.Path()

		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("sqldedupe settings")).
			WithPadding(1).
			Println(formatConfig(cfg))
		pterm.Println()
		pterm.Println("Config file: " + path)
		pterm.Println("To change a value, run: sqldedupe config set <key> <value>")
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default settings to the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(config.Default()); err != nil {
			pterm.Error.Println(logging.PresentError("save config", err))
			return errReported
		}
		path, _ := config.Path()
		pterm.Success.Println("Wrote defaults to " + path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long:  "Valid keys: " + strings.Join(config.Keys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			logging.PresentFailure(err)
			return errReported
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			logging.PresentFailure(err)
			return errReported
		}
		if err := config.Save(cfg); err != nil {
			pterm.Error.Println(logging.PresentError("save config", err))
			return errReported
		}
		pterm.Success.Printfln("%s = %s", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func formatConfig(c config.Config) string {
	rows := [][2]string{
		{"log_level", c.LogLevel},
		{"column", c.Column},
		{"placeholder", c.Placeholder},
		{"export.table", c.Export.Table},
		{"export.replace", fmt.Sprint(c.Export.Replace)},
	}
	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%-15s %s", r[0], r[1])
	}
	return b.String()
}
