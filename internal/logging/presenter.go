// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}

// SetLevel configures the pterm printers for a log level.
// "debug" enables pterm.Debug output. "warn" and "error" hide pterm.Info
// lines by marking the printer as debug-only.
func SetLevel(level string) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "debug" {
		pterm.EnableDebugMessages()
	} else {
		pterm.DisableDebugMessages()
	}
	pterm.Info.Debugger = level == "warn" || level == "error"
}
