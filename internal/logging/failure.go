// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"strings"

	"sqldedupe/cli/internal/errors"

	"github.com/pterm/pterm"
)

// FormatFailure formats a failed run in a user-friendly way.
// The explanation depends on the error kind; the masked error text follows
// as technical details.
func FormatFailure(err error) string {
	if err == nil {
		return ""
	}
	kind := errors.KindOf(err)

	var builder strings.Builder

	// Title
	builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint(title(kind)))
	builder.WriteString("\n\n")

	switch kind {
	case errors.InputMissing:
		builder.WriteString("The input file could not be found or read.\n")
		builder.WriteString("Check that:\n")
		builder.WriteString("  • The path points to the exported CSV file\n")
		builder.WriteString("  • You have permission to read it\n")

	case errors.InputEmpty:
		builder.WriteString("No data: the file is empty.\n")
		builder.WriteString("Export the logs again and make sure the time range contains entries.\n")

	case errors.InputMalformed:
		builder.WriteString("Parsing error: the file could not be parsed as CSV.\n")
		builder.WriteString("This usually happens when:\n")
		builder.WriteString("  • Rows have a different number of fields than the header\n")
		builder.WriteString("  • A quote inside a field is not escaped\n")
		builder.WriteString("  • The file is not a CSV export at all\n")

	case errors.PayloadMalformed:
		builder.WriteString("A log line is not the expected JSON payload.\n")
		builder.WriteString(`Every row must carry {"fields": {"query": "..."}}` + "\n")
		builder.WriteString("The whole run was aborted and no output file was written.\n")

	case errors.OutputFailed:
		builder.WriteString("The deduplicated file could not be written.\n")
		builder.WriteString("Check that the output directory exists and is writable.\n")

	case errors.ExportFailed:
		builder.WriteString("The deduplicated rows could not be exported to PostgreSQL.\n")
		for _, line := range exportHint(ClassifyExport(err)) {
			builder.WriteString(line + "\n")
		}

	case errors.ConfigInvalid:
		builder.WriteString("The configuration is not usable.\n")
		builder.WriteString("Run 'sqldedupe config' to inspect the current settings.\n")

	default:
		builder.WriteString("An error occurred while deduplicating the logs.\n")
	}

	// Technical details
	builder.WriteString("\n")
	builder.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Technical details: " + Mask(err.Error())))

	return builder.String()
}

func title(kind errors.Kind) string {
	switch kind {
	case errors.InputMissing:
		return "File not found"
	case errors.InputEmpty:
		return "No data"
	case errors.InputMalformed:
		return "Parsing error"
	case errors.PayloadMalformed:
		return "Malformed log line"
	case errors.OutputFailed:
		return "Write failed"
	case errors.ExportFailed:
		return "Export failed"
	case errors.ConfigInvalid:
		return "Invalid configuration"
	}
	return "Deduplication failed"
}

// PresentFailure displays a formatted failure.
func PresentFailure(err error) {
	fmt.Println()
	fmt.Println(FormatFailure(err))
	fmt.Println()
}
