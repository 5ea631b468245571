// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	stderrors "errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// ExportCause is the likely reason a database export failed.
type ExportCause int

const (
	CauseUnknown ExportCause = iota
	CauseTimeout
	CauseDNS
	CauseRefused
	CauseTLS
	CauseAuth
	CauseSchema
)

// PostgreSQL error codes checked by ClassifyExport.
const (
	codeInvalidPassword   = "28P01"
	codeInvalidAuthSpec   = "28000"
	codeUndefinedColumn   = "42703"
	codeDatatypeMismatch  = "42804"
	codeInsufficientPrivs = "42501"
)

// ClassifyExport inspects an export error for a known cause.
func ClassifyExport(err error) ExportCause {
	if err == nil {
		return CauseUnknown
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeInvalidPassword, codeInvalidAuthSpec, codeInsufficientPrivs:
			return CauseAuth
		case codeUndefinedColumn, codeDatatypeMismatch:
			return CauseSchema
		}
	}

	var dnsErr *net.DNSError
	if stderrors.As(err, &dnsErr) {
		return CauseDNS
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return CauseTimeout
	}

	if stderrors.Is(err, syscall.ECONNREFUSED) {
		return CauseRefused
	}

	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "deadline exceeded"):
		return CauseTimeout
	case strings.Contains(lower, "no such host"):
		return CauseDNS
	case strings.Contains(lower, "connection refused"):
		return CauseRefused
	case strings.Contains(lower, "tls"), strings.Contains(lower, "certificate"):
		return CauseTLS
	case strings.Contains(lower, "password authentication failed"):
		return CauseAuth
	}
	return CauseUnknown
}

// exportHint returns the advice shown for an export failure.
func exportHint(cause ExportCause) []string {
	switch cause {
	case CauseTimeout:
		return []string{"The database did not answer in time.", "Check the host and port, and any VPN or firewall in between."}
	case CauseDNS:
		return []string{"The database host name could not be resolved.", "Check the host part of the connection string."}
	case CauseRefused:
		return []string{"The database refused the connection.", "Make sure PostgreSQL is running and listening on that port."}
	case CauseTLS:
		return []string{"The TLS handshake failed.", "Try sslmode=require or sslmode=disable to match the server."}
	case CauseAuth:
		return []string{"The database rejected the credentials or permissions.", "Check the user, password and grants on the target schema."}
	case CauseSchema:
		return []string{"The target table exists with different columns.", "Use --table to pick another table, or drop the existing one."}
	}
	return []string{
		"Possible reasons:",
		"  • The database is unreachable",
		"  • The credentials in the connection string are wrong",
		"  • The target table exists with different columns",
	}
}
