// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dsn resolves and normalizes the PostgreSQL connection string used
// for exporting deduplicated logs. Connection strings come from a flag or the
// environment and are never written to the config file.
package dsn

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables consulted by Resolve, in order.
const (
	EnvDSN         = "SQLDEDUPE_DSN"
	EnvDatabaseURL = "DATABASE_URL"
)

// DBType represents the type of database
type DBType string

const (
	DBTypePostgreSQL DBType = "postgresql"
	DBTypeUnknown    DBType = "unknown"
)

// Info contains parsed information from a DSN string
type Info struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Params   map[string]string
	Original string
}

// ParseError represents an error that occurred during DSN parsing
type ParseError struct {
	DSN    string
	Reason string
	Hint   string
}

func (e *ParseError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid DSN format: %s\nHint: %s", e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid DSN format: %s", e.Reason)
}

// NewParseError creates a new ParseError
func NewParseError(dsn, reason, hint string) *ParseError {
	return &ParseError{DSN: dsn, Reason: reason, Hint: hint}
}

// DetectDBType detects the database type from a DSN string
func DetectDBType(dsn string) DBType {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DBTypePostgreSQL
	}
	return DBTypeUnknown
}

// Resolve picks the DSN from the flag value, then SQLDEDUPE_DSN, then
// DATABASE_URL. It returns the raw DSN and a label naming where it came from.
func Resolve(flagValue string) (raw, source string) {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v, "--dsn flag"
	}
	for _, env := range []string{EnvDSN, EnvDatabaseURL} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v, env + " environment variable"
		}
	}
	return "", ""
}

// Parse validates a DSN and returns its normalized connection string.
func Parse(dsn string) (string, error) {
	info, err := ParseInfo(dsn)
	if err != nil {
		return "", err
	}
	return Normalize(info), nil
}

// ParseInfo parses a DSN string and returns its parts.
func ParseInfo(dsn string) (*Info, error) {
	if dsn == "" {
		return nil, NewParseError(dsn, "empty DSN", "provide a valid database connection string")
	}
	if DetectDBType(dsn) != DBTypePostgreSQL {
		return nil, NewParseError(dsn, "unsupported database type", "use postgres:// or postgresql://")
	}
	return parsePostgres(dsn)
}
