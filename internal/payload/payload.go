// Package payload decodes the JSON log line attached to every exported record.
//
// Prisma query logs shipped through the monitoring backend carry the SQL
// statement at fields.query:
//
//	{"fields": {"query": "SELECT ... WHERE id = $1", "duration_ms": 3}, ...}
//
// Any other keys are ignored.
package payload

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMissingFields is returned when the payload has no "fields" object.
	ErrMissingFields = errors.New(`payload has no "fields" object`)
	// ErrMissingQuery is returned when "fields" has no string "query".
	ErrMissingQuery = errors.New(`payload has no string "fields.query"`)
)

// Payload is the subset of a log line this tool reads.
type Payload struct {
	Fields *Fields `json:"fields"`
}

// Fields holds the structured fields of a log line.
type Fields struct {
	Query *string `json:"query"`
}

// Parse decodes a log line into a Payload and checks that the query is present.
func Parse(line string) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(line), &p); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if p.Fields == nil {
		return nil, ErrMissingFields
	}
	if p.Fields.Query == nil {
		return nil, ErrMissingQuery
	}
	return &p, nil
}

// Query returns the SQL text embedded in a log line.
func Query(line string) (string, error) {
	p, err := Parse(line)
	if err != nil {
		return "", err
	}
	return *p.Fields.Query, nil
}
