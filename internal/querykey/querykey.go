// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package querykey derives deduplication keys from SQL query text.
//
// A query containing a positional placeholder is keyed by the text that
// precedes the first placeholder, so statements that differ only in their
// bound parameters collapse onto one key. A query without a placeholder is
// keyed by its full text.
//
// Only the first occurrence of the placeholder token anchors the key.
// Queries that share a prefix up to that point but differ later (including
// in a second or third placeholder) are treated as the same query.
package querykey

import "strings"

// Placeholder is the token that marks the first positional SQL parameter.
const Placeholder = "$1"

// Extractor computes keys using a configurable placeholder token.
// The zero value uses Placeholder.
type Extractor struct {
	Token string
}

// New returns an Extractor for token, falling back to Placeholder when
// token is empty.
func New(token string) Extractor {
	return Extractor{Token: token}
}

func (e Extractor) token() string {
	if e.Token == "" {
		return Placeholder
	}
	return e.Token
}

// Extract returns the key for query q.
//
// standalone is true when no placeholder was found and the whole query is
// the key. Otherwise key is the prefix before the first placeholder.
func (e Extractor) Extract(q string) (standalone bool, key string) {
	if i := strings.Index(q, e.token()); i != -1 {
		return false, q[:i]
	}
	return true, q
}

// Extract derives the key for q using the default placeholder.
func Extract(q string) (standalone bool, key string) {
	return Extractor{}.Extract(q)
}
