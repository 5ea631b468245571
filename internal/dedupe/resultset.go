// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dedupe

import "sqldedupe/cli/internal/table"

// ResultSet maps dedup keys to the first record seen for each key.
// Iteration order is insertion order.
type ResultSet struct {
	index   map[string]int
	keys    []string
	records []table.Row
}

// NewResultSet returns an empty ResultSet.
func NewResultSet() *ResultSet {
	return &ResultSet{index: make(map[string]int)}
}

// Put stores rec under key unless the key is already present.
// It reports whether rec was inserted.
func (s *ResultSet) Put(key string, rec table.Row) bool {
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = len(s.records)
	s.keys = append(s.keys, key)
	s.records = append(s.records, rec)
	return true
}

// Get returns the record stored under key.
func (s *ResultSet) Get(key string) (table.Row, bool) {
	i, ok := s.index[key]
	if !ok {
		return nil, false
	}
	return s.records[i], true
}

// Len returns the number of distinct keys.
func (s *ResultSet) Len() int { return len(s.records) }

// Keys returns the keys in first-seen order.
func (s *ResultSet) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Records returns the retained records in first-seen order.
func (s *ResultSet) Records() []table.Row {
	out := make([]table.Row, len(s.records))
	copy(out, s.records)
	return out
}
