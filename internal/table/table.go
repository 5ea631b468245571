// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package table reads and writes CSV log exports as in-memory tables.
// The first CSV record is the header; every following record is a row.
// Writes are atomic: data goes to a temp file that is fsynced and renamed.
package table

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var (
	// ErrNotFound is returned when the input path does not resolve to a file.
	ErrNotFound = errors.New("file not found")
	// ErrEmpty is returned when the input has no header row.
	ErrEmpty = errors.New("no data")
	// ErrMalformed is returned when the input cannot be parsed as CSV.
	ErrMalformed = errors.New("malformed csv")
)

// Row is one CSV record.
type Row []string

// Table is a header plus the rows below it.
type Table struct {
	Header []string
	Rows   []Row
}

// Index returns the position of the named column, or -1 if absent.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Has reports whether the named column exists.
func (t *Table) Has(name string) bool {
	return t.Index(name) != -1
}

// WithRows returns a table sharing t's header with the given rows.
func (t *Table) WithRows(rows []Row) *Table {
	header := make([]string, len(t.Header))
	copy(header, t.Header)
	return &Table{Header: header, Rows: rows}
}

// Read loads a CSV file from path.
func Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}

	return Decode(f)
}

// Decode parses CSV from r.
func Decode(r io.Reader) (*Table, error) {
	cr := csv.NewReader(bufio.NewReader(r))

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	header = trimBOM(header)

	t := &Table{Header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		t.Rows = append(t.Rows, Row(rec))
	}
	return t, nil
}

// trimBOM strips a UTF-8 byte order mark from the first header cell.
// Spreadsheet and dashboard exports often prepend one.
func trimBOM(header []string) []string {
	if len(header) > 0 && len(header[0]) >= 3 && header[0][:3] == "\xef\xbb\xbf" {
		header[0] = header[0][3:]
	}
	return header
}

// Encode writes t as CSV to w.
func Encode(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Write stores t at path using the atomic write pattern: write to temp
// file, fsync, then rename.
func Write(path string, t *Table) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmpFile, err := os.CreateTemp(dir, "."+base+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on any error
	success := false
	defer func() {
		if !success {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := Encode(writer, t); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
