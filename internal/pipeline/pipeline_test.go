// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package pipeline

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"sqldedupe/cli/internal/errors"
	"sqldedupe/cli/internal/table"
)

func csvLine(q string) string {
	return `"{""fields"":{""query"":""` + q + `""}}"`
}

func fixture(t *testing.T, content string) (in, out string) {
	t.Helper()
	dir := t.TempDir()
	in = filepath.Join(dir, "logs.csv")
	out = filepath.Join(dir, "deduped.csv")
	if err := os.WriteFile(in, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return in, out
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

type recordingSink struct {
	got *table.Table
	err error
}

func (s *recordingSink) Export(_ context.Context, t *table.Table) error {
	s.got = t
	return s.err
}

func TestRunCollapsesSharedPrefix(t *testing.T) {
	in, out := fixture(t, "Time,Line\n"+
		"1,"+csvLine("SELECT * FROM t WHERE id=$1")+"\n"+
		"2,"+csvLine("SELECT * FROM t WHERE id=$1 AND x=$2")+"\n")

	res, err := Run(context.Background(), Options{InputPath: in, OutputPath: out})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.Table.Rows) != 1 || res.Table.Rows[0][0] != "1" {
		t.Errorf("Run() rows = %v, want only row 1", res.Table.Rows)
	}
	if !res.Written || !res.ColumnFound {
		t.Errorf("Run() Written = %v, ColumnFound = %v, want true, true", res.Written, res.ColumnFound)
	}

	written, err := table.Read(out)
	if err != nil {
		t.Fatalf("table.Read() error = %v", err)
	}
	if !reflect.DeepEqual(written, res.Table) {
		t.Errorf("written table = %v, want %v", written, res.Table)
	}
}

func TestRunKeepsDistinctParameterlessQueries(t *testing.T) {
	in, out := fixture(t, "Line\n"+
		csvLine("SELECT 1")+"\n"+
		csvLine("SELECT 2")+"\n")

	res, err := Run(context.Background(), Options{InputPath: in, OutputPath: out})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.Table.Rows) != 2 {
		t.Errorf("Run() rows = %d, want 2", len(res.Table.Rows))
	}
	if res.Stats.Standalone != 2 {
		t.Errorf("Run() Stats.Standalone = %d, want 2", res.Stats.Standalone)
	}
}

func TestRunMissingColumnReturnsInputUnchanged(t *testing.T) {
	in, out := fixture(t, "Time,Message\n1,a\n2,a\n")

	res, err := Run(context.Background(), Options{InputPath: in, OutputPath: out})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := &table.Table{
		Header: []string{"Time", "Message"},
		Rows:   []table.Row{{"1", "a"}, {"2", "a"}},
	}
	if !reflect.DeepEqual(res.Table, want) {
		t.Errorf("Run() table = %v, want %v", res.Table, want)
	}
	if res.ColumnFound || res.Written {
		t.Errorf("Run() ColumnFound = %v, Written = %v, want false, false", res.ColumnFound, res.Written)
	}
	if exists(out) {
		t.Errorf("output file was created")
	}
}

func TestRunMalformedPayloadFailsWholeRun(t *testing.T) {
	in, out := fixture(t, "Line\n"+
		csvLine("SELECT 1")+"\n"+
		"not valid json\n")

	res, err := Run(context.Background(), Options{InputPath: in, OutputPath: out})
	if res != nil {
		t.Errorf("Run() result = %v, want nil", res)
	}
	if !errors.Is(err, errors.PayloadMalformed) {
		t.Errorf("Run() error = %v, want kind %s", err, errors.PayloadMalformed)
	}
	if exists(out) {
		t.Errorf("output file was created")
	}
}

func TestRunInputErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	ragged := filepath.Join(dir, "ragged.csv")
	if err := os.WriteFile(ragged, []byte("Line,Time\n1,2,3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want errors.Kind
	}{
		{name: "missing", path: filepath.Join(dir, "missing.csv"), want: errors.InputMissing},
		{name: "empty", path: empty, want: errors.InputEmpty},
		{name: "malformed", path: ragged, want: errors.InputMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(dir, tt.name+"-out.csv")
			res, err := Run(context.Background(), Options{InputPath: tt.path, OutputPath: out})
			if res != nil {
				t.Errorf("Run() result = %v, want nil", res)
			}
			if got := errors.KindOf(err); got != tt.want {
				t.Errorf("Run() error kind = %q, want %q (err = %v)", got, tt.want, err)
			}
			if exists(out) {
				t.Errorf("output file was created")
			}
		})
	}
}

func TestRunDryRun(t *testing.T) {
	in, out := fixture(t, "Line\n"+csvLine("SELECT 1")+"\n")

	res, err := Run(context.Background(), Options{InputPath: in, OutputPath: out, DryRun: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Written {
		t.Errorf("Run() Written = true, want false")
	}
	if exists(out) {
		t.Errorf("output file was created in dry run")
	}
}

func TestRunCustomColumnAndPlaceholder(t *testing.T) {
	in, out := fixture(t, "payload\n"+
		csvLine("SELECT * FROM t WHERE id = ?")+"\n"+
		csvLine("SELECT * FROM t WHERE id = ? AND y = ?")+"\n")

	res, err := Run(context.Background(), Options{
		InputPath:   in,
		OutputPath:  out,
		Column:      "payload",
		Placeholder: "?",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.Table.Rows) != 1 {
		t.Errorf("Run() rows = %d, want 1", len(res.Table.Rows))
	}
}

func TestRunExportsToSink(t *testing.T) {
	in, out := fixture(t, "Line\n"+csvLine("SELECT 1")+"\n"+csvLine("SELECT 1")+"\n")
	sink := &recordingSink{}

	res, err := Run(context.Background(), Options{InputPath: in, OutputPath: out, Sink: sink})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !res.Exported {
		t.Errorf("Run() Exported = false, want true")
	}
	if sink.got == nil || len(sink.got.Rows) != 1 {
		t.Errorf("sink received %v, want one row", sink.got)
	}
}

func TestRunSinkFailure(t *testing.T) {
	in, out := fixture(t, "Line\n"+csvLine("SELECT 1")+"\n")
	cause := stderrors.New("connection refused")

	_, err := Run(context.Background(), Options{InputPath: in, OutputPath: out, Sink: &recordingSink{err: cause}})
	if !errors.Is(err, errors.ExportFailed) {
		t.Errorf("Run() error = %v, want kind %s", err, errors.ExportFailed)
	}
	if !stderrors.Is(err, cause) {
		t.Errorf("Run() error does not wrap sink failure")
	}
}

func TestRunHeaderOnlyWritesHeader(t *testing.T) {
	in, out := fixture(t, "Time,Line\n")

	res, err := Run(context.Background(), Options{InputPath: in, OutputPath: out})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !res.Written {
		t.Errorf("Run() Written = false, want true")
	}
	got, err := table.Read(out)
	if err != nil {
		t.Fatalf("Read(output) error = %v", err)
	}
	if !reflect.DeepEqual(got.Header, []string{"Time", "Line"}) {
		t.Errorf("output header = %v, want [Time Line]", got.Header)
	}
	if len(got.Rows) != 0 {
		t.Errorf("output rows = %d, want 0", len(got.Rows))
	}
}
