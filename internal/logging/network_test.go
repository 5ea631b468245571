// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o wait" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyExport(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ExportCause
	}{
		{name: "nil", err: nil, want: CauseUnknown},
		{name: "bad password", err: fmt.Errorf("connect: %w", &pgconn.PgError{Code: "28P01"}), want: CauseAuth},
		{name: "undefined column", err: &pgconn.PgError{Code: "42703"}, want: CauseSchema},
		{name: "dns", err: &net.DNSError{Err: "no such host", Name: "db.invalid"}, want: CauseDNS},
		{name: "net timeout", err: &net.OpError{Op: "dial", Err: timeoutErr{}}, want: CauseTimeout},
		{
			name: "refused",
			err:  &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)},
			want: CauseRefused,
		},
		{name: "refused text", err: stderrors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), want: CauseRefused},
		{name: "tls text", err: stderrors.New("tls: failed to verify certificate"), want: CauseTLS},
		{name: "other", err: stderrors.New("boom"), want: CauseUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyExport(tt.err); got != tt.want {
				t.Errorf("ClassifyExport() = %v, want %v", got, tt.want)
			}
		})
	}
}
