// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"testing"
)

func TestSpinnerEnabled(t *testing.T) {
	tests := []struct {
		name        string
		interactive bool
		debug       bool
		want        bool
	}{
		{name: "terminal", interactive: true, want: true},
		{name: "terminal with debug output", interactive: true, debug: true, want: false},
		{name: "pipe", interactive: false, want: false},
		{name: "pipe with debug output", interactive: false, debug: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := spinnerEnabled(tt.interactive, tt.debug); got != tt.want {
				t.Errorf("spinnerEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFitLine(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{name: "fits", text: "Deduplicating logs.csv", width: 80, want: "Deduplicating logs.csv"},
		{name: "exact", text: "abcd", width: 4, want: "abcd"},
		{name: "truncated", text: "Deduplicating a-very-long-export.csv", width: 10, want: "Deduplica…"},
		{name: "multibyte", text: "Дедупликация", width: 5, want: "Деду…"},
		{name: "no room", text: "abc", width: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fitLine(tt.text, tt.width); got != tt.want {
				t.Errorf("fitLine() = %q, want %q", got, tt.want)
			}
		})
	}
}
