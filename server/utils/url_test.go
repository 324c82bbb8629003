// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils

import (
	"testing"
)

func TestParseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "complete URL",
			input: "https://backend.example.com",
			want:  "https://backend.example.com",
		},
		{
			name:  "trailing slash is stripped",
			input: "http://localhost:5000/",
			want:  "http://localhost:5000",
		},
		{
			name:    "missing scheme",
			input:   "backend.example.com",
			wantErr: true,
		},
		{
			name:    "path only",
			input:   "/api",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			parsed, err := ParseURL(tt.input, "test")
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}

			if err == nil && parsed.String() != tt.want {
				t.Errorf("ParseURL(%q) = %q, want %q", tt.input, parsed.String(), tt.want)
			}
		})
	}
}

func TestSanitizeReturnPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"/pages/browse", "/pages/browse"},
		{"  /pages/profile ", "/pages/profile"},
		{"", ""},
		{"https://evil.example.com", ""},
		{"//evil.example.com", ""},
		{"pages/browse", ""},
	}

	for _, tt := range tests {
		if got := SanitizeReturnPath(tt.input); got != tt.want {
			t.Errorf("SanitizeReturnPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
