package services

import "testing"

func TestFormatYen(t *testing.T) {
	tests := []struct {
		amount int
		want   string
	}{
		{0, "¥0"},
		{5, "¥5"},
		{100, "¥100"},
		{1000, "¥1,000"},
		{12345, "¥12,345"},
		{1234567, "¥1,234,567"},
		{-4500, "-¥4,500"},
	}

	for _, tt := range tests {
		if got := FormatYen(tt.amount); got != tt.want {
			t.Errorf("FormatYen(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatDateJP(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-06-15", "2025年6月15日"},
		{"2026-01-01", "2026年1月1日"},
		{"not-a-date", "not-a-date"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := FormatDateJP(tt.in); got != tt.want {
			t.Errorf("FormatDateJP(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
