package utils

import "testing"

func TestEuroToCents(t *testing.T) {
	cases := []struct {
		euro float64
		want int64
	}{
		{50.00, 5000},
		{0.01, 1},
		{99.99, 9999},
		{10.005, 1001}, // rounds to nearest
		{10.004, 1000},
		{0, 0},
	}
	for _, tc := range cases {
		if got := EuroToCents(tc.euro); got != tc.want {
			t.Errorf("EuroToCents(%v) = %d, want %d", tc.euro, got, tc.want)
		}
	}
}

func TestFormatCents(t *testing.T) {
	if got := FormatCents(5000); got != "€50.00" {
		t.Errorf("FormatCents(5000) = %q", got)
	}
	if got := FormatCents(1); got != "€0.01" {
		t.Errorf("FormatCents(1) = %q", got)
	}
}

func TestRandomCode(t *testing.T) {
	code := RandomCode(6)
	if len(code) != 6 {
		t.Fatalf("expected 6 characters, got %d", len(code))
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			t.Errorf("unexpected character %q in code %q", r, code)
		}
	}
}
