package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"12", 1200, false},
		{".5", 50, false},
		{"12.344", 1234, false}, // third decimal below 5 rounds down
		{"12.345", 1235, false}, // half rounds up
		{"12.346", 1235, false},
		{" 7 ", 700, false},
		{"", 0, true},
		{"0", 0, true},
		{"0.00", 0, true},
		{"-5", 0, true},
		{"+5", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseDecimalToCents(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseDecimalToCents(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseDecimalToCents(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{50000, "500"},
		{1234, "12.34"},
		{1205, "12.05"},
		{100, "1"},
		{0, "0"},
		{-150, "-1.50"},
		{-200, "-2"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).Format(); got != tc.want {
			t.Fatalf("Money{%d}.Format() = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestMoneyAmount(t *testing.T) {
	if got := (Money{Cents: 1234}).Amount(); got != 12.34 {
		t.Fatalf("Amount() = %v, want 12.34", got)
	}
}
