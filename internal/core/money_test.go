package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseDecimalToCentsAllowZero(t *testing.T) {
	got, err := ParseDecimalToCentsAllowZero("0")
	if err != nil || got != 0 {
		t.Fatalf("expected 0, got %d (err=%v)", got, err)
	}
	if _, err := ParseDecimalToCentsAllowZero("-1"); err == nil {
		t.Fatalf("negative input expected error")
	}
	if _, err := ParseDecimalToCentsAllowZero(""); err == nil {
		t.Fatalf("blank input expected error")
	}
}

func TestMoneyDecimalString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{1234, "12.34"},
		{-50, "-0.50"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).DecimalString(); got != tc.want {
			t.Errorf("DecimalString(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 1234})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "1234" {
		t.Fatalf("marshal = %s, want 1234", b)
	}
	var m Money
	if err := json.Unmarshal([]byte("567"), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Cents != 567 {
		t.Fatalf("unmarshal = %d, want 567", m.Cents)
	}
}
