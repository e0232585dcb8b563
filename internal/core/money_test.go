package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		units int64
		ok    bool
	}{
		{"50000", 50000, true},
		{"50.000", 50000, true},
		{"50,000", 50000, true},
		{"50 000", 50000, true},
		{" 1 ", 1, true},
		{"0", 0, false},
		{"-5", 0, false},
		{"+5", 0, false},
		{"abc", 0, false},
		{"5đ", 0, false},
		{"", 0, false},
		{"...", 0, false},
	}
	for i, tc := range cases {
		m, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || m.Units != tc.units {
				t.Fatalf("case %d (%q): got %d, %v", i, tc.in, m.Units, err)
			}
			continue
		}
		if err == nil {
			t.Fatalf("case %d (%q): expected error", i, tc.in)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Units: 1000000}
	b := Money{Units: 400000}
	if got := a.Sub(b).Units; got != 600000 {
		t.Fatalf("sub: got %d", got)
	}
	if got := a.Add(b).Units; got != 1400000 {
		t.Fatalf("add: got %d", got)
	}
}
