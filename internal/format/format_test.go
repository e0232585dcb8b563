package format

import (
	"testing"

	"thuchi/internal/core"
	"thuchi/internal/report"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		units int64
		want  string
	}{
		{0, "0 đ"},
		{500, "500 đ"},
		{50000, "50.000 đ"},
		{1234567, "1.234.567 đ"},
		{-40000, "-40.000 đ"},
	}
	for _, tt := range tests {
		if got := Money(core.Money{Units: tt.units}); got != tt.want {
			t.Errorf("Money(%d) = %q, want %q", tt.units, got, tt.want)
		}
	}
}

func TestSigned(t *testing.T) {
	if got := Signed(core.Money{Units: 560000}); got != "+560.000 đ" {
		t.Errorf("Signed(560000) = %q", got)
	}
	if got := Signed(core.Money{Units: -120000}); got != "-120.000 đ" {
		t.Errorf("Signed(-120000) = %q", got)
	}
	if got := Signed(core.Money{}); got != "+0 đ" {
		t.Errorf("Signed(0) = %q", got)
	}
}

func TestPiePreservesOrderAndColors(t *testing.T) {
	buckets := []report.Bucket{
		{Label: "food", Total: core.Money{Units: 200000}, Percent: 40, Color: "#FF6384"},
		{Label: "transport", Total: core.Money{Units: 100000}, Percent: 20, Color: "#FF9F40"},
	}
	slices := Pie(buckets)
	if len(slices) != 2 {
		t.Fatalf("got %d slices, want 2", len(slices))
	}
	if slices[0].Label != "food" || slices[0].Color != "#FF6384" {
		t.Errorf("first slice = %+v", slices[0])
	}
	if slices[1].Value != 100000 || slices[1].Display != "100.000 đ" {
		t.Errorf("second slice = %+v", slices[1])
	}
}
