// File path: internal/format/format_test.go
package format

import "testing"

func TestCurrency(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"null", "", "N/A"},
		{"whitespace", "   ", "N/A"},
		{"non-numeric", "abc", "N/A"},
		{"sentinel passthrough", "N/A", "N/A"},
		{"plain", "1234.5", "$1,234.50"},
		{"integer", "500000", "$500,000.00"},
		{"small", "12", "$12.00"},
		{"negative", "-250.75", "$-250.75"},
		{"millions", "1250000.5", "$1,250,000.50"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Currency(tc.input); got != tc.want {
				t.Fatalf("Currency(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestPercentage(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"null", "", "N/A"},
		{"non-numeric", "seven", "N/A"},
		{"integer", "7", "7.00%"},
		{"fraction", "3.875", "3.88%"},
		{"zero", "0", "0.00%"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Percentage(tc.input); got != tc.want {
				t.Fatalf("Percentage(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
