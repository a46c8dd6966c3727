// File path: internal/format/format.go

// Package format holds the value formatters applied by the mapping resolver.
// Conversion failure is a formatting outcome, never an error: any input that
// cannot be read as a number comes back as the "N/A" sentinel.
package format

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is the sentinel substituted for null or non-numeric values.
const NotAvailable = "N/A"

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency renders a numeric string as a dollar amount with two decimals and
// thousands grouping, e.g. "1234.5" -> "$1,234.50".
func Currency(value string) string {
	f, ok := parseNumber(value)
	if !ok {
		return NotAvailable
	}
	return printer.Sprintf("$%.2f", f)
}

// Percentage renders a numeric string as a two-decimal percentage, e.g.
// "7" -> "7.00%".
func Percentage(value string) string {
	f, ok := parseNumber(value)
	if !ok {
		return NotAvailable
	}
	return printer.Sprintf("%.2f%%", f)
}

func parseNumber(value string) (float64, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || strings.EqualFold(trimmed, NotAvailable) {
		return 0, false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
