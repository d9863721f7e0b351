// Package period recognizes month labels written in Portuguese and turns them
// into month-granularity ISO dates.
package period

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TotalLabel is the sentinel that closes a table or block.
const TotalLabel = "total"

var monthNames = []string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// months maps folded month names to 1..12. Built once, read-only afterwards.
var months = func() map[string]int {
	m := make(map[string]int, len(monthNames)+1)
	for i, name := range monthNames {
		m[Fold(name)] = i + 1
	}
	// unaccented spelling used by some sheets
	m["marco"] = 3
	return m
}()

// Fold lower-cases s, trims it and strips diacritics ("Março" -> "marco").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		folded = strings.TrimSpace(s)
	}
	return strings.ToLower(folded)
}

// MonthNumber returns the calendar month for a month label.
func MonthNumber(text string) (int, bool) {
	n, ok := months[Fold(text)]
	return n, ok
}

// ISODate returns "YYYY-MM-01" for a month label in the given year.
func ISODate(text string, year int) (string, bool) {
	n, ok := MonthNumber(text)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-01", year, n), true
}

// IsTotal reports whether text is the "total" sentinel.
func IsTotal(text string) bool {
	return Fold(text) == TotalLabel
}
