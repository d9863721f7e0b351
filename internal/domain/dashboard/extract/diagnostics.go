package extract

import "fmt"

// Kind classifies a diagnostic.
type Kind string

const (
	KindEmptySheet           Kind = "empty-sheet"
	KindPrimaryHeaderMissing Kind = "primary-header-missing"
	KindSeriesTitleMissing   Kind = "series-title-missing"
	KindUnknownPeriod        Kind = "unknown-period"
	KindUnparseableAmount    Kind = "unparseable-amount"
	KindBlockMalformed       Kind = "block-malformed"
	KindDuplicateAnchor      Kind = "duplicate-anchor"
	KindLayoutDrift          Kind = "layout-drift"
)

// Diagnostic is a non-fatal note about something the scanners skipped or
// degraded. Row and Col are 0-based grid coordinates, -1 when not tied to a
// cell.
type Diagnostic struct {
	Kind    Kind
	Row     int
	Col     int
	Message string
}

func (d Diagnostic) String() string {
	if d.Row < 0 {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s at R%dC%d: %s", d.Kind, d.Row+1, d.Col+1, d.Message)
}

func note(kind Kind, row, col int, format string, args ...any) Diagnostic {
	return Diagnostic{Kind: kind, Row: row, Col: col, Message: fmt.Sprintf(format, args...)}
}

// CountByKind tallies diagnostics per kind.
func CountByKind(diags []Diagnostic) map[Kind]int {
	counts := make(map[Kind]int)
	for _, d := range diags {
		counts[d.Kind]++
	}
	return counts
}
