package extract

import (
	"time"

	"github.com/FACorreiaa/cashflow-dashboard/internal/domain/dashboard/grid"
)

// Extract runs every scanner over g and merges their output. It never fails:
// tables that cannot be located come back empty and are reported in
// Report.Diagnostics.
func Extract(g *grid.Grid, opts Options) *Report {
	opts = opts.withDefaults()
	var diags []Diagnostic

	if g.IsEmpty() {
		diags = append(diags, note(KindEmptySheet, -1, -1, "first sheet has no content"))
	}

	primary, d := ScanPrimary(g, opts)
	diags = append(diags, d...)

	seriesA, d := ScanSeries(g, opts.SeriesATitle, opts)
	diags = append(diags, d...)

	seriesB, d := ScanSeries(g, opts.SeriesBTitle, opts)
	diags = append(diags, d...)

	details, d := ScanBlocks(g, opts)
	diags = append(diags, d...)

	return &Report{
		Result: Result{
			Meta: Meta{
				Year:      opts.Year,
				UpdatedAt: opts.Now().UTC().Format(time.RFC3339),
			},
			Dashboard: Dashboard{
				Primary: primary,
				SeriesA: seriesA,
				SeriesB: seriesB,
			},
			Details: details,
		},
		Diagnostics: diags,
	}
}
