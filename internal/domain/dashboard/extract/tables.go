package extract

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/FACorreiaa/cashflow-dashboard/internal/domain/dashboard/grid"
	"github.com/FACorreiaa/cashflow-dashboard/internal/domain/dashboard/period"
	"github.com/FACorreiaa/cashflow-dashboard/pkg/money"
)

// Primary table columns, relative to the period column.
const (
	colPeriod = iota
	colInflow
	colOutflow
	colNet
	colDelta
	colGrowth
)

// FindPrimaryHeader returns the first row within maxRows whose cells contain
// all three labels.
func FindPrimaryHeader(g *grid.Grid, maxRows int, l Labels) (int, bool) {
	for r := 0; r < g.Rows() && r < maxRows; r++ {
		var inflow, outflow, net bool
		for c := 0; c < g.Cols(); c++ {
			cell := g.Cell(r, c)
			switch {
			case matches(cell, l.Inflow):
				inflow = true
			case matches(cell, l.Outflow):
				outflow = true
			case matches(cell, l.Net):
				net = true
			}
		}
		if inflow && outflow && net {
			return r, true
		}
	}
	return 0, false
}

// ScanPrimary reads the primary summary table. A missing header yields an
// empty table and a diagnostic.
func ScanPrimary(g *grid.Grid, opts Options) ([]SummaryRow, []Diagnostic) {
	opts = opts.withDefaults()
	rows := make([]SummaryRow, 0)

	header, ok := FindPrimaryHeader(g, opts.Bounds.PrimaryHeaderRows, opts.Labels)
	if !ok {
		return rows, []Diagnostic{note(KindPrimaryHeaderMissing, -1, -1,
			"no row with %q, %q and %q in the first %d rows",
			opts.Labels.Inflow, opts.Labels.Outflow, opts.Labels.Net, opts.Bounds.PrimaryHeaderRows)}
	}

	diags := walkPeriods(g, header+1, 0, opts.Year, func(r int, label, date string) {
		rows = append(rows, SummaryRow{
			Period:      label,
			Date:        date,
			Inflow:      amountAt(g, r, colInflow),
			Outflow:     amountAt(g, r, colOutflow),
			Net:         amountAt(g, r, colNet),
			DeltaPrev:   amountAt(g, r, colDelta),
			GrowthLabel: textAt(g, r, colGrowth),
		})
	})

	return rows, diags
}

// FindTitle returns the first row holding a cell equal to title.
func FindTitle(g *grid.Grid, title string) (int, bool) {
	for r := 0; r < g.Rows(); r++ {
		for _, cell := range g.Row(r) {
			if matches(cell, title) {
				return r, true
			}
		}
	}
	return 0, false
}

// ScanSeries reads the single-column mini table titled title: period in
// column 0, outflow in column 1.
func ScanSeries(g *grid.Grid, title string, opts Options) ([]SeriesPoint, []Diagnostic) {
	opts = opts.withDefaults()
	points := make([]SeriesPoint, 0)

	start, ok := FindTitle(g, title)
	if !ok {
		msg := "title not found"
		if near, found := closestCell(g, title); found {
			msg += "; closest cell is " + `"` + near + `"`
		}
		return points, []Diagnostic{note(KindSeriesTitleMissing, -1, -1, "%q: %s", title, msg)}
	}

	diags := walkPeriods(g, start+1, opts.Bounds.SeriesRows, opts.Year, func(r int, label, date string) {
		points = append(points, SeriesPoint{
			Period:  label,
			Date:    date,
			Outflow: amountAt(g, r, 1),
		})
	})

	return points, diags
}

// walkPeriods calls fn for every month row from start on. Blank rows and
// non-month rows are skipped, the total row stops the walk. limit <= 0
// means no row limit.
func walkPeriods(g *grid.Grid, start, limit, year int, fn func(r int, label, date string)) []Diagnostic {
	var diags []Diagnostic
	for r := start; r < g.Rows(); r++ {
		if limit > 0 && r >= start+limit {
			break
		}
		label := g.Cell(r, colPeriod)
		if label == "" {
			continue
		}
		if period.IsTotal(label) {
			break
		}
		date, ok := period.ISODate(label, year)
		if !ok {
			diags = append(diags, note(KindUnknownPeriod, r, colPeriod, "skipped row labelled %q", label))
			continue
		}
		fn(r, label, date)
	}
	return diags
}

func matches(cell, label string) bool {
	return cell != "" && strings.EqualFold(strings.TrimSpace(cell), label)
}

func amountAt(g *grid.Grid, r, c int) *float64 {
	v, ok := money.ParseCurrency(g.Cell(r, c))
	if !ok {
		return nil
	}
	return &v
}

func textAt(g *grid.Grid, r, c int) *string {
	v := g.Display(r, c)
	if v == "" {
		return nil
	}
	return &v
}

// closestCell finds the text cell nearest to title by edit distance, for
// diagnostics only.
func closestCell(g *grid.Grid, title string) (string, bool) {
	target := period.Fold(title)
	maxDistance := len(target) / 3
	best, bestDistance := "", maxDistance+1

	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			cell := g.Cell(r, c)
			if cell == "" {
				continue
			}
			if d := fuzzy.LevenshteinDistance(period.Fold(cell), target); d < bestDistance {
				best, bestDistance = cell, d
			}
		}
	}
	return best, best != ""
}
