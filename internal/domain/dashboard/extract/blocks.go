package extract

import (
	"sort"

	"github.com/FACorreiaa/cashflow-dashboard/internal/domain/dashboard/grid"
	"github.com/FACorreiaa/cashflow-dashboard/internal/domain/dashboard/period"
	"github.com/FACorreiaa/cashflow-dashboard/pkg/money"
)

// amountOffset is the distance from a description column to its amount
// column. The column in between holds the currency symbol.
const amountOffset = 2

// Anchor is a month cell that starts a monthly block.
type Anchor struct {
	Period string
	Row    int
	Col    int
}

// column pair of one side (inflow or outflow) of a block
type sideColumns struct {
	desc   int
	amount int
}

// FindAnchors returns every month cell whose next row carries both the inflow
// and outflow labels within the search window, in row-major order.
func FindAnchors(g *grid.Grid, opts Options) []Anchor {
	opts = opts.withDefaults()
	anchors := make([]Anchor, 0)

	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols() && c < opts.Bounds.AnchorCols; c++ {
			text := g.Cell(r, c)
			if text == "" {
				continue
			}
			if _, ok := period.MonthNumber(text); !ok {
				continue
			}
			_, inOK := labelOffset(g, r+1, c, opts.Bounds.SubHeaderProbeCols, opts.Labels.Inflow)
			_, outOK := labelOffset(g, r+1, c, opts.Bounds.SubHeaderProbeCols, opts.Labels.Outflow)
			if inOK && outOK {
				anchors = append(anchors, Anchor{Period: text, Row: r, Col: c})
			}
		}
	}

	return anchors
}

// ScanBlock extracts the inflow and outflow items below an anchor. It reports
// false when the sub-header lacks either label.
func ScanBlock(g *grid.Grid, a Anchor, opts Options) (PeriodDetail, bool, []Diagnostic) {
	opts = opts.withDefaults()
	subHeader := a.Row + 1

	inOff, inOK := labelOffset(g, subHeader, a.Col, opts.Bounds.SubHeaderWindowCols, opts.Labels.Inflow)
	outOff, outOK := labelOffset(g, subHeader, a.Col, opts.Bounds.SubHeaderWindowCols, opts.Labels.Outflow)
	if !inOK || !outOK {
		return PeriodDetail{}, false, []Diagnostic{note(KindBlockMalformed, a.Row, a.Col,
			"block %q has no %q/%q sub-header", a.Period, opts.Labels.Inflow, opts.Labels.Outflow)}
	}

	date, ok := period.ISODate(a.Period, opts.Year)
	if !ok {
		return PeriodDetail{}, false, []Diagnostic{note(KindBlockMalformed, a.Row, a.Col,
			"anchor %q is not a month", a.Period)}
	}

	in := sideColumns{desc: a.Col + inOff, amount: a.Col + inOff + amountOffset}
	out := sideColumns{desc: a.Col + outOff, amount: a.Col + outOff + amountOffset}

	detail := PeriodDetail{
		Date:     date,
		Inflows:  make([]LineItem, 0),
		Outflows: make([]LineItem, 0),
	}
	var diags []Diagnostic

	first := subHeader + 1
	for r := first; r < g.Rows() && r < first+opts.Bounds.BlockRows; r++ {
		if period.IsTotal(g.Cell(r, in.desc)) || period.IsTotal(g.Cell(r, out.desc)) {
			break
		}
		if item, ok, d := readItem(g, r, in); ok {
			detail.Inflows = append(detail.Inflows, item)
		} else if d != nil {
			diags = append(diags, *d)
		}
		if item, ok, d := readItem(g, r, out); ok {
			detail.Outflows = append(detail.Outflows, item)
		} else if d != nil {
			diags = append(diags, *d)
		}
	}

	sort.SliceStable(detail.Outflows, func(i, j int) bool {
		return detail.Outflows[i].Amount > detail.Outflows[j].Amount
	})

	return detail, true, diags
}

// ScanBlocks extracts every monthly block, keyed by the anchor text as it
// appears in the sheet. A later block with the same text replaces the earlier
// one.
func ScanBlocks(g *grid.Grid, opts Options) (map[string]PeriodDetail, []Diagnostic) {
	opts = opts.withDefaults()
	details := make(map[string]PeriodDetail)
	var diags []Diagnostic

	for _, a := range FindAnchors(g, opts) {
		detail, ok, d := ScanBlock(g, a, opts)
		diags = append(diags, d...)
		if !ok {
			continue
		}
		if _, dup := details[a.Period]; dup {
			diags = append(diags, note(KindDuplicateAnchor, a.Row, a.Col,
				"block %q replaces an earlier block with the same label", a.Period))
		}
		details[a.Period] = detail
	}

	return details, diags
}

// labelOffset returns the offset of label within width columns of row r,
// starting at col.
func labelOffset(g *grid.Grid, r, col, width int, label string) (int, bool) {
	for off := 0; off < width; off++ {
		if matches(g.Cell(r, col+off), label) {
			return off, true
		}
	}
	return 0, false
}

// readItem reads one side of a block row. Blank sides and bare currency
// symbols are skipped silently; a described item whose amount does not parse
// yields a diagnostic.
func readItem(g *grid.Grid, r int, side sideColumns) (LineItem, bool, *Diagnostic) {
	desc := g.Cell(r, side.desc)
	if desc == "" || desc == money.CurrencyToken {
		return LineItem{}, false, nil
	}

	raw := g.Cell(r, side.amount)
	amount, ok := money.ParseCurrency(raw)
	if ok {
		return LineItem{Description: desc, Amount: amount}, true, nil
	}

	// The amount may have moved next to the description.
	if _, shifted := money.ParseCurrency(g.Cell(r, side.desc+1)); shifted {
		d := note(KindLayoutDrift, r, side.desc+1,
			"amount for %q found next to the description instead of %d columns right", desc, amountOffset)
		return LineItem{}, false, &d
	}

	if raw == "" {
		return LineItem{}, false, nil
	}
	d := note(KindUnparseableAmount, r, side.amount, "dropped %q: amount %q", desc, raw)
	return LineItem{}, false, &d
}
