// Package export writes the dashboard summary tables as a flat CSV, one line
// per month and table.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/FACorreiaa/cashflow-dashboard/internal/domain/dashboard/extract"
)

// Table names used in the "tabela" column.
const (
	TablePrimary = "tabela1"
	TableSeriesA = "tabela2"
	TableSeriesB = "tabela3"
)

// Record is one CSV line. Empty cells stand for null values.
type Record struct {
	Table       string `csv:"tabela"`
	Period      string `csv:"mes"`
	Date        string `csv:"date"`
	Inflow      string `csv:"entrada"`
	Outflow     string `csv:"saida"`
	Net         string `csv:"liquido"`
	DeltaPrev   string `csv:"diferenca"`
	GrowthLabel string `csv:"crescimento"`
}

// Records flattens the three summary tables in document order.
func Records(r *extract.Result) []*Record {
	d := r.Dashboard
	out := make([]*Record, 0, len(d.Primary)+len(d.SeriesA)+len(d.SeriesB))

	for _, row := range d.Primary {
		out = append(out, &Record{
			Table:       TablePrimary,
			Period:      row.Period,
			Date:        row.Date,
			Inflow:      formatAmount(row.Inflow),
			Outflow:     formatAmount(row.Outflow),
			Net:         formatAmount(row.Net),
			DeltaPrev:   formatAmount(row.DeltaPrev),
			GrowthLabel: deref(row.GrowthLabel),
		})
	}
	for _, p := range d.SeriesA {
		out = append(out, seriesRecord(TableSeriesA, p))
	}
	for _, p := range d.SeriesB {
		out = append(out, seriesRecord(TableSeriesB, p))
	}
	return out
}

// WriteCSV writes the summary tables of r to w with a header line.
func WriteCSV(w io.Writer, r *extract.Result) error {
	records := Records(r)
	if len(records) == 0 {
		// gocsv writes nothing for an empty slice; keep the header.
		if _, err := io.WriteString(w, "tabela,mes,date,entrada,saida,liquido,diferenca,crescimento\n"); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
		return nil
	}
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func seriesRecord(table string, p extract.SeriesPoint) *Record {
	return &Record{
		Table:   table,
		Period:  p.Period,
		Date:    p.Date,
		Outflow: formatAmount(p.Outflow),
	}
}

func formatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
