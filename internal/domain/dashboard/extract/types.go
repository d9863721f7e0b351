// Package extract locates the dashboard tables inside a sheet grid by content
// pattern and turns them into the dashboard JSON record.
package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SummaryRow is one month of the primary cash-flow table.
type SummaryRow struct {
	Period      string   `json:"mes"`
	Date        string   `json:"date"`
	Inflow      *float64 `json:"entrada"`
	Outflow     *float64 `json:"saida"`
	Net         *float64 `json:"liquido"`
	DeltaPrev   *float64 `json:"diferenca"`
	GrowthLabel *string  `json:"crescimento"`
}

// SeriesPoint is one month of a single-column mini table.
type SeriesPoint struct {
	Period  string   `json:"mes"`
	Date    string   `json:"date"`
	Outflow *float64 `json:"saida"`
}

// LineItem is one itemized inflow or outflow inside a monthly block.
type LineItem struct {
	Description string  `json:"descricao"`
	Amount      float64 `json:"valor"`
}

// PeriodDetail holds the itemized lists of one monthly block.
type PeriodDetail struct {
	Date     string     `json:"date"`
	Inflows  []LineItem `json:"entradas"`
	Outflows []LineItem `json:"saidas"`
}

// Meta describes the generated document.
type Meta struct {
	Year      int    `json:"year"`
	UpdatedAt string `json:"updatedAt"`
}

// Dashboard groups the summary tables.
type Dashboard struct {
	Primary []SummaryRow  `json:"tabela1"`
	SeriesA []SeriesPoint `json:"tabela2"`
	SeriesB []SeriesPoint `json:"tabela3"`
}

// Result is the persisted dashboard document.
type Result struct {
	Meta      Meta                    `json:"meta"`
	Dashboard Dashboard               `json:"dashboard"`
	Details   map[string]PeriodDetail `json:"detalheMensal"`
}

// Report is the extraction output: the document plus every non-fatal note
// raised while building it.
type Report struct {
	Result      Result
	Diagnostics []Diagnostic
}

// Encode serializes the result as indented JSON. Map keys are emitted in
// sorted order, so two runs over the same grid differ only in updatedAt.
func (r *Result) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("failed to encode dashboard: %w", err)
	}
	return buf.Bytes(), nil
}
