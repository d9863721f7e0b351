package extract_test

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/cashflow-dashboard/internal/domain/dashboard/extract"
	"github.com/FACorreiaa/cashflow-dashboard/internal/domain/dashboard/grid"
)

func TestExtract(t *testing.T) {
	report := extract.Extract(dashboardSheet().grid(), testOptions())
	res := report.Result

	assert.Equal(t, 2026, res.Meta.Year)
	assert.Equal(t, "2026-03-05T12:00:00Z", res.Meta.UpdatedAt)
	assert.Len(t, res.Dashboard.Primary, 2)
	assert.Len(t, res.Dashboard.SeriesA, 2)
	assert.Len(t, res.Dashboard.SeriesB, 2)
	assert.Len(t, res.Details, 2)

	counts := extract.CountByKind(report.Diagnostics)
	assert.Equal(t, map[extract.Kind]int{extract.KindUnknownPeriod: 1}, counts)
}

func TestExtractEncodeShape(t *testing.T) {
	report := extract.Extract(dashboardSheet().grid(), testOptions())

	data, err := report.Result.Encode()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	meta := doc["meta"].(map[string]any)
	assert.Equal(t, 2026.0, meta["year"])
	assert.Equal(t, "2026-03-05T12:00:00Z", meta["updatedAt"])

	dash := doc["dashboard"].(map[string]any)
	require.Contains(t, dash, "tabela1")
	require.Contains(t, dash, "tabela2")
	require.Contains(t, dash, "tabela3")

	first := dash["tabela1"].([]any)[0].(map[string]any)
	assert.Equal(t, "Janeiro", first["mes"])
	assert.Equal(t, "2026-01-01", first["date"])
	assert.Equal(t, 1000.0, first["entrada"])
	assert.Equal(t, 500.0, first["saida"])
	assert.Equal(t, "—", first["crescimento"])

	series := dash["tabela3"].([]any)[1].(map[string]any)
	assert.Contains(t, series, "saida")
	assert.Nil(t, series["saida"], "unparseable amounts serialize as null")

	detail := doc["detalheMensal"].(map[string]any)["Fevereiro"].(map[string]any)
	assert.Equal(t, "2026-02-01", detail["date"])
	assert.Len(t, detail["entradas"], 2)
	saidas := detail["saidas"].([]any)
	require.Len(t, saidas, 3)
	assert.Equal(t, map[string]any{"descricao": "Aluguel", "valor": 1200.0}, saidas[0])
}

func TestExtractIsIdempotent(t *testing.T) {
	g := dashboardSheet().grid()

	first, err := extract.Extract(g, testOptions()).Result.Encode()
	require.NoError(t, err)
	second, err := extract.Extract(g, testOptions()).Result.Encode()
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	later := testOptions()
	later.Now = func() time.Time { return fixedNow.Add(48 * time.Hour) }
	third, err := extract.Extract(g, later).Result.Encode()
	require.NoError(t, err)

	stamp := regexp.MustCompile(`"updatedAt": "[^"]*"`)
	assert.NotEqual(t, string(first), string(third))
	assert.Equal(t,
		stamp.ReplaceAllString(string(first), ""),
		stamp.ReplaceAllString(string(third), ""))
}

func TestExtractEmptySheet(t *testing.T) {
	report := extract.Extract(grid.New(nil), testOptions())

	data, err := report.Result.Encode()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	dash := doc["dashboard"].(map[string]any)
	assert.Equal(t, []any{}, dash["tabela1"])
	assert.Equal(t, []any{}, dash["tabela2"])
	assert.Equal(t, []any{}, dash["tabela3"])
	assert.Equal(t, map[string]any{}, doc["detalheMensal"])

	counts := extract.CountByKind(report.Diagnostics)
	assert.Equal(t, 1, counts[extract.KindEmptySheet])
	assert.Equal(t, 1, counts[extract.KindPrimaryHeaderMissing])
	assert.Equal(t, 2, counts[extract.KindSeriesTitleMissing])
}

func TestExtractPartialOptions(t *testing.T) {
	report := extract.Extract(dashboardSheet().grid(), extract.Options{Year: 2025})

	require.Len(t, report.Result.Dashboard.Primary, 2)
	assert.Equal(t, "2025-01-01", report.Result.Dashboard.Primary[0].Date)
	assert.Len(t, report.Result.Dashboard.SeriesA, 2)
	assert.NotEmpty(t, report.Result.Meta.UpdatedAt)
}

func TestExtractSingleBoundOverride(t *testing.T) {
	tests := []struct {
		name      string
		bounds    extract.Bounds
		wantItems int
	}{
		{"block rows only", extract.Bounds{BlockRows: 1}, 1},
		{"series rows only", extract.Bounds{SeriesRows: 5}, 2},
		{"negative values fall back", extract.Bounds{AnchorCols: -1, BlockRows: 10}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			opts.Bounds = tt.bounds

			res := extract.Extract(dashboardSheet().grid(), opts).Result

			assert.Len(t, res.Dashboard.Primary, 2)
			assert.Len(t, res.Dashboard.SeriesA, 2)
			require.Len(t, res.Details, 2)
			assert.Len(t, res.Details["Fevereiro"].Inflows, tt.wantItems)
		})
	}
}

func TestExtractZeroYear(t *testing.T) {
	opts := extract.Options{Now: func() time.Time { return fixedNow }}

	res := extract.Extract(dashboardSheet().grid(), opts).Result

	assert.Equal(t, 2026, res.Meta.Year)
	require.NotEmpty(t, res.Dashboard.Primary)
	assert.Equal(t, "2026-01-01", res.Dashboard.Primary[0].Date)
	assert.Equal(t, "2026-02-01", res.Details["Fevereiro"].Date)
}

func TestDiagnosticString(t *testing.T) {
	d := extract.Diagnostic{Kind: extract.KindUnknownPeriod, Row: 4, Col: 0, Message: "skipped"}
	assert.Equal(t, "unknown-period at R5C1: skipped", d.String())

	d = extract.Diagnostic{Kind: extract.KindEmptySheet, Row: -1, Col: -1, Message: "empty"}
	assert.Equal(t, "empty-sheet: empty", d.String())
}
