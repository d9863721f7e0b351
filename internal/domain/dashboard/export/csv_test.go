package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/cashflow-dashboard/internal/domain/dashboard/extract"
)

func ptr[T any](v T) *T { return &v }

func TestWriteCSV(t *testing.T) {
	res := &extract.Result{
		Dashboard: extract.Dashboard{
			Primary: []extract.SummaryRow{{
				Period:      "Janeiro",
				Date:        "2026-01-01",
				Inflow:      ptr(1000.0),
				Outflow:     ptr(500.5),
				Net:         ptr(499.5),
				GrowthLabel: ptr("—"),
			}},
			SeriesA: []extract.SeriesPoint{{Period: "Janeiro", Date: "2026-01-01", Outflow: ptr(300.0)}},
			SeriesB: []extract.SeriesPoint{{Period: "Fevereiro", Date: "2026-02-01"}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, res))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "tabela,mes,date,entrada,saida,liquido,diferenca,crescimento", lines[0])
	assert.Equal(t, "tabela1,Janeiro,2026-01-01,1000,500.5,499.5,,—", lines[1])
	assert.Equal(t, "tabela2,Janeiro,2026-01-01,,300,,,", lines[2])
	assert.Equal(t, "tabela3,Fevereiro,2026-02-01,,,,,", lines[3])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, &extract.Result{}))
	assert.Equal(t, "tabela,mes,date,entrada,saida,liquido,diferenca,crescimento\n", buf.String())
}

func TestRecordsOrder(t *testing.T) {
	res := &extract.Result{
		Dashboard: extract.Dashboard{
			SeriesB: []extract.SeriesPoint{{Period: "Março"}},
			Primary: []extract.SummaryRow{{Period: "Janeiro"}},
		},
	}

	records := Records(res)
	require.Len(t, records, 2)
	assert.Equal(t, TablePrimary, records[0].Table)
	assert.Equal(t, TableSeriesB, records[1].Table)
}
