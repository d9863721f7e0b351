package extract_test

import (
	"time"

	"github.com/FACorreiaa/cashflow-dashboard/internal/domain/dashboard/extract"
	"github.com/FACorreiaa/cashflow-dashboard/internal/domain/dashboard/grid"
)

var fixedNow = time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)

func testOptions() extract.Options {
	opts := extract.DefaultOptions(2026)
	opts.Now = func() time.Time { return fixedNow }
	return opts
}

// sheet builds rows sparsely: each entry places values starting at a column.
type sheet map[int]map[int]string

func (s sheet) grid() *grid.Grid {
	maxRow, maxCol := -1, -1
	for r, cols := range s {
		if r > maxRow {
			maxRow = r
		}
		for c := range cols {
			if c > maxCol {
				maxCol = c
			}
		}
	}
	rows := make([][]string, maxRow+1)
	for r := range rows {
		rows[r] = make([]string, maxCol+1)
		for c, v := range s[r] {
			rows[r][c] = v
		}
	}
	return grid.New(rows)
}

func (s sheet) put(r, c int, values ...string) sheet {
	if s[r] == nil {
		s[r] = make(map[int]string)
	}
	for i, v := range values {
		s[r][c+i] = v
	}
	return s
}

// dashboardSheet mirrors the production layout: summary table on top, the two
// mini tables below it, monthly blocks to the right.
func dashboardSheet() sheet {
	s := sheet{}
	s.put(0, 0, "Fluxo de Caixa 2026")
	s.put(2, 0, "mês", "entrada", "saída", "líquido", "dif", "cresc")
	s.put(3, 0, "Janeiro", "1.000,00", "500,00", "500,00", "0", "—")
	s.put(5, 0, "obs: valores em reais")
	s.put(6, 0, "Fevereiro", "R$ 2.000,00", "R$ 1.500,00", "500,00", "0", "0%")
	s.put(7, 0, "Total", "3.000,00", "2.000,00", "1.000,00")
	s.put(8, 0, "Março", "9", "9", "9", "9", "x")

	s.put(10, 0, "Gastos Fixos")
	s.put(11, 0, "Janeiro", "300,00")
	s.put(12, 0, "Fevereiro", "R$ 350,00")
	s.put(13, 0, "Total", "650,00")

	s.put(14, 0, "GASTOS VARIÁVEIS")
	s.put(15, 0, "Janeiro", "200,00")
	s.put(16, 0, "Fevereiro", "abc")
	s.put(17, 0, "TOTAL")

	s.put(19, 8, "Fevereiro")
	s.put(20, 8, "entrada", "", "", "", "saída")
	s.put(21, 8, "Salário", "R$", "5.000,00", "", "Aluguel", "R$", "1.200,00")
	s.put(22, 8, "", "", "", "", "Mercado", "R$", "800,00")
	s.put(23, 8, "Freela", "R$", "1.500,00", "", "Internet", "R$", "1.200,00")
	s.put(24, 8, "Total", "R$", "6.500,00", "", "Total", "R$", "3.200,00")
	s.put(25, 8, "Depois", "R$", "1,00")

	s.put(19, 20, "Março")
	s.put(20, 20, "Entrada", "", "", "", "Saída")
	s.put(21, 20, "Bônus", "R$", "100,00", "", "Luz", "R$", "150,00")
	s.put(22, 20, "Venda", "R$", "50,00", "", "Total", "R$", "150,00")
	s.put(23, 20, "Ignorada", "R$", "10,00")
	return s
}
