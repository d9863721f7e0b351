// Package grid materializes the first sheet of a workbook as a dense,
// immutable matrix of trimmed text cells.
package grid

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/cashflow-dashboard/pkg/money"
)

// Workbook is the slice of *excelize.File the reader needs.
type Workbook interface {
	GetSheetList() []string
	GetRows(sheet string, opts ...excelize.Options) ([][]string, error)
	GetCellType(sheet, cell string) (excelize.CellType, error)
}

// Grid is a row-major matrix of trimmed cells. Every row has Cols() entries.
type Grid struct {
	cells   [][]string
	display [][]string // formatted text as the sheet shows it; nil for literal grids
	cols    int
}

// Open opens a workbook from an io.Reader
func Open(r io.Reader) (*excelize.File, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	return f, nil
}

// OpenFile opens a workbook from a file path
func OpenFile(path string) (*excelize.File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	return f, nil
}

// Read builds the grid from the first sheet of wb. A workbook without sheets
// or with an empty first sheet yields an empty grid.
func Read(wb Workbook) (*Grid, error) {
	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return New(nil), nil
	}
	sheet := sheets[0]

	rows, err := wb.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	shown, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	for r, row := range rows {
		for c, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				continue
			}
			typ, err := wb.GetCellType(sheet, cell)
			if err != nil || !isNumeric(typ) {
				continue
			}
			// Raw numbers use a decimal point; render them the way the
			// sheet writes amounts so money.ParseCurrency reads them back.
			if localized, ok := money.Localize(value); ok {
				row[c] = localized
			}
		}
	}

	g := New(rows)
	g.display = New(shown).cells
	return g, nil
}

// isNumeric reports whether a cell stores a number. Cells without an explicit
// type attribute are numbers in SpreadsheetML.
func isNumeric(typ excelize.CellType) bool {
	return typ == excelize.CellTypeNumber || typ == excelize.CellTypeUnset
}

// New builds a grid from literal rows, trimming every cell and padding ragged
// rows with empty strings.
func New(rows [][]string) *Grid {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	cells := make([][]string, len(rows))
	for r, row := range rows {
		padded := make([]string, cols)
		for c, value := range row {
			padded[c] = strings.TrimSpace(value)
		}
		cells[r] = padded
	}

	return &Grid{cells: cells, cols: cols}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	return len(g.cells)
}

// Cols returns the width of the widest row.
func (g *Grid) Cols() int {
	return g.cols
}

// Cell returns the cell at (row, col), or "" when out of range.
func (g *Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g.cells) || col < 0 || col >= g.cols {
		return ""
	}
	return g.cells[row][col]
}

// Display returns the cell at (row, col) as the sheet renders it, so a
// percent-formatted 0.05 reads "5%". Grids built with New return Cell.
func (g *Grid) Display(row, col int) string {
	if g.display == nil {
		return g.Cell(row, col)
	}
	if row < 0 || row >= len(g.display) || col < 0 || col >= len(g.display[row]) {
		return ""
	}
	return g.display[row][col]
}

// Row returns a copy of row i, or nil when out of range.
func (g *Grid) Row(i int) []string {
	if i < 0 || i >= len(g.cells) {
		return nil
	}
	out := make([]string, g.cols)
	copy(out, g.cells[i])
	return out
}

// IsEmpty reports whether the grid has no non-blank cell.
func (g *Grid) IsEmpty() bool {
	for _, row := range g.cells {
		for _, v := range row {
			if v != "" {
				return false
			}
		}
	}
	return true
}
