package sheet

import (
	"strings"

	"github.com/vk/irgen/internal/model"
	"github.com/xuri/excelize/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Row is one non-blank spreadsheet row. Line is the 1-based row number as
// shown by spreadsheet tools; the header is line 1.
type Row struct {
	Line  int
	Cells map[string]cty.Value
}

// Value returns the cell for col, or a null string when absent.
func (r Row) Value(col string) cty.Value {
	if v, ok := r.Cells[col]; ok {
		return v
	}
	return cty.NullVal(cty.String)
}

// Text renders the cell as trimmed text. Numbers are rendered without
// exponent; null and absent cells are "".
func (r Row) Text(col string) string {
	v := r.Value(col)
	if v.IsNull() || !v.IsKnown() {
		return ""
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil || s.IsNull() {
		return ""
	}
	return strings.TrimSpace(s.AsString())
}

// IsBlank reports whether the cell is absent, null or whitespace only.
func (r Row) IsBlank(col string) bool {
	return r.Text(col) == ""
}

// IsNumber reports whether the cell was stored as a number.
func (r Row) IsNumber(col string) bool {
	v := r.Value(col)
	return !v.IsNull() && v.Type() == cty.Number
}

// With returns a copy of the row with col set to v.
func (r Row) With(col string, v cty.Value) Row {
	cells := make(map[string]cty.Value, len(r.Cells)+1)
	for k, cell := range r.Cells {
		cells[k] = cell
	}
	cells[col] = v
	return Row{Line: r.Line, Cells: cells}
}

// Table is one sheet: canonical upper-case header names and the data rows.
type Table struct {
	Name   string
	Header []string
	Rows   []Row
}

// Has reports whether the header contains col.
func (t *Table) Has(col string) bool {
	return t.index(col) >= 0
}

// Ref builds a cell reference for diagnostics.
func (t *Table) Ref(line int, col string) model.Ref {
	ref := model.Ref{Sheet: t.Name, Row: line, Column: col}
	if i := t.index(col); i >= 0 && line > 0 {
		if cell, err := excelize.CoordinatesToCellName(i+1, line); err == nil {
			ref.Cell = cell
		}
	}
	return ref
}

func (t *Table) index(col string) int {
	for i, h := range t.Header {
		if h == col {
			return i
		}
	}
	return -1
}

// Workbook is every table read from one input file.
type Workbook struct {
	Path   string
	Tables []*Table
}

// Table finds a sheet by case-insensitive name.
func (w *Workbook) Table(name string) *Table {
	for _, t := range w.Tables {
		if strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return nil
}
