package normalize

import (
	"github.com/vk/irgen/internal/model"
	"github.com/vk/irgen/internal/sheet"
	"github.com/zclconf/go-cty/cty"
)

// Column names of the register table.
const (
	ColMap         = "MAP"
	ColBlock       = "BLOCK"
	ColBase        = "BASE"
	ColAddr        = "ADDR"
	ColReg         = "REG"
	ColField       = "FIELD"
	ColBit         = "BIT"
	ColWidth       = "WIDTH"
	ColRegSize     = "REG_SIZE"
	ColStride      = "STRIDE"
	ColAttribute   = "ATTRIBUTE"
	ColDefault     = "DEFAULT"
	ColDescription = "DESCRIPTION"
)

// FillColumn describes one hierarchical column. A blank cell inherits the
// nearest value above it, unless the ResetOn column changed on this row, in
// which case the carried value is dropped first.
type FillColumn struct {
	Name     string
	Required bool
	ResetOn  string
}

// HierarchicalColumns is the fill order for register tables. Parents come
// before the columns that reset on them.
var HierarchicalColumns = []FillColumn{
	{Name: ColMap},
	{Name: ColBlock, Required: true},
	{Name: ColBase, ResetOn: ColBlock},
	{Name: ColAddr, Required: true, ResetOn: ColBlock},
	{Name: ColReg, Required: true, ResetOn: ColBlock},
	{Name: ColRegSize},
	{Name: ColStride},
}

// FilledRow is a row after forward-fill. Origin records, per filled column,
// the line the value was actually written on, so diagnostics point at the
// source cell rather than at the inheriting row.
type FilledRow struct {
	sheet.Row
	Origin map[string]int
}

type carried struct {
	value cty.Value
	text  string
	line  int
}

// Fill forward-fills the hierarchical columns present in the table header.
// Columns the table does not have are ignored. A required column that is
// blank with nothing to inherit fails with MissingGroupContext.
func Fill(table *sheet.Table, columns []FillColumn) ([]FilledRow, error) {
	active := make([]FillColumn, 0, len(columns))
	for _, c := range columns {
		if table.Has(c.Name) {
			active = append(active, c)
		}
	}

	acc := make(map[string]carried, len(active))
	out := make([]FilledRow, 0, len(table.Rows))
	for _, row := range table.Rows {
		filled := FilledRow{Row: row, Origin: make(map[string]int, len(active))}
		changed := make(map[string]bool, len(active))

		for _, c := range active {
			if !row.IsBlank(c.Name) {
				text := row.Text(c.Name)
				prev, had := acc[c.Name]
				changed[c.Name] = !had || prev.text != text
				acc[c.Name] = carried{value: row.Value(c.Name), text: text, line: row.Line}
				filled.Origin[c.Name] = row.Line
				continue
			}

			if c.ResetOn != "" && changed[c.ResetOn] {
				delete(acc, c.Name)
			}
			prev, ok := acc[c.Name]
			if !ok {
				if c.Required {
					return nil, model.Errorf(model.KindMissingGroupContext, table.Ref(row.Line, c.Name),
						"%s is blank and no earlier row in this group supplies it", c.Name)
				}
				continue
			}
			filled.Row = filled.Row.With(c.Name, prev.value)
			filled.Origin[c.Name] = prev.line
		}
		out = append(out, filled)
	}
	return out, nil
}

// Rows strips the fill bookkeeping.
func Rows(filled []FilledRow) []sheet.Row {
	rows := make([]sheet.Row, len(filled))
	for i, f := range filled {
		rows[i] = f.Row
	}
	return rows
}
