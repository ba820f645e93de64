package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/irgen/internal/model"
	"github.com/vk/irgen/internal/sheet"
	"github.com/zclconf/go-cty/cty"
)

func table(name string, header []string, rows ...[]cty.Value) *sheet.Table {
	t := &sheet.Table{Name: name, Header: header}
	for i, vals := range rows {
		row := sheet.Row{Line: i + 2, Cells: map[string]cty.Value{}}
		for c, v := range vals {
			row.Cells[header[c]] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func TestDecodeComponent_FallbackFillsBlanks(t *testing.T) {
	t.Parallel()

	tbl := table("version", []string{"VENDOR", "NAME"}, []cty.Value{cty.StringVal("acme"), cty.StringVal("")})
	fallback := model.Component{Vendor: "x", Library: "lib", Name: "file", Version: "0.1"}

	got := DecodeComponent(context.Background(), tbl, fallback)

	assert.Equal(t, model.Component{Vendor: "acme", Library: "lib", Name: "file", Version: "0.1"}, got)
}

func TestDecodeAddressMap(t *testing.T) {
	t.Parallel()

	header := []string{"BLOCK", "OFFSET", "RANGE", "DESCRIPTION"}
	s := cty.StringVal

	blocks, err := DecodeAddressMap(context.Background(), table("address_map", header,
		[]cty.Value{s("uart"), s("0x1000"), s("0x100"), s("Serial")},
		[]cty.Value{s("gpio"), s("0x2000"), cty.NumberIntVal(64), s("")},
	), "0x")

	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, uint64(0x1000), blocks[0].Base)
	assert.Equal(t, uint64(0x100), blocks[0].Range)
	assert.Equal(t, "Serial", blocks[0].Description)
	assert.Equal(t, uint64(64), blocks[1].Range)

	testCases := []struct {
		name string
		row  []cty.Value
		kind model.Kind
	}{
		{name: "numeric offset", row: []cty.Value{s("a"), cty.NumberIntVal(4096), s("0x10")}, kind: model.KindInvalidHexFormat},
		{name: "unprefixed offset", row: []cty.Value{s("a"), s("1000"), s("0x10")}, kind: model.KindInvalidHexFormat},
		{name: "zero range", row: []cty.Value{s("a"), s("0x0"), s("0")}, kind: model.KindInvalidValue},
		{name: "no block", row: []cty.Value{s(""), s("0x0"), s("4")}, kind: model.KindMissingGroupContext},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeAddressMap(context.Background(), table("address_map", header[:3], tc.row), "0x")

			require.Error(t, err)
			assert.Equal(t, tc.kind, model.KindOf(err))
		})
	}
}

func TestRegisterTables_SkipsMetadataSheets(t *testing.T) {
	t.Parallel()

	wb := &sheet.Workbook{Tables: []*sheet.Table{
		{Name: "Version", Header: []string{"VENDOR"}},
		{Name: "address_map", Header: []string{"BLOCK"}},
		{Name: "register_template", Header: []string{"ADDR"}},
		{Name: "Sheet1"},
		{Name: "uart", Header: []string{"ADDR"}},
	}}

	tables := RegisterTables(wb)

	require.Len(t, tables, 1)
	assert.Equal(t, "uart", tables[0].Name)
}

func TestResolveInputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"a.xlsx", "b.csv", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	inputs, err := ResolveInputs(context.Background(), dir, filepath.Join(dir, "a.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.xlsx"), filepath.Join(dir, "b.csv")}, inputs)

	_, err = ResolveInputs(context.Background(), filepath.Join(dir, "notes.txt"))
	assert.Error(t, err)

	_, err = ResolveInputs(context.Background(), filepath.Join(dir, "missing.xlsx"))
	assert.Error(t, err)
}
