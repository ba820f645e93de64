package normalize

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/irgen/internal/model"
	"github.com/vk/irgen/internal/sheet"
	"github.com/zclconf/go-cty/cty"
)

// newTable builds a text-only table; line numbers start at 2 like a sheet
// with a header row.
func newTable(name string, header []string, rows ...[]string) *sheet.Table {
	t := &sheet.Table{Name: name, Header: header}
	for i, cols := range rows {
		row := sheet.Row{Line: i + 2, Cells: map[string]cty.Value{}}
		for c, v := range cols {
			if v != "" {
				row.Cells[header[c]] = cty.StringVal(v)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

var regHeader = []string{"BLOCK", "ADDR", "REG", "FIELD", "BIT", "WIDTH", "ATTRIBUTE", "DEFAULT", "DESCRIPTION"}

func TestFill_InheritsFromNearestRowAbove(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	table := newTable("regs", []string{"BLOCK", "REG"},
		[]string{"A", "r0"},
		[]string{"", "r1"},
		[]string{"B", "r2"},
	)

	// --- Act ---
	filled, err := Fill(table, HierarchicalColumns)

	// --- Assert ---
	require.NoError(t, err)
	var blocks []string
	for _, r := range filled {
		blocks = append(blocks, r.Text("BLOCK"))
	}
	assert.Equal(t, []string{"A", "A", "B"}, blocks)
	assert.Equal(t, 2, filled[1].Origin["BLOCK"], "inherited value points at the row it was written on")
}

func TestFill_IsNoOpOnNormalizedRows(t *testing.T) {
	t.Parallel()

	table := newTable("regs", regHeader,
		[]string{"uart", "0x0", "ctrl", "en", "[0:0]", "1", "RW", "0", ""},
		[]string{"uart", "0x0", "ctrl", "mode", "[2:1]", "2", "RW", "0", ""},
		[]string{"uart", "0x4", "stat", "busy", "[0:0]", "1", "RO", "", ""},
	)

	filled, err := Fill(table, HierarchicalColumns)
	require.NoError(t, err)

	if diff := cmp.Diff(table.Rows, Rows(filled), cmp.Comparer(func(a, b cty.Value) bool { return a.RawEquals(b) })); diff != "" {
		t.Errorf("normalizing a normalized sequence changed it (-want +got):\n%s", diff)
	}

	again, err := Fill(&sheet.Table{Name: "regs", Header: regHeader, Rows: Rows(filled)}, HierarchicalColumns)
	require.NoError(t, err)
	assert.Equal(t, len(filled), len(again))
}

func TestFill_MissingGroupContext(t *testing.T) {
	t.Parallel()

	t.Run("first row without block", func(t *testing.T) {
		t.Parallel()
		table := newTable("regs", []string{"BLOCK", "REG"}, []string{"", "r0"})

		_, err := Fill(table, HierarchicalColumns)

		require.Error(t, err)
		assert.Equal(t, model.KindMissingGroupContext, model.KindOf(err))
		assert.Contains(t, err.Error(), "regs!A2")
	})

	t.Run("new block resets register address", func(t *testing.T) {
		t.Parallel()
		table := newTable("regs", []string{"BLOCK", "ADDR", "REG"},
			[]string{"A", "0x0", "r0"},
			[]string{"B", "", "r1"},
		)

		_, err := Fill(table, HierarchicalColumns)

		require.Error(t, err)
		assert.Equal(t, model.KindMissingGroupContext, model.KindOf(err))
		assert.Contains(t, err.Error(), "ADDR")
	})
}

func TestNormalize_GroupsFieldsPerRegister(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	table := newTable("regs", regHeader,
		[]string{"uart", "0x0", "ctrl", "", "", "", "", "", "Control register"},
		[]string{"", "", "", "en", "[0:0]", "1", "rw", "0x1", "Enable"},
		[]string{"", "", "", "mode", "[3:1]", "", "RO", "", ""},
		[]string{"", "0x4", "ch{n}, n=range(2)", "data", "[7:0]", "8", "W1C", "", ""},
	)

	// --- Act ---
	res, err := Normalize(context.Background(), table, DefaultOptions())

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, res.Templates, 2)
	assert.Equal(t, 4, res.Rows)

	ctrl := res.Templates[0]
	assert.Equal(t, "ctrl", ctrl.Name.Template)
	assert.Equal(t, "uart", ctrl.Block)
	assert.Equal(t, "memory_map", ctrl.MemoryMap)
	assert.Equal(t, "Control register", ctrl.Description)
	assert.Equal(t, 32, ctrl.Width)
	require.Len(t, ctrl.Fields, 2)
	assert.Equal(t, "RW", ctrl.Fields[0].Access.Code, "access policy is canonicalised")
	require.NotNil(t, ctrl.Fields[0].Reset)
	assert.Equal(t, uint64(1), *ctrl.Fields[0].Reset)
	assert.Equal(t, 1, ctrl.Fields[1].Offset)
	assert.Equal(t, 3, ctrl.Fields[1].Width)

	ch := res.Templates[1]
	assert.Equal(t, uint64(4), ch.Offset)
	require.NotNil(t, ch.Name.Range)
	assert.Equal(t, uint64(4), ch.Stride, "stride defaults to the register width in bytes")
}

func TestNormalize_HexValidation(t *testing.T) {
	t.Parallel()

	accepted := newTable("regs", regHeader, []string{"b", "0x10", "r", "f", "[0:0]", "", "RW", "", ""})
	res, err := Normalize(context.Background(), accepted, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, uint64(16), res.Templates[0].Offset)

	for _, addr := range []string{"10", "0X10", "0x", "0x1g"} {
		t.Run(addr, func(t *testing.T) {
			t.Parallel()
			table := newTable("regs", regHeader, []string{"b", addr, "r", "f", "[0:0]", "", "RW", "", ""})

			_, err := Normalize(context.Background(), table, DefaultOptions())

			require.Error(t, err)
			assert.Equal(t, model.KindInvalidHexFormat, model.KindOf(err))
			assert.Contains(t, err.Error(), "regs!B2")
		})
	}
}

func TestNormalize_RejectsNumericAddressCell(t *testing.T) {
	t.Parallel()

	table := newTable("regs", regHeader, []string{"b", "", "r", "f", "[0:0]", "", "RW", "", ""})
	table.Rows[0].Cells["ADDR"] = cty.NumberIntVal(16)

	_, err := Normalize(context.Background(), table, DefaultOptions())

	require.Error(t, err)
	assert.Equal(t, model.KindInvalidHexFormat, model.KindOf(err))
}

func TestNormalize_ReservedFieldsAreFiltered(t *testing.T) {
	t.Parallel()

	table := newTable("regs", regHeader,
		[]string{"b", "0x0", "r", "en", "[0:0]", "", "RW", "", ""},
		[]string{"", "", "", "reserved3", "[7:1]", "", "RW", "", ""},
		[]string{"", "", "", "RSVD", "[15:8]", "", "RO", "", ""},
		[]string{"", "", "", "pad", "[31:16]", "", "reserved", "", ""},
	)

	res, err := Normalize(context.Background(), table, DefaultOptions())

	require.NoError(t, err)
	tpl := res.Templates[0]
	require.Len(t, tpl.Fields, 1)
	assert.Equal(t, "en", tpl.Fields[0].Name)
	assert.Len(t, tpl.Reserved, 3)
	assert.Equal(t, 3, res.Reserved)
}

func TestNormalize_FieldErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		row  []string
		kind model.Kind
	}{
		{name: "unknown access", row: []string{"b", "0x0", "r", "f", "[0:0]", "", "RWX", "", ""}, kind: model.KindInvalidAccessPolicy},
		{name: "inverted bits", row: []string{"b", "0x0", "r", "f", "[0:3]", "", "RW", "", ""}, kind: model.KindInvalidBitRange},
		{name: "width mismatch", row: []string{"b", "0x0", "r", "f", "[3:0]", "2", "RW", "", ""}, kind: model.KindInvalidBitRange},
		{name: "bad reset", row: []string{"b", "0x0", "r", "f", "[3:0]", "", "RW", "zz", ""}, kind: model.KindInvalidResetValue},
		{name: "reset too wide", row: []string{"b", "0x0", "r", "f", "[1:0]", "", "RW", "0x4", ""}, kind: model.KindInvalidResetValue},
		{name: "malformed range", row: []string{"b", "0x0", "r{n}, n=4~1", "f", "[0:0]", "", "RW", "", ""}, kind: model.KindMalformedRangeSpec},
		{name: "bits without name", row: []string{"b", "0x0", "r", "", "[0:0]", "", "RW", "", ""}, kind: model.KindInvalidValue},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			table := newTable("regs", regHeader, tc.row)

			_, err := Normalize(context.Background(), table, DefaultOptions())

			require.Error(t, err)
			assert.Equal(t, tc.kind, model.KindOf(err))
		})
	}
}

func TestNormalize_MalformedRangeCarriesCellReference(t *testing.T) {
	t.Parallel()

	table := newTable("regs", regHeader, []string{"b", "0x0", "r{n}", "f", "[0:0]", "", "RW", "", ""})

	_, err := Normalize(context.Background(), table, DefaultOptions())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "regs!C2")
}

func TestNormalize_WidthOnlyFieldsArePacked(t *testing.T) {
	t.Parallel()

	header := []string{"ADDR", "REG", "FIELD", "WIDTH", "REG_SIZE"}
	table := newTable("timer", header,
		[]string{"0x0", "cfg", "a", "4", "16"},
		[]string{"", "", "b", "8", ""},
	)

	res, err := Normalize(context.Background(), table, DefaultOptions())

	require.NoError(t, err)
	tpl := res.Templates[0]
	assert.Equal(t, "timer", tpl.Block, "sheet name is the block when BLOCK is absent")
	assert.Equal(t, 16, tpl.Width)
	assert.Equal(t, 4, tpl.Fields[1].Offset)
	assert.Equal(t, 8, tpl.Fields[1].Width)
}

func TestNormalize_StridePolicy(t *testing.T) {
	t.Parallel()

	header := []string{"ADDR", "REG", "FIELD", "BIT", "REG_SIZE", "STRIDE"}

	explicit := newTable("b", header, []string{"0x0", "r{n}, n=range(2)", "f", "[0:0]", "", "0x10"})
	res, err := Normalize(context.Background(), explicit, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, uint64(16), res.Templates[0].Stride)

	fromSize := newTable("b", header, []string{"0x0", "r{n}, n=range(2)", "f", "[0:0]", "64", ""})
	res, err = Normalize(context.Background(), fromSize, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, uint64(8), res.Templates[0].Stride)

	opts := DefaultOptions()
	opts.StridePolicy = StrideRequired
	missing := newTable("b", header, []string{"0x0", "r{n}, n=range(2)", "f", "[0:0]", "", ""})
	_, err = Normalize(context.Background(), missing, opts)
	require.Error(t, err)
	assert.Equal(t, model.KindInvalidStride, model.KindOf(err))
}

func TestNormalize_MissingColumn(t *testing.T) {
	t.Parallel()

	table := newTable("regs", []string{"ADDR", "FIELD", "BIT"}, []string{"0x0", "f", "0"})

	_, err := Normalize(context.Background(), table, DefaultOptions())

	require.Error(t, err)
	assert.Equal(t, model.KindMissingColumn, model.KindOf(err))
}
