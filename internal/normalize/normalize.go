package normalize

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/vk/irgen/internal/ctxlog"
	"github.com/vk/irgen/internal/model"
	"github.com/vk/irgen/internal/nametmpl"
	"github.com/vk/irgen/internal/sheet"
)

// StridePolicy decides the stride of a templated register whose STRIDE and
// REG_SIZE cells are both blank.
type StridePolicy string

const (
	// StrideFromWidth uses the register width in bytes.
	StrideFromWidth StridePolicy = "register"
	// StrideRequired rejects templated registers without an explicit stride.
	StrideRequired StridePolicy = "none"
)

// DefaultReservedPattern matches padding fields that are never emitted.
const DefaultReservedPattern = `^(rsvd|reserved)\d*$`

// Options carries the read-only configuration the normalizer consumes.
type Options struct {
	HexPrefix    string
	Reserved     *regexp.Regexp
	DefaultWidth int
	StridePolicy StridePolicy
	DefaultMap   string
	DefaultBlock string
}

// DefaultOptions returns the options used when no settings file is given.
func DefaultOptions() Options {
	return Options{
		HexPrefix:    "0x",
		Reserved:     regexp.MustCompile(`(?i)` + DefaultReservedPattern),
		DefaultWidth: 32,
		StridePolicy: StrideFromWidth,
		DefaultMap:   "memory_map",
	}
}

// Result is the normalizer output for one table.
type Result struct {
	Templates []*model.RegisterTemplate
	Rows      int
	Reserved  int
}

type group struct {
	tpl       *model.RegisterTemplate
	first     FilledRow
	nextBit   int
	regSize   int
	regSizeOK bool
}

// Normalize validates and groups the rows of one register table.
func Normalize(ctx context.Context, table *sheet.Table, opts Options) (*Result, error) {
	logger := ctxlog.FromContext(ctx).With("sheet", table.Name)
	logger.Debug("Normalizing register table.", "rows", len(table.Rows))

	if err := requireColumns(table); err != nil {
		return nil, err
	}

	filled, err := Fill(table, HierarchicalColumns)
	if err != nil {
		return nil, err
	}

	res := &Result{Rows: len(filled)}
	groups := make(map[string]*group)
	var order []*group

	for _, row := range filled {
		mapName := firstNonBlank(row.Text(ColMap), opts.DefaultMap)
		block := firstNonBlank(row.Text(ColBlock), opts.DefaultBlock, table.Name)
		key := strings.Join([]string{mapName, block, row.Text(ColAddr), row.Text(ColReg)}, "\x00")

		g, ok := groups[key]
		if !ok {
			g, err = newGroup(table, row, mapName, block, opts)
			if err != nil {
				return nil, err
			}
			groups[key] = g
			order = append(order, g)
		}

		field, isField, err := parseField(table, row, g, opts)
		if err != nil {
			return nil, err
		}
		if !isField {
			if g.tpl.Description == "" && row.Line == g.first.Line {
				g.tpl.Description = row.Text(ColDescription)
			}
			continue
		}
		g.nextBit = field.Msb() + 1
		if field.Reserved {
			res.Reserved++
			g.tpl.Reserved = append(g.tpl.Reserved, field)
			logger.Info("Reserved field excluded from emitted model.",
				"register", g.tpl.Name.Template, "field", field.Name, "bits", field.Span(), "ref", field.Ref.String())
			continue
		}
		g.tpl.Fields = append(g.tpl.Fields, field)
	}

	for _, g := range order {
		if err := finishGroup(table, g, opts); err != nil {
			return nil, err
		}
		res.Templates = append(res.Templates, g.tpl)
	}

	logger.Debug("Register table normalized.", "templates", len(res.Templates), "reserved_fields", res.Reserved)
	return res, nil
}

func requireColumns(table *sheet.Table) error {
	for _, col := range []string{ColAddr, ColReg, ColField} {
		if !table.Has(col) {
			return model.Errorf(model.KindMissingColumn, model.Ref{Sheet: table.Name, Column: col},
				"register table has no %s column", col)
		}
	}
	if !table.Has(ColBit) && !table.Has(ColWidth) {
		return model.Errorf(model.KindMissingColumn, model.Ref{Sheet: table.Name, Column: ColBit},
			"register table needs a %s or %s column", ColBit, ColWidth)
	}
	return nil
}

func newGroup(table *sheet.Table, row FilledRow, mapName, block string, opts Options) (*group, error) {
	ref := func(col string) model.Ref {
		line := row.Line
		if origin, ok := row.Origin[col]; ok {
			line = origin
		}
		return table.Ref(line, col)
	}

	name, err := nametmpl.Parse(row.Text(ColReg))
	if err != nil {
		var e *model.Error
		if errors.As(err, &e) {
			e.Ref = ref(ColReg)
		}
		return nil, err
	}

	offset, err := hexCell(row, ColAddr, ref(ColAddr), opts.HexPrefix)
	if err != nil {
		return nil, err
	}

	tpl := &model.RegisterTemplate{
		Name:      name,
		MemoryMap: mapName,
		Block:     block,
		Offset:    offset,
		Ref:       ref(ColReg),
	}

	if !row.IsBlank(ColBase) {
		base, err := hexCell(row, ColBase, ref(ColBase), opts.HexPrefix)
		if err != nil {
			return nil, err
		}
		tpl.BlockBase = &base
	}

	g := &group{tpl: tpl, first: row}
	if !row.IsBlank(ColRegSize) {
		size, err := parsePositive(row.Text(ColRegSize))
		if err != nil {
			return nil, model.Errorf(model.KindInvalidValue, ref(ColRegSize), "register size %s", err).
				WithName(name.Template).WithValue(row.Text(ColRegSize))
		}
		g.regSize, g.regSizeOK = size, true
	}
	if !row.IsBlank(ColStride) {
		stride, err := ParseUint(row.Text(ColStride))
		if err != nil {
			return nil, model.Errorf(model.KindInvalidStride, ref(ColStride), "stride is not an integer").
				WithName(name.Template).WithValue(row.Text(ColStride))
		}
		tpl.Stride = stride
	}
	return g, nil
}

func finishGroup(table *sheet.Table, g *group, opts Options) error {
	tpl := g.tpl
	tpl.Width = opts.DefaultWidth
	if g.regSizeOK {
		tpl.Width = g.regSize
	}

	if tpl.Stride != 0 || !tpl.Name.IsTemplated() {
		return nil
	}
	switch {
	case g.regSizeOK:
		tpl.Stride = uint64((g.regSize + 7) / 8)
	case opts.StridePolicy == StrideRequired:
		return model.Errorf(model.KindInvalidStride, table.Ref(g.first.Line, ColStride),
			"templated register needs an explicit STRIDE or REG_SIZE").WithName(tpl.Name.Raw)
	default:
		tpl.Stride = uint64((tpl.Width + 7) / 8)
	}
	return nil
}

// parseField reads the field part of a row. isField is false for register
// header rows that carry no field at all.
func parseField(table *sheet.Table, row FilledRow, g *group, opts Options) (model.FieldSpec, bool, error) {
	name := row.Text(ColField)
	if name == "" && row.IsBlank(ColBit) && row.IsBlank(ColWidth) {
		return model.FieldSpec{}, false, nil
	}
	regName := g.tpl.Name.Template
	if name == "" {
		return model.FieldSpec{}, false, model.Errorf(model.KindInvalidValue, table.Ref(row.Line, ColField),
			"bit range given without a field name").WithName(regName)
	}

	field := model.FieldSpec{
		Name:        name,
		Description: row.Text(ColDescription),
		Ref:         table.Ref(row.Line, ColField),
	}

	bitText, widthText := row.Text(ColBit), row.Text(ColWidth)
	switch {
	case bitText != "":
		lsb, width, err := parseBitRange(bitText)
		if err != nil {
			return field, false, model.Errorf(model.KindInvalidBitRange, table.Ref(row.Line, ColBit), "%s", err).
				WithName(regName + "." + name).WithValue(bitText)
		}
		field.Offset, field.Width = lsb, width
		if widthText != "" {
			w, err := parsePositive(widthText)
			if err != nil || w != width {
				return field, false, model.Errorf(model.KindInvalidBitRange, table.Ref(row.Line, ColWidth),
					"width does not match bit range %s (%d bits)", bitText, width).
					WithName(regName + "." + name).WithValue(widthText)
			}
		}
	case widthText != "":
		w, err := parsePositive(widthText)
		if err != nil {
			return field, false, model.Errorf(model.KindInvalidBitRange, table.Ref(row.Line, ColWidth), "width %s", err).
				WithName(regName + "." + name).WithValue(widthText)
		}
		field.Offset, field.Width = g.nextBit, w
	default:
		return field, false, model.Errorf(model.KindInvalidBitRange, table.Ref(row.Line, ColBit),
			"field has neither BIT nor WIDTH").WithName(regName + "." + name)
	}

	attr := row.Text(ColAttribute)
	policy, ok := model.ParseAccessPolicy(attr)
	if !ok {
		return field, false, model.Errorf(model.KindInvalidAccessPolicy, table.Ref(row.Line, ColAttribute),
			"expected one of %s", strings.Join(model.AccessCodes(), ", ")).
			WithName(regName + "." + name).WithValue(attr)
	}
	field.Access = policy
	field.Reserved = policy.Reserved || (opts.Reserved != nil && opts.Reserved.MatchString(name))

	if text := row.Text(ColDefault); !isNullText(text) {
		v, err := ParseUint(text)
		if err != nil {
			return field, false, model.Errorf(model.KindInvalidResetValue, table.Ref(row.Line, ColDefault),
				"reset value is not an integer").WithName(regName + "." + name).WithValue(text)
		}
		if field.Width < 64 && v>>uint(field.Width) != 0 {
			return field, false, model.Errorf(model.KindInvalidResetValue, table.Ref(row.Line, ColDefault),
				"reset value does not fit in %d bits", field.Width).WithName(regName + "." + name).WithValue(text)
		}
		field.Reset = &v
	}

	return field, true, nil
}

func hexCell(row FilledRow, col string, ref model.Ref, prefix string) (uint64, error) {
	text := row.Text(col)
	if row.IsNumber(col) {
		return 0, model.Errorf(model.KindInvalidHexFormat, ref, "numeric cell, expected text like %s10", prefix).WithValue(text)
	}
	v, err := ParseHex(text, prefix)
	if err != nil {
		return 0, model.Errorf(model.KindInvalidHexFormat, ref, "%s", err).WithValue(text)
	}
	return v, nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
