package engine

import (
	"context"
	"strings"

	"github.com/vk/irgen/internal/ctxlog"
	"github.com/vk/irgen/internal/model"
	"github.com/vk/irgen/internal/normalize"
	"github.com/vk/irgen/internal/sheet"
)

// DecodeComponent reads the VLNV identity from the first row of the version
// sheet. Blank cells keep the fallback value.
func DecodeComponent(ctx context.Context, table *sheet.Table, fallback model.Component) model.Component {
	c := fallback
	if table == nil || len(table.Rows) == 0 {
		return c
	}
	row := table.Rows[0]
	set := func(dst *string, col string) {
		if v := row.Text(col); v != "" {
			*dst = v
		}
	}
	set(&c.Vendor, "VENDOR")
	set(&c.Library, "LIBRARY")
	set(&c.Name, "NAME")
	set(&c.Version, "VERSION")
	set(&c.Description, "DESCRIPTION")
	if len(table.Rows) > 1 {
		ctxlog.FromContext(ctx).Warn("Version sheet has more than one row; only the first is used.",
			"sheet", table.Name, "rows", len(table.Rows))
	}
	return c
}

// DecodeAddressMap reads block base, range and description from the
// address_map sheet. OFFSET must be a prefixed hex string; RANGE may be hex
// or decimal.
func DecodeAddressMap(ctx context.Context, table *sheet.Table, hexPrefix string) ([]model.BlockInfo, error) {
	if table == nil {
		return nil, nil
	}
	for _, col := range []string{"BLOCK", "OFFSET", "RANGE"} {
		if !table.Has(col) {
			return nil, model.Errorf(model.KindMissingColumn, model.Ref{Sheet: table.Name, Column: col},
				"address map has no %s column", col)
		}
	}

	blocks := make([]model.BlockInfo, 0, len(table.Rows))
	seen := make(map[string]model.Ref)
	for _, row := range table.Rows {
		name := row.Text("BLOCK")
		if name == "" {
			return nil, model.Errorf(model.KindMissingGroupContext, table.Ref(row.Line, "BLOCK"),
				"address map row has no block name")
		}
		if prev, dup := seen[name]; dup {
			return nil, model.Errorf(model.KindInvalidValue, table.Ref(row.Line, "BLOCK"),
				"block %s is already listed at %s", name, prev).WithName(name)
		}

		offsetText := row.Text("OFFSET")
		if row.IsNumber("OFFSET") {
			return nil, model.Errorf(model.KindInvalidHexFormat, table.Ref(row.Line, "OFFSET"),
				"numeric cell, expected text like %s1000", hexPrefix).WithName(name).WithValue(offsetText)
		}
		base, err := normalize.ParseHex(offsetText, hexPrefix)
		if err != nil {
			return nil, model.Errorf(model.KindInvalidHexFormat, table.Ref(row.Line, "OFFSET"), "%s", err).
				WithName(name).WithValue(offsetText)
		}

		rangeText := row.Text("RANGE")
		size, err := normalize.ParseUint(rangeText)
		if err != nil || size == 0 {
			return nil, model.Errorf(model.KindInvalidValue, table.Ref(row.Line, "RANGE"),
				"block range must be a positive integer").WithName(name).WithValue(rangeText)
		}

		ref := table.Ref(row.Line, "BLOCK")
		seen[name] = ref
		blocks = append(blocks, model.BlockInfo{
			Name:        name,
			Base:        base,
			Range:       size,
			Description: row.Text("DESCRIPTION"),
			Ref:         ref,
		})
	}
	ctxlog.FromContext(ctx).Debug("Address map decoded.", "blocks", len(blocks))
	return blocks, nil
}

// RegisterTables returns every table that is neither a metadata sheet nor
// an empty sheet.
func RegisterTables(wb *sheet.Workbook) []*sheet.Table {
	var tables []*sheet.Table
	for _, t := range wb.Tables {
		if len(t.Header) == 0 {
			continue
		}
		switch strings.ToLower(t.Name) {
		case sheet.VersionSheet, sheet.AddressMapSheet:
			continue
		case sheet.TemplateSheet:
			if len(t.Rows) == 0 {
				continue
			}
		}
		tables = append(tables, t)
	}
	return tables
}
