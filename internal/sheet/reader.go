package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/irgen/internal/ctxlog"
	"github.com/xuri/excelize/v2"
	"github.com/zclconf/go-cty/cty"
)

// Extensions lists the input formats Open understands.
var Extensions = []string{".xlsx", ".xlsm", ".csv"}

// Options controls header normalization.
type Options struct {
	// Aliases maps a header spelling (case-insensitive) to the canonical
	// column name, e.g. "Register" -> "REG".
	Aliases map[string]string
}

func (o Options) canonical(header string) string {
	h := strings.TrimSpace(header)
	for alias, canonical := range o.Aliases {
		if strings.EqualFold(alias, h) {
			return strings.ToUpper(canonical)
		}
	}
	return strings.ToUpper(h)
}

// Open reads a workbook or a CSV file, chosen by extension.
func Open(ctx context.Context, path string, opts Options) (*Workbook, error) {
	logger := ctxlog.FromContext(ctx)
	ext := strings.ToLower(filepath.Ext(path))
	logger.Debug("Opening input.", "path", path, "format", ext)

	switch ext {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
		}
		defer f.Close()
		wb, err := ReadWorkbook(f, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to read workbook %s: %w", path, err)
		}
		wb.Path = path
		return wb, nil
	case ".csv":
		fp, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer fp.Close()
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		table, err := ReadCSV(fp, name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return &Workbook{Path: path, Tables: []*Table{table}}, nil
	default:
		return nil, fmt.Errorf("unsupported input format %q for %s (expected one of %s)", ext, path, strings.Join(Extensions, ", "))
	}
}

// ReadWorkbook converts every sheet of an open excelize file. Numeric cells
// become cty numbers, everything else cty strings.
func ReadWorkbook(f *excelize.File, opts Options) (*Workbook, error) {
	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		table := &Table{Name: name}
		for i, cols := range rows {
			line := i + 1
			if table.Header == nil {
				if isBlankLine(cols) {
					continue
				}
				table.Header = normalizeHeader(cols, opts)
				continue
			}
			if isBlankLine(cols) {
				continue
			}
			row := Row{Line: line, Cells: make(map[string]cty.Value, len(cols))}
			for c, raw := range cols {
				if c >= len(table.Header) || table.Header[c] == "" || strings.TrimSpace(raw) == "" {
					continue
				}
				row.Cells[table.Header[c]] = typedCell(f, name, c+1, line, raw)
			}
			table.Rows = append(table.Rows, row)
		}
		wb.Tables = append(wb.Tables, table)
	}
	return wb, nil
}

func typedCell(f *excelize.File, sheet string, col, line int, raw string) cty.Value {
	cell, err := excelize.CoordinatesToCellName(col, line)
	if err != nil {
		return cty.StringVal(raw)
	}
	// OOXML omits the type attribute on numeric cells, so unset counts too.
	typ, err := f.GetCellType(sheet, cell)
	if err != nil || (typ != excelize.CellTypeNumber && typ != excelize.CellTypeUnset) {
		return cty.StringVal(raw)
	}
	v, err := cty.ParseNumberVal(strings.TrimSpace(raw))
	if err != nil {
		return cty.StringVal(raw)
	}
	return v
}

// ReadCSV reads a single register table. All CSV cells are text.
func ReadCSV(r io.Reader, name string, opts Options) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	table := &Table{Name: name}
	for {
		cols, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)
		if isBlankLine(cols) {
			continue
		}
		if table.Header == nil {
			table.Header = normalizeHeader(cols, opts)
			continue
		}
		row := Row{Line: line, Cells: make(map[string]cty.Value, len(cols))}
		for c, raw := range cols {
			if c >= len(table.Header) || table.Header[c] == "" || strings.TrimSpace(raw) == "" {
				continue
			}
			row.Cells[table.Header[c]] = cty.StringVal(raw)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func normalizeHeader(cols []string, opts Options) []string {
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = opts.canonical(c)
	}
	return header
}

func isBlankLine(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
