package engine

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vk/irgen/internal/builder"
	"github.com/vk/irgen/internal/config"
	"github.com/vk/irgen/internal/ctxlog"
	"github.com/vk/irgen/internal/dialect"
	"github.com/vk/irgen/internal/emit"
	"github.com/vk/irgen/internal/expand"
	"github.com/vk/irgen/internal/model"
	"github.com/vk/irgen/internal/normalize"
	"github.com/vk/irgen/internal/sheet"
)

// Options is everything one conversion needs, derived from the settings.
type Options struct {
	Version   dialect.Version
	Sheet     sheet.Options
	Normalize normalize.Options
	Expand    expand.Options
	Build     builder.Options
	// Component fills VLNV values the version sheet leaves blank.
	Component model.Component
}

// NewOptions translates settings into pipeline options.
func NewOptions(s *config.Settings) (Options, error) {
	v, err := dialect.ParseVersion(s.SchemaVersion)
	if err != nil {
		return Options{}, err
	}
	reserved, err := regexp.Compile(`(?i)` + s.ReservedPattern)
	if err != nil {
		return Options{}, fmt.Errorf("reserved_pattern: %w", err)
	}
	return Options{
		Version: v,
		Sheet:   sheet.Options{Aliases: s.Aliases()},
		Normalize: normalize.Options{
			HexPrefix:    s.HexPrefix,
			Reserved:     reserved,
			DefaultWidth: s.DefaultRegisterWidth,
			StridePolicy: normalize.StridePolicy(s.StrideDefault),
			DefaultMap:   s.MemoryMap,
		},
		Expand: expand.Options{
			MaxAddress:    s.MaxAddress,
			CheckCoverage: s.CheckCoverage,
		},
		Build:     builder.Options{MaxAddress: s.MaxAddress},
		Component: model.Component(s.Component),
	}, nil
}

// Result summarises one conversion.
type Result struct {
	Document *model.Document
	Tree     *dialect.Tree
	Tables   int
	Rows     int
	Reserved int
}

// Engine runs the pipeline. It holds no per-run state and is safe for
// concurrent use when its Binder is.
type Engine struct {
	opts   Options
	binder func() emit.Binder
}

// New creates an Engine. newBinder is called once per conversion so every
// run gets its own binder session.
func New(opts Options, newBinder func() emit.Binder) *Engine {
	return &Engine{opts: opts, binder: newBinder}
}

// Options returns the options the engine was built with.
func (e *Engine) Options() Options {
	return e.opts
}

// Convert reads the input at path and writes the document to w.
func (e *Engine) Convert(ctx context.Context, path string, w io.Writer) (*Result, error) {
	wb, err := sheet.Open(ctx, path, e.opts.Sheet)
	if err != nil {
		return nil, err
	}
	res, err := e.Build(ctx, wb)
	if err != nil {
		return nil, err
	}
	if err := emit.NewEmitter(e.binder()).Emit(ctx, res.Tree, w); err != nil {
		return nil, err
	}
	return res, nil
}

// Build runs every stage up to the revision tree.
func (e *Engine) Build(ctx context.Context, wb *sheet.Workbook) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	fallback := e.opts.Component
	if fallback.Name == "" && wb.Path != "" {
		fallback.Name = strings.TrimSuffix(filepath.Base(wb.Path), filepath.Ext(wb.Path))
	}
	ident := DecodeComponent(ctx, wb.Table(sheet.VersionSheet), fallback)
	if ident.Vendor == "" || ident.Library == "" || ident.Version == "" {
		logger.Warn("Component identity is incomplete; add a version sheet or a component block to the settings.",
			"vendor", ident.Vendor, "library", ident.Library, "name", ident.Name, "version", ident.Version)
	}

	blocks, err := DecodeAddressMap(ctx, wb.Table(sheet.AddressMapSheet), e.opts.Normalize.HexPrefix)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	var regs []model.ExpandedRegister
	for _, table := range RegisterTables(wb) {
		norm, err := normalize.Normalize(ctx, table, e.opts.Normalize)
		if err != nil {
			return nil, err
		}
		res.Tables++
		res.Rows += norm.Rows
		res.Reserved += norm.Reserved

		for _, tpl := range norm.Templates {
			expanded, err := expand.Expand(tpl, e.opts.Expand)
			if err != nil {
				return nil, err
			}
			regs = append(regs, expanded...)
		}
	}
	logger.Debug("Register tables expanded.", "tables", res.Tables, "rows", res.Rows, "registers", len(regs))

	doc, err := builder.Build(ctx, regs, blocks, ident, e.opts.Build)
	if err != nil {
		return nil, err
	}
	res.Document = doc

	tree, err := dialect.Map(doc, e.opts.Version)
	if err != nil {
		return nil, err
	}
	res.Tree = tree

	logger.Info("Register model built.",
		"memory_maps", len(doc.MemoryMaps), "registers", doc.RegisterCount(), "reserved_fields", res.Reserved,
		"version", e.opts.Version.String())
	return res, nil
}
