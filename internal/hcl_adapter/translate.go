// This file contains the logic for translating the decoded HCL file into
// the format-agnostic settings model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/irgen/internal/config"
	"github.com/vk/irgen/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// apply overlays the attributes present in root onto s.
func (l *Loader) apply(ctx context.Context, s *config.Settings, root *fileRoot) error {
	setIf(&s.SchemaVersion, root.SchemaVersion)
	setIf(&s.DefaultRegisterWidth, root.DefaultRegisterWidth)
	setIf(&s.StrideDefault, root.StrideDefault)
	setIf(&s.MemoryMap, root.MemoryMap)
	setIf(&s.HexPrefix, root.HexPrefix)
	setIf(&s.ReservedPattern, root.ReservedPattern)
	setIf(&s.CheckCoverage, root.CheckCoverage)
	setIf(&s.XSDDir, root.XSDDir)
	setIf(&s.Workers, root.Workers)

	if root.MaxAddress != nil {
		v, err := strconv.ParseUint(*root.MaxAddress, 0, 64)
		if err != nil {
			return fmt.Errorf("max_address %q is not an integer: %w", *root.MaxAddress, err)
		}
		s.MaxAddress = v
	}

	columns, err := l.decodeColumns(root.Columns)
	if err != nil {
		return err
	}
	for canonical, header := range columns {
		s.Columns[canonical] = header
	}

	if c := root.Component; c != nil {
		s.Component = config.Component{
			Vendor:      c.Vendor,
			Library:     c.Library,
			Name:        c.Name,
			Version:     c.Version,
			Description: c.Description,
		}
	}

	ctxlog.FromContext(ctx).Debug("Settings file applied.", "columns", len(columns), "component", root.Component != nil)
	return nil
}

// decodeColumns evaluates the columns attribute as a map of strings.
func (l *Loader) decodeColumns(expr hcl.Expression) (map[string]string, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("columns: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	val, err := convert.Convert(val, cty.Map(cty.String))
	if err != nil {
		return nil, fmt.Errorf("columns must be a map of column name to header text: %w", err)
	}
	var out map[string]string
	if err := gocty.FromCtyValue(val, &out); err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	return out, nil
}
