// Package hcl_adapter reads converter settings from HCL files.
package hcl_adapter

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/irgen/internal/config"
	"github.com/vk/irgen/internal/ctxlog"
	"github.com/vk/irgen/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL settings loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot decodes every attribute a settings file may set. Pointer fields
// stay nil when the attribute is absent so defaults survive.
type fileRoot struct {
	SchemaVersion        *string         `hcl:"schema_version,optional"`
	MaxAddress           *string         `hcl:"max_address,optional"`
	DefaultRegisterWidth *int            `hcl:"default_register_width,optional"`
	StrideDefault        *string         `hcl:"stride_default,optional"`
	MemoryMap            *string         `hcl:"memory_map,optional"`
	HexPrefix            *string         `hcl:"hex_prefix,optional"`
	ReservedPattern      *string         `hcl:"reserved_pattern,optional"`
	CheckCoverage        *bool           `hcl:"check_coverage,optional"`
	XSDDir               *string         `hcl:"xsd_dir,optional"`
	Workers              *int            `hcl:"workers,optional"`
	Columns              hcl.Expression  `hcl:"columns,optional"`
	Component            *componentBlock `hcl:"component,block"`
}

type componentBlock struct {
	Vendor      string `hcl:"vendor,optional"`
	Library     string `hcl:"library,optional"`
	Name        string `hcl:"name,optional"`
	Version     string `hcl:"version,optional"`
	Description string `hcl:"description,optional"`
}

// Load parses every .hcl file reachable from paths, in order, and overlays
// each onto the defaults. Later files win.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Settings, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	settings := config.Defaults()

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		if err := l.apply(ctx, settings, &root); err != nil {
			return nil, fmt.Errorf("invalid settings in %s: %w", file, err)
		}
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	logger.Debug("HCL loading complete.", "files", len(hclFiles), "schema_version", settings.SchemaVersion)
	return settings, nil
}

// findAllHCLFiles expands directories and returns a flat list of all .hcl
// files found, without duplicates.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // It's not an error if a configured path doesn't exist.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			add(path)
			continue
		}
		files, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}
	return allFiles, nil
}
