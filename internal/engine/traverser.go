package engine

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/irgen/internal/ctxlog"
	"github.com/vk/irgen/internal/fsutil"
	"github.com/vk/irgen/internal/sheet"
)

// ResolveInputs expands every argument to the list of convertible files.
// A file argument must carry a supported extension; a directory is scanned
// recursively.
func ResolveInputs(ctx context.Context, paths ...string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	var inputs []string
	seen := make(map[string]struct{})
	for _, path := range paths {
		logger.Debug("Resolving input path.", "path", path)
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("input path not found: %s", path)
		}
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		var found []string
		if info.IsDir() {
			logger.Debug("Path is a directory, scanning for workbooks.", "directory", path)
			if found, err = fsutil.FindFilesByExtension(path, sheet.Extensions...); err != nil {
				return nil, fmt.Errorf("error scanning %s: %w", path, err)
			}
		} else {
			if !fsutil.HasExtension(path, sheet.Extensions...) {
				return nil, fmt.Errorf("specified file is not a workbook or CSV file: %s", path)
			}
			found = []string{path}
		}

		for _, f := range found {
			if _, dup := seen[f]; !dup {
				seen[f] = struct{}{}
				inputs = append(inputs, f)
			}
		}
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("no workbook or CSV files found in %v", paths)
	}
	logger.Debug("Inputs resolved.", "count", len(inputs))
	return inputs, nil
}
