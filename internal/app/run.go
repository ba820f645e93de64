package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vk/irgen/internal/ctxlog"
	"github.com/vk/irgen/internal/engine"
	"github.com/vk/irgen/internal/model"
	"github.com/vk/irgen/internal/sheet"
	"golang.org/x/sync/errgroup"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.TemplatePath != "" {
		if err := sheet.WriteTemplate(a.config.TemplatePath); err != nil {
			a.logger.Error("Template workbook could not be written.", "path", a.config.TemplatePath, "error", err)
			return err
		}
		a.logger.Info("Template workbook written.", "path", a.config.TemplatePath)
		return nil
	}

	inputs, err := engine.ResolveInputs(ctx, a.config.Inputs...)
	if err != nil {
		a.logger.Error("Inputs could not be resolved.", "error", err)
		return err
	}
	jobs, err := a.plan(inputs)
	if err != nil {
		a.logger.Error("Outputs could not be planned.", "error", err)
		return err
	}

	a.logger.Info("Starting conversion.", "inputs", len(jobs), "workers", a.settings.Workers, "version", a.settings.SchemaVersion)
	errs := make([]error, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.settings.Workers)
	for i, j := range jobs {
		g.Go(func() error {
			errs[i] = a.convert(gctx, j)
			return nil
		})
	}
	_ = g.Wait()

	if a.config.MetricsFile != "" {
		if err := a.metrics.WriteTextfile(a.config.MetricsFile); err != nil {
			a.logger.Error("Metrics textfile could not be written.", "path", a.config.MetricsFile, "error", err)
			errs = append(errs, err)
		}
	}

	err = errors.Join(errs...)
	if err != nil {
		a.logger.Debug("App.Run method finished with errors.")
		return err
	}
	a.logger.Info("Conversion finished.", "outputs", len(jobs))
	return nil
}

type job struct {
	input  string
	output string // StdoutOutput or a file path
}

// plan decides where each input is written. A single input goes to Output
// verbatim unless Output is an existing directory; several inputs go into
// Output as a directory. Without Output the
// document lands next to its input with an .xml extension.
func (a *App) plan(inputs []string) ([]job, error) {
	out := a.config.Output
	batch := len(inputs) > 1
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		batch = true
	}
	if out == StdoutOutput && len(inputs) > 1 {
		return nil, fmt.Errorf("output '-' can only be used with a single input, got %d", len(inputs))
	}
	if batch && out != "" {
		if err := os.MkdirAll(out, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory %s: %w", out, err)
		}
	}

	jobs := make([]job, 0, len(inputs))
	seen := make(map[string]string, len(inputs))
	for _, in := range inputs {
		target := out
		switch {
		case out == "":
			target = xmlName(in)
		case batch:
			target = filepath.Join(out, filepath.Base(xmlName(in)))
		}
		if prev, dup := seen[target]; dup && target != StdoutOutput {
			return nil, fmt.Errorf("inputs %s and %s would both be written to %s", prev, in, target)
		}
		seen[target] = in
		jobs = append(jobs, job{input: in, output: target})
	}
	return jobs, nil
}

func xmlName(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".xml"
}

// convert runs one input end to end under its own run_id.
func (a *App) convert(ctx context.Context, j job) error {
	ctx = ctxlog.With(ctx, "run_id", uuid.NewString(), "input", j.input)
	logger := ctxlog.FromContext(ctx)
	version := a.settings.SchemaVersion
	start := time.Now()

	if err := ctx.Err(); err != nil {
		logger.Warn("Conversion skipped.", "error", err)
		return err
	}
	logger.Debug("Conversion started.", "output", j.output)

	var res *engine.Result
	var err error
	if j.output == StdoutOutput {
		var buf bytes.Buffer
		if res, err = a.engine.Convert(ctx, j.input, &buf); err == nil {
			_, err = a.outW.Write(buf.Bytes())
		}
	} else {
		err = writeAtomic(j.output, func(f *os.File) error {
			var cerr error
			res, cerr = a.engine.Convert(ctx, j.input, f)
			return cerr
		})
	}

	if err != nil {
		a.metrics.ObserveConversion(version, resultLabel(err), time.Since(start))
		logger.Error("Conversion failed.", "error", err)
		return fmt.Errorf("%s: %w", j.input, err)
	}

	a.metrics.ObserveConversion(version, "ok", time.Since(start))
	a.metrics.AddRegisters(version, res.Document.RegisterCount())
	a.metrics.AddReserved(res.Reserved)
	logger.Info("Conversion succeeded.", "output", j.output, "registers", res.Document.RegisterCount(),
		"duration", time.Since(start).String())
	return nil
}

func resultLabel(err error) string {
	if kind := model.KindOf(err); kind != model.KindInternal {
		return string(kind)
	}
	return "error"
}
