package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/irgen/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("irgen", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
irgen - Convert register spreadsheets into IP-XACT documents.

Usage:
  irgen [options] INPUT...
  irgen -template PATH

Arguments:
  INPUT
    Path to an .xlsx/.xlsm workbook, a .csv register table, or a directory
    containing them.

Options:
`)
		flagSet.PrintDefaults()
	}

	outputFlag := flagSet.String("o", "", "Output file, directory for several inputs, or '-' for stdout. Defaults to INPUT with an .xml extension.")
	versionFlag := flagSet.String("schema-version", "", "Output schema revision: '1685-2009', '1685-2014' or '1685-2022'. Overrides the settings file.")
	configFlag := flagSet.String("config", "", "Path to an HCL settings file or a directory of them.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 0, "Number of inputs converted in parallel. 0 uses the settings file value.")
	metricsFlag := flagSet.String("metrics-file", "", "Write conversion metrics in Prometheus text format to this path.")
	templateFlag := flagSet.String("template", "", "Write an empty input workbook to this path and exit.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	inputs := flagSet.Args()
	if len(inputs) == 0 && *templateFlag == "" {
		slog.Debug("No input provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	switch *versionFlag {
	case "", "1685-2009", "1685-2014", "1685-2022":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid schema-version: must be '1685-2009', '1685-2014' or '1685-2022'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Inputs:        inputs,
		Output:        *outputFlag,
		ConfigPath:    *configFlag,
		SchemaVersion: *versionFlag,
		Workers:       *workersFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
		MetricsFile:   *metricsFlag,
		TemplatePath:  *templateFlag,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
