package app

import (
	"errors"
)

// Config holds everything the command line supplies for one App.
type Config struct {
	Inputs     []string // workbooks, CSV files or directories
	Output     string   // file, directory in batch mode, or "-" for stdout
	ConfigPath string   // optional settings file

	// SchemaVersion overrides the settings file when set.
	SchemaVersion string
	// Workers overrides the settings file when positive.
	Workers int

	LogFormat   string
	LogLevel    string
	MetricsFile string

	// TemplatePath switches the App to writing an empty workbook.
	TemplatePath string
}

// StdoutOutput is the Output value that streams the document to stdout.
const StdoutOutput = "-"

func NewConfig(cfg Config) (*Config, error) {
	if cfg.TemplatePath != "" {
		return &cfg, nil
	}
	if len(cfg.Inputs) == 0 {
		return nil, errors.New("at least one input path is required")
	}
	if cfg.Output == StdoutOutput && len(cfg.Inputs) > 1 {
		return nil, errors.New("output '-' can only be used with a single input")
	}
	if cfg.Workers < 0 {
		return nil, errors.New("workers must not be negative")
	}

	return &cfg, nil
}
