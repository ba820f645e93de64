package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Settings is the unified, format-agnostic representation of every knob
// the converter exposes.
type Settings struct {
	// SchemaVersion is the output revision tag, e.g. "1685-2014".
	SchemaVersion string
	// MaxAddress bounds the last byte of every register.
	MaxAddress uint64
	// DefaultRegisterWidth is used when REG_SIZE is blank.
	DefaultRegisterWidth int
	// StrideDefault is "register" (width in bytes) or "none".
	StrideDefault string
	// MemoryMap names the memory map when the MAP column is absent.
	MemoryMap       string
	HexPrefix       string
	ReservedPattern string
	CheckCoverage   bool
	// XSDDir enables external schema validation when set.
	XSDDir string
	// Columns maps canonical column names to the header spelling used by
	// the workbook, e.g. REG -> "Register".
	Columns   map[string]string
	Component Component
	// Workers limits parallel conversions in batch mode.
	Workers int
}

// Component supplies VLNV values for workbooks without a version sheet.
type Component struct {
	Vendor      string
	Library     string
	Name        string
	Version     string
	Description string
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() *Settings {
	return &Settings{
		SchemaVersion:        "1685-2014",
		MaxAddress:           0xFFFFFFFF,
		DefaultRegisterWidth: 32,
		StrideDefault:        "register",
		MemoryMap:            "memory_map",
		HexPrefix:            "0x",
		ReservedPattern:      `^(rsvd|reserved)\d*$`,
		Columns:              map[string]string{},
		Workers:              4,
	}
}

// Aliases inverts Columns into header spelling -> canonical name.
func (s *Settings) Aliases() map[string]string {
	aliases := make(map[string]string, len(s.Columns))
	for canonical, header := range s.Columns {
		aliases[header] = strings.ToUpper(canonical)
	}
	return aliases
}

// Validate checks every setting and reports all problems at once.
func (s *Settings) Validate() error {
	var errs []error
	if s.MaxAddress == 0 {
		errs = append(errs, errors.New("max_address must be greater than zero"))
	}
	switch w := s.DefaultRegisterWidth; {
	case w <= 0 || w > 64:
		errs = append(errs, fmt.Errorf("default_register_width must be between 1 and 64, got %d", w))
	case w%8 != 0:
		errs = append(errs, fmt.Errorf("default_register_width must be a multiple of 8, got %d", w))
	}
	if s.StrideDefault != "register" && s.StrideDefault != "none" {
		errs = append(errs, fmt.Errorf("stride_default must be \"register\" or \"none\", got %q", s.StrideDefault))
	}
	if s.HexPrefix == "" {
		errs = append(errs, errors.New("hex_prefix must not be empty"))
	}
	if _, err := regexp.Compile(s.ReservedPattern); err != nil {
		errs = append(errs, fmt.Errorf("reserved_pattern: %w", err))
	}
	if s.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", s.Workers))
	}
	return errors.Join(errs...)
}
