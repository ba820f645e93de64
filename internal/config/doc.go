// Package config defines the format-agnostic settings model for the
// converter, along with the Loader interface for reading settings from
// various sources.
//
// The `config.Settings` value is built once at startup (defaults, then the
// settings file, then command-line overrides) and is read-only afterwards.
// Every conversion run receives the same *Settings; nothing in the pipeline
// mutates it. Concrete loaders, such as the HCL one, live in separate
// packages.
package config
