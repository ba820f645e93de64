// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the conversion error taxonomy. Every validation failure
// in the pipeline is reported as an *Error carrying a Kind and enough context
// (sheet, row, column, register or field name, offending value) to find the
// source cell without re-reading the input.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the normalized failure category.
type Kind string

const (
	KindMalformedRangeSpec           Kind = "MalformedRangeSpec"
	KindMissingGroupContext          Kind = "MissingGroupContext"
	KindInvalidHexFormat             Kind = "InvalidHexFormat"
	KindInvalidAccessPolicy          Kind = "InvalidAccessPolicy"
	KindRangeExpansionOverflow       Kind = "RangeExpansionOverflow"
	KindDuplicateRegisterName        Kind = "DuplicateRegisterName"
	KindAddressOverlap               Kind = "AddressOverlap"
	KindEmptyModel                   Kind = "EmptyModel"
	KindUnsupportedFeatureForVersion Kind = "UnsupportedFeatureForVersion"
	KindSchemaRejected               Kind = "SchemaRejected"

	KindMissingColumn     Kind = "MissingColumn"
	KindInvalidBitRange   Kind = "InvalidBitRange"
	KindFieldOverlap      Kind = "FieldOverlap"
	KindCoverageGap       Kind = "CoverageGap"
	KindInvalidResetValue Kind = "InvalidResetValue"
	KindInvalidStride     Kind = "InvalidStride"
	KindInvalidValue      Kind = "InvalidValue"

	// KindInternal is returned by KindOf for errors outside the taxonomy.
	KindInternal Kind = "Internal"
)

// Ref locates a cell. Row is the 1-based spreadsheet row; Cell is the A1
// reference when the column position is known.
type Ref struct {
	Sheet  string
	Row    int
	Column string
	Cell   string
}

// IsZero reports whether the reference carries no location at all.
func (r Ref) IsZero() bool {
	return r == Ref{}
}

func (r Ref) String() string {
	var b strings.Builder
	if r.Sheet != "" {
		b.WriteString(r.Sheet)
	}
	switch {
	case r.Cell != "":
		if b.Len() > 0 {
			b.WriteString("!")
		}
		b.WriteString(r.Cell)
	case r.Row > 0:
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "row %d", r.Row)
	}
	if r.Column != "" {
		fmt.Fprintf(&b, " (%s)", r.Column)
	}
	return b.String()
}

// Error is a conversion failure.
type Error struct {
	Kind  Kind
	Ref   Ref
	Name  string
	Value string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if !e.Ref.IsZero() {
		b.WriteString(" at ")
		b.WriteString(e.Ref.String())
	}
	if e.Name != "" {
		fmt.Fprintf(&b, ": %q", e.Name)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, ": value %q", e.Value)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap supports error unwrapping.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds an *Error with a formatted message.
func Errorf(kind Kind, ref Ref, format string, args ...any) *Error {
	return &Error{Kind: kind, Ref: ref, Msg: fmt.Sprintf(format, args...)}
}

// WithName attaches the register or field name the error is about.
func (e *Error) WithName(name string) *Error {
	e.Name = name
	return e
}

// WithValue attaches the offending cell value.
func (e *Error) WithValue(v string) *Error {
	e.Value = v
	return e
}

// KindOf extracts the Kind from an error chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
