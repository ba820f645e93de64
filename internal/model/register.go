// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the register entities, from the per-row NameTemplate up
// to the finished Document.
package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// NameTemplate is the parsed form of a REG cell. Template keeps the
// placeholder verbatim (e.g. "ch{n}_ctrl"); Range is nil for plain names.
type NameTemplate struct {
	Raw         string
	Template    string
	Placeholder string
	Range       *RangeSpec
}

// IsTemplated reports whether the name expands into several registers.
func (t NameTemplate) IsTemplated() bool {
	return t.Range != nil
}

// Resolve substitutes the placeholder with v. Plain names are returned as is.
func (t NameTemplate) Resolve(v int) string {
	if t.Range == nil {
		return t.Template
	}
	return strings.Replace(t.Template, "{"+t.Placeholder+"}", strconv.Itoa(v), 1)
}

func (t NameTemplate) String() string {
	if t.Range == nil {
		return t.Template
	}
	return fmt.Sprintf("%s, %s=%s", t.Template, t.Placeholder, t.Range)
}

// FieldSpec is one normalized field row.
type FieldSpec struct {
	Name        string
	Offset      int
	Width       int
	Access      AccessPolicy
	Reset       *uint64
	Description string
	Reserved    bool
	Ref         Ref
}

// Msb is the highest bit the field occupies.
func (f FieldSpec) Msb() int {
	return f.Offset + f.Width - 1
}

// Overlaps reports whether the two bit spans share at least one bit.
func (f FieldSpec) Overlaps(o FieldSpec) bool {
	return f.Offset <= o.Msb() && o.Offset <= f.Msb()
}

// Span renders the bit span as [msb:lsb].
func (f FieldSpec) Span() string {
	return fmt.Sprintf("[%d:%d]", f.Msb(), f.Offset)
}

// RegisterTemplate groups every field row that belongs to one REG cell.
// Offset is relative to the owning block; Stride is in bytes and only used
// when Name carries a range.
type RegisterTemplate struct {
	Name        NameTemplate
	MemoryMap   string
	Block       string
	BlockBase   *uint64
	Offset      uint64
	Stride      uint64
	Width       int
	Description string
	Fields      []FieldSpec
	Reserved    []FieldSpec
	Ref         Ref
}

// AllFields returns emitted and reserved fields ordered by bit offset.
func (t *RegisterTemplate) AllFields() []FieldSpec {
	all := make([]FieldSpec, 0, len(t.Fields)+len(t.Reserved))
	all = append(all, t.Fields...)
	all = append(all, t.Reserved...)
	sortFields(all)
	return all
}

func sortFields(fields []FieldSpec) {
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Offset < fields[j].Offset })
}

// ExpandedRegister is one concrete register. Fields is a private copy of
// the template's emitted fields.
type ExpandedRegister struct {
	Name        string
	Offset      uint64
	Width       int
	Description string
	Fields      []FieldSpec
	// Index is the position in the range sequence, Value the substituted
	// range value. Both are zero for untemplated registers.
	Index    int
	Value    int
	Template *RegisterTemplate
	Ref      Ref
}

// Bytes is the number of address units the register occupies.
func (r *ExpandedRegister) Bytes() uint64 {
	return uint64((r.Width + 7) / 8)
}

// End is the last byte address the register occupies, relative to its block.
func (r *ExpandedRegister) End() uint64 {
	return r.Offset + r.Bytes() - 1
}

// ResetValue folds the field defaults into a register-wide value and mask.
// ok is false when no field declares a default.
func (r *ExpandedRegister) ResetValue() (value, mask uint64, ok bool) {
	for _, f := range r.Fields {
		if f.Reset == nil {
			continue
		}
		fieldMask := uint64(1)<<uint(f.Width) - 1
		if f.Width >= 64 {
			fieldMask = ^uint64(0)
		}
		value |= (*f.Reset & fieldMask) << uint(f.Offset)
		mask |= fieldMask << uint(f.Offset)
		ok = true
	}
	return value, mask, ok
}

// AddressBlock owns an ordered, non-overlapping set of registers.
type AddressBlock struct {
	Name        string
	Description string
	Base        uint64
	Range       uint64
	Width       int
	Registers   []*ExpandedRegister
	Ref         Ref
}

// MemoryMap owns an ordered set of address blocks.
type MemoryMap struct {
	Name   string
	Blocks []*AddressBlock
}

// Component is the VLNV identity of the emitted document.
type Component struct {
	Vendor      string
	Library     string
	Name        string
	Version     string
	Description string
}

// Document is the finished register model.
type Document struct {
	Component  Component
	MemoryMaps []*MemoryMap
}

// RegisterCount counts registers across all maps and blocks.
func (d *Document) RegisterCount() int {
	n := 0
	for _, mm := range d.MemoryMaps {
		for _, b := range mm.Blocks {
			n += len(b.Registers)
		}
	}
	return n
}

// BlockInfo carries block attributes that come from outside the register
// table, typically the address_map sheet.
type BlockInfo struct {
	Name        string
	Base        uint64
	Range       uint64
	Description string
	Ref         Ref
}
