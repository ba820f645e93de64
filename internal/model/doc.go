// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model defines the in-memory register model that every stage of the
// conversion pipeline reads or produces.
//
// The types follow the order in which data flows through the converter:
//
//	NameTemplate / RangeSpec   parsed from a single REG cell
//	FieldSpec                  one normalized field row
//	RegisterTemplate           all field rows of one register, before expansion
//	ExpandedRegister           one concrete register instance
//	AddressBlock / MemoryMap   grouping of expanded registers
//	Document                   the finished, version-agnostic model
//
// Why a separate package?
//
// The normalizer, the expansion engine, the builder and the dialect mapper all
// need the same vocabulary, but none of them should own it. Keeping the types
// here (together with the error taxonomy in errors.go) lets each stage depend
// only on the model and never on its neighbours.
package model
