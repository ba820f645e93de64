// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the access-policy vocabulary accepted in the ATTRIBUTE
// column. Spreadsheet authors write compact codes (RW, W1C, RC, ...); each
// code decomposes into the three orthogonal properties IP-XACT describes a
// field with: access, modifiedWriteValue and readAction.
package model

import (
	"sort"
	"strings"
)

// Access is an IP-XACT access value.
type Access string

const (
	AccessReadWrite     Access = "read-write"
	AccessReadOnly      Access = "read-only"
	AccessWriteOnly     Access = "write-only"
	AccessWriteOnce     Access = "writeOnce"
	AccessReadWriteOnce Access = "read-writeOnce"
	// AccessNoAccess only exists in the newest schema revision.
	AccessNoAccess Access = "no-access"
)

// AccessPolicy is the canonical form of one ATTRIBUTE cell.
type AccessPolicy struct {
	// Code is the canonical upper-case spelling, e.g. "W1C".
	Code string
	// Access is empty when the cell was blank.
	Access Access
	// ModifiedWrite is an IP-XACT modifiedWriteValue, e.g. "oneToClear".
	ModifiedWrite string
	// ReadAction is an IP-XACT readAction, e.g. "clear".
	ReadAction string
	// Reserved marks padding fields; they never reach the emitted document.
	Reserved bool
}

// IsZero reports whether no policy was given.
func (p AccessPolicy) IsZero() bool {
	return p.Code == ""
}

var accessPolicies = map[string]AccessPolicy{
	"RW":   {Code: "RW", Access: AccessReadWrite},
	"RO":   {Code: "RO", Access: AccessReadOnly},
	"WO":   {Code: "WO", Access: AccessWriteOnly},
	"RC":   {Code: "RC", Access: AccessReadOnly, ReadAction: "clear"},
	"RS":   {Code: "RS", Access: AccessReadOnly, ReadAction: "set"},
	"WRC":  {Code: "WRC", Access: AccessReadWrite, ReadAction: "clear"},
	"WRS":  {Code: "WRS", Access: AccessReadWrite, ReadAction: "set"},
	"WC":   {Code: "WC", Access: AccessReadWrite, ModifiedWrite: "clear"},
	"WS":   {Code: "WS", Access: AccessReadWrite, ModifiedWrite: "set"},
	"W1C":  {Code: "W1C", Access: AccessReadWrite, ModifiedWrite: "oneToClear"},
	"W1S":  {Code: "W1S", Access: AccessReadWrite, ModifiedWrite: "oneToSet"},
	"W1T":  {Code: "W1T", Access: AccessReadWrite, ModifiedWrite: "oneToToggle"},
	"W0C":  {Code: "W0C", Access: AccessReadWrite, ModifiedWrite: "zeroToClear"},
	"W0S":  {Code: "W0S", Access: AccessReadWrite, ModifiedWrite: "zeroToSet"},
	"W0T":  {Code: "W0T", Access: AccessReadWrite, ModifiedWrite: "zeroToToggle"},
	"WOC":  {Code: "WOC", Access: AccessWriteOnly, ModifiedWrite: "clear"},
	"WOS":  {Code: "WOS", Access: AccessWriteOnly, ModifiedWrite: "set"},
	"W1":   {Code: "W1", Access: AccessReadWriteOnce},
	"WO1":  {Code: "WO1", Access: AccessWriteOnce},
	"NA":   {Code: "NA", Access: AccessNoAccess},
	"RSVD": {Code: "RSVD", Access: AccessReadOnly, Reserved: true},
}

// long-form spellings accepted in addition to the codes above.
var accessAliases = map[string]string{
	"R":              "RO",
	"W":              "WO",
	"READ-WRITE":     "RW",
	"READ-ONLY":      "RO",
	"WRITE-ONLY":     "WO",
	"WRITEONCE":      "WO1",
	"READ-WRITEONCE": "W1",
	"NO-ACCESS":      "NA",
	"RESERVED":       "RSVD",
}

// ParseAccessPolicy matches s case-insensitively against the vocabulary.
// A blank cell yields the zero policy and ok == true.
func ParseAccessPolicy(s string) (AccessPolicy, bool) {
	key := strings.ToUpper(strings.TrimSpace(s))
	if key == "" {
		return AccessPolicy{}, true
	}
	if alias, ok := accessAliases[key]; ok {
		key = alias
	}
	p, ok := accessPolicies[key]
	return p, ok
}

// AccessCodes lists the canonical codes in sorted order, for diagnostics.
func AccessCodes() []string {
	codes := make([]string, 0, len(accessPolicies))
	for code := range accessPolicies {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
