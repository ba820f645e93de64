// Package sheet reads register workbooks into typed, header-keyed tables.
//
// Cells are carried as cty values so later stages can tell a numeric cell
// from a text cell: the hexadecimal address columns must be text, while
// widths may be either. Reading is the only thing this package does; it
// never interprets a column.
package sheet
