// Package normalize turns the raw rows of a register table into register
// templates: it forward-fills the hierarchical columns, validates every cell
// that has a format contract, drops reserved padding fields, and groups the
// remaining field rows by the register they belong to.
//
// The forward-fill is an explicit pass over an immutable row slice. Each
// filled row is a pure function of the raw row and the accumulator carried
// from the rows above it; nothing else is consulted.
package normalize
