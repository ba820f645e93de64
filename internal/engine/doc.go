// Package engine is the conversion layer of the application. It resolves
// input paths to workbooks, decodes the metadata sheets, and drives one
// workbook through the pipeline:
//
//  1. Read: sheet.Open turns the file into typed tables.
//  2. Normalize: every register table is forward-filled, validated and
//     grouped into register templates.
//  3. Expand: each template yields one concrete register per range value.
//  4. Build: registers are assembled into memory maps and address blocks.
//  5. Map: the document is mapped onto the requested schema revision.
//  6. Emit: the revision tree is bound and written through an emit.Binder.
//
// The first failure aborts the run. Nothing is written unless every stage
// succeeded.
package engine
