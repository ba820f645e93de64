/*
Package builder assembles expanded registers into the document model that the
dialect mappers consume. It is the bridge between the per-row view produced by
the normalize and expand packages and the hierarchical view of an IP-XACT
component.

The construction is a multi-phase process:

 1. Grouping: registers are grouped by memory map, then by address block, in
    the order they first appear in the workbook. Registers without any
    non-reserved field are dropped here and reported at Info level.

 2. Block resolution: each block takes its base address and range from the
    address map when one was supplied, otherwise from the BASE cells of its
    rows. A block whose rows disagree on the base is rejected.

 3. Validation: within each block, register names must be unique and the byte
    spans of the registers must not overlap. Every failure names the cell the
    offending register came from, so the user can fix the workbook directly.

 4. Sizing: a block's width is the widest register it holds. Its range is the
    one given in the address map, or the smallest multiple of that width that
    covers the last register.

Upon successful completion the builder returns a *model.Document that is
ready to be mapped onto any supported schema revision.
*/
package builder
