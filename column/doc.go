// Package column provides the flat, strongly-typed storage channels that
// fields map their values onto.
//
// A column is an append-only sequence of elements of a single on-disk type
// with positional random read access. The package contains:
//
//   - Type: the closed set of on-disk element encodings
//   - Element: the stateless codec packing one in-memory slot word to and
//     from its on-disk representation
//   - Representation / Representations: the encodings a field writes with
//     and the (super)set it accepts when reading
//   - Column: the handle a field owns per backing column, connected to
//     either a page sink (writing) or a page source (reading), never both
//
// Index translation between the entry index space and a column's element
// index space is the caller's concern; Column only forwards positional
// reads and appends to the connected page store.
package column
