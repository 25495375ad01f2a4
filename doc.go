// Package colobj serializes typed objects into flat typed columns and reads
// them back, entry by entry or in bulk.
//
// A Model declares the schema as a tree of fields: records, collections,
// optionals, variants and leaves, each mapped onto one or more columns. A
// Writer fills entries into a page store, grouping them into clusters; a
// Reader reconstructs entries from a sealed store, including stores written
// by a different process and loaded from disk.
//
// The package follows a strict split between the logical layer (fields,
// values, entries) and the physical layer (columns, page stores). Schema
// evolution is handled at connect time: a field accepts every on-disk
// encoding in its deserialization set and fails fast otherwise.
package colobj
