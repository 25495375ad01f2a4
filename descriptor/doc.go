// Package descriptor models the schema information a page store persists
// alongside the column data: the field tree, the physical columns backing
// each field, type versions and cluster summaries.
//
// A descriptor is built by the page sink while fields connect for writing
// and is the source of truth when fields connect for reading: the field
// engine checks its accepted column encodings and type versions against the
// descriptor before any data is read.
//
// Descriptors serialize with msgpack via MarshalBinary/UnmarshalBinary.
package descriptor
