// Package field implements the object-to-column mapping engine: a tree of
// typed fields that construct, destroy, append and read values of their
// type, delegating leaf-level storage to flat columns.
//
// A field identifies itself by name, type name and structural role. Record,
// collection, nullable and variant fields own sub-fields; fields with
// columns own them exclusively and connect them to either a page sink
// (writing) or a page source (reading), never both. Reconnecting requires a
// fresh Clone.
//
// # Memory model
//
// Values live in fixed-size byte slots with an explicit layout computed by
// this package (see the layout helpers and package slot); host-language
// struct layout is never part of the serialization contract. Client code
// handles values through Value handles obtained from a field via
// GenerateValue, BindValue or SplitValue, and through Bulk handles for
// batched range reads.
//
// # Fast paths
//
// A field is simple when it is mappable (its slot maps 1:1 onto a single
// column element) and has no read callbacks. Simple fields bypass the
// composite dispatch for Append, Read and ReadBulk.
package field
