// Package pagestore defines the physical storage collaborator of the field
// engine: the page sink (write side) and page source (read side), plus two
// reference implementations.
//
// MemoryStore keeps packed column elements in memory; it is the sink during
// a write session and, once sealed, the source for read sessions. Bit
// columns are backed by roaring bitmaps. BoltStore persists a sealed
// MemoryStore into a bbolt file and loads it back.
//
// The engine only ever talks to the Sink and Source interfaces; page
// layout, compression and file framing are intentionally outside this
// module and can be provided by an external implementation.
package pagestore
