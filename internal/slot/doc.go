// Package slot implements the in-memory value model of the field engine.
//
// Every field type occupies a fixed-size slot whose layout (size, alignment,
// member offsets) is computed explicitly by the field package; host-language
// struct layout is never relied on. Variable-size content such as vector
// items, string bytes or nullable payloads lives out of line in cells owned
// by a Heap, and slots reference cells by a 4-byte Ref.
//
// Ref zero is reserved as the null reference, so an all-zero slot is a valid
// default value for every field type (empty vector, empty string, absent
// nullable). Cells are recycled through a free list; releasing a whole value
// tree at once is done by resetting the heap.
package slot
