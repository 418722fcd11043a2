// Package glb packs serialized JSON and a binary buffer into the chunked
// GLB container layout, and splits containers back apart.
//
// A container is a 12-byte header followed by one or two 4-byte-aligned
// chunks, all integers little-endian u32:
//
//	glTF | version=2 | totalLength
//	jsonLength | "JSON" | json bytes, space-padded
//	binLength  | "BIN\0" | buffer bytes, zero-padded   (omitted when empty)
//
// The JSON chunk always comes first; the binary chunk is present only when
// the buffer is non-empty. VRM files use the same layout.
package glb
