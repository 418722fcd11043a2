// Package encode serializes document trees to canonical JSON text.
//
// Output is deterministic: top-level sections are written in
// asset.SectionOrder, nested object keys are written in lexicographic
// order, and array order is preserved. Serializing the same document twice
// yields byte-identical output.
//
// # Usage
//
//	// Pretty text for a .gltf file
//	data, err := encode.Marshal(doc)
//
//	// Compact text for a GLB container
//	data, err := encode.Marshal(doc, encode.Compact())
//
// NaN and infinite numbers are illegal in the target format; encountering
// one fails the encode before any bytes are written.
package encode
