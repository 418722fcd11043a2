// Package hook runs externally supplied export hooks at two fixed pipeline
// points: before the document assembler executes (pre-export) and after
// the document tree is fully assembled but before serialization
// (post-export).
//
// Hooks are supplied explicitly at registry construction; there is no
// ambient discovery. Capabilities are detected once, when the registry is
// built. A hook that fails or panics is logged and skipped; it can never
// abort the export.
package hook
