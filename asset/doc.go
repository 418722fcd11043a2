// Package asset holds the in-memory document tree for a glTF or VRM
// asset together with its binary payload.
//
// # Usage
//
//	doc := asset.New()
//	doc.Set("asset", map[string]any{"version": "2.0"})
//	doc.Buffer = payload
//
// # Related Packages
//
//   - github.com/webaverse/go-gltf/encode - serialize a document to JSON
//   - github.com/webaverse/go-gltf/glb - pack serialized output into a container
package asset
