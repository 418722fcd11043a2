package hook

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/webaverse/go-gltf/asset"
)

// PatchHook rewrites the assembled document tree with an RFC 6902 JSON
// patch at the post-export point. Paths address the tree as serialized,
// e.g. /extensionsUsed/0 or /extensions/VENDOR_extension/flag.
type PatchHook struct {
	name string
	ops  jsonpatch.Patch
}

func NewPatchHook(name string, patchJSON []byte) (*PatchHook, error) {
	ops, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return nil, fmt.Errorf("hook %s: %w", name, err)
	}
	return &PatchHook{name: name, ops: ops}, nil
}

func (h *PatchHook) Name() string { return h.name }

func (h *PatchHook) PostExport(doc *asset.Document) error {
	d, err := json.Marshal(doc.Sections)
	if err != nil {
		return fmt.Errorf("hook %s: %w", h.name, err)
	}
	out, err := h.ops.Apply(d)
	if err != nil {
		return fmt.Errorf("hook %s: %w", h.name, err)
	}
	var sections map[string]any
	if err := json.Unmarshal(out, &sections); err != nil {
		return fmt.Errorf("hook %s: %w", h.name, err)
	}
	doc.Sections = sections
	return nil
}
