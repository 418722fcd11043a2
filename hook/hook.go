package hook

import (
	"github.com/webaverse/go-gltf/asset"
	"github.com/webaverse/go-gltf/settings"
)

// Hook is the base capability; a hook additionally implements any of
// PreExporter, PostExporter and ExtensionContributor.
type Hook interface {
	Name() string
}

// PreExporter runs before the document assembler executes. It receives a
// copy of the frozen configuration record and may only observe it or
// prepare external state.
type PreExporter interface {
	Hook
	PreExport(s settings.Settings) error
}

// PostExporter runs after the document tree is fully assembled and before
// serialization. It may mutate the tree; later hooks see its mutations.
type PostExporter interface {
	Hook
	PostExport(doc *asset.Document) error
}

// ExtensionContributor contributes or rewrites entries under extensions,
// extensionsUsed and extensionsRequired. It runs at the post-export point,
// after the hook's own PostExport when both are implemented.
type ExtensionContributor interface {
	Hook
	ContributeExtensions(doc *asset.Document) error
}

// Funcs adapts plain functions to a Hook. Nil fields are capabilities the
// hook does not have.
type Funcs struct {
	HookName   string
	Pre        func(s settings.Settings) error
	Post       func(doc *asset.Document) error
	Extensions func(doc *asset.Document) error
}

func (f *Funcs) Name() string {
	if f.HookName == "" {
		return "func hook"
	}
	return f.HookName
}

func (f *Funcs) PreExport(s settings.Settings) error {
	if f.Pre == nil {
		return nil
	}
	return f.Pre(s)
}

func (f *Funcs) PostExport(doc *asset.Document) error {
	if f.Post == nil {
		return nil
	}
	return f.Post(doc)
}

func (f *Funcs) ContributeExtensions(doc *asset.Document) error {
	if f.Extensions == nil {
		return nil
	}
	return f.Extensions(doc)
}
