package hook

import (
	"fmt"
	"log/slog"

	"github.com/webaverse/go-gltf/asset"
	"github.com/webaverse/go-gltf/debug"
	"github.com/webaverse/go-gltf/settings"
)

// Registry holds the ordered hook set for one export invocation. Hooks run
// in registration order; ties are never re-sorted. A Registry is built
// fresh per export call and discarded afterward.
type Registry struct {
	log *slog.Logger

	pre     []PreExporter
	post    []PostExporter
	contrib []ExtensionContributor
}

// NewRegistry detects each hook's capabilities once and records them in
// registration order. A nil logger falls back to slog.Default.
func NewRegistry(log *slog.Logger, hooks ...Hook) *Registry {
	if log == nil {
		log = slog.Default()
	}
	r := &Registry{log: log}
	for _, h := range hooks {
		if p, ok := h.(PreExporter); ok {
			r.pre = append(r.pre, p)
		}
		if p, ok := h.(PostExporter); ok {
			r.post = append(r.post, p)
		}
		if c, ok := h.(ExtensionContributor); ok {
			r.contrib = append(r.contrib, c)
		}
	}
	return r
}

// RunPreExport invokes every pre-export hook with a copy of the frozen
// configuration record. Faults are returned for observability but never
// stop later hooks or the export.
func (r *Registry) RunPreExport(s settings.Settings) []error {
	var faults []error
	for _, h := range r.pre {
		if debug.Hooks() {
			r.log.Debug("pre-export hook", "hook", h.Name())
		}
		if err := call(h.Name(), func() error { return h.PreExport(s) }); err != nil {
			r.log.Warn("pre-export hook failed, skipping", "hook", h.Name(), "err", err)
			faults = append(faults, err)
		}
	}
	return faults
}

// RunPostExport invokes every post-export hook, then extension
// contributors, in registration order. Mutations apply in that order, so
// later hooks see earlier hooks' changes. Faults are isolated per hook.
func (r *Registry) RunPostExport(doc *asset.Document) []error {
	var faults []error
	for _, h := range r.post {
		if debug.Hooks() {
			r.log.Debug("post-export hook", "hook", h.Name())
		}
		if err := call(h.Name(), func() error { return h.PostExport(doc) }); err != nil {
			r.log.Warn("post-export hook failed, skipping", "hook", h.Name(), "err", err)
			faults = append(faults, err)
		}
	}
	for _, c := range r.contrib {
		if err := call(c.Name(), func() error { return c.ContributeExtensions(doc) }); err != nil {
			r.log.Warn("extension contributor failed, skipping", "hook", c.Name(), "err", err)
			faults = append(faults, err)
		}
	}
	return faults
}

// call isolates one hook invocation, converting a panic into an error.
func call(name string, f func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("hook %s panicked: %v", name, v)
		}
	}()
	return f()
}
