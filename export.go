// Package gltf exports an assembled document tree to a glTF package or a
// chunked GLB/VRM container, and optionally publishes the container.
//
// The pipeline is synchronous and holds no state across calls:
//
//	settings → pre-export hooks → assembler → post-export hooks →
//	serialize → pack (binary formats) → write → publish (opt-in)
//
// Fatal faults (encoding, buffer mismatch, local I/O) abort the export and
// leave no partial file. A publish fault is reported separately in
// Result.PublishErr; the local artifact stays valid.
package gltf

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/webaverse/go-gltf/asset"
	"github.com/webaverse/go-gltf/debug"
	"github.com/webaverse/go-gltf/encode"
	"github.com/webaverse/go-gltf/glb"
	"github.com/webaverse/go-gltf/hook"
	"github.com/webaverse/go-gltf/publish"
	"github.com/webaverse/go-gltf/settings"
)

// Assembler produces the document tree and binary buffer for one export.
// The returned document is owned by the export call; it is consumed
// exactly once and never retained.
type Assembler interface {
	Assemble(ctx context.Context, s settings.Settings) (*asset.Document, error)
}

type AssemblerFunc func(ctx context.Context, s settings.Settings) (*asset.Document, error)

func (f AssemblerFunc) Assemble(ctx context.Context, s settings.Settings) (*asset.Document, error) {
	return f(ctx, s)
}

type Option func(*exporter)

// WithHooks supplies the ordered hook set for this export call.
func WithHooks(hooks ...hook.Hook) Option {
	return func(e *exporter) { e.hooks = append(e.hooks, hooks...) }
}

// WithPublisher enables publication of binary containers after the local
// write succeeds.
func WithPublisher(p *publish.Publisher) Option {
	return func(e *exporter) { e.publisher = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *exporter) { e.log = l }
}

type exporter struct {
	hooks     []hook.Hook
	publisher *publish.Publisher
	log       *slog.Logger
}

// Result reports the outcome of one export call. PublishErr is set when
// the local artifact was written but publication failed; the two outcomes
// are independent.
type Result struct {
	Path    string
	BinPath string

	Receipt    *publish.Receipt
	PublishErr error
}

// Export runs the full pipeline: normalize settings, run pre-export
// hooks, assemble, run post-export hooks, serialize, pack and write, then
// publish when configured.
func Export(ctx context.Context, a Assembler, s settings.Settings, opts ...Option) (*Result, error) {
	e := &exporter{log: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	ns, err := settings.Normalize(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExport, err)
	}

	reg := hook.NewRegistry(e.log, e.hooks...)
	reg.RunPreExport(ns)

	doc, err := a.Assemble(ctx, ns)
	if err != nil {
		return nil, fmt.Errorf("%w: assembling document: %v", ErrExport, err)
	}
	reg.RunPostExport(doc)

	if err := doc.CheckBuffer(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}

	if ns.Format.Binary() {
		return e.exportBinary(ctx, doc, ns)
	}
	return e.exportText(doc, ns)
}

// ExportDocument exports an already-assembled document.
func ExportDocument(ctx context.Context, doc *asset.Document, s settings.Settings, opts ...Option) (*Result, error) {
	return Export(ctx, AssemblerFunc(func(context.Context, settings.Settings) (*asset.Document, error) {
		return doc, nil
	}), s, opts...)
}

func (e *exporter) exportBinary(ctx context.Context, doc *asset.Document, s settings.Settings) (*Result, error) {
	text, err := encode.Marshal(doc, encode.Compact())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}
	packed, err := glb.Pack(text, doc.Buffer)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}
	if err := writeFileAtomic(s.Filepath, packed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}
	res := &Result{Path: s.Filepath}

	if e.publisher == nil {
		return res, nil
	}
	// Publish what actually landed on disk, not the in-memory bytes.
	data, err := os.ReadFile(s.Filepath)
	if err != nil {
		res.PublishErr = &publish.Error{Reason: "re-reading container", Err: err}
		return res, nil
	}
	receipt, err := e.publisher.Publish(ctx, data, s.Format.PublishExt())
	if err != nil {
		res.PublishErr = err
		return res, nil
	}
	res.Receipt = receipt
	return res, nil
}

func (e *exporter) exportText(doc *asset.Document, s settings.Settings) (*Result, error) {
	embed := s.Format == settings.GLTFEmbedded || s.EmbedBuffers
	if embed {
		setBufferURI(doc, "data:application/octet-stream;base64,"+
			base64.StdEncoding.EncodeToString(doc.Buffer))
	} else if s.Format == settings.GLTFSeparate {
		setBufferURI(doc, s.BinFilename)
	}
	text, err := encode.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}
	if err := writeFileAtomic(s.Filepath, text); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}
	res := &Result{Path: s.Filepath}

	if s.Format == settings.GLTFSeparate && len(doc.Buffer) > 0 && !embed {
		binPath := filepath.Join(filepath.Dir(s.Filepath), s.BinFilename)
		if err := writeFileAtomic(binPath, doc.Buffer); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExport, err)
		}
		res.BinPath = binPath
	}
	return res, nil
}

// setBufferURI points buffers[0] at its payload. The binary container
// formats leave uri unset; the BIN chunk is implied.
func setBufferURI(doc *asset.Document, uri string) {
	if len(doc.Buffer) == 0 {
		return
	}
	buffers, _ := doc.Get("buffers").([]any)
	if len(buffers) == 0 {
		return
	}
	if first, ok := buffers[0].(map[string]any); ok {
		first["uri"] = uri
	}
}

// writeFileAtomic writes to a temporary file in the destination directory
// and renames it into place, so a fault leaves no partial output.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return &IOError{Path: path, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &IOError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &IOError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &IOError{Path: path, Err: err}
	}
	if debug.Sink() {
		debug.LogAny(map[string]any{"wrote": path, "bytes": len(data)})
	}
	return nil
}
