package gltf

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/webaverse/go-gltf/asset"
	"github.com/webaverse/go-gltf/glb"
	"github.com/webaverse/go-gltf/hook"
	"github.com/webaverse/go-gltf/publish"
	"github.com/webaverse/go-gltf/settings"

	"github.com/google/go-cmp/cmp"
)

var testLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func testAssembler(bin []byte) Assembler {
	return AssemblerFunc(func(context.Context, settings.Settings) (*asset.Document, error) {
		doc := asset.New()
		doc.Set("asset", map[string]any{"version": "2.0"})
		doc.Set("scene", 0)
		doc.Set("scenes", []any{map[string]any{"nodes": []any{0}}})
		doc.Set("nodes", []any{map[string]any{"name": "root"}})
		if len(bin) > 0 {
			doc.Set("buffers", []any{map[string]any{"byteLength": len(bin)}})
			doc.Buffer = bin
		}
		return doc, nil
	})
}

func glbSettings(t *testing.T) settings.Settings {
	s := settings.Default()
	s.Filepath = filepath.Join(t.TempDir(), "scene.glb")
	return s
}

func TestExportGLB(t *testing.T) {
	bin := []byte{1, 2, 3, 4, 5}
	s := glbSettings(t)
	res, err := Export(context.Background(), testAssembler(bin), s, WithLogger(testLog))
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	c, err := glb.Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := c.Document()
	if err != nil {
		t.Fatal(err)
	}
	if v := doc["asset"].(map[string]any)["version"]; v != "2.0" {
		t.Errorf("got asset version %v", v)
	}
	buf, err := c.Buffer()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, bin) {
		t.Errorf("got buffer %v want %v", buf, bin)
	}
}

func TestExportSeparate(t *testing.T) {
	bin := []byte{9, 9, 9}
	s := settings.Default()
	s.Format = settings.GLTFSeparate
	s.Filepath = filepath.Join(t.TempDir(), "scene.gltf")
	res, err := Export(context.Background(), testAssembler(bin), s, WithLogger(testLog))
	if err != nil {
		t.Fatal(err)
	}
	text, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(text, []byte("{\n")) {
		t.Errorf("document is not pretty-printed: %q", text[:8])
	}
	if res.BinPath == "" {
		t.Fatal("no sibling buffer written")
	}
	got, err := os.ReadFile(res.BinPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, bin) {
		t.Errorf("got buffer file %v want %v", got, bin)
	}
	if !bytes.Contains(text, []byte(`"scene.bin"`)) {
		t.Error("buffers[0].uri does not reference the sibling file")
	}
}

func TestExportEmbedded(t *testing.T) {
	bin := []byte{7, 7, 7, 7}
	s := settings.Default()
	s.Format = settings.GLTFEmbedded
	s.Filepath = filepath.Join(t.TempDir(), "scene.gltf")
	res, err := Export(context.Background(), testAssembler(bin), s, WithLogger(testLog))
	if err != nil {
		t.Fatal(err)
	}
	if res.BinPath != "" {
		t.Errorf("embedded export wrote sibling file %q", res.BinPath)
	}
	text, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(bin)
	if !bytes.Contains(text, []byte(uri)) {
		t.Error("buffer not embedded as data uri")
	}
}

func TestExportBufferMismatch(t *testing.T) {
	a := AssemblerFunc(func(context.Context, settings.Settings) (*asset.Document, error) {
		doc := asset.New()
		doc.Set("asset", map[string]any{"version": "2.0"})
		doc.Set("buffers", []any{map[string]any{"byteLength": 100}})
		doc.Buffer = []byte{1, 2, 3}
		return doc, nil
	})
	s := glbSettings(t)
	_, err := Export(context.Background(), a, s, WithLogger(testLog))
	if err == nil {
		t.Fatal("expected buffer length error")
	}
	var ble *asset.BufferLengthError
	if !errors.As(err, &ble) {
		t.Errorf("got %v, want a BufferLengthError", err)
	}
	ns, _ := settings.Normalize(s)
	if _, statErr := os.Stat(ns.Filepath); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("partial file left behind after fatal fault")
	}
}

func TestExportEncodingFaultLeavesNoFile(t *testing.T) {
	a := AssemblerFunc(func(context.Context, settings.Settings) (*asset.Document, error) {
		doc := asset.New()
		doc.Set("asset", map[string]any{"version": "2.0"})
		doc.Set("extras", map[string]any{"bad": math.NaN()})
		return doc, nil
	})
	s := glbSettings(t)
	_, err := Export(context.Background(), a, s, WithLogger(testLog))
	if err == nil {
		t.Fatal("expected encoding error")
	}
	ns, _ := settings.Normalize(s)
	if _, statErr := os.Stat(ns.Filepath); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("partial file left behind after encoding fault")
	}
}

func TestExportHooksMutateBeforeSerialize(t *testing.T) {
	s := glbSettings(t)
	stamp := &hook.Funcs{
		HookName: "stamp",
		Post: func(doc *asset.Document) error {
			m, _ := doc.Get("asset").(map[string]any)
			m["generator"] = "go-gltf"
			return nil
		},
	}
	vrm := &hook.Funcs{
		HookName: "vrm",
		Extensions: func(doc *asset.Document) error {
			doc.MergeExtension("VRM", map[string]any{"specVersion": "0.0"}, false)
			return nil
		},
	}
	res, err := Export(context.Background(), testAssembler(nil), s,
		WithHooks(stamp, vrm), WithLogger(testLog))
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	c, err := glb.Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := c.Document()
	if err != nil {
		t.Fatal(err)
	}
	if g := doc["asset"].(map[string]any)["generator"]; g != "go-gltf" {
		t.Errorf("post hook mutation missing, got generator %v", g)
	}
	if d := cmp.Diff([]any{"VRM"}, doc["extensionsUsed"]); d != "" {
		t.Errorf("extension contribution missing:\n%s", d)
	}
}

func TestExportFailingHookDoesNotAbort(t *testing.T) {
	s := glbSettings(t)
	bad := &hook.Funcs{
		HookName: "bad",
		Post:     func(*asset.Document) error { return errors.New("boom") },
	}
	res, err := Export(context.Background(), testAssembler(nil), s,
		WithHooks(bad), WithLogger(testLog))
	if err != nil {
		t.Fatal(err)
	}
	if _, statErr := os.Stat(res.Path); statErr != nil {
		t.Errorf("artifact missing: %v", statErr)
	}
}

func TestExportFailingPreHookDoesNotAbort(t *testing.T) {
	s := glbSettings(t)
	ran := false
	bad := &hook.Funcs{
		HookName: "bad",
		Pre:      func(settings.Settings) error { panic("no") },
	}
	after := &hook.Funcs{
		HookName: "after",
		Pre: func(settings.Settings) error {
			ran = true
			return nil
		},
	}
	res, err := Export(context.Background(), testAssembler(nil), s,
		WithHooks(bad, after), WithLogger(testLog))
	if err != nil {
		t.Fatal(err)
	}
	if !ran {
		t.Error("pre-export hook after the panicking one did not run")
	}
	if _, statErr := os.Stat(res.Path); statErr != nil {
		t.Errorf("artifact missing: %v", statErr)
	}
}

func TestExportPublish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hash":"QmHash"}`))
	}))
	defer srv.Close()
	p := publish.New()
	p.Endpoint = srv.URL
	p.Client = srv.Client()
	p.Log = testLog

	s := settings.Default()
	s.Format = settings.VRM
	s.Filepath = filepath.Join(t.TempDir(), "avatar.vrm")
	res, err := Export(context.Background(), testAssembler(nil), s,
		WithPublisher(p), WithLogger(testLog))
	if err != nil {
		t.Fatal(err)
	}
	if res.PublishErr != nil {
		t.Fatalf("publish failed: %v", res.PublishErr)
	}
	if res.Receipt == nil || res.Receipt.Hash != "QmHash" {
		t.Fatalf("got receipt %+v", res.Receipt)
	}
	if want := publish.DefaultViewerURL + "?ext=vrm&hash=QmHash"; res.Receipt.ViewerURL != want {
		t.Errorf("got viewer url %q want %q", res.Receipt.ViewerURL, want)
	}
}

func TestExportPublishFailureKeepsArtifact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()
	p := publish.New()
	p.Endpoint = srv.URL
	p.Client = srv.Client()
	p.Log = testLog

	bin := []byte{4, 4, 4, 4}
	s := glbSettings(t)
	res, err := Export(context.Background(), testAssembler(bin), s,
		WithPublisher(p), WithLogger(testLog))
	if err != nil {
		t.Fatalf("publish fault must not fail the export: %v", err)
	}
	if !errors.Is(res.PublishErr, publish.ErrPublish) {
		t.Errorf("got publish error %v", res.PublishErr)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := glb.Parse(bytes.NewReader(data)); err != nil {
		t.Errorf("local artifact invalid after publish fault: %v", err)
	}
}

func TestExportNormalizesPath(t *testing.T) {
	s := settings.Default()
	s.Filepath = filepath.Join(t.TempDir(), "scene")
	res, err := Export(context.Background(), testAssembler(nil), s, WithLogger(testLog))
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Ext(res.Path) != ".glb" {
		t.Errorf("got path %q, want forced .glb extension", res.Path)
	}
}
