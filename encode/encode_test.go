package encode

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/webaverse/go-gltf/asset"

	"github.com/google/go-cmp/cmp"
)

func testDoc() *asset.Document {
	doc := asset.New()
	doc.Set("asset", map[string]any{"version": "2.0", "generator": "go-gltf"})
	doc.Set("scene", 0)
	doc.Set("scenes", []any{map[string]any{"nodes": []any{0}}})
	doc.Set("nodes", []any{map[string]any{"name": "root"}})
	return doc
}

func TestEncodeSectionOrder(t *testing.T) {
	doc := asset.New()
	// Set in an order unrelated to the serialized one.
	doc.Set("buffers", []any{map[string]any{"byteLength": 4}})
	doc.Set("nodes", []any{})
	doc.Set("asset", map[string]any{"version": "2.0"})
	doc.Set("scenes", []any{})

	got, err := Marshal(doc, Compact())
	if err != nil {
		t.Fatal(err)
	}
	want := `{"asset":{"version":"2.0"},"scenes":[],"nodes":[],"buffers":[{"byteLength":4}]}`
	if string(got) != want {
		t.Errorf("got %s want %s", got, want)
	}
}

func TestEncodePretty(t *testing.T) {
	got, err := Marshal(testDoc())
	if err != nil {
		t.Fatal(err)
	}
	want := `{
    "asset" : {
        "generator" : "go-gltf",
        "version" : "2.0"
    },
    "scene" : 0,
    "scenes" : [
        {
            "nodes" : [
                0
            ]
        }
    ],
    "nodes" : [
        {
            "name" : "root"
        }
    ]
}
`
	if d := cmp.Diff(want, string(got)); d != "" {
		t.Errorf("unexpected output (-want +got):\n%s", d)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	a, err := Marshal(testDoc())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Marshal(testDoc())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("two encodings of the same tree differ:\n%s\n%s", a, b)
	}
}

func TestCompactAndPrettyAgree(t *testing.T) {
	doc := testDoc()
	compact, err := Marshal(doc, Compact())
	if err != nil {
		t.Fatal(err)
	}
	pretty, err := Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	var fromCompact, fromPretty map[string]any
	if err := json.Unmarshal(compact, &fromCompact); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(pretty, &fromPretty); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(fromCompact, fromPretty); d != "" {
		t.Errorf("compact and pretty encode different data:\n%s", d)
	}
}

func TestEncodeUnknownSection(t *testing.T) {
	doc := asset.New()
	doc.Set("asset", map[string]any{"version": "2.0"})
	doc.Set("vertices", []any{})

	_, err := Marshal(doc)
	if err == nil {
		t.Fatal("expected error for unknown section")
	}
	if !errors.Is(err, ErrEncoding) {
		t.Errorf("error %v does not wrap ErrEncoding", err)
	}
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("error %v is not a FieldError", err)
	}
	if fe.Path != "vertices" {
		t.Errorf("got path %q want %q", fe.Path, "vertices")
	}
}

func TestEncodeNonFinite(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		doc := asset.New()
		doc.Set("asset", map[string]any{"version": "2.0"})
		doc.Set("nodes", []any{map[string]any{"scale": []any{1.0, bad, 1.0}}})

		var buf bytes.Buffer
		err := Encode(doc, &buf)
		if err == nil {
			t.Fatalf("expected error for %v", bad)
		}
		var fe *FieldError
		if !errors.As(err, &fe) {
			t.Fatalf("error %v is not a FieldError", err)
		}
		if fe.Path != "nodes[0].scale[1]" {
			t.Errorf("got path %q want %q", fe.Path, "nodes[0].scale[1]")
		}
		if buf.Len() != 0 {
			t.Errorf("%d bytes written despite encoding fault", buf.Len())
		}
	}
}

func TestEncodeFloats(t *testing.T) {
	for _, tc := range []struct {
		in   any
		want string
	}{
		{1.0, "1.0"},
		{0.5, "0.5"},
		{-2.0, "-2.0"},
		{1e21, "1e+21"},
		{float32(0.25), "0.25"},
		{json.Number("1.25"), "1.25"},
		{json.Number("7"), "7"},
		{3, "3"},
		{uint64(12), "12"},
	} {
		doc := asset.New()
		doc.Set("extras", map[string]any{"v": tc.in})
		got, err := Marshal(doc, Compact())
		if err != nil {
			t.Fatal(err)
		}
		want := `{"extras":{"v":` + tc.want + `}}`
		if string(got) != want {
			t.Errorf("%v: got %s want %s", tc.in, got, want)
		}
	}
}

func TestEncodeBadNumberLit(t *testing.T) {
	doc := asset.New()
	doc.Set("extras", map[string]any{"v": json.Number("1..2")})
	if _, err := Marshal(doc); err == nil {
		t.Error("expected error for malformed number literal")
	}
}

func TestEncodeStrings(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"plain", `"plain"`},
		{"tab\there", `"tab\there"`},
		{`quote"back\`, `"quote\"back\\"`},
		{"héllo", `"h\u00e9llo"`},
		{"日本", `"\u65e5\u672c"`},
		{"\U0001D11E", `"\ud834\udd1e"`},
		{"\x01", `"\u0001"`},
	} {
		doc := asset.New()
		doc.Set("extras", map[string]any{"v": tc.in})
		got, err := Marshal(doc, Compact())
		if err != nil {
			t.Fatal(err)
		}
		want := `{"extras":{"v":` + tc.want + `}}`
		if string(got) != want {
			t.Errorf("%q: got %s want %s", tc.in, got, want)
		}
	}
}

func TestEncodeNestedKeysSorted(t *testing.T) {
	doc := asset.New()
	doc.Set("extras", map[string]any{"zeta": 1, "alpha": 2, "mid": 3})
	got, err := Marshal(doc, Compact())
	if err != nil {
		t.Fatal(err)
	}
	want := `{"extras":{"alpha":2,"mid":3,"zeta":1}}`
	if string(got) != want {
		t.Errorf("got %s want %s", got, want)
	}
}

func TestEncodeEmptyDocument(t *testing.T) {
	got, err := Marshal(asset.New(), Compact())
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "{}" {
		t.Errorf("got %s want {}", got)
	}
}

func TestEncodeUnsupportedType(t *testing.T) {
	doc := asset.New()
	doc.Set("extras", map[string]any{"ch": make(chan int)})
	_, err := Marshal(doc)
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("got %v, want a FieldError", err)
	}
	if fe.Path != "extras.ch" {
		t.Errorf("got path %q want %q", fe.Path, "extras.ch")
	}
}
