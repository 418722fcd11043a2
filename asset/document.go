package asset

import (
	"encoding/json"
	"fmt"
)

// SectionOrder is the fixed order in which top-level document sections are
// serialized. Array order inside sections is referenced by index elsewhere
// in the tree and is never reordered.
var SectionOrder = []string{
	"asset",
	"extensionsUsed",
	"extensionsRequired",
	"extensions",
	"extras",
	"scene",
	"scenes",
	"nodes",
	"cameras",
	"animations",
	"materials",
	"meshes",
	"textures",
	"images",
	"skins",
	"accessors",
	"bufferViews",
	"samplers",
	"buffers",
}

var sectionIndex = func() map[string]int {
	m := make(map[string]int, len(SectionOrder))
	for i, s := range SectionOrder {
		m[s] = i
	}
	return m
}()

// KnownSection reports whether name is a valid top-level section.
func KnownSection(name string) bool {
	_, ok := sectionIndex[name]
	return ok
}

// Document is an assembled asset: a JSON-compatible section tree plus the
// single binary buffer referenced by bufferViews. A Document is consumed by
// exactly one export call and holds no cross-call state.
type Document struct {
	Sections map[string]any
	Buffer   []byte
}

func New() *Document {
	return &Document{Sections: map[string]any{}}
}

func (d *Document) Set(section string, v any) {
	if d.Sections == nil {
		d.Sections = map[string]any{}
	}
	d.Sections[section] = v
}

func (d *Document) Get(section string) any {
	return d.Sections[section]
}

func (d *Document) Has(section string) bool {
	_, ok := d.Sections[section]
	return ok
}

// MergeExtension sets the named entry under "extensions" and records the
// name in "extensionsUsed" if not already present. When required is true
// the name is recorded in "extensionsRequired" as well.
func (d *Document) MergeExtension(name string, value any, required bool) {
	exts, _ := d.Get("extensions").(map[string]any)
	if exts == nil {
		exts = map[string]any{}
		d.Set("extensions", exts)
	}
	exts[name] = value
	d.appendName("extensionsUsed", name)
	if required {
		d.appendName("extensionsRequired", name)
	}
}

func (d *Document) appendName(section, name string) {
	list, _ := d.Get(section).([]any)
	for _, v := range list {
		if v == name {
			return
		}
	}
	d.Set(section, append(list, any(name)))
}

// BufferLengthError reports a mismatch between buffers[0].byteLength and
// the actual binary buffer length.
type BufferLengthError struct {
	Declared int64
	Actual   int64
}

func (e *BufferLengthError) Error() string {
	return fmt.Sprintf("buffers[0].byteLength is %d but buffer holds %d bytes", e.Declared, e.Actual)
}

// CheckBuffer verifies that buffers[0].byteLength matches the binary buffer
// length at the moment of serialization. A mismatch is a fatal encoding
// fault. A document with no buffer and no buffers section is valid.
func (d *Document) CheckBuffer() error {
	declared, ok := d.declaredBufferLength()
	if !ok {
		if len(d.Buffer) == 0 {
			return nil
		}
		return &BufferLengthError{Declared: 0, Actual: int64(len(d.Buffer))}
	}
	if declared != int64(len(d.Buffer)) {
		return &BufferLengthError{Declared: declared, Actual: int64(len(d.Buffer))}
	}
	return nil
}

func (d *Document) declaredBufferLength() (int64, bool) {
	buffers, ok := d.Get("buffers").([]any)
	if !ok || len(buffers) == 0 {
		return 0, false
	}
	first, ok := buffers[0].(map[string]any)
	if !ok {
		return 0, false
	}
	return AsInt(first["byteLength"])
}

// AsInt coerces the numeric value types permitted in a document tree to an
// int64.
func AsInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), true
	case float64:
		return int64(x), true
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
