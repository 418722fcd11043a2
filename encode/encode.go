package encode

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/webaverse/go-gltf/asset"
	"github.com/webaverse/go-gltf/debug"
)

type EncState struct {
	depth, indent int
	compact       bool

	colors *Colors
}

// Marshal serializes doc and returns the bytes. On any encoding fault the
// returned slice is nil; no partial output escapes.
func Marshal(doc *asset.Document, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(doc, &buf, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode serializes doc to w. Output is written only after the whole
// document has encoded successfully, so a fault deep in the tree produces
// no bytes. Pretty output ends with a trailing newline.
func Encode(doc *asset.Document, w io.Writer, opts ...Option) error {
	es := &EncState{indent: 4}
	for _, opt := range opts {
		opt(es)
	}
	for name := range doc.Sections {
		if !asset.KnownSection(name) {
			return &FieldError{Path: name, Reason: "unknown top-level section"}
		}
	}
	var buf bytes.Buffer
	if err := es.encodeDocument(doc, &buf); err != nil {
		return err
	}
	if debug.Encode() {
		debug.LogAny(map[string]any{
			"sections": len(doc.Sections),
			"bytes":    buf.Len(),
			"compact":  es.compact,
		})
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func (es *EncState) encodeDocument(doc *asset.Document, buf *bytes.Buffer) error {
	es.punct(buf, "{")
	es.depth++
	n := 0
	for _, name := range asset.SectionOrder {
		v, ok := doc.Sections[name]
		if !ok {
			continue
		}
		if n > 0 {
			es.punct(buf, ",")
		}
		es.newline(buf)
		es.writeKey(buf, name)
		if err := es.encodeValue(v, name, buf); err != nil {
			return err
		}
		n++
	}
	es.depth--
	if n > 0 {
		es.newline(buf)
	}
	es.punct(buf, "}")
	if !es.compact {
		buf.WriteByte('\n')
	}
	return nil
}

func (es *EncState) encodeValue(v any, path string, buf *bytes.Buffer) error {
	switch x := v.(type) {
	case nil:
		es.token(buf, NullColor, "null")
	case bool:
		es.token(buf, BoolColor, strconv.FormatBool(x))
	case string:
		es.token(buf, StringColor, quote(x))
	case json.Number:
		return es.encodeNumberLit(x, path, buf)
	case int:
		es.token(buf, NumberColor, strconv.FormatInt(int64(x), 10))
	case int32:
		es.token(buf, NumberColor, strconv.FormatInt(int64(x), 10))
	case int64:
		es.token(buf, NumberColor, strconv.FormatInt(x, 10))
	case uint:
		es.token(buf, NumberColor, strconv.FormatUint(uint64(x), 10))
	case uint32:
		es.token(buf, NumberColor, strconv.FormatUint(uint64(x), 10))
	case uint64:
		es.token(buf, NumberColor, strconv.FormatUint(x, 10))
	case float32:
		return es.encodeFloat(float64(x), 32, path, buf)
	case float64:
		return es.encodeFloat(x, 64, path, buf)
	case map[string]any:
		return es.encodeObject(x, path, buf)
	case []any:
		return es.encodeArray(x, path, buf)
	case []string:
		arr := make([]any, len(x))
		for i, s := range x {
			arr[i] = s
		}
		return es.encodeArray(arr, path, buf)
	case []int:
		arr := make([]any, len(x))
		for i, n := range x {
			arr[i] = n
		}
		return es.encodeArray(arr, path, buf)
	case []float64:
		arr := make([]any, len(x))
		for i, f := range x {
			arr[i] = f
		}
		return es.encodeArray(arr, path, buf)
	default:
		return &FieldError{Path: path, Reason: "unsupported value type"}
	}
	return nil
}

// encodeObject writes nested object keys in lexicographic order so the
// same tree always produces the same bytes.
func (es *EncState) encodeObject(m map[string]any, path string, buf *bytes.Buffer) error {
	es.punct(buf, "{")
	es.depth++
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 {
			es.punct(buf, ",")
		}
		es.newline(buf)
		es.writeKey(buf, k)
		if err := es.encodeValue(m[k], path+"."+k, buf); err != nil {
			return err
		}
	}
	es.depth--
	if len(keys) > 0 {
		es.newline(buf)
	}
	es.punct(buf, "}")
	return nil
}

func (es *EncState) encodeArray(arr []any, path string, buf *bytes.Buffer) error {
	es.punct(buf, "[")
	es.depth++
	for i, v := range arr {
		if i > 0 {
			es.punct(buf, ",")
		}
		es.newline(buf)
		if err := es.encodeValue(v, path+"["+strconv.Itoa(i)+"]", buf); err != nil {
			return err
		}
	}
	es.depth--
	if len(arr) > 0 {
		es.newline(buf)
	}
	es.punct(buf, "]")
	return nil
}

func (es *EncState) encodeFloat(f float64, bits int, path string, buf *bytes.Buffer) error {
	if math.IsNaN(f) {
		return &FieldError{Path: path, Reason: "NaN is not a valid JSON number"}
	}
	if math.IsInf(f, 0) {
		return &FieldError{Path: path, Reason: "infinity is not a valid JSON number"}
	}
	v := strconv.FormatFloat(f, 'g', -1, bits)
	// Keep whole floats visibly floating point.
	if !strings.ContainsAny(v, ".eE") {
		v += ".0"
	}
	es.token(buf, NumberColor, v)
	return nil
}

func (es *EncState) encodeNumberLit(n json.Number, path string, buf *bytes.Buffer) error {
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return &FieldError{Path: path, Reason: "malformed number literal " + strconv.Quote(n.String())}
	}
	es.token(buf, NumberColor, n.String())
	return nil
}

func (es *EncState) writeKey(buf *bytes.Buffer, k string) {
	es.token(buf, FieldColor, quote(k))
	if es.compact {
		es.punct(buf, ":")
		return
	}
	es.punct(buf, " : ")
}

func (es *EncState) newline(buf *bytes.Buffer) {
	if es.compact {
		return
	}
	buf.WriteByte('\n')
	for range es.depth * es.indent {
		buf.WriteByte(' ')
	}
}

func (es *EncState) token(buf *bytes.Buffer, attr ColorAttr, v string) {
	if es.colors != nil {
		v = es.colors.Color(attr, v)
	}
	buf.WriteString(v)
}

func (es *EncState) punct(buf *bytes.Buffer, v string) {
	if es.colors != nil {
		v = es.colors.Color(SepColor, v)
	}
	buf.WriteString(v)
}

const hexDigits = "0123456789abcdef"

// quote encodes s as a JSON string with all non-ASCII code points escaped,
// matching the interchange convention of existing consumers.
func quote(s string) string {
	b := make([]byte, 0, len(s)+2)
	b = append(b, '"')
	for _, r := range s {
		switch r {
		case '"':
			b = append(b, '\\', '"')
		case '\\':
			b = append(b, '\\', '\\')
		case '\b':
			b = append(b, '\\', 'b')
		case '\f':
			b = append(b, '\\', 'f')
		case '\n':
			b = append(b, '\\', 'n')
		case '\r':
			b = append(b, '\\', 'r')
		case '\t':
			b = append(b, '\\', 't')
		default:
			switch {
			case r < 0x20 || r >= 0x80 && r <= 0xFFFF:
				b = appendU16(b, uint16(r))
			case r < 0x80:
				b = append(b, byte(r))
			default:
				// Astral code points use a UTF-16 surrogate pair.
				r -= 0x10000
				b = appendU16(b, uint16(0xD800+(r>>10)))
				b = appendU16(b, uint16(0xDC00+(r&0x3FF)))
			}
		}
	}
	return string(append(b, '"'))
}

func appendU16(b []byte, u uint16) []byte {
	return append(b,
		'\\', 'u',
		hexDigits[u>>12&0xF],
		hexDigits[u>>8&0xF],
		hexDigits[u>>4&0xF],
		hexDigits[u&0xF],
	)
}
