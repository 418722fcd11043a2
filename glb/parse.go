package glb

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/webaverse/go-gltf/asset"
)

// Container is a split GLB/VRM file.
type Container struct {
	// JSON is the serialized document text with chunk padding removed.
	JSON []byte
	// Bin is the binary chunk payload as stored, including zero padding.
	// Use Buffer to recover the exact buffer bytes.
	Bin []byte
}

// Parse splits a container, validating the header, chunk order, declared
// lengths and alignment.
func Parse(r io.Reader) (*Container, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContainer, err)
	}
	if len(data) < headerLen {
		return nil, fmt.Errorf("%w: %d bytes is too short for a header", ErrContainer, len(data))
	}
	if !bytes.Equal(data[:4], magic[:]) {
		return nil, fmt.Errorf("%w: bad magic %q", ErrContainer, data[:4])
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrContainer, v)
	}
	if total := binary.LittleEndian.Uint32(data[8:12]); int(total) != len(data) {
		return nil, fmt.Errorf("%w: header declares %d bytes, container holds %d", ErrContainer, total, len(data))
	}

	c := &Container{}
	rest := data[headerLen:]
	for i := 0; len(rest) > 0; i++ {
		if len(rest) < chunkHeaderLen {
			return nil, &ChunkError{Chunk: "trailing", Reason: "truncated chunk header"}
		}
		length := int(binary.LittleEndian.Uint32(rest[:4]))
		var tag [4]byte
		copy(tag[:], rest[4:8])
		name := chunkName(tag)
		if length%4 != 0 {
			return nil, &ChunkError{Chunk: name, Reason: fmt.Sprintf("length %d is not 4-byte aligned", length)}
		}
		if length > len(rest)-chunkHeaderLen {
			return nil, &ChunkError{Chunk: name, Reason: "declared length exceeds container"}
		}
		payload := rest[chunkHeaderLen : chunkHeaderLen+length]
		switch {
		case i == 0 && tag == jsonChunkTag:
			c.JSON = bytes.TrimRight(payload, " ")
		case i == 1 && tag == binChunkTag:
			c.Bin = payload
		default:
			return nil, &ChunkError{Chunk: name, Reason: fmt.Sprintf("unexpected chunk at position %d", i)}
		}
		rest = rest[chunkHeaderLen+length:]
	}
	if c.JSON == nil {
		return nil, &ChunkError{Chunk: "JSON", Reason: "missing"}
	}
	return c, nil
}

// Buffer returns the exact binary buffer bytes, cut to the byteLength
// declared by buffers[0] in the JSON chunk.
func (c *Container) Buffer() ([]byte, error) {
	if len(c.Bin) == 0 {
		return nil, nil
	}
	doc, err := c.Document()
	if err != nil {
		return nil, err
	}
	buffers, _ := doc["buffers"].([]any)
	if len(buffers) == 0 {
		return nil, &ChunkError{Chunk: "BIN", Reason: "no buffers declared in JSON chunk"}
	}
	first, _ := buffers[0].(map[string]any)
	n, ok := asset.AsInt(first["byteLength"])
	if !ok {
		return nil, &ChunkError{Chunk: "BIN", Reason: "buffers[0].byteLength missing"}
	}
	if n < 0 || n > int64(len(c.Bin)) {
		return nil, &ChunkError{Chunk: "BIN", Reason: fmt.Sprintf("byteLength %d out of range for %d chunk bytes", n, len(c.Bin))}
	}
	return c.Bin[:n], nil
}

// Document decodes the JSON chunk into a section map.
func (c *Container) Document() (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(c.JSON, &m); err != nil {
		return nil, fmt.Errorf("%w: JSON chunk: %v", ErrContainer, err)
	}
	return m, nil
}

func chunkName(tag [4]byte) string {
	switch tag {
	case jsonChunkTag:
		return "JSON"
	case binChunkTag:
		return "BIN"
	default:
		return fmt.Sprintf("%q", tag[:])
	}
}
