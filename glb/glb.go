package glb

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const (
	// Version is the container format version constant.
	Version = 2

	headerLen      = 12
	chunkHeaderLen = 8
)

var (
	magic        = [4]byte{'g', 'l', 'T', 'F'}
	jsonChunkTag = [4]byte{'J', 'S', 'O', 'N'}
	binChunkTag  = [4]byte{'B', 'I', 'N', 0}

	ErrContainer = errors.New("container error")

	errInternal = errors.New("internal error")
)

// ChunkError is a structural container fault naming the offending chunk.
type ChunkError struct {
	Chunk  string
	Reason string
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("%s chunk: %s", e.Chunk, e.Reason)
}

func (e *ChunkError) Unwrap() error { return ErrContainer }

func pad4(n int) int { return (4 - (n & 3)) & 3 }

// TotalLength returns the exact container byte length for the given
// unpadded JSON and binary payload lengths.
func TotalLength(jsonLen, binLen int) int {
	total := headerLen + chunkHeaderLen + jsonLen + pad4(jsonLen)
	if binLen > 0 {
		total += chunkHeaderLen + binLen + pad4(binLen)
	}
	return total
}

// Pack builds a complete container from serialized JSON text and the
// binary buffer. The produced length is verified against the declared
// header length; a mismatch is an unrecoverable packing bug, never silent
// truncation.
func Pack(jsonText, bin []byte) ([]byte, error) {
	total := TotalLength(len(jsonText), len(bin))
	buf := bytes.NewBuffer(make([]byte, 0, total))
	if err := WriteContainer(buf, jsonText, bin); err != nil {
		return nil, err
	}
	if buf.Len() != total {
		return nil, fmt.Errorf("%w: packed %d bytes, header declares %d", errInternal, buf.Len(), total)
	}
	return buf.Bytes(), nil
}

// WriteContainer writes the container to w.
func WriteContainer(w io.Writer, jsonText, bin []byte) error {
	total := TotalLength(len(jsonText), len(bin))
	if total > math.MaxUint32 {
		return fmt.Errorf("%w: container length %d exceeds u32", ErrContainer, total)
	}

	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if err := writeU32(w, Version); err != nil {
		return err
	}
	if err := writeU32(w, uint32(total)); err != nil {
		return err
	}

	if err := writeChunk(w, jsonChunkTag, jsonText, ' '); err != nil {
		return err
	}
	if len(bin) > 0 {
		if err := writeChunk(w, binChunkTag, bin, 0); err != nil {
			return err
		}
	}
	return nil
}

// writeChunk writes one chunk: padded length, type tag, payload, padding.
// Padding bytes count toward the announced chunk length.
func writeChunk(w io.Writer, tag [4]byte, payload []byte, padByte byte) error {
	pad := pad4(len(payload))
	if err := writeU32(w, uint32(len(payload)+pad)); err != nil {
		return err
	}
	if _, err := w.Write(tag[:]); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	if pad == 0 {
		return nil
	}
	padding := [3]byte{padByte, padByte, padByte}
	_, err := w.Write(padding[:pad])
	return err
}

func writeU32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}
