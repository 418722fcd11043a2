package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/webaverse/go-gltf/asset"
	"github.com/webaverse/go-gltf/glb"
)

// loadDocument reads a file that is either a packed container or a plain
// glTF JSON document, sniffing the container magic.
func loadDocument(path string) (*asset.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return loadDocumentBytes(data)
}

func loadDocumentIn(r io.Reader) (*asset.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return loadDocumentBytes(data)
}

func loadDocumentBytes(data []byte) (*asset.Document, error) {
	if len(data) >= 4 && bytes.Equal(data[:4], []byte("glTF")) {
		c, err := glb.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		doc := asset.New()
		if err := decodeSections(c.JSON, &doc.Sections); err != nil {
			return nil, err
		}
		doc.Buffer, err = c.Buffer()
		if err != nil {
			return nil, err
		}
		return doc, nil
	}
	doc := asset.New()
	if err := decodeSections(data, &doc.Sections); err != nil {
		return nil, err
	}
	return doc, nil
}

// decodeSections keeps numbers as json.Number so re-encoding the tree
// reproduces the source literals.
func decodeSections(data []byte, into *map[string]any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(into)
}
