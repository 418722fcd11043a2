package gltf

import (
	"errors"
	"fmt"
)

var ErrExport = errors.New("export error")

// IOError is a fatal local write fault carrying the destination path.
// When it is returned no partial or corrupt file remains at the path.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("cannot write %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
