package encode

import (
	"errors"
	"fmt"
)

var ErrEncoding = errors.New("encoding error")

// FieldError is a fatal encoding fault identifying the offending value by
// its path in the document tree.
type FieldError struct {
	Path   string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("cannot encode %s: %s", e.Path, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrEncoding }
