package codec

import (
	"fmt"

	"github.com/strata3d/strata/pkg/props"
)

// DecodeError is returned when a binary payload's length is inconsistent
// with its declared shape. It indicates corrupt input: the payload must be
// re-fetched or the shape re-specified.
type DecodeError struct {
	Shape   props.Shape
	ByteLen int
	Reason  string
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %d bytes as shape %s: %s", e.ByteLen, e.Shape, e.Reason)
}

// PayloadTooLargeError is returned during pre-sync validation when an
// array's encoded size exceeds the configured per-array limit
type PayloadTooLargeError struct {
	Array string
	Size  int
	Limit int
}

// Error implements the error interface
func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("%s: encoded size %d bytes exceeds limit of %d bytes", e.Array, e.Size, e.Limit)
}
