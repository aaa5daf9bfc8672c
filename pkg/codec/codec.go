// Package codec converts typed arrays to and from the canonical Strata
// binary encoding: little-endian 4-byte elements (IEEE-754 float32 or
// int32), row-major. Encoding is deterministic, so re-encoding an unchanged
// array yields byte-identical output.
package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/strata3d/strata/pkg/props"
)

// elemWidth is the wire width of every element, in bytes
const elemWidth = 4

// DefaultFileSizeLimit is the largest encoded size accepted for a single
// array, in bytes
const DefaultFileSizeLimit = 256 << 20

// Codec encodes and decodes arrays of one element kind
type Codec interface {
	// Kind returns the element kind this codec handles
	Kind() props.Kind

	// Encode maps an array to its canonical binary form
	Encode(a *props.Array) ([]byte, error)

	// Decode materializes an array from its binary form. The declared shape
	// may carry a single wildcard dimension, inferred from the byte length.
	Decode(b []byte, shape props.Shape) (*props.Array, error)

	// ByteSize returns the byte length Encode would produce, without
	// materializing the encoding
	ByteSize(a *props.Array) int
}

// ForKind returns the codec for an array element kind
func ForKind(k props.Kind) (Codec, error) {
	switch k {
	case props.KindFloatArray:
		return Float32Codec{}, nil
	case props.KindIntArray:
		return Int32Codec{}, nil
	default:
		return nil, fmt.Errorf("no codec for kind %s", k)
	}
}

// Float32Codec encodes float arrays as little-endian IEEE-754 float32
type Float32Codec struct{}

// Kind returns props.KindFloatArray
func (Float32Codec) Kind() props.Kind {
	return props.KindFloatArray
}

// Encode maps the array to little-endian float32 bytes
func (Float32Codec) Encode(a *props.Array) ([]byte, error) {
	if a.Kind() != props.KindFloatArray {
		return nil, fmt.Errorf("float32 codec cannot encode %s", a.Kind())
	}
	values := a.Floats()
	b := make([]byte, len(values)*elemWidth)
	for i, v := range values {
		binary.LittleEndian.PutUint32(b[i*elemWidth:], math.Float32bits(float32(v)))
	}
	return b, nil
}

// Decode materializes a float array from little-endian float32 bytes
func (Float32Codec) Decode(b []byte, shape props.Shape) (*props.Array, error) {
	resolved, count, err := resolveShape(b, shape)
	if err != nil {
		return nil, err
	}
	values := make([]float64, count)
	for i := range values {
		bits := binary.LittleEndian.Uint32(b[i*elemWidth:])
		values[i] = float64(math.Float32frombits(bits))
	}
	return props.FromFloats(values, resolved), nil
}

// ByteSize returns the encoded byte length of the array
func (Float32Codec) ByteSize(a *props.Array) int {
	return a.Elems() * elemWidth
}

// Int32Codec encodes integer arrays as little-endian int32
type Int32Codec struct{}

// Kind returns props.KindIntArray
func (Int32Codec) Kind() props.Kind {
	return props.KindIntArray
}

// Encode maps the array to little-endian int32 bytes. Values outside the
// int32 range are rejected rather than silently wrapped.
func (Int32Codec) Encode(a *props.Array) ([]byte, error) {
	if a.Kind() != props.KindIntArray {
		return nil, fmt.Errorf("int32 codec cannot encode %s", a.Kind())
	}
	values := a.Ints()
	b := make([]byte, len(values)*elemWidth)
	for i, v := range values {
		if v < math.MinInt32 || v > math.MaxInt32 {
			return nil, fmt.Errorf("element %d overflows int32: %d", i, v)
		}
		binary.LittleEndian.PutUint32(b[i*elemWidth:], uint32(int32(v)))
	}
	return b, nil
}

// Decode materializes an integer array from little-endian int32 bytes
func (Int32Codec) Decode(b []byte, shape props.Shape) (*props.Array, error) {
	resolved, count, err := resolveShape(b, shape)
	if err != nil {
		return nil, err
	}
	values := make([]int64, count)
	for i := range values {
		values[i] = int64(int32(binary.LittleEndian.Uint32(b[i*elemWidth:])))
	}
	return props.FromInts(values, resolved), nil
}

// ByteSize returns the encoded byte length of the array
func (Int32Codec) ByteSize(a *props.Array) int {
	return a.Elems() * elemWidth
}

// resolveShape checks a payload length against a declared shape and resolves
// at most one wildcard dimension from the byte length
func resolveShape(b []byte, shape props.Shape) (props.Shape, int, error) {
	if len(b)%elemWidth != 0 {
		return nil, 0, &DecodeError{
			Shape:   shape,
			ByteLen: len(b),
			Reason:  fmt.Sprintf("byte length is not a multiple of element width %d", elemWidth),
		}
	}
	count := len(b) / elemWidth

	if want, ok := shape.Elems(); ok {
		if count != want {
			return nil, 0, &DecodeError{
				Shape:   shape,
				ByteLen: len(b),
				Reason:  fmt.Sprintf("payload holds %d elements, shape requires %d", count, want),
			}
		}
		return append(props.Shape(nil), shape...), count, nil
	}

	wildcards := 0
	for _, dim := range shape {
		if dim == props.Any {
			wildcards++
		}
	}
	if wildcards != 1 {
		return nil, 0, &DecodeError{
			Shape:   shape,
			ByteLen: len(b),
			Reason:  "shape must have at most one wildcard dimension",
		}
	}

	fixed := shape.FixedElems()
	if fixed == 0 || count%fixed != 0 {
		return nil, 0, &DecodeError{
			Shape:   shape,
			ByteLen: len(b),
			Reason:  fmt.Sprintf("payload holds %d elements, not divisible into rows of %d", count, fixed),
		}
	}

	resolved := append(props.Shape(nil), shape...)
	for i, dim := range resolved {
		if dim == props.Any {
			resolved[i] = count / fixed
		}
	}
	return resolved, count, nil
}

// CheckSize verifies that an array's encoded size does not exceed the limit.
// The size is computed without materializing the encoding.
func CheckSize(name string, c Codec, a *props.Array, limit int) error {
	if size := c.ByteSize(a); size > limit {
		return &PayloadTooLargeError{Array: name, Size: size, Limit: limit}
	}
	return nil
}
