package props

import "fmt"

// Array is a dense numeric array in row-major order, tagged by element kind.
// The backing store is float64 or int64 depending on the kind; the binary
// codec narrows to the 4-byte wire width at encode time.
type Array struct {
	kind   Kind
	shape  Shape
	floats []float64
	ints   []int64
}

// NewFloatArray creates a 2-D float array from row slices. All rows must
// have the same length.
func NewFloatArray(rows [][]float64) (*Array, error) {
	if len(rows) == 0 {
		return &Array{kind: KindFloatArray, shape: Shape{0, 0}}, nil
	}
	width := len(rows[0])
	flat := make([]float64, 0, len(rows)*width)
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("ragged array: row %d has length %d, want %d", i, len(row), width)
		}
		flat = append(flat, row...)
	}
	return &Array{
		kind:   KindFloatArray,
		shape:  Shape{len(rows), width},
		floats: flat,
	}, nil
}

// NewFloatVector creates a 1-D float array
func NewFloatVector(values []float64) *Array {
	flat := make([]float64, len(values))
	copy(flat, values)
	return &Array{
		kind:   KindFloatArray,
		shape:  Shape{len(values)},
		floats: flat,
	}
}

// NewIntArray creates a 2-D integer array from row slices. All rows must
// have the same length.
func NewIntArray(rows [][]int64) (*Array, error) {
	if len(rows) == 0 {
		return &Array{kind: KindIntArray, shape: Shape{0, 0}}, nil
	}
	width := len(rows[0])
	flat := make([]int64, 0, len(rows)*width)
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("ragged array: row %d has length %d, want %d", i, len(row), width)
		}
		flat = append(flat, row...)
	}
	return &Array{
		kind:   KindIntArray,
		shape:  Shape{len(rows), width},
		ints:   flat,
	}, nil
}

// FromFloats creates a float array with an explicit, fully-specified shape.
// Used by the codec when materializing a downloaded payload.
func FromFloats(flat []float64, shape Shape) *Array {
	return &Array{kind: KindFloatArray, shape: shape, floats: flat}
}

// FromInts creates an integer array with an explicit, fully-specified shape
func FromInts(flat []int64, shape Shape) *Array {
	return &Array{kind: KindIntArray, shape: shape, ints: flat}
}

// Kind returns the element kind of the array
func (a *Array) Kind() Kind {
	return a.kind
}

// Shape returns the actual shape of the array
func (a *Array) Shape() Shape {
	return a.shape
}

// Len returns the size of the first dimension
func (a *Array) Len() int {
	if len(a.shape) == 0 {
		return 0
	}
	return a.shape[0]
}

// Elems returns the total element count
func (a *Array) Elems() int {
	n, _ := a.shape.Elems()
	return n
}

// Floats returns the flat row-major float values. Callers must treat the
// slice as read-only; mutations bypass field validation and dirty tracking.
func (a *Array) Floats() []float64 {
	return a.floats
}

// Ints returns the flat row-major integer values, read-only as with Floats
func (a *Array) Ints() []int64 {
	return a.ints
}

// FloatRow returns row i of a 2-D float array
func (a *Array) FloatRow(i int) []float64 {
	width := a.shape[1]
	return a.floats[i*width : (i+1)*width]
}

// IntRow returns row i of a 2-D integer array
func (a *Array) IntRow(i int) []int64 {
	width := a.shape[1]
	return a.ints[i*width : (i+1)*width]
}

// Equal reports whether two arrays have the same kind, shape and contents
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind || len(a.shape) != len(b.shape) {
		return false
	}
	for i := range a.shape {
		if a.shape[i] != b.shape[i] {
			return false
		}
	}
	if len(a.floats) != len(b.floats) || len(a.ints) != len(b.ints) {
		return false
	}
	for i := range a.floats {
		if a.floats[i] != b.floats[i] {
			return false
		}
	}
	for i := range a.ints {
		if a.ints[i] != b.ints[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the array
func (a *Array) Clone() *Array {
	if a == nil {
		return nil
	}
	c := &Array{kind: a.kind, shape: append(Shape(nil), a.shape...)}
	if a.floats != nil {
		c.floats = append([]float64(nil), a.floats...)
	}
	if a.ints != nil {
		c.ints = append([]int64(nil), a.ints...)
	}
	return c
}
