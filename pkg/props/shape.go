package props

import (
	"fmt"
	"strings"
)

// Any is a wildcard dimension: any non-negative size matches.
const Any = -1

// Shape declares the dimensions of an array field. A dimension of Any
// matches any size; fixed dimensions must match exactly.
type Shape []int

// Rank returns the number of dimensions
func (s Shape) Rank() int {
	return len(s)
}

// Matches reports whether an actual, fully-specified shape satisfies the
// declared shape. Ranks must agree and every fixed dimension must match.
func (s Shape) Matches(actual Shape) bool {
	if len(s) != len(actual) {
		return false
	}
	for i, dim := range s {
		if dim == Any {
			continue
		}
		if actual[i] != dim {
			return false
		}
	}
	return true
}

// Elems returns the total element count of a fully-specified shape.
// ok is false if any dimension is a wildcard.
func (s Shape) Elems() (n int, ok bool) {
	n = 1
	for _, dim := range s {
		if dim == Any {
			return 0, false
		}
		n *= dim
	}
	return n, true
}

// FixedElems returns the product of the fixed dimensions, i.e. the number of
// elements per unit of the (single) wildcard dimension. It is used to infer
// the wildcard size when decoding a binary payload.
func (s Shape) FixedElems() int {
	n := 1
	for _, dim := range s {
		if dim == Any {
			continue
		}
		n *= dim
	}
	return n
}

// String returns the shape in the form "(*, 3)"
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, dim := range s {
		if dim == Any {
			parts[i] = "*"
		} else {
			parts[i] = fmt.Sprintf("%d", dim)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
