// Package props provides the typed property schema system for Strata
// resources. Each resource type declares a fixed schema of typed fields and
// cross-field validators; field assignment is validated immediately, and a
// per-field tracker records which values have not yet been confirmed written
// to the remote store.
package props

import "fmt"

// Kind represents the semantic type of a field value
type Kind int

const (
	// KindFloatArray is a dense array of floating point values
	KindFloatArray Kind = iota

	// KindIntArray is a dense array of integer values
	KindIntArray

	// KindScalar is a single floating point value
	KindScalar

	// KindString is free-form text
	KindString

	// KindChoice is a string restricted to a declared set of tags
	KindChoice

	// KindInstance is an owned nested property object
	KindInstance

	// KindList is an ordered list of nested property objects
	KindList
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindFloatArray:
		return "float array"
	case KindIntArray:
		return "int array"
	case KindScalar:
		return "scalar"
	case KindString:
		return "string"
	case KindChoice:
		return "choice"
	case KindInstance:
		return "instance"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}
