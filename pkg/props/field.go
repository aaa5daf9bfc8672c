package props

import (
	"reflect"
	"sort"
	"strings"
)

// FieldSpec declares a single typed field of an entity schema: its semantic
// kind, shape constraint for array kinds, choice table for choice kinds, and
// whether the field must be set before the entity can sync.
type FieldSpec struct {
	Name     string
	Kind     Kind
	Shape    Shape               // array kinds only
	Required bool
	Choices  map[string][]string // choice kinds: canonical tag -> synonyms
	Default  string              // choice kinds: canonical tag applied at construction
	Instance reflect.Type        // instance kinds: the concrete value type; list kinds: the element type
}

// Validate checks a candidate value against the field's kind and shape
// constraints. Violations are reported immediately at assignment time, never
// deferred to sync.
func (f *FieldSpec) Validate(value any) error {
	switch f.Kind {
	case KindFloatArray, KindIntArray:
		arr, ok := value.(*Array)
		if !ok {
			return &KindMismatchError{Field: f.Name, Want: f.Kind, Got: kindOf(value)}
		}
		if arr.Kind() != f.Kind {
			return &KindMismatchError{Field: f.Name, Want: f.Kind, Got: arr.Kind()}
		}
		if !f.Shape.Matches(arr.Shape()) {
			return &ShapeMismatchError{Field: f.Name, Want: f.Shape, Got: arr.Shape()}
		}
	case KindScalar:
		if _, ok := value.(float64); !ok {
			return &KindMismatchError{Field: f.Name, Want: f.Kind, Got: kindOf(value)}
		}
	case KindString, KindChoice:
		s, ok := value.(string)
		if !ok {
			return &KindMismatchError{Field: f.Name, Want: f.Kind, Got: kindOf(value)}
		}
		if f.Kind == KindChoice {
			if _, err := f.Normalize(s); err != nil {
				return err
			}
		}
	case KindInstance:
		if value == nil {
			return &KindMismatchError{Field: f.Name, Want: f.Kind, Got: KindInstance}
		}
		if f.Instance != nil && reflect.TypeOf(value) != f.Instance {
			return &KindMismatchError{Field: f.Name, Want: f.Kind, Got: kindOf(value)}
		}
	case KindList:
		if value == nil {
			return &KindMismatchError{Field: f.Name, Want: f.Kind, Got: KindInstance}
		}
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice {
			return &KindMismatchError{Field: f.Name, Want: f.Kind, Got: kindOf(value)}
		}
		if f.Instance != nil && rv.Type().Elem() != f.Instance {
			return &KindMismatchError{Field: f.Name, Want: f.Kind, Got: KindInstance}
		}
	}
	return nil
}

// Normalize maps a choice value to its canonical tag. Matching is
// case-insensitive across canonical tags and their declared synonyms.
func (f *FieldSpec) Normalize(value string) (string, error) {
	for tag, synonyms := range f.Choices {
		if strings.EqualFold(value, tag) {
			return tag, nil
		}
		for _, syn := range synonyms {
			if strings.EqualFold(value, syn) {
				return tag, nil
			}
		}
	}
	return "", &ChoiceError{Field: f.Name, Value: value, Allowed: f.allowed()}
}

func (f *FieldSpec) allowed() []string {
	tags := make([]string, 0, len(f.Choices))
	for tag := range f.Choices {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// kindOf reports the kind of an arbitrary value for error messages
func kindOf(value any) Kind {
	switch v := value.(type) {
	case *Array:
		return v.Kind()
	case float64:
		return KindScalar
	case string:
		return KindString
	default:
		return KindInstance
	}
}
