package props

import "fmt"

// Validator is a cross-field validator run against an entity before any
// serialization. A failing validator aborts the operation; dirty flags are
// left untouched.
type Validator func(o *Object) error

// Schema is the fixed, compile-time declared field list and validator
// sequence for one entity type. Schemas are shared between all instances of
// the type and must not be mutated after definition.
type Schema struct {
	Entity     string
	Fields     []*FieldSpec
	Validators []Validator

	byName map[string]*FieldSpec
}

// NewSchema creates a schema for an entity type. Field names must be unique.
func NewSchema(entity string, fields ...*FieldSpec) *Schema {
	s := &Schema{
		Entity: entity,
		Fields: fields,
		byName: make(map[string]*FieldSpec, len(fields)),
	}
	for _, f := range fields {
		if _, dup := s.byName[f.Name]; dup {
			panic(fmt.Sprintf("schema %s: duplicate field %q", entity, f.Name))
		}
		s.byName[f.Name] = f
	}
	return s
}

// WithValidators returns the schema with its validator sequence set.
// Validators run in declaration order.
func (s *Schema) WithValidators(validators ...Validator) *Schema {
	s.Validators = validators
	return s
}

// Field returns the spec for a field name, or nil if undeclared
func (s *Schema) Field(name string) *FieldSpec {
	return s.byName[name]
}
