package props

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ShapeMismatchError is returned when an array assigned to a field does not
// satisfy the field's declared shape
type ShapeMismatchError struct {
	Field string
	Want  Shape
	Got   Shape
}

// Error implements the error interface
func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: shape mismatch: want %s, got %s", e.Field, e.Want, e.Got)
}

// KindMismatchError is returned when a value assigned to a field has the
// wrong element kind
type KindMismatchError struct {
	Field string
	Want  Kind
	Got   Kind
}

// Error implements the error interface
func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("%s: kind mismatch: want %s, got %s", e.Field, e.Want, e.Got)
}

// ChoiceError is returned when a choice field is assigned a string that does
// not normalize to any declared tag
type ChoiceError struct {
	Field   string
	Value   string
	Allowed []string
}

// Error implements the error interface
func (e *ChoiceError) Error() string {
	return fmt.Sprintf("%s: invalid choice %q, allowed: %s",
		e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

// RequiredError is returned at validation time when a required field has
// never been assigned
type RequiredError struct {
	Field string
}

// Error implements the error interface
func (e *RequiredError) Error() string {
	return fmt.Sprintf("%s: required field is not set", e.Field)
}

// ValidationErrors collects per-field validation failures for an entity
type ValidationErrors struct {
	Entity string              `json:"entity"`
	Fields map[string][]string `json:"fields"`
}

// NewValidationErrors creates an empty ValidationErrors for an entity type
func NewValidationErrors(entity string) *ValidationErrors {
	return &ValidationErrors{
		Entity: entity,
		Fields: make(map[string][]string),
	}
}

// Add adds a validation error for a specific field
func (ve *ValidationErrors) Add(field, message string) {
	if ve.Fields == nil {
		ve.Fields = make(map[string][]string)
	}
	ve.Fields[field] = append(ve.Fields[field], message)
}

// HasErrors returns true if there are any validation errors
func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Fields) > 0
}

// Count returns the total number of validation errors across all fields
func (ve *ValidationErrors) Count() int {
	count := 0
	for _, messages := range ve.Fields {
		count += len(messages)
	}
	return count
}

// Error implements the error interface
func (ve *ValidationErrors) Error() string {
	if !ve.HasErrors() {
		return fmt.Sprintf("%s: validation failed", ve.Entity)
	}

	var messages []string
	for field, errs := range ve.Fields {
		for _, msg := range errs {
			messages = append(messages, fmt.Sprintf("  - %s: %s", field, msg))
		}
	}

	if len(messages) == 1 {
		return fmt.Sprintf("%s: validation failed: %s",
			ve.Entity, strings.TrimPrefix(messages[0], "  - "))
	}

	return fmt.Sprintf("%s: validation failed:\n%s", ve.Entity, strings.Join(messages, "\n"))
}

// MarshalJSON implements json.Marshaler for custom JSON serialization
func (ve *ValidationErrors) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Error  string              `json:"error"`
		Entity string              `json:"entity"`
		Fields map[string][]string `json:"fields"`
	}{
		Error:  "validation_failed",
		Entity: ve.Entity,
		Fields: ve.Fields,
	})
}
