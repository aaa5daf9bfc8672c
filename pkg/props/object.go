package props

import "fmt"

// Object is a bag of typed field values bound to a schema. It owns the dirty
// state for all of its fields and runs the schema's cross-field validators
// before any serialization. Entity types embed an Object and expose typed
// accessors over it.
type Object struct {
	schema  *Schema
	values  map[string]any
	tracker *Tracker
}

// NewObject creates an empty object for a schema, applying declared choice
// defaults
func NewObject(schema *Schema) *Object {
	o := &Object{
		schema:  schema,
		values:  make(map[string]any),
		tracker: NewTracker(),
	}
	for _, f := range schema.Fields {
		if f.Kind == KindChoice && f.Default != "" {
			o.values[f.Name] = f.Default
			o.tracker.Set(f.Name, f.Default)
		}
	}
	return o
}

// Schema returns the object's schema
func (o *Object) Schema() *Schema {
	return o.schema
}

// Set validates a value against the field's declared kind and shape and, on
// success, stores it and updates the field's dirty state. Choice values are
// stored in canonical form.
func (o *Object) Set(name string, value any) error {
	f := o.schema.Field(name)
	if f == nil {
		return fmt.Errorf("%s: no field %q", o.schema.Entity, name)
	}
	if err := f.Validate(value); err != nil {
		return err
	}
	if f.Kind == KindChoice {
		canonical, err := f.Normalize(value.(string))
		if err != nil {
			return err
		}
		value = canonical
	}
	o.values[name] = value
	o.tracker.Set(name, value)
	return nil
}

// Get returns the current value of a field, or nil if unset
func (o *Object) Get(name string) any {
	return o.values[name]
}

// GetArray returns an array field value, or nil if unset
func (o *Object) GetArray(name string) *Array {
	arr, _ := o.values[name].(*Array)
	return arr
}

// GetString returns a string or choice field value, or "" if unset
func (o *Object) GetString(name string) string {
	s, _ := o.values[name].(string)
	return s
}

// GetScalar returns a scalar field value and whether it is set
func (o *Object) GetScalar(name string) (float64, bool) {
	v, ok := o.values[name].(float64)
	return v, ok
}

// Validate checks that every required field is set, then runs the schema's
// cross-field validators in declaration order. Missing required fields are
// collected across all fields before reporting; a validator failure is
// returned as-is.
func (o *Object) Validate() error {
	missing := NewValidationErrors(o.schema.Entity)
	for _, f := range o.schema.Fields {
		if f.Required && o.values[f.Name] == nil {
			missing.Add(f.Name, (&RequiredError{Field: f.Name}).Error())
		}
	}
	if missing.HasErrors() {
		return missing
	}
	for _, validate := range o.schema.Validators {
		if err := validate(o); err != nil {
			return err
		}
	}
	return nil
}

// Dirty returns true if the named field differs from its last-synced value
func (o *Object) Dirty(name string) bool {
	return o.tracker.Dirty(name)
}

// DirtyFields returns the sorted names of all dirty fields
func (o *Object) DirtyFields() []string {
	return o.tracker.DirtyFields()
}

// HasChanges returns true if any field is dirty
func (o *Object) HasChanges() bool {
	return o.tracker.HasChanges()
}

// MarkSynced snapshots the current values as the synced baseline and clears
// every dirty flag. Callers invoke it only after the remote write is
// confirmed; nested objects are marked by their owning entity.
func (o *Object) MarkSynced() {
	o.tracker.Reset(o.values)
}
