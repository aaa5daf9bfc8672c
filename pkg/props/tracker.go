package props

import (
	"reflect"
	"sort"
)

// Tracker records which fields of an entity differ from the last state
// confirmed written to the remote store. A field assigned before any sync is
// dirty; a field reassigned its synced value (by content, not reference) is
// clean again. Trackers assume cooperative single-owner access to the
// entity; no internal locking is provided.
type Tracker struct {
	synced map[string]any
	dirty  map[string]bool
}

// NewTracker creates a tracker with no synced baseline: every field set on
// it is dirty until Reset is called.
func NewTracker() *Tracker {
	return &Tracker{
		synced: make(map[string]any),
		dirty:  make(map[string]bool),
	}
}

// Set records a field assignment and recomputes that field's dirty state
// against the synced baseline
func (t *Tracker) Set(field string, value any) {
	baseline, synced := t.synced[field]
	if synced && equalValues(baseline, value) {
		delete(t.dirty, field)
		return
	}
	t.dirty[field] = true
}

// Dirty returns true if the field differs from its last-synced value
func (t *Tracker) Dirty(field string) bool {
	return t.dirty[field]
}

// DirtyFields returns the names of all dirty fields, sorted for
// deterministic iteration
func (t *Tracker) DirtyFields() []string {
	fields := make([]string, 0, len(t.dirty))
	for field := range t.dirty {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// HasChanges returns true if any field is dirty
func (t *Tracker) HasChanges() bool {
	return len(t.dirty) > 0
}

// Reset snapshots the current values as the new synced baseline and clears
// every dirty flag. It must be called only after a confirmed successful
// sync; a failed or cancelled sync leaves the tracker untouched.
func (t *Tracker) Reset(current map[string]any) {
	t.synced = make(map[string]any, len(current))
	for field, value := range current {
		t.synced[field] = cloneValue(value)
	}
	t.dirty = make(map[string]bool)
}

// equalValues compares by content: arrays by kind, shape and elements,
// everything else via reflect.DeepEqual.
func equalValues(a, b any) bool {
	if arrA, ok := a.(*Array); ok {
		arrB, ok := b.(*Array)
		return ok && arrA.Equal(arrB)
	}
	return reflect.DeepEqual(a, b)
}

// cloneValue deep-copies arrays so later in-place mutation of a value cannot
// silently rewrite the synced baseline. Nested objects carry their own
// trackers and are snapshotted by pointer.
func cloneValue(value any) any {
	if arr, ok := value.(*Array); ok {
		return arr.Clone()
	}
	return value
}
