package props

import (
	"testing"
)

func TestNewTracker(t *testing.T) {
	tr := NewTracker()

	if tr.HasChanges() {
		t.Error("Expected new tracker to have no changes")
	}

	// A field set before any sync is dirty
	tr.Set("title", "Borehole A")
	if !tr.Dirty("title") {
		t.Error("Expected title to be dirty before first sync")
	}
}

func TestTracker_Set(t *testing.T) {
	arr, _ := NewFloatArray([][]float64{{0, 0, 0}, {1, 0, 0}})
	same, _ := NewFloatArray([][]float64{{0, 0, 0}, {1, 0, 0}})
	other, _ := NewFloatArray([][]float64{{0, 0, 0}, {2, 0, 0}})

	tests := []struct {
		name   string
		synced map[string]any
		field  string
		value  any
		want   bool
	}{
		{
			name:   "never synced field",
			synced: nil,
			field:  "vertices",
			value:  arr,
			want:   true,
		},
		{
			name:   "equal content array",
			synced: map[string]any{"vertices": arr},
			field:  "vertices",
			value:  same,
			want:   false,
		},
		{
			name:   "changed array",
			synced: map[string]any{"vertices": arr},
			field:  "vertices",
			value:  other,
			want:   true,
		},
		{
			name:   "equal string",
			synced: map[string]any{"title": "A"},
			field:  "title",
			value:  "A",
			want:   false,
		},
		{
			name:   "changed string",
			synced: map[string]any{"title": "A"},
			field:  "title",
			value:  "B",
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker()
			if tt.synced != nil {
				tr.Reset(tt.synced)
			}
			tr.Set(tt.field, tt.value)
			if got := tr.Dirty(tt.field); got != tt.want {
				t.Errorf("Dirty(%q) = %v, want %v", tt.field, got, tt.want)
			}
		})
	}
}

func TestTracker_RevertClearsDirty(t *testing.T) {
	tr := NewTracker()
	tr.Set("title", "A")
	tr.Reset(map[string]any{"title": "A"})

	tr.Set("title", "B")
	if !tr.Dirty("title") {
		t.Fatal("Expected title to be dirty after change")
	}

	// Reverting to the synced value clears the flag: comparison is by
	// content, not by assignment history
	tr.Set("title", "A")
	if tr.Dirty("title") {
		t.Error("Expected title to be clean after revert")
	}
}

func TestTracker_Reset(t *testing.T) {
	tr := NewTracker()
	tr.Set("vertices", NewFloatVector([]float64{1, 2, 3}))
	tr.Set("title", "A")

	if got := len(tr.DirtyFields()); got != 2 {
		t.Fatalf("Expected 2 dirty fields, got %d", got)
	}

	tr.Reset(map[string]any{
		"vertices": NewFloatVector([]float64{1, 2, 3}),
		"title":    "A",
	})

	if tr.HasChanges() {
		t.Error("Expected no changes after Reset")
	}
	if len(tr.DirtyFields()) != 0 {
		t.Error("Expected no dirty fields after Reset")
	}
}

func TestTracker_ResetSnapshotsArrays(t *testing.T) {
	arr := NewFloatVector([]float64{1, 2, 3})
	tr := NewTracker()
	tr.Reset(map[string]any{"array": arr})

	// mutating the original must not rewrite the synced baseline
	arr.Floats()[0] = 99

	fresh := NewFloatVector([]float64{1, 2, 3})
	tr.Set("array", fresh)
	if tr.Dirty("array") {
		t.Error("Expected baseline to be an independent snapshot")
	}
}

func TestTracker_DirtyFieldsSorted(t *testing.T) {
	tr := NewTracker()
	tr.Set("segments", "x")
	tr.Set("description", "y")
	tr.Set("vertices", "z")

	fields := tr.DirtyFields()
	want := []string{"description", "segments", "vertices"}
	for i, field := range want {
		if fields[i] != field {
			t.Fatalf("DirtyFields() = %v, want %v", fields, want)
		}
	}
}
