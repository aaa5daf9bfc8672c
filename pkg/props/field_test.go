package props

import (
	"errors"
	"reflect"
	"testing"
)

func TestShape_Matches(t *testing.T) {
	tests := []struct {
		name     string
		declared Shape
		actual   Shape
		want     bool
	}{
		{"exact match", Shape{3, 2}, Shape{3, 2}, true},
		{"wildcard first dim", Shape{Any, 3}, Shape{7, 3}, true},
		{"wildcard mismatch fixed dim", Shape{Any, 3}, Shape{7, 2}, false},
		{"rank mismatch", Shape{Any, 3}, Shape{7}, false},
		{"flat wildcard", Shape{Any}, Shape{5}, true},
		{"empty first dim", Shape{Any, 2}, Shape{0, 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.declared.Matches(tt.actual); got != tt.want {
				t.Errorf("%s.Matches(%s) = %v, want %v", tt.declared, tt.actual, got, tt.want)
			}
		})
	}
}

func TestFieldSpec_ValidateArray(t *testing.T) {
	spec := &FieldSpec{
		Name:  "vertices",
		Kind:  KindFloatArray,
		Shape: Shape{Any, 3},
	}

	good, _ := NewFloatArray([][]float64{{0, 0, 0}, {1, 1, 1}})
	if err := spec.Validate(good); err != nil {
		t.Fatalf("Validate(good) = %v, want nil", err)
	}

	// wrong width rejects with a shape mismatch naming the field
	wide, _ := NewFloatArray([][]float64{{0, 0, 0, 0}})
	err := spec.Validate(wide)
	var shapeErr *ShapeMismatchError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("Validate(wide) = %v, want ShapeMismatchError", err)
	}
	if shapeErr.Field != "vertices" {
		t.Errorf("ShapeMismatchError.Field = %q, want vertices", shapeErr.Field)
	}

	// int array rejects with a kind mismatch
	ints, _ := NewIntArray([][]int64{{0, 1, 2}})
	err = spec.Validate(ints)
	var kindErr *KindMismatchError
	if !errors.As(err, &kindErr) {
		t.Fatalf("Validate(ints) = %v, want KindMismatchError", err)
	}

	// non-array value rejects with a kind mismatch
	if err := spec.Validate("nope"); err == nil {
		t.Error("Validate(string) = nil, want KindMismatchError")
	}
}

func TestFieldSpec_Normalize(t *testing.T) {
	spec := &FieldSpec{
		Name: "location",
		Kind: KindChoice,
		Choices: map[string][]string{
			"N":  {"VERTEX", "NODE", "ENDPOINT"},
			"CC": {"LINE", "FACE", "CELLCENTER", "EDGE", "SEGMENT"},
		},
	}

	tests := []struct {
		value   string
		want    string
		wantErr bool
	}{
		{"N", "N", false},
		{"n", "N", false},
		{"VERTEX", "N", false},
		{"vertex", "N", false},
		{"CC", "CC", false},
		{"segment", "CC", false},
		{"CellCenter", "CC", false},
		{"corner", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := spec.Normalize(tt.value)
			if tt.wantErr {
				var choiceErr *ChoiceError
				if !errors.As(err, &choiceErr) {
					t.Fatalf("Normalize(%q) err = %v, want ChoiceError", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q) = %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

type fakeOptions struct{}

func TestFieldSpec_ValidateInstance(t *testing.T) {
	spec := &FieldSpec{
		Name:     "opts",
		Kind:     KindInstance,
		Instance: reflect.TypeOf((*fakeOptions)(nil)),
	}

	if err := spec.Validate(&fakeOptions{}); err != nil {
		t.Fatalf("Validate(*fakeOptions) = %v, want nil", err)
	}

	var kindErr *KindMismatchError
	if err := spec.Validate("not an instance"); !errors.As(err, &kindErr) {
		t.Fatalf("Validate(string) = %v, want KindMismatchError", err)
	}
	if err := spec.Validate(nil); !errors.As(err, &kindErr) {
		t.Fatalf("Validate(nil) = %v, want KindMismatchError", err)
	}
}

func TestFieldSpec_ValidateList(t *testing.T) {
	spec := &FieldSpec{
		Name:     "data",
		Kind:     KindList,
		Instance: reflect.TypeOf((*fakeOptions)(nil)),
	}

	if err := spec.Validate([]*fakeOptions{{}, {}}); err != nil {
		t.Fatalf("Validate(slice) = %v, want nil", err)
	}
	if err := spec.Validate([]*fakeOptions{}); err != nil {
		t.Fatalf("Validate(empty slice) = %v, want nil", err)
	}

	var kindErr *KindMismatchError
	if err := spec.Validate("not a list"); !errors.As(err, &kindErr) {
		t.Fatalf("Validate(string) = %v, want KindMismatchError", err)
	}
	if err := spec.Validate([]string{"wrong element type"}); !errors.As(err, &kindErr) {
		t.Fatalf("Validate([]string) = %v, want KindMismatchError", err)
	}
}

func TestNewFloatArray_Ragged(t *testing.T) {
	_, err := NewFloatArray([][]float64{{0, 0, 0}, {1, 1}})
	if err == nil {
		t.Error("Expected ragged rows to be rejected")
	}
}
