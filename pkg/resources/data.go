package resources

import (
	"reflect"

	"github.com/strata3d/strata/pkg/props"
)

// LocationNode and LocationCell are the canonical data location tags:
// per-vertex and per-segment binding.
const (
	LocationNode = "N"
	LocationCell = "CC"
)

var dataArraySchema = props.NewSchema("DataArray",
	&props.FieldSpec{Name: "title", Kind: props.KindString},
	&props.FieldSpec{
		Name: "order",
		Kind: props.KindChoice,
		Choices: map[string][]string{
			"c": {"c-style", "numpy", "row-major", "row major"},
			"f": {"fortran", "column-major", "column major"},
		},
		Default: "c",
	},
	&props.FieldSpec{
		Name:     "array",
		Kind:     props.KindFloatArray,
		Shape:    props.Shape{props.Any},
		Required: true,
	},
)

// DataArray is a named flat array of scalar values that a binder attaches
// to a mesh
type DataArray struct {
	obj *props.Object
}

// NewDataArray creates an empty data array
func NewDataArray() *DataArray {
	return &DataArray{obj: props.NewObject(dataArraySchema)}
}

// SetTitle sets the data title
func (d *DataArray) SetTitle(title string) error {
	return d.obj.Set("title", title)
}

// Title returns the data title
func (d *DataArray) Title() string {
	return d.obj.GetString("title")
}

// SetValues sets the data values
func (d *DataArray) SetValues(values []float64) error {
	return d.obj.Set("array", props.NewFloatVector(values))
}

// SetArray sets the data array directly; used when materializing a
// downloaded payload
func (d *DataArray) SetArray(a *props.Array) error {
	return d.obj.Set("array", a)
}

// Array returns the data array, or nil if unset
func (d *DataArray) Array() *props.Array {
	return d.obj.GetArray("array")
}

// Len returns the number of data values
func (d *DataArray) Len() int {
	arr := d.Array()
	if arr == nil {
		return 0
	}
	return arr.Len()
}

// NBytes returns the encoded size of the data array in bytes
func (d *DataArray) NBytes() int {
	arr := d.Array()
	if arr == nil {
		return 0
	}
	return float32Codec.ByteSize(arr)
}

// Validate runs the data array schema validation
func (d *DataArray) Validate() error {
	return d.obj.Validate()
}

// MarkSynced clears the data array's dirty state after a confirmed sync
func (d *DataArray) MarkSynced() {
	d.obj.MarkSynced()
}

var lineBinderSchema = props.NewSchema("LineBinder",
	&props.FieldSpec{
		Name:     "location",
		Kind:     props.KindChoice,
		Required: true,
		Choices: map[string][]string{
			LocationNode: {"VERTEX", "NODE", "ENDPOINT"},
			LocationCell: {"LINE", "FACE", "CELLCENTER", "EDGE", "SEGMENT"},
		},
	},
	&props.FieldSpec{Name: "data", Kind: props.KindInstance, Required: true, Instance: reflect.TypeOf((*DataArray)(nil))},
)

// LineBinder attaches a data array to a line mesh at node or cell
// granularity. The owning Line checks that the array length matches the
// mesh count for the location.
type LineBinder struct {
	obj *props.Object
}

// NewLineBinder creates a binder for a location tag. Synonyms such as
// "VERTEX" or "SEGMENT" normalize to the canonical tags. A nil data array
// is replaced by an empty owned one.
func NewLineBinder(location string, data *DataArray) (*LineBinder, error) {
	b := &LineBinder{obj: props.NewObject(lineBinderSchema)}
	if err := b.obj.Set("location", location); err != nil {
		return nil, err
	}
	if data == nil {
		data = NewDataArray()
	}
	if err := b.obj.Set("data", data); err != nil {
		return nil, err
	}
	return b, nil
}

// Location returns the canonical location tag
func (b *LineBinder) Location() string {
	return b.obj.GetString("location")
}

// Data returns the bound data array
func (b *LineBinder) Data() *DataArray {
	d, _ := b.obj.Get("data").(*DataArray)
	return d
}

// Validate runs the binder's schema validation and the bound data's
func (b *LineBinder) Validate() error {
	if err := b.obj.Validate(); err != nil {
		return err
	}
	return b.Data().Validate()
}

// MarkSynced clears the binder's and its data array's dirty state
func (b *LineBinder) MarkSynced() {
	b.obj.MarkSynced()
	if d := b.Data(); d != nil {
		d.MarkSynced()
	}
}
