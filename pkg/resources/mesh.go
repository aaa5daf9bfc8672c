// Package resources defines the Strata resource model: mesh geometry, bound
// data arrays and display options, aggregated into composite resources that
// sync with the remote store as one unit through dirty-tracked partial
// binary uploads.
package resources

import (
	"reflect"

	"github.com/chewxy/math32"

	"github.com/strata3d/strata/pkg/codec"
	"github.com/strata3d/strata/pkg/props"
)

// FileSizeLimit is the per-array encoded size limit applied during pre-sync
// validation
var FileSizeLimit = codec.DefaultFileSizeLimit

var (
	float32Codec = codec.Float32Codec{}
	int32Codec   = codec.Int32Codec{}
)

var mesh1DSchema = props.NewSchema("Mesh1D",
	&props.FieldSpec{Name: "title", Kind: props.KindString},
	&props.FieldSpec{Name: "description", Kind: props.KindString},
	&props.FieldSpec{
		Name:     "vertices",
		Kind:     props.KindFloatArray,
		Shape:    props.Shape{props.Any, 3},
		Required: true,
	},
	&props.FieldSpec{
		Name:     "segments",
		Kind:     props.KindIntArray,
		Shape:    props.Shape{props.Any, 2},
		Required: true,
	},
	&props.FieldSpec{Name: "opts", Kind: props.KindInstance, Instance: reflect.TypeOf((*Mesh1DOptions)(nil))},
).WithValidators(validateSegmentBounds, validateMeshFileSizes)

// Mesh1D holds the spatial information of a 1D line set: vertices in 3-D
// space and segments as pairs of vertex indices
type Mesh1D struct {
	obj *props.Object
}

// NewMesh1D creates an empty line mesh with default options
func NewMesh1D() *Mesh1D {
	m := &Mesh1D{obj: props.NewObject(mesh1DSchema)}
	// default options are constructed here, never lazily on access
	if err := m.obj.Set("opts", NewMesh1DOptions()); err != nil {
		panic(err)
	}
	return m
}

// SetTitle sets the mesh title
func (m *Mesh1D) SetTitle(title string) error {
	return m.obj.Set("title", title)
}

// Title returns the mesh title
func (m *Mesh1D) Title() string {
	return m.obj.GetString("title")
}

// SetDescription sets the mesh description
func (m *Mesh1D) SetDescription(desc string) error {
	return m.obj.Set("description", desc)
}

// Description returns the mesh description
func (m *Mesh1D) Description() string {
	return m.obj.GetString("description")
}

// SetVertices sets the mesh vertices from rows of 3-D points. Shape and
// kind are validated immediately; a row of the wrong width is rejected here,
// not at sync time.
func (m *Mesh1D) SetVertices(rows [][]float64) error {
	arr, err := props.NewFloatArray(rows)
	if err != nil {
		return err
	}
	return m.obj.Set("vertices", arr)
}

// SetVertexArray sets the vertices array directly; used when materializing
// a downloaded payload
func (m *Mesh1D) SetVertexArray(a *props.Array) error {
	return m.obj.Set("vertices", a)
}

// Vertices returns the vertex array, or nil if unset
func (m *Mesh1D) Vertices() *props.Array {
	return m.obj.GetArray("vertices")
}

// SetSegments sets the segment endpoint indices from rows of vertex index
// pairs
func (m *Mesh1D) SetSegments(rows [][]int64) error {
	arr, err := props.NewIntArray(rows)
	if err != nil {
		return err
	}
	return m.obj.Set("segments", arr)
}

// SetSegmentArray sets the segments array directly; used when materializing
// a downloaded payload
func (m *Mesh1D) SetSegmentArray(a *props.Array) error {
	return m.obj.Set("segments", a)
}

// Segments returns the segment array, or nil if unset
func (m *Mesh1D) Segments() *props.Array {
	return m.obj.GetArray("segments")
}

// Options returns the mesh display options
func (m *Mesh1D) Options() *Mesh1DOptions {
	o, _ := m.obj.Get("opts").(*Mesh1DOptions)
	return o
}

// NodeCount returns the number of mesh vertices
func (m *Mesh1D) NodeCount() int {
	arr := m.Vertices()
	if arr == nil {
		return 0
	}
	return arr.Len()
}

// CellCount returns the number of mesh segments
func (m *Mesh1D) CellCount() int {
	arr := m.Segments()
	if arr == nil {
		return 0
	}
	return arr.Len()
}

// NBytes returns the total encoded size of the mesh arrays in bytes
func (m *Mesh1D) NBytes() int {
	total := 0
	if arr := m.Vertices(); arr != nil {
		total += float32Codec.ByteSize(arr)
	}
	if arr := m.Segments(); arr != nil {
		total += int32Codec.ByteSize(arr)
	}
	return total
}

// Bounds returns the axis-aligned bounding box of the vertices at the
// float32 precision of the wire encoding. ok is false for an empty mesh.
func (m *Mesh1D) Bounds() (min, max [3]float32, ok bool) {
	arr := m.Vertices()
	if arr == nil || arr.Len() == 0 {
		return min, max, false
	}
	for axis := 0; axis < 3; axis++ {
		v := float32(arr.FloatRow(0)[axis])
		min[axis], max[axis] = v, v
	}
	for i := 1; i < arr.Len(); i++ {
		row := arr.FloatRow(i)
		for axis := 0; axis < 3; axis++ {
			v := float32(row[axis])
			min[axis] = math32.Min(min[axis], v)
			max[axis] = math32.Max(max[axis], v)
		}
	}
	return min, max, true
}

// Validate checks required fields, segment index bounds and per-array size
// limits. The mesh remains mutable and re-checkable after a failure.
func (m *Mesh1D) Validate() error {
	return m.obj.Validate()
}

// DirtyFiles returns the encoded bytes of every mesh array not yet
// confirmed synced, keyed by array name, or of every array when force is
// true. It is computed strictly after validation passes.
func (m *Mesh1D) DirtyFiles(force bool) (map[string][]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m.dirtyFiles(force)
}

// dirtyFiles encodes without re-validating; callers must have validated
func (m *Mesh1D) dirtyFiles(force bool) (map[string][]byte, error) {
	files := make(map[string][]byte)
	if force || m.obj.Dirty("vertices") {
		b, err := float32Codec.Encode(m.Vertices())
		if err != nil {
			return nil, err
		}
		files["vertices"] = b
	}
	if force || m.obj.Dirty("segments") {
		b, err := int32Codec.Encode(m.Segments())
		if err != nil {
			return nil, err
		}
		files["segments"] = b
	}
	return files, nil
}

// MarkSynced clears the mesh's and its options' dirty state. It must be
// called only after the remote write is confirmed.
func (m *Mesh1D) MarkSynced() {
	m.obj.MarkSynced()
	if o := m.Options(); o != nil {
		o.MarkSynced()
	}
}

// HasChanges returns true if any mesh field or option is dirty
func (m *Mesh1D) HasChanges() bool {
	if m.obj.HasChanges() {
		return true
	}
	o := m.Options()
	return o != nil && o.HasChanges()
}

// validateSegmentBounds checks that every segment index is a non-negative
// integer strictly less than the node count
func validateSegmentBounds(o *props.Object) error {
	segments := o.GetArray("segments")
	vertices := o.GetArray("vertices")
	if segments == nil || vertices == nil {
		return nil
	}
	nodes := vertices.Len()
	for _, idx := range segments.Ints() {
		if idx < 0 {
			return &InvalidConnectivityError{Index: idx, NodeCount: nodes, Negative: true}
		}
		if idx >= int64(nodes) {
			return &InvalidConnectivityError{Index: idx, NodeCount: nodes}
		}
	}
	return nil
}

// validateMeshFileSizes checks each mesh array independently against the
// per-array size limit
func validateMeshFileSizes(o *props.Object) error {
	if arr := o.GetArray("vertices"); arr != nil {
		if err := codec.CheckSize("vertices", float32Codec, arr, FileSizeLimit); err != nil {
			return err
		}
	}
	if arr := o.GetArray("segments"); arr != nil {
		if err := codec.CheckSize("segments", int32Codec, arr, FileSizeLimit); err != nil {
			return err
		}
	}
	return nil
}
