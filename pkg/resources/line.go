package resources

import (
	"fmt"
	"reflect"

	"github.com/strata3d/strata/pkg/codec"
	"github.com/strata3d/strata/pkg/props"
)

var lineSchema = props.NewSchema("Line",
	&props.FieldSpec{Name: "title", Kind: props.KindString},
	&props.FieldSpec{Name: "description", Kind: props.KindString},
	&props.FieldSpec{Name: "mesh", Kind: props.KindInstance, Required: true, Instance: reflect.TypeOf((*Mesh1D)(nil))},
	&props.FieldSpec{Name: "data", Kind: props.KindList, Instance: reflect.TypeOf((*LineBinder)(nil))},
	&props.FieldSpec{Name: "opts", Kind: props.KindInstance, Instance: reflect.TypeOf((*LineOptions)(nil))},
).WithValidators(validateLineData)

// Line is the composite resource for a 1D line set: a mesh, zero or more
// bound data arrays and display options, synced with the remote store as
// one unit
type Line struct {
	obj *props.Object
	uid string
}

// NewLine creates a line resource with an empty owned mesh and options
func NewLine() *Line {
	l := &Line{obj: props.NewObject(lineSchema)}
	// owned defaults are constructed here, never lazily on access
	if err := l.obj.Set("mesh", NewMesh1D()); err != nil {
		panic(err)
	}
	if err := l.obj.Set("opts", NewLineOptions()); err != nil {
		panic(err)
	}
	l.obj.Set("data", []*LineBinder{})
	return l
}

// UID returns the remote resource id, or "" if the line has never been
// uploaded
func (l *Line) UID() string {
	return l.uid
}

// SetUID records the remote resource id. It is set by the transport layer
// after a successful upload and by the download builder.
func (l *Line) SetUID(uid string) {
	l.uid = uid
}

// SetTitle sets the resource title
func (l *Line) SetTitle(title string) error {
	return l.obj.Set("title", title)
}

// Title returns the resource title
func (l *Line) Title() string {
	return l.obj.GetString("title")
}

// SetDescription sets the resource description
func (l *Line) SetDescription(desc string) error {
	return l.obj.Set("description", desc)
}

// Description returns the resource description
func (l *Line) Description() string {
	return l.obj.GetString("description")
}

// SetMesh replaces the owned mesh
func (l *Line) SetMesh(m *Mesh1D) error {
	if m == nil {
		return fmt.Errorf("mesh must not be nil")
	}
	return l.obj.Set("mesh", m)
}

// Mesh returns the owned mesh
func (l *Line) Mesh() *Mesh1D {
	m, _ := l.obj.Get("mesh").(*Mesh1D)
	return m
}

// AddData appends a data binder to the resource. Length consistency with
// the mesh is checked lazily at validation time, not here.
func (l *Line) AddData(b *LineBinder) error {
	if b == nil {
		return fmt.Errorf("binder must not be nil")
	}
	binders := append(append([]*LineBinder{}, l.Data()...), b)
	return l.obj.Set("data", binders)
}

// Data returns the ordered data binders
func (l *Line) Data() []*LineBinder {
	binders, _ := l.obj.Get("data").([]*LineBinder)
	return binders
}

// Options returns the line display options
func (l *Line) Options() *LineOptions {
	o, _ := l.obj.Get("opts").(*LineOptions)
	return o
}

// NBytes returns the total encoded size of the mesh and every bound data
// array, in bytes
func (l *Line) NBytes() int {
	total := l.Mesh().NBytes()
	for _, b := range l.Data() {
		total += b.Data().NBytes()
	}
	return total
}

// Validate checks the mesh, every binder and the options, then the
// resource-level invariants: every bound data array's length must match the
// mesh count for its location. A failing validator aborts the sync attempt
// and leaves dirty flags untouched.
func (l *Line) Validate() error {
	if err := l.Mesh().Validate(); err != nil {
		return err
	}
	for _, b := range l.Data() {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	if err := l.Options().Validate(); err != nil {
		return err
	}
	return l.obj.Validate()
}

// DirtyFiles returns the encoded bytes of every array in the resource not
// yet confirmed synced, or of every array when force is true, keyed by
// stable per-array identifiers: "mesh/vertices", "mesh/segments",
// "data/<i>/array". It is computed strictly after validation passes.
func (l *Line) DirtyFiles(force bool) (map[string][]byte, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	files := make(map[string][]byte)
	meshFiles, err := l.Mesh().dirtyFiles(force)
	if err != nil {
		return nil, err
	}
	for name, b := range meshFiles {
		files["mesh/"+name] = b
	}
	for i, binder := range l.Data() {
		d := binder.Data()
		if !force && !d.obj.Dirty("array") {
			continue
		}
		arr := d.Array()
		if err := codec.CheckSize(fmt.Sprintf("data/%d/array", i), float32Codec, arr, FileSizeLimit); err != nil {
			return nil, err
		}
		b, err := float32Codec.Encode(arr)
		if err != nil {
			return nil, err
		}
		files[fmt.Sprintf("data/%d/array", i)] = b
	}
	return files, nil
}

// MarkSynced clears the dirty state of every owned entity: the mesh, each
// binder with its data array, the options and the resource itself. The
// transport layer calls it only after the remote write is confirmed, so a
// failed or partial upload leaves the whole dirty-file set intact.
func (l *Line) MarkSynced() {
	l.Mesh().MarkSynced()
	for _, b := range l.Data() {
		b.MarkSynced()
	}
	l.Options().MarkSynced()
	l.obj.MarkSynced()
}

// HasChanges returns true if any owned entity is dirty
func (l *Line) HasChanges() bool {
	if l.obj.HasChanges() || l.Mesh().HasChanges() || l.Options().HasChanges() {
		return true
	}
	for _, b := range l.Data() {
		if b.obj.HasChanges() || b.Data().obj.HasChanges() {
			return true
		}
	}
	return false
}

// validateLineData checks every binder against the mesh: the location tag
// must be recognized and the array length must equal the node count (N) or
// cell count (CC). Every entry is visited before failing; the first
// mismatch found is reported.
func validateLineData(o *props.Object) error {
	mesh, _ := o.Get("mesh").(*Mesh1D)
	binders, _ := o.Get("data").([]*LineBinder)
	if mesh == nil {
		return nil
	}
	var firstErr error
	for i, b := range binders {
		var expected int
		switch b.Location() {
		case LocationNode:
			expected = mesh.NodeCount()
		case LocationCell:
			expected = mesh.CellCount()
		default:
			// Set rejects unrecognized tags, so this only fires on a
			// binder constructed outside the schema path
			if firstErr == nil {
				firstErr = fmt.Errorf("data[%d]: unrecognized location %q", i, b.Location())
			}
			continue
		}
		actual := b.Data().Len()
		if actual != expected && firstErr == nil {
			firstErr = &DataLengthMismatchError{
				Index:    i,
				Location: b.Location(),
				Actual:   actual,
				Expected: expected,
			}
		}
	}
	return firstErr
}
