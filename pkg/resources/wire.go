package resources

import (
	"fmt"

	"github.com/strata3d/strata/pkg/props"
)

// ArrayFetcher retrieves the binary payload behind a remote array
// reference. The transport layer supplies it; builders never perform
// network I/O themselves.
type ArrayFetcher func(ref string) ([]byte, error)

// WireMeshMeta is the wire form of mesh display options
type WireMeshMeta struct {
	ViewType string `json:"view_type,omitempty"`
}

// WireMesh1D is the wire form of a line mesh: remote references for the
// binary arrays plus metadata
type WireMesh1D struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Vertices    string       `json:"vertices"`
	Segments    string       `json:"segments"`
	Meta        WireMeshMeta `json:"meta"`
}

// WireLineMeta is the wire form of line display options
type WireLineMeta struct {
	Color   string   `json:"color,omitempty"`
	Opacity *float64 `json:"opacity,omitempty"`
}

// WireDataBinding is the wire form of one data binding
type WireDataBinding struct {
	Title    string `json:"title,omitempty"`
	Location string `json:"location"`
	Array    string `json:"array"`
}

// WireLine is the wire form of a line resource
type WireLine struct {
	UID         string            `json:"uid,omitempty"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Mesh        WireMesh1D        `json:"mesh"`
	Data        []WireDataBinding `json:"data,omitempty"`
	Meta        WireLineMeta      `json:"meta"`
}

// BuildMesh1D constructs a mesh from its downloaded wire form, delegating
// array materialization to the fetcher and the binary codec. The result
// satisfies the same invariants as a directly-constructed mesh; remote data
// that violates them fails with the same error kinds.
func BuildMesh1D(w WireMesh1D, fetch ArrayFetcher) (*Mesh1D, error) {
	mesh := NewMesh1D()
	if err := mesh.SetTitle(w.Title); err != nil {
		return nil, err
	}
	if err := mesh.SetDescription(w.Description); err != nil {
		return nil, err
	}

	raw, err := fetch(w.Vertices)
	if err != nil {
		return nil, fmt.Errorf("fetch vertices: %w", err)
	}
	vertices, err := float32Codec.Decode(raw, props.Shape{props.Any, 3})
	if err != nil {
		return nil, fmt.Errorf("vertices: %w", err)
	}
	if err := mesh.SetVertexArray(vertices); err != nil {
		return nil, err
	}

	raw, err = fetch(w.Segments)
	if err != nil {
		return nil, fmt.Errorf("fetch segments: %w", err)
	}
	segments, err := int32Codec.Decode(raw, props.Shape{props.Any, 2})
	if err != nil {
		return nil, fmt.Errorf("segments: %w", err)
	}
	if err := mesh.SetSegmentArray(segments); err != nil {
		return nil, err
	}

	if w.Meta.ViewType != "" {
		if err := mesh.Options().SetViewType(w.Meta.ViewType); err != nil {
			return nil, err
		}
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	return mesh, nil
}

// BuildLine constructs a line resource from its downloaded wire form. The
// built resource is validated as a whole before being returned.
func BuildLine(w WireLine, fetch ArrayFetcher) (*Line, error) {
	line := NewLine()
	line.SetUID(w.UID)
	if err := line.SetTitle(w.Title); err != nil {
		return nil, err
	}
	if err := line.SetDescription(w.Description); err != nil {
		return nil, err
	}

	mesh, err := BuildMesh1D(w.Mesh, fetch)
	if err != nil {
		return nil, err
	}
	if err := line.SetMesh(mesh); err != nil {
		return nil, err
	}

	for i, binding := range w.Data {
		raw, err := fetch(binding.Array)
		if err != nil {
			return nil, fmt.Errorf("fetch data[%d]: %w", i, err)
		}
		arr, err := float32Codec.Decode(raw, props.Shape{props.Any})
		if err != nil {
			return nil, fmt.Errorf("data[%d]: %w", i, err)
		}
		data := NewDataArray()
		if binding.Title != "" {
			if err := data.SetTitle(binding.Title); err != nil {
				return nil, err
			}
		}
		if err := data.SetArray(arr); err != nil {
			return nil, err
		}
		binder, err := NewLineBinder(binding.Location, data)
		if err != nil {
			return nil, fmt.Errorf("data[%d]: %w", i, err)
		}
		if err := line.AddData(binder); err != nil {
			return nil, err
		}
	}

	if err := line.Options().applyMeta(w.Meta); err != nil {
		return nil, err
	}

	if err := line.Validate(); err != nil {
		return nil, err
	}
	return line, nil
}

// Metadata returns the resource's wire form without array references; the
// transport layer fills those in from its upload results
func (l *Line) Metadata() WireLine {
	w := WireLine{
		UID:         l.uid,
		Title:       l.Title(),
		Description: l.Description(),
		Mesh: WireMesh1D{
			Title:       l.Mesh().Title(),
			Description: l.Mesh().Description(),
			Meta:        l.Mesh().Options().Meta(),
		},
		Meta:        l.Options().Meta(),
	}
	for _, b := range l.Data() {
		w.Data = append(w.Data, WireDataBinding{
			Title:    b.Data().Title(),
			Location: b.Location(),
		})
	}
	return w
}
