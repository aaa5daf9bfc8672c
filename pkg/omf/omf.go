// Package omf imports line-set geometry from an OMF-style interchange
// representation into the native Strata resource model. Only the subset
// needed for line resources is modeled: a project holding line-set elements
// with vertex/segment arrays, per-element origins and scalar data.
package omf

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/strata3d/strata/pkg/resources"
)

// VertexArray wraps the foreign vertex array
type VertexArray struct {
	Array [][]float64 `json:"array"`
}

// SegmentArray wraps the foreign segment index array
type SegmentArray struct {
	Array [][]int64 `json:"array"`
}

// ScalarData is a named scalar array attached to a foreign geometry
type ScalarData struct {
	Name     string    `json:"name"`
	Location string    `json:"location"` // "vertices" or "segments"
	Array    []float64 `json:"array"`
}

// LineSetGeometry is the foreign line-set geometry: vertices, pairwise
// segment indices and a local coordinate origin
type LineSetGeometry struct {
	Origin   [3]float64   `json:"origin"`
	Vertices VertexArray  `json:"vertices"`
	Segments SegmentArray `json:"segments"`
}

// LineSetElement pairs a foreign geometry with its data
type LineSetElement struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Geometry    LineSetGeometry `json:"geometry"`
	Data        []ScalarData    `json:"data"`
}

// Project is the root of the foreign representation; its origin offsets
// every element
type Project struct {
	Name     string            `json:"name"`
	Origin   [3]float64        `json:"origin"`
	Elements []*LineSetElement `json:"elements"`
}

// LoadProject reads a project from an interchange JSON file
func LoadProject(path string) (*Project, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseProject(raw)
}

// ParseProject parses a project from interchange JSON
func ParseProject(raw []byte) (*Project, error) {
	var p Project
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	return &p, nil
}

// ImportMesh translates a foreign line-set geometry into a native mesh,
// applying the element and project origin offsets to every vertex. Foreign
// data that cannot satisfy the native shape contract, such as non-pairwise
// segments, is rejected with the same errors as a direct assignment.
func ImportMesh(p *Project, g *LineSetGeometry) (*resources.Mesh1D, error) {
	mesh := resources.NewMesh1D()

	vertices := make([][]float64, len(g.Vertices.Array))
	for i, row := range g.Vertices.Array {
		if len(row) != 3 {
			// let the shape contract report the mismatch
			vertices[i] = row
			continue
		}
		vertices[i] = []float64{
			row[0] + g.Origin[0] + p.Origin[0],
			row[1] + g.Origin[1] + p.Origin[1],
			row[2] + g.Origin[2] + p.Origin[2],
		}
	}
	if err := mesh.SetVertices(vertices); err != nil {
		return nil, err
	}
	if err := mesh.SetSegments(g.Segments.Array); err != nil {
		return nil, err
	}
	return mesh, nil
}

// ImportLineSet translates a foreign line-set element into a native line
// resource, mapping per-vertex data to node bindings and per-segment data
// to cell bindings. The result is validated before being returned.
func ImportLineSet(p *Project, e *LineSetElement) (*resources.Line, error) {
	line := resources.NewLine()
	if err := line.SetTitle(e.Name); err != nil {
		return nil, err
	}
	if err := line.SetDescription(e.Description); err != nil {
		return nil, err
	}

	mesh, err := ImportMesh(p, &e.Geometry)
	if err != nil {
		return nil, fmt.Errorf("element %q: %w", e.Name, err)
	}
	if err := line.SetMesh(mesh); err != nil {
		return nil, err
	}

	for _, d := range e.Data {
		var location string
		switch d.Location {
		case "vertices":
			location = resources.LocationNode
		case "segments":
			location = resources.LocationCell
		default:
			return nil, fmt.Errorf("element %q: data %q has unknown location %q",
				e.Name, d.Name, d.Location)
		}
		data := resources.NewDataArray()
		if err := data.SetTitle(d.Name); err != nil {
			return nil, err
		}
		if err := data.SetValues(d.Array); err != nil {
			return nil, err
		}
		binder, err := resources.NewLineBinder(location, data)
		if err != nil {
			return nil, err
		}
		if err := line.AddData(binder); err != nil {
			return nil, err
		}
	}

	if err := line.Validate(); err != nil {
		return nil, fmt.Errorf("element %q: %w", e.Name, err)
	}
	return line, nil
}
