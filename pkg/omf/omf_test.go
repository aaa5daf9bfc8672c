package omf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata3d/strata/pkg/props"
	"github.com/strata3d/strata/pkg/resources"
)

func testProject() *Project {
	return &Project{
		Name:   "site",
		Origin: [3]float64{100, 0, 0},
		Elements: []*LineSetElement{
			{
				Name:        "traverse",
				Description: "survey traverse",
				Geometry: LineSetGeometry{
					Origin: [3]float64{0, 10, 0},
					Vertices: VertexArray{Array: [][]float64{
						{0, 0, 0}, {1, 0, 0}, {2, 0, 0},
					}},
					Segments: SegmentArray{Array: [][]int64{{0, 1}, {1, 2}}},
				},
				Data: []ScalarData{
					{Name: "elevation", Location: "vertices", Array: []float64{5, 6, 7}},
					{Name: "grade", Location: "segments", Array: []float64{0.5, 0.25}},
				},
			},
		},
	}
}

func TestImportLineSet(t *testing.T) {
	p := testProject()
	line, err := ImportLineSet(p, p.Elements[0])
	require.NoError(t, err)

	assert.Equal(t, "traverse", line.Title())
	assert.Equal(t, 3, line.Mesh().NodeCount())
	assert.Equal(t, 2, line.Mesh().CellCount())

	// element and project origins offset every vertex
	assert.Equal(t, []float64{100, 10, 0}, line.Mesh().Vertices().FloatRow(0))
	assert.Equal(t, []float64{102, 10, 0}, line.Mesh().Vertices().FloatRow(2))

	require.Len(t, line.Data(), 2)
	assert.Equal(t, resources.LocationNode, line.Data()[0].Location())
	assert.Equal(t, resources.LocationCell, line.Data()[1].Location())
	assert.Equal(t, "elevation", line.Data()[0].Data().Title())
}

func TestImportLineSet_NonPairwiseSegments(t *testing.T) {
	p := testProject()
	p.Elements[0].Geometry.Segments.Array = [][]int64{{0, 1, 2}}

	_, err := ImportLineSet(p, p.Elements[0])
	var shapeErr *props.ShapeMismatchError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "segments", shapeErr.Field)
}

func TestImportLineSet_UnknownLocation(t *testing.T) {
	p := testProject()
	p.Elements[0].Data[0].Location = "faces"

	_, err := ImportLineSet(p, p.Elements[0])
	assert.Error(t, err)
}

func TestImportLineSet_BadDataLength(t *testing.T) {
	p := testProject()
	p.Elements[0].Data[1].Array = []float64{0.5, 0.25, 0.75}

	_, err := ImportLineSet(p, p.Elements[0])
	var lenErr *resources.DataLengthMismatchError
	require.ErrorAs(t, err, &lenErr)
	assert.Equal(t, 1, lenErr.Index)
}

func TestParseProject(t *testing.T) {
	raw := []byte(`{
		"name": "site",
		"origin": [1, 2, 3],
		"elements": [
			{
				"name": "lines",
				"geometry": {
					"origin": [0, 0, 0],
					"vertices": {"array": [[0, 0, 0], [1, 1, 1]]},
					"segments": {"array": [[0, 1]]}
				}
			}
		]
	}`)

	p, err := ParseProject(raw)
	require.NoError(t, err)
	assert.Equal(t, "site", p.Name)
	assert.Equal(t, [3]float64{1, 2, 3}, p.Origin)
	require.Len(t, p.Elements, 1)

	_, err = ParseProject([]byte(`{not json`))
	assert.Error(t, err)
}

func TestImportMesh_EmptyGeometry(t *testing.T) {
	p := &Project{}
	_, err := ImportMesh(p, &LineSetGeometry{})
	if !errors.As(err, new(*props.ShapeMismatchError)) {
		t.Errorf("ImportMesh(empty) = %v, want ShapeMismatchError", err)
	}
}
