package resources

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata3d/strata/pkg/codec"
)

func testMesh(t *testing.T) *Mesh1D {
	t.Helper()
	m := NewMesh1D()
	require.NoError(t, m.SetVertices([][]float64{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}))
	require.NoError(t, m.SetSegments([][]int64{{0, 1}, {1, 2}}))
	return m
}

func TestMesh1D_Counts(t *testing.T) {
	m := testMesh(t)
	assert.Equal(t, 3, m.NodeCount())
	assert.Equal(t, 2, m.CellCount())
	assert.Equal(t, 3*3*4+2*2*4, m.NBytes())
}

func TestMesh1D_SegmentBounds(t *testing.T) {
	tests := []struct {
		name     string
		segments [][]int64
		wantErr  bool
		negative bool
		index    int64
	}{
		{"valid", [][]int64{{0, 1}, {1, 2}}, false, false, 0},
		{"max valid index", [][]int64{{0, 2}}, false, false, 0},
		{"index equal to node count", [][]int64{{0, 3}}, true, false, 3},
		{"index past node count", [][]int64{{0, 5}}, true, false, 5},
		{"negative index", [][]int64{{-1, 1}}, true, true, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMesh1D()
			require.NoError(t, m.SetVertices([][]float64{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}))
			require.NoError(t, m.SetSegments(tt.segments))

			err := m.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var connErr *InvalidConnectivityError
			require.ErrorAs(t, err, &connErr)
			assert.Equal(t, tt.index, connErr.Index)
			assert.Equal(t, tt.negative, connErr.Negative)
			assert.Equal(t, 3, connErr.NodeCount)
		})
	}
}

func TestMesh1D_ValidateRequired(t *testing.T) {
	m := NewMesh1D()
	require.NoError(t, m.SetVertices([][]float64{{0, 0, 0}}))
	assert.Error(t, m.Validate(), "missing segments must fail validation")
}

func TestMesh1D_FileSizeLimit(t *testing.T) {
	limit := FileSizeLimit
	defer func() { FileSizeLimit = limit }()

	m := testMesh(t) // vertices encode to 36 bytes, segments to 16

	FileSizeLimit = 36
	assert.NoError(t, m.Validate())

	FileSizeLimit = 35
	err := m.Validate()
	var tooLarge *codec.PayloadTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, "vertices", tooLarge.Array)
}

func TestMesh1D_DirtyFiles(t *testing.T) {
	m := testMesh(t)

	// after construction every array is dirty
	files, err := m.DirtyFiles(false)
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Contains(t, files, "vertices")
	assert.Contains(t, files, "segments")

	// after a confirmed sync nothing is dirty
	m.MarkSynced()
	files, err = m.DirtyFiles(false)
	require.NoError(t, err)
	assert.Empty(t, files)

	// mutating one field dirties exactly that array
	require.NoError(t, m.SetSegments([][]int64{{0, 2}}))
	files, err = m.DirtyFiles(false)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Contains(t, files, "segments")
}

func TestMesh1D_DirtyFilesValidatesFirst(t *testing.T) {
	m := NewMesh1D()
	require.NoError(t, m.SetVertices([][]float64{{0, 0, 0}}))
	require.NoError(t, m.SetSegments([][]int64{{0, 5}}))

	_, err := m.DirtyFiles(false)
	var connErr *InvalidConnectivityError
	require.ErrorAs(t, err, &connErr)

	// the failed attempt must leave dirty flags untouched
	require.NoError(t, m.SetSegments([][]int64{{0, 0}}))
	files, err := m.DirtyFiles(false)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestMesh1D_ForceIsDeterministic(t *testing.T) {
	m := testMesh(t)
	m.MarkSynced()

	first, err := m.DirtyFiles(true)
	require.NoError(t, err)
	assert.Len(t, first, 2, "force returns all arrays")

	second, err := m.DirtyFiles(true)
	require.NoError(t, err)
	for name := range first {
		assert.True(t, bytes.Equal(first[name], second[name]),
			"%s: repeated force encoding must be byte-identical", name)
	}
}

func TestMesh1D_Bounds(t *testing.T) {
	m := NewMesh1D()
	_, _, ok := m.Bounds()
	assert.False(t, ok, "empty mesh has no bounds")

	require.NoError(t, m.SetVertices([][]float64{{-1, 0, 2}, {3, -4, 0.5}, {0, 2, 1}}))
	min, max, ok := m.Bounds()
	require.True(t, ok)
	assert.Equal(t, [3]float32{-1, -4, 0.5}, min)
	assert.Equal(t, [3]float32{3, 2, 2}, max)
}

func TestMesh1D_Options(t *testing.T) {
	m := NewMesh1D()
	assert.Equal(t, ViewTypeLine, m.Options().ViewType(), "view type defaults to line")

	require.NoError(t, m.Options().SetViewType("boreholes"))
	assert.Equal(t, ViewTypeTube, m.Options().ViewType())

	assert.Error(t, m.Options().SetViewType("wireframe"))
}
