package pointcloud

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/pcviz/pkg/math"
)

const normalTol = 1e-5

// checkNormals asserts every normal is either unit length or exactly zero.
func checkNormals(t *testing.T, geo *Geometry) {
	t.Helper()
	require.Len(t, geo.Normals, geo.TriangleCount())
	for i, n := range geo.Normals {
		require.True(t, n.IsFinite(), "normal %d is not finite: %v", i, n)
		if n.IsZero() {
			continue
		}
		assert.InDelta(t, 1.0, n.Length(), normalTol, "normal %d not unit length: %v", i, n)
	}
}

func checkBounds(t *testing.T, geo *Geometry) {
	t.Helper()
	if geo.VertexCount() == 0 {
		return
	}
	b := geo.Bounds
	assert.LessOrEqual(t, b.XMin, b.XMax)
	assert.LessOrEqual(t, b.YMin, b.YMax)
	assert.LessOrEqual(t, b.ZMin, b.ZMax)
}

func rampGrid(rows, cols int) *GridSamples {
	g := NewGridSamples(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			g.Set(i, j, float32(i*j)*0.5-float32(j))
		}
	}
	return g
}

func TestTriangulateGridCounts(t *testing.T) {
	tests := []struct {
		rows, cols int
	}{
		{2, 2},
		{3, 3},
		{4, 7},
		{10, 2},
		{1, 5},
		{5, 1},
		{0, 0},
	}

	for _, tt := range tests {
		g := rampGrid(tt.rows, tt.cols)
		geo, err := Triangulate(g)
		require.NoError(t, err)

		cells := 0
		if tt.rows >= 2 && tt.cols >= 2 {
			cells = (tt.rows - 1) * (tt.cols - 1)
		}
		assert.Equal(t, 2*cells, geo.TriangleCount(), "%dx%d triangles", tt.rows, tt.cols)
		assert.Equal(t, 6*cells, geo.VertexCount(), "%dx%d vertices", tt.rows, tt.cols)
		checkNormals(t, geo)
		checkBounds(t, geo)
	}
}

func TestTriangulateGridFlatZero(t *testing.T) {
	geo, err := Triangulate(NewGridSamples(3, 3))
	require.NoError(t, err)

	assert.Equal(t, 24, geo.VertexCount())
	assert.Equal(t, BoundingBox{XMin: 0, XMax: 1, YMin: 0, YMax: 1, ZMin: 0, ZMax: 0}, geo.Bounds)

	// A flat sheet: every normal points along -Z with this winding.
	for _, n := range geo.Normals {
		assert.Equal(t, math.Vec3{Z: -1}, n)
	}
}

func TestTriangulateGridSplit(t *testing.T) {
	g := NewGridSamples(2, 2)
	g.Set(0, 0, 1)
	g.Set(0, 1, 2)
	g.Set(1, 0, 3)
	g.Set(1, 1, 4)

	geo, err := TriangulateGrid(g)
	require.NoError(t, err)
	require.Equal(t, 2, geo.TriangleCount())

	assert.Equal(t, Triangle{{X: 0, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 2}, {X: 1, Y: 0, Z: 3}}, geo.Triangle(0))
	assert.Equal(t, Triangle{{X: 0, Y: 1, Z: 2}, {X: 1, Y: 1, Z: 4}, {X: 1, Y: 0, Z: 3}}, geo.Triangle(1))
	assert.Equal(t, float32(1), geo.Bounds.ZMin)
	assert.Equal(t, float32(4), geo.Bounds.ZMax)
}

func TestTriangulateGridShortValues(t *testing.T) {
	_, err := Triangulate(&GridSamples{Rows: 3, Cols: 3, Values: make([]float32, 8)})
	assert.ErrorIs(t, err, ErrGridSize)
}

func TestTriangulateRagged(t *testing.T) {
	m := &RaggedMatrix{Rows: [][]float32{
		{0, 1, 2},
		{1, 2, 3},
		{2, 3, 4},
	}}

	geo, err := Triangulate(m)
	require.NoError(t, err)
	assert.Equal(t, 8, geo.TriangleCount())
	assert.Equal(t, float32(0), geo.Bounds.ZMin)
	assert.Equal(t, float32(4), geo.Bounds.ZMax)
	checkNormals(t, geo)
}

func TestTriangulateRaggedMatchesGrid(t *testing.T) {
	g := rampGrid(4, 5)
	m := &RaggedMatrix{}
	for i := 0; i < g.Rows; i++ {
		m.Rows = append(m.Rows, g.Values[i*g.Cols:(i+1)*g.Cols])
	}

	fromGrid, err := Triangulate(g)
	require.NoError(t, err)
	fromRagged, err := Triangulate(m)
	require.NoError(t, err)

	assert.Equal(t, fromGrid.Positions, fromRagged.Positions)
	assert.Equal(t, fromGrid.Normals, fromRagged.Normals)
	assert.Equal(t, fromGrid.Bounds, fromRagged.Bounds)
}

func TestTriangulateRaggedShortRow(t *testing.T) {
	m := &RaggedMatrix{Rows: [][]float32{
		{0, 1, 2},
		{1, 2},
		{2, 3, 4},
	}}

	_, err := Triangulate(m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRaggedRow)

	var rowErr *RowWidthError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 1, rowErr.Row)
	assert.Equal(t, 2, rowErr.Got)
	assert.Equal(t, 3, rowErr.Width)
}

func TestTriangulateRaggedTruncated(t *testing.T) {
	m := &RaggedMatrix{Rows: [][]float32{
		{0, 1, 2, 9},
		{1, 2},
		{2, 3, 4},
	}}

	tm := m.Truncated()
	assert.Equal(t, 2, tm.Width())
	assert.Len(t, m.Rows[0], 4, "original must not be modified")

	geo, err := Triangulate(tm)
	require.NoError(t, err)
	assert.Equal(t, 4, geo.TriangleCount())
}

func TestTriangulateRaggedLongerRows(t *testing.T) {
	m := &RaggedMatrix{Rows: [][]float32{
		{0, 0},
		{0, 0, 7, 7},
	}}

	geo, err := Triangulate(m)
	require.NoError(t, err)
	assert.Equal(t, 2, geo.TriangleCount())
	assert.Equal(t, float32(0), geo.Bounds.ZMax, "extra values beyond row 0 width are ignored")
}

func TestTriangulateFlatCounts(t *testing.T) {
	for n := 0; n <= 12; n++ {
		pts := make([]math.Vec3, n)
		for i := range pts {
			pts[i] = math.Vec3{X: float32(i % 3), Y: float32(i / 3), Z: float32(i) * 0.1}
		}

		geo, err := Triangulate(&FlatPoints{Points: pts})
		require.NoError(t, err)

		want := 0
		if n >= MinFlatPoints {
			want = 2 * (n - 3)
		}
		assert.Equal(t, want, geo.TriangleCount(), "n=%d", n)
		assert.Equal(t, 3*want, geo.VertexCount(), "n=%d", n)
		checkNormals(t, geo)
		checkBounds(t, geo)
	}
}

func TestTriangulateFlatFour(t *testing.T) {
	pts := []math.Vec3{
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 1, Z: 2},
		{X: 1, Y: 0, Z: -3},
		{X: 1, Y: 1, Z: 4},
	}

	geo, err := Triangulate(&FlatPoints{Points: pts})
	require.NoError(t, err)
	require.Equal(t, 2, geo.TriangleCount())
	assert.Equal(t, 6, geo.VertexCount())

	assert.Equal(t, Triangle{pts[0], pts[1], pts[2]}, geo.Triangle(0))
	assert.Equal(t, Triangle{pts[1], pts[3], pts[2]}, geo.Triangle(1))
	assert.Equal(t, BoundingBox{XMin: 0, XMax: 1, YMin: 0, YMax: 1, ZMin: -3, ZMax: 4}, geo.Bounds)
}

func TestTriangulateFlatTooFew(t *testing.T) {
	geo, err := Triangulate(&FlatPoints{Points: make([]math.Vec3, 3)})
	require.NoError(t, err)
	assert.Zero(t, geo.VertexCount())
	assert.False(t, geo.Bounds.Valid())
	assert.True(t, gomath.IsInf(float64(geo.Bounds.XMin), 1))
	assert.True(t, gomath.IsInf(float64(geo.Bounds.XMax), -1))
}

func TestTriangulateDegenerate(t *testing.T) {
	// Collinear and coincident points.
	pts := []math.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 1},
		{X: 2, Y: 2, Z: 2},
		{X: 2, Y: 2, Z: 2},
	}

	geo, err := Triangulate(&FlatPoints{Points: pts})
	require.NoError(t, err)
	require.Equal(t, 2, geo.TriangleCount())
	for _, n := range geo.Normals {
		assert.Equal(t, math.Vec3{}, n)
	}
}

func TestTriangulateNonFiniteDepth(t *testing.T) {
	g := NewGridSamples(2, 2)
	g.Set(1, 1, float32(gomath.Inf(1)))

	geo, err := Triangulate(g)
	require.NoError(t, err)
	checkNormals(t, geo)
}

func TestTriangulateUnknownSource(t *testing.T) {
	_, err := Triangulate(nil)
	assert.ErrorIs(t, err, ErrUnknownSource)

	_, err = Triangulate((*GridSamples)(nil))
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestGeometryUploadData(t *testing.T) {
	geo, err := Triangulate(rampGrid(3, 4))
	require.NoError(t, err)

	pos := geo.PositionData()
	nrm := geo.NormalData()
	assert.Len(t, pos, geo.VertexCount()*3)
	assert.Len(t, nrm, len(pos), "one normal per vertex after expansion")

	// Each triangle's three vertices share its flat normal.
	for tri := 0; tri < geo.TriangleCount(); tri++ {
		n := geo.Normals[tri]
		for k := 0; k < 3; k++ {
			off := (tri*3 + k) * 3
			assert.Equal(t, []float32{n.X, n.Y, n.Z}, nrm[off:off+3])
		}
	}
}
