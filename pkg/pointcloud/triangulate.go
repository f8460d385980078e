package pointcloud

import (
	"fmt"

	"github.com/Faultbox/pcviz/pkg/math"
)

// MinFlatPoints is the smallest FlatPoints length that yields triangles.
const MinFlatPoints = 4

// Triangulate converts src into triangles, flat normals and a bounding box.
// Small inputs produce an empty Geometry rather than an error.
func Triangulate(src Source) (*Geometry, error) {
	switch s := src.(type) {
	case *GridSamples:
		return TriangulateGrid(s)
	case *RaggedMatrix:
		return TriangulateRagged(s)
	case *FlatPoints:
		return TriangulateFlat(s), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownSource, src)
	}
}

// depthFunc reads the sample at (row, col).
type depthFunc func(row, col int) float32

// TriangulateGrid triangulates a dense grid.
func TriangulateGrid(g *GridSamples) (*Geometry, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrUnknownSource)
	}
	if g.Rows < 0 || g.Cols < 0 || len(g.Values) < g.Rows*g.Cols {
		return nil, fmt.Errorf("%w: %dx%d grid with %d values", ErrGridSize, g.Rows, g.Cols, len(g.Values))
	}
	return triangulateCells(g.Rows, g.Cols, g.At), nil
}

// TriangulateRagged triangulates a row matrix using the first row's width.
// A row narrower than the first row fails with a *RowWidthError; use
// Truncated first to accept such input.
func TriangulateRagged(m *RaggedMatrix) (*Geometry, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil matrix", ErrUnknownSource)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	at := func(row, col int) float32 { return m.Rows[row][col] }
	return triangulateCells(len(m.Rows), m.Width(), at), nil
}

// triangulateCells walks every cell (i, j) and splits it along the
// (i, j+1)-(i+1, j) diagonal. Vertex x is the row index, y the column and
// z the sampled depth. The box tracks the cell origin indices: y over i,
// x over j.
func triangulateCells(rows, cols int, f depthFunc) *Geometry {
	geo := &Geometry{Bounds: EmptyBoundingBox()}
	if rows < 2 || cols < 2 {
		return geo
	}

	cells := (rows - 1) * (cols - 1)
	geo.Positions = make([]math.Vec3, 0, cells*6)
	geo.Normals = make([]math.Vec3, 0, cells*2)

	for i := 0; i < rows-1; i++ {
		for j := 0; j < cols-1; j++ {
			d1 := f(i, j)
			d2 := f(i, j+1)
			d3 := f(i+1, j)
			d4 := f(i+1, j+1)

			geo.Bounds.ExtendX(float32(j))
			geo.Bounds.ExtendY(float32(i))
			geo.Bounds.ExtendZ(min(d1, d2, d3, d4))
			geo.Bounds.ExtendZ(max(d1, d2, d3, d4))

			x0, x1 := float32(i), float32(i+1)
			y0, y1 := float32(j), float32(j+1)

			geo.emit(Triangle{
				{X: x0, Y: y0, Z: d1},
				{X: x0, Y: y1, Z: d2},
				{X: x1, Y: y0, Z: d3},
			})
			geo.emit(Triangle{
				{X: x0, Y: y1, Z: d2},
				{X: x1, Y: y1, Z: d4},
				{X: x1, Y: y0, Z: d3},
			})
		}
	}

	return geo
}

// TriangulateFlat treats every run of four consecutive points as a virtual
// cell and applies the grid's two-triangle split. Fewer than four points
// yield an empty Geometry.
func TriangulateFlat(p *FlatPoints) *Geometry {
	geo := &Geometry{Bounds: EmptyBoundingBox()}
	if p == nil || len(p.Points) < MinFlatPoints {
		return geo
	}

	pts := p.Points
	windows := len(pts) - 3
	geo.Positions = make([]math.Vec3, 0, windows*6)
	geo.Normals = make([]math.Vec3, 0, windows*2)

	for i := 0; i < windows; i++ {
		p1, p2, p3, p4 := pts[i], pts[i+1], pts[i+2], pts[i+3]

		geo.Bounds.Extend(p1)
		geo.Bounds.Extend(p2)
		geo.Bounds.Extend(p3)
		geo.Bounds.Extend(p4)

		geo.emit(Triangle{p1, p2, p3})
		geo.emit(Triangle{p2, p4, p3})
	}

	return geo
}
