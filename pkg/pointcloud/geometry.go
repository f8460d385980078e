package pointcloud

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/pcviz/pkg/math"
)

// Triangle holds three vertices in traversal (winding) order.
type Triangle [3]math.Vec3

// Normal returns the flat normal of the triangle: the normalized cross
// product of its two edges from vertex 0. Collinear or coincident vertices
// yield the zero vector.
func (t Triangle) Normal() math.Vec3 {
	e1 := t[1].Sub(t[0])
	e2 := t[2].Sub(t[0])
	return e1.Cross(e2).Normalize()
}

// BoundingBox is an axis-aligned box accumulated over emitted vertices.
// It is only meaningful when at least one vertex was added.
type BoundingBox struct {
	XMin, XMax float32
	YMin, YMax float32
	ZMin, ZMax float32
}

// EmptyBoundingBox returns a box with +Inf minimums and -Inf maximums.
func EmptyBoundingBox() BoundingBox {
	inf := float32(gomath.Inf(1))
	return BoundingBox{
		XMin: inf, XMax: -inf,
		YMin: inf, YMax: -inf,
		ZMin: inf, ZMax: -inf,
	}
}

// Valid reports whether the box has been extended at least once.
func (b BoundingBox) Valid() bool {
	return b.XMin <= b.XMax && b.YMin <= b.YMax && b.ZMin <= b.ZMax
}

// ExtendX widens the X range to include x.
func (b *BoundingBox) ExtendX(x float32) {
	if x < b.XMin {
		b.XMin = x
	}
	if x > b.XMax {
		b.XMax = x
	}
}

// ExtendY widens the Y range to include y.
func (b *BoundingBox) ExtendY(y float32) {
	if y < b.YMin {
		b.YMin = y
	}
	if y > b.YMax {
		b.YMax = y
	}
}

// ExtendZ widens the Z range to include z.
func (b *BoundingBox) ExtendZ(z float32) {
	if z < b.ZMin {
		b.ZMin = z
	}
	if z > b.ZMax {
		b.ZMax = z
	}
}

// Extend widens the box to include p.
func (b *BoundingBox) Extend(p math.Vec3) {
	b.ExtendX(p.X)
	b.ExtendY(p.Y)
	b.ExtendZ(p.Z)
}

// Union returns the smallest box containing both b and other.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	if !other.Valid() {
		return b
	}
	if !b.Valid() {
		return other
	}
	b.Extend(math.Vec3{X: other.XMin, Y: other.YMin, Z: other.ZMin})
	b.Extend(math.Vec3{X: other.XMax, Y: other.YMax, Z: other.ZMax})
	return b
}

// Width returns the X extent.
func (b BoundingBox) Width() float32 {
	return absf(b.XMax - b.XMin)
}

// Height returns the Y extent.
func (b BoundingBox) Height() float32 {
	return absf(b.YMax - b.YMin)
}

// Depth returns the Z extent.
func (b BoundingBox) Depth() float32 {
	return absf(b.ZMax - b.ZMin)
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() math.Vec3 {
	return math.Vec3{
		X: (b.XMin + b.XMax) / 2,
		Y: (b.YMin + b.YMax) / 2,
		Z: (b.ZMin + b.ZMax) / 2,
	}
}

// String formats the six fields.
func (b BoundingBox) String() string {
	return fmt.Sprintf("x[%g, %g] y[%g, %g] z[%g, %g]", b.XMin, b.XMax, b.YMin, b.YMax, b.ZMin, b.ZMax)
}

// Geometry is the output of triangulation.
type Geometry struct {
	// Positions holds three vertices per triangle.
	Positions []math.Vec3
	// Normals holds one flat normal per triangle.
	Normals []math.Vec3
	Bounds  BoundingBox
}

// VertexCount returns the number of emitted vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

// TriangleCount returns the number of emitted triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.Positions) / 3
}

// Triangle returns triangle i.
func (g *Geometry) Triangle(i int) Triangle {
	return Triangle{g.Positions[3*i], g.Positions[3*i+1], g.Positions[3*i+2]}
}

// PositionData flattens positions to x,y,z float triples for upload.
func (g *Geometry) PositionData() []float32 {
	data := make([]float32, 0, len(g.Positions)*3)
	for _, p := range g.Positions {
		data = append(data, p.X, p.Y, p.Z)
	}
	return data
}

// NormalData flattens normals for upload, repeating each triangle's flat
// normal for its three vertices so both streams share one attribute index.
func (g *Geometry) NormalData() []float32 {
	data := make([]float32, 0, len(g.Normals)*9)
	for _, n := range g.Normals {
		for k := 0; k < 3; k++ {
			data = append(data, n.X, n.Y, n.Z)
		}
	}
	return data
}

// emit appends a triangle and its normal.
func (g *Geometry) emit(t Triangle) {
	g.Positions = append(g.Positions, t[0], t[1], t[2])
	g.Normals = append(g.Normals, t.Normal())
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
