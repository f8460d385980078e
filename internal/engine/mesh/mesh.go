// Package mesh turns a point-cloud source into a drawable object with a
// GPU lifecycle. A Mesh triangulates its source at most once and uploads
// the result to a Device on demand.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/pcviz/pkg/math"
	"github.com/Faultbox/pcviz/pkg/pointcloud"
)

// ErrDeviceResource is returned when the device cannot allocate buffers.
var ErrDeviceResource = errors.New("device resource allocation failed")

// DeviceError reports a failed device operation. It matches both
// ErrDeviceResource and the device's own error with errors.Is.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("mesh %s: %v", e.Op, ErrDeviceResource)
	}
	return fmt.Sprintf("mesh %s: %v", e.Op, e.Err)
}

// Unwrap returns ErrDeviceResource and the underlying device error.
func (e *DeviceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDeviceResource}
	}
	return []error{ErrDeviceResource, e.Err}
}

// State is the GPU lifecycle state of a Mesh.
type State int

// Mesh states.
const (
	Unbuilt State = iota
	Built
)

func (s State) String() string {
	if s == Built {
		return "built"
	}
	return "unbuilt"
}

// Handles identifies the device objects backing a built mesh: a vertex
// array and one buffer each for positions and normals.
type Handles struct {
	VAO       uint32
	Positions uint32
	Normals   uint32
}

// IsZero reports whether no device object is referenced.
func (h Handles) IsZero() bool {
	return h == Handles{}
}

// Device owns GPU resources. Upload receives flat xyz streams of equal
// length.
type Device interface {
	Upload(positions, normals []float32) (Handles, error)
	Release(h Handles)
	Draw(h Handles, vertexCount int32, model math.Mat4, tint [3]float32)
}

// Mesh is one point cloud placed in the world.
type Mesh struct {
	// Placement. Rotation is in degrees, applied X then Y then Z.
	Position math.Vec3
	Scale    math.Vec3
	Rotation math.Vec3

	// Tint is the RGB surface color.
	Tint [3]float32

	source   pointcloud.Source
	geometry *pointcloud.Geometry
	geomErr  error

	handles     Handles
	vertexCount int32
	state       State
}

// New creates an unbuilt mesh with unit scale and a white tint.
func New(src pointcloud.Source) *Mesh {
	return &Mesh{
		Scale:  math.Vec3{X: 1, Y: 1, Z: 1},
		Tint:   [3]float32{1, 1, 1},
		source: src,
	}
}

// Source returns the point data the mesh was created from.
func (m *Mesh) Source() pointcloud.Source {
	return m.source
}

// Geometry triangulates the source on first call and returns the cached
// result afterwards. A triangulation error is cached as well.
func (m *Mesh) Geometry() (*pointcloud.Geometry, error) {
	if m.geometry == nil && m.geomErr == nil {
		m.geometry, m.geomErr = pointcloud.Triangulate(m.source)
	}
	return m.geometry, m.geomErr
}

// EnsureBuilt uploads the mesh to dev if it is not already built.
// On failure the mesh stays Unbuilt with zero handles and vertex count.
func (m *Mesh) EnsureBuilt(dev Device) error {
	if m.state == Built {
		return nil
	}

	geo, err := m.Geometry()
	if err != nil {
		return err
	}

	h, err := dev.Upload(geo.PositionData(), geo.NormalData())
	if err != nil {
		var derr *DeviceError
		if errors.As(err, &derr) {
			return err
		}
		return &DeviceError{Op: "upload", Err: err}
	}

	m.handles = h
	m.vertexCount = int32(geo.VertexCount())
	m.state = Built
	return nil
}

// Release frees the device objects. It is a no-op on an unbuilt mesh.
// The cached geometry is kept so a later EnsureBuilt does not triangulate
// again.
func (m *Mesh) Release(dev Device) {
	if m.state != Built {
		return
	}
	dev.Release(m.handles)
	m.handles = Handles{}
	m.vertexCount = 0
	m.state = Unbuilt
}

// Draw issues one draw call with the current handles. An unbuilt mesh
// draws zero vertices.
func (m *Mesh) Draw(dev Device) {
	dev.Draw(m.handles, m.vertexCount, m.ModelMatrix(), m.Tint)
}

// ModelMatrix returns T(position) * S(scale) * Rz * Ry * Rx.
func (m *Mesh) ModelMatrix() math.Mat4 {
	return math.Compose(m.Position, m.Scale, m.Rotation)
}

// State returns the lifecycle state.
func (m *Mesh) State() State {
	return m.state
}

// Handles returns the device objects, zero when unbuilt.
func (m *Mesh) Handles() Handles {
	return m.handles
}

// VertexCount returns the number of uploaded vertices, zero when unbuilt.
func (m *Mesh) VertexCount() int32 {
	return m.vertexCount
}

// Bounds returns the model-space bounding box. It is empty until the
// geometry has been computed.
func (m *Mesh) Bounds() pointcloud.BoundingBox {
	if m.geometry == nil {
		return pointcloud.EmptyBoundingBox()
	}
	return m.geometry.Bounds
}

// Width returns the x extent of the bounding box.
func (m *Mesh) Width() float32 { return m.extent(pointcloud.BoundingBox.Width) }

// Height returns the y extent of the bounding box.
func (m *Mesh) Height() float32 { return m.extent(pointcloud.BoundingBox.Height) }

// Depth returns the z extent of the bounding box.
func (m *Mesh) Depth() float32 { return m.extent(pointcloud.BoundingBox.Depth) }

func (m *Mesh) extent(f func(pointcloud.BoundingBox) float32) float32 {
	b := m.Bounds()
	if !b.Valid() {
		return 0
	}
	return f(b)
}

// CopyPlacement copies position, scale, rotation and tint from other.
func (m *Mesh) CopyPlacement(other *Mesh) {
	m.Position = other.Position
	m.Scale = other.Scale
	m.Rotation = other.Rotation
	m.Tint = other.Tint
}

// WorldBounds returns the axis-aligned box enclosing the model-space
// bounds after the model matrix is applied.
func (m *Mesh) WorldBounds() pointcloud.BoundingBox {
	b := m.Bounds()
	if !b.Valid() {
		return b
	}
	model := m.ModelMatrix()
	world := pointcloud.EmptyBoundingBox()
	for _, x := range [2]float32{b.XMin, b.XMax} {
		for _, y := range [2]float32{b.YMin, b.YMax} {
			for _, z := range [2]float32{b.ZMin, b.ZMax} {
				world.Extend(model.TransformVec3(math.Vec3{X: x, Y: y, Z: z}))
			}
		}
	}
	return world
}
