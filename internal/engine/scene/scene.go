// Package scene holds an ordered set of meshes and draws them once per
// frame. Meshes are built lazily on first draw.
package scene

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/pcviz/internal/engine/mesh"
	"github.com/Faultbox/pcviz/internal/logger"
	"github.com/Faultbox/pcviz/pkg/math"
	"github.com/Faultbox/pcviz/pkg/pointcloud"
)

// ErrIndex is returned for a mesh index outside the scene.
var ErrIndex = errors.New("scene: mesh index out of range")

// Frame is the per-frame context shared by every mesh draw.
type Frame struct {
	View       math.Mat4
	Projection math.Mat4
	ViewPos    math.Vec3
	LightPos   math.Vec3
}

// Device is a mesh.Device that also accepts per-frame uniforms.
type Device interface {
	mesh.Device
	BeginScene(f Frame)
}

// Scene draws its meshes in insertion order. There is no depth sorting.
type Scene struct {
	dev    Device
	meshes []*mesh.Mesh

	// reported remembers the last build error logged per mesh so a mesh
	// that keeps failing does not flood the log every frame.
	reported map[*mesh.Mesh]string
}

// New creates an empty scene drawing through dev.
func New(dev Device) *Scene {
	return &Scene{
		dev:      dev,
		reported: make(map[*mesh.Mesh]string),
	}
}

// Add wraps src in a new unbuilt mesh and appends it.
func (s *Scene) Add(src pointcloud.Source) *mesh.Mesh {
	m := mesh.New(src)
	s.AddMesh(m)
	return m
}

// AddMesh appends m.
func (s *Scene) AddMesh(m *mesh.Mesh) {
	s.meshes = append(s.meshes, m)
}

// Meshes returns the meshes in draw order. The slice must not be modified.
func (s *Scene) Meshes() []*mesh.Mesh {
	return s.meshes
}

// Len returns the number of meshes.
func (s *Scene) Len() int {
	return len(s.meshes)
}

// Replace swaps mesh i for a new unbuilt mesh over src. The old mesh is
// released; placement and tint carry over.
func (s *Scene) Replace(i int, src pointcloud.Source) (*mesh.Mesh, error) {
	m := mesh.New(src)
	if err := s.ReplaceMesh(i, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ReplaceMesh puts m in slot i, releasing the old mesh and copying its
// placement and tint onto m.
func (s *Scene) ReplaceMesh(i int, m *mesh.Mesh) error {
	if i < 0 || i >= len(s.meshes) {
		return fmt.Errorf("%w: %d", ErrIndex, i)
	}
	old := s.meshes[i]
	old.Release(s.dev)
	delete(s.reported, old)

	m.CopyPlacement(old)
	s.meshes[i] = m
	return nil
}

// Remove releases mesh i and drops it from the scene.
func (s *Scene) Remove(i int) error {
	if i < 0 || i >= len(s.meshes) {
		return fmt.Errorf("%w: %d", ErrIndex, i)
	}
	old := s.meshes[i]
	old.Release(s.dev)
	delete(s.reported, old)
	s.meshes = append(s.meshes[:i], s.meshes[i+1:]...)
	return nil
}

// Release frees the device objects of every mesh. Meshes stay in the
// scene and rebuild on the next Draw.
func (s *Scene) Release() {
	for _, m := range s.meshes {
		m.Release(s.dev)
	}
}

// Bounds returns the world-space union of all meshes whose geometry has
// been computed.
func (s *Scene) Bounds() pointcloud.BoundingBox {
	b := pointcloud.EmptyBoundingBox()
	for _, m := range s.meshes {
		if wb := m.WorldBounds(); wb.Valid() {
			b = b.Union(wb)
		}
	}
	return b
}

// Draw builds any unbuilt mesh and draws every mesh in order. A mesh that
// fails to build is logged and still drawn with zero vertices; the other
// meshes are unaffected. The returned error joins all build failures.
func (s *Scene) Draw(f Frame) error {
	s.dev.BeginScene(f)

	var errs []error
	for i, m := range s.meshes {
		if err := m.EnsureBuilt(s.dev); err != nil {
			s.report(i, m, err)
			errs = append(errs, fmt.Errorf("mesh %d: %w", i, err))
		} else if _, ok := s.reported[m]; ok {
			delete(s.reported, m)
			logger.Info("mesh built after earlier failure", zap.Int("index", i))
		}
		m.Draw(s.dev)
	}
	return errors.Join(errs...)
}

func (s *Scene) report(i int, m *mesh.Mesh, err error) {
	msg := err.Error()
	if s.reported[m] == msg {
		return
	}
	s.reported[m] = msg
	logger.Error("failed to build mesh",
		zap.Int("index", i),
		zap.Error(err),
	)
}
