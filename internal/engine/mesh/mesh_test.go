package mesh_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/pcviz/internal/engine/mesh"
	"github.com/Faultbox/pcviz/internal/engine/mesh/meshtest"
	"github.com/Faultbox/pcviz/pkg/math"
	"github.com/Faultbox/pcviz/pkg/pointcloud"
)

func zeroGrid() *pointcloud.GridSamples {
	return pointcloud.NewGridSamples(3, 3)
}

func TestNewDefaults(t *testing.T) {
	m := mesh.New(zeroGrid())

	assert.Equal(t, mesh.Unbuilt, m.State())
	assert.True(t, m.Handles().IsZero())
	assert.Equal(t, int32(0), m.VertexCount())
	assert.Equal(t, math.Vec3{X: 1, Y: 1, Z: 1}, m.Scale)
	assert.Equal(t, [3]float32{1, 1, 1}, m.Tint)
	assert.False(t, m.Bounds().Valid())
	assert.Zero(t, m.Width())
}

func TestEnsureBuiltIdempotent(t *testing.T) {
	dev := meshtest.New()
	m := mesh.New(zeroGrid())

	require.NoError(t, m.EnsureBuilt(dev))
	first := m.Handles()
	require.NoError(t, m.EnsureBuilt(dev))

	assert.Equal(t, mesh.Built, m.State())
	assert.Equal(t, first, m.Handles())
	assert.Equal(t, 1, dev.Uploads)
	assert.Equal(t, 1, dev.Live())
	assert.Equal(t, int32(24), m.VertexCount())
	assert.Len(t, dev.Uploaded[0], 24*3)
}

func TestEnsureBuiltBounds(t *testing.T) {
	m := mesh.New(zeroGrid())
	require.NoError(t, m.EnsureBuilt(meshtest.New()))

	b := m.Bounds()
	assert.Equal(t, pointcloud.BoundingBox{XMin: 0, XMax: 1, YMin: 0, YMax: 1, ZMin: 0, ZMax: 0}, b)
	assert.Equal(t, float32(1), m.Width())
	assert.Equal(t, float32(1), m.Height())
	assert.Equal(t, float32(0), m.Depth())
}

func TestEnsureBuiltUploadFailure(t *testing.T) {
	dev := meshtest.New()
	dev.FailUpload = errors.New("out of memory")
	m := mesh.New(zeroGrid())

	err := m.EnsureBuilt(dev)
	require.Error(t, err)

	var derr *mesh.DeviceError
	assert.ErrorAs(t, err, &derr)
	assert.ErrorIs(t, err, mesh.ErrDeviceResource)
	assert.ErrorIs(t, err, dev.FailUpload)
	assert.Equal(t, mesh.Unbuilt, m.State())
	assert.True(t, m.Handles().IsZero())
	assert.Equal(t, int32(0), m.VertexCount())

	// The device recovers and the next attempt builds.
	dev.FailUpload = nil
	require.NoError(t, m.EnsureBuilt(dev))
	assert.Equal(t, mesh.Built, m.State())
}

func TestEnsureBuiltKeepsDeviceError(t *testing.T) {
	dev := meshtest.New()
	devErr := &mesh.DeviceError{Op: "gen buffers"}
	dev.FailUpload = devErr

	err := mesh.New(zeroGrid()).EnsureBuilt(dev)
	var derr *mesh.DeviceError
	require.ErrorAs(t, err, &derr)
	assert.Same(t, devErr, derr)
	assert.ErrorIs(t, err, mesh.ErrDeviceResource)
}

func TestEnsureBuiltTriangulationError(t *testing.T) {
	dev := meshtest.New()
	m := mesh.New(&pointcloud.RaggedMatrix{Rows: [][]float32{{1, 2, 3}, {1}}})

	err := m.EnsureBuilt(dev)
	assert.ErrorIs(t, err, pointcloud.ErrRaggedRow)
	assert.Equal(t, mesh.Unbuilt, m.State())
	assert.Equal(t, 0, dev.Uploads)
}

func TestReleaseThenDraw(t *testing.T) {
	dev := meshtest.New()
	m := mesh.New(zeroGrid())
	require.NoError(t, m.EnsureBuilt(dev))
	h := m.Handles()

	m.Release(dev)
	assert.Equal(t, mesh.Unbuilt, m.State())
	assert.True(t, m.Handles().IsZero())
	assert.False(t, dev.IsLive(h))

	m.Draw(dev)
	assert.Equal(t, int32(0), dev.LastDraw().VertexCount)
	assert.True(t, dev.LastDraw().Handles.IsZero())
}

func TestReleaseIsSafeWhenUnbuilt(t *testing.T) {
	dev := meshtest.New()
	m := mesh.New(zeroGrid())

	m.Release(dev)
	require.NoError(t, m.EnsureBuilt(dev))
	m.Release(dev)
	m.Release(dev)

	assert.Equal(t, 1, dev.Releases)
	assert.Equal(t, 0, dev.Live())
}

func TestRebuildReusesGeometry(t *testing.T) {
	dev := meshtest.New()
	grid := zeroGrid()
	m := mesh.New(grid)
	require.NoError(t, m.EnsureBuilt(dev))
	m.Release(dev)

	// Source edits after the first build are not picked up.
	grid.Set(0, 0, 5)
	require.NoError(t, m.EnsureBuilt(dev))

	assert.Equal(t, 2, dev.Uploads)
	assert.Equal(t, dev.Uploaded[0], dev.Uploaded[1])
	assert.Equal(t, float32(0), m.Bounds().ZMax)
}

func TestDrawUsesPlacement(t *testing.T) {
	dev := meshtest.New()
	m := mesh.New(zeroGrid())
	m.Position = math.Vec3{X: 0, Y: 0, Z: -20}
	m.Tint = [3]float32{0.5, 0.2, 0.1}
	require.NoError(t, m.EnsureBuilt(dev))

	m.Draw(dev)
	call := dev.LastDraw()
	assert.Equal(t, int32(24), call.VertexCount)
	assert.Equal(t, m.Tint, call.Tint)
	assert.Equal(t, float32(-20), call.Model[14])
	assert.Equal(t, m.Handles(), call.Handles)
}

func TestModelMatrix(t *testing.T) {
	m := mesh.New(zeroGrid())
	m.Position = math.Vec3{X: 1, Y: 2, Z: 3}
	m.Scale = math.Vec3{X: 2, Y: 2, Z: 2}
	m.Rotation = math.Vec3{X: 0, Y: 0, Z: 90}

	p := m.ModelMatrix().TransformVec3(math.Vec3{X: 1, Y: 0, Z: 0})
	assert.InDelta(t, 1, p.X, 1e-5)
	assert.InDelta(t, 4, p.Y, 1e-5)
	assert.InDelta(t, 3, p.Z, 1e-5)
}

func TestCopyPlacement(t *testing.T) {
	a := mesh.New(zeroGrid())
	a.Position = math.Vec3{X: 1}
	a.Rotation = math.Vec3{Y: 45}
	a.Tint = [3]float32{0, 1, 0}

	b := mesh.New(zeroGrid())
	b.CopyPlacement(a)
	assert.Equal(t, a.Position, b.Position)
	assert.Equal(t, a.Rotation, b.Rotation)
	assert.Equal(t, a.Scale, b.Scale)
	assert.Equal(t, a.Tint, b.Tint)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "built", mesh.Built.String())
	assert.Equal(t, "unbuilt", mesh.Unbuilt.String())
}

func TestWorldBounds(t *testing.T) {
	m := mesh.New(zeroGrid())
	assert.False(t, m.WorldBounds().Valid())

	require.NoError(t, m.EnsureBuilt(meshtest.New()))
	m.Position = math.Vec3{X: 10, Y: 0, Z: -5}
	m.Scale = math.Vec3{X: 2, Y: 3, Z: 1}

	b := m.WorldBounds()
	assert.InDelta(t, 10, b.XMin, 1e-5)
	assert.InDelta(t, 12, b.XMax, 1e-5)
	assert.InDelta(t, 0, b.YMin, 1e-5)
	assert.InDelta(t, 3, b.YMax, 1e-5)
	assert.InDelta(t, -5, b.ZMin, 1e-5)
	assert.InDelta(t, -5, b.ZMax, 1e-5)
}
