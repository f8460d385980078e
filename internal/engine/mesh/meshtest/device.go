// Package meshtest provides an in-memory mesh.Device for tests.
package meshtest

import (
	"github.com/Faultbox/pcviz/internal/engine/mesh"
	"github.com/Faultbox/pcviz/pkg/math"
)

// DrawCall records one Draw invocation.
type DrawCall struct {
	Handles     mesh.Handles
	VertexCount int32
	Model       math.Mat4
	Tint        [3]float32
}

// Device counts allocations instead of talking to a GPU.
type Device struct {
	// FailUpload, when set, is returned by every Upload.
	FailUpload error

	Uploads  int
	Releases int
	Draws    []DrawCall

	// Uploaded holds the position stream of each successful upload.
	Uploaded [][]float32

	next uint32
	live map[mesh.Handles]bool
}

// New returns an empty fake device.
func New() *Device {
	return &Device{live: make(map[mesh.Handles]bool)}
}

// Upload allocates three fresh ids.
func (d *Device) Upload(positions, normals []float32) (mesh.Handles, error) {
	if d.FailUpload != nil {
		return mesh.Handles{}, d.FailUpload
	}
	if d.live == nil {
		d.live = make(map[mesh.Handles]bool)
	}
	d.Uploads++
	h := mesh.Handles{VAO: d.next + 1, Positions: d.next + 2, Normals: d.next + 3}
	d.next += 3
	d.live[h] = true
	d.Uploaded = append(d.Uploaded, append([]float32(nil), positions...))
	return h, nil
}

// Release frees h.
func (d *Device) Release(h mesh.Handles) {
	d.Releases++
	delete(d.live, h)
}

// Draw records the call.
func (d *Device) Draw(h mesh.Handles, vertexCount int32, model math.Mat4, tint [3]float32) {
	d.Draws = append(d.Draws, DrawCall{Handles: h, VertexCount: vertexCount, Model: model, Tint: tint})
}

// Live returns the number of allocations not yet released.
func (d *Device) Live() int {
	return len(d.live)
}

// IsLive reports whether h is allocated.
func (d *Device) IsLive(h mesh.Handles) bool {
	return d.live[h]
}

// LastDraw returns the most recent draw call.
func (d *Device) LastDraw() DrawCall {
	if len(d.Draws) == 0 {
		return DrawCall{}
	}
	return d.Draws[len(d.Draws)-1]
}
