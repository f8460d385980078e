package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/pcviz/internal/engine/mesh"
	"github.com/Faultbox/pcviz/internal/logger"
)

// Attribute locations shared with the surface shader.
const (
	attribPosition = 0
	attribNormal   = 1
)

// Upload creates a vertex array with one buffer of positions and one of
// normals, both tightly packed xyz.
func (r *Renderer) Upload(positions, normals []float32) (mesh.Handles, error) {
	if len(positions) != len(normals) {
		return mesh.Handles{}, &mesh.DeviceError{
			Op:  "upload",
			Err: fmt.Errorf("%d position floats but %d normal floats", len(positions), len(normals)),
		}
	}
	drainErrors()

	var h mesh.Handles
	gl.GenVertexArrays(1, &h.VAO)
	gl.GenBuffers(1, &h.Positions)
	gl.GenBuffers(1, &h.Normals)
	if h.VAO == 0 || h.Positions == 0 || h.Normals == 0 {
		r.deleteHandles(h)
		return mesh.Handles{}, &mesh.DeviceError{Op: "gen objects", Err: glError(gl.GetError())}
	}

	gl.BindVertexArray(h.VAO)
	bufferAttrib(h.Positions, attribPosition, positions)
	bufferAttrib(h.Normals, attribNormal, normals)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		r.deleteHandles(h)
		return mesh.Handles{}, &mesh.DeviceError{Op: "buffer data", Err: glError(code)}
	}

	r.live++
	logger.Debug("mesh uploaded",
		zap.Uint32("vao", h.VAO),
		zap.Int("vertices", len(positions)/3),
	)
	return h, nil
}

// Release deletes the objects in h.
func (r *Renderer) Release(h mesh.Handles) {
	if h.IsZero() {
		return
	}
	r.deleteHandles(h)
	r.live--
	logger.Debug("mesh released", zap.Uint32("vao", h.VAO))
}

func (r *Renderer) deleteHandles(h mesh.Handles) {
	if h.Positions != 0 {
		gl.DeleteBuffers(1, &h.Positions)
	}
	if h.Normals != 0 {
		gl.DeleteBuffers(1, &h.Normals)
	}
	if h.VAO != 0 {
		gl.DeleteVertexArrays(1, &h.VAO)
	}
}

// bufferAttrib fills vbo with data and binds it to attribute location loc
// of the currently bound vertex array.
func bufferAttrib(vbo, loc uint32, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = unsafe.Pointer(&data[0])
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, ptr, gl.STATIC_DRAW)
	gl.VertexAttribPointer(loc, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(loc)
}

// drainErrors clears stale error flags so the next GetError reflects only
// the calls that follow.
func drainErrors() {
	for i := 0; i < 8; i++ {
		if gl.GetError() == gl.NO_ERROR {
			return
		}
	}
}

func glError(code uint32) error {
	switch code {
	case gl.NO_ERROR:
		return nil
	case gl.OUT_OF_MEMORY:
		return fmt.Errorf("GL_OUT_OF_MEMORY")
	case gl.INVALID_VALUE:
		return fmt.Errorf("GL_INVALID_VALUE")
	case gl.INVALID_OPERATION:
		return fmt.Errorf("GL_INVALID_OPERATION")
	default:
		return fmt.Errorf("GL error 0x%x", code)
	}
}
