package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/pcviz/internal/engine/debug"
	"github.com/Faultbox/pcviz/internal/engine/shader"
	"github.com/Faultbox/pcviz/pkg/math"
	"github.com/Faultbox/pcviz/pkg/pointcloud"
)

// boundsPadding keeps flat boxes visible.
const boundsPadding = 0.01

// boundsOverlay draws bounding-box wireframes from one reusable buffer.
type boundsOverlay struct {
	program *shader.Program
	vao     uint32
	vbo     uint32
}

func newBoundsOverlay() (*boundsOverlay, error) {
	program, err := shader.CompileProgram(lineVertexShader, lineFragmentShader)
	if err != nil {
		return nil, err
	}
	o := &boundsOverlay{program: program}

	gl.GenVertexArrays(1, &o.vao)
	gl.BindVertexArray(o.vao)
	gl.GenBuffers(1, &o.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, debug.BBoxWireframeVertexCount*3*4, nil, gl.DYNAMIC_DRAW)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	return o, nil
}

func (o *boundsOverlay) delete() {
	if o == nil {
		return
	}
	if o.vbo != 0 {
		gl.DeleteBuffers(1, &o.vbo)
	}
	if o.vao != 0 {
		gl.DeleteVertexArrays(1, &o.vao)
	}
	o.program.Delete()
}

// DrawBounds outlines a model-space box transformed by model, using the
// view and projection of the current scene frame.
func (r *Renderer) DrawBounds(b pointcloud.BoundingBox, model math.Mat4, color [3]float32) {
	verts := debug.BoundsWireframe(b, boundsPadding)
	if verts == nil {
		return
	}
	o := r.bounds

	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	o.program.Use()
	o.program.SetMat4("mvp", r.frame.Projection.Mul(r.frame.View).Mul(model))
	o.program.SetVec3("color", color)

	gl.BindVertexArray(o.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*4, unsafe.Pointer(&verts[0]))
	gl.DrawArrays(gl.LINES, 0, debug.BBoxWireframeVertexCount)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}
