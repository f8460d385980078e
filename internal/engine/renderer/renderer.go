// Package renderer provides the OpenGL device that draws point-cloud meshes.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/pcviz/internal/engine/mesh"
	"github.com/Faultbox/pcviz/internal/engine/scene"
	"github.com/Faultbox/pcviz/internal/engine/shader"
	"github.com/Faultbox/pcviz/internal/logger"
	"github.com/Faultbox/pcviz/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [4]float32
	Wireframe  bool
	// Ambient is the light level of surfaces facing away from the light
	// and of triangles without a normal.
	Ambient float32
}

// Renderer handles all OpenGL rendering. It implements scene.Device.
type Renderer struct {
	config Config

	surface *shader.Program
	bounds  *boundsOverlay
	frame   scene.Frame

	// live counts uploaded meshes for leak reporting on Close.
	live int
}

var _ scene.Device = (*Renderer)(nil)

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	if cfg.Ambient == 0 {
		cfg.Ambient = 0.15
	}
	r := &Renderer{
		config: cfg,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])

	var err error
	r.surface, err = shader.CompileProgram(surfaceVertexShader, surfaceFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create surface shader: %w", err)
	}
	logger.Debug("shader program created", zap.Uint32("program", r.surface.ID))

	r.bounds, err = newBoundsOverlay()
	if err != nil {
		r.surface.Delete()
		return nil, fmt.Errorf("failed to create bounds overlay: %w", err)
	}

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	return r, nil
}

// Close cleans up renderer resources. Meshes must be released first.
func (r *Renderer) Close() {
	logger.Debug("closing renderer")
	if r.live != 0 {
		logger.Warn("renderer closed with meshes still uploaded", zap.Int("count", r.live))
	}
	r.bounds.delete()
	r.surface.Delete()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// SetWireframe switches between filled and outlined triangles.
func (r *Renderer) SetWireframe(enabled bool) {
	r.config.Wireframe = enabled
}

// Wireframe reports whether triangles are drawn as outlines.
func (r *Renderer) Wireframe() bool {
	return r.config.Wireframe
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}

// BeginScene binds the surface program and sets the per-frame uniforms.
func (r *Renderer) BeginScene(f scene.Frame) {
	r.frame = f
	r.surface.Use()
	r.surface.SetMat4("view", f.View)
	r.surface.SetMat4("projection", f.Projection)
	r.surface.SetVec3("viewPos", f.ViewPos.Array())
	r.surface.SetVec3("lightPos", f.LightPos.Array())
	r.surface.SetFloat("ambient", r.config.Ambient)

	if r.config.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// Draw renders vertexCount vertices of h as triangles. A zero count is a
// valid no-op draw.
func (r *Renderer) Draw(h mesh.Handles, vertexCount int32, model math.Mat4, tint [3]float32) {
	if vertexCount == 0 || h.VAO == 0 {
		return
	}
	r.surface.Use()
	r.surface.SetMat4("model", model)
	r.surface.SetVec3("cloud_color", tint)
	gl.BindVertexArray(h.VAO)
	gl.DrawArrays(gl.TRIANGLES, 0, vertexCount)
	gl.BindVertexArray(0)
}

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	if w <= 0 || h <= 0 {
		return nil, 0, 0
	}
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}
