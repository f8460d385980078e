package state

import (
	"github.com/Faultbox/pcviz/internal/engine/camera"
	"github.com/Faultbox/pcviz/internal/engine/scene"
	"github.com/Faultbox/pcviz/pkg/math"
)

// ScreenshotCooldown is the number of frames between two screenshots
// while the screenshot key is held.
const ScreenshotCooldown = 50

// Actions are the one-shot requests produced by a frame's input.
type Actions struct {
	Quit            bool
	Screenshot      bool
	ToggleWireframe bool
	ToggleBounds    bool
}

// Context is the explicit per-frame state of the viewer.
type Context struct {
	Camera *camera.FlyCamera
	Light  math.Vec3

	Width, Height int
	Near, Far     float32

	screenshot Cooldown
}

// NewContext creates a frame context for a viewport of width x height.
func NewContext(cam *camera.FlyCamera, light math.Vec3, width, height int, near, far float32) *Context {
	return &Context{
		Camera:     cam,
		Light:      light,
		Width:      width,
		Height:     height,
		Near:       near,
		Far:        far,
		screenshot: Cooldown{Frames: ScreenshotCooldown},
	}
}

// Resize updates the viewport size.
func (c *Context) Resize(width, height int) {
	c.Width = width
	c.Height = height
}

// Aspect returns width/height, or 1 for a degenerate viewport.
func (c *Context) Aspect() float32 {
	if c.Width <= 0 || c.Height <= 0 {
		return 1
	}
	return float32(c.Width) / float32(c.Height)
}

// Frame returns the uniforms for the current camera and light.
func (c *Context) Frame() scene.Frame {
	return scene.Frame{
		View:       c.Camera.ViewMatrix(),
		Projection: c.Camera.ProjectionMatrix(c.Aspect(), c.Near, c.Far),
		ViewPos:    c.Camera.Position,
		LightPos:   c.Light,
	}
}

// Update applies one frame of input with dt seconds elapsed and returns
// the requested actions. Controls are not cleared; call EndFrame after.
func (c *Context) Update(ctrl *Controls, dt float32) Actions {
	c.screenshot.Tick()

	var act Actions
	if ctrl.CloseRequested || ctrl.Held(KeyQuit) {
		act.Quit = true
		return act
	}

	if ctrl.Pressed(KeyHome) {
		c.Camera.Reset()
	}
	if ctrl.Held(KeyScreenshot) && c.screenshot.Ready() {
		act.Screenshot = true
		c.screenshot.Trigger()
	}
	act.ToggleWireframe = ctrl.Pressed(KeyWireframe)
	act.ToggleBounds = ctrl.Pressed(KeyBounds)

	moves := [...]struct {
		key Key
		dir camera.Movement
	}{
		{KeyForward, camera.Forward},
		{KeyBackward, camera.Backward},
		{KeyLeft, camera.Left},
		{KeyRight, camera.Right},
	}
	for _, m := range moves {
		if ctrl.Held(m.key) {
			c.Camera.Move(m.dir, dt)
		}
	}

	if ctrl.MouseDX != 0 || ctrl.MouseDY != 0 {
		// Screen Y grows downward; moving the mouse up looks up.
		c.Camera.Look(ctrl.MouseDX, -ctrl.MouseDY)
	}
	if ctrl.Scroll != 0 {
		c.Camera.Scroll(ctrl.Scroll)
	}

	return act
}
