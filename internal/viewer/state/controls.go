// Package state holds the per-frame viewer state: which controls are
// active, the camera and light, and the frame context handed to the scene.
// It has no windowing dependencies.
package state

// Key is a viewer control independent of the keyboard layout.
type Key int

// Viewer controls.
const (
	KeyForward Key = iota
	KeyBackward
	KeyLeft
	KeyRight
	KeyHome
	KeyScreenshot
	KeyQuit
	KeyWireframe
	KeyBounds
	keyCount
)

// Controls accumulates input between two frames.
type Controls struct {
	held    [keyCount]bool
	pressed [keyCount]bool

	// Relative mouse motion in pixels, +Y down.
	MouseDX, MouseDY float32
	// Scroll is the wheel motion, +Y away from the user.
	Scroll float32
	// CloseRequested is set when the window was asked to close.
	CloseRequested bool
}

func (k Key) valid() bool {
	return k >= 0 && k < keyCount
}

// KeyDown marks k as held. The first KeyDown since the last KeyUp also
// marks it as pressed for this frame.
func (c *Controls) KeyDown(k Key) {
	if !k.valid() {
		return
	}
	if !c.held[k] {
		c.pressed[k] = true
	}
	c.held[k] = true
}

// KeyUp marks k as released.
func (c *Controls) KeyUp(k Key) {
	if !k.valid() {
		return
	}
	c.held[k] = false
}

// Held reports whether k is down.
func (c *Controls) Held(k Key) bool {
	return k.valid() && c.held[k]
}

// Pressed reports whether k went down during this frame.
func (c *Controls) Pressed(k Key) bool {
	return k.valid() && c.pressed[k]
}

// MouseMove adds relative mouse motion.
func (c *Controls) MouseMove(dx, dy float32) {
	c.MouseDX += dx
	c.MouseDY += dy
}

// Wheel adds scroll motion.
func (c *Controls) Wheel(dy float32) {
	c.Scroll += dy
}

// EndFrame clears the per-frame edges and deltas. Held keys persist.
func (c *Controls) EndFrame() {
	c.pressed = [keyCount]bool{}
	c.MouseDX, c.MouseDY, c.Scroll = 0, 0, 0
}

// Cooldown rate-limits a held control to one trigger every Frames frames.
type Cooldown struct {
	Frames    int
	remaining int
}

// Tick advances one frame.
func (c *Cooldown) Tick() {
	if c.remaining > 0 {
		c.remaining--
	}
}

// Ready reports whether the control may fire.
func (c *Cooldown) Ready() bool {
	return c.remaining == 0
}

// Trigger starts the cooldown.
func (c *Cooldown) Trigger() {
	c.remaining = c.Frames
}
