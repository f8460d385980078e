// Package camera provides the fly camera used to inspect point clouds.
package camera

import (
	gomath "math"

	"github.com/Faultbox/pcviz/pkg/math"
	"github.com/Faultbox/pcviz/pkg/pointcloud"
)

// Movement is a keyboard movement direction.
type Movement int

// Movement directions.
const (
	Forward Movement = iota
	Backward
	Left
	Right
)

// Zoom and pitch limits, in degrees.
const (
	MinZoom  = 1.0
	MaxPitch = 89.0
)

// FlyCamera is a free-flying Euler-angle camera. Yaw -90 looks down -Z.
type FlyCamera struct {
	Position math.Vec3
	Yaw      float32 // degrees
	Pitch    float32 // degrees
	Zoom     float32 // vertical field of view, degrees

	MoveSpeed        float32 // world units per second
	MouseSensitivity float32 // degrees per pixel
	MaxZoom          float32

	worldUp math.Vec3
	front   math.Vec3
	right   math.Vec3
	up      math.Vec3

	home FlyState
}

// FlyState is the part of the camera that Reset restores.
type FlyState struct {
	Position math.Vec3
	Yaw      float32
	Pitch    float32
	Zoom     float32
}

// NewFlyCamera creates a camera at position looking along yaw and pitch.
// The initial state is remembered for Reset.
func NewFlyCamera(position math.Vec3, yaw, pitch float32) *FlyCamera {
	c := &FlyCamera{
		Position:         position,
		Yaw:              yaw,
		Pitch:            clampf(pitch, -MaxPitch, MaxPitch),
		Zoom:             45,
		MoveSpeed:        2.5,
		MouseSensitivity: 0.1,
		MaxZoom:          45,
		worldUp:          math.Vec3{X: 0, Y: 1, Z: 0},
	}
	c.updateVectors()
	c.MarkHome()
	return c
}

// MarkHome records the current state as the Reset target.
func (c *FlyCamera) MarkHome() {
	c.home = FlyState{Position: c.Position, Yaw: c.Yaw, Pitch: c.Pitch, Zoom: c.Zoom}
}

// Reset returns to the state recorded by MarkHome.
func (c *FlyCamera) Reset() {
	c.Position = c.home.Position
	c.Yaw = c.home.Yaw
	c.Pitch = c.home.Pitch
	c.Zoom = c.home.Zoom
	c.updateVectors()
}

// Front returns the unit view direction.
func (c *FlyCamera) Front() math.Vec3 { return c.front }

// Right returns the unit right vector.
func (c *FlyCamera) Right() math.Vec3 { return c.right }

// Up returns the unit up vector.
func (c *FlyCamera) Up() math.Vec3 { return c.up }

// ViewMatrix returns the view matrix for this camera.
func (c *FlyCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Position.Add(c.front), c.up)
}

// ProjectionMatrix returns a perspective projection using Zoom as the
// vertical field of view.
func (c *FlyCamera) ProjectionMatrix(aspect, near, far float32) math.Mat4 {
	return math.Perspective(math.Radians(c.Zoom), aspect, near, far)
}

// Move translates the camera along dir for dt seconds.
func (c *FlyCamera) Move(dir Movement, dt float32) {
	velocity := c.MoveSpeed * dt
	switch dir {
	case Forward:
		c.Position = c.Position.Add(c.front.Scale(velocity))
	case Backward:
		c.Position = c.Position.Sub(c.front.Scale(velocity))
	case Left:
		c.Position = c.Position.Sub(c.right.Scale(velocity))
	case Right:
		c.Position = c.Position.Add(c.right.Scale(velocity))
	}
}

// Look turns the camera by a mouse offset in pixels. Positive dy looks up.
// Pitch is clamped so the view never flips.
func (c *FlyCamera) Look(dx, dy float32) {
	c.Yaw += dx * c.MouseSensitivity
	c.Pitch = clampf(c.Pitch+dy*c.MouseSensitivity, -MaxPitch, MaxPitch)
	c.updateVectors()
}

// Scroll narrows the field of view for positive dy, within [MinZoom, MaxZoom].
func (c *FlyCamera) Scroll(dy float32) {
	c.Zoom = clampf(c.Zoom-dy, MinZoom, c.MaxZoom)
}

// FitToBounds places the camera so the whole box is in view, keeping the
// current orientation.
func (c *FlyCamera) FitToBounds(b pointcloud.BoundingBox) {
	if !b.Valid() {
		return
	}
	center := b.Center()
	radius := math.Vec3{X: b.Width(), Y: b.Height(), Z: b.Depth()}.Length() / 2
	if radius < 1 {
		radius = 1
	}

	halfFOV := float64(math.Radians(c.Zoom)) / 2
	distance := radius / float32(gomath.Sin(halfFOV))
	c.Position = center.Sub(c.front.Scale(distance))
}

func (c *FlyCamera) updateVectors() {
	yaw := float64(math.Radians(c.Yaw))
	pitch := float64(math.Radians(c.Pitch))
	c.front = math.Vec3{
		X: float32(gomath.Cos(yaw) * gomath.Cos(pitch)),
		Y: float32(gomath.Sin(pitch)),
		Z: float32(gomath.Sin(yaw) * gomath.Cos(pitch)),
	}.Normalize()
	c.right = c.front.Cross(c.worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
