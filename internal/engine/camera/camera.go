// Package camera provides the free-look camera for 3D viewing.
package camera

import (
	gomath "math"

	"github.com/scopview/scopview/pkg/math"
)

// Movement directions for keyboard-driven camera motion.
type Movement int

const (
	Forward Movement = iota
	Backward
	Left
	Right
)

// FlyCamera is a first-person free-look camera: yaw/pitch orientation from
// relative mouse motion, position driven by keyboard, field of view by the
// scroll wheel.
type FlyCamera struct {
	Position math.Vec3
	Front    math.Vec3
	Up       math.Vec3
	right    math.Vec3
	worldUp  math.Vec3

	// Euler angles, degrees
	Yaw   float32
	Pitch float32

	MovementSpeed    float32
	MouseSensitivity float32
	Zoom             float32 // vertical FOV, degrees

	// Constraints
	MinZoom  float32
	MaxZoom  float32
	MaxPitch float32
}

// NewFlyCamera creates a camera at the given position looking down -Z.
func NewFlyCamera(position math.Vec3) *FlyCamera {
	c := &FlyCamera{
		Position:         position,
		worldUp:          math.Vec3{X: 0, Y: 1, Z: 0},
		Yaw:              -90.0,
		Pitch:            0.0,
		MovementSpeed:    2.5,
		MouseSensitivity: 0.1,
		Zoom:             45.0,
		MinZoom:          1.0,
		MaxZoom:          45.0,
		MaxPitch:         89.0,
	}
	c.updateVectors()
	return c
}

// ViewMatrix returns the view matrix for this camera.
func (c *FlyCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Position.Add(c.Front), c.Up)
}

// HandleMovement moves the camera along its own axes. deltaTime is in
// seconds.
func (c *FlyCamera) HandleMovement(dir Movement, deltaTime float32) {
	velocity := c.MovementSpeed * deltaTime
	switch dir {
	case Forward:
		c.Position = c.Position.Add(c.Front.Scale(velocity))
	case Backward:
		c.Position = c.Position.Sub(c.Front.Scale(velocity))
	case Left:
		c.Position = c.Position.Sub(c.right.Scale(velocity))
	case Right:
		c.Position = c.Position.Add(c.right.Scale(velocity))
	}
}

// HandleLook updates orientation from a relative mouse motion delta.
func (c *FlyCamera) HandleLook(deltaX, deltaY float32) {
	c.Yaw += deltaX * c.MouseSensitivity
	c.Pitch -= deltaY * c.MouseSensitivity

	// Clamp pitch to avoid flipping over the poles
	c.Pitch = math.Clamp(c.Pitch, -c.MaxPitch, c.MaxPitch)

	c.updateVectors()
}

// HandleZoom narrows or widens the field of view from scroll wheel delta.
func (c *FlyCamera) HandleZoom(delta float32) {
	c.Zoom = math.Clamp(c.Zoom-delta, c.MinZoom, c.MaxZoom)
}

// updateVectors recomputes the basis from the Euler angles.
func (c *FlyCamera) updateVectors() {
	yaw := float64(math.Radians(c.Yaw))
	pitch := float64(math.Radians(c.Pitch))

	c.Front = math.Vec3{
		X: float32(gomath.Cos(yaw) * gomath.Cos(pitch)),
		Y: float32(gomath.Sin(pitch)),
		Z: float32(gomath.Sin(yaw) * gomath.Cos(pitch)),
	}.Normalize()

	c.right = c.Front.Cross(c.worldUp).Normalize()
	c.Up = c.right.Cross(c.Front).Normalize()
}
