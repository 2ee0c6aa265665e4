package nav

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultShipOffset places the cockpit ship slightly below and ahead of
// the eye, in camera-local coordinates.
var DefaultShipOffset = mgl64.Vec3{0, -0.8, -2.5}

// DefaultShipScale is the ship's uniform render scale.
const DefaultShipScale = 0.08

// Ship is a model rigidly mounted to the camera.
type Ship struct {
	Offset mgl64.Vec3
	Scale  float64
}

// NewShip returns a ship at the default mount point.
func NewShip() Ship {
	return Ship{Offset: DefaultShipOffset, Scale: DefaultShipScale}
}

// Pose returns the ship's world position and Euler rotation so it points
// along the view direction.
func (s Ship) Pose(c *Camera) (position, rotation mgl64.Vec3) {
	position = c.Eye.Add(c.toWorld(s.Offset))

	forward, _, _ := c.Basis()
	yaw := math.Atan2(forward.X(), forward.Z())
	pitch := -math.Asin(mgl64.Clamp(forward.Y(), -1, 1))
	return position, mgl64.Vec3{pitch, yaw, 0}
}
