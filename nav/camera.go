// Package nav holds the viewpoint: a look-at camera, the animated warp
// sequencer and the navigation mode that decides who drives the eye.
package nav

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// FieldOfView is the vertical field of view in radians.
	FieldOfView = math.Pi / 4
	NearPlane   = 0.5
	FarPlane    = 1000.0

	pitchLimit      = math.Pi/2 - 0.1
	gimbalLockLimit = 0.99
	warpHeightRatio = 0.3
)

// Camera is a look-at view state.
//
// Eye must differ from Center, and Up must not be parallel to the view
// direction; both are caller contracts. Up only needs to be roughly right,
// the basis is re-orthogonalised on every use.
type Camera struct {
	Eye    mgl64.Vec3
	Center mgl64.Vec3
	Up     mgl64.Vec3

	changed bool
}

// NewCamera returns a camera marked as changed.
func NewCamera(eye, center, up mgl64.Vec3) *Camera {
	return &Camera{Eye: eye, Center: center, Up: up, changed: true}
}

// HasChanged reports whether the view moved since the last ClearChanged.
func (c *Camera) HasChanged() bool { return c.changed }

// ClearChanged resets the dirty flag once a consumer has cached the matrices.
func (c *Camera) ClearChanged() { c.changed = false }

// Basis returns the orthonormal forward, right and up vectors.
func (c *Camera) Basis() (forward, right, up mgl64.Vec3) {
	forward = c.Center.Sub(c.Eye).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward)
	return forward, right, up
}

// Distance is the eye-to-center distance.
func (c *Camera) Distance() float64 {
	return c.Center.Sub(c.Eye).Len()
}

// toWorld maps a camera-local offset (x right, y up, z backward) to world
// space without normalising.
func (c *Camera) toWorld(v mgl64.Vec3) mgl64.Vec3 {
	forward, right, up := c.Basis()
	return right.Mul(v.X()).
		Add(up.Mul(v.Y())).
		Add(forward.Mul(-v.Z()))
}

// BasisChange re-expresses a camera-local direction in world space as a
// unit vector. A zero input stays zero.
func (c *Camera) BasisChange(v mgl64.Vec3) mgl64.Vec3 {
	w := c.toWorld(v)
	if w.Len() == 0 {
		return mgl64.Vec3{}
	}
	return w.Normalize()
}

// Orbit swings the eye around Center at a fixed radius. Pitch is clamped
// short of the poles.
func (c *Camera) Orbit(deltaYaw, deltaPitch float64) {
	offset := c.Eye.Sub(c.Center)
	radius := offset.Len()

	yaw := math.Atan2(offset.Z(), offset.X())
	pitch := math.Atan2(-offset.Y(), math.Hypot(offset.X(), offset.Z()))

	yaw += deltaYaw
	pitch = mgl64.Clamp(pitch+deltaPitch, -pitchLimit, pitchLimit)

	c.Eye = c.Center.Add(mgl64.Vec3{
		radius * math.Cos(pitch) * math.Cos(yaw),
		-radius * math.Sin(pitch),
		radius * math.Cos(pitch) * math.Sin(yaw),
	})
	c.changed = true
}

// SetEye moves the eye without touching Center.
func (c *Camera) SetEye(eye mgl64.Vec3) {
	c.Eye = eye
	c.changed = true
}

// Reset replaces the whole view in place.
func (c *Camera) Reset(eye, center, up mgl64.Vec3) {
	c.Eye, c.Center, c.Up = eye, center, up
	c.changed = true
}

// LookAt points the view at target without moving the eye.
func (c *Camera) LookAt(target mgl64.Vec3) {
	c.Center = target
	c.changed = true
}

// Zoom moves the eye toward Center by delta; negative delta backs away.
func (c *Camera) Zoom(delta float64) {
	dir := c.Center.Sub(c.Eye).Normalize()
	c.Eye = c.Eye.Add(dir.Mul(delta))
	c.changed = true
}

// SetTarget re-centres on target keeping the current eye offset.
func (c *Camera) SetTarget(target mgl64.Vec3) {
	offset := c.Eye.Sub(c.Center)
	c.Center = target
	c.Eye = target.Add(offset)
	c.changed = true
}

// SmoothFollow blends Center toward target by lambda, clamped to [0, 1].
func (c *Camera) SmoothFollow(target mgl64.Vec3, lambda float64) {
	lambda = mgl64.Clamp(lambda, 0, 1)
	c.Center = c.Center.Mul(1 - lambda).Add(target.Mul(lambda))
	c.changed = true
}

// translate shifts eye and center together.
func (c *Camera) translate(d mgl64.Vec3) {
	c.Eye = c.Eye.Add(d)
	c.Center = c.Center.Add(d)
	c.changed = true
}

func (c *Camera) MoveForward(amount float64) {
	forward, _, _ := c.Basis()
	c.translate(forward.Mul(amount))
}

func (c *Camera) MoveBackward(amount float64) { c.MoveForward(-amount) }

func (c *Camera) MoveRight(amount float64) {
	_, right, _ := c.Basis()
	c.translate(right.Mul(amount))
}

func (c *Camera) MoveLeft(amount float64) { c.MoveRight(-amount) }

func (c *Camera) MoveUp(amount float64) {
	_, _, up := c.Basis()
	c.translate(up.Mul(amount))
}

func (c *Camera) MoveDown(amount float64) { c.MoveUp(-amount) }

// RotateYaw turns the view about world Y, keeping the eye fixed.
func (c *Camera) RotateYaw(angle float64) {
	f := c.Center.Sub(c.Eye)
	distance := f.Len()
	cos, sin := math.Cos(angle), math.Sin(angle)

	rotated := mgl64.Vec3{
		f.X()*cos - f.Z()*sin,
		f.Y(),
		f.X()*sin + f.Z()*cos,
	}
	c.Center = c.Eye.Add(rotated.Normalize().Mul(distance))
	c.changed = true
}

// RotatePitch tilts the view up (positive angle) or down, keeping the eye
// fixed. Updates that would leave the view within asin(0.99) of vertical
// are dropped.
func (c *Camera) RotatePitch(angle float64) {
	f := c.Center.Sub(c.Eye)
	distance := f.Len()
	_, _, up := c.Basis()

	next := f.Mul(math.Cos(angle)).Add(up.Mul(math.Sin(angle) * distance))
	if math.Abs(next.Normalize().Y()) >= gimbalLockLimit {
		return
	}
	c.Center = c.Eye.Add(next)
	c.changed = true
}

// WarpTo jumps straight to a viewpoint above and behind target.
func (c *Camera) WarpTo(target mgl64.Vec3, distance float64) {
	c.Eye = WarpArrival(target, distance)
	c.Center = target
	c.changed = true
}

// WarpArrival is where WarpTo (and an animated warp) ends up for target.
func WarpArrival(target mgl64.Vec3, distance float64) mgl64.Vec3 {
	return target.Add(mgl64.Vec3{0, distance * warpHeightRatio, distance})
}

// ViewMatrix is the look-at transform.
func (c *Camera) ViewMatrix() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye, c.Center, c.Up)
}

// ProjectionMatrix is the perspective projection for the given aspect ratio.
func (c *Camera) ProjectionMatrix(aspect float64) mgl64.Mat4 {
	return mgl64.Perspective(FieldOfView, aspect, NearPlane, FarPlane)
}
