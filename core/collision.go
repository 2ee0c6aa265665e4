package core

import "github.com/go-gl/mathgl/mgl64"

// Sphere is a collision volume.
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

// CheckSphereCollision reports whether two spheres overlap. Touching
// spheres do not collide.
func CheckSphereCollision(posA mgl64.Vec3, rA float64, posB mgl64.Vec3, rB float64) bool {
	return Distance(posA, posB) < rA+rB
}

// ResolveSphereCollision pushes A out along the line from B through A so
// it sits exactly on the combined-radius boundary. Coincident centres have
// no such line; A is pushed along +Y instead.
func ResolveSphereCollision(posA mgl64.Vec3, rA float64, posB mgl64.Vec3, rB float64) mgl64.Vec3 {
	dir := NormalizeOr(posA.Sub(posB), WorldUp)
	return posB.Add(dir.Mul(rA + rB))
}

// ResolveAgainst checks pos against each sphere in order and resolves any
// overlap. It returns the corrected position and how many spheres were hit.
func ResolveAgainst(pos mgl64.Vec3, radius float64, spheres []Sphere) (mgl64.Vec3, int) {
	hits := 0
	for _, s := range spheres {
		if CheckSphereCollision(pos, radius, s.Center, s.Radius) {
			pos = ResolveSphereCollision(pos, radius, s.Center, s.Radius)
			hits++
		}
	}
	return pos, hits
}
