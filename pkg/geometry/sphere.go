package geometry

import (
	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Point3
	Radius   float64 // Must be > 0
	Material core.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Point3, radius float64, material core.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// Hit returns the nearest intersection in front of the ray origin
func (s *Sphere) Hit(ray core.Ray) (core.HitInfo, bool) {
	// Quadratic equation coefficients: at² + bt + c = 0
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.LengthSquared()
	b := 2.0 * oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	t0, t1, ok := core.SolveQuadratic(a, b, c)
	if !ok {
		return core.HitInfo{}, false
	}

	t, ok := core.SmallestPositive(t0, t1)
	if !ok {
		return core.HitInfo{}, false
	}

	point := ray.At(t)
	return core.HitInfo{
		Distance: t,
		Normal:   point.Subtract(s.Center).Divide(s.Radius),
		Point:    point,
		Material: s.Material,
	}, true
}
