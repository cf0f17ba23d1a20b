package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// HitInfo describes a ray-surface intersection. It is only valid for the
// trace call that produced it.
type HitInfo struct {
	Distance float64  // Ray parameter of the hit, always > 0
	Normal   Vec3     // Unit outward surface normal
	Point    Point3   // World-space hit position
	Material Material // Material of the surface that was hit
}

// Shape is anything a ray can intersect
type Shape interface {
	Hit(ray Ray) (HitInfo, bool)
}

// Material computes the color leaving a surface toward the ray origin
type Material interface {
	Shade(ray Ray, hit HitInfo, scene *Scene) Color
}

// Light contributes illumination to shaded points
type Light interface {
	// Color returns the emitted color scaled by intensity
	Color() Color
	// DirectionFromPoint returns the unit direction from p toward the light
	DirectionFromPoint(p Point3) Vec3
	// IlluminatesPoint reports whether nothing in occluder blocks the light from p
	IlluminatesPoint(p Point3, occluder Shape) bool
	GeometricFactor() float64
	ProbabilityDensity() float64
}
