package lights

import "github.com/df07/go-pinhole-raytracer/pkg/core"

// AmbientLight is a constant, directionless light that reaches every point
type AmbientLight struct {
	color     core.Color
	intensity float64
}

// NewAmbientLight creates an ambient light. intensity is clamped to [0,1].
func NewAmbientLight(color core.Color, intensity float64) *AmbientLight {
	return &AmbientLight{
		color:     color,
		intensity: clampIntensity(intensity),
	}
}

// Type returns the light type
func (al *AmbientLight) Type() LightType {
	return LightTypeAmbient
}

// Intensity returns the clamped intensity
func (al *AmbientLight) Intensity() float64 {
	return al.intensity
}

// Color returns the base color scaled by intensity
func (al *AmbientLight) Color() core.Color {
	return al.color.Scale(al.intensity)
}

// DirectionFromPoint returns the zero vector; ambient light has no direction
func (al *AmbientLight) DirectionFromPoint(p core.Point3) core.Vec3 {
	return core.Vec3{}
}

// IlluminatesPoint always returns true
func (al *AmbientLight) IlluminatesPoint(p core.Point3, occluder core.Shape) bool {
	return true
}

// GeometricFactor is fixed at 1: ambient light arrives equally from everywhere
func (al *AmbientLight) GeometricFactor() float64 {
	return 1.0
}

// ProbabilityDensity is fixed at 1: ambient light is not sampled
func (al *AmbientLight) ProbabilityDensity() float64 {
	return 1.0
}
