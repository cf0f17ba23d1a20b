package lights

import "github.com/df07/go-pinhole-raytracer/pkg/core"

// PointLight emits from a single position with no distance falloff
type PointLight struct {
	position  core.Point3
	color     core.Color
	intensity float64
}

// NewPointLight creates a point light. intensity is clamped to [0,1].
func NewPointLight(position core.Point3, color core.Color, intensity float64) *PointLight {
	return &PointLight{
		position:  position,
		color:     color,
		intensity: clampIntensity(intensity),
	}
}

// Type returns the light type
func (pl *PointLight) Type() LightType {
	return LightTypePoint
}

// Position returns the light position
func (pl *PointLight) Position() core.Point3 {
	return pl.position
}

// Intensity returns the clamped intensity
func (pl *PointLight) Intensity() float64 {
	return pl.intensity
}

// Color returns the base color scaled by intensity
func (pl *PointLight) Color() core.Color {
	return pl.color.Scale(pl.intensity)
}

// DirectionFromPoint returns the unit direction from p to the light.
// p must not coincide with the light position.
func (pl *PointLight) DirectionFromPoint(p core.Point3) core.Vec3 {
	return p.DistanceTo(pl.position).Normalize()
}

// IlluminatesPoint casts a shadow ray from p toward the light. The point is lit
// unless occluder reports a hit closer than the light itself.
func (pl *PointLight) IlluminatesPoint(p core.Point3, occluder core.Shape) bool {
	if occluder == nil {
		return true
	}

	toLight := p.DistanceTo(pl.position)
	distance := toLight.Length()
	hit, ok := occluder.Hit(core.NewRay(p, toLight.Divide(distance)))
	if !ok {
		return true
	}
	return hit.Distance >= distance
}

// GeometricFactor is fixed at 1: point lights have no inverse-square falloff
func (pl *PointLight) GeometricFactor() float64 {
	return 1.0
}

// ProbabilityDensity is fixed at 1: the single light position is always chosen
func (pl *PointLight) ProbabilityDensity() float64 {
	return 1.0
}
