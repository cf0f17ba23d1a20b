package material

import (
	"math"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

// ShadowEpsilon is how far shaded points are pushed off the surface before
// casting shadow rays, so a surface does not occlude itself
const ShadowEpsilon = 1e-6

// Diffuse is a Lambertian surface with a separate ambient term
type Diffuse struct {
	DiffuseReflectance float64    // Fraction of direct light reflected, in [0,1]
	DiffuseColor       core.Color // Albedo under direct light
	AmbientReflectance float64    // Fraction of ambient light reflected, in [0,1]
	AmbientColor       core.Color // Albedo under ambient light
}

// NewDiffuse creates a new diffuse material
func NewDiffuse(diffuseReflectance float64, diffuseColor core.Color, ambientReflectance float64, ambientColor core.Color) *Diffuse {
	return &Diffuse{
		DiffuseReflectance: diffuseReflectance,
		DiffuseColor:       diffuseColor,
		AmbientReflectance: ambientReflectance,
		AmbientColor:       ambientColor,
	}
}

// Shade sums the ambient term and the contribution of every unoccluded light
func (d *Diffuse) Shade(ray core.Ray, hit core.HitInfo, scene *core.Scene) core.Color {
	// Face the normal toward the incoming ray
	normal := hit.Normal
	if ray.Direction.Dot(normal) > 0 {
		normal = normal.Negate()
	}

	result := d.AmbientColor.Scale(d.AmbientReflectance).Multiply(scene.AmbientColor())

	// BRDF: albedo / π
	brdf := d.DiffuseColor.Scale(d.DiffuseReflectance / math.Pi)
	shadowOrigin := hit.Point.Displace(normal.Multiply(ShadowEpsilon))

	for _, light := range scene.Lights {
		lightDirection := light.DirectionFromPoint(hit.Point)
		if normal.Dot(lightDirection) <= 0 {
			continue
		}
		if !light.IlluminatesPoint(shadowOrigin, scene.Shape) {
			continue
		}

		weight := light.GeometricFactor() / light.ProbabilityDensity()
		incoming := light.Color().Scale(weight)
		cosine := core.ColorFromVec3(normal.MultiplyVec(lightDirection))
		result = result.Add(brdf.Multiply(incoming).Multiply(cosine))
	}

	return result
}
