package lights

import "github.com/df07/go-pinhole-raytracer/pkg/core"

// LightType identifies the kind of a light in scene files and inspection output
type LightType string

const (
	LightTypePoint   LightType = "point"
	LightTypeAmbient LightType = "ambient"
)

// Light is a core.Light that also reports its kind
type Light interface {
	core.Light
	Type() LightType
}

// clampIntensity keeps intensities in [0,1] so a light never amplifies its base color
func clampIntensity(intensity float64) float64 {
	return max(0, min(1, intensity))
}
