package material

import "github.com/df07/go-pinhole-raytracer/pkg/core"

// Debug shades every hit with a flat magenta marker, ignoring lights
type Debug struct{}

// NewDebug creates a new debug material
func NewDebug() *Debug {
	return &Debug{}
}

// Shade returns the marker color
func (d *Debug) Shade(ray core.Ray, hit core.HitInfo, scene *core.Scene) core.Color {
	return core.Magenta()
}
