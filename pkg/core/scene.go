package core

// Scene aggregates the geometry and lights of a render. It must not be
// modified once rendering starts, which makes Trace safe for concurrent use.
type Scene struct {
	Lights       []Light // Lights that cast shadows and diffuse contributions
	AmbientLight Light   // Constant term applied to every shaded point
	Shape        Shape   // Usually a geometry.ShapeList of every primitive
}

// NewScene creates a scene from its shape, ambient light and direct lights
func NewScene(shape Shape, ambient Light, lights ...Light) *Scene {
	return &Scene{
		Lights:       lights,
		AmbientLight: ambient,
		Shape:        shape,
	}
}

// Trace returns the color seen along ray, or black when nothing is hit
func (s *Scene) Trace(ray Ray) Color {
	color, _ := s.TraceHit(ray)
	return color
}

// TraceHit is like Trace but also reports whether the ray hit any geometry
func (s *Scene) TraceHit(ray Ray) (Color, bool) {
	if s.Shape == nil {
		return Black(), false
	}

	hit, ok := s.Shape.Hit(ray)
	if !ok {
		return Black(), false
	}
	return hit.Material.Shade(ray, hit, s), true
}

// AmbientColor returns the ambient light color, or black if the scene has none
func (s *Scene) AmbientColor() Color {
	if s.AmbientLight == nil {
		return Black()
	}
	return s.AmbientLight.Color()
}
