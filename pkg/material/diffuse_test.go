package material

import (
	"math"
	"testing"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/geometry"
	"github.com/df07/go-pinhole-raytracer/pkg/lights"
)

func colorApproxEqual(a, b core.Color, eps float64) bool {
	return math.Abs(a.R-b.R) <= eps && math.Abs(a.G-b.G) <= eps && math.Abs(a.B-b.B) <= eps
}

// weightedLight is a point-like light with configurable sampling weights
type weightedLight struct {
	position core.Point3
	geometry float64
	pdf      float64
}

func (l weightedLight) Color() core.Color { return core.White() }
func (l weightedLight) DirectionFromPoint(p core.Point3) core.Vec3 {
	return p.DistanceTo(l.position).Normalize()
}
func (l weightedLight) IlluminatesPoint(p core.Point3, occluder core.Shape) bool { return true }
func (l weightedLight) GeometricFactor() float64 { return l.geometry }
func (l weightedLight) ProbabilityDensity() float64 { return l.pdf }

func shadeFirstHit(t *testing.T, scene *core.Scene, ray core.Ray) core.Color {
	t.Helper()
	hit, ok := scene.Shape.Hit(ray)
	if !ok {
		t.Fatal("Expected ray to hit the scene")
	}
	return hit.Material.Shade(ray, hit, scene)
}

func TestDiffuse_Shade_AmbientOnly(t *testing.T) {
	mat := NewDiffuse(1, core.White(), 0.5, core.NewColor(1, 0.5, 0.25))
	scene := core.NewScene(
		geometry.NewShapeList(geometry.NewSphere(core.NewPoint3(0, 0, 0), 1, mat)),
		lights.NewAmbientLight(core.White(), 0.8),
	)

	got := shadeFirstHit(t, scene, core.NewRay(core.NewPoint3(0, 0, 5), core.NewVec3(0, 0, -1)))
	expected := core.NewColor(0.4, 0.2, 0.1)
	if !colorApproxEqual(got, expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestDiffuse_Shade_DirectLight(t *testing.T) {
	mat := NewDiffuse(1, core.White(), 1, core.White())
	sphere := geometry.NewSphere(core.NewPoint3(0, 0, 0), 1, mat)
	ray := core.NewRay(core.NewPoint3(0, 0, 3), core.NewVec3(0, 0, -1))

	tests := []struct {
		name     string
		shapes   []core.Shape
		light    core.Light
		expected core.Color
	}{
		{
			name:   "unoccluded light along the normal",
			shapes: []core.Shape{sphere},
			light:  lights.NewPointLight(core.NewPoint3(0, 0, 10), core.White(), 1),
			// Normal and light direction are both +z, so only blue survives the component-wise product
			expected: core.NewColor(0, 0, 1/math.Pi),
		},
		{
			name:     "light behind the surface",
			shapes:   []core.Shape{sphere},
			light:    lights.NewPointLight(core.NewPoint3(0, 0, -10), core.White(), 1),
			expected: core.Black(),
		},
		{
			name: "occluded light",
			shapes: []core.Shape{
				sphere,
				geometry.NewSphere(core.NewPoint3(0, 0, 6), 0.5, NewDebug()),
			},
			light:    lights.NewPointLight(core.NewPoint3(0, 0, 10), core.White(), 1),
			expected: core.Black(),
		},
		{
			name:     "light intensity scales contribution",
			shapes:   []core.Shape{sphere},
			light:    lights.NewPointLight(core.NewPoint3(0, 0, 10), core.White(), 0.5),
			expected: core.NewColor(0, 0, 0.5/math.Pi),
		},
		{
			name:     "geometric factor over density weights contribution",
			shapes:   []core.Shape{sphere},
			light:    weightedLight{position: core.NewPoint3(0, 0, 10), geometry: 1, pdf: 4},
			expected: core.NewColor(0, 0, 0.25/math.Pi),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := core.NewScene(geometry.NewShapeList(tt.shapes...), nil, tt.light)
			got := shadeFirstHit(t, scene, ray)
			if !colorApproxEqual(got, tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestDiffuse_Shade_FlipsNormalFromInside(t *testing.T) {
	mat := NewDiffuse(1, core.White(), 1, core.White())
	scene := core.NewScene(
		geometry.NewShapeList(geometry.NewSphere(core.NewPoint3(0, 0, 0), 1, mat)),
		nil,
		lights.NewPointLight(core.NewPoint3(0, 0, 0.5), core.White(), 1),
	)

	got := shadeFirstHit(t, scene, core.NewRay(core.NewPoint3(0, 0, 0), core.NewVec3(0, 0, 1)))
	expected := core.NewColor(0, 0, 1/math.Pi)
	if !colorApproxEqual(got, expected, 1e-12) {
		t.Errorf("Expected inside hit to be lit by inner light, got %v", got)
	}
}

func TestDiffuse_Shade_AccumulatesLights(t *testing.T) {
	mat := NewDiffuse(0.5, core.White(), 1, core.White())
	scene := core.NewScene(
		geometry.NewShapeList(geometry.NewSphere(core.NewPoint3(0, 0, 0), 1, mat)),
		lights.NewAmbientLight(core.White(), 0.1),
		lights.NewPointLight(core.NewPoint3(0, 0, 10), core.White(), 1),
		lights.NewPointLight(core.NewPoint3(0, 0, 20), core.White(), 1),
	)

	got := shadeFirstHit(t, scene, core.NewRay(core.NewPoint3(0, 0, 3), core.NewVec3(0, 0, -1)))
	expected := core.NewColor(0.1, 0.1, 0.1+2*0.5/math.Pi)
	if !colorApproxEqual(got, expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestDebug_Shade(t *testing.T) {
	scene := core.NewScene(geometry.NewShapeList(geometry.NewSphere(core.NewPoint3(0, 0, 0), 1, NewDebug())), nil)

	got := shadeFirstHit(t, scene, core.NewRay(core.NewPoint3(0, 0, 3), core.NewVec3(0, 0, -1)))
	if got != core.Magenta() {
		t.Errorf("Expected magenta marker, got %v", got)
	}
}
