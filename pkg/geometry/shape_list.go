package geometry

import "github.com/df07/go-pinhole-raytracer/pkg/core"

// ShapeList is a composite shape that reports the nearest hit among its children.
// On equal distances the earlier child wins.
type ShapeList []core.Shape

// NewShapeList creates a composite from the given shapes
func NewShapeList(shapes ...core.Shape) ShapeList {
	return ShapeList(shapes)
}

// Hit intersects every child and keeps the closest hit
func (l ShapeList) Hit(ray core.Ray) (core.HitInfo, bool) {
	var closest core.HitInfo
	hitAnything := false

	for _, shape := range l {
		hit, ok := shape.Hit(ray)
		if !ok {
			continue
		}
		if !hitAnything || hit.Distance < closest.Distance {
			closest = hit
			hitAnything = true
		}
	}

	return closest, hitAnything
}
