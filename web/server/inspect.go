package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/geometry"
	"github.com/df07/go-pinhole-raytracer/pkg/material"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
	"github.com/df07/go-pinhole-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Shaded       [3]float64             `json:"shaded"`     // Linear color of the center ray
	PixelColor   [3]float64             `json:"pixelColor"` // Linear color averaged over all samples
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult contains information about the object hit by an inspection ray
type InspectResult struct {
	Hit     bool
	HitInfo core.HitInfo
	Shape   core.Shape // The primitive that was hit, nil if unknown
	Ray     core.Ray
}

// colorHex formats a linear color as an sRGB hex string
func colorHex(c core.Color) string {
	rgb := c.ToSRGB()
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
}

func colorArray(c core.Color) [3]float64 {
	return [3]float64{c.R, c.G, c.B}
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat core.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Diffuse:
		properties["diffuseReflectance"] = m.DiffuseReflectance
		properties["diffuseColor"] = colorArray(m.DiffuseColor)
		properties["ambientReflectance"] = m.AmbientReflectance
		properties["ambientColor"] = colorArray(m.AmbientColor)
		properties["color"] = colorHex(m.DiffuseColor)
		return "diffuse", properties

	case *material.Debug:
		properties["color"] = colorHex(core.Magenta())
		return "debug", properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape core.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = [3]float64{geom.Center.X, geom.Center.Y, geom.Center.Z}
		properties["radius"] = geom.Radius
		return "sphere", properties

	default:
		return "unknown", properties
	}
}

// findHitShape descends through nested shape lists to the primitive that
// produced the nearest hit
func findHitShape(shape core.Shape, ray core.Ray) (core.Shape, core.HitInfo, bool) {
	list, ok := shape.(geometry.ShapeList)
	if !ok {
		hit, isHit := shape.Hit(ray)
		return shape, hit, isHit
	}

	var nearest core.Shape
	var nearestHit core.HitInfo
	found := false
	for _, child := range list {
		if s, hit, isHit := findHitShape(child, ray); isHit && (!found || hit.Distance < nearestHit.Distance) {
			nearest, nearestHit, found = s, hit, true
		}
	}
	return nearest, nearestHit, found
}

// inspectPixel casts a ray through the center of the pixel and returns information about the first object hit
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) InspectResult {
	camera := renderer.NewPinholeCamera(sceneObj.CameraConfig)
	ray := camera.CenterRay(pixelX, pixelY)

	if sceneObj.World.Shape == nil {
		return InspectResult{Ray: ray}
	}

	shape, hit, isHit := findHitShape(sceneObj.World.Shape, ray)
	return InspectResult{Hit: isHit, HitInfo: hit, Shape: shape, Ray: ray}
}

// handleInspect reports what the center ray of a pixel hits
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// Validate pixel coordinates
	width, height := sceneObj.CameraConfig.ResolutionX, sceneObj.CameraConfig.ResolutionY
	if pixelX < 0 || pixelX >= width || pixelY < 0 || pixelY >= height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	pixelColor, _, _ := sceneObj.NewRaytracer(nil).PixelColor(pixelX, pixelY, nil)

	result := inspectPixel(sceneObj, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false, PixelColor: colorArray(pixelColor)})
		return
	}

	materialType, materialProps := extractMaterialInfo(result.HitInfo.Material)
	geometryType, geometryProps := extractGeometryInfo(result.Shape)

	hit := result.HitInfo
	response := InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        [3]float64{hit.Point.X, hit.Point.Y, hit.Point.Z},
		Normal:       [3]float64{hit.Normal.X, hit.Normal.Y, hit.Normal.Z},
		Distance:     hit.Distance,
		Shaded:       colorArray(hit.Material.Shade(result.Ray, hit, sceneObj.World)),
		PixelColor:   colorArray(pixelColor),
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	}
	writeJSON(w, http.StatusOK, response)
}
