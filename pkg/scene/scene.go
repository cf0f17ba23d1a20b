package scene

import (
	"fmt"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/geometry"
	"github.com/df07/go-pinhole-raytracer/pkg/lights"
	"github.com/df07/go-pinhole-raytracer/pkg/loaders"
	"github.com/df07/go-pinhole-raytracer/pkg/material"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	Description  string
	World        *core.Scene // Shapes and lights
	CameraConfig renderer.CameraConfig
	RenderConfig renderer.RenderConfig
}

// NewRaytracer creates a raytracer for the scene's world, camera and render settings
func (s *Scene) NewRaytracer(logger core.Logger) *renderer.Raytracer {
	return renderer.NewRaytracer(s.World, renderer.NewPinholeCamera(s.CameraConfig), s.RenderConfig, logger)
}

// SetResolution overrides the image size and re-derives the film height so
// pixels stay square. Zero keeps the current value.
func (s *Scene) SetResolution(width, height int) {
	if width > 0 {
		s.CameraConfig.ResolutionX = width
	}
	if height > 0 {
		s.CameraConfig.ResolutionY = height
	}
	s.CameraConfig = s.CameraConfig.HarmonizeDimensions(s.CameraConfig.Width)
}

// FromDescription builds a scene from a decoded scene file
func FromDescription(desc *loaders.SceneDescription) (*Scene, error) {
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene description: %w", err)
	}

	renderConfig := renderer.DefaultRenderConfig()
	if desc.Background != nil {
		renderConfig.Background = desc.Background.Color()
	}

	shapes := make(geometry.ShapeList, 0, len(desc.Spheres))
	for _, sphere := range desc.Spheres {
		shapes = append(shapes, geometry.NewSphere(sphere.Center.Point3(), sphere.Radius, convertMaterial(sphere.Material)))
	}

	var ambient core.Light
	if desc.Ambient != nil {
		ambient = lights.NewAmbientLight(desc.Ambient.Color.Color(), intensityOrDefault(desc.Ambient.Intensity))
	}

	pointLights := make([]core.Light, 0, len(desc.Lights))
	for _, light := range desc.Lights {
		pointLights = append(pointLights, lights.NewPointLight(light.Position.Point3(), light.Color.Color(), intensityOrDefault(light.Intensity)))
	}

	return &Scene{
		Name:         desc.Name,
		Description:  desc.Description,
		World:        core.NewScene(shapes, ambient, pointLights...),
		CameraConfig: desc.Camera.Apply(renderer.DefaultCameraConfig()),
		RenderConfig: renderConfig,
	}, nil
}

func convertMaterial(desc loaders.MaterialDescription) core.Material {
	if desc.Kind == loaders.MaterialKindDebug {
		return material.NewDebug()
	}

	ambientColor := desc.DiffuseColor.Color()
	if desc.AmbientColor != nil {
		ambientColor = desc.AmbientColor.Color()
	}
	return material.NewDiffuse(desc.DiffuseReflectance, desc.DiffuseColor.Color(), desc.AmbientReflectance, ambientColor)
}

func intensityOrDefault(intensity *float64) float64 {
	if intensity == nil {
		return 1.0
	}
	return *intensity
}
