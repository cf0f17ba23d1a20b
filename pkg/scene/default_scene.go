package scene

import (
	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/geometry"
	"github.com/df07/go-pinhole-raytracer/pkg/lights"
	"github.com/df07/go-pinhole-raytracer/pkg/material"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// NewDefaultScene creates a large blue sphere with a small red sphere in
// front of it, lit by a white point light and ambient light
func NewDefaultScene() *Scene {
	cameraConfig := renderer.DefaultCameraConfig()
	cameraConfig.Position = core.NewPoint3(0, 0, -3)
	cameraConfig.LookAt = core.NewPoint3(0, 0, 0)
	cameraConfig.ResolutionX = 256
	cameraConfig.ResolutionY = 256
	cameraConfig = cameraConfig.HarmonizeDimensions(1.0)

	blue := material.NewDiffuse(1.0, core.Blue(), 1.0, core.Blue())
	red := material.NewDiffuse(0.8, core.Red(), 1.0, core.Red())

	shapes := geometry.NewShapeList(
		geometry.NewSphere(core.NewPoint3(0, 0, 0), 1.0, blue),
		geometry.NewSphere(core.NewPoint3(0, -0.5, -1.5), 0.2, red),
	)

	world := core.NewScene(
		shapes,
		lights.NewAmbientLight(core.White(), 0.8),
		lights.NewPointLight(core.NewPoint3(3, 3, -3), core.FromRGB(255, 255, 255), 1.0),
	)

	return &Scene{
		Name:         "default",
		Description:  "Blue sphere with a small red sphere, point and ambient light",
		World:        world,
		CameraConfig: cameraConfig,
		RenderConfig: renderer.DefaultRenderConfig(),
	}
}

// NewAmbientSphereScene creates a single sphere lit only by ambient light,
// which renders as a flat disc
func NewAmbientSphereScene() *Scene {
	cameraConfig := renderer.DefaultCameraConfig()
	cameraConfig.Position = core.NewPoint3(0, 0, -3)
	cameraConfig.ResolutionX = 256
	cameraConfig.ResolutionY = 256
	cameraConfig = cameraConfig.HarmonizeDimensions(1.0)

	green := material.NewDiffuse(1.0, core.Green(), 1.0, core.Green())

	world := core.NewScene(
		geometry.NewShapeList(geometry.NewSphere(core.NewPoint3(0, 0, 0), 1.0, green)),
		lights.NewAmbientLight(core.White(), 0.8),
	)

	return &Scene{
		Name:         "ambient-sphere",
		Description:  "Single sphere under ambient light only",
		World:        world,
		CameraConfig: cameraConfig,
		RenderConfig: renderer.DefaultRenderConfig(),
	}
}

// NewDebugScene places flat magenta spheres off-center around a white sphere
// so the image orientation can be checked at a glance
func NewDebugScene() *Scene {
	cameraConfig := renderer.DefaultCameraConfig()
	cameraConfig.Position = core.NewPoint3(0, 0, -4)
	cameraConfig.ResolutionX = 200
	cameraConfig.ResolutionY = 100
	cameraConfig = cameraConfig.HarmonizeDimensions(2.0)

	debug := material.NewDebug()
	marker := material.NewDiffuse(1.0, core.White(), 1.0, core.White())

	shapes := geometry.NewShapeList(
		geometry.NewSphere(core.NewPoint3(0, 0, 0), 0.5, marker),
		geometry.NewSphere(core.NewPoint3(1.5, 1, 0), 0.4, debug),
		geometry.NewSphere(core.NewPoint3(-1.5, -1, 0), 0.25, debug),
	)

	return &Scene{
		Name:         "debug",
		Description:  "Debug-material markers around an ambient-lit white sphere",
		World:        core.NewScene(shapes, lights.NewAmbientLight(core.White(), 1.0)),
		CameraConfig: cameraConfig,
		RenderConfig: renderer.DefaultRenderConfig(),
	}
}
