package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

func testCameraConfig() CameraConfig {
	config := DefaultCameraConfig()
	config.Position = core.NewPoint3(0, 0, -3)
	config.ResolutionX = 64
	config.ResolutionY = 48
	return config.HarmonizeDimensions(1.0)
}

// pixelFraction projects a camera ray back onto the film and returns the
// sample's fractional position within pixel (x, y)
func pixelFraction(c *PinholeCamera, ray core.Ray, x, y int) (fx, fy float64) {
	d := ray.Direction
	scale := c.negZoom / d.Dot(c.basis.W)
	px := d.Dot(c.basis.U) * scale
	py := d.Dot(c.basis.V) * scale
	return px/c.pixelWidth + c.halfResX - float64(x), py/c.pixelHeight + c.halfResY - float64(y)
}

func TestCameraConfig_HarmonizeDimensions(t *testing.T) {
	config := DefaultCameraConfig()
	config.ResolutionX = 400
	config.ResolutionY = 200

	harmonized := config.HarmonizeDimensions(2.0)
	if harmonized.Width != 2.0 || harmonized.Height != 1.0 {
		t.Errorf("Expected film 2x1, got %fx%f", harmonized.Width, harmonized.Height)
	}
	if config.Width != 1.0 {
		t.Error("HarmonizeDimensions must not modify the receiver")
	}
}

func TestPinholeCamera_RaysForCoordinate_Count(t *testing.T) {
	camera := NewPinholeCamera(testCameraConfig())

	rays := camera.RaysForCoordinate(10, 20)
	if len(rays) != 16 {
		t.Fatalf("Expected 16 rays per pixel, got %d", len(rays))
	}
	if camera.SamplesPerPixel() != 16 {
		t.Errorf("Expected SamplesPerPixel 16, got %d", camera.SamplesPerPixel())
	}

	for i, ray := range rays {
		if ray.Origin != camera.Position() {
			t.Errorf("Ray %d: expected origin %v, got %v", i, camera.Position(), ray.Origin)
		}
		if math.Abs(ray.Direction.Length()-1) > 1e-12 {
			t.Errorf("Ray %d: expected unit direction, got length %f", i, ray.Direction.Length())
		}
	}
}

func TestPinholeCamera_RaysForCoordinate_OffsetsInsidePixel(t *testing.T) {
	camera := NewPinholeCamera(testCameraConfig())

	for _, pixel := range [][2]int{{0, 0}, {31, 23}, {63, 47}, {5, 40}} {
		x, y := pixel[0], pixel[1]
		seen := make(map[[2]float64]bool)

		for _, ray := range camera.RaysForCoordinate(x, y) {
			fx, fy := pixelFraction(camera, ray, x, y)
			if fx <= 0 || fx >= 1 || fy <= 0 || fy >= 1 {
				t.Errorf("Pixel (%d,%d): sample offset (%f, %f) outside (0,1)x(0,1)", x, y, fx, fy)
			}
			key := [2]float64{math.Round(fx * 1e6), math.Round(fy * 1e6)}
			if seen[key] {
				t.Errorf("Pixel (%d,%d): duplicate sample offset (%f, %f)", x, y, fx, fy)
			}
			seen[key] = true
		}
	}
}

func TestPinholeCamera_RaysForCoordinate_StratifiedGrid(t *testing.T) {
	camera := NewPinholeCamera(testCameraConfig())
	rays := camera.RaysForCoordinate(3, 4)

	// x offsets vary slowest, each axis uses (k+1)/5
	for i, ray := range rays {
		fx, fy := pixelFraction(camera, ray, 3, 4)
		expectedX := float64(i/4+1) / 5
		expectedY := float64(i%4+1) / 5
		if math.Abs(fx-expectedX) > 1e-9 || math.Abs(fy-expectedY) > 1e-9 {
			t.Errorf("Ray %d: expected offset (%f, %f), got (%f, %f)", i, expectedX, expectedY, fx, fy)
		}
	}
}

func TestPinholeCamera_RaysForCoordinate_Deterministic(t *testing.T) {
	camera := NewPinholeCamera(testCameraConfig())

	first := camera.RaysForCoordinate(12, 7)
	second := camera.RaysForCoordinate(12, 7)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Ray %d differs between calls: %v vs %v", i, first[i], second[i])
		}
	}

	appended := camera.AppendRaysForCoordinate(nil, 12, 7)
	for i := range first {
		if first[i] != appended[i] {
			t.Fatalf("AppendRaysForCoordinate ray %d differs: %v vs %v", i, first[i], appended[i])
		}
	}
}

func TestPinholeCamera_CenterRayPointsAtTarget(t *testing.T) {
	config := testCameraConfig()
	config.ResolutionX, config.ResolutionY = 2, 2
	config.SamplesPerAxis = 1
	camera := NewPinholeCamera(config)

	// With a single centered sample, the four pixels surround the view axis
	forward := config.LookAt.Subtract(config.Position).Normalize()
	var sum core.Vec3
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			rays := camera.RaysForCoordinate(x, y)
			if len(rays) != 1 {
				t.Fatalf("Expected 1 ray with SamplesPerAxis=1, got %d", len(rays))
			}
			sum = sum.Add(rays[0].Direction)
		}
	}

	if sum.Normalize().Subtract(forward).Length() > 1e-9 {
		t.Errorf("Expected mean ray direction %v, got %v", forward, sum.Normalize())
	}
}

func TestCameraConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(c *CameraConfig)
		expectError bool
	}{
		{"defaults", func(c *CameraConfig) {}, false},
		{"zero resolution", func(c *CameraConfig) { c.ResolutionX = 0 }, true},
		{"negative samples", func(c *CameraConfig) { c.SamplesPerAxis = -1 }, true},
		{"zero zoom", func(c *CameraConfig) { c.Zoom = 0 }, true},
		{"infinite film", func(c *CameraConfig) { c.Width = math.Inf(1) }, true},
		{"NaN film height", func(c *CameraConfig) { c.Height = math.NaN() }, true},
		{"position equals look-at", func(c *CameraConfig) { c.LookAt = c.Position }, true},
		{"up parallel to view", func(c *CameraConfig) { c.Up = core.NewVec3(0, 0, 5) }, true},
		{"zero up", func(c *CameraConfig) { c.Up = core.Vec3{} }, true},
		{"tilted up", func(c *CameraConfig) { c.Up = core.NewVec3(1, 1, 0) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultCameraConfig()
			tt.modify(&config)
			err := config.Validate()
			if tt.expectError && err == nil {
				t.Error("Expected validation error")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestPinholeCamera_CenterRay(t *testing.T) {
	camera := NewPinholeCamera(testCameraConfig())

	ray := camera.CenterRay(17, 9)
	fx, fy := pixelFraction(camera, ray, 17, 9)
	if math.Abs(fx-0.5) > 1e-9 || math.Abs(fy-0.5) > 1e-9 {
		t.Errorf("Expected ray through pixel center, got offset (%f, %f)", fx, fy)
	}
	if math.Abs(ray.Direction.Length()-1) > 1e-12 {
		t.Errorf("Expected unit direction, got length %f", ray.Direction.Length())
	}
}
