package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

// DefaultSamplesPerAxis gives a 4x4 stratified grid of rays per pixel
const DefaultSamplesPerAxis = 4

// CameraConfig contains pinhole camera parameters
type CameraConfig struct {
	Position       core.Point3 // Eye position
	LookAt         core.Point3 // Point the camera faces
	Up             core.Vec3   // Up hint, must not be parallel to the view direction
	Zoom           float64     // Distance from the eye to the film plane
	Width          float64     // Film width in world units
	Height         float64     // Film height in world units
	ResolutionX    int         // Image width in pixels
	ResolutionY    int         // Image height in pixels
	SamplesPerAxis int         // Stratified samples per pixel axis (0 = DefaultSamplesPerAxis)
}

// DefaultCameraConfig returns sensible default values
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Position:       core.NewPoint3(0, 0, -2),
		LookAt:         core.NewPoint3(0, 0, 0),
		Up:             core.NewVec3(0, 1, 0),
		Zoom:           1.0,
		Width:          1.0,
		Height:         1.0,
		ResolutionX:    512,
		ResolutionY:    512,
		SamplesPerAxis: DefaultSamplesPerAxis,
	}
}

// HarmonizeDimensions sets the film width and derives the height from the
// resolution aspect ratio so pixels are square
func (c CameraConfig) HarmonizeDimensions(width float64) CameraConfig {
	aspectRatio := float64(c.ResolutionY) / float64(c.ResolutionX)
	c.Width = width
	c.Height = width * aspectRatio
	return c
}

// Validate reports the first configuration value that cannot produce a usable camera
func (c CameraConfig) Validate() error {
	if c.ResolutionX <= 0 || c.ResolutionY <= 0 {
		return fmt.Errorf("resolution must be positive, got %dx%d", c.ResolutionX, c.ResolutionY)
	}
	if c.SamplesPerAxis < 0 {
		return fmt.Errorf("samples per axis must not be negative, got %d", c.SamplesPerAxis)
	}
	if !isPositiveFinite(c.Zoom) {
		return fmt.Errorf("zoom must be positive, got %g", c.Zoom)
	}
	if !isPositiveFinite(c.Width) || !isPositiveFinite(c.Height) {
		return fmt.Errorf("film dimensions must be positive, got %gx%g", c.Width, c.Height)
	}

	view := c.Position.Subtract(c.LookAt)
	if view.LengthSquared() == 0 {
		return fmt.Errorf("camera position %v equals look-at point", c.Position)
	}
	upLenSq := c.Up.LengthSquared()
	if upLenSq == 0 || c.Up.Cross(view).LengthSquared() < 1e-12*upLenSq*view.LengthSquared() {
		return fmt.Errorf("up vector %v is parallel to the view direction", c.Up)
	}
	return nil
}

func isPositiveFinite(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

// PinholeCamera maps pixel coordinates to stratified sample rays
type PinholeCamera struct {
	basis          core.OrthonormalBasis
	position       core.Point3
	pixelWidth     float64
	pixelHeight    float64
	halfResX       float64
	halfResY       float64
	negZoom        float64
	resolutionX    int
	resolutionY    int
	sampleOffsets  []float64
	samplesPerAxis int
}

// NewPinholeCamera creates a camera from the given config
func NewPinholeCamera(config CameraConfig) *PinholeCamera {
	samplesPerAxis := config.SamplesPerAxis
	if samplesPerAxis <= 0 {
		samplesPerAxis = DefaultSamplesPerAxis
	}

	// Offsets (k+1)/(n+1) keep every sample strictly inside the pixel
	offsets := make([]float64, samplesPerAxis)
	for k := range offsets {
		offsets[k] = float64(k+1) / float64(samplesPerAxis+1)
	}

	return &PinholeCamera{
		basis:          core.NewOrthonormalBasis(config.Position.Subtract(config.LookAt), config.Up),
		position:       config.Position,
		pixelWidth:     config.Width / float64(config.ResolutionX),
		pixelHeight:    config.Height / float64(config.ResolutionY),
		halfResX:       float64(config.ResolutionX) / 2.0,
		halfResY:       float64(config.ResolutionY) / 2.0,
		negZoom:        -config.Zoom,
		resolutionX:    config.ResolutionX,
		resolutionY:    config.ResolutionY,
		sampleOffsets:  offsets,
		samplesPerAxis: samplesPerAxis,
	}
}

// Resolution returns the image size in pixels
func (c *PinholeCamera) Resolution() (width, height int) {
	return c.resolutionX, c.resolutionY
}

// SamplesPerPixel returns the number of rays generated for each pixel
func (c *PinholeCamera) SamplesPerPixel() int {
	return c.samplesPerAxis * c.samplesPerAxis
}

// Position returns the eye position
func (c *PinholeCamera) Position() core.Point3 {
	return c.position
}

// RaysForCoordinate returns the stratified sample rays for pixel (x, y).
// The order is deterministic: x offsets vary slowest.
func (c *PinholeCamera) RaysForCoordinate(x, y int) []core.Ray {
	return c.AppendRaysForCoordinate(make([]core.Ray, 0, c.SamplesPerPixel()), x, y)
}

// AppendRaysForCoordinate appends the sample rays for pixel (x, y) to dst
func (c *PinholeCamera) AppendRaysForCoordinate(dst []core.Ray, x, y int) []core.Ray {
	for _, xOffset := range c.sampleOffsets {
		for _, yOffset := range c.sampleOffsets {
			px, py := c.FilmOffset(x, y, xOffset, yOffset)
			direction := c.basis.Apply(px, py, c.negZoom).Normalize()
			dst = append(dst, core.NewRay(c.position, direction))
		}
	}
	return dst
}

// CenterRay returns a single ray through the center of pixel (x, y)
func (c *PinholeCamera) CenterRay(x, y int) core.Ray {
	px, py := c.FilmOffset(x, y, 0.5, 0.5)
	return core.NewRay(c.position, c.basis.Apply(px, py, c.negZoom).Normalize())
}

// FilmOffset returns the camera-local film coordinates of a sample at
// fractional position (dx, dy) inside pixel (x, y)
func (c *PinholeCamera) FilmOffset(x, y int, dx, dy float64) (px, py float64) {
	px = c.pixelWidth * (float64(x) - c.halfResX + dx)
	py = c.pixelHeight * (float64(y) - c.halfResY + dy)
	return px, py
}
