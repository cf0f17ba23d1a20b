package renderer

import (
	"image"
	"time"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Total number of pixels rendered
	TotalRays       int           // Total number of camera rays traced
	HitRays         int           // Camera rays that hit geometry
	SamplesPerPixel int           // Rays per pixel
	Duration        time.Duration // Wall time of the whole render
}

// Add accumulates the counters of another stats value. Duration is not summed.
func (rs *RenderStats) Add(other RenderStats) {
	rs.TotalPixels += other.TotalPixels
	rs.TotalRays += other.TotalRays
	rs.HitRays += other.HitRays
}

// HitRatio returns the fraction of camera rays that hit geometry
func (rs RenderStats) HitRatio() float64 {
	if rs.TotalRays == 0 {
		return 0
	}
	return float64(rs.HitRays) / float64(rs.TotalRays)
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an 8-bit
// image with channels normalized to [0,1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// RGBA returns uint32 in [0, 65535]
			total += 0.2126*float64(r)/65535.0 + 0.7152*float64(g)/65535.0 + 0.0722*float64(b)/65535.0
		}
	}

	return total / float64(pixels)
}
