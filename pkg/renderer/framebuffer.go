package renderer

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

// Encoding selects how linear colors are quantized to 8-bit output
type Encoding int

const (
	EncodingSRGB   Encoding = iota // Piecewise sRGB transfer curve, rounded
	EncodingLinear                 // Linear scale by 255, truncated
)

// String returns the flag name of the encoding
func (e Encoding) String() string {
	switch e {
	case EncodingSRGB:
		return "srgb"
	case EncodingLinear:
		return "linear"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// ParseEncoding parses "srgb" or "linear"
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(s) {
	case "srgb":
		return EncodingSRGB, nil
	case "linear":
		return EncodingLinear, nil
	default:
		return 0, fmt.Errorf("unknown encoding %q (expected srgb or linear)", s)
	}
}

// Encode clamps c and quantizes it to an opaque 8-bit RGBA value
func (e Encoding) Encode(c core.Color) color.RGBA {
	var rgb [3]uint8
	if e == EncodingLinear {
		rgb = c.ToRGB()
	} else {
		rgb = c.ToSRGB()
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
}

// Decode converts an 8-bit value produced by Encode back to a linear color
func (e Encoding) Decode(c color.RGBA) core.Color {
	if e == EncodingLinear {
		return core.FromRGB(c.R, c.G, c.B)
	}
	return core.FromSRGB(c.R, c.G, c.B)
}

// Framebuffer holds one linear color per pixel in row-major order
type Framebuffer struct {
	Width  int
	Height int
	Pixels []core.Color
}

// NewFramebuffer allocates a black framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]core.Color, width*height),
	}
}

// At returns the color of pixel (x, y)
func (fb *Framebuffer) At(x, y int) core.Color {
	return fb.Pixels[y*fb.Width+x]
}

// Set stores the color of pixel (x, y). Writers on disjoint pixels need no locking.
func (fb *Framebuffer) Set(x, y int, c core.Color) {
	fb.Pixels[y*fb.Width+x] = c
}

// ToImage encodes the framebuffer into an RGBA image
func (fb *Framebuffer) ToImage(encoding Encoding) *image.RGBA {
	return fb.EncodeRect(image.Rect(0, 0, fb.Width, fb.Height), encoding)
}

// EncodeRect encodes the pixels inside r, clipped to the framebuffer. The
// returned image keeps r's coordinates.
func (fb *Framebuffer) EncodeRect(r image.Rectangle, encoding Encoding) *image.RGBA {
	r = r.Intersect(image.Rect(0, 0, fb.Width, fb.Height))
	img := image.NewRGBA(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, encoding.Encode(fb.At(x, y)))
		}
	}
	return img
}
