package core

import "math"

// markerEpsilon stands in for zero in the secondary channels of marker colors
const markerEpsilon = 1e-6

// sRGB transfer function constants
const (
	srgbEncodeThreshold = 0.0031308
	srgbDecodeThreshold = 0.04045
	srgbLinearSlope     = 12.92
	srgbExponent        = 2.4
	srgbScale           = 1.055
	srgbOffset          = 0.055
)

// quantizeGuard absorbs float error when truncating n/255*255 back to n
const quantizeGuard = 1e-7

// Color is a linear-light RGB triple. Channels are nominally in [0,1] but may
// exceed that range after summation; they are clamped before encoding.
type Color struct {
	R, G, B float64
}

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromVec3 reinterprets a vector's components as color channels
func ColorFromVec3(v Vec3) Color {
	return Color{R: v.X, G: v.Y, B: v.Z}
}

// Black returns the zero color
func Black() Color { return Color{} }

// White returns full intensity in every channel
func White() Color { return Color{R: 1, G: 1, B: 1} }

// Red returns the red marker color
func Red() Color { return Color{R: 1, G: markerEpsilon, B: markerEpsilon} }

// Green returns the green marker color
func Green() Color { return Color{R: markerEpsilon, G: 1, B: markerEpsilon} }

// Blue returns the blue marker color
func Blue() Color { return Color{R: markerEpsilon, G: markerEpsilon, B: 1} }

// Magenta returns the magenta marker color
func Magenta() Color { return Color{R: 1, G: markerEpsilon, B: 1} }

// Add returns the component-wise sum of two colors
func (c Color) Add(other Color) Color {
	return Color{R: c.R + other.R, G: c.G + other.G, B: c.B + other.B}
}

// Multiply returns the component-wise product of two colors
func (c Color) Multiply(other Color) Color {
	return Color{R: c.R * other.R, G: c.G * other.G, B: c.B * other.B}
}

// Scale returns the color multiplied by a scalar
func (c Color) Scale(s float64) Color {
	return Color{R: c.R * s, G: c.G * s, B: c.B * s}
}

// Clamp returns the color with every channel clamped to [0,1]
func (c Color) Clamp() Color {
	return Color{R: clampUnit(c.R), G: clampUnit(c.G), B: clampUnit(c.B)}
}

// ToRGB clamps the color and quantizes it linearly to 8 bits by truncation
func (c Color) ToRGB() [3]uint8 {
	c = c.Clamp()
	return [3]uint8{quantize(c.R), quantize(c.G), quantize(c.B)}
}

// FromRGB is the inverse of ToRGB on the 8-bit grid
func FromRGB(r, g, b uint8) Color {
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// ToSRGB clamps the color, applies the sRGB transfer curve and rounds to 8 bits
func (c Color) ToSRGB() [3]uint8 {
	c = c.Clamp()
	return [3]uint8{
		uint8(math.Round(GammaEncode(c.R) * 255)),
		uint8(math.Round(GammaEncode(c.G) * 255)),
		uint8(math.Round(GammaEncode(c.B) * 255)),
	}
}

// FromSRGB decodes 8-bit sRGB values into linear light. It is the inverse of ToSRGB.
func FromSRGB(r, g, b uint8) Color {
	return Color{
		R: GammaDecode(float64(r) / 255),
		G: GammaDecode(float64(g) / 255),
		B: GammaDecode(float64(b) / 255),
	}
}

// GammaEncode maps a linear value in [0,1] to its sRGB-encoded value
func GammaEncode(x float64) float64 {
	if x <= srgbEncodeThreshold {
		return srgbLinearSlope * x
	}
	return srgbScale*math.Pow(x, 1/srgbExponent) - srgbOffset
}

// GammaDecode maps an sRGB-encoded value in [0,1] back to linear light
func GammaDecode(x float64) float64 {
	if x <= srgbDecodeThreshold {
		return x / srgbLinearSlope
	}
	return math.Pow((x+srgbOffset)/srgbScale, srgbExponent)
}

func clampUnit(x float64) float64 {
	return max(0, min(1, x))
}

func quantize(x float64) uint8 {
	return uint8(math.Floor(x*255 + quantizeGuard))
}
