package loaders

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG decoder
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// ImageData contains a decoded image as linear colors
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Color
}

// At returns the color of pixel (x, y)
func (d *ImageData) At(x, y int) core.Color {
	return d.Pixels[y*d.Width+x]
}

// SavePNG writes img to filename, creating parent directories as needed
func SavePNG(filename string, img image.Image) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}
	return nil
}

// LoadImage loads a PNG or JPEG image and decodes its 8-bit values to linear
// colors with the given encoding
func LoadImage(filename string, encoding renderer.Encoding) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Auto-detects PNG/JPEG from the file header
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			rgba := color.RGBAModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.RGBA)
			pixels[y*width+x] = encoding.Decode(rgba)
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}, nil
}

// RootMeanSquareError returns the RMS difference over every channel of two
// images of the same size
func RootMeanSquareError(a, b *ImageData) (float64, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return 0, fmt.Errorf("image sizes differ: %dx%d vs %dx%d", a.Width, a.Height, b.Width, b.Height)
	}
	if len(a.Pixels) == 0 {
		return 0, nil
	}

	sum := 0.0
	for i, p := range a.Pixels {
		q := b.Pixels[i]
		dr, dg, db := p.R-q.R, p.G-q.G, p.B-q.B
		sum += dr*dr + dg*dg + db*db
	}
	return math.Sqrt(sum / float64(3*len(a.Pixels))), nil
}
