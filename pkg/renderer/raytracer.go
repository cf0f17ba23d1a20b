package renderer

import (
	"context"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// RenderConfig contains rendering configuration
type RenderConfig struct {
	TileSize   int        // Edge length of square tiles in pixels
	NumWorkers int        // Number of parallel workers (0 = use CPU count)
	Background core.Color // Color of camera rays that miss all geometry
	Encoding   Encoding   // 8-bit output transfer function
}

// DefaultBackground is a slate grey
var DefaultBackground = core.NewColor(0.3882352941, 0.431372549, 0.4470588235)

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		TileSize:   DefaultTileSize,
		NumWorkers: 0, // Auto-detect CPU count
		Background: DefaultBackground,
		Encoding:   EncodingSRGB,
	}
}

// Raytracer renders a scene through a pinhole camera
type Raytracer struct {
	scene  *core.Scene
	camera *PinholeCamera
	config RenderConfig
	logger core.Logger
}

// NewRaytracer creates a new raytracer. A nil logger discards all output.
func NewRaytracer(scene *core.Scene, camera *PinholeCamera, config RenderConfig, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = discardLogger{}
	}
	return &Raytracer{
		scene:  scene,
		camera: camera,
		config: config,
		logger: logger,
	}
}

// Camera returns the camera used for rendering
func (rt *Raytracer) Camera() *PinholeCamera {
	return rt.camera
}

// Config returns the render configuration
func (rt *Raytracer) Config() RenderConfig {
	return rt.config
}

// PixelColor averages the sample rays of pixel (x, y). rays is scratch space
// that is reused between calls; the grown slice is returned for the next call.
func (rt *Raytracer) PixelColor(x, y int, rays []core.Ray) (core.Color, RenderStats, []core.Ray) {
	rays = rt.camera.AppendRaysForCoordinate(rays[:0], x, y)

	stats := RenderStats{TotalPixels: 1, TotalRays: len(rays)}
	accum := core.Black()
	for _, ray := range rays {
		color, hit := rt.scene.TraceHit(ray)
		if !hit {
			color = rt.config.Background
		} else {
			stats.HitRays++
		}
		accum = accum.Add(color)
	}

	return accum.Scale(1.0 / float64(len(rays))), stats, rays
}

// RenderTile renders pixels within the tile bounds into fb
func (rt *Raytracer) RenderTile(tile *Tile, fb *Framebuffer) RenderStats {
	var stats RenderStats
	rays := make([]core.Ray, 0, rt.camera.SamplesPerPixel())

	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			var color core.Color
			var pixelStats RenderStats
			color, pixelStats, rays = rt.PixelColor(x, y, rays)
			fb.Set(x, y, color)
			stats.Add(pixelStats)
		}
	}

	return stats
}

// TileCallback is invoked from a worker goroutine once a tile's pixels are
// final. It may read fb within tile.Bounds only.
type TileCallback func(tile *Tile, fb *Framebuffer, stats RenderStats)

// Render renders the whole image into a linear framebuffer
func (rt *Raytracer) Render(ctx context.Context) (*Framebuffer, RenderStats, error) {
	return rt.RenderWithCallback(ctx, nil)
}

// RenderWithCallback is like Render but reports each finished tile to onTile
func (rt *Raytracer) RenderWithCallback(ctx context.Context, onTile TileCallback) (*Framebuffer, RenderStats, error) {
	width, height := rt.camera.Resolution()
	fb := NewFramebuffer(width, height)
	tiles := NewTileGrid(width, height, rt.config.TileSize)
	pool := NewWorkerPool(rt.config.NumWorkers)

	rt.logger.Printf("Rendering %dx%d at %d samples/pixel (%d tiles, %d workers)...\n",
		width, height, rt.camera.SamplesPerPixel(), len(tiles), pool.NumWorkers())

	startTime := time.Now()
	var completed atomic.Int64
	progressStep := max(1, len(tiles)/4)

	tileStats, err := pool.Run(ctx, tiles, func(tile *Tile) RenderStats {
		stats := rt.RenderTile(tile, fb)
		if onTile != nil {
			onTile(tile, fb, stats)
		}
		if done := completed.Add(1); done%int64(progressStep) == 0 && int(done) < len(tiles) {
			rt.logger.Printf("%d/%d tiles complete\n", done, len(tiles))
		}
		return stats
	})
	if err != nil {
		rt.logger.Printf("Rendering cancelled after %d/%d tiles: %v\n", completed.Load(), len(tiles), err)
		return nil, RenderStats{}, err
	}

	stats := RenderStats{SamplesPerPixel: rt.camera.SamplesPerPixel()}
	for _, ts := range tileStats {
		stats.Add(ts)
	}
	stats.Duration = time.Since(startTime)

	rt.logger.Printf("Render completed in %v (%d rays, %.1f%% hit geometry)\n",
		stats.Duration, stats.TotalRays, 100*stats.HitRatio())

	return fb, stats, nil
}

// RenderImage renders the whole image and encodes it with the configured encoding
func (rt *Raytracer) RenderImage(ctx context.Context) (*image.RGBA, RenderStats, error) {
	fb, stats, err := rt.Render(ctx)
	if err != nil {
		return nil, stats, err
	}
	return fb.ToImage(rt.config.Encoding), stats, nil
}

type discardLogger struct{}

func (discardLogger) Printf(format string, args ...interface{}) {}
