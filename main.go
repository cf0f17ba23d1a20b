package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/loaders"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
	"github.com/df07/go-pinhole-raytracer/pkg/scene"
)

func main() {
	// Parse command line flags
	sceneName := flag.String("scene", "default", "Built-in scene name, scene file name in scenes/, or path to a .json scene")
	output := flag.String("output", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = CPU count)")
	tileSize := flag.Int("tile", renderer.DefaultTileSize, "Tile edge length in pixels")
	encoding := flag.String("encoding", "srgb", "Output encoding: 'srgb' or 'linear'")
	width := flag.Int("width", 0, "Override image width in pixels")
	height := flag.Int("height", 0, "Override image height in pixels")
	compare := flag.String("compare", "", "Reference PNG to compare the saved render against")
	maxError := flag.Float64("max-error", 0, "Fail when the RMS difference from -compare exceeds this (0 = report only)")
	list := flag.Bool("list", false, "List available scenes")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Pinhole Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png unless -output is set")
		return
	}

	if *list {
		listScenes()
		return
	}

	opts := renderOptions{
		sceneName:   *sceneName,
		outputPath:  *output,
		workers:     *workers,
		tileSize:    *tileSize,
		encoding:    *encoding,
		width:       *width,
		height:      *height,
		comparePath: *compare,
		maxError:    *maxError,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, renderer.NewDefaultLogger()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type renderOptions struct {
	sceneName   string
	outputPath  string
	workers     int
	tileSize    int
	encoding    string
	width       int
	height      int
	comparePath string  // Reference image, empty to skip the comparison
	maxError    float64 // Largest accepted RMS difference, 0 to only report it
}

// run renders the selected scene and writes it as a PNG
func run(ctx context.Context, opts renderOptions, logger core.Logger) error {
	enc, err := renderer.ParseEncoding(opts.encoding)
	if err != nil {
		return err
	}
	if opts.width < 0 || opts.height < 0 {
		return fmt.Errorf("resolution overrides must not be negative, got %dx%d", opts.width, opts.height)
	}
	if opts.maxError < 0 {
		return fmt.Errorf("max error must not be negative, got %g", opts.maxError)
	}

	selectedScene, err := createScene(opts.sceneName)
	if err != nil {
		return err
	}

	selectedScene.SetResolution(opts.width, opts.height)
	selectedScene.RenderConfig.NumWorkers = opts.workers
	selectedScene.RenderConfig.TileSize = opts.tileSize
	selectedScene.RenderConfig.Encoding = enc

	if err := selectedScene.CameraConfig.Validate(); err != nil {
		return fmt.Errorf("invalid camera: %w", err)
	}

	logger.Printf("Using scene %s...\n", selectedScene.Name)

	img, stats, err := selectedScene.NewRaytracer(logger).RenderImage(ctx)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	outputPath := opts.outputPath
	if outputPath == "" {
		outputPath = createOutputPath(opts.sceneName, time.Now())
	}
	if err := loaders.SavePNG(outputPath, img); err != nil {
		return err
	}

	logger.Printf("Rendered %d pixels, %d rays/pixel, average luminance %.3f\n",
		stats.TotalPixels, stats.SamplesPerPixel, renderer.CalculateAverageLuminance(img))
	logger.Printf("Render saved as %s\n", outputPath)

	if opts.comparePath == "" {
		return nil
	}
	return compareWithReference(outputPath, opts.comparePath, enc, opts.maxError, logger)
}

// compareWithReference reloads the saved render and reports its RMS difference
// from a reference image, both decoded to linear colors
func compareWithReference(outputPath, referencePath string, enc renderer.Encoding, maxError float64, logger core.Logger) error {
	rendered, err := loaders.LoadImage(outputPath, enc)
	if err != nil {
		return fmt.Errorf("failed to reload render: %w", err)
	}
	reference, err := loaders.LoadImage(referencePath, enc)
	if err != nil {
		return fmt.Errorf("failed to load reference: %w", err)
	}

	rmse, err := loaders.RootMeanSquareError(rendered, reference)
	if err != nil {
		return fmt.Errorf("cannot compare with %s: %w", referencePath, err)
	}
	logger.Printf("RMS difference from %s: %.6f\n", referencePath, rmse)

	if maxError > 0 && rmse > maxError {
		return fmt.Errorf("render differs from %s: RMS %.6f exceeds %.6f", referencePath, rmse, maxError)
	}
	return nil
}

// createScene resolves a scene name against the built-ins and the scenes directory
func createScene(sceneName string) (*scene.Scene, error) {
	return scene.Create(sceneName, scene.FindScenesDir())
}

// createOutputPath returns output/<scene>/render_<timestamp>.png, using the
// file name for scenes given as a path
func createOutputPath(sceneName string, now time.Time) string {
	base := filepath.Base(sceneName)
	base = base[:len(base)-len(filepath.Ext(base))]
	if base == "" || base == "." {
		base = "scene"
	}
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", base, fmt.Sprintf("render_%s.png", timestamp))
}

// listScenes prints every scene name accepted by -scene
func listScenes() {
	scenes, err := scene.ListAllScenes(scene.FindScenesDir())
	fmt.Println("Available scenes:")
	for _, info := range scenes {
		fmt.Printf("  %-16s %-8s %s\n", info.ID, info.Type, info.Description)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: some scene files could not be loaded: %v\n", err)
	}
}
