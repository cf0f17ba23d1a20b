package renderer

import "image"

// DefaultTileSize is the edge length of a square render tile in pixels
const DefaultTileSize = 32

// Tile is one unit of work for the worker pool
type Tile struct {
	ID     int             // Index in the grid, row-major
	Bounds image.Rectangle // Pixels owned by this tile
}

// NewTileGrid splits a width x height image into row-major square tiles.
// Tiles on the right and bottom edges are clipped to the image.
func NewTileGrid(width, height, tileSize int) []*Tile {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	if width <= 0 || height <= 0 {
		return nil
	}

	frame := image.Rect(0, 0, width, height)
	tiles := make([]*Tile, 0, ceilDiv(width, tileSize)*ceilDiv(height, tileSize))
	for y := 0; y < height; y += tileSize {
		for x := 0; x < width; x += tileSize {
			bounds := frame.Intersect(image.Rect(x, y, x+tileSize, y+tileSize))
			tiles = append(tiles, &Tile{ID: len(tiles), Bounds: bounds})
		}
	}
	return tiles
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}
