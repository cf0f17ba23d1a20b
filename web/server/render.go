package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX      int    `json:"tileX"` // Pixel offset of the tile
	TileY      int    `json:"tileY"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	ImageData  string `json:"imageData"`  // Base64 encoded PNG of just this tile
	TileNumber int    `json:"tileNumber"` // Completion order (1-based)
	TotalTiles int    `json:"totalTiles"` // Total number of tiles in the image
}

// RenderComplete is sent once after the last tile
type RenderComplete struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG of the whole image
	Stats     Stats  `json:"stats"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// handleRender renders a scene and streams finished tiles and console output via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.writeSSEEvent(w, SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return
	}
	sceneObj, err := s.createScene(req)
	if err != nil {
		s.writeSSEEvent(w, SSEEvent{Type: "error", Data: err.Error()})
		return
	}

	// Single writer goroutine owns w from here on
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		s.writeSSEEvents(w, ctx, sseEventChan)
		close(writerDone)
	}()

	consoleChan, webLogger := s.setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
		close(consoleDone)
	}()

	width, height := sceneObj.CameraConfig.ResolutionX, sceneObj.CameraConfig.ResolutionY
	totalTiles := len(renderer.NewTileGrid(width, height, sceneObj.RenderConfig.TileSize))
	var tileNumber atomic.Int64

	raytracer := sceneObj.NewRaytracer(webLogger)
	fb, stats, err := raytracer.RenderWithCallback(ctx, func(tile *renderer.Tile, fb *renderer.Framebuffer, _ renderer.RenderStats) {
		update := TileUpdate{
			TileX:      tile.Bounds.Min.X,
			TileY:      tile.Bounds.Min.Y,
			Width:      tile.Bounds.Dx(),
			Height:     tile.Bounds.Dy(),
			TileNumber: int(tileNumber.Add(1)),
			TotalTiles: totalTiles,
		}
		s.sendTileUpdate(ctx, sseEventChan, update, fb.EncodeRect(tile.Bounds, req.Encoding))
	})

	// The logger is only used during rendering
	close(consoleChan)
	<-consoleDone
	if dropped := webLogger.Dropped(); dropped > 0 {
		log.Printf("Dropped %d console messages for a %dx%d render", dropped, width, height)
	}

	if err != nil {
		s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "error", Data: fmt.Sprintf("Rendering failed: %v", err)})
	} else {
		s.sendComplete(ctx, sseEventChan, fb, stats, req.Encoding)
	}

	close(sseEventChan)
	<-writerDone
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, *WebLogger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents writes every event from the channel until it is closed or the client disconnects
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan <-chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}
			if err := s.writeSSEEvent(w, event); err != nil {
				// Client disconnected during write
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// writeSSEEvent writes and flushes a single event
func (s *Server) writeSSEEvent(w http.ResponseWriter, event SSEEvent) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// streamConsoleMessages forwards console messages as SSE events until consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for {
		select {
		case consoleMsg, ok := <-consoleChan:
			if !ok {
				return
			}

			data, err := json.Marshal(consoleMsg)
			if err != nil {
				log.Printf("Error marshaling console message: %v", err)
				continue
			}
			s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "console", Data: string(data)})
		case <-ctx.Done():
			return
		}
	}
}

// sendTileUpdate encodes a finished tile and queues it
func (s *Server) sendTileUpdate(ctx context.Context, sseEventChan chan<- SSEEvent, update TileUpdate, tileImage image.Image) {
	tileData, err := imageToBase64PNG(tileImage)
	if err != nil {
		log.Printf("Error encoding tile image (%d, %d): %v", update.TileX, update.TileY, err)
		return
	}
	update.ImageData = tileData

	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling tile update: %v", err)
		return
	}
	s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "tile", Data: string(data)})
}

// sendComplete queues the final image and statistics
func (s *Server) sendComplete(ctx context.Context, sseEventChan chan<- SSEEvent, fb *renderer.Framebuffer, stats renderer.RenderStats, encoding renderer.Encoding) {
	imageData, err := imageToBase64PNG(fb.ToImage(encoding))
	if err != nil {
		s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "error", Data: fmt.Sprintf("Failed to encode image: %v", err)})
		return
	}

	data, err := json.Marshal(RenderComplete{ImageData: imageData, Stats: newStats(stats)})
	if err != nil {
		log.Printf("Error marshaling completion: %v", err)
		return
	}
	s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "complete", Data: string(data)})
}

// sendEvent queues an event unless the client has gone away
func (s *Server) sendEvent(ctx context.Context, sseEventChan chan<- SSEEvent, event SSEEvent) {
	select {
	case sseEventChan <- event:
	case <-ctx.Done():
	}
}
