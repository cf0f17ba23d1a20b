package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
	"github.com/df07/go-pinhole-raytracer/pkg/scene"
)

const (
	minDimension = 1
	maxDimension = 2000
)

// Server handles web requests for the raytracer
type Server struct {
	port      int
	scenesDir string
}

// NewServer creates a new web server. scenesDir may be empty to serve built-in scenes only.
func NewServer(port int, scenesDir string) *Server {
	return &Server{port: port, scenesDir: scenesDir}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene    string            // Scene name (e.g., "default")
	Width    int               // Image width, 0 keeps the scene's
	Height   int               // Image height, 0 keeps the scene's
	Encoding renderer.Encoding // Output encoding
}

// Stats represents render statistics
type Stats struct {
	TotalPixels     int     `json:"totalPixels"`
	TotalRays       int     `json:"totalRays"`
	HitRays         int     `json:"hitRays"`
	SamplesPerPixel int     `json:"samplesPerPixel"`
	HitRatio        float64 `json:"hitRatio"`
	ElapsedMs       int64   `json:"elapsedMs"`
}

func newStats(stats renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:     stats.TotalPixels,
		TotalRays:       stats.TotalRays,
		HitRays:         stats.HitRays,
		SamplesPerPixel: stats.SamplesPerPixel,
		HitRatio:        stats.HitRatio(),
		ElapsedMs:       stats.Duration.Milliseconds(),
	}
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/image", s.handleImage)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and file scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		// Unloadable files are skipped; the rest of the list is still useful
		log.Printf("Scene listing warning: %v", err)
	}
	writeJSON(w, http.StatusOK, scenes)
}

// handleSceneConfig returns the default camera and render configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := s.resolveScene(sceneName)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	camera := sceneObj.CameraConfig
	bg := sceneObj.RenderConfig.Background
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":           camera.ResolutionX,
			"height":          camera.ResolutionY,
			"samplesPerPixel": renderer.NewPinholeCamera(camera).SamplesPerPixel(),
			"background":      [3]float64{bg.R, bg.G, bg.B},
			"encoding":        sceneObj.RenderConfig.Encoding.String(),
		},
		"limits": map[string]interface{}{
			"width":  map[string]int{"min": minDimension, "max": maxDimension},
			"height": map[string]int{"min": minDimension, "max": maxDimension},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// handleImage renders a scene and responds with the PNG
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// Request context cancels the render when the client disconnects
	img, stats, err := sceneObj.NewRaytracer(nil).RenderImage(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": fmt.Sprintf("Render error: %v", err)})
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("Failed to encode image: %v", err)})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Render-Rays", strconv.Itoa(stats.TotalRays))
	w.Header().Set("X-Render-Duration-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, minDimension, maxDimension); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, minDimension, maxDimension); err != nil {
		return nil, err
	}

	req.Encoding = renderer.EncodingSRGB
	if value := query.Get("encoding"); value != "" {
		if req.Encoding, err = renderer.ParseEncoding(value); err != nil {
			return nil, err
		}
	}

	return req, nil
}

// resolveScene creates a scene by the ID it is listed under. Names that are not
// listed, including file paths, are rejected.
func (s *Server) resolveScene(id string) (*scene.Scene, error) {
	scenes, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		log.Printf("Scene listing warning: %v", err)
	}

	for _, info := range scenes {
		if info.ID != id {
			continue
		}
		name := info.ID
		if info.Type == scene.SceneTypeJSON {
			name = info.FilePath
		}
		sceneObj, err := scene.Create(name, s.scenesDir)
		if err != nil {
			log.Printf("Failed to create scene %q: %v", id, err)
			return nil, fmt.Errorf("scene %q could not be loaded", id)
		}
		return sceneObj, nil
	}
	return nil, fmt.Errorf("unknown scene %q", id)
}

// createScene resolves the requested scene and applies the request overrides.
// The final resolution must be within the server limits.
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := s.resolveScene(req.Scene)
	if err != nil {
		return nil, err
	}
	sceneObj.SetResolution(req.Width, req.Height)
	sceneObj.RenderConfig.Encoding = req.Encoding

	width, height := sceneObj.CameraConfig.ResolutionX, sceneObj.CameraConfig.ResolutionY
	if !inDimensionLimits(width) || !inDimensionLimits(height) {
		return nil, fmt.Errorf("resolution %dx%d exceeds the limit of %d..%d pixels per side, set width and height",
			width, height, minDimension, maxDimension)
	}
	return sceneObj, nil
}

func inDimensionLimits(n int) bool {
	return n >= minDimension && n <= maxDimension
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
