package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/geometry"
	"github.com/df07/go-pinhole-raytracer/pkg/material"
	"github.com/df07/go-pinhole-raytracer/pkg/scene"
)

const tinyScene = `{"name": "Tiny", "spheres": [{"center": [0, 0, 0], "radius": 1, "material": {"kind": "debug"}}]}`

func writeScene(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}
	return path
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	writeScene(t, dir, "tiny.json", tinyScene)
	return NewServer(0, dir)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("Unexpected body %q", rec.Body.String())
	}
}

func TestHandleScenes(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/scenes")

	var scenes []scene.SceneInfo
	if err := json.NewDecoder(rec.Body).Decode(&scenes); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	ids := make(map[string]string)
	for _, info := range scenes {
		ids[info.ID] = info.Type
	}
	for _, id := range []string{"default", "ambient-sphere", "debug"} {
		if ids[id] != scene.SceneTypeBuiltIn {
			t.Errorf("Missing built-in scene %q", id)
		}
	}
	if ids["tiny"] != scene.SceneTypeJSON {
		t.Errorf("Missing json scene tiny, got %v", ids)
	}
}

func TestHandleSceneConfig(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/scene-config?scene=default")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var response struct {
		Defaults struct {
			Width           int    `json:"width"`
			Height          int    `json:"height"`
			SamplesPerPixel int    `json:"samplesPerPixel"`
			Encoding        string `json:"encoding"`
		} `json:"defaults"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Defaults.Width != 256 || response.Defaults.Height != 256 {
		t.Errorf("Expected 256x256, got %dx%d", response.Defaults.Width, response.Defaults.Height)
	}
	if response.Defaults.SamplesPerPixel != 16 || response.Defaults.Encoding != "srgb" {
		t.Errorf("Unexpected defaults %+v", response.Defaults)
	}

	if rec := get(t, s, "/api/scene-config?scene=nonexistent"); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown scene, got %d", rec.Code)
	}
}

func TestHandleImage(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/image?scene=ambient-sphere&width=16&height=16&encoding=linear")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}
	if rec.Header().Get("X-Render-Rays") != "4096" {
		t.Errorf("Expected 4096 rays, got %q", rec.Header().Get("X-Render-Rays"))
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
		t.Fatalf("Expected 16x16, got %v", img.Bounds())
	}
	// Green ambient sphere: 0.8 linear is 204
	_, g, _, _ := img.At(8, 8).RGBA()
	if g>>8 != 204 {
		t.Errorf("Expected green 204 at center, got %d", g>>8)
	}
}

func TestHandleImage_JSONScene(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/image?scene=tiny&width=8&height=8")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for a listed scene file, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleImage_OnlyListedScenes(t *testing.T) {
	scenesDir := t.TempDir()
	writeScene(t, scenesDir, "tiny.json", tinyScene)

	// A valid scene file that is not in the scenes directory
	outsideDir := t.TempDir()
	outsidePath := writeScene(t, outsideDir, "secret.json", tinyScene)
	relDir, err := filepath.Rel(scenesDir, outsideDir)
	if err != nil {
		t.Fatalf("Failed to build relative path: %v", err)
	}

	s := NewServer(0, scenesDir)
	for _, name := range []string{
		outsidePath,
		filepath.Join(relDir, "secret"),
		filepath.Join(relDir, "secret.json"),
		filepath.Join(scenesDir, "tiny.json"),
		"/etc/passwd.json",
	} {
		for _, endpoint := range []string{"/api/image", "/api/scene-config", "/api/inspect"} {
			target := endpoint + "?x=0&y=0&scene=" + url.QueryEscape(name)
			rec := get(t, s, target)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: expected 400, got %d", target, rec.Code)
			}
			if body := rec.Body.String(); strings.Contains(body, "open ") || strings.Contains(body, "no such file") {
				t.Errorf("%s: error exposes the file system: %s", target, body)
			}
		}

		events := sseEvents(get(t, s, "/api/render?scene="+url.QueryEscape(name)).Body.String())
		if len(events) != 1 || events[0][0] != "error" {
			t.Errorf("render %s: expected a single error event, got %v", name, events)
		}
	}
}

func TestHandleImage_SceneResolutionLimit(t *testing.T) {
	dir := t.TempDir()
	writeScene(t, dir, "wide.json", `{"camera": {"resolution": [5000, 10]},
		"spheres": [{"center": [0, 0, 0], "radius": 1, "material": {"kind": "debug"}}]}`)
	s := NewServer(0, dir)

	if rec := get(t, s, "/api/image?scene=wide"); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a scene above the size limit, got %d", rec.Code)
	}
	if rec := get(t, s, "/api/inspect?scene=wide&x=0&y=0"); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 when inspecting a scene above the size limit, got %d", rec.Code)
	}

	rec := get(t, s, "/api/image?scene=wide&width=20")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 with a width override, got %d: %s", rec.Code, rec.Body.String())
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 10 {
		t.Errorf("Expected 20x10, got %v", img.Bounds())
	}
}

func TestHandleImage_InvalidRequests(t *testing.T) {
	s := newTestServer(t)

	for _, target := range []string{
		"/api/image?width=0",
		"/api/image?width=abc",
		"/api/image?height=5000",
		"/api/image?encoding=gamma",
		"/api/image?scene=nonexistent",
	} {
		if rec := get(t, s, target); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

// sseEvents splits an SSE body into (event, data) pairs
func sseEvents(body string) [][2]string {
	var events [][2]string
	for _, block := range strings.Split(body, "\n\n") {
		lines := strings.SplitN(block, "\n", 2)
		if len(lines) != 2 {
			continue
		}
		events = append(events, [2]string{
			strings.TrimPrefix(lines[0], "event: "),
			strings.TrimPrefix(lines[1], "data: "),
		})
	}
	return events
}

func TestHandleRender_StreamsTiles(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/render?scene=ambient-sphere&width=70&height=40")

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %q", ct)
	}

	events := sseEvents(rec.Body.String())
	if len(events) == 0 {
		t.Fatal("Expected SSE events")
	}

	tiles, consoles := 0, 0
	covered := 0
	for _, ev := range events[:len(events)-1] {
		switch ev[0] {
		case "tile":
			var update TileUpdate
			if err := json.Unmarshal([]byte(ev[1]), &update); err != nil {
				t.Fatalf("Bad tile event: %v", err)
			}
			tiles++
			covered += update.Width * update.Height
			if update.TotalTiles != 6 {
				t.Errorf("Expected 6 total tiles, got %d", update.TotalTiles)
			}
		case "console":
			consoles++
		default:
			t.Errorf("Unexpected event %q before completion", ev[0])
		}
	}
	if tiles != 6 || covered != 70*40 {
		t.Errorf("Expected 6 tiles covering %d pixels, got %d tiles covering %d", 70*40, tiles, covered)
	}
	if consoles == 0 {
		t.Error("Expected console events from the renderer")
	}

	last := events[len(events)-1]
	if last[0] != "complete" {
		t.Fatalf("Expected final complete event, got %q: %s", last[0], last[1])
	}
	var complete RenderComplete
	if err := json.Unmarshal([]byte(last[1]), &complete); err != nil {
		t.Fatalf("Bad complete event: %v", err)
	}
	if complete.Stats.TotalPixels != 70*40 || complete.Stats.TotalRays != 16*70*40 {
		t.Errorf("Unexpected stats %+v", complete.Stats)
	}

	raw, err := base64.StdEncoding.DecodeString(complete.ImageData)
	if err != nil {
		t.Fatalf("Bad image data: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	if img.Bounds().Dx() != 70 || img.Bounds().Dy() != 40 {
		t.Errorf("Expected 70x40 image, got %v", img.Bounds())
	}
}

func TestHandleRender_UnknownScene(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/render?scene=nonexistent")

	events := sseEvents(rec.Body.String())
	if len(events) != 1 || events[0][0] != "error" {
		t.Errorf("Expected a single error event, got %v", events)
	}
}

func TestHandleInspect(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name           string
		target         string
		expectHit      bool
		expectedRadius float64
	}{
		{"large sphere", "/api/inspect?scene=default&width=64&height=64&x=32&y=32", true, 1.0},
		// Image x follows world y, so the small sphere below center appears on the left
		{"small sphere", "/api/inspect?scene=default&width=64&height=64&x=10&y=32", true, 0.2},
		{"background", "/api/inspect?scene=default&width=64&height=64&x=0&y=0", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}

			var response InspectResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if response.Hit != tt.expectHit {
				t.Fatalf("Expected hit=%v, got %+v", tt.expectHit, response)
			}
			if !tt.expectHit {
				return
			}

			if response.GeometryType != "sphere" || response.MaterialType != "diffuse" {
				t.Errorf("Expected diffuse sphere, got %s %s", response.MaterialType, response.GeometryType)
			}
			geom := response.Properties["geometry"].(map[string]interface{})
			if geom["radius"].(float64) != tt.expectedRadius {
				t.Errorf("Expected radius %v, got %v", tt.expectedRadius, geom["radius"])
			}
			if response.Distance <= 0 {
				t.Errorf("Expected positive distance, got %f", response.Distance)
			}
		})
	}
}

func TestHandleInspect_InvalidRequests(t *testing.T) {
	s := newTestServer(t)

	for _, target := range []string{
		"/api/inspect?scene=default&y=3",
		"/api/inspect?scene=default&x=3&y=abc",
		"/api/inspect?scene=default&width=64&height=64&x=64&y=0",
		"/api/inspect?scene=nonexistent&x=0&y=0",
	} {
		if rec := get(t, s, target); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestFindHitShape_NestedLists(t *testing.T) {
	debug := material.NewDebug()
	near := geometry.NewSphere(core.NewPoint3(0, 0, 2), 0.5, debug)
	far := geometry.NewSphere(core.NewPoint3(0, 0, 5), 0.5, debug)
	world := geometry.NewShapeList(far, geometry.NewShapeList(geometry.NewShapeList(near)))

	ray := core.NewRay(core.NewPoint3(0, 0, 0), core.NewVec3(0, 0, 1))
	shape, hit, ok := findHitShape(world, ray)
	if !ok {
		t.Fatal("Expected a hit")
	}
	if shape != core.Shape(near) {
		t.Errorf("Expected the near sphere, got %v", shape)
	}
	if hit.Distance != 1.5 {
		t.Errorf("Expected distance 1.5, got %f", hit.Distance)
	}

	if _, _, ok := findHitShape(world, core.NewRay(core.NewPoint3(0, 0, 0), core.NewVec3(0, 1, 0))); ok {
		t.Error("Expected a miss")
	}
}
