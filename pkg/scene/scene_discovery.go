package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-pinhole-raytracer/pkg/loaders"
)

const (
	SceneTypeBuiltIn = "builtin"
	SceneTypeJSON    = "json"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`                 // Name accepted by Create
	DisplayName string `json:"displayName"`        // UI display name
	Description string `json:"description"`        // Optional description
	Type        string `json:"type"`               // SceneTypeBuiltIn or SceneTypeJSON
	FilePath    string `json:"filePath,omitempty"` // Path to the scene file (json type only)
}

type builtInScene struct {
	info   SceneInfo
	create func() *Scene
}

var builtInScenes = []builtInScene{
	{SceneInfo{ID: "default", DisplayName: "Default Scene", Description: "Blue and red spheres with point and ambient light", Type: SceneTypeBuiltIn}, NewDefaultScene},
	{SceneInfo{ID: "ambient-sphere", DisplayName: "Ambient Sphere", Description: "Single ambient-lit sphere", Type: SceneTypeBuiltIn}, NewAmbientSphereScene},
	{SceneInfo{ID: "debug", DisplayName: "Debug Markers", Description: "Flat debug-material spheres for checking orientation", Type: SceneTypeBuiltIn}, NewDebugScene},
}

// FindScenesDir returns the first existing scenes directory relative to the
// working directory, or "" if there is none
func FindScenesDir() string {
	for _, path := range []string{"scenes", "../scenes"} {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return ""
}

// ListBuiltInScenes returns the scenes compiled into the binary
func ListBuiltInScenes() []SceneInfo {
	scenes := make([]SceneInfo, len(builtInScenes))
	for i, s := range builtInScenes {
		scenes[i] = s.info
	}
	return scenes
}

// ListJSONScenes scans dir for .json scene files. Files that fail to load are
// skipped and their errors joined into the returned error.
func ListJSONScenes(dir string) ([]SceneInfo, error) {
	scenes := []SceneInfo{}
	if dir == "" {
		return scenes, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var errs []error
	for _, filePath := range files {
		desc, err := loaders.LoadSceneFile(filePath)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scenes = append(scenes, jsonSceneInfo(filePath, desc))
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, errors.Join(errs...)
}

// ListAllScenes returns the built-in scenes followed by the scene files in dir
func ListAllScenes(dir string) ([]SceneInfo, error) {
	jsonScenes, err := ListJSONScenes(dir)
	return append(ListBuiltInScenes(), jsonScenes...), err
}

// Create resolves a built-in scene name, a .json path, or the name of a
// .json file in scenesDir
func Create(name, scenesDir string) (*Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("scene name cannot be empty")
	}

	for _, s := range builtInScenes {
		if s.info.ID == name {
			return s.create(), nil
		}
	}

	path := name
	if !strings.HasSuffix(strings.ToLower(name), ".json") {
		if scenesDir == "" {
			return nil, fmt.Errorf("unknown scene %q", name)
		}
		path = filepath.Join(scenesDir, name+".json")
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("unknown scene %q", name)
		}
	}

	desc, err := loaders.LoadSceneFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene %q: %w", name, err)
	}

	scene, err := FromDescription(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to build scene %q: %w", name, err)
	}
	if scene.Name == "" {
		scene.Name = baseName(path)
	}
	return scene, nil
}

func jsonSceneInfo(filePath string, desc *loaders.SceneDescription) SceneInfo {
	id := baseName(filePath)
	displayName := titleCase(id)
	if desc.Name != "" {
		displayName = desc.Name
	}
	return SceneInfo{
		ID:          id,
		DisplayName: displayName,
		Description: desc.Description,
		Type:        SceneTypeJSON,
		FilePath:    filePath,
	}
}

// baseName returns the file name without directory or extension
func baseName(filePath string) string {
	filename := filepath.Base(filePath)
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// titleCase converts a filename-style string to title case
// e.g., "three-spheres" -> "Three Spheres"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
