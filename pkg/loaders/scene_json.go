package loaders

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/lights"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// Triple is a JSON array of three numbers: a position, direction or linear RGB color
type Triple [3]float64

func (t Triple) Point3() core.Point3 { return core.NewPoint3(t[0], t[1], t[2]) }
func (t Triple) Vec3() core.Vec3     { return core.NewVec3(t[0], t[1], t[2]) }
func (t Triple) Color() core.Color   { return core.NewColor(t[0], t[1], t[2]) }

// MaterialKind names a surface material in a scene file
type MaterialKind string

const (
	MaterialKindDiffuse MaterialKind = "diffuse"
	MaterialKindDebug   MaterialKind = "debug"
)

// SceneDescription is the on-disk form of a scene. Omitted optional fields
// fall back to the renderer defaults.
type SceneDescription struct {
	Name        string              `json:"name,omitempty"`
	Description string              `json:"description,omitempty"`
	Camera      CameraDescription   `json:"camera"`
	Background  *Triple             `json:"background,omitempty"`
	Ambient     *LightDescription   `json:"ambient,omitempty"`
	Lights      []LightDescription  `json:"lights,omitempty"`
	Spheres     []SphereDescription `json:"spheres"`
}

type CameraDescription struct {
	Position       *Triple  `json:"position,omitempty"`
	LookAt         *Triple  `json:"lookAt,omitempty"`
	Up             *Triple  `json:"up,omitempty"`
	Zoom           *float64 `json:"zoom,omitempty"`
	FilmWidth      *float64 `json:"filmWidth,omitempty"` // Film height follows the aspect ratio
	Resolution     *[2]int  `json:"resolution,omitempty"`
	SamplesPerAxis *int     `json:"samplesPerAxis,omitempty"`
}

type LightDescription struct {
	Kind      lights.LightType `json:"kind,omitempty"` // Defaults to "point" in lights, "ambient" for the ambient field
	Position  *Triple          `json:"position,omitempty"`
	Color     Triple           `json:"color"`
	Intensity *float64         `json:"intensity,omitempty"` // Defaults to 1
}

type MaterialDescription struct {
	Kind               MaterialKind `json:"kind"`
	DiffuseReflectance float64      `json:"diffuseReflectance,omitempty"`
	DiffuseColor       Triple       `json:"diffuseColor,omitempty"`
	AmbientReflectance float64      `json:"ambientReflectance,omitempty"`
	AmbientColor       *Triple      `json:"ambientColor,omitempty"` // Defaults to the diffuse color
}

type SphereDescription struct {
	Center   Triple              `json:"center"`
	Radius   float64             `json:"radius"`
	Material MaterialDescription `json:"material"`
}

// DecodeScene reads and validates a scene description
func DecodeScene(reader io.Reader) (*SceneDescription, error) {
	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()

	var desc SceneDescription
	if err := decoder.Decode(&desc); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}
	return &desc, nil
}

// LoadSceneFile loads a scene description from a .json file
func LoadSceneFile(filename string) (*SceneDescription, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".json") {
		return nil, fmt.Errorf("invalid file type: only .json scene files are supported")
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	desc, err := DecodeScene(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return desc, nil
}

// Validate checks every value that the scene builder would otherwise pass
// straight into the renderer
func (d *SceneDescription) Validate() error {
	if err := d.Camera.Apply(renderer.DefaultCameraConfig()).Validate(); err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	if err := d.Camera.validateNumbers(); err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	if d.Background != nil {
		if err := checkTriple("background", *d.Background); err != nil {
			return err
		}
	}

	if d.Ambient != nil {
		if d.Ambient.Kind != "" && d.Ambient.Kind != lights.LightTypeAmbient {
			return fmt.Errorf("ambient: kind must be %q, got %q", lights.LightTypeAmbient, d.Ambient.Kind)
		}
		if err := d.Ambient.validate(); err != nil {
			return fmt.Errorf("ambient: %w", err)
		}
	}

	for i, light := range d.Lights {
		switch light.Kind {
		case "", lights.LightTypePoint:
			if light.Position == nil {
				return fmt.Errorf("lights[%d]: point light requires a position", i)
			}
		case lights.LightTypeAmbient:
			return fmt.Errorf("lights[%d]: ambient light must be set with the ambient field", i)
		default:
			return fmt.Errorf("lights[%d]: unknown light kind %q", i, light.Kind)
		}
		if err := light.validate(); err != nil {
			return fmt.Errorf("lights[%d]: %w", i, err)
		}
	}

	for i, sphere := range d.Spheres {
		if err := sphere.validate(); err != nil {
			return fmt.Errorf("spheres[%d]: %w", i, err)
		}
	}
	return nil
}

// Apply overlays the fields present in the description onto base
func (c CameraDescription) Apply(base renderer.CameraConfig) renderer.CameraConfig {
	config := base
	if c.Position != nil {
		config.Position = c.Position.Point3()
	}
	if c.LookAt != nil {
		config.LookAt = c.LookAt.Point3()
	}
	if c.Up != nil {
		config.Up = c.Up.Vec3()
	}
	if c.Zoom != nil {
		config.Zoom = *c.Zoom
	}
	if c.Resolution != nil {
		config.ResolutionX, config.ResolutionY = c.Resolution[0], c.Resolution[1]
	}
	if c.SamplesPerAxis != nil {
		config.SamplesPerAxis = *c.SamplesPerAxis
	}

	filmWidth := config.Width
	if c.FilmWidth != nil {
		filmWidth = *c.FilmWidth
	}
	if config.ResolutionX > 0 {
		config = config.HarmonizeDimensions(filmWidth)
	}
	return config
}

func (c CameraDescription) validateNumbers() error {
	for name, t := range map[string]*Triple{"position": c.Position, "lookAt": c.LookAt, "up": c.Up} {
		if t != nil {
			if err := checkTriple(name, *t); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l LightDescription) validate() error {
	if l.Position != nil {
		if err := checkTriple("position", *l.Position); err != nil {
			return err
		}
	}
	if err := checkTriple("color", l.Color); err != nil {
		return err
	}
	if l.Intensity != nil && !isFinite(*l.Intensity) {
		return fmt.Errorf("intensity must be finite, got %g", *l.Intensity)
	}
	return nil
}

func (s SphereDescription) validate() error {
	if err := checkTriple("center", s.Center); err != nil {
		return err
	}
	if !(s.Radius > 0) || !isFinite(s.Radius) {
		return fmt.Errorf("radius must be positive, got %g", s.Radius)
	}
	if err := s.Material.validate(); err != nil {
		return fmt.Errorf("material: %w", err)
	}
	return nil
}

func (m MaterialDescription) validate() error {
	switch m.Kind {
	case MaterialKindDebug:
		return nil
	case MaterialKindDiffuse:
	default:
		return fmt.Errorf("unknown material kind %q", m.Kind)
	}

	if !isFinite(m.DiffuseReflectance) || !isFinite(m.AmbientReflectance) {
		return fmt.Errorf("reflectance must be finite, got diffuse %g ambient %g", m.DiffuseReflectance, m.AmbientReflectance)
	}
	if err := checkTriple("diffuseColor", m.DiffuseColor); err != nil {
		return err
	}
	if m.AmbientColor != nil {
		return checkTriple("ambientColor", *m.AmbientColor)
	}
	return nil
}

func checkTriple(name string, t Triple) error {
	for _, v := range t {
		if !isFinite(v) {
			return fmt.Errorf("%s must contain finite numbers, got %v", name, t)
		}
	}
	return nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
