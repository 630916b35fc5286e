package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"voxelstream/internal/worldgen"
)

//go:embed schema.json
var schemaJSON string

var fileSchema = jsonschema.MustCompileString("schema.json", schemaJSON)

// File is the on-disk form of Settings.
type File struct {
	Profile    string         `yaml:"profile"`
	Render     RenderFile     `yaml:"render"`
	Generation GenerationFile `yaml:"generation"`
}

type RenderFile struct {
	ViewRadius    []int   `yaml:"view_radius"`
	FarViewRadius int     `yaml:"far_view_radius"`
	DropPadding   int     `yaml:"drop_padding"`
	MaxMeshTasks  int     `yaml:"max_mesh_tasks"`
	LoadRate      float64 `yaml:"load_rate"`
}

type GenerationFile struct {
	Kind                string  `yaml:"kind"`
	Seed                int64   `yaml:"seed"`
	Octaves             int     `yaml:"octaves"`
	Frequency           float64 `yaml:"frequency"`
	Amplitude           float64 `yaml:"amplitude"`
	FlatHeight          int32   `yaml:"flat_height"`
	Fluid               bool    `yaml:"fluid"`
	FluidLevel          int32   `yaml:"fluid_level"`
	MaxGenerationTasks  int     `yaml:"max_generation_tasks"`
	HeightmapCacheLimit int     `yaml:"heightmap_cache_limit"`
}

// Load reads settings from a YAML file. Keys missing from the file keep the
// defaults of the file's profile. An empty path yields debug defaults.
func Load(path string) (*Settings, error) {
	return load(path, nil)
}

func load(path string, profile *Profile) (*Settings, error) {
	if strings.TrimSpace(path) == "" {
		if profile != nil {
			return Default(*profile), nil
		}
		return Default(ProfileDebug), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := parse(b, profile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// Parse decodes and validates YAML settings.
func Parse(b []byte) (*Settings, error) {
	return parse(b, nil)
}

func parse(b []byte, profile *Profile) (*Settings, error) {
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if doc != nil {
		if err := validate(doc); err != nil {
			return nil, err
		}
	}

	var head struct {
		Profile string `yaml:"profile"`
	}
	if err := yaml.Unmarshal(b, &head); err != nil {
		return nil, err
	}
	p, err := ParseProfile(head.Profile)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		p = *profile
	}

	s := Default(p)
	f := s.File()
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	if err := s.Apply(f); err != nil {
		return nil, err
	}
	return s, nil
}

// validate checks a decoded YAML document against the embedded schema. The
// document is round-tripped through JSON so numbers take the types the
// validator expects.
func validate(doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	if err := fileSchema.Validate(v); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}

// File snapshots the settings in their on-disk form.
func (s *Settings) File() File {
	vr := s.Render.ViewRadius()
	fluid, level := s.WorldGen.Fluid()
	p := s.WorldGen.Params()
	return File{
		Profile: s.Profile.String(),
		Render: RenderFile{
			ViewRadius:    vr[:],
			FarViewRadius: s.Render.FarViewRadius(),
			DropPadding:   s.Render.DropPadding(),
			MaxMeshTasks:  s.Render.MaxMeshTasks(),
			LoadRate:      s.Render.LoadRate(),
		},
		Generation: GenerationFile{
			Kind:                s.WorldGen.Kind().String(),
			Seed:                s.WorldGen.Seed(),
			Octaves:             p.Octaves,
			Frequency:           p.Frequency,
			Amplitude:           p.Amplitude,
			FlatHeight:          p.FlatHeight,
			Fluid:               fluid,
			FluidLevel:          level,
			MaxGenerationTasks:  s.WorldGen.MaxGenerationTasks(),
			HeightmapCacheLimit: s.WorldGen.HeightmapCacheLimit(),
		},
	}
}

// Apply copies every value of f into s through the clamping setters.
func (s *Settings) Apply(f File) error {
	if len(f.Render.ViewRadius) != 3 {
		return fmt.Errorf("render.view_radius: want 3 values, got %d", len(f.Render.ViewRadius))
	}
	kind, err := worldgen.ParseKind(f.Generation.Kind)
	if err != nil {
		return fmt.Errorf("generation.kind: %w", err)
	}

	vr := f.Render.ViewRadius
	s.Render.SetViewRadius(vr[0], vr[1], vr[2])
	s.Render.SetFarViewRadius(f.Render.FarViewRadius)
	s.Render.SetDropPadding(f.Render.DropPadding)
	s.Render.SetMaxMeshTasks(f.Render.MaxMeshTasks)
	s.Render.SetLoadRate(f.Render.LoadRate)

	g := f.Generation
	s.WorldGen.SetKind(kind)
	s.WorldGen.SetSeed(g.Seed)
	s.WorldGen.SetNoise(g.Octaves, g.Frequency, g.Amplitude)
	s.WorldGen.SetFlatHeight(g.FlatHeight)
	s.WorldGen.SetFluid(g.Fluid, g.FluidLevel)
	s.WorldGen.SetMaxGenerationTasks(g.MaxGenerationTasks)
	s.WorldGen.SetHeightmapCacheLimit(g.HeightmapCacheLimit)
	return nil
}
