package config

import (
	"flag"

	"voxelstream/internal/worldgen"
)

// Flags are the command line overrides shared by the binaries.
type Flags struct {
	Config             string
	Profile            string
	ViewRadius         int
	VerticalRadius     int
	FarViewRadius      int
	MaxMeshTasks       int
	MaxGenerationTasks int
	LoadRate           float64
	Seed               int64
	Kind               string
}

// RegisterFlags binds the shared flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "path to a YAML settings file")
	fs.StringVar(&f.Profile, "profile", "debug", "default profile: debug or release")
	fs.IntVar(&f.ViewRadius, "view-radius", 8, "horizontal view radius in chunks")
	fs.IntVar(&f.VerticalRadius, "vertical-radius", 4, "vertical view radius in chunks")
	fs.IntVar(&f.FarViewRadius, "far-view-radius", 12, "far-view radius in columns")
	fs.IntVar(&f.MaxMeshTasks, "max-mesh-tasks", 32, "concurrent mesh task cap")
	fs.IntVar(&f.MaxGenerationTasks, "max-generation-tasks", 8, "concurrent generation task cap")
	fs.Float64Var(&f.LoadRate, "load-rate", 0, "chunk loads per second, 0 for unlimited")
	fs.Int64Var(&f.Seed, "seed", 0, "world seed")
	fs.StringVar(&f.Kind, "generator", "standard", "terrain generator: standard or flat")
	return f
}

// ExplicitFlags returns the names of the flags set on the command line.
func ExplicitFlags(fs *flag.FlagSet) map[string]bool {
	explicit := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) {
		explicit[fl.Name] = true
	})
	return explicit
}

// Resolve builds settings from the profile defaults, then the config file,
// then the explicitly set flags.
func Resolve(f *Flags, explicitFlags map[string]bool) (*Settings, error) {
	var override *Profile
	if explicitFlags["profile"] || f.Config == "" {
		p, err := ParseProfile(f.Profile)
		if err != nil {
			return nil, err
		}
		override = &p
	}
	s, err := load(f.Config, override)
	if err != nil {
		return nil, err
	}
	if err := Merge(s, f, explicitFlags); err != nil {
		return nil, err
	}
	return s, nil
}

// Merge applies flag values to s, but only for flags that were explicitly
// provided on the command line.
func Merge(s *Settings, f *Flags, explicitFlags map[string]bool) error {
	if explicitFlags["view-radius"] || explicitFlags["vertical-radius"] {
		vr := s.Render.ViewRadius()
		if explicitFlags["view-radius"] {
			vr[0], vr[2] = f.ViewRadius, f.ViewRadius
		}
		if explicitFlags["vertical-radius"] {
			vr[1] = f.VerticalRadius
		}
		s.Render.SetViewRadius(vr[0], vr[1], vr[2])
	}
	if explicitFlags["far-view-radius"] {
		s.Render.SetFarViewRadius(f.FarViewRadius)
	}
	if explicitFlags["max-mesh-tasks"] {
		s.Render.SetMaxMeshTasks(f.MaxMeshTasks)
	}
	if explicitFlags["max-generation-tasks"] {
		s.WorldGen.SetMaxGenerationTasks(f.MaxGenerationTasks)
	}
	if explicitFlags["load-rate"] {
		s.Render.SetLoadRate(f.LoadRate)
	}
	if explicitFlags["seed"] {
		s.WorldGen.SetSeed(f.Seed)
	}
	if explicitFlags["generator"] {
		kind, err := worldgen.ParseKind(f.Kind)
		if err != nil {
			return err
		}
		s.WorldGen.SetKind(kind)
	}
	return nil
}
