// Package worldgen synthesizes heightmaps and fills chunk voxel buffers from them.
package worldgen

import (
	"fmt"
	"math"
	"strings"

	"voxelstream/internal/world"
)

// Kind selects a terrain strategy.
type Kind uint8

const (
	KindStandard Kind = iota
	KindFlat
)

func (k Kind) String() string {
	switch k {
	case KindFlat:
		return "flat"
	default:
		return "standard"
	}
}

// ParseKind maps a strategy name to its Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return KindStandard, nil
	case "flat":
		return KindFlat, nil
	default:
		return KindStandard, fmt.Errorf("unknown terrain kind %q", s)
	}
}

// Policy decides which voxels the terrain builder writes. A zero Surface or
// Fluid disables that layer.
type Policy struct {
	Solid   world.Voxel
	Surface world.Voxel
	Fluid   world.Voxel
}

// Params configures a Generator.
type Params struct {
	Kind Kind
	Seed int64

	Octaves     int
	Frequency   float64
	Persistence float64
	Lacunarity  float64
	Amplitude   float64

	// FlatHeight is the constant height produced by KindFlat.
	FlatHeight int32
	// FluidLevel is the absolute height below which columns are flooded.
	FluidLevel int32

	Policy Policy
}

// DefaultParams returns the standard terrain configuration.
func DefaultParams() Params {
	return Params{
		Kind:        KindStandard,
		Seed:        0,
		Octaves:     4,
		Frequency:   0.005,
		Persistence: 0.5,
		Lacunarity:  2.0,
		Amplitude:   100,
		FlatHeight:  32,
		FluidLevel:  0,
		Policy: Policy{
			Solid:   world.VoxelDirt,
			Surface: world.VoxelGrass,
			Fluid:   world.VoxelWater,
		},
	}
}

// FlatParams returns a single-material flat world at height.
func FlatParams(height int32) Params {
	p := DefaultParams()
	p.Kind = KindFlat
	p.FlatHeight = height
	p.Policy = Policy{Solid: world.VoxelStone}
	return p
}

// Generator is a stateless terrain source. All methods are safe for
// concurrent use and deterministic for a given Params.
type Generator struct {
	params Params
	noise  *fractal
	curve  Curve
}

// New creates a generator.
func New(p Params) *Generator {
	if p.Octaves < 1 {
		p.Octaves = 1
	}
	if p.Policy.Solid == world.VoxelEmpty {
		p.Policy.Solid = world.VoxelStone
	}
	return &Generator{
		params: p,
		noise:  newFractal(p.Seed, p.Octaves, p.Frequency, p.Persistence, p.Lacunarity),
		curve:  TerrainCurve,
	}
}

// Params returns the generator's configuration.
func (g *Generator) Params() Params {
	return g.params
}

// HeightAt returns the terrain height at world (x, z).
func (g *Generator) HeightAt(x, z int) int32 {
	if g.params.Kind == KindFlat {
		return g.params.FlatHeight
	}
	n := g.noise.At(float64(x), float64(z))
	n = g.curve.Map(n)
	n = math.Max(-1, math.Min(1, n))
	return int32(n * g.params.Amplitude)
}

// Heightmap synthesizes the padded height footprint of a column. Cell (x, z)
// samples world position col*ChunkSize + (x, z).
func (g *Generator) Heightmap(col world.ColumnCoord) *world.Heightmap {
	if g.params.Kind == KindFlat {
		return world.NewFlatHeightmap(g.params.FlatHeight)
	}
	hm := world.NewHeightmap()
	baseX := col.X * world.ChunkSize
	baseZ := col.Z * world.ChunkSize
	for z := 0; z < world.PaddedChunkSize; z++ {
		for x := 0; x < world.PaddedChunkSize; x++ {
			hm.Set(x, z, g.HeightAt(baseX+x, baseZ+z))
		}
	}
	return hm
}

// Terrain fills the padded voxel buffer of chunk c from its column heightmap.
func (g *Generator) Terrain(c world.ChunkCoord, hm *world.Heightmap) *world.VoxelBuffer {
	buf := world.NewVoxelBuffer()
	pol := g.params.Policy
	base := int64(c.Y) * world.ChunkSize

	var fluidTop int
	flood := pol.Fluid != world.VoxelEmpty
	if flood {
		fluidTop = localHeight(int64(g.params.FluidLevel), base)
	}

	for z := 0; z < world.PaddedChunkSize; z++ {
		for x := 0; x < world.PaddedChunkSize; x++ {
			h := hm.Get(x, z)
			local := localHeight(int64(h), base)
			buf.FillColumn(x, z, 0, local, pol.Solid)

			if pol.Surface != world.VoxelEmpty && local > 0 && local < world.PaddedChunkSize {
				buf.Set(x, local-1, z, pol.Surface)
			}
			if flood && h < g.params.FluidLevel {
				buf.FillColumn(x, z, local, fluidTop, pol.Fluid)
			}
		}
	}
	return buf
}

// localHeight converts an absolute height to the filled span of a chunk whose
// bottom is at base, clamped to the padded volume.
func localHeight(h, base int64) int {
	l := h - base
	if l < 0 {
		return 0
	}
	if l > world.PaddedChunkSize {
		return world.PaddedChunkSize
	}
	return int(l)
}
