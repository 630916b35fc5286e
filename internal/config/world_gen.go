package config

import (
	"sync"

	"voxelstream/internal/world"
	"voxelstream/internal/worldgen"
)

// WorldGenSettings holds world generation configuration
type WorldGenSettings struct {
	mu                  sync.RWMutex
	kind                worldgen.Kind
	seed                int64
	octaves             int
	frequency           float64
	amplitude           float64
	flatHeight          int32
	fluidLevel          int32
	fluid               bool
	maxGenerationTasks  int
	heightmapCacheLimit int
}

func defaultWorldGenSettings(p Profile) *WorldGenSettings {
	def := worldgen.DefaultParams()
	ws := &WorldGenSettings{
		kind:                def.Kind,
		seed:                def.Seed,
		octaves:             def.Octaves,
		frequency:           def.Frequency,
		amplitude:           def.Amplitude,
		flatHeight:          def.FlatHeight,
		fluidLevel:          def.FluidLevel,
		fluid:               false,
		maxGenerationTasks:  8,
		heightmapCacheLimit: 1024,
	}
	if p == ProfileRelease {
		ws.maxGenerationTasks = 128
		ws.heightmapCacheLimit = 4096
	}
	return ws
}

// Kind returns the terrain strategy.
func (ws *WorldGenSettings) Kind() worldgen.Kind {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.kind
}

// SetKind sets the terrain strategy.
func (ws *WorldGenSettings) SetKind(k worldgen.Kind) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.kind = k
}

// Seed returns the noise seed.
func (ws *WorldGenSettings) Seed() int64 {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.seed
}

// SetSeed sets the noise seed
func (ws *WorldGenSettings) SetSeed(seed int64) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.seed = seed
}

// SetNoise sets the fractal shape. Out of range values are clamped.
func (ws *WorldGenSettings) SetNoise(octaves int, frequency, amplitude float64) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.octaves = clamp(octaves, 1, 8)
	if frequency > 0 {
		ws.frequency = frequency
	}
	ws.amplitude = max(amplitude, 0)
}

// SetFlatHeight sets the height of flat worlds.
func (ws *WorldGenSettings) SetFlatHeight(h int32) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.flatHeight = h
}

// Fluid returns whether low columns are flooded and the level they flood to.
func (ws *WorldGenSettings) Fluid() (enabled bool, level int32) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.fluid, ws.fluidLevel
}

// SetFluid enables or disables flooding below level.
func (ws *WorldGenSettings) SetFluid(enabled bool, level int32) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.fluid = enabled
	ws.fluidLevel = level
}

// MaxGenerationTasks returns the cap on concurrently running chunk generation tasks.
func (ws *WorldGenSettings) MaxGenerationTasks() int {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.maxGenerationTasks
}

// SetMaxGenerationTasks sets the cap on concurrently running chunk generation tasks.
func (ws *WorldGenSettings) SetMaxGenerationTasks(n int) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.maxGenerationTasks = clamp(n, 1, 1024)
}

// HeightmapCacheLimit returns how many finished heightmaps are kept.
func (ws *WorldGenSettings) HeightmapCacheLimit() int {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.heightmapCacheLimit
}

// SetHeightmapCacheLimit sets how many finished heightmaps are kept.
func (ws *WorldGenSettings) SetHeightmapCacheLimit(n int) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.heightmapCacheLimit = clamp(n, 16, 1<<20)
}

// Params builds generator parameters from the current settings.
func (ws *WorldGenSettings) Params() worldgen.Params {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	p := worldgen.DefaultParams()
	if ws.kind == worldgen.KindFlat {
		p = worldgen.FlatParams(ws.flatHeight)
	}
	p.Seed = ws.seed
	p.Octaves = ws.octaves
	p.Frequency = ws.frequency
	p.Amplitude = ws.amplitude
	p.FlatHeight = ws.flatHeight
	p.FluidLevel = ws.fluidLevel
	if !ws.fluid {
		p.Policy.Fluid = world.VoxelEmpty
	}
	return p
}
