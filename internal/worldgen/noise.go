package worldgen

import (
	"github.com/ojrac/opensimplex-go"
)

// fractal sums several octaves of OpenSimplex noise. Each octave has its own
// seeded source so octaves do not correlate.
type fractal struct {
	sources     []opensimplex.Noise
	frequency   float64
	persistence float64
	lacunarity  float64
	norm        float64
}

func newFractal(seed int64, octaves int, frequency, persistence, lacunarity float64) *fractal {
	f := &fractal{
		sources:     make([]opensimplex.Noise, octaves),
		frequency:   frequency,
		persistence: persistence,
		lacunarity:  lacunarity,
	}
	amplitude := 1.0
	for i := 0; i < octaves; i++ {
		f.sources[i] = opensimplex.New(seed + int64(i))
		f.norm += amplitude
		amplitude *= persistence
	}
	return f
}

// At samples the fractal at world (x, z). The result is roughly in [-1, 1].
func (f *fractal) At(x, z float64) float64 {
	x *= f.frequency
	z *= f.frequency

	sum := 0.0
	amplitude := 1.0
	for _, src := range f.sources {
		sum += src.Eval2(x, z) * amplitude
		x *= f.lacunarity
		z *= f.lacunarity
		amplitude *= f.persistence
	}
	if f.norm == 0 {
		return 0
	}
	return sum / f.norm
}
