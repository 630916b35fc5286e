package world

// Heightmap holds one terrain height per cell of a padded column footprint.
// Cell (x, z) lies at world position column*ChunkSize + (x, z).
//
// Heightmaps are immutable once produced and are shared by pointer between
// every chunk generation task of the column.
type Heightmap struct {
	heights [PaddedChunkArea]int32
}

// NewHeightmap returns a heightmap filled with zero heights.
func NewHeightmap() *Heightmap {
	return &Heightmap{}
}

// NewFlatHeightmap returns a heightmap where every cell has the same height.
func NewFlatHeightmap(height int32) *Heightmap {
	h := &Heightmap{}
	for i := range h.heights {
		h.heights[i] = height
	}
	return h
}

// HeightIndex linearizes padded cell coordinates (x, z) → flat index.
func HeightIndex(x, z int) int {
	return x + z*PaddedChunkSize
}

// Get returns the height at padded cell (x, z).
func (h *Heightmap) Get(x, z int) int32 {
	return h.heights[HeightIndex(x, z)]
}

// Set writes the height at padded cell (x, z). Only valid while the
// heightmap is being synthesized.
func (h *Heightmap) Set(x, z int, height int32) {
	h.heights[HeightIndex(x, z)] = height
}

// Range returns the lowest and highest height in the heightmap.
func (h *Heightmap) Range() (lo, hi int32) {
	lo, hi = h.heights[0], h.heights[0]
	for _, v := range h.heights[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// Equal reports whether two heightmaps hold identical heights.
func (h *Heightmap) Equal(o *Heightmap) bool {
	return h.heights == o.heights
}
