package world

const (
	// ChunkSize is the logical edge length of a chunk in voxels.
	ChunkSize = 64

	// PaddedChunkSize adds a one voxel shell on each side so boundary faces
	// can be evaluated without access to neighbouring chunks.
	PaddedChunkSize = ChunkSize + 2

	PaddedChunkArea   = PaddedChunkSize * PaddedChunkSize
	PaddedChunkVolume = PaddedChunkArea * PaddedChunkSize
)

// VoxelBuffer is the padded voxel volume of a single chunk.
//
// A buffer is written only by the terrain builder. Once it has been published
// (inserted into a ChunkStore or handed to a mesher) it must be treated as
// read-only.
type VoxelBuffer struct {
	voxels []Voxel
}

// NewVoxelBuffer returns an empty padded buffer.
func NewVoxelBuffer() *VoxelBuffer {
	return &VoxelBuffer{voxels: make([]Voxel, PaddedChunkVolume)}
}

// Index linearizes padded local coordinates (x, y, z) → flat index.
func Index(x, y, z int) int {
	return x + y*PaddedChunkSize + z*PaddedChunkArea
}

func inPadded(x, y, z int) bool {
	return x >= 0 && x < PaddedChunkSize &&
		y >= 0 && y < PaddedChunkSize &&
		z >= 0 && z < PaddedChunkSize
}

// Get returns the voxel at padded local coordinates. Out of range reads are empty.
func (b *VoxelBuffer) Get(x, y, z int) Voxel {
	if !inPadded(x, y, z) {
		return VoxelEmpty
	}
	return b.voxels[Index(x, y, z)]
}

// At returns the voxel at a flat index.
func (b *VoxelBuffer) At(i int) Voxel {
	return b.voxels[i]
}

// Set writes the voxel at padded local coordinates. Out of range writes are ignored.
func (b *VoxelBuffer) Set(x, y, z int, v Voxel) {
	if !inPadded(x, y, z) {
		return
	}
	b.voxels[Index(x, y, z)] = v
}

// FillColumn fills the vertical span [y0, y1) of column (x, z) with v.
// The span is clipped to the padded volume.
func (b *VoxelBuffer) FillColumn(x, z, y0, y1 int, v Voxel) {
	if x < 0 || x >= PaddedChunkSize || z < 0 || z >= PaddedChunkSize {
		return
	}
	y0 = max(y0, 0)
	y1 = min(y1, PaddedChunkSize)
	base := x + z*PaddedChunkArea
	for y := y0; y < y1; y++ {
		b.voxels[base+y*PaddedChunkSize] = v
	}
}

// Fill writes v into the box [min, min+shape) in padded local coordinates.
func (b *VoxelBuffer) Fill(minX, minY, minZ, sizeX, sizeY, sizeZ int, v Voxel) {
	for z := minZ; z < minZ+sizeZ; z++ {
		for x := minX; x < minX+sizeX; x++ {
			b.FillColumn(x, z, minY, minY+sizeY, v)
		}
	}
}

// Data exposes the raw padded voxel slice. Callers must not modify it once
// the buffer has been published.
func (b *VoxelBuffer) Data() []Voxel {
	return b.voxels
}

// CountSolid counts non-empty voxels inside the logical (unpadded) chunk.
func (b *VoxelBuffer) CountSolid() int {
	n := 0
	for z := 1; z <= ChunkSize; z++ {
		for y := 1; y <= ChunkSize; y++ {
			for x := 1; x <= ChunkSize; x++ {
				if b.voxels[Index(x, y, z)] != VoxelEmpty {
					n++
				}
			}
		}
	}
	return n
}

// IsEmpty reports whether the whole padded volume is empty space.
func (b *VoxelBuffer) IsEmpty() bool {
	for _, v := range b.voxels {
		if v != VoxelEmpty {
			return false
		}
	}
	return true
}
