package meshing

import (
	"math"

	"voxelstream/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// FarSubdivisions is the number of grid cells per side of a far-view mesh,
	// before the extra edge row.
	FarSubdivisions = 16
	farVertsPerSide = FarSubdivisions + 2
	farSampleStride = world.ChunkSize / FarSubdivisions
)

// HeightmapMesh is a low resolution surface for a column that has no voxel
// chunks loaded. Min and Max bound the sampled heights.
type HeightmapMesh struct {
	Column   world.ColumnCoord
	Mesh     *Mesh
	Min, Max int32
}

// BuildHeightmapMesh builds a far-view grid over the column's heightmap.
func BuildHeightmapMesh(col world.ColumnCoord, hm *world.Heightmap) *HeightmapMesh {
	const (
		numVerts   = farVertsPerSide * farVertsPerSide
		numIndices = (farVertsPerSide - 1) * (farVertsPerSide - 1) * 6
	)
	size := float32(world.ChunkSize)
	up := mgl32.Vec3{0, 1, 0}
	color := world.VoxelGrass.Color()

	origin := world.ChunkCoord{X: col.X, Z: col.Z}.Origin()
	m := &Mesh{
		Origin:    origin,
		Positions: make([]mgl32.Vec3, 0, numVerts),
		Normals:   make([]mgl32.Vec3, 0, numVerts),
		Colors:    make([]mgl32.Vec4, 0, numVerts),
		Indices:   make([]uint32, 0, numIndices),
	}
	out := &HeightmapMesh{Column: col, Mesh: m, Min: math.MaxInt32, Max: math.MinInt32}

	for z := 0; z < farVertsPerSide; z++ {
		for x := 0; x < farVertsPerSide; x++ {
			tx := float32(x) / float32(farVertsPerSide-1)
			tz := float32(z) / float32(farVertsPerSide-1)
			// Snap to every fourth vertex, sampled every farSampleStride cells.
			sx := x / 4 * 4 * farSampleStride
			sz := z / 4 * 4 * farSampleStride
			h := hm.Get(sx, sz)
			out.Min = min(out.Min, h)
			out.Max = max(out.Max, h)

			m.Positions = append(m.Positions, mgl32.Vec3{tx * size, float32(h), tz * size})
			m.Normals = append(m.Normals, up)
			m.Colors = append(m.Colors, color)
		}
	}

	for z := uint32(0); z < farVertsPerSide-1; z++ {
		for x := uint32(0); x < farVertsPerSide-1; x++ {
			q := z*farVertsPerSide + x
			m.Indices = append(m.Indices,
				q+farVertsPerSide+1, q+1, q+farVertsPerSide,
				q, q+farVertsPerSide, q+1,
			)
		}
	}
	m.Faces[FacePosY] = FaceRange{First: 0, Count: len(m.Indices) / 6}
	return out
}

// Blocked reports whether any of the loaded chunk heights ys overlaps the
// mesh's vertical range, in which case the voxel chunks should be drawn
// instead.
func (h *HeightmapMesh) Blocked(ys []int) bool {
	for _, y := range ys {
		lo := int64(y) * world.ChunkSize
		hi := lo + world.ChunkSize
		if lo < int64(h.Max) && int64(h.Min) < hi {
			return true
		}
	}
	return false
}
