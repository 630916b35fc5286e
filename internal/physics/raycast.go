package physics

import (
	"math"

	"voxelstream/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// VoxelSource answers voxel lookups in world coordinates. Voxel (x, y, z)
// occupies the unit cube [x, x+1) × [y, y+1) × [z, z+1).
type VoxelSource interface {
	VoxelAt(x, y, z int) world.Voxel
}

const stepSize = float32(0.02)

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	HitPosition      [3]int
	AdjacentPosition [3]int
	Distance         float32
	Voxel            world.Voxel
	Hit              bool
}

func voxelAt(p mgl32.Vec3) [3]int {
	return [3]int{
		int(math.Floor(float64(p.X()))),
		int(math.Floor(float64(p.Y()))),
		int(math.Floor(float64(p.Z()))),
	}
}

// Raycast marches from start along direction and reports the first
// non-empty voxel between minDist and maxDist. Unpublished chunks read as
// empty space.
func Raycast(start, direction mgl32.Vec3, minDist, maxDist float32, src VoxelSource) RaycastResult {
	steps := int(maxDist / stepSize)
	lastEmpty := voxelAt(start)

	for i := 0; i <= steps; i++ {
		dist := float32(i) * stepSize
		if dist < minDist {
			continue
		}
		p := voxelAt(start.Add(direction.Mul(dist)))
		if v := src.VoxelAt(p[0], p[1], p[2]); !v.IsEmpty() {
			return RaycastResult{
				HitPosition:      p,
				AdjacentPosition: lastEmpty,
				Distance:         dist,
				Voxel:            v,
				Hit:              true,
			}
		}
		lastEmpty = p
	}
	return RaycastResult{}
}

// FindGroundLevel returns the top of the highest non-empty voxel in the
// column under (x, z), searching down from fromY for at most depth voxels.
// ok is false when nothing was found.
func FindGroundLevel(x, z, fromY float32, depth int, src VoxelSource) (ground float32, ok bool) {
	bx := int(math.Floor(float64(x)))
	bz := int(math.Floor(float64(z)))
	top := int(math.Floor(float64(fromY)))
	for by := top; by > top-depth; by-- {
		if !src.VoxelAt(bx, by, bz).IsEmpty() {
			return float32(by + 1), true
		}
	}
	return 0, false
}
