package world

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkCoord identifies a chunk in chunk space.
type ChunkCoord struct {
	X, Y, Z int
}

// ColumnCoord identifies a vertical column of chunks (the XZ projection of a
// ChunkCoord). Heightmaps are keyed by it.
type ColumnCoord struct {
	X, Z int
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

func (c ColumnCoord) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Z)
}

// Column returns the column the chunk belongs to.
func (c ChunkCoord) Column() ColumnCoord {
	return ColumnCoord{X: c.X, Z: c.Z}
}

// Chunk returns the chunk at height y within the column.
func (c ColumnCoord) Chunk(y int) ChunkCoord {
	return ChunkCoord{X: c.X, Y: y, Z: c.Z}
}

// Dist2 returns the squared euclidean distance between two chunk coordinates.
func (c ChunkCoord) Dist2(o ChunkCoord) int64 {
	dx := int64(c.X - o.X)
	dy := int64(c.Y - o.Y)
	dz := int64(c.Z - o.Z)
	return dx*dx + dy*dy + dz*dz
}

// Less orders chunk coordinates lexicographically (X, then Y, then Z).
func (c ChunkCoord) Less(o ChunkCoord) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.Z < o.Z
}

// Dist2 returns the squared euclidean distance between two column coordinates.
func (c ColumnCoord) Dist2(o ColumnCoord) int64 {
	dx := int64(c.X - o.X)
	dz := int64(c.Z - o.Z)
	return dx*dx + dz*dz
}

// Less orders column coordinates lexicographically (X, then Z).
func (c ColumnCoord) Less(o ColumnCoord) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	return c.Z < o.Z
}

// Origin returns the world-space position of the chunk's minimum corner.
func (c ChunkCoord) Origin() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(c.X * ChunkSize),
		float32(c.Y * ChunkSize),
		float32(c.Z * ChunkSize),
	}
}

// ChunkFromWorld returns the chunk containing the world-space position.
func ChunkFromWorld(pos mgl32.Vec3) ChunkCoord {
	return ChunkCoord{
		X: floorDiv(int(math.Floor(float64(pos.X()))), ChunkSize),
		Y: floorDiv(int(math.Floor(float64(pos.Y()))), ChunkSize),
		Z: floorDiv(int(math.Floor(float64(pos.Z()))), ChunkSize),
	}
}

// ColumnFromWorld returns the column containing the world-space position.
func ColumnFromWorld(pos mgl32.Vec3) ColumnCoord {
	return ChunkFromWorld(pos).Column()
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// mod returns the non-negative remainder of a / b.
func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
