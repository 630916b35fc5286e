package physics_test

import (
	"testing"

	"voxelstream/internal/physics"
	"voxelstream/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

type sparse map[[3]int]world.Voxel

func (s sparse) VoxelAt(x, y, z int) world.Voxel {
	return s[[3]int{x, y, z}]
}

func TestRaycast(t *testing.T) {
	w := sparse{{5, 0, 0}: world.VoxelStone}

	start := mgl32.Vec3{0.5, 0.5, 0.5}
	dir := mgl32.Vec3{1, 0, 0}
	result := physics.Raycast(start, dir, 0.1, 10, w)
	if !result.Hit {
		t.Fatalf("Expected hit, got miss")
	}
	if result.HitPosition != [3]int{5, 0, 0} || result.AdjacentPosition != [3]int{4, 0, 0} {
		t.Fatalf("hit %v adjacent %v", result.HitPosition, result.AdjacentPosition)
	}
	// Ray starts at X=0.5 and enters the voxel at X=5.
	if result.Distance < 4.49 || result.Distance > 4.51 {
		t.Fatalf("Expected distance 4.5, got %f", result.Distance)
	}
	if result.Voxel != world.VoxelStone {
		t.Fatalf("voxel: got %v", result.Voxel)
	}

	if r := physics.Raycast(start, dir, 0.1, 4, w); r.Hit {
		t.Fatalf("Expected miss due to maxDist, got hit at %v", r.HitPosition)
	}
	if r := physics.Raycast(start, mgl32.Vec3{0, 1, 0}, 0.1, 10, w); r.Hit {
		t.Fatalf("Expected miss, got hit")
	}

	w[[3]int{2, 2, 2}] = world.VoxelDirt
	if r := physics.Raycast(start, mgl32.Vec3{1, 1, 1}.Normalize(), 0.1, 10, w); !r.Hit || r.HitPosition != [3]int{2, 2, 2} {
		t.Fatalf("diagonal: got %+v", r)
	}
}

func TestFindGroundLevel(t *testing.T) {
	store := world.NewChunkStore()
	buf := world.NewVoxelBuffer()
	// World y 1..10 of column (3, 4) inside chunk (0, 0, 0).
	buf.FillColumn(3, 4, 1, 11, world.VoxelStone)
	store.Insert(world.ChunkCoord{}, buf)

	ground, ok := physics.FindGroundLevel(3.5, 4.2, 40, 64, store)
	if !ok || ground != 11 {
		t.Fatalf("ground: got %v, %v; want 11", ground, ok)
	}
	if _, ok := physics.FindGroundLevel(3.5, 4.2, 40, 20, store); ok {
		t.Fatalf("found ground beyond search depth")
	}
	if _, ok := physics.FindGroundLevel(-20, 4, 40, 64, store); ok {
		t.Fatalf("found ground in an unpublished chunk")
	}
}

func BenchmarkRaycast(b *testing.B) {
	w := sparse{}
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			w[[3]int{x, y, 5}] = world.VoxelGrass
		}
	}
	start := mgl32.Vec3{0, 8, 0}
	dir := mgl32.Vec3{0, 0, 1}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = physics.Raycast(start, dir, 0.1, 10, w)
	}
}
