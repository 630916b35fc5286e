package meshing

import (
	"testing"

	"voxelstream/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

func meshOf(buf *world.VoxelBuffer) *Mesh {
	return BuildGreedyMesh(buf, NewBuffer(), mgl32.Vec3{})
}

func TestSingleVoxelMesh(t *testing.T) {
	buf := world.NewVoxelBuffer()
	buf.Set(5, 5, 5, world.VoxelGrass)
	m := meshOf(buf)
	if m.QuadCount() != 6 {
		t.Fatalf("single voxel: got %d quads, want 6", m.QuadCount())
	}
	if len(m.Positions) != 24 || len(m.Indices) != 36 {
		t.Fatalf("single voxel: got %d verts / %d indices, want 24 / 36", len(m.Positions), len(m.Indices))
	}
	for _, f := range Faces {
		if m.Faces[f].Count != 1 {
			t.Fatalf("face %v: got %d quads, want 1", f, m.Faces[f].Count)
		}
	}
}

func TestTwoVoxelsSeparated(t *testing.T) {
	buf := world.NewVoxelBuffer()
	buf.Set(5, 5, 5, world.VoxelGrass)
	buf.Set(7, 5, 5, world.VoxelGrass)
	if got := meshOf(buf).QuadCount(); got != 12 {
		t.Fatalf("two separated voxels: got %d quads, want 12", got)
	}
}

func TestTwoVoxelsTouchingGreedy(t *testing.T) {
	buf := world.NewVoxelBuffer()
	buf.Set(5, 5, 5, world.VoxelGrass)
	buf.Set(6, 5, 5, world.VoxelGrass)
	// Union is a 2x1x1 cuboid.
	if got := meshOf(buf).QuadCount(); got != 6 {
		t.Fatalf("two touching voxels: got %d quads, want 6", got)
	}
}

func TestDifferentMaterialsDoNotMerge(t *testing.T) {
	buf := world.NewVoxelBuffer()
	buf.Set(5, 5, 5, world.VoxelGrass)
	buf.Set(6, 5, 5, world.VoxelStone)
	// Four side faces split in two, plus the two end caps.
	if got := meshOf(buf).QuadCount(); got != 10 {
		t.Fatalf("mixed materials: got %d quads, want 10", got)
	}
}

func TestUniformInteriorIsSixQuads(t *testing.T) {
	buf := world.NewVoxelBuffer()
	buf.Fill(1, 1, 1, world.ChunkSize, world.ChunkSize, world.ChunkSize, world.VoxelStone)
	m := meshOf(buf)
	if m.QuadCount() != 6 {
		t.Fatalf("uniform interior: got %d quads, want 6", m.QuadCount())
	}

	scratch := NewBuffer()
	GreedyQuads(buf, scratch)
	for _, f := range Faces {
		q := scratch.Quads[f][0]
		if q.Width != world.ChunkSize || q.Height != world.ChunkSize {
			t.Fatalf("face %v: got %dx%d quad", f, q.Width, q.Height)
		}
	}
}

func TestPaddingIsNotMeshed(t *testing.T) {
	buf := world.NewVoxelBuffer()
	buf.Set(0, 10, 10, world.VoxelStone)
	buf.Set(world.PaddedChunkSize-1, 10, 10, world.VoxelStone)
	if got := meshOf(buf).QuadCount(); got != 0 {
		t.Fatalf("padding only: got %d quads, want 0", got)
	}

	full := world.NewVoxelBuffer()
	full.Fill(0, 0, 0, world.PaddedChunkSize, world.PaddedChunkSize, world.PaddedChunkSize, world.VoxelStone)
	if got := meshOf(full).QuadCount(); got != 0 {
		t.Fatalf("fully enclosed chunk: got %d quads, want 0", got)
	}
}

func TestPaddingCullsBoundaryFace(t *testing.T) {
	buf := world.NewVoxelBuffer()
	buf.Set(world.ChunkSize, 10, 10, world.VoxelStone)   // last interior cell
	buf.Set(world.ChunkSize+1, 10, 10, world.VoxelStone) // neighbour chunk, via padding
	m := meshOf(buf)
	if m.QuadCount() != 5 {
		t.Fatalf("boundary culling: got %d quads, want 5", m.QuadCount())
	}
	if m.Faces[FacePosX].Count != 0 {
		t.Fatalf("+x face emitted against solid padding")
	}
}

func TestTranslucentNeighbours(t *testing.T) {
	buf := world.NewVoxelBuffer()
	buf.Set(5, 5, 5, world.VoxelStone)
	buf.Set(6, 5, 5, world.VoxelWater)
	// Stone shows all 6 faces (its +x face looks into water); water hides
	// the face against opaque stone.
	if got := meshOf(buf).QuadCount(); got != 11 {
		t.Fatalf("stone next to water: got %d quads, want 11", got)
	}

	pool := world.NewVoxelBuffer()
	pool.Set(5, 5, 5, world.VoxelWater)
	pool.Set(6, 5, 5, world.VoxelWater)
	if got := meshOf(pool).QuadCount(); got != 6 {
		t.Fatalf("adjacent water: got %d quads, want 6", got)
	}
}

func TestWindingMatchesNormal(t *testing.T) {
	buf := world.NewVoxelBuffer()
	buf.Set(1, 1, 1, world.VoxelDirt)
	m := meshOf(buf)
	for i := 0; i < len(m.Indices); i += 3 {
		a := m.Positions[m.Indices[i]]
		b := m.Positions[m.Indices[i+1]]
		c := m.Positions[m.Indices[i+2]]
		n := m.Normals[m.Indices[i]]
		if b.Sub(a).Cross(c.Sub(a)).Dot(n) <= 0 {
			t.Fatalf("triangle %d is wound against its normal %v", i/3, n)
		}
	}
}

func TestQuadPlacement(t *testing.T) {
	buf := world.NewVoxelBuffer()
	buf.Set(1, 1, 1, world.VoxelDirt)
	m := BuildGreedyMesh(buf, NewBuffer(), mgl32.Vec3{64, 0, 0})
	if m.Origin != (mgl32.Vec3{64, 0, 0}) {
		t.Fatalf("origin: got %v", m.Origin)
	}
	top := m.Faces[FacePosY]
	for v := top.First * 4; v < (top.First+top.Count)*4; v++ {
		if m.Positions[v].Y() != 2 {
			t.Fatalf("top face vertex %v not on plane y=2", m.Positions[v])
		}
		if m.Colors[v] != world.VoxelDirt.Color() {
			t.Fatalf("top face colour: got %v", m.Colors[v])
		}
	}
	if len(m.FaceIndices(FacePosY)) != 6 {
		t.Fatalf("face indices: got %d", len(m.FaceIndices(FacePosY)))
	}
}

func TestScratchReuse(t *testing.T) {
	scratch := NewBuffer()
	a := world.NewVoxelBuffer()
	a.Fill(3, 3, 3, 4, 4, 4, world.VoxelSand)
	b := world.NewVoxelBuffer()
	b.Set(9, 9, 9, world.VoxelSand)

	first := BuildGreedyMesh(a, scratch, mgl32.Vec3{}).QuadCount()
	if got := BuildGreedyMesh(b, scratch, mgl32.Vec3{}).QuadCount(); got != 6 {
		t.Fatalf("second mesh: got %d quads, want 6", got)
	}
	if got := BuildGreedyMesh(a, scratch, mgl32.Vec3{}).QuadCount(); got != first {
		t.Fatalf("reused scratch changed result: %d vs %d", got, first)
	}
}

func BenchmarkGreedyMesh_FullSurface(b *testing.B) {
	buf := world.NewVoxelBuffer()
	buf.Fill(1, 1, 1, world.ChunkSize, 1, world.ChunkSize, world.VoxelGrass)
	scratch := NewBuffer()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = BuildGreedyMesh(buf, scratch, mgl32.Vec3{})
	}
}
