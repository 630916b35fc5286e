package meshing

import (
	"voxelstream/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Face is one of the six axis-aligned face directions.
type Face uint8

const (
	FacePosX Face = iota // east
	FaceNegX             // west
	FacePosY             // top
	FaceNegY             // bottom
	FacePosZ             // north
	FaceNegZ             // south
)

// Faces lists every direction in emission order.
var Faces = [6]Face{FacePosX, FaceNegX, FacePosY, FaceNegY, FacePosZ, FaceNegZ}

// Axis returns the axis (0=x, 1=y, 2=z) the face is perpendicular to.
func (f Face) Axis() int {
	return int(f) / 2
}

// Sign returns +1 for positive faces and -1 for negative ones.
func (f Face) Sign() int {
	if f%2 == 0 {
		return 1
	}
	return -1
}

// Normal returns the outward unit normal.
func (f Face) Normal() mgl32.Vec3 {
	var n mgl32.Vec3
	n[f.Axis()] = float32(f.Sign())
	return n
}

func (f Face) String() string {
	switch f {
	case FacePosX:
		return "+x"
	case FaceNegX:
		return "-x"
	case FacePosY:
		return "+y"
	case FaceNegY:
		return "-y"
	case FacePosZ:
		return "+z"
	case FaceNegZ:
		return "-z"
	default:
		return "?"
	}
}

// Quad is a merged rectangle of faces in padded local coordinates. Min is
// the voxel at the quad's minimum corner; Width runs along the face's U axis
// and Height along its V axis.
type Quad struct {
	Face          Face
	Min           [3]int
	Width, Height int
	Voxel         world.Voxel
}

// FaceRange locates the quads of one face direction within a Mesh.
type FaceRange struct {
	First, Count int
}

// Mesh is a renderable surface. Positions are relative to Origin and
// indices form a triangle list, 6 per quad.
type Mesh struct {
	Origin    mgl32.Vec3
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Colors    []mgl32.Vec4
	Indices   []uint32
	Faces     [6]FaceRange
}

// QuadCount returns the number of quads in the mesh.
func (m *Mesh) QuadCount() int {
	return len(m.Indices) / 6
}

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Indices) == 0
}

// FaceIndices returns the index slice belonging to face f.
func (m *Mesh) FaceIndices(f Face) []uint32 {
	r := m.Faces[f]
	return m.Indices[r.First*6 : (r.First+r.Count)*6]
}
