package meshing

import (
	"sync"

	"voxelstream/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	interiorMin = 1
	interiorMax = world.ChunkSize // inclusive
	maskSize    = world.ChunkSize * world.ChunkSize
)

// planeAxes gives the in-plane (u, v) axes for faces perpendicular to each
// axis, chosen so u × v points along the positive normal.
var planeAxes = [3][2]int{
	{1, 2}, // x: u=y, v=z
	{2, 0}, // y: u=z, v=x
	{0, 1}, // z: u=x, v=y
}

// Buffer is scratch space for BuildGreedyMesh. It is reset at the start of
// every call and must not be used by two calls at once.
type Buffer struct {
	mask  []world.Voxel
	Quads [6][]Quad
}

// NewBuffer allocates a scratch buffer.
func NewBuffer() *Buffer {
	return &Buffer{mask: make([]world.Voxel, maskSize)}
}

// Reset clears the collected quads, keeping capacity.
func (b *Buffer) Reset() {
	for i := range b.Quads {
		b.Quads[i] = b.Quads[i][:0]
	}
	clear(b.mask)
}

// QuadCount returns the total number of collected quads.
func (b *Buffer) QuadCount() int {
	n := 0
	for _, q := range b.Quads {
		n += len(q)
	}
	return n
}

var bufferPool = sync.Pool{
	New: func() any { return NewBuffer() },
}

// AcquireBuffer takes a scratch buffer from the shared pool.
func AcquireBuffer() *Buffer {
	return bufferPool.Get().(*Buffer)
}

// ReleaseBuffer returns a scratch buffer to the shared pool.
func ReleaseBuffer(b *Buffer) {
	bufferPool.Put(b)
}

// faceVisible reports whether voxel v shows a face towards neighbour n.
func faceVisible(v, n world.Voxel) bool {
	if v.IsEmpty() {
		return false
	}
	switch n.Visibility() {
	case world.VisibilityEmpty:
		return true
	case world.VisibilityTranslucent:
		return v.Visibility() == world.VisibilityOpaque || v != n
	default:
		return false
	}
}

// GreedyQuads merges the visible faces of buf's interior into quads collected
// in scratch. The padding shell is only read to decide visibility.
func GreedyQuads(buf *world.VoxelBuffer, scratch *Buffer) {
	scratch.Reset()
	data := buf.Data()

	for _, face := range Faces {
		d := face.Axis()
		u, v := planeAxes[d][0], planeAxes[d][1]

		var step [3]int
		step[d] = face.Sign()
		nOffset := world.Index(step[0], step[1], step[2])

		for slice := interiorMin; slice <= interiorMax; slice++ {
			// Build the UxV visibility mask for this slice.
			var p [3]int
			p[d] = slice
			for j := 0; j < world.ChunkSize; j++ {
				p[v] = j + interiorMin
				for i := 0; i < world.ChunkSize; i++ {
					p[u] = i + interiorMin
					idx := world.Index(p[0], p[1], p[2])
					vox := data[idx]
					if faceVisible(vox, data[idx+nOffset]) {
						scratch.mask[i+j*world.ChunkSize] = vox
					} else {
						scratch.mask[i+j*world.ChunkSize] = world.VoxelEmpty
					}
				}
			}

			// Greedy merge: extend along u first, then along v.
			for j := 0; j < world.ChunkSize; j++ {
				for i := 0; i < world.ChunkSize; {
					m := scratch.mask[i+j*world.ChunkSize]
					if m == world.VoxelEmpty {
						i++
						continue
					}
					w := 1
					for i+w < world.ChunkSize && scratch.mask[i+w+j*world.ChunkSize] == m {
						w++
					}
					h := 1
				grow:
					for j+h < world.ChunkSize {
						row := (j + h) * world.ChunkSize
						for k := i; k < i+w; k++ {
							if scratch.mask[k+row] != m {
								break grow
							}
						}
						h++
					}
					for jj := j; jj < j+h; jj++ {
						clear(scratch.mask[i+jj*world.ChunkSize : i+w+jj*world.ChunkSize])
					}

					var corner [3]int
					corner[d] = slice
					corner[u] = i + interiorMin
					corner[v] = j + interiorMin
					scratch.Quads[face] = append(scratch.Quads[face], Quad{
						Face:   face,
						Min:    corner,
						Width:  w,
						Height: h,
						Voxel:  m,
					})
					i += w
				}
			}
		}
	}
}

// BuildGreedyMesh meshes buf into a new Mesh placed at origin, using scratch
// as working memory.
func BuildGreedyMesh(buf *world.VoxelBuffer, scratch *Buffer, origin mgl32.Vec3) *Mesh {
	GreedyQuads(buf, scratch)

	n := scratch.QuadCount()
	m := &Mesh{
		Origin:    origin,
		Positions: make([]mgl32.Vec3, 0, n*4),
		Normals:   make([]mgl32.Vec3, 0, n*4),
		Colors:    make([]mgl32.Vec4, 0, n*4),
		Indices:   make([]uint32, 0, n*6),
	}
	for _, face := range Faces {
		quads := scratch.Quads[face]
		m.Faces[face] = FaceRange{First: m.QuadCount(), Count: len(quads)}
		for _, q := range quads {
			m.appendQuad(q)
		}
	}
	return m
}

// MeshChunk meshes buf with a pooled scratch buffer.
func MeshChunk(buf *world.VoxelBuffer, origin mgl32.Vec3) *Mesh {
	scratch := AcquireBuffer()
	defer ReleaseBuffer(scratch)
	return BuildGreedyMesh(buf, scratch, origin)
}

func (m *Mesh) appendQuad(q Quad) {
	d := q.Face.Axis()
	u, v := planeAxes[d][0], planeAxes[d][1]

	var base mgl32.Vec3
	for a := 0; a < 3; a++ {
		base[a] = float32(q.Min[a])
	}
	if q.Face.Sign() > 0 {
		base[d]++
	}
	var du, dv mgl32.Vec3
	du[u] = float32(q.Width)
	dv[v] = float32(q.Height)

	corners := [4]mgl32.Vec3{base, base.Add(du), base.Add(du).Add(dv), base.Add(dv)}
	if q.Face.Sign() < 0 {
		corners[1], corners[3] = corners[3], corners[1]
	}

	first := uint32(len(m.Positions))
	normal := q.Face.Normal()
	color := q.Voxel.Color()
	for _, c := range corners {
		m.Positions = append(m.Positions, c)
		m.Normals = append(m.Normals, normal)
		m.Colors = append(m.Colors, color)
	}
	m.Indices = append(m.Indices, first, first+1, first+2, first+2, first+3, first)
}
