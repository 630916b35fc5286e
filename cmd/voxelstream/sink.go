package main

import (
	"voxelstream/internal/meshing"
	"voxelstream/internal/world"
)

// countingSink stands in for a renderer: it keeps the latest mesh per slot
// and counts what it would have drawn.
type countingSink struct {
	chunks  map[world.ChunkCoord]*meshing.Mesh
	columns map[world.ColumnCoord]*meshing.HeightmapMesh
	blocked map[world.ColumnCoord]bool

	quads int
}

func newCountingSink() *countingSink {
	return &countingSink{
		chunks:  make(map[world.ChunkCoord]*meshing.Mesh),
		columns: make(map[world.ColumnCoord]*meshing.HeightmapMesh),
		blocked: make(map[world.ColumnCoord]bool),
	}
}

func (s *countingSink) ApplyChunkMesh(c world.ChunkCoord, m *meshing.Mesh) {
	if old, ok := s.chunks[c]; ok {
		s.quads -= old.QuadCount()
	}
	s.chunks[c] = m
	s.quads += m.QuadCount()
}

func (s *countingSink) ApplyColumnMesh(c world.ColumnCoord, m *meshing.HeightmapMesh) {
	s.columns[c] = m
}

func (s *countingSink) SetColumnBlocked(c world.ColumnCoord, blocked bool) {
	s.blocked[c] = blocked
}

// forgetChunk releases a dropped chunk's mesh.
func (s *countingSink) forgetChunk(c world.ChunkCoord) {
	if old, ok := s.chunks[c]; ok {
		s.quads -= old.QuadCount()
		delete(s.chunks, c)
	}
}

func (s *countingSink) forgetColumn(c world.ColumnCoord) {
	delete(s.columns, c)
	delete(s.blocked, c)
}

// visibleColumns counts far-view meshes not hidden by voxel chunks.
func (s *countingSink) visibleColumns() int {
	n := 0
	for c := range s.columns {
		if !s.blocked[c] {
			n++
		}
	}
	return n
}
