package pipeline

import (
	"sync"

	"voxelstream/internal/meshing"
	"voxelstream/internal/world"
)

// SlotRegistry reports whether the host still wants a chunk or column.
// Work for coordinates without a slot is discarded.
type SlotRegistry interface {
	HasSlot(world.ChunkCoord) bool
	HasColumnSlot(world.ColumnCoord) bool
}

// MeshSink receives finished meshes on the driver goroutine.
type MeshSink interface {
	ApplyChunkMesh(world.ChunkCoord, *meshing.Mesh)
	ApplyColumnMesh(world.ColumnCoord, *meshing.HeightmapMesh)
	// SetColumnBlocked hides or shows a far-view mesh when voxel chunks of
	// the column overlap it.
	SetColumnBlocked(world.ColumnCoord, bool)
}

// SlotSet is a map backed SlotRegistry.
type SlotSet struct {
	mu      sync.RWMutex
	chunks  map[world.ChunkCoord]struct{}
	columns map[world.ColumnCoord]struct{}
}

// NewSlotSet creates an empty slot set.
func NewSlotSet() *SlotSet {
	return &SlotSet{
		chunks:  make(map[world.ChunkCoord]struct{}),
		columns: make(map[world.ColumnCoord]struct{}),
	}
}

func (s *SlotSet) HasSlot(c world.ChunkCoord) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.chunks[c]
	return ok
}

func (s *SlotSet) HasColumnSlot(c world.ColumnCoord) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.columns[c]
	return ok
}

// AddChunk creates a slot. Returns false if it already existed.
func (s *SlotSet) AddChunk(c world.ChunkCoord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chunks[c]; ok {
		return false
	}
	s.chunks[c] = struct{}{}
	return true
}

// RemoveChunk drops a slot. Returns false if there was none.
func (s *SlotSet) RemoveChunk(c world.ChunkCoord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chunks[c]; !ok {
		return false
	}
	delete(s.chunks, c)
	return true
}

// AddColumn creates a far-view slot. Returns false if it already existed.
func (s *SlotSet) AddColumn(c world.ColumnCoord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.columns[c]; ok {
		return false
	}
	s.columns[c] = struct{}{}
	return true
}

// RemoveColumn drops a far-view slot. Returns false if there was none.
func (s *SlotSet) RemoveColumn(c world.ColumnCoord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.columns[c]; !ok {
		return false
	}
	delete(s.columns, c)
	return true
}

// Chunks returns every chunk slot, in no particular order.
func (s *SlotSet) Chunks() []world.ChunkCoord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]world.ChunkCoord, 0, len(s.chunks))
	for c := range s.chunks {
		out = append(out, c)
	}
	return out
}

// Columns returns every column slot, in no particular order.
func (s *SlotSet) Columns() []world.ColumnCoord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]world.ColumnCoord, 0, len(s.columns))
	for c := range s.columns {
		out = append(out, c)
	}
	return out
}

// Len returns the number of chunk and column slots.
func (s *SlotSet) Len() (chunks, columns int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), len(s.columns)
}
