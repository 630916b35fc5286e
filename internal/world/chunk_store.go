package world

import (
	"slices"
	"sync"
)

// ChunkStore holds the published voxel buffers of every generated chunk.
type ChunkStore struct {
	// Map of buffers indexed by their chunk coordinates
	chunks map[ChunkCoord]*VoxelBuffer
	mu     sync.RWMutex

	// Per-column index: (chunkX, chunkZ) -> set of chunkY present
	colIndex map[ColumnCoord]map[int]struct{}
}

// NewChunkStore creates an empty chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks:   make(map[ChunkCoord]*VoxelBuffer),
		colIndex: make(map[ColumnCoord]map[int]struct{}),
	}
}

// Get returns the published buffer for coord, if any.
func (cs *ChunkStore) Get(coord ChunkCoord) (*VoxelBuffer, bool) {
	cs.mu.RLock()
	buf, ok := cs.chunks[coord]
	cs.mu.RUnlock()
	return buf, ok
}

// Has checks if a chunk has been published.
func (cs *ChunkStore) Has(coord ChunkCoord) bool {
	cs.mu.RLock()
	_, ok := cs.chunks[coord]
	cs.mu.RUnlock()
	return ok
}

// Insert publishes a finished buffer. An existing buffer for the same
// coordinate is kept and false is returned; callers drop a chunk first to
// replace it.
func (cs *ChunkStore) Insert(coord ChunkCoord, buf *VoxelBuffer) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, ok := cs.chunks[coord]; ok {
		return false
	}
	cs.chunks[coord] = buf
	// maintain column index
	key := coord.Column()
	col := cs.colIndex[key]
	if col == nil {
		col = make(map[int]struct{})
		cs.colIndex[key] = col
	}
	col[coord.Y] = struct{}{}
	return true
}

// Remove drops the buffer for coord. Returns false if nothing was stored.
func (cs *ChunkStore) Remove(coord ChunkCoord) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, ok := cs.chunks[coord]; !ok {
		return false
	}
	delete(cs.chunks, coord)
	key := coord.Column()
	if col, ok := cs.colIndex[key]; ok {
		delete(col, coord.Y)
		if len(col) == 0 {
			delete(cs.colIndex, key)
		}
	}
	return true
}

// Len returns the number of published chunks.
func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.chunks)
}

// ColumnChunks returns the sorted chunk Y coordinates published for a column.
func (cs *ChunkStore) ColumnChunks(col ColumnCoord) []int {
	cs.mu.RLock()
	ys := make([]int, 0, len(cs.colIndex[col]))
	for y := range cs.colIndex[col] {
		ys = append(ys, y)
	}
	cs.mu.RUnlock()
	slices.Sort(ys)
	return ys
}

// VoxelAt returns the voxel at world coordinates, or empty space when the
// owning chunk has not been published.
func (cs *ChunkStore) VoxelAt(x, y, z int) Voxel {
	// Interior padded index 1..ChunkSize maps to world chunk*ChunkSize + 1..ChunkSize.
	coord := ChunkCoord{
		X: floorDiv(x-1, ChunkSize),
		Y: floorDiv(y-1, ChunkSize),
		Z: floorDiv(z-1, ChunkSize),
	}
	buf, ok := cs.Get(coord)
	if !ok {
		return VoxelEmpty
	}
	return buf.Get(mod(x-1, ChunkSize)+1, mod(y-1, ChunkSize)+1, mod(z-1, ChunkSize)+1)
}
