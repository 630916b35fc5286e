package meshing

import (
	"context"
	"fmt"

	"voxelstream/internal/cache"
	"voxelstream/internal/world"

	"github.com/alitto/pond/v2"
)

// ChunkJob asks for the greedy mesh of a published chunk buffer.
type ChunkJob struct {
	Coord  world.ChunkCoord
	Buffer *world.VoxelBuffer
}

// ColumnJob asks for the far-view mesh of a column. The heightmap may still
// be in flight.
type ColumnJob struct {
	Column    world.ColumnCoord
	Heightmap *cache.Future[*world.Heightmap]
}

// WorkerPool runs mesh generation off the driver goroutine.
type WorkerPool struct {
	ctx     context.Context
	cancel  context.CancelFunc
	chunks  pond.ResultPool[*Mesh]
	columns pond.ResultPool[*HeightmapMesh]
}

// NewWorkerPool creates a mesh worker pool with the given concurrency.
func NewWorkerPool(workers int) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	workers = max(workers, 1)
	return &WorkerPool{
		ctx:     ctx,
		cancel:  cancel,
		chunks:  pond.NewResultPool[*Mesh](workers, pond.WithContext(ctx)),
		columns: pond.NewResultPool[*HeightmapMesh](workers, pond.WithContext(ctx)),
	}
}

// SubmitChunk queues a chunk mesh job.
func (p *WorkerPool) SubmitChunk(job ChunkJob) *cache.Future[*Mesh] {
	return cache.Submit(p.chunks, func() (*Mesh, error) {
		if job.Buffer == nil {
			return nil, fmt.Errorf("mesh %v: no voxel buffer", job.Coord)
		}
		return MeshChunk(job.Buffer, job.Coord.Origin()), nil
	})
}

// SubmitColumn queues a far-view mesh job. The task waits for the heightmap
// if it is not ready yet.
func (p *WorkerPool) SubmitColumn(job ColumnJob) *cache.Future[*HeightmapMesh] {
	return cache.Submit(p.columns, func() (*HeightmapMesh, error) {
		hm, err := job.Heightmap.Wait(p.ctx)
		if err != nil {
			return nil, fmt.Errorf("far mesh %v: heightmap: %w", job.Column, err)
		}
		return BuildHeightmapMesh(job.Column, hm), nil
	})
}

// Running returns the number of mesh jobs currently executing.
func (p *WorkerPool) Running() int {
	return int(p.chunks.RunningWorkers() + p.columns.RunningWorkers())
}

// Shutdown cancels queued jobs and waits for running ones to return.
func (p *WorkerPool) Shutdown() {
	p.cancel()
	p.chunks.StopAndWait()
	p.columns.StopAndWait()
}
