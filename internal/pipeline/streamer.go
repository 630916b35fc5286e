package pipeline

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"time"

	"voxelstream/internal/cache"
	"voxelstream/internal/config"
	"voxelstream/internal/meshing"
	"voxelstream/internal/profiling"
	"voxelstream/internal/queue"
	"voxelstream/internal/world"
	"voxelstream/internal/worldgen"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// SlowTick is the tick duration above which the streamer logs its slowest stages.
const SlowTick = 20 * time.Millisecond

// Options configures a Streamer.
type Options struct {
	Settings *config.Settings
	Slots    SlotRegistry
	Sink     MeshSink
	// Store receives generated chunks. A new store is created when nil.
	Store *world.ChunkStore
	// Generator overrides the generator built from Settings.
	Generator *worldgen.Generator
	// Workers sizes each worker pool; defaults to GOMAXPROCS.
	Workers  int
	Logger   *log.Logger
	Profiler *profiling.Profiler
}

// Stats is a snapshot of the streamer's queues and in-flight work.
type Stats struct {
	GenerationQueued  int
	GenerationRunning int
	MeshQueued        int
	MeshRunning       int
	ColumnQueued      int
	ColumnRunning     int
	StoredChunks      int
	Heightmaps        int
	HeightmapsLoading int
	ChunksMeshed      uint64
	ColumnsMeshed     uint64
	Failures          uint64
}

func (s Stats) String() string {
	return fmt.Sprintf("gen %d+%d mesh %d+%d far %d+%d stored %d heightmaps %d (%d loading) meshed %d/%d failed %d",
		s.GenerationRunning, s.GenerationQueued,
		s.MeshRunning, s.MeshQueued,
		s.ColumnRunning, s.ColumnQueued,
		s.StoredChunks, s.Heightmaps, s.HeightmapsLoading,
		s.ChunksMeshed, s.ColumnsMeshed, s.Failures)
}

// Streamer owns the generation and meshing pipeline. Tick, Apply and the
// intent methods must be called from a single goroutine; heavy work runs on
// worker pools and is collected by polling.
type Streamer struct {
	settings *config.Settings
	gen      *worldgen.Generator
	store    *world.ChunkStore
	slots    SlotRegistry
	sink     MeshSink
	logger   *log.Logger
	prof     *profiling.Profiler

	ctx    context.Context
	cancel context.CancelFunc

	heightmaps *cache.FutureCache[world.ColumnCoord, *world.Heightmap]
	heightPool pond.ResultPool[*world.Heightmap]
	chunkPool  pond.ResultPool[*world.VoxelBuffer]
	meshes     *meshing.WorkerPool

	genDispatch    *Dispatcher[world.ChunkCoord]
	meshDispatch   *Dispatcher[world.ChunkCoord]
	columnDispatch *Dispatcher[world.ColumnCoord]

	genTasks    map[world.ChunkCoord]*cache.Future[*world.VoxelBuffer]
	meshTasks   map[world.ChunkCoord]*cache.Future[*meshing.Mesh]
	columnTasks map[world.ColumnCoord]*cache.Future[*meshing.HeightmapMesh]
	columnMesh  map[world.ColumnCoord]*meshing.HeightmapMesh

	center        world.ChunkCoord
	chunksMeshed  uint64
	columnsMeshed uint64
	failures      uint64
}

// NewStreamer creates a streamer and starts its worker pools.
func NewStreamer(opts Options) *Streamer {
	if opts.Settings == nil {
		opts.Settings = config.Default(config.ProfileDebug)
	}
	if opts.Store == nil {
		opts.Store = world.NewChunkStore()
	}
	if opts.Generator == nil {
		opts.Generator = worldgen.New(opts.Settings.WorldGen.Params())
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Profiler == nil {
		opts.Profiler = profiling.New()
	}
	if opts.Workers <= 0 {
		opts.Workers = max(runtime.GOMAXPROCS(0), 1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Streamer{
		settings: opts.Settings,
		gen:      opts.Generator,
		store:    opts.Store,
		slots:    opts.Slots,
		sink:     opts.Sink,
		logger:   opts.Logger,
		prof:     opts.Profiler,
		ctx:      ctx,
		cancel:   cancel,

		heightmaps: cache.NewFutureCache[world.ColumnCoord, *world.Heightmap](),
		heightPool: pond.NewResultPool[*world.Heightmap](opts.Workers, pond.WithContext(ctx)),
		chunkPool:  pond.NewResultPool[*world.VoxelBuffer](opts.Workers, pond.WithContext(ctx)),
		meshes:     meshing.NewWorkerPool(opts.Workers),

		genTasks:    make(map[world.ChunkCoord]*cache.Future[*world.VoxelBuffer]),
		meshTasks:   make(map[world.ChunkCoord]*cache.Future[*meshing.Mesh]),
		columnTasks: make(map[world.ColumnCoord]*cache.Future[*meshing.HeightmapMesh]),
		columnMesh:  make(map[world.ColumnCoord]*meshing.HeightmapMesh),
	}

	var origin world.ChunkCoord
	s.genDispatch = NewDispatcher(queue.NewDistanceQueue(origin), opts.Settings.WorldGen.MaxGenerationTasks)
	s.meshDispatch = NewDispatcher(queue.NewDistanceQueue(origin), opts.Settings.Render.MaxMeshTasks)
	s.columnDispatch = NewDispatcher(queue.NewDistanceQueue(origin.Column()), opts.Settings.Render.MaxMeshTasks)
	return s
}

// Store returns the chunk store generated buffers are published to.
func (s *Streamer) Store() *world.ChunkStore {
	return s.store
}

// Generator returns the terrain generator.
func (s *Streamer) Generator() *worldgen.Generator {
	return s.gen
}

// Close stops the worker pools. Running tasks finish; queued ones are discarded.
func (s *Streamer) Close() {
	s.cancel()
	s.heightPool.StopAndWait()
	s.chunkPool.StopAndWait()
	s.meshes.Shutdown()
}

// RequestChunk queues a chunk for generation. Its slot must already exist.
func (s *Streamer) RequestChunk(c world.ChunkCoord) {
	if s.store.Has(c) {
		return
	}
	s.genDispatch.Queue().Push(c)
}

// DropChunk forgets a chunk: pending work is dequeued and its buffer
// unpublished. Work already running completes and is then discarded.
func (s *Streamer) DropChunk(c world.ChunkCoord) {
	s.genDispatch.Queue().Remove(c)
	s.meshDispatch.Queue().Remove(c)
	if s.store.Remove(c) {
		s.updateBlocking(c.Column())
	}
}

// RequestColumn queues a far-view mesh for a column. Its slot must already exist.
func (s *Streamer) RequestColumn(c world.ColumnCoord) {
	s.columnDispatch.Queue().Push(c)
}

// DropColumn forgets a far-view column.
func (s *Streamer) DropColumn(c world.ColumnCoord) {
	s.columnDispatch.Queue().Remove(c)
	delete(s.columnMesh, c)
}

// Apply forwards a planner's slot changes.
func (s *Streamer) Apply(plan Plan) {
	for _, c := range plan.DropChunks {
		s.DropChunk(c)
	}
	for _, c := range plan.DropColumns {
		s.DropColumn(c)
	}
	for _, c := range plan.LoadChunks {
		s.RequestChunk(c)
	}
	for _, c := range plan.LoadColumns {
		s.RequestColumn(c)
	}
}

// Tick advances the pipeline one step around viewpoint. It never blocks on
// worker tasks.
func (s *Streamer) Tick(viewpoint mgl32.Vec3) {
	s.prof.ResetTick()

	s.recenter(world.ChunkFromWorld(viewpoint))
	s.maintainHeightmaps()
	s.pollGeneration()
	s.pollMeshes()
	s.pollColumns()
	s.dispatchGeneration()
	s.dispatchMeshes()
	s.dispatchColumns()

	if d := s.prof.Elapsed(); d > SlowTick {
		s.logger.Printf("Slow tick: %v. Top stages: %s", d, s.prof.TopN(5))
	}
}

func (s *Streamer) recenter(center world.ChunkCoord) {
	defer s.prof.Track("pipeline.recenter")()
	s.center = center
	s.genDispatch.Queue().UpdateCenter(center)
	s.meshDispatch.Queue().UpdateCenter(center)
	s.columnDispatch.Queue().UpdateCenter(center.Column())
}

func (s *Streamer) maintainHeightmaps() {
	defer s.prof.Track("pipeline.maintainHeightmaps")()
	for _, done := range s.heightmaps.Maintain() {
		if done.Err != nil {
			s.failures++
			s.logger.Printf("heightmap %v: %v", done.Key, done.Err)
		}
	}
	col := s.center.Column()
	s.heightmaps.Trim(s.settings.WorldGen.HeightmapCacheLimit(), func(k world.ColumnCoord) int64 {
		return k.Dist2(col)
	})
}

// heightmap returns the heightmap future for a column, starting synthesis
// if no finished or in-flight heightmap exists.
func (s *Streamer) heightmap(col world.ColumnCoord) *cache.Future[*world.Heightmap] {
	l, _ := s.heightmaps.GetOrStart(col, func() *cache.Future[*world.Heightmap] {
		return cache.Submit(s.heightPool, func() (*world.Heightmap, error) {
			return s.gen.Heightmap(col), nil
		})
	})
	if l.State == cache.Ready {
		return cache.Resolved(l.Value, nil)
	}
	return l.Future
}

func (s *Streamer) pollGeneration() {
	defer s.prof.Track("pipeline.pollGeneration")()
	for c, f := range s.genTasks {
		buf, ok, err := f.Poll()
		if !ok {
			continue
		}
		delete(s.genTasks, c)
		if err != nil {
			s.failures++
			s.logger.Printf("generate chunk %v: %v", c, err)
			continue
		}
		if s.slots != nil && !s.slots.HasSlot(c) {
			continue
		}
		if s.store.Insert(c, buf) {
			s.meshDispatch.Queue().Push(c)
			s.updateBlocking(c.Column())
		}
	}
}

func (s *Streamer) pollMeshes() {
	defer s.prof.Track("pipeline.pollMeshes")()
	for c, f := range s.meshTasks {
		m, ok, err := f.Poll()
		if !ok {
			continue
		}
		delete(s.meshTasks, c)
		if err != nil {
			s.failures++
			s.logger.Printf("mesh chunk %v: %v", c, err)
			continue
		}
		if s.slots != nil && !s.slots.HasSlot(c) {
			continue
		}
		s.chunksMeshed++
		if s.sink != nil {
			s.sink.ApplyChunkMesh(c, m)
		}
	}
}

func (s *Streamer) pollColumns() {
	defer s.prof.Track("pipeline.pollColumns")()
	for c, f := range s.columnTasks {
		m, ok, err := f.Poll()
		if !ok {
			continue
		}
		delete(s.columnTasks, c)
		if err != nil {
			s.failures++
			s.logger.Printf("far mesh %v: %v", c, err)
			continue
		}
		if s.slots != nil && !s.slots.HasColumnSlot(c) {
			continue
		}
		s.columnsMeshed++
		s.columnMesh[c] = m
		if s.sink != nil {
			s.sink.ApplyColumnMesh(c, m)
		}
		s.updateBlocking(c)
	}
}

// updateBlocking re-evaluates whether the column's far-view mesh is hidden
// by its stored chunks.
func (s *Streamer) updateBlocking(col world.ColumnCoord) {
	m, ok := s.columnMesh[col]
	if !ok || s.sink == nil {
		return
	}
	s.sink.SetColumnBlocked(col, m.Blocked(s.store.ColumnChunks(col)))
}

func (s *Streamer) dispatchGeneration() {
	defer s.prof.Track("pipeline.dispatchGeneration")()
	s.genDispatch.Dispatch(len(s.genTasks), func(c world.ChunkCoord) bool {
		if s.slots != nil && !s.slots.HasSlot(c) {
			return false
		}
		if _, running := s.genTasks[c]; running || s.store.Has(c) {
			return false
		}
		hm := s.heightmap(c.Column())
		s.genTasks[c] = cache.Submit(s.chunkPool, func() (*world.VoxelBuffer, error) {
			h, err := hm.Wait(s.ctx)
			if err != nil {
				return nil, fmt.Errorf("heightmap %v: %w", c.Column(), err)
			}
			return s.gen.Terrain(c, h), nil
		})
		return true
	})
}

func (s *Streamer) dispatchMeshes() {
	defer s.prof.Track("pipeline.dispatchMeshes")()
	s.meshDispatch.Dispatch(len(s.meshTasks), func(c world.ChunkCoord) bool {
		if s.slots != nil && !s.slots.HasSlot(c) {
			return false
		}
		if _, running := s.meshTasks[c]; running {
			return false
		}
		buf, ok := s.store.Get(c)
		if !ok {
			return false
		}
		s.meshTasks[c] = s.meshes.SubmitChunk(meshing.ChunkJob{Coord: c, Buffer: buf})
		return true
	})
}

func (s *Streamer) dispatchColumns() {
	defer s.prof.Track("pipeline.dispatchColumns")()
	s.columnDispatch.Dispatch(len(s.columnTasks), func(c world.ColumnCoord) bool {
		if s.slots != nil && !s.slots.HasColumnSlot(c) {
			return false
		}
		if _, running := s.columnTasks[c]; running {
			return false
		}
		s.columnTasks[c] = s.meshes.SubmitColumn(meshing.ColumnJob{Column: c, Heightmap: s.heightmap(c)})
		return true
	})
}

// Idle reports whether nothing is queued or running.
func (s *Streamer) Idle() bool {
	return len(s.genTasks) == 0 && len(s.meshTasks) == 0 && len(s.columnTasks) == 0 &&
		s.genDispatch.Queue().IsEmpty() && s.meshDispatch.Queue().IsEmpty() && s.columnDispatch.Queue().IsEmpty()
}

// Stats returns a snapshot of the pipeline.
func (s *Streamer) Stats() Stats {
	return Stats{
		GenerationQueued:  s.genDispatch.Queue().Len(),
		GenerationRunning: len(s.genTasks),
		MeshQueued:        s.meshDispatch.Queue().Len(),
		MeshRunning:       len(s.meshTasks),
		ColumnQueued:      s.columnDispatch.Queue().Len(),
		ColumnRunning:     len(s.columnTasks),
		StoredChunks:      s.store.Len(),
		Heightmaps:        s.heightmaps.Len(),
		HeightmapsLoading: s.heightmaps.InFlight(),
		ChunksMeshed:      s.chunksMeshed,
		ColumnsMeshed:     s.columnsMeshed,
		Failures:          s.failures,
	}
}
