package main

import (
	"log"
	"time"

	"voxelstream/internal/physics"
	"voxelstream/internal/pipeline"
	"voxelstream/internal/profiling"
	"voxelstream/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// StreamLoop drives the planner and streamer around a moving viewpoint.
type StreamLoop struct {
	planner  *pipeline.Planner
	streamer *pipeline.Streamer
	sink     *countingSink
	prof     *profiling.Profiler
	logger   *log.Logger
	limiter  *TickLimiter

	viewpoint mgl32.Vec3
	velocity  mgl32.Vec3
	// clearance is the minimum height kept above loaded terrain.
	clearance float32

	ticks      int
	statsEvery time.Duration
	lastStats  time.Time
	lastTime   time.Time
}

// Run ticks until maxTicks have elapsed (forever when maxTicks is zero).
func (l *StreamLoop) Run(maxTicks int) {
	l.lastTime = time.Now()
	l.lastStats = l.lastTime
	for maxTicks <= 0 || l.ticks < maxTicks {
		l.tick()
		l.limiter.Wait()
	}
	l.logStats()
}

func (l *StreamLoop) tick() {
	now := time.Now()
	dt := float32(now.Sub(l.lastTime).Seconds())
	l.lastTime = now
	l.ticks++

	l.viewpoint = l.viewpoint.Add(l.velocity.Mul(dt))

	plan := l.planner.Update(l.viewpoint, now)
	for _, c := range plan.DropChunks {
		l.sink.forgetChunk(c)
	}
	for _, c := range plan.DropColumns {
		l.sink.forgetColumn(c)
	}
	l.streamer.Apply(plan)
	l.streamer.Tick(l.viewpoint)
	l.keepClearance()

	if l.statsEvery > 0 && now.Sub(l.lastStats) >= l.statsEvery {
		l.lastStats = now
		l.logStats()
	}
}

// keepClearance lifts the viewpoint when loaded terrain rises under it.
func (l *StreamLoop) keepClearance() {
	if l.clearance <= 0 {
		return
	}
	vp := l.viewpoint
	ground, ok := physics.FindGroundLevel(vp.X(), vp.Z(), vp.Y()+l.clearance, 2*world.ChunkSize, l.streamer.Store())
	if ok && vp.Y() < ground+l.clearance {
		l.viewpoint[1] = ground + l.clearance
	}
}

func (l *StreamLoop) logStats() {
	down := physics.Raycast(l.viewpoint, mgl32.Vec3{0, -1, 0}, 0, 4*world.ChunkSize, l.streamer.Store())
	if down.Hit {
		l.logger.Printf("%v %.1f below at %v", down.Voxel, down.Distance, down.HitPosition)
	}

	l.logger.Printf("tick %d at %.0f,%.0f,%.0f: %v; drawing %d chunks (%d quads), %d/%d far columns; last tick %s",
		l.ticks, l.viewpoint.X(), l.viewpoint.Y(), l.viewpoint.Z(),
		l.streamer.Stats(), len(l.sink.chunks), l.sink.quads,
		l.sink.visibleColumns(), len(l.sink.columns), l.prof.TopN(3))
}
