package pipeline

import (
	"math"
	"slices"
	"time"

	"voxelstream/internal/config"
	"voxelstream/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/time/rate"
)

// Plan is the set of slot changes produced by one planner update.
type Plan struct {
	LoadChunks  []world.ChunkCoord
	DropChunks  []world.ChunkCoord
	LoadColumns []world.ColumnCoord
	DropColumns []world.ColumnCoord
	// Throttled is true when chunk loads were held back by the load rate.
	Throttled bool
}

// Empty reports whether the plan changes nothing.
func (p Plan) Empty() bool {
	return len(p.LoadChunks) == 0 && len(p.DropChunks) == 0 &&
		len(p.LoadColumns) == 0 && len(p.DropColumns) == 0
}

// Planner decides which chunks and far-view columns should exist around the
// viewpoint and keeps a SlotSet in line with that.
type Planner struct {
	render  *config.RenderSettings
	slots   *SlotSet
	limiter *rate.Limiter
	rate    float64

	offsets       []world.ChunkCoord
	offsetsRadius [3]int
	colOffsets    []world.ColumnCoord
	colRadius     int
}

// NewPlanner creates a planner that edits slots.
func NewPlanner(render *config.RenderSettings, slots *SlotSet) *Planner {
	p := &Planner{
		render:    render,
		slots:     slots,
		limiter:   rate.NewLimiter(rate.Inf, 1),
		colRadius: -1,
	}
	return p
}

// syncLimiter rebuilds the load limiter when the configured rate changes.
// A fresh limiter starts with a full burst.
func (p *Planner) syncLimiter() {
	r := p.render.LoadRate()
	if r == p.rate {
		return
	}
	p.rate = r
	if r <= 0 {
		p.limiter = rate.NewLimiter(rate.Inf, 1)
		return
	}
	p.limiter = rate.NewLimiter(rate.Limit(r), max(1, int(math.Ceil(r))))
}

// chunkOffsets returns every offset within radius, nearest first.
func (p *Planner) chunkOffsets(radius [3]int) []world.ChunkCoord {
	if p.offsets != nil && p.offsetsRadius == radius {
		return p.offsets
	}
	var origin world.ChunkCoord
	offs := make([]world.ChunkCoord, 0, (2*radius[0]+1)*(2*radius[1]+1)*(2*radius[2]+1))
	for x := -radius[0]; x <= radius[0]; x++ {
		for y := -radius[1]; y <= radius[1]; y++ {
			for z := -radius[2]; z <= radius[2]; z++ {
				offs = append(offs, world.ChunkCoord{X: x, Y: y, Z: z})
			}
		}
	}
	slices.SortFunc(offs, func(a, b world.ChunkCoord) int {
		return compareByDistance(a, b, origin)
	})
	p.offsets, p.offsetsRadius = offs, radius
	return offs
}

func (p *Planner) columnOffsets(radius int) []world.ColumnCoord {
	if p.colRadius == radius {
		return p.colOffsets
	}
	var origin world.ColumnCoord
	offs := make([]world.ColumnCoord, 0, (2*radius+1)*(2*radius+1))
	for x := -radius; x <= radius; x++ {
		for z := -radius; z <= radius; z++ {
			offs = append(offs, world.ColumnCoord{X: x, Z: z})
		}
	}
	slices.SortFunc(offs, func(a, b world.ColumnCoord) int {
		return compareByDistance(a, b, origin)
	})
	p.colOffsets, p.colRadius = offs, radius
	return offs
}

type point[T any] interface {
	Dist2(T) int64
	Less(T) bool
}

func compareByDistance[T point[T]](a, b, origin T) int {
	da, db := a.Dist2(origin), b.Dist2(origin)
	switch {
	case da < db:
		return -1
	case da > db:
		return 1
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Update plans slot changes for the viewpoint. Slots beyond the view radius
// plus the drop padding on any axis are dropped; missing slots within the
// view radius are created nearest first, as fast as the load rate allows.
func (p *Planner) Update(viewpoint mgl32.Vec3, now time.Time) Plan {
	var plan Plan
	p.syncLimiter()

	center := world.ChunkFromWorld(viewpoint)
	vr := p.render.ViewRadius()
	pad := p.render.DropPadding()

	for _, c := range p.slots.Chunks() {
		if abs(c.X-center.X) > vr[0]+pad || abs(c.Y-center.Y) > vr[1]+pad || abs(c.Z-center.Z) > vr[2]+pad {
			p.slots.RemoveChunk(c)
			plan.DropChunks = append(plan.DropChunks, c)
		}
	}
	slices.SortFunc(plan.DropChunks, func(a, b world.ChunkCoord) int {
		return compareByDistance(a, b, center)
	})

	for _, off := range p.chunkOffsets(vr) {
		c := world.ChunkCoord{X: center.X + off.X, Y: center.Y + off.Y, Z: center.Z + off.Z}
		if p.slots.HasSlot(c) {
			continue
		}
		if !p.limiter.AllowN(now, 1) {
			plan.Throttled = true
			break
		}
		p.slots.AddChunk(c)
		plan.LoadChunks = append(plan.LoadChunks, c)
	}

	col := center.Column()
	far := p.render.FarViewRadius()
	for _, c := range p.slots.Columns() {
		if abs(c.X-col.X) > far+pad || abs(c.Z-col.Z) > far+pad {
			p.slots.RemoveColumn(c)
			plan.DropColumns = append(plan.DropColumns, c)
		}
	}
	slices.SortFunc(plan.DropColumns, func(a, b world.ColumnCoord) int {
		return compareByDistance(a, b, col)
	})
	for _, off := range p.columnOffsets(far) {
		c := world.ColumnCoord{X: col.X + off.X, Z: col.Z + off.Z}
		if p.slots.AddColumn(c) {
			plan.LoadColumns = append(plan.LoadColumns, c)
		}
	}
	return plan
}
