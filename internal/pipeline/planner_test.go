package pipeline

import (
	"testing"
	"time"

	"voxelstream/internal/config"
	"voxelstream/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

func smallRender(view, far int) *config.RenderSettings {
	rs := config.Default(config.ProfileDebug).Render
	rs.SetViewRadius(view, view, view)
	rs.SetFarViewRadius(far)
	rs.SetDropPadding(1)
	return rs
}

func TestPlannerLoadsViewExtent(t *testing.T) {
	slots := NewSlotSet()
	p := NewPlanner(smallRender(1, 2), slots)

	plan := p.Update(mgl32.Vec3{10, 10, 10}, time.Now())
	if len(plan.LoadChunks) != 27 {
		t.Fatalf("loads: got %d, want 27", len(plan.LoadChunks))
	}
	if plan.LoadChunks[0] != (world.ChunkCoord{}) {
		t.Fatalf("first load: got %v, want the center chunk", plan.LoadChunks[0])
	}
	if len(plan.LoadColumns) != 25 {
		t.Fatalf("columns: got %d, want 25", len(plan.LoadColumns))
	}
	if len(plan.DropChunks) != 0 || plan.Throttled {
		t.Fatalf("unexpected drops or throttling: %+v", plan)
	}

	if again := p.Update(mgl32.Vec3{10, 10, 10}, time.Now()); !again.Empty() {
		t.Fatalf("second update at same spot changed slots: %+v", again)
	}
}

func TestPlannerDropsWithPadding(t *testing.T) {
	slots := NewSlotSet()
	p := NewPlanner(smallRender(1, 1), slots)
	p.Update(mgl32.Vec3{}, time.Now())

	// Move two chunks along +X: chunk X=-1 is 3 away, beyond radius 1 + padding 1.
	plan := p.Update(mgl32.Vec3{2 * world.ChunkSize, 0, 0}, time.Now())
	if len(plan.DropChunks) != 9 {
		t.Fatalf("drops: got %d, want 9", len(plan.DropChunks))
	}
	for _, c := range plan.DropChunks {
		if c.X != -1 {
			t.Fatalf("dropped %v inside padding", c)
		}
		if slots.HasSlot(c) {
			t.Fatalf("dropped %v still has a slot", c)
		}
	}
	if !slots.HasSlot(world.ChunkCoord{X: 0}) {
		t.Fatalf("chunk within padding was dropped")
	}
	for _, c := range plan.DropColumns {
		if c.X != -1 {
			t.Fatalf("dropped column %v inside padding", c)
		}
	}
}

func TestPlannerLoadRate(t *testing.T) {
	rs := smallRender(1, 1)
	rs.SetLoadRate(5)
	slots := NewSlotSet()
	p := NewPlanner(rs, slots)

	now := time.Now()
	plan := p.Update(mgl32.Vec3{}, now)
	if len(plan.LoadChunks) != 5 || !plan.Throttled {
		t.Fatalf("first burst: got %d loads (throttled=%v), want 5", len(plan.LoadChunks), plan.Throttled)
	}
	if plan.LoadChunks[0] != (world.ChunkCoord{}) {
		t.Fatalf("throttled loads are not nearest first: %v", plan.LoadChunks)
	}

	plan = p.Update(mgl32.Vec3{}, now.Add(time.Second))
	if len(plan.LoadChunks) != 5 {
		t.Fatalf("after refill: got %d loads, want 5", len(plan.LoadChunks))
	}

	rs.SetLoadRate(0)
	plan = p.Update(mgl32.Vec3{}, now.Add(time.Second))
	if len(plan.LoadChunks) != 17 || plan.Throttled {
		t.Fatalf("unlimited: got %d loads (throttled=%v), want 17", len(plan.LoadChunks), plan.Throttled)
	}
}
