package pipeline

import (
	"testing"

	"voxelstream/internal/queue"
	"voxelstream/internal/world"
)

func lineQueue(n int) *queue.DistanceQueue[world.ChunkCoord] {
	q := queue.NewDistanceQueue(world.ChunkCoord{})
	for x := 0; x < n; x++ {
		q.Push(world.ChunkCoord{X: x})
	}
	return q
}

func TestDispatchRespectsBudget(t *testing.T) {
	q := lineQueue(10)
	d := NewDispatcher(q, func() int { return 8 })

	var got []world.ChunkCoord
	n := d.Dispatch(5, func(c world.ChunkCoord) bool {
		got = append(got, c)
		return true
	})
	if n != 3 || len(got) != 3 {
		t.Fatalf("spawned %d (%v), want 3", n, got)
	}
	for i, c := range got {
		if c.X != i {
			t.Fatalf("spawn %d: got %v, want nearest first", i, c)
		}
	}
	if q.Len() != 7 {
		t.Fatalf("queue: got %d left, want 7", q.Len())
	}
}

func TestDispatchNoBudget(t *testing.T) {
	q := lineQueue(4)
	d := NewDispatcher(q, func() int { return 8 })
	for _, running := range []int{8, 12} {
		if n := d.Dispatch(running, func(world.ChunkCoord) bool {
			t.Fatalf("spawn called with %d running", running)
			return true
		}); n != 0 {
			t.Fatalf("spawned %d with no budget", n)
		}
	}
	if q.Len() != 4 {
		t.Fatalf("queue drained without budget: %d", q.Len())
	}
}

func TestDispatchDiscardsMissingSlots(t *testing.T) {
	q := lineQueue(6)
	slots := NewSlotSet()
	slots.AddChunk(world.ChunkCoord{X: 1})
	slots.AddChunk(world.ChunkCoord{X: 3})
	d := NewDispatcher(q, func() int { return 4 })

	n := d.Dispatch(0, func(c world.ChunkCoord) bool {
		return slots.HasSlot(c)
	})
	// X=0..3 popped; only 1 and 3 had slots.
	if n != 2 {
		t.Fatalf("spawned %d, want 2", n)
	}
	if q.Len() != 2 || q.Contains(world.ChunkCoord{X: 0}) || q.Contains(world.ChunkCoord{X: 2}) {
		t.Fatalf("discarded items still queued: %v", q.Points())
	}
}

func TestDispatchLimitIsLive(t *testing.T) {
	limit := 1
	q := lineQueue(5)
	d := NewDispatcher(q, func() int { return limit })
	spawn := func(world.ChunkCoord) bool { return true }

	if n := d.Dispatch(0, spawn); n != 1 {
		t.Fatalf("limit 1: spawned %d", n)
	}
	limit = 3
	if n := d.Dispatch(0, spawn); n != 3 {
		t.Fatalf("limit 3: spawned %d", n)
	}
	if n := d.Dispatch(0, spawn); n != 1 {
		t.Fatalf("drain: spawned %d", n)
	}
}
