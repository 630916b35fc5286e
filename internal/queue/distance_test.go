package queue

import (
	"math/rand"
	"slices"
	"testing"

	"voxelstream/internal/world"
)

func chunk(x, y, z int) world.ChunkCoord {
	return world.ChunkCoord{X: x, Y: y, Z: z}
}

func TestPopEmpty(t *testing.T) {
	q := NewDistanceQueue(chunk(0, 0, 0))
	if _, ok := q.Pop(); ok {
		t.Fatalf("pop on empty queue returned ok")
	}
	if !q.IsEmpty() {
		t.Fatalf("new queue not empty")
	}
}

func TestPushIsIdempotent(t *testing.T) {
	q := NewDistanceQueue(chunk(0, 0, 0))
	q.Push(chunk(1, 0, 0))
	q.Push(chunk(1, 0, 0))
	q.Push(chunk(2, 0, 0))
	if q.Len() != 2 {
		t.Fatalf("len: got %d, want 2", q.Len())
	}
}

func TestPopNearestFirst(t *testing.T) {
	q := NewDistanceQueue(chunk(0, 0, 0))
	q.Push(chunk(3, 0, 0))
	q.Push(chunk(0, 1, 0))
	q.Push(chunk(-2, 0, 0))
	q.Push(chunk(0, 0, 0))

	want := []world.ChunkCoord{chunk(0, 0, 0), chunk(0, 1, 0), chunk(-2, 0, 0), chunk(3, 0, 0)}
	for i, w := range want {
		got, ok := q.Pop()
		if !ok || got != w {
			t.Fatalf("pop %d: got %v (ok=%v), want %v", i, got, ok, w)
		}
	}
}

func TestTiesAreLexicographic(t *testing.T) {
	q := NewDistanceQueue(chunk(0, 0, 0))
	// All at squared distance 1.
	for _, c := range []world.ChunkCoord{chunk(0, 0, 1), chunk(1, 0, 0), chunk(0, -1, 0), chunk(-1, 0, 0), chunk(0, 1, 0), chunk(0, 0, -1)} {
		q.Push(c)
	}
	want := []world.ChunkCoord{chunk(-1, 0, 0), chunk(0, -1, 0), chunk(0, 0, -1), chunk(0, 0, 1), chunk(0, 1, 0), chunk(1, 0, 0)}
	if got := q.Points(); !slices.Equal(got, want) {
		t.Fatalf("tie order: got %v, want %v", got, want)
	}
}

func TestRemoveAnywhere(t *testing.T) {
	q := NewDistanceQueue(chunk(0, 0, 0))
	for x := -3; x <= 3; x++ {
		q.Push(chunk(x, 0, 0))
	}
	if !q.Remove(chunk(2, 0, 0)) {
		t.Fatalf("remove of queued point returned false")
	}
	if q.Remove(chunk(2, 0, 0)) {
		t.Fatalf("second remove returned true")
	}
	if q.Contains(chunk(2, 0, 0)) {
		t.Fatalf("removed point still a member")
	}
	for !q.IsEmpty() {
		p, _ := q.Pop()
		if p == chunk(2, 0, 0) {
			t.Fatalf("removed point was popped")
		}
	}
}

func TestPopsAreNonDecreasing(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	center := chunk(3, -1, 5)
	q := NewDistanceQueue(center)
	for i := 0; i < 500; i++ {
		q.Push(chunk(rng.Intn(21)-10, rng.Intn(9)-4, rng.Intn(21)-10))
	}

	last := int64(-1)
	for !q.IsEmpty() {
		p, _ := q.Pop()
		d := p.Dist2(center)
		if d < last {
			t.Fatalf("pop order regressed: %v at %d after %d", p, d, last)
		}
		last = d
	}
}

func TestUpdateCenterKeepsMembership(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	q := NewDistanceQueue(chunk(0, 0, 0))
	for i := 0; i < 200; i++ {
		q.Push(chunk(rng.Intn(31)-15, rng.Intn(5)-2, rng.Intn(31)-15))
	}
	before := q.Points()
	slices.SortFunc(before, compareCoords)

	newCenter := chunk(12, 1, -9)
	q.UpdateCenter(newCenter)

	after := q.Points()
	// Reordered against the new center...
	for i := 1; i < len(after); i++ {
		if after[i].Dist2(newCenter) < after[i-1].Dist2(newCenter) {
			t.Fatalf("order after recenter broken at %d", i)
		}
	}
	// ...with exactly the same members.
	slices.SortFunc(after, compareCoords)
	if !slices.Equal(before, after) {
		t.Fatalf("membership changed across UpdateCenter")
	}
	if q.Center() != newCenter {
		t.Fatalf("center: got %v, want %v", q.Center(), newCenter)
	}
}

func TestRemoveAfterRecenter(t *testing.T) {
	q := NewDistanceQueue(chunk(0, 0, 0))
	q.Push(chunk(5, 0, 0))
	q.Push(chunk(-5, 0, 0))
	q.UpdateCenter(chunk(5, 0, 0))
	if !q.Remove(chunk(-5, 0, 0)) {
		t.Fatalf("remove after recenter failed")
	}
	if p, _ := q.Pop(); p != chunk(5, 0, 0) {
		t.Fatalf("pop: got %v", p)
	}
}

func TestColumnQueue(t *testing.T) {
	q := NewDistanceQueue(world.ColumnCoord{})
	q.Push(world.ColumnCoord{X: 4, Z: 4})
	q.Push(world.ColumnCoord{X: 1, Z: 0})
	if p, _ := q.Peek(); p != (world.ColumnCoord{X: 1, Z: 0}) {
		t.Fatalf("peek: got %v", p)
	}
}

func compareCoords(a, b world.ChunkCoord) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	}
	return 0
}

func BenchmarkUpdateCenter(b *testing.B) {
	q := NewDistanceQueue(chunk(0, 0, 0))
	for x := -16; x <= 16; x++ {
		for y := -4; y <= 4; y++ {
			for z := -16; z <= 16; z++ {
				q.Push(chunk(x, y, z))
			}
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.UpdateCenter(chunk(i%7, 0, i%5))
	}
}
