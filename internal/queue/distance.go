// Package queue orders pending spatial work by distance to a movable center.
package queue

import (
	"slices"
)

// Point is a coordinate that can be ordered by distance to another point of
// the same type. Less must be a strict total order; it breaks distance ties.
type Point[T any] interface {
	comparable
	Dist2(T) int64
	Less(T) bool
}

type entry[T Point[T]] struct {
	key   int64 // squared distance to center
	point T
}

func (e entry[T]) before(o entry[T]) bool {
	if e.key != o.key {
		return e.key < o.key
	}
	return e.point.Less(o.point)
}

func compareEntries[T Point[T]](a, b entry[T]) int {
	switch {
	case a.before(b):
		return -1
	case b.before(a):
		return 1
	default:
		return 0
	}
}

// DistanceQueue is a set of points popped nearest-to-center first.
//
// Entries are kept sorted in descending order so Pop takes from the tail.
// Membership is tracked separately by point; the order key is never used
// for identity.
type DistanceQueue[T Point[T]] struct {
	entries []entry[T]
	members map[T]int64
	center  T
}

// NewDistanceQueue creates an empty queue centered on center.
func NewDistanceQueue[T Point[T]](center T) *DistanceQueue[T] {
	return &DistanceQueue[T]{
		members: make(map[T]int64),
		center:  center,
	}
}

// search returns the position of e in the descending slice and whether it is present.
func (q *DistanceQueue[T]) search(e entry[T]) (int, bool) {
	return slices.BinarySearchFunc(q.entries, e, func(a, b entry[T]) int {
		return -compareEntries(a, b)
	})
}

// Push inserts p. Pushing a point already present is a no-op.
func (q *DistanceQueue[T]) Push(p T) {
	if _, ok := q.members[p]; ok {
		return
	}
	e := entry[T]{key: p.Dist2(q.center), point: p}
	i, _ := q.search(e)
	q.entries = slices.Insert(q.entries, i, e)
	q.members[p] = e.key
}

// Pop removes and returns the point closest to the center. Ties resolve to
// the smallest point by Less. ok is false when the queue is empty.
func (q *DistanceQueue[T]) Pop() (p T, ok bool) {
	n := len(q.entries)
	if n == 0 {
		return p, false
	}
	e := q.entries[n-1]
	q.entries = q.entries[:n-1]
	delete(q.members, e.point)
	return e.point, true
}

// Peek returns the point Pop would return without removing it.
func (q *DistanceQueue[T]) Peek() (p T, ok bool) {
	if len(q.entries) == 0 {
		return p, false
	}
	return q.entries[len(q.entries)-1].point, true
}

// Remove drops p wherever it sits in the order. Returns false if absent.
func (q *DistanceQueue[T]) Remove(p T) bool {
	key, ok := q.members[p]
	if !ok {
		return false
	}
	i, found := q.search(entry[T]{key: key, point: p})
	if found {
		q.entries = slices.Delete(q.entries, i, i+1)
	}
	delete(q.members, p)
	return true
}

// Contains reports whether p is queued.
func (q *DistanceQueue[T]) Contains(p T) bool {
	_, ok := q.members[p]
	return ok
}

// UpdateCenter recomputes every order key against the new center and
// re-sorts. Membership is unchanged.
func (q *DistanceQueue[T]) UpdateCenter(center T) {
	if center == q.center {
		return
	}
	q.center = center
	for i := range q.entries {
		e := &q.entries[i]
		e.key = e.point.Dist2(center)
		q.members[e.point] = e.key
	}
	slices.SortFunc(q.entries, func(a, b entry[T]) int {
		return -compareEntries(a, b)
	})
}

// Center returns the point distances are measured from.
func (q *DistanceQueue[T]) Center() T {
	return q.center
}

// Len returns the number of queued points.
func (q *DistanceQueue[T]) Len() int {
	return len(q.entries)
}

// IsEmpty reports whether nothing is queued.
func (q *DistanceQueue[T]) IsEmpty() bool {
	return len(q.entries) == 0
}

// Points returns the queued points in pop order.
func (q *DistanceQueue[T]) Points() []T {
	out := make([]T, len(q.entries))
	for i, e := range q.entries {
		out[len(out)-1-i] = e.point
	}
	return out
}
