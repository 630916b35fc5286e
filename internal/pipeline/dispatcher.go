// Package pipeline drives chunk generation and meshing around a moving viewpoint.
package pipeline

import (
	"voxelstream/internal/queue"
)

// Dispatcher drains a distance queue into a bounded number of running tasks.
type Dispatcher[T queue.Point[T]] struct {
	queue *queue.DistanceQueue[T]
	limit func() int
}

// NewDispatcher creates a dispatcher over q. limit is read on every dispatch
// so the cap can change at runtime.
func NewDispatcher[T queue.Point[T]](q *queue.DistanceQueue[T], limit func() int) *Dispatcher[T] {
	return &Dispatcher[T]{queue: q, limit: limit}
}

// Queue returns the queue being drained.
func (d *Dispatcher[T]) Queue() *queue.DistanceQueue[T] {
	return d.queue
}

// Budget returns how many items a dispatch would pop with running tasks in flight.
func (d *Dispatcher[T]) Budget(running int) int {
	return max(0, d.limit()-running)
}

// Dispatch pops up to limit-running items nearest first and hands each to
// spawn. spawn returns false when the item's target no longer exists; such
// items are discarded but still use up budget. Items beyond the budget stay
// queued. Returns the number of items spawned.
func (d *Dispatcher[T]) Dispatch(running int, spawn func(T) bool) int {
	budget := d.Budget(running)
	spawned := 0
	for popped := 0; popped < budget; popped++ {
		item, ok := d.queue.Pop()
		if !ok {
			break
		}
		if spawn(item) {
			spawned++
		}
	}
	return spawned
}
