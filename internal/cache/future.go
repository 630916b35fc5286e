// Package cache deduplicates asynchronous computations by key.
package cache

import (
	"context"

	"github.com/alitto/pond/v2"
)

// Future is the handle to a computation running on a worker pool. It can be
// polled without blocking from the driver and awaited from other tasks.
type Future[V any] struct {
	done <-chan struct{}
	wait func() (V, error)
}

// Submit runs task on pool and returns its future. A panic inside task
// completes the future with an error.
func Submit[V any](pool pond.ResultPool[V], task func() (V, error)) *Future[V] {
	res := pool.SubmitErr(task)
	return &Future[V]{done: res.Done(), wait: res.Wait}
}

// Resolved returns a future that is already complete.
func Resolved[V any](v V, err error) *Future[V] {
	ch := make(chan struct{})
	close(ch)
	return &Future[V]{
		done: ch,
		wait: func() (V, error) { return v, err },
	}
}

// Done is closed once the computation has finished.
func (f *Future[V]) Done() <-chan struct{} {
	return f.done
}

// Poll returns the result if the computation has finished. ok is false while
// it is still running.
func (f *Future[V]) Poll() (v V, ok bool, err error) {
	select {
	case <-f.done:
		v, err = f.wait()
		return v, true, err
	default:
		return v, false, nil
	}
}

// Wait blocks until the computation finishes or ctx is cancelled.
func (f *Future[V]) Wait(ctx context.Context) (V, error) {
	select {
	case <-f.done:
		return f.wait()
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}
