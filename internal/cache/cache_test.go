package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alitto/pond/v2"
)

func waitMaintained[K comparable, V any](t *testing.T, c *FutureCache[K, V]) []Completion[K] {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	var all []Completion[K]
	for c.InFlight() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("futures did not complete, %d in flight", c.InFlight())
		}
		all = append(all, c.Maintain()...)
		time.Sleep(time.Millisecond)
	}
	return all
}

func TestGetOrStartDeduplicates(t *testing.T) {
	pool := pond.NewResultPool[int](4)
	defer pool.StopAndWait()

	c := NewFutureCache[string, int]()
	gate := make(chan struct{})
	var computations, starters atomic.Int32

	const callers = 32
	futures := make([]*Future[int], callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l, started := c.GetOrStart("k", func() *Future[int] {
				return Submit(pool, func() (int, error) {
					computations.Add(1)
					<-gate
					return 42, nil
				})
			})
			if started {
				starters.Add(1)
			}
			futures[i] = l.Future
		}(i)
	}
	wg.Wait()
	close(gate)

	if n := starters.Load(); n != 1 {
		t.Fatalf("starters: got %d, want 1", n)
	}
	for i, f := range futures {
		if f != futures[0] {
			t.Fatalf("caller %d got a different future", i)
		}
	}

	v, err := futures[0].Wait(context.Background())
	if err != nil || v != 42 {
		t.Fatalf("wait: got (%d, %v)", v, err)
	}
	done := waitMaintained(t, c)
	if len(done) != 1 || done[0].Key != "k" || done[0].Err != nil {
		t.Fatalf("completions: %+v", done)
	}
	if n := computations.Load(); n != 1 {
		t.Fatalf("computations: got %d, want 1", n)
	}

	l := c.Get("k")
	if l.State != Ready || l.Value != 42 {
		t.Fatalf("after maintain: got %v %d", l.State, l.Value)
	}
	if _, started := c.GetOrStart("k", func() *Future[int] {
		t.Fatalf("start called for cached key")
		return nil
	}); started {
		t.Fatalf("started for cached key")
	}
}

func TestNeverBothSides(t *testing.T) {
	c := NewFutureCache[int, string]()
	if !c.InsertFuture(1, Resolved("a", nil)) {
		t.Fatalf("insert future on empty key failed")
	}
	if c.InsertFuture(1, Resolved("b", nil)) {
		t.Fatalf("second insert future succeeded")
	}
	c.InsertResult(1, "c")
	if c.InFlight() != 0 || c.Len() != 1 {
		t.Fatalf("insert result did not retire future: inflight=%d len=%d", c.InFlight(), c.Len())
	}
	if c.InsertFuture(1, Resolved("d", nil)) {
		t.Fatalf("insert future over result succeeded")
	}
	if !c.RemoveResult(1) || c.RemoveResult(1) {
		t.Fatalf("remove result")
	}
	if got := c.Get(1).State; got != Missing {
		t.Fatalf("state: got %v, want missing", got)
	}
}

func TestFailuresAreNotCached(t *testing.T) {
	pool := pond.NewResultPool[int](2)
	defer pool.StopAndWait()

	c := NewFutureCache[int, int]()
	boom := errors.New("boom")
	c.GetOrStart(1, func() *Future[int] {
		return Submit(pool, func() (int, error) { return 0, boom })
	})
	c.GetOrStart(2, func() *Future[int] {
		return Submit(pool, func() (int, error) { panic("exploded") })
	})

	done := waitMaintained(t, c)
	if len(done) != 2 {
		t.Fatalf("completions: got %d, want 2", len(done))
	}
	for _, d := range done {
		if d.Err == nil {
			t.Fatalf("key %d: expected error", d.Key)
		}
		if d.Key == 1 && !errors.Is(d.Err, boom) {
			t.Fatalf("key 1: got %v", d.Err)
		}
	}
	if c.Len() != 0 {
		t.Fatalf("failed values cached: len=%d", c.Len())
	}
	if _, started := c.GetOrStart(1, func() *Future[int] { return Resolved(7, nil) }); !started {
		t.Fatalf("failed key was not restartable")
	}
}

func TestTrimEvictsFarthest(t *testing.T) {
	c := NewFutureCache[int, int]()
	for k := 0; k < 10; k++ {
		c.InsertResult(k, k)
	}
	c.InsertFuture(100, Resolved(0, nil))

	evicted := c.Trim(6, func(k int) int64 { return int64(k * k) })
	want := []int{9, 8, 7, 6}
	if len(evicted) != len(want) {
		t.Fatalf("evicted: got %v, want %v", evicted, want)
	}
	for i := range want {
		if evicted[i] != want[i] {
			t.Fatalf("evicted: got %v, want %v", evicted, want)
		}
	}
	if c.Len() != 6 || c.InFlight() != 1 {
		t.Fatalf("after trim: len=%d inflight=%d", c.Len(), c.InFlight())
	}
	if c.Trim(6, func(int) int64 { return 0 }) != nil {
		t.Fatalf("trim under limit evicted entries")
	}
}

func TestWaitHonoursContext(t *testing.T) {
	pool := pond.NewResultPool[int](1)
	gate := make(chan struct{})
	defer func() {
		close(gate)
		pool.StopAndWait()
	}()

	f := Submit(pool, func() (int, error) {
		<-gate
		return 1, nil
	})
	if _, ok, _ := f.Poll(); ok {
		t.Fatalf("poll reported a blocked task as done")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := f.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("wait: got %v", err)
	}
}
