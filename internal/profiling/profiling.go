// Package profiling accumulates per-tick stage timings.
package profiling

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// Profiler sums elapsed time per named stage over one tick. The zero value
// is not usable; create one with New.
type Profiler struct {
	mu         sync.Mutex
	tickTotals map[string]time.Duration
	tickStart  time.Time
}

// New creates a profiler with an open tick.
func New() *Profiler {
	return &Profiler{
		tickTotals: make(map[string]time.Duration),
		tickStart:  time.Now(),
	}
}

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer p.Track("pipeline.dispatchGeneration")()
func (p *Profiler) Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		p.mu.Lock()
		p.tickTotals[name] += d
		p.mu.Unlock()
	}
}

// ResetTick clears the per-tick totals. Call at the start of each tick.
func (p *Profiler) ResetTick() {
	p.mu.Lock()
	clear(p.tickTotals)
	p.tickStart = time.Now()
	p.mu.Unlock()
}

// Elapsed returns the time since the tick was reset.
func (p *Profiler) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Since(p.tickStart)
}

// Snapshot returns a copy of current per-tick totals.
func (p *Profiler) Snapshot() map[string]time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]time.Duration, len(p.tickTotals))
	for k, v := range p.tickTotals {
		out[k] = v
	}
	return out
}

// TopN formats the n slowest stages of the current tick.
// Example: "pipeline.pollGeneration:4.2ms, pipeline.dispatchMeshes:2.1ms"
func (p *Profiler) TopN(n int) string {
	ss := p.Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	slices.SortFunc(list, func(a, b pair) int {
		if c := cmp.Compare(b.dur, a.dur); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})
	n = max(0, min(n, len(list)))
	parts := make([]string, 0, n)
	for _, e := range list[:n] {
		parts = append(parts, fmt.Sprintf("%s:%.1fms", e.name, float64(e.dur.Microseconds())/1000.0))
	}
	return strings.Join(parts, ", ")
}
