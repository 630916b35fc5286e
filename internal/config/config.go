package config

import (
	"fmt"
	"strings"
	"sync"
)

// Profile selects a family of defaults.
type Profile uint8

const (
	ProfileDebug Profile = iota
	ProfileRelease
)

func (p Profile) String() string {
	if p == ProfileRelease {
		return "release"
	}
	return "debug"
}

// ParseProfile maps a profile name to its Profile.
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "debug":
		return ProfileDebug, nil
	case "release":
		return ProfileRelease, nil
	default:
		return ProfileDebug, fmt.Errorf("unknown profile %q", s)
	}
}

// Settings groups every tunable of the streaming pipeline. Both halves are
// safe to read and update concurrently.
type Settings struct {
	Profile  Profile
	Render   *RenderSettings
	WorldGen *WorldGenSettings
}

// Default returns the settings for a profile.
func Default(p Profile) *Settings {
	return &Settings{
		Profile:  p,
		Render:   defaultRenderSettings(p),
		WorldGen: defaultWorldGenSettings(p),
	}
}

// RenderSettings holds view extent and meshing configuration
type RenderSettings struct {
	mu            sync.RWMutex
	viewRadius    [3]int // in chunks, per axis
	farViewRadius int    // in columns
	dropPadding   int
	maxMeshTasks  int
	loadRate      float64 // chunk loads per second, 0 = unlimited
}

func defaultRenderSettings(p Profile) *RenderSettings {
	rs := &RenderSettings{
		viewRadius:    [3]int{8, 4, 8},
		farViewRadius: 12,
		dropPadding:   2,
		maxMeshTasks:  32,
		loadRate:      0,
	}
	if p == ProfileRelease {
		rs.viewRadius = [3]int{16, 4, 16}
		rs.farViewRadius = 20
	}
	return rs
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// ViewRadius returns the per-axis load radius in chunks.
func (rs *RenderSettings) ViewRadius() [3]int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.viewRadius
}

// SetViewRadius sets the per-axis load radius in chunks
func (rs *RenderSettings) SetViewRadius(x, y, z int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	// Clamp to reasonable values
	rs.viewRadius = [3]int{clamp(x, 1, 32), clamp(y, 1, 16), clamp(z, 1, 32)}
	rs.farViewRadius = max(rs.farViewRadius, rs.viewRadius[0], rs.viewRadius[2])
}

// FarViewRadius returns the far-view radius in columns.
func (rs *RenderSettings) FarViewRadius() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.farViewRadius
}

// SetFarViewRadius sets the far-view radius. It never drops below the
// horizontal view radius.
func (rs *RenderSettings) SetFarViewRadius(r int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	r = clamp(r, 0, 64)
	rs.farViewRadius = max(r, rs.viewRadius[0], rs.viewRadius[2])
}

// DropPadding returns how far past the view radius a chunk may drift before
// it is dropped.
func (rs *RenderSettings) DropPadding() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.dropPadding
}

// SetDropPadding sets the drop hysteresis in chunks.
func (rs *RenderSettings) SetDropPadding(p int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.dropPadding = clamp(p, 0, 8)
}

// MaxMeshTasks returns the cap on concurrently running mesh tasks.
func (rs *RenderSettings) MaxMeshTasks() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.maxMeshTasks
}

// SetMaxMeshTasks sets the cap on concurrently running mesh tasks.
func (rs *RenderSettings) SetMaxMeshTasks(n int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.maxMeshTasks = clamp(n, 1, 1024)
}

// LoadRate returns the chunk load rate limit per second.
func (rs *RenderSettings) LoadRate() float64 {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.loadRate
}

// SetLoadRate sets the chunk load rate limit. Zero or negative disables it.
func (rs *RenderSettings) SetLoadRate(r float64) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.loadRate = max(r, 0)
}
