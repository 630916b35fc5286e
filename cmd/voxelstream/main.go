package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"voxelstream/internal/config"
	"voxelstream/internal/pipeline"
	"voxelstream/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"
)

func main() {
	fs := flag.NewFlagSet("voxelstream", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	ticks := fs.Int("ticks", 0, "stop after this many ticks, 0 to run until interrupted")
	tickRate := fs.Int("tick-rate", 60, "ticks per second, 0 for unpaced")
	speed := fs.Float64("speed", 32, "viewpoint speed along +X in voxels per second")
	height := fs.Float64("height", 80, "viewpoint start height")
	clearance := fs.Float64("clearance", 16, "minimum height above loaded terrain, 0 to fly straight")
	statsEvery := fs.Duration("stats-every", 2*time.Second, "interval between stats lines, 0 to disable")
	workers := fs.Int("workers", 0, "workers per pool, 0 for GOMAXPROCS")
	_ = fs.Parse(os.Args[1:])

	logger := log.New(os.Stdout, "[voxelstream] ", log.LstdFlags|log.Lmicroseconds)

	settings, err := config.Resolve(flags, config.ExplicitFlags(fs))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger.Printf("profile %v, view radius %v, far view %d, generator %v seed %d",
		settings.Profile, settings.Render.ViewRadius(), settings.Render.FarViewRadius(),
		settings.WorldGen.Kind(), settings.WorldGen.Seed())

	prof := profiling.New()
	slots := pipeline.NewSlotSet()
	sink := newCountingSink()
	streamer := pipeline.NewStreamer(pipeline.Options{
		Settings: settings,
		Slots:    slots,
		Sink:     sink,
		Workers:  *workers,
		Logger:   logger,
		Profiler: prof,
	})
	closer.Bind(func() {
		logger.Printf("shutting down")
		streamer.Close()
	})

	loop := &StreamLoop{
		planner:    pipeline.NewPlanner(settings.Render, slots),
		streamer:   streamer,
		sink:       sink,
		prof:       prof,
		logger:     logger,
		limiter:    NewTickLimiter(*tickRate),
		viewpoint:  mgl32.Vec3{0, float32(*height), 0},
		velocity:   mgl32.Vec3{float32(*speed), 0, 0},
		clearance:  float32(*clearance),
		statsEvery: *statsEvery,
	}

	go func() {
		loop.Run(*ticks)
		closer.Close()
	}()
	closer.Hold()
}
