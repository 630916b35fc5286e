package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"time"

	"voxelstream/internal/config"
	"voxelstream/internal/meshing"
	"voxelstream/internal/world"
	"voxelstream/internal/worldgen"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/image/draw"
)

// reportHeader is the first line of a dump report.
type reportHeader struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Generator string    `json:"generator"`
	Seed      int64     `json:"seed"`
	Center    [2]int    `json:"center"`
	Radius    int       `json:"radius"`
	MinY      int       `json:"min_y"`
	MaxY      int       `json:"max_y"`
}

// chunkLine describes one generated chunk.
type chunkLine struct {
	Chunk  [3]int         `json:"chunk"`
	Solid  int            `json:"solid"`
	Quads  int            `json:"quads"`
	Faces  map[string]int `json:"faces"`
	Height [2]int32       `json:"height"`
}

func main() {
	fs := flag.NewFlagSet("terraindump", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	cx := fs.Int("x", 0, "center column X")
	cz := fs.Int("z", 0, "center column Z")
	radius := fs.Int("radius", 2, "columns around the center to generate")
	minY := fs.Int("min-y", -1, "lowest chunk Y to generate")
	maxY := fs.Int("max-y", 2, "highest chunk Y to generate")
	scale := fs.Int("scale", 2, "heightmap preview scale factor")
	pngPath := fs.String("png", "heightmap.png", "heightmap preview output")
	reportPath := fs.String("report", "chunks.jsonl.zst", "compressed chunk report output")
	_ = fs.Parse(os.Args[1:])

	logger := log.New(os.Stderr, "[terraindump] ", log.LstdFlags)

	settings, err := config.Resolve(flags, config.ExplicitFlags(fs))
	if err != nil {
		logger.Fatalf("settings: %v", err)
	}
	gen := worldgen.New(settings.WorldGen.Params())
	center := world.ColumnCoord{X: *cx, Z: *cz}

	cols := columnsAround(center, *radius)
	heightmaps := make(map[world.ColumnCoord]*world.Heightmap, len(cols))
	for _, col := range cols {
		heightmaps[col] = gen.Heightmap(col)
	}

	if err := writePreview(*pngPath, center, *radius, *scale, heightmaps); err != nil {
		logger.Fatalf("preview: %v", err)
	}
	logger.Printf("wrote %s", *pngPath)

	header := reportHeader{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Generator: settings.WorldGen.Kind().String(),
		Seed:      settings.WorldGen.Seed(),
		Center:    [2]int{center.X, center.Z},
		Radius:    *radius,
		MinY:      *minY,
		MaxY:      *maxY,
	}
	n, err := writeReport(*reportPath, header, gen, cols, heightmaps, *minY, *maxY)
	if err != nil {
		logger.Fatalf("report: %v", err)
	}
	logger.Printf("wrote %s: run %s, %d chunks", *reportPath, header.RunID, n)
}

func columnsAround(center world.ColumnCoord, radius int) []world.ColumnCoord {
	cols := make([]world.ColumnCoord, 0, (2*radius+1)*(2*radius+1))
	for z := -radius; z <= radius; z++ {
		for x := -radius; x <= radius; x++ {
			cols = append(cols, world.ColumnCoord{X: center.X + x, Z: center.Z + z})
		}
	}
	return cols
}

// writePreview renders the interior of every heightmap as grayscale,
// normalized to the overall height range, then scales it up.
func writePreview(path string, center world.ColumnCoord, radius, scale int, heightmaps map[world.ColumnCoord]*world.Heightmap) error {
	side := (2*radius + 1) * world.ChunkSize
	lo, hi := int32(0), int32(0)
	first := true
	for _, hm := range heightmaps {
		l, h := hm.Range()
		if first || l < lo {
			lo = l
		}
		if first || h > hi {
			hi = h
		}
		first = false
	}
	span := float64(max(hi-lo, 1))

	src := image.NewGray(image.Rect(0, 0, side, side))
	for col, hm := range heightmaps {
		ox := (col.X - center.X + radius) * world.ChunkSize
		oz := (col.Z - center.Z + radius) * world.ChunkSize
		for z := 1; z <= world.ChunkSize; z++ {
			for x := 1; x <= world.ChunkSize; x++ {
				v := float64(hm.Get(x, z)-lo) / span
				src.SetGray(ox+x-1, oz+z-1, color.Gray{Y: uint8(v * 255)})
			}
		}
	}

	dst := image.NewGray(image.Rect(0, 0, side*max(scale, 1), side*max(scale, 1)))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, dst); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// writeReport generates and meshes every chunk of cols in [minY, maxY] and
// writes one JSON line per chunk after the header.
func writeReport(path string, header reportHeader, gen *worldgen.Generator, cols []world.ColumnCoord,
	heightmaps map[world.ColumnCoord]*world.Heightmap, minY, maxY int) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = f.Close()
		return 0, err
	}
	w := bufio.NewWriterSize(enc, 128*1024)
	je := json.NewEncoder(w)

	n := 0
	err = func() error {
		if err := je.Encode(header); err != nil {
			return err
		}
		scratch := meshing.NewBuffer()
		for _, col := range cols {
			hm := heightmaps[col]
			lo, hi := hm.Range()
			for y := minY; y <= maxY; y++ {
				c := col.Chunk(y)
				buf := gen.Terrain(c, hm)
				meshing.GreedyQuads(buf, scratch)
				line := chunkLine{
					Chunk:  [3]int{c.X, c.Y, c.Z},
					Solid:  buf.CountSolid(),
					Quads:  scratch.QuadCount(),
					Faces:  make(map[string]int, len(meshing.Faces)),
					Height: [2]int32{lo, hi},
				}
				for _, face := range meshing.Faces {
					line.Faces[face.String()] = len(scratch.Quads[face])
				}
				if err := je.Encode(line); err != nil {
					return fmt.Errorf("chunk %v: %w", c, err)
				}
				n++
			}
		}
		return w.Flush()
	}()
	if err1 := enc.Close(); err == nil {
		err = err1
	}
	if err1 := f.Close(); err == nil {
		err = err1
	}
	return n, err
}
