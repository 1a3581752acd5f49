// Package tilemap loads, generates and renders the tile grid the game is played on.
package tilemap

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/tomz197/swarm/internal/config"
	"github.com/tomz197/swarm/internal/draw"
)

// ErrMalformed is returned when a map file cannot be parsed.
var ErrMalformed = errors.New("tilemap: malformed map")

// Map is the view of the tile grid that gameplay code needs.
type Map interface {
	Width() int      // Tiles across
	Height() int     // Tiles down
	TileWidth() int  // Pixels
	TileHeight() int // Pixels
	TileID(tx, ty int) int
	Blocked(tx, ty int) bool
}

// Grid is a row-major tile grid. With Wrap set, coordinates outside the grid
// repeat it; otherwise they read as ID -1 and never block.
type Grid struct {
	width, height int
	tileW, tileH  int
	tiles         []int
	Wrap          bool
}

// NewGrid creates a grid from row-major tile IDs.
func NewGrid(width, height, tileW, tileH int, tiles []int) (*Grid, error) {
	if width <= 0 || height <= 0 || tileW <= 0 || tileH <= 0 {
		return nil, fmt.Errorf("%w: non-positive size %dx%d tiles of %dx%d", ErrMalformed, width, height, tileW, tileH)
	}
	if len(tiles) != width*height {
		return nil, fmt.Errorf("%w: have %d tiles, want %d", ErrMalformed, len(tiles), width*height)
	}
	return &Grid{width: width, height: height, tileW: tileW, tileH: tileH, tiles: tiles}, nil
}

func (g *Grid) Width() int      { return g.width }
func (g *Grid) Height() int     { return g.height }
func (g *Grid) TileWidth() int  { return g.tileW }
func (g *Grid) TileHeight() int { return g.tileH }

// PixelSize returns the grid size in pixels.
func (g *Grid) PixelSize() (int, int) {
	return g.width * g.tileW, g.height * g.tileH
}

// TileID returns the tile at (tx, ty), or -1 off the grid in non-wrapping mode.
func (g *Grid) TileID(tx, ty int) int {
	if g.Wrap {
		tx %= g.width
		if tx < 0 {
			tx += g.width
		}
		ty %= g.height
		if ty < 0 {
			ty += g.height
		}
	} else if tx < 0 || ty < 0 || tx >= g.width || ty >= g.height {
		return -1
	}
	return g.tiles[ty*g.width+tx]
}

// Blocked reports whether the tile at (tx, ty) stops movement.
func (g *Grid) Blocked(tx, ty int) bool {
	id := g.TileID(tx, ty)
	return id >= 0 && BlockingID(id)
}

// Set replaces the tile at (tx, ty). Off-grid writes are ignored.
func (g *Grid) Set(tx, ty, id int) {
	if tx < 0 || ty < 0 || tx >= g.width || ty >= g.height {
		return
	}
	g.tiles[ty*g.width+tx] = id
}

// BlockingID reports whether a tile ID is water or cliff.
func BlockingID(id int) bool {
	return id >= config.BlockedTileMin && id <= config.BlockedTileMax
}

// Load reads a map file from disk.
func Load(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads the text map format: "key value" header lines for tileswide,
// tileshigh, tilewidth and tileheight, then a "layer" line followed by the
// tile IDs in row-major order, separated by commas or whitespace.
func Parse(r io.Reader) (*Grid, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)

	header := map[string]int{}
	inLayer := false
	for !inLayer && sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch key := fields[0]; key {
		case "tileswide", "tileshigh", "tilewidth", "tileheight":
			if len(fields) < 2 {
				return nil, fmt.Errorf("%w: %s without a value", ErrMalformed, key)
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
			}
			header[key] = n
		case "layer":
			inLayer = true
		}
	}
	if !inLayer {
		return nil, fmt.Errorf("%w: no layer section", ErrMalformed)
	}
	for _, key := range []string{"tileswide", "tileshigh", "tilewidth", "tileheight"} {
		if header[key] <= 0 {
			return nil, fmt.Errorf("%w: missing or non-positive %s", ErrMalformed, key)
		}
	}

	w, h := header["tileswide"], header["tileshigh"]
	tiles := make([]int, 0, w*h)
	for len(tiles) < w*h && sc.Scan() {
		tiles = appendInts(tiles, sc.Text(), w*h)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read map: %w", err)
	}
	return NewGrid(w, h, header["tilewidth"], header["tileheight"], tiles)
}

// appendInts appends the integers found in line, skipping any separators,
// until dst holds limit values.
func appendInts(dst []int, line string, limit int) []int {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r != '-' && (r < '0' || r > '9')
	})
	for _, f := range fields {
		if len(dst) >= limit {
			break
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			continue
		}
		dst = append(dst, n)
	}
	return dst
}

// Generate builds a grass field with scattered ponds. The central area is
// always left clear so the player can spawn there.
func Generate(width, height, tileSize int, rng *rand.Rand) *Grid {
	tiles := make([]int, width*height)
	for i := range tiles {
		tiles[i] = rng.Intn(4)
	}
	g := &Grid{width: width, height: height, tileW: tileSize, tileH: tileSize, tiles: tiles}

	ponds := width * height / 180
	for i := 0; i < ponds; i++ {
		cx, cy := rng.Intn(width), rng.Intn(height)
		r := 1 + rng.Float64()*2.5
		ri := int(math.Ceil(r))
		for dy := -ri; dy <= ri; dy++ {
			for dx := -ri; dx <= ri; dx++ {
				if float64(dx*dx+dy*dy) <= r*r {
					g.Set(cx+dx, cy+dy, config.BlockedTileMin+rng.Intn(config.BlockedTileMax-config.BlockedTileMin+1))
				}
			}
		}
	}

	const spawnClear = 4
	for ty := height/2 - spawnClear; ty <= height/2+spawnClear; ty++ {
		for tx := width/2 - spawnClear; tx <= width/2+spawnClear; tx++ {
			if g.Blocked(tx, ty) {
				g.Set(tx, ty, 0)
			}
		}
	}
	return g
}

var (
	grassColors = [...]color.RGBA{
		{R: 52, G: 110, B: 48, A: 255},
		{R: 58, G: 118, B: 52, A: 255},
		{R: 48, G: 102, B: 44, A: 255},
		{R: 62, G: 124, B: 56, A: 255},
	}
	waterColor    = color.RGBA{R: 36, G: 84, B: 168, A: 255}
	fallbackColor = color.RGBA{R: 40, G: 40, B: 40, A: 255}
)

// TileColor returns the flat color a tile ID renders with.
func TileColor(id int) color.RGBA {
	switch {
	case BlockingID(id):
		shade := uint8((id - config.BlockedTileMin) * 4)
		return color.RGBA{R: waterColor.R, G: waterColor.G + shade, B: waterColor.B, A: 255}
	case id >= 0 && id < len(grassColors):
		return grassColors[id]
	}
	return fallbackColor
}

// Draw renders the tiles under a viewport whose top-left corner is (camX, camY).
func Draw(s draw.Surface, m Map, camX, camY float64) {
	tw, th := m.TileWidth(), m.TileHeight()
	startX := int(math.Floor(camX/float64(tw))) - 1
	startY := int(math.Floor(camY/float64(th))) - 1
	tilesX := s.Width()/tw + 3
	tilesY := s.Height()/th + 3
	ox, oy := int(math.Floor(camX)), int(math.Floor(camY))

	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			gx, gy := startX+tx, startY+ty
			id := m.TileID(gx, gy)
			if id < 0 {
				continue
			}
			draw.FillRect(s, gx*tw-ox, gy*th-oy, tw, th, TileColor(id))
		}
	}
}

var _ Map = (*Grid)(nil)
