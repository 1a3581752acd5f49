// Package object holds the pooled game entities and their shared primitives.
package object

import (
	"math"

	"github.com/tomz197/swarm/internal/draw"
	"github.com/tomz197/swarm/internal/physics"
)

// Camera is the top-left corner of the viewport in world coordinates.
type Camera struct {
	X, Y float64
}

// View is the viewport size in world pixels.
type View struct {
	Width, Height float64
}

// Follow centers the camera on (cx, cy). When worldW/worldH are positive the
// camera is clamped so the viewport stays inside the world.
func (c *Camera) Follow(cx, cy float64, view View, worldW, worldH float64) {
	c.X = cx - view.Width/2
	c.Y = cy - view.Height/2
	if worldW > 0 && worldH > 0 {
		c.X = physics.Clamp(c.X, 0, worldW-view.Width)
		c.Y = physics.Clamp(c.Y, 0, worldH-view.Height)
	}
}

// DrawContext provides drawing resources for entities.
type DrawContext struct {
	Surface draw.Surface
	Camera  Camera
}

// ToScreen converts a world position to surface pixels.
func (ctx DrawContext) ToScreen(x, y float64) (int, int) {
	return int(math.Floor(x - ctx.Camera.X)), int(math.Floor(y - ctx.Camera.Y))
}

// Box converts a world box to a screen box and reports whether any part of
// it is inside the viewport.
func (ctx DrawContext) Box(r physics.Rect) (x, y, w, h int, visible bool) {
	x, y = ctx.ToScreen(r.X, r.Y)
	w, h = int(math.Round(r.W)), int(math.Round(r.H))
	return x, y, w, h, draw.Visible(ctx.Surface, x, y, w, h)
}
