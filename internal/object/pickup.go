package object

import (
	"image/color"

	"github.com/tomz197/swarm/internal/config"
	"github.com/tomz197/swarm/internal/draw"
	"github.com/tomz197/swarm/internal/physics"
)

// FruitTint is the pickup body color.
var FruitTint = color.RGBA{R: 60, G: 240, B: 100, A: 255}

// Pickup is a pooled buff that waits in place until the player touches it.
type Pickup struct {
	X, Y  float64
	W, H  float64
	Tint  color.RGBA
	alive bool
}

// Spawn places a pickup with its top-left corner at (x, y).
func (p *Pickup) Spawn(x, y float64) {
	*p = Pickup{
		X:     x,
		Y:     y,
		W:     config.PickupSize,
		H:     config.PickupSize,
		Tint:  FruitTint,
		alive: true,
	}
}

// Alive reports whether the slot holds a live pickup.
func (p *Pickup) Alive() bool {
	return p.alive
}

// Kill removes the pickup.
func (p *Pickup) Kill() {
	p.alive = false
}

// Rect returns the pickup's collision box.
func (p *Pickup) Rect() physics.Rect {
	return physics.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

// Draw renders the pickup with a white highlight in the middle.
func (p *Pickup) Draw(ctx DrawContext) {
	if !p.alive {
		return
	}
	x, y, w, h, ok := ctx.Box(p.Rect())
	if !ok {
		return
	}
	draw.FillRect(ctx.Surface, x, y, w, h, p.Tint)
	dot := max(w/4, 1)
	draw.FillRect(ctx.Surface, x+(w-dot)/2, y+(h-dot)/2, dot, dot, color.RGBA{R: 255, G: 255, B: 255, A: 255})
}
