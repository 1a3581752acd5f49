package object

import (
	"image/color"

	"github.com/tomz197/swarm/internal/draw"
	"github.com/tomz197/swarm/internal/physics"
)

// Projectile colors.
var (
	HostileTint = color.RGBA{R: 255, G: 120, B: 60, A: 255}
	PlayerTint  = color.RGBA{R: 40, G: 200, B: 255, A: 255}
	AOETint     = color.RGBA{R: 255, G: 50, B: 200, A: 255}
)

// Projectile is a pooled bullet. Hostile bullets carry no damage; player
// shots are stamped with a tint, a damage amount and an area-effect flag.
type Projectile struct {
	X, Y     float64 // Top-left position
	VX, VY   float64 // Velocity
	W, H     float64
	Lifetime float64 // Seconds remaining
	Tint     color.RGBA
	Damage   int
	AOE      bool

	alive bool
}

// Spawn launches the projectile from (x, y) along (dx, dy) at speed.
// A zero direction fires to the right.
func (p *Projectile) Spawn(x, y, dx, dy, speed, lifetime, size float64) {
	ux, uy := physics.Direction(dx, dy)
	*p = Projectile{
		X:        x,
		Y:        y,
		VX:       ux * speed,
		VY:       uy * speed,
		W:        size,
		H:        size,
		Lifetime: lifetime,
		Tint:     HostileTint,
		alive:    true,
	}
}

// Stamp sets the payload of a player shot.
func (p *Projectile) Stamp(tint color.RGBA, damage int, aoe bool) {
	p.Tint = tint
	p.Damage = damage
	p.AOE = aoe
}

// Alive reports whether the slot holds a live projectile.
func (p *Projectile) Alive() bool {
	return p.alive
}

// Kill marks the projectile dead.
func (p *Projectile) Kill() {
	p.alive = false
}

// Rect returns the projectile's collision box.
func (p *Projectile) Rect() physics.Rect {
	return physics.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

// Update moves the projectile and burns lifetime. It dies when the lifetime
// runs out or, when bounded is set, when it has left the world entirely.
func (p *Projectile) Update(dt float64, bounded bool, worldW, worldH float64) {
	if !p.alive {
		return
	}
	p.X += p.VX * dt
	p.Y += p.VY * dt
	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		p.alive = false
		return
	}
	if bounded && p.Outside(worldW, worldH) {
		p.alive = false
	}
}

// Outside reports whether the projectile's box lies fully outside the world.
func (p *Projectile) Outside(worldW, worldH float64) bool {
	return p.X+p.W < 0 || p.Y+p.H < 0 || p.X > worldW || p.Y > worldH
}

// Draw renders the projectile as a filled square.
func (p *Projectile) Draw(ctx DrawContext) {
	if !p.alive {
		return
	}
	x, y, w, h, ok := ctx.Box(p.Rect())
	if !ok {
		return
	}
	draw.FillRect(ctx.Surface, x, y, w, h, p.Tint)
}
