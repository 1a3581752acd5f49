package object

import (
	"image/color"

	"github.com/tomz197/swarm/internal/config"
	"github.com/tomz197/swarm/internal/draw"
	"github.com/tomz197/swarm/internal/physics"
)

// EnemyKind selects a hostile unit preset.
type EnemyKind int

const (
	Chaser EnemyKind = iota // Steady pursuer
	Turret                  // Stationary, fires at the player
	Light                   // Fast and fragile
	Heavy                   // Slow and tough
)

// String returns the kind's name.
func (k EnemyKind) String() string {
	switch k {
	case Chaser:
		return "chaser"
	case Turret:
		return "turret"
	case Light:
		return "light"
	case Heavy:
		return "heavy"
	}
	return "unknown"
}

// Valid reports whether k is one of the defined kinds.
func (k EnemyKind) Valid() bool {
	return k >= Chaser && k <= Heavy
}

// EnemyStats is the full stat block a unit is spawned with.
type EnemyStats struct {
	Speed float64
	HP    int
	W, H  float64
}

// StatsFor returns the preset stats of a kind. Unknown kinds get Chaser stats.
func StatsFor(k EnemyKind) EnemyStats {
	switch k {
	case Turret:
		return EnemyStats{Speed: config.TurretSpeed, HP: config.TurretHP, W: config.TurretSize, H: config.TurretSize}
	case Light:
		return EnemyStats{Speed: config.LightSpeed, HP: config.LightHP, W: config.LightSize, H: config.LightSize}
	case Heavy:
		return EnemyStats{Speed: config.HeavySpeed, HP: config.HeavyHP, W: config.HeavySize, H: config.HeavySize}
	}
	return EnemyStats{Speed: config.ChaserSpeed, HP: config.ChaserHP, W: config.ChaserSize, H: config.ChaserSize}
}

// Steering returns how strongly a kind turns toward its target each update.
func (k EnemyKind) Steering() float64 {
	switch k {
	case Light:
		return config.SteerLight
	case Heavy:
		return config.SteerHeavy
	}
	return config.SteerDefault
}

var kindColors = [...]color.RGBA{
	Chaser: {R: 220, G: 60, B: 60, A: 255},
	Turret: {R: 240, G: 170, B: 40, A: 255},
	Light:  {R: 240, G: 230, B: 80, A: 255},
	Heavy:  {R: 150, G: 80, B: 220, A: 255},
}

// Color returns the body color of a kind.
func (k EnemyKind) Color() color.RGBA {
	if !k.Valid() {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return kindColors[k]
}

// Enemy is one pooled hostile unit.
type Enemy struct {
	Kinematic
	Kind         EnemyKind
	W, H         float64
	HP           int
	FireCooldown float64 // Seconds until a turret may fire

	alive bool
	anim  Animator
}

// Spawn resets every field from stats and marks the unit alive. The unit
// faces (faceX, faceY) from its center; a target at the center leaves the
// facing at zero.
func (e *Enemy) Spawn(kind EnemyKind, x, y float64, stats EnemyStats, fireCooldown, faceX, faceY float64) {
	*e = Enemy{
		Kinematic:    Kinematic{X: x, Y: y, Speed: stats.Speed},
		Kind:         kind,
		W:            stats.W,
		H:            stats.H,
		HP:           stats.HP,
		FireCooldown: fireCooldown,
		alive:        true,
		anim:         NewAnimator(config.AnimFrames, config.AnimFrameTime),
	}
	cx, cy := e.Center()
	e.Face(cx, cy, faceX, faceY)
	if kind != Turret {
		e.anim.Start()
	}
}

// Alive reports whether the slot holds a live unit.
func (e *Enemy) Alive() bool {
	return e.alive
}

// Center returns the middle of the unit's box.
func (e *Enemy) Center() (float64, float64) {
	return e.X + e.W*0.5, e.Y + e.H*0.5
}

// Rect returns the unit's collision box.
func (e *Enemy) Rect() physics.Rect {
	return physics.Rect{X: e.X, Y: e.Y, W: e.W, H: e.H}
}

// Update steers its center toward (tx, ty), moves, and clamps into bounds.
// Turrets never move.
func (e *Enemy) Update(dt, tx, ty float64, bounds physics.Rect) {
	if !e.alive {
		return
	}
	if e.Kind != Turret {
		cx, cy := e.Center()
		e.Steer(tx-cx, ty-cy, e.Kind.Steering())
		e.Advance(dt)
	}
	e.ClampTo(bounds)
	e.anim.Update(dt)
}

// ClampTo keeps the unit's box inside bounds.
func (e *Enemy) ClampTo(bounds physics.Rect) {
	e.X = physics.Clamp(e.X, bounds.X, bounds.X+bounds.W-e.W)
	e.Y = physics.Clamp(e.Y, bounds.Y, bounds.Y+bounds.H-e.H)
}

// ApplyDamage subtracts amount from the unit's hit points and reports whether
// this hit killed it. A unit with no hit points left dies on any hit.
func (e *Enemy) ApplyDamage(amount int) bool {
	if !e.alive || amount <= 0 {
		return false
	}
	if e.HP <= 0 {
		e.alive = false
		return true
	}
	e.HP -= amount
	if e.HP <= 0 {
		e.alive = false
		return true
	}
	return false
}

// Kill marks the unit dead.
func (e *Enemy) Kill() {
	e.alive = false
}

// Draw renders the unit's body, its facing eye and, for turrets, a barrel.
func (e *Enemy) Draw(ctx DrawContext) {
	if !e.alive {
		return
	}
	x, y, w, h, ok := ctx.Box(e.Rect())
	if !ok || w <= 0 || h <= 0 {
		return
	}
	body := e.Kind.Color()
	draw.FillRect(ctx.Surface, x, y, w, h, body)

	// Walk cycle: darker band sliding down the body.
	band := max(h/4, 1)
	shade := color.RGBA{R: body.R / 2, G: body.G / 2, B: body.B / 2, A: 255}
	draw.FillRect(ctx.Surface, x, y+(e.anim.Frame()*band)%h, w, band, shade)

	eye := max(w/5, 2)
	ex := x + w/2 + int(e.FX*float64(w)/3) - eye/2
	ey := y + h/2 + int(e.FY*float64(h)/3) - eye/2
	draw.FillRect(ctx.Surface, ex, ey, eye, eye, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	if e.Kind == Turret {
		draw.FillRect(ctx.Surface, x+w/2-1, y-h/4, 3, h/4, shade)
	}
}
