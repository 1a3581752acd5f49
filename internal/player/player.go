// Package player implements the controllable hero: movement against the tile
// map, knockback, automatic fire and the area-effect attack.
package player

import (
	"image/color"
	"math"

	"github.com/tomz197/swarm/internal/config"
	"github.com/tomz197/swarm/internal/draw"
	"github.com/tomz197/swarm/internal/object"
	"github.com/tomz197/swarm/internal/physics"
	"github.com/tomz197/swarm/internal/tilemap"
)

// Dir is the facing, which doubles as the sprite row.
type Dir int

const (
	Down Dir = iota
	Right
	Up
	Left
)

func (d Dir) String() string {
	switch d {
	case Down:
		return "down"
	case Right:
		return "right"
	case Up:
		return "up"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// Arsenal is what the player needs from the combat manager.
type Arsenal interface {
	FindNearestAlive(x, y float64) (float64, float64, bool)
	SpawnPlayerBullet(x, y, dx, dy float64) bool
	StrikeTopN(n, damage int, ox, oy float64) int
}

// DefaultSprite is the hero's look.
var DefaultSprite = draw.FigureSheet{
	FrameW: config.PlayerFrameWidth,
	FrameH: config.PlayerFrameHeight,
	Body:   color.RGBA{R: 70, G: 130, B: 230, A: 255},
	Head:   color.RGBA{R: 245, G: 210, B: 170, A: 255},
	Accent: color.RGBA{R: 30, G: 40, B: 70, A: 255},
}

// Player is the hero. X, Y is the top-left corner of the sprite frame; the
// hitbox is centered inside the frame.
type Player struct {
	X, Y  float64
	Speed float64
	Dir   Dir

	frameW, frameH int
	hitW, hitH     int

	// Knockback velocity in pixels per second and its remaining time.
	kx, ky      float64
	kTime       float64
	hitCooldown float64

	shootCD       float64
	shootInterval float64
	aoeCD         float64
	aoeInterval   float64
	aoeN          int
	aoeDamage     int

	anim   object.Animator
	sprite draw.Sprite
}

// New creates a player at (x, y) with default tuning.
func New(x, y float64) *Player {
	return &Player{
		X:             x,
		Y:             y,
		Speed:         config.PlayerSpeed,
		Dir:           Down,
		frameW:        config.PlayerFrameWidth,
		frameH:        config.PlayerFrameHeight,
		hitW:          config.PlayerHitboxWidth,
		hitH:          config.PlayerHitboxHeight,
		shootInterval: config.ShootInterval,
		aoeInterval:   config.AOEInterval,
		aoeN:          config.AOECount,
		aoeDamage:     config.AOEDamage,
		anim:          object.NewAnimator(config.AnimFrames, config.AnimFrameTime),
		sprite:        DefaultSprite,
	}
}

// SetSprite replaces the sprite and resizes the frame to match. The hitbox
// keeps its size and stays centered.
func (p *Player) SetSprite(s draw.Sprite) {
	if s == nil {
		return
	}
	p.sprite = s
	p.frameW, p.frameH = s.FrameSize()
}

// SetHitbox sets the collision box size.
func (p *Player) SetHitbox(w, h int) {
	if w > 0 && h > 0 {
		p.hitW, p.hitH = w, h
	}
}

// FrameSize returns the sprite frame size in pixels.
func (p *Player) FrameSize() (int, int) {
	return p.frameW, p.frameH
}

// HitboxOffset is the hitbox's top-left relative to the frame's top-left.
func (p *Player) HitboxOffset() (float64, float64) {
	return float64(p.frameW-p.hitW) * 0.5, float64(p.frameH-p.hitH) * 0.5
}

// Hitbox returns the collision box in world coordinates.
func (p *Player) Hitbox() physics.Rect {
	ox, oy := p.HitboxOffset()
	return physics.Rect{X: p.X + ox, Y: p.Y + oy, W: float64(p.hitW), H: float64(p.hitH)}
}

// Center returns the hitbox center.
func (p *Player) Center() (float64, float64) {
	return p.Hitbox().Center()
}

// SetPosition moves the frame's top-left corner.
func (p *Player) SetPosition(x, y float64) {
	p.X, p.Y = x, y
}

// ClampTo keeps the frame inside [0, w-frameW] x [0, h-frameH].
func (p *Player) ClampTo(worldW, worldH float64) {
	p.X = physics.Clamp(p.X, 0, worldW-float64(p.frameW))
	p.Y = physics.Clamp(p.Y, 0, worldH-float64(p.frameH))
}

// ApplyKnockback starts a knockback along (dx, dy). It is ignored while the
// post-hit immunity window is open or the direction is degenerate, and
// reports whether the impulse was applied.
func (p *Player) ApplyKnockback(dx, dy, power, duration float64) bool {
	if p.hitCooldown > 0 {
		return false
	}
	l := math.Hypot(dx, dy)
	if l < 1e-6 {
		return false
	}
	p.kx = dx / l * power
	p.ky = dy / l * power
	p.kTime = duration
	p.hitCooldown = config.HitImmunity
	return true
}

// Knockback returns the current knockback velocity and remaining time.
func (p *Player) Knockback() (kx, ky, remaining float64) {
	return p.kx, p.ky, p.kTime
}

// Update moves the player by the raw input intent (each axis in -1..1) plus
// any knockback, resolving collisions against m when it is not nil.
func (p *Player) Update(dt, ix, iy float64, m tilemap.Map) {
	if iy > 0 {
		p.Dir = Down
	} else if iy < 0 {
		p.Dir = Up
	}
	if ix > 0 {
		p.Dir = Right
	} else if ix < 0 {
		p.Dir = Left
	}

	l := math.Hypot(ix, iy)
	if l > 0.0001 {
		ix /= l
		iy /= l
	}

	dx := ix * p.Speed * dt
	dy := iy * p.Speed * dt

	if p.kTime > 0 {
		dx += p.kx * dt
		dy += p.ky * dt
		p.kTime -= dt
		damp := math.Exp(-config.KnockbackDecay * dt)
		p.kx *= damp
		p.ky *= damp
		if p.kTime <= 0 {
			p.kTime, p.kx, p.ky = 0, 0, 0
		}
	}
	if p.hitCooldown > 0 {
		p.hitCooldown -= dt
	}

	if m == nil {
		p.X += dx
		p.Y += dy
	} else {
		p.move(dx, dy, m)
	}

	if l > 0 {
		p.anim.Start()
	} else {
		p.anim.Stop()
	}
	p.anim.Update(dt)
}

// move sweeps the hitbox along x and then y, snapping flush against the
// first blocking tile on the leading edge.
func (p *Player) move(dx, dy float64, m tilemap.Map) {
	tw, th := m.TileWidth(), m.TileHeight()
	if tw <= 0 || th <= 0 {
		p.X += dx
		p.Y += dy
		return
	}
	offX, offY := p.HitboxOffset()
	hw, hh := float64(p.hitW), float64(p.hitH)
	hx := p.X + dx + offX
	hy := p.Y + dy + offY

	if dx != 0 {
		edge := hx
		if dx > 0 {
			edge = hx + hw - 1
		}
		tx := tileOf(edge, tw)
		for ty := tileOf(hy, th); ty <= tileOf(hy+hh-1, th); ty++ {
			if !m.Blocked(tx, ty) {
				continue
			}
			if dx > 0 {
				hx = float64(tx*tw) - hw
			} else {
				hx = float64((tx + 1) * tw)
			}
			break
		}
	}

	if dy != 0 {
		edge := hy
		if dy > 0 {
			edge = hy + hh - 1
		}
		ty := tileOf(edge, th)
		for tx := tileOf(hx, tw); tx <= tileOf(hx+hw-1, tw); tx++ {
			if !m.Blocked(tx, ty) {
				continue
			}
			if dy > 0 {
				hy = float64(ty*th) - hh
			} else {
				hy = float64((ty + 1) * th)
			}
			break
		}
	}

	p.X = hx - offX
	p.Y = hy - offY
}

func tileOf(v float64, size int) int {
	return int(math.Floor(v / float64(size)))
}

// UpdateAttack fires at the nearest live unit once the shot cooldown has run
// out. Without a target the cooldown stays ready.
func (p *Player) UpdateAttack(dt float64, a Arsenal) {
	if p.shootCD > 0 {
		p.shootCD -= dt
		return
	}
	sx, sy := p.Center()
	tx, ty, ok := a.FindNearestAlive(sx, sy)
	if !ok {
		return
	}
	dx, dy := tx-sx, ty-sy
	if math.Hypot(dx, dy) < 1e-5 {
		return
	}
	a.SpawnPlayerBullet(sx, sy, dx, dy)
	p.shootCD = p.shootInterval
}

// UpdateAOE strikes the strongest units when triggered and off cooldown. It
// returns the number of shots fired.
func (p *Player) UpdateAOE(dt float64, trigger bool, a Arsenal) int {
	if p.aoeCD > 0 {
		p.aoeCD -= dt
	}
	if p.aoeCD > 0 || !trigger {
		return 0
	}
	cx, cy := p.Center()
	fired := a.StrikeTopN(p.aoeN, p.aoeDamage, cx, cy)
	p.aoeCD = p.aoeInterval
	return fired
}

// SetAOEParams updates the area attack. Non-positive values are ignored.
func (p *Player) SetAOEParams(n, damage int, interval float64) {
	if n > 0 {
		p.aoeN = n
	}
	if damage > 0 {
		p.aoeDamage = damage
	}
	if interval > 0 {
		p.aoeInterval = interval
	}
}

// SetShootInterval sets seconds between automatic shots. Non-positive values
// are ignored.
func (p *Player) SetShootInterval(v float64) {
	if v > 0 {
		p.shootInterval = v
	}
}

// ApplyBuff makes the player fire faster and strike more targets more often.
// Buffs are permanent.
func (p *Player) ApplyBuff() {
	p.shootInterval = max(p.shootInterval*config.BuffShootMultiplier, config.MinShootInterval)
	p.aoeN++
	p.aoeInterval = max(p.aoeInterval*config.BuffAOEMultiplier, config.MinAOEInterval)
}

// ShootInterval returns seconds between automatic shots.
func (p *Player) ShootInterval() float64 { return p.shootInterval }

// AOECount returns how many units one area attack strikes.
func (p *Player) AOECount() int { return p.aoeN }

// AOEDamage returns the damage of each area-attack shot.
func (p *Player) AOEDamage() int { return p.aoeDamage }

// AOEInterval returns the area-attack cooldown.
func (p *Player) AOEInterval() float64 { return p.aoeInterval }

// AOEReady reports whether the area attack can fire now.
func (p *Player) AOEReady() bool { return p.aoeCD <= 0 }

// Frame returns the current animation column.
func (p *Player) Frame() int { return p.anim.Frame() }

// Draw renders the current frame relative to the camera.
func (p *Player) Draw(ctx object.DrawContext) {
	if p.sprite == nil {
		return
	}
	x, y := ctx.ToScreen(p.X, p.Y)
	p.sprite.DrawFrame(ctx.Surface, int(p.Dir), p.anim.Frame(), x, y)
}
