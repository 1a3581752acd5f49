// Package combat owns the hostile units and both projectile pools, and runs
// spawning, unit AI, projectile flight and collision resolution.
package combat

import (
	"image/color"
	"math/rand"

	"github.com/tomz197/swarm/internal/config"
	"github.com/tomz197/swarm/internal/object"
	"github.com/tomz197/swarm/internal/physics"
	"github.com/tomz197/swarm/internal/pool"
)

type (
	unitPool       = pool.Pool[object.Enemy, *object.Enemy]
	projectilePool = pool.Pool[object.Projectile, *object.Projectile]
)

// Target is the player as seen by collision resolution.
type Target interface {
	Hitbox() physics.Rect
	// HitboxOffset is the hitbox's offset from the render position.
	HitboxOffset() (float64, float64)
	SetPosition(x, y float64)
	ApplyKnockback(dx, dy, power, duration float64) bool
}

// Manager owns the unit pool and both projectile pools. Nothing outside the
// manager changes whether a pooled entity is alive.
type Manager struct {
	units   *unitPool
	hostile *projectilePool
	shots   *projectilePool
	picked  []bool // Scratch for StrikeTopN

	rng      *rand.Rand
	view     object.View
	worldW   float64
	worldH   float64
	infinite bool

	elapsed  float64 // Seconds of play, drives spawn cadence
	spawnAcc float64
}

// NewManager creates a manager with empty pools. rng drives spawn placement,
// unit kinds and turret timing.
func NewManager(rng *rand.Rand, view object.View) *Manager {
	return &Manager{
		units:   pool.New[object.Enemy](config.MaxUnits),
		hostile: pool.New[object.Projectile](config.MaxHostileBullets),
		shots:   pool.New[object.Projectile](config.MaxPlayerBullets),
		picked:  make([]bool, config.MaxUnits),
		rng:     rng,
		view:    view,
	}
}

// SetWorldSize caches the world size in pixels.
func (m *Manager) SetWorldSize(w, h float64) {
	m.worldW = w
	m.worldH = h
}

// WorldSize returns the cached world size in pixels.
func (m *Manager) WorldSize() (float64, float64) {
	return m.worldW, m.worldH
}

// SetInfinite switches between a bounded world and an endless one.
func (m *Manager) SetInfinite(v bool) {
	m.infinite = v
}

// Infinite reports whether the world is endless.
func (m *Manager) Infinite() bool {
	return m.infinite
}

// Elapsed returns the seconds of play the spawn cadence is based on.
func (m *Manager) Elapsed() float64 {
	return m.elapsed
}

// SetElapsed resumes the spawn cadence from t seconds, e.g. after loading.
func (m *Manager) SetElapsed(t float64) {
	m.elapsed = max(t, 0)
	m.spawnAcc = 0
}

// bounds is the box units are kept inside.
func (m *Manager) bounds() physics.Rect {
	if m.infinite {
		return physics.Rect{
			X: -config.InfiniteBound, Y: -config.InfiniteBound,
			W: 2 * config.InfiniteBound, H: 2 * config.InfiniteBound,
		}
	}
	return physics.Rect{W: m.worldW, H: m.worldH}
}

// UnitCount returns the number of live units.
func (m *Manager) UnitCount() int {
	return m.units.Live()
}

// UnitCapacity returns the size of the unit pool.
func (m *Manager) UnitCapacity() int {
	return m.units.Cap()
}

// Units appends copies of all live units to dst, in slot order.
func (m *Manager) Units(dst []object.Enemy) []object.Enemy {
	m.units.Each(func(u *object.Enemy) {
		dst = append(dst, *u)
	})
	return dst
}

// BulletCounts returns the number of live hostile and player projectiles.
func (m *Manager) BulletCounts() (hostile, player int) {
	return m.hostile.Live(), m.shots.Live()
}

// ClearUnits kills every unit.
func (m *Manager) ClearUnits() {
	m.units.Reset()
}

// Reset clears all pools and restarts the spawn cadence.
func (m *Manager) Reset() {
	m.units.Reset()
	m.hostile.Reset()
	m.shots.Reset()
	m.elapsed = 0
	m.spawnAcc = 0
}

// SpawnUnit puts a unit of kind at (x, y) with preset stats, facing
// (faceX, faceY). Turrets get a short random delay before the first shot.
// Returns nil when the pool is full.
func (m *Manager) SpawnUnit(kind object.EnemyKind, x, y, faceX, faceY float64) *object.Enemy {
	u := m.units.Alloc()
	if u == nil {
		return nil
	}
	cooldown := config.UnarmedCooldown
	if kind == object.Turret {
		cooldown = config.TurretFirstShotMin + config.TurretFirstShotRange*m.rng.Float64()
	}
	u.Spawn(kind, x, y, object.StatsFor(kind), cooldown, faceX, faceY)
	return u
}

// RestoreUnit recreates a saved unit with its stored hit points, size and
// fire cooldown. Speed always comes from the kind's preset.
func (m *Manager) RestoreUnit(kind object.EnemyKind, x, y, fireCooldown float64, hp int, w, h, faceX, faceY float64) bool {
	u := m.units.Alloc()
	if u == nil {
		return false
	}
	stats := object.StatsFor(kind)
	stats.HP = hp
	stats.W = w
	stats.H = h
	u.Spawn(kind, x, y, stats, fireCooldown, faceX, faceY)
	return true
}

// UpdateAll advances every live unit toward the player center (px, py) and
// fires turrets whose cooldown ran out.
func (m *Manager) UpdateAll(dt, px, py float64) {
	bounds := m.bounds()
	m.units.Each(func(u *object.Enemy) {
		u.Update(dt, px, py, bounds)
		if !m.infinite {
			u.ClampTo(bounds)
		}
		if u.Kind != object.Turret {
			return
		}
		u.FireCooldown -= dt
		if u.FireCooldown > 0 {
			return
		}
		cx, cy := u.Center()
		half := config.HostileBulletSize / 2.0
		m.SpawnHostileBullet(cx-half, cy-half, px-cx, py-cy)
		u.FireCooldown = config.TurretReloadMin + config.TurretReloadRange*m.rng.Float64()
	})
}

// SpawnHostileBullet launches a hostile bullet from top-left (x, y) along
// (dx, dy). Reports false when the pool is full.
func (m *Manager) SpawnHostileBullet(x, y, dx, dy float64) bool {
	b := m.hostile.Alloc()
	if b == nil {
		return false
	}
	b.Spawn(x, y, dx, dy, config.HostileBulletSpeed, config.HostileBulletLifetime, config.HostileBulletSize)
	return true
}

// SpawnPlayerBullet launches a regular player shot centered on (x, y)
// toward (dx, dy). Reports false when the pool is full.
func (m *Manager) SpawnPlayerBullet(x, y, dx, dy float64) bool {
	return m.spawnShot(x, y, dx, dy, config.PlayerBulletSpeed, config.PlayerBulletLifetime,
		config.PlayerBulletSize, object.PlayerTint, config.PlayerBulletDamage, false)
}

func (m *Manager) spawnShot(x, y, dx, dy, speed, lifetime, size float64, tint color.RGBA, damage int, aoe bool) bool {
	s := m.shots.Alloc()
	if s == nil {
		return false
	}
	s.Spawn(x-size/2, y-size/2, dx, dy, speed, lifetime, size)
	s.Stamp(tint, damage, aoe)
	return true
}

// UpdateBullets moves hostile bullets and retires spent ones.
func (m *Manager) UpdateBullets(dt float64) {
	m.updateProjectiles(m.hostile, dt)
}

// UpdatePlayerBullets moves player shots and retires spent ones.
func (m *Manager) UpdatePlayerBullets(dt float64) {
	m.updateProjectiles(m.shots, dt)
}

func (m *Manager) updateProjectiles(p *projectilePool, dt float64) {
	bounded := !m.infinite
	p.Each(func(b *object.Projectile) {
		b.Update(dt, bounded, m.worldW, m.worldH)
	})
}

// DrawUnits renders all live units.
func (m *Manager) DrawUnits(ctx object.DrawContext) {
	m.units.Each(func(u *object.Enemy) { u.Draw(ctx) })
}

// DrawBullets renders hostile bullets.
func (m *Manager) DrawBullets(ctx object.DrawContext) {
	m.hostile.Each(func(b *object.Projectile) { b.Draw(ctx) })
}

// DrawPlayerBullets renders player shots.
func (m *Manager) DrawPlayerBullets(ctx object.DrawContext) {
	m.shots.Each(func(b *object.Projectile) { b.Draw(ctx) })
}
