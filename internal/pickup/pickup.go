// Package pickup spawns buff fruit on open ground and hands the buff to the
// player on contact.
package pickup

import (
	"math"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/tomz197/swarm/internal/config"
	"github.com/tomz197/swarm/internal/logx"
	"github.com/tomz197/swarm/internal/object"
	"github.com/tomz197/swarm/internal/physics"
	"github.com/tomz197/swarm/internal/pool"
	"github.com/tomz197/swarm/internal/tilemap"
)

// Buffable is the player as seen by the pickup manager.
type Buffable interface {
	Hitbox() physics.Rect
	ApplyBuff()
	ShootInterval() float64
	AOECount() int
	AOEInterval() float64
}

// Manager owns the pickup pool and its spawn timer.
type Manager struct {
	items    *pool.Pool[object.Pickup, *object.Pickup]
	rng      *rand.Rand
	logger   *log.Logger
	infinite bool

	timer float64
	next  float64
}

// NewManager creates an empty manager. A nil logger discards output.
func NewManager(rng *rand.Rand, logger *log.Logger) *Manager {
	if logger == nil {
		logger = logx.Discard()
	}
	m := &Manager{
		items:  pool.New[object.Pickup](config.MaxPickups),
		rng:    rng,
		logger: logger,
	}
	m.resetInterval()
	return m
}

// SetInfinite switches placement to a ring around the camera.
func (m *Manager) SetInfinite(v bool) {
	m.infinite = v
}

// Reset removes every pickup and restarts the timer.
func (m *Manager) Reset() {
	m.items.Reset()
	m.timer = 0
	m.resetInterval()
}

// Count returns the number of live pickups.
func (m *Manager) Count() int {
	return m.items.Live()
}

// NextSpawn returns the seconds left until the next spawn attempt.
func (m *Manager) NextSpawn() float64 {
	return m.next - m.timer
}

func (m *Manager) resetInterval() {
	m.next = config.PickupIntervalMin + config.PickupIntervalRange*m.rng.Float64()
}

// TrySpawn advances the timer and places one pickup when it expires.
func (m *Manager) TrySpawn(dt float64, cam object.Camera, tm tilemap.Map) {
	m.timer += dt
	if m.timer < m.next {
		return
	}
	m.timer -= m.next
	m.resetInterval()
	if m.infinite {
		m.spawnAround(cam, tm)
	} else {
		m.spawnAnywhere(tm)
	}
}

// SpawnAt places a pickup with its top-left corner at (x, y).
func (m *Manager) SpawnAt(x, y float64) bool {
	p := m.items.Alloc()
	if p == nil {
		return false
	}
	p.Spawn(x, y)
	return true
}

func (m *Manager) spawnAnywhere(tm tilemap.Map) {
	if tm == nil || m.items.Live() >= m.items.Cap() {
		return
	}
	w, h := tm.Width(), tm.Height()
	for i := 0; i < config.PickupPlacementTries; i++ {
		tx := int(m.rng.Float64() * float64(w))
		ty := int(m.rng.Float64() * float64(h))
		if !tm.Blocked(tx, ty) {
			m.placeInTile(tm, tx, ty)
			return
		}
	}
	m.logger.Debug("no open tile for pickup", "tries", config.PickupPlacementTries)
}

func (m *Manager) spawnAround(cam object.Camera, tm tilemap.Map) {
	if tm == nil || m.items.Live() >= m.items.Cap() {
		return
	}
	tw, th := tm.TileWidth(), tm.TileHeight()
	if tw <= 0 || th <= 0 {
		return
	}
	baseX := int(math.Floor(cam.X / float64(tw)))
	baseY := int(math.Floor(cam.Y / float64(th)))
	for i := 0; i < config.PickupPlacementTries; i++ {
		tx := baseX + int((m.rng.Float64()*2-1)*config.PickupRingTiles)
		ty := baseY + int((m.rng.Float64()*2-1)*config.PickupRingTiles)
		if !tm.Blocked(tx, ty) {
			m.placeInTile(tm, tx, ty)
			return
		}
	}
	m.logger.Debug("no open tile near camera for pickup", "tries", config.PickupPlacementTries)
}

func (m *Manager) placeInTile(tm tilemap.Map, tx, ty int) {
	tw, th := float64(tm.TileWidth()), float64(tm.TileHeight())
	cx := float64(tx)*tw + tw*0.5
	cy := float64(ty)*th + th*0.5
	m.SpawnAt(cx-config.PickupSize*0.5, cy-config.PickupSize*0.5)
}

// Collect buffs the player once per overlapping pickup and removes those
// pickups. It returns how many were collected.
func (m *Manager) Collect(b Buffable) int {
	hb := b.Hitbox()
	picked := 0
	m.items.Each(func(p *object.Pickup) {
		if !p.Rect().Overlaps(hb) {
			return
		}
		b.ApplyBuff()
		p.Kill()
		picked++
		m.logger.Info("fruit picked",
			"shootInterval", b.ShootInterval(),
			"aoeN", b.AOECount(),
			"aoeInterval", b.AOEInterval(),
		)
	})
	return picked
}

// Items copies the live pickups into dst.
func (m *Manager) Items(dst []object.Pickup) []object.Pickup {
	dst = dst[:0]
	m.items.Each(func(p *object.Pickup) {
		dst = append(dst, *p)
	})
	return dst
}

// Draw renders every live pickup.
func (m *Manager) Draw(ctx object.DrawContext) {
	m.items.Each(func(p *object.Pickup) {
		p.Draw(ctx)
	})
}
