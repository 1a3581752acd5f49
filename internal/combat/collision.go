package combat

import (
	"math"

	"github.com/tomz197/swarm/internal/config"
	"github.com/tomz197/swarm/internal/object"
	"github.com/tomz197/swarm/internal/physics"
)

// CheckPlayerCollision pushes the player out of every unit it overlaps along
// the axis of least overlap and knocks it away from the unit.
func (m *Manager) CheckPlayerCollision(t Target) {
	hb := t.Hitbox()
	offX, offY := t.HitboxOffset()
	m.units.Each(func(u *object.Enemy) {
		ur := u.Rect()
		if !hb.Overlaps(ur) {
			return
		}
		dx, dy := hb.Separation(ur)
		hb.X += dx
		hb.Y += dy
		t.SetPosition(hb.X-offX, hb.Y-offY)

		hx, hy := hb.Center()
		ux, uy := u.Center()
		t.ApplyKnockback(hx-ux, hy-uy, config.KnockbackPower, config.KnockbackDuration)
	})
}

// CheckPlayerHit consumes hostile bullets touching the player, knocking the
// player away from each one.
func (m *Manager) CheckPlayerHit(t Target) {
	hb := t.Hitbox()
	hx, hy := hb.Center()
	m.hostile.Each(func(b *object.Projectile) {
		br := b.Rect()
		if !hb.Overlaps(br) {
			return
		}
		bx, by := br.Center()
		t.ApplyKnockback(hx-bx, hy-by, config.KnockbackPower, config.KnockbackDuration)
		b.Kill()
	})
}

// CheckUnitHits lets each player shot strike the first unit it overlaps.
// Returns the number of units killed.
func (m *Manager) CheckUnitHits() int {
	kills := 0
	m.shots.Each(func(s *object.Projectile) {
		sr := s.Rect()
		u := m.units.Find(func(u *object.Enemy) bool {
			return sr.Overlaps(u.Rect())
		})
		if u == nil {
			return
		}
		s.Kill()
		if u.ApplyDamage(s.Damage) {
			kills++
		}
	})
	return kills
}

// FindNearestAlive returns the center of the live unit closest to (x, y).
func (m *Manager) FindNearestAlive(x, y float64) (float64, float64, bool) {
	best := math.Inf(1)
	var bx, by float64
	found := false
	m.units.Each(func(u *object.Enemy) {
		cx, cy := u.Center()
		if d := physics.DistanceSquared(x, y, cx, cy); d < best {
			best, bx, by, found = d, cx, cy, true
		}
	})
	return bx, by, found
}

// StrikeTopN fires one area-effect shot from (ox, oy) at each of the n live
// units with the most hit points. Equal hit points go to the lower slot and
// units without hit points count as having one. Returns the shots fired.
func (m *Manager) StrikeTopN(n, damage int, ox, oy float64) int {
	if n <= 0 || damage <= 0 {
		return 0
	}
	clear(m.picked)
	fired := 0
	for k := 0; k < n; k++ {
		best, bestHP := -1, 0
		for i := 0; i < m.units.Cap(); i++ {
			u := m.units.At(i)
			if !u.Alive() || m.picked[i] {
				continue
			}
			hp := u.HP
			if hp <= 0 {
				hp = 1
			}
			if best < 0 || hp > bestHP {
				best, bestHP = i, hp
			}
		}
		if best < 0 {
			break
		}
		m.picked[best] = true
		cx, cy := m.units.At(best).Center()
		if m.spawnShot(ox, oy, cx-ox, cy-oy, config.AOEBulletSpeed, config.AOEBulletLifetime,
			config.AOEBulletSize, object.AOETint, max(damage, 1), true) {
			fired++
		}
	}
	return fired
}
