package combat

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/swarm/internal/config"
	"github.com/tomz197/swarm/internal/object"
	"github.com/tomz197/swarm/internal/physics"
	"pgregory.net/rapid"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(12345))
}

var testView = object.View{Width: 480, Height: 270}

func newTestManager() *Manager {
	m := NewManager(testRNG(), testView)
	m.SetWorldSize(2048, 2048)
	return m
}

// fakeTarget records what collision resolution does to the player.
type fakeTarget struct {
	x, y       float64
	offX, offY float64
	w, h       float64
	knocks     [][2]float64
	immune     bool
}

func (f *fakeTarget) Hitbox() physics.Rect {
	return physics.Rect{X: f.x + f.offX, Y: f.y + f.offY, W: f.w, H: f.h}
}
func (f *fakeTarget) HitboxOffset() (float64, float64) { return f.offX, f.offY }
func (f *fakeTarget) SetPosition(x, y float64)         { f.x, f.y = x, y }
func (f *fakeTarget) ApplyKnockback(dx, dy, power, duration float64) bool {
	if f.immune {
		return false
	}
	f.knocks = append(f.knocks, [2]float64{dx, dy})
	return true
}

func TestUnitPoolCapacity(t *testing.T) {
	m := newTestManager()
	for i := 0; i < config.MaxUnits; i++ {
		require.NotNil(t, m.SpawnUnit(object.Chaser, float64(i), 0, 0, 0))
	}
	before := m.Units(nil)

	assert.Nil(t, m.SpawnUnit(object.Heavy, 5, 5, 0, 0), "full pool drops the request")
	assert.Equal(t, config.MaxUnits, m.UnitCount())
	assert.Equal(t, before, m.Units(nil), "existing units untouched")
}

func TestProjectilePoolCapacity(t *testing.T) {
	m := newTestManager()
	accepted := 0
	for i := 0; i < 300; i++ {
		if m.SpawnHostileBullet(100, 100, 1, 0) {
			accepted++
		}
		m.SpawnPlayerBullet(100, 100, 0, 1)
	}
	hostile, player := m.BulletCounts()
	assert.Equal(t, config.MaxHostileBullets, accepted)
	assert.Equal(t, config.MaxHostileBullets, hostile)
	assert.Equal(t, config.MaxPlayerBullets, player)
}

func TestSpawnIntervalFloor(t *testing.T) {
	assert.InDelta(t, 1.6, SpawnInterval(0), 1e-9)
	assert.InDelta(t, 1.0, SpawnInterval(30), 1e-9)
	assert.Equal(t, 0.35, SpawnInterval(62.5))

	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Float64Range(0, 500).Draw(t, "a")
		b := rapid.Float64Range(0, 500).Draw(t, "b")
		if a > b {
			a, b = b, a
		}
		if SpawnInterval(b) > SpawnInterval(a) {
			t.Fatalf("interval grew from %v to %v", a, b)
		}
		if b > 62.5 && SpawnInterval(b) != config.SpawnMinInterval {
			t.Fatalf("interval at %v is %v", b, SpawnInterval(b))
		}
	})
}

func TestTrySpawnCadence(t *testing.T) {
	m := newTestManager()
	cam := object.Camera{X: 800, Y: 800}

	for i := 0; i < 15; i++ {
		m.TrySpawn(0.1, cam, 1040, 935)
	}
	assert.Zero(t, m.UnitCount(), "1.5s is below the first interval")

	m.TrySpawn(0.1, cam, 1040, 935)
	assert.Equal(t, 1, m.UnitCount())
	assert.InDelta(t, 1.6, m.Elapsed(), 1e-9)
}

func TestTrySpawnCarriesOvershoot(t *testing.T) {
	m := newTestManager()
	cam := object.Camera{X: 800, Y: 800}
	m.TrySpawn(2.0, cam, 1040, 935) // interval 1.56, overshoot 0.44 carried
	require.Equal(t, 1, m.UnitCount())
	m.TrySpawn(1.2, cam, 1040, 935) // acc 1.64 vs interval 1.536
	assert.Equal(t, 2, m.UnitCount())
}

func TestTrySpawnDoublesAfterAMinute(t *testing.T) {
	m := newTestManager()
	m.SetElapsed(61)
	m.TrySpawn(0.4, object.Camera{X: 800, Y: 800}, 1040, 935)
	assert.Equal(t, 2, m.UnitCount())
}

func TestTrySpawnNeedsWorldSize(t *testing.T) {
	m := NewManager(testRNG(), testView)
	m.TrySpawn(5, object.Camera{}, 0, 0)
	assert.Zero(t, m.UnitCount())
}

func TestSpawnPlacementOutsideViewport(t *testing.T) {
	m := newTestManager()
	m.SetInfinite(true)
	cam := object.Camera{X: -3000, Y: 5000}
	viewport := physics.Rect{X: cam.X, Y: cam.Y, W: testView.Width, H: testView.Height}

	for i := 0; i < 100; i++ {
		m.spawnAtEdge(cam, cam.X, cam.Y)
	}
	units := m.Units(nil)
	require.Len(t, units, 100)
	for _, u := range units {
		assert.False(t, viewport.Overlaps(u.Rect()), "unit at %.0f,%.0f inside viewport", u.X, u.Y)
	}
}

func TestSpawnPlacementClampedInFiniteWorld(t *testing.T) {
	m := newTestManager()
	for i := 0; i < 50; i++ {
		m.spawnAtEdge(object.Camera{}, 20, 20)
	}
	for _, u := range m.Units(nil) {
		assert.GreaterOrEqual(t, u.X, 0.0)
		assert.GreaterOrEqual(t, u.Y, 0.0)
		assert.LessOrEqual(t, u.X, 2048-config.SpawnEdgePad)
		assert.LessOrEqual(t, u.Y, 2048-config.SpawnEdgePad)
	}
}

func TestSpawnedUnitsFacePlayer(t *testing.T) {
	m := newTestManager()
	// The camera is clamped at the corner, so its center is far from the player.
	for i := 0; i < 20; i++ {
		m.spawnAtEdge(object.Camera{}, 20, 20)
	}
	for _, u := range m.Units(nil) {
		cx, cy := u.Center()
		l := math.Hypot(20-cx, 20-cy)
		require.Greater(t, l, 0.0)
		assert.InDelta(t, (20-cx)/l, u.FX, 1e-9)
		assert.InDelta(t, (20-cy)/l, u.FY, 1e-9)
	}
}

func TestRollKindWeights(t *testing.T) {
	m := newTestManager()
	counts := map[object.EnemyKind]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		counts[m.rollKind()]++
	}
	assert.InDelta(t, 0.60, float64(counts[object.Chaser])/n, 0.02)
	assert.InDelta(t, 0.20, float64(counts[object.Turret])/n, 0.02)
	assert.InDelta(t, 0.10, float64(counts[object.Light])/n, 0.02)
	assert.InDelta(t, 0.10, float64(counts[object.Heavy])/n, 0.02)
}

func TestSpawnUnitCooldowns(t *testing.T) {
	m := newTestManager()
	turret := m.SpawnUnit(object.Turret, 0, 0, 0, 0)
	assert.GreaterOrEqual(t, turret.FireCooldown, 0.2)
	assert.LessOrEqual(t, turret.FireCooldown, 0.4)

	chaser := m.SpawnUnit(object.Chaser, 0, 0, 0, 0)
	assert.Equal(t, config.UnarmedCooldown, chaser.FireCooldown)
}

func TestTurretFiringCadence(t *testing.T) {
	m := newTestManager()
	turret := m.SpawnUnit(object.Turret, 500, 500, 0, 0)
	turret.FireCooldown = 0.3

	shots := 0
	for tick := 1; tick <= 4; tick++ {
		m.UpdateAll(0.1, 800, 512)
		hostile, _ := m.BulletCounts()
		if hostile > shots {
			shots = hostile
			assert.GreaterOrEqual(t, tick, 3)
			assert.GreaterOrEqual(t, turret.FireCooldown, 1.0)
			assert.LessOrEqual(t, turret.FireCooldown, 1.4)
		}
	}
	assert.Equal(t, 1, shots)

	var bullet *object.Projectile
	m.hostile.Each(func(b *object.Projectile) { bullet = b })
	require.NotNil(t, bullet)
	assert.InDelta(t, 280, bullet.VX, 1e-9, "aimed straight at the player center")
	assert.InDelta(t, 0, bullet.VY, 1e-9)
	assert.InDelta(t, 509, bullet.X, 1e-9, "centered on the turret")
}

func TestTurretSkipsFireWhenPoolFull(t *testing.T) {
	m := newTestManager()
	for m.SpawnHostileBullet(0, 0, 1, 0) {
	}
	turret := m.SpawnUnit(object.Turret, 500, 500, 0, 0)
	turret.FireCooldown = 0.05
	m.UpdateAll(0.1, 0, 0)
	assert.GreaterOrEqual(t, turret.FireCooldown, 1.0, "cooldown still resets")
}

func TestUpdateAllClampsOnlyInFiniteWorld(t *testing.T) {
	m := newTestManager()
	u := m.SpawnUnit(object.Light, 2, 2, -100, 2)
	m.UpdateAll(0.5, -1000, 12)
	assert.Zero(t, u.X)

	m.SetInfinite(true)
	m.UpdateAll(0.5, -1000, 12)
	assert.Less(t, u.X, 0.0)
}

func TestBulletLifetimeCull(t *testing.T) {
	m := newTestManager()
	m.SpawnHostileBullet(1000, 1000, 0, 1)
	for i := 1; i <= 5; i++ {
		m.UpdateBullets(0.25)
		hostile, _ := m.BulletCounts()
		if i < 4 {
			assert.Equal(t, 1, hostile, "update %d", i)
		} else {
			assert.Zero(t, hostile, "update %d", i)
		}
	}
}

func TestBulletBoundsCull(t *testing.T) {
	m := newTestManager()
	m.SpawnPlayerBullet(2040, 100, 1, 0)
	m.UpdatePlayerBullets(0.1)
	_, player := m.BulletCounts()
	assert.Zero(t, player)

	m.SetInfinite(true)
	m.SpawnPlayerBullet(2040, 100, 1, 0)
	m.UpdatePlayerBullets(0.1)
	_, player = m.BulletCounts()
	assert.Equal(t, 1, player)
}

func TestCheckPlayerCollisionMinimalSeparation(t *testing.T) {
	m := newTestManager()
	u := m.SpawnUnit(object.Chaser, 110, 105, 0, 0)
	require.NotNil(t, u)
	hero := &fakeTarget{x: 96, y: 94, offX: 4, offY: 6, w: 20, h: 20}

	m.CheckPlayerCollision(hero)

	hb := hero.Hitbox()
	assert.InDelta(t, 90, hb.X, 1e-9, "pushed along x, the smaller overlap")
	assert.InDelta(t, 100, hb.Y, 1e-9)
	assert.False(t, hb.Overlaps(u.Rect()))
	require.Len(t, hero.knocks, 1)
	assert.Less(t, hero.knocks[0][0], 0.0, "knocked away from the unit")
}

func TestCheckPlayerCollisionNoOverlap(t *testing.T) {
	m := newTestManager()
	m.SpawnUnit(object.Chaser, 500, 500, 0, 0)
	hero := &fakeTarget{x: 0, y: 0, w: 20, h: 20}
	m.CheckPlayerCollision(hero)
	assert.Empty(t, hero.knocks)
	assert.Zero(t, hero.x)
}

func TestCheckPlayerHitConsumesBullet(t *testing.T) {
	m := newTestManager()
	m.SpawnHostileBullet(105, 90, 0, 1)
	m.SpawnHostileBullet(900, 900, 0, 1)
	hero := &fakeTarget{x: 100, y: 100, w: 20, h: 20, immune: true}

	m.CheckPlayerHit(hero)
	hostile, _ := m.BulletCounts()
	assert.Equal(t, 2, hostile, "no overlap yet")

	m.UpdateBullets(0.05) // 14px down
	m.CheckPlayerHit(hero)
	hostile, _ = m.BulletCounts()
	assert.Equal(t, 1, hostile, "consumed even while the player is immune")
}

func TestCheckUnitHitsFirstMatchWins(t *testing.T) {
	m := newTestManager()
	first := m.SpawnUnit(object.Chaser, 100, 100, 0, 0)
	second := m.SpawnUnit(object.Chaser, 104, 104, 0, 0)
	m.SpawnPlayerBullet(112, 112, 1, 0)

	kills := m.CheckUnitHits()
	assert.Zero(t, kills)
	assert.Equal(t, 2, first.HP)
	assert.Equal(t, 3, second.HP)
	_, player := m.BulletCounts()
	assert.Zero(t, player, "bullet consumed")
}

func TestCheckUnitHitsCountsKills(t *testing.T) {
	m := newTestManager()
	m.SpawnUnit(object.Light, 100, 100, 0, 0)
	m.SpawnUnit(object.Light, 300, 300, 0, 0)
	m.SpawnPlayerBullet(110, 110, 1, 0)
	m.SpawnPlayerBullet(110, 110, 1, 0)
	m.SpawnPlayerBullet(310, 310, 1, 0)

	assert.Equal(t, 2, m.CheckUnitHits())
	assert.Zero(t, m.UnitCount())
	_, player := m.BulletCounts()
	assert.Equal(t, 1, player, "second bullet had nothing left to hit")
	assert.Zero(t, m.CheckUnitHits(), "dead units are not counted again")
}

func TestFindNearestAlive(t *testing.T) {
	m := newTestManager()
	_, _, ok := m.FindNearestAlive(0, 0)
	assert.False(t, ok)

	m.SpawnUnit(object.Chaser, 300, 300, 0, 0)
	near := m.SpawnUnit(object.Chaser, 50, 40, 0, 0)
	m.SpawnUnit(object.Chaser, -200, 0, 0, 0)

	x, y, ok := m.FindNearestAlive(0, 0)
	require.True(t, ok)
	assert.Equal(t, 62.0, x)
	assert.Equal(t, 52.0, y)

	near.Kill()
	x, _, ok = m.FindNearestAlive(0, 0)
	require.True(t, ok)
	assert.Equal(t, -188.0, x)
}

// shotTargets returns, for each live player shot, the unit it flies toward.
func shotTargets(m *Manager, ox, oy float64, units []*object.Enemy) []*object.Enemy {
	var hits []*object.Enemy
	m.shots.Each(func(s *object.Projectile) {
		for _, u := range units {
			cx, cy := u.Center()
			dx, dy := physics.Direction(cx-ox, cy-oy)
			if math.Abs(s.VX/config.AOEBulletSpeed-dx) < 1e-9 && math.Abs(s.VY/config.AOEBulletSpeed-dy) < 1e-9 {
				hits = append(hits, u)
			}
		}
	})
	return hits
}

func TestStrikeTopN(t *testing.T) {
	m := newTestManager()
	var units []*object.Enemy
	for i, hp := range []int{5, 2, 9, 1} {
		u := m.SpawnUnit(object.Chaser, 100+float64(i)*40, 400-float64(i*i)*30, 0, 0)
		u.HP = hp
		units = append(units, u)
	}

	fired := m.StrikeTopN(2, 3, 0, 0)
	assert.Equal(t, 2, fired)
	assert.ElementsMatch(t, []*object.Enemy{units[2], units[0]}, shotTargets(m, 0, 0, units))

	m.shots.Each(func(s *object.Projectile) {
		assert.True(t, s.AOE)
		assert.Equal(t, 3, s.Damage)
		assert.Equal(t, object.AOETint, s.Tint)
		assert.InDelta(t, config.AOEBulletLifetime, s.Lifetime, 1e-9)
	})
}

func TestStrikeTopNRunsOutOfTargets(t *testing.T) {
	m := newTestManager()
	m.SpawnUnit(object.Chaser, 100, 100, 0, 0)
	m.SpawnUnit(object.Heavy, 200, 100, 0, 0)

	assert.Equal(t, 2, m.StrikeTopN(10, 1, 0, 0))
	assert.Zero(t, m.StrikeTopN(0, 1, 0, 0))
	assert.Zero(t, m.StrikeTopN(3, 0, 0, 0))
	assert.Zero(t, NewManager(testRNG(), testView).StrikeTopN(3, 1, 0, 0))
}

func TestStrikeTopNTiesAndUnsetHP(t *testing.T) {
	m := newTestManager()
	a := m.SpawnUnit(object.Chaser, 100, 0, 0, 0)
	b := m.SpawnUnit(object.Chaser, 0, 100, 0, 0)
	c := m.SpawnUnit(object.Chaser, 100, 100, 0, 0)
	a.HP, b.HP, c.HP = 0, 1, -4

	assert.Equal(t, 1, m.StrikeTopN(1, 1, 0, 0))
	assert.Equal(t, []*object.Enemy{a}, shotTargets(m, 0, 0, []*object.Enemy{a, b, c}),
		"unset hit points count as one and the first slot wins the tie")
}

func TestRestoreUnitUsesKindSpeed(t *testing.T) {
	m := newTestManager()
	require.True(t, m.RestoreUnit(object.Light, 10, 20, 0.7, 9, 30, 31, 500, 20))
	units := m.Units(nil)
	require.Len(t, units, 1)
	u := units[0]
	assert.Equal(t, config.LightSpeed, u.Speed)
	assert.Equal(t, 9, u.HP)
	assert.Equal(t, 30.0, u.W)
	assert.Equal(t, 31.0, u.H)
	assert.Equal(t, 0.7, u.FireCooldown)

	m.ClearUnits()
	assert.Zero(t, m.UnitCount())
}
