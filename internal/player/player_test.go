package player

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/swarm/internal/config"
	"github.com/tomz197/swarm/internal/draw"
	"github.com/tomz197/swarm/internal/object"
	"github.com/tomz197/swarm/internal/tilemap"
	"pgregory.net/rapid"
)

type shot struct{ x, y, dx, dy float64 }

type strike struct {
	n, damage int
	ox, oy    float64
}

// fakeArsenal records requests instead of spawning anything.
type fakeArsenal struct {
	target   [2]float64
	hasAlive bool
	shots    []shot
	strikes  []strike
}

func (f *fakeArsenal) FindNearestAlive(x, y float64) (float64, float64, bool) {
	return f.target[0], f.target[1], f.hasAlive
}

func (f *fakeArsenal) SpawnPlayerBullet(x, y, dx, dy float64) bool {
	f.shots = append(f.shots, shot{x, y, dx, dy})
	return true
}

func (f *fakeArsenal) StrikeTopN(n, damage int, ox, oy float64) int {
	f.strikes = append(f.strikes, strike{n, damage, ox, oy})
	return n
}

func grid(t *testing.T, w, h int, blocked ...[2]int) *tilemap.Grid {
	t.Helper()
	g, err := tilemap.NewGrid(w, h, 32, 32, make([]int, w*h))
	require.NoError(t, err)
	for _, b := range blocked {
		g.Set(b[0], b[1], 14)
	}
	return g
}

func TestHitboxCentered(t *testing.T) {
	p := New(100, 200)
	ox, oy := p.HitboxOffset()
	assert.Equal(t, 4.0, ox)
	assert.Equal(t, 6.0, oy)

	hb := p.Hitbox()
	assert.Equal(t, 104.0, hb.X)
	assert.Equal(t, 206.0, hb.Y)
	assert.Equal(t, float64(config.PlayerHitboxWidth), hb.W)
	assert.Equal(t, float64(config.PlayerHitboxHeight), hb.H)

	cx, cy := p.Center()
	assert.Equal(t, 112.0, cx)
	assert.Equal(t, 216.0, cy)
}

func TestDiagonalSpeedParity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		dt := rapid.Float64Range(0.001, 0.1).Draw(t, "dt")
		sx := rapid.SampledFrom([]float64{-1, 1}).Draw(t, "sx")
		sy := rapid.SampledFrom([]float64{-1, 1}).Draw(t, "sy")

		straight := New(0, 0)
		straight.Update(dt, sx, 0, nil)
		diagonal := New(0, 0)
		diagonal.Update(dt, sx, sy, nil)

		want := math.Hypot(straight.X, straight.Y)
		got := math.Hypot(diagonal.X, diagonal.Y)
		if math.Abs(want-got) > 1e-9 {
			t.Fatalf("diagonal moved %v, straight moved %v", got, want)
		}
	})
}

func TestFacing(t *testing.T) {
	p := New(0, 0)
	p.Update(0.01, 0, -1, nil)
	assert.Equal(t, Up, p.Dir)

	p.Update(0.01, 1, 1, nil)
	assert.Equal(t, Right, p.Dir, "horizontal wins on diagonals")

	p.Update(0.01, -1, 0, nil)
	assert.Equal(t, Left, p.Dir)

	p.Update(0.01, 0, 0, nil)
	assert.Equal(t, Left, p.Dir, "idle keeps the last facing")
	assert.Equal(t, 0, p.Frame())
}

func TestWalkAnimation(t *testing.T) {
	p := New(0, 0)
	p.Update(config.AnimFrameTime+0.01, 1, 0, nil)
	assert.Equal(t, 1, p.Frame())

	p.Update(0.01, 0, 0, nil)
	assert.Equal(t, 0, p.Frame(), "stopping rewinds")
}

func TestKnockbackDebounce(t *testing.T) {
	p := New(0, 0)
	require.True(t, p.ApplyKnockback(1, 0, 220, 0.12))
	assert.False(t, p.ApplyKnockback(0, 1, 220, 0.12), "second hit inside the immunity window")

	kx, ky, rem := p.Knockback()
	assert.Equal(t, 220.0, kx)
	assert.Equal(t, 0.0, ky)
	assert.Equal(t, 0.12, rem)

	p.Update(0.2, 0, 0, nil)
	assert.True(t, p.ApplyKnockback(0, 1, 220, 0.12), "window closed")
}

func TestKnockbackRejectsDegenerateDirection(t *testing.T) {
	p := New(0, 0)
	assert.False(t, p.ApplyKnockback(0, 0, 220, 0.12))
	assert.True(t, p.ApplyKnockback(0, -3, 220, 0.12), "a zero vector does not open the window")
}

func TestKnockbackDecays(t *testing.T) {
	p := New(0, 0)
	require.True(t, p.ApplyKnockback(2, 0, 220, 0.12))

	p.Update(0.05, 0, 0, nil)
	assert.InDelta(t, 11.0, p.X, 1e-9)
	kx, _, rem := p.Knockback()
	assert.InDelta(t, 220*math.Exp(-6*0.05), kx, 1e-9)
	assert.InDelta(t, 0.07, rem, 1e-9)

	p.Update(0.05, 0, 0, nil)
	p.Update(0.05, 0, 0, nil)
	kx, ky, rem := p.Knockback()
	assert.Zero(t, kx)
	assert.Zero(t, ky)
	assert.Zero(t, rem)

	x := p.X
	p.Update(0.05, 0, 0, nil)
	assert.Equal(t, x, p.X, "expired knockback no longer moves the player")
}

func TestSweepSnapsAgainstWalls(t *testing.T) {
	t.Run("right", func(t *testing.T) {
		p := New(36, 0) // hitbox x 40
		p.Update(0.2, 1, 0, grid(t, 4, 1, [2]int{2, 0}))
		assert.Equal(t, 44.0, p.X, "hitbox right edge flush with tile 2")
		assert.Equal(t, 0.0, p.Y)
	})
	t.Run("left", func(t *testing.T) {
		p := New(36, 0)
		p.Update(0.2, -1, 0, grid(t, 4, 1, [2]int{0, 0}))
		assert.Equal(t, 28.0, p.X, "hitbox left edge flush with tile 0")
	})
	t.Run("down", func(t *testing.T) {
		p := New(36, 0) // hitbox y 6
		p.Update(0.2, 0, 1, grid(t, 4, 4, [2]int{1, 1}))
		assert.Equal(t, 6.0, p.Y, "hitbox bottom flush with row 1")
	})
	t.Run("up", func(t *testing.T) {
		p := New(36, 34) // hitbox y 40
		p.Update(0.2, 0, -1, grid(t, 4, 4, [2]int{1, 0}))
		assert.Equal(t, 26.0, p.Y, "hitbox top flush with row 0")
	})
	t.Run("open ground", func(t *testing.T) {
		p := New(36, 0)
		p.Update(0.2, 1, 0, grid(t, 4, 1))
		assert.InDelta(t, 66.0, p.X, 1e-9)
	})
}

func TestSweepSlidesAlongWall(t *testing.T) {
	g := grid(t, 4, 4, [2]int{2, 0}, [2]int{2, 1}, [2]int{2, 2}, [2]int{2, 3})
	p := New(36, 0)
	p.Update(0.2, 1, 1, g)

	step := config.PlayerSpeed * 0.2 / math.Sqrt2
	assert.Equal(t, 44.0, p.X, "blocked on x")
	assert.InDelta(t, step, p.Y, 1e-9, "still moves on y")
}

func TestClampTo(t *testing.T) {
	p := New(-5, 900)
	p.ClampTo(640, 640)
	assert.Equal(t, 0.0, p.X)
	assert.Equal(t, float64(640-config.PlayerFrameHeight), p.Y)
}

func TestAutoAttackWaitsForTarget(t *testing.T) {
	p := New(0, 0)
	a := &fakeArsenal{}

	p.UpdateAttack(0.1, a)
	assert.Empty(t, a.shots)

	a.hasAlive = true
	a.target = [2]float64{112, 16}
	p.UpdateAttack(0.01, a)
	require.Len(t, a.shots, 1, "cooldown was not spent without a target")
	assert.Equal(t, shot{12, 16, 100, 0}, a.shots[0])

	p.UpdateAttack(0.1, a)
	p.UpdateAttack(0.1, a)
	assert.Len(t, a.shots, 1, "cooling down")
}

func TestAutoAttackCadence(t *testing.T) {
	p := New(0, 0)
	a := &fakeArsenal{hasAlive: true, target: [2]float64{300, 300}}

	for i := 0; i < 20; i++ {
		p.UpdateAttack(0.05, a)
	}
	// Fires on tick 0, then needs 0.35s of decrements before the next one.
	assert.Len(t, a.shots, 3)
}

func TestAOEGating(t *testing.T) {
	p := New(0, 0)
	a := &fakeArsenal{}

	assert.Zero(t, p.UpdateAOE(0.1, false, a))
	assert.Empty(t, a.strikes, "needs the trigger")

	assert.Equal(t, config.AOECount, p.UpdateAOE(0.1, true, a))
	require.Len(t, a.strikes, 1)
	assert.Equal(t, strike{config.AOECount, config.AOEDamage, 12, 16}, a.strikes[0])
	assert.False(t, p.AOEReady())

	p.UpdateAOE(0.5, true, a)
	assert.Len(t, a.strikes, 1, "still cooling down")
	p.UpdateAOE(0.5, true, a)
	assert.Len(t, a.strikes, 2)
}

func TestSetAOEParamsIgnoresNonPositive(t *testing.T) {
	p := New(0, 0)
	p.SetAOEParams(5, 0, -1)
	assert.Equal(t, 5, p.AOECount())
	assert.Equal(t, config.AOEDamage, p.AOEDamage())
	assert.Equal(t, config.AOEInterval, p.AOEInterval())

	p.SetShootInterval(0)
	assert.Equal(t, config.ShootInterval, p.ShootInterval())
}

func TestBuff(t *testing.T) {
	p := New(0, 0)
	p.ApplyBuff()
	assert.InDelta(t, 0.35*0.85, p.ShootInterval(), 1e-9)
	assert.Equal(t, config.AOECount+1, p.AOECount())
	assert.InDelta(t, 0.9, p.AOEInterval(), 1e-9)

	for i := 0; i < 30; i++ {
		p.ApplyBuff()
	}
	assert.Equal(t, config.MinShootInterval, p.ShootInterval())
	assert.Equal(t, config.MinAOEInterval, p.AOEInterval())
	assert.Equal(t, config.AOECount+31, p.AOECount())
}

func TestDraw(t *testing.T) {
	img := draw.NewImage(64, 64)
	p := New(10, 10)
	p.Draw(object.DrawContext{Surface: img})
	assert.Equal(t, DefaultSprite.Head, img.RGBA.RGBAAt(22, 12))

	off := draw.NewImage(64, 64)
	p.Draw(object.DrawContext{Surface: off, Camera: object.Camera{X: 500}})
	assert.Equal(t, make([]uint8, len(off.RGBA.Pix)), off.RGBA.Pix, "offscreen frame draws nothing")
}
