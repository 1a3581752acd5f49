package pickup

import (
	"bytes"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/swarm/internal/config"
	"github.com/tomz197/swarm/internal/draw"
	"github.com/tomz197/swarm/internal/logx"
	"github.com/tomz197/swarm/internal/object"
	"github.com/tomz197/swarm/internal/player"
	"github.com/tomz197/swarm/internal/tilemap"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(24680))
}

func filledGrid(t *testing.T, w, h, id int) *tilemap.Grid {
	t.Helper()
	tiles := make([]int, w*h)
	for i := range tiles {
		tiles[i] = id
	}
	g, err := tilemap.NewGrid(w, h, 32, 32, tiles)
	require.NoError(t, err)
	return g
}

func TestFirstIntervalInRange(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		m := NewManager(rand.New(rand.NewSource(seed)), nil)
		next := m.NextSpawn()
		assert.GreaterOrEqual(t, next, config.PickupIntervalMin)
		assert.Less(t, next, config.PickupIntervalMin+config.PickupIntervalRange)
	}
}

func TestTrySpawnCentersOnOpenTile(t *testing.T) {
	m := NewManager(testRNG(), nil)
	g := filledGrid(t, 8, 8, 0)
	g.Set(3, 3, 14)

	m.TrySpawn(1, object.Camera{}, g)
	assert.Zero(t, m.Count(), "timer not expired")

	for i := 0; i < 10; i++ {
		m.TrySpawn(11.0/10, object.Camera{}, g)
	}
	items := m.Items(nil)
	require.NotEmpty(t, items)
	for _, p := range items {
		cx, cy := p.Rect().Center()
		assert.Equal(t, 16.0, math.Mod(cx, 32), "centered in a tile")
		assert.Equal(t, 16.0, math.Mod(cy, 32))
		assert.False(t, g.Blocked(int(cx)/32, int(cy)/32))
		assert.Equal(t, object.FruitTint, p.Tint)
	}
}

func TestTrySpawnGivesUpOnBlockedMap(t *testing.T) {
	m := NewManager(testRNG(), nil)
	g := filledGrid(t, 4, 4, 14)

	m.TrySpawn(12, object.Camera{}, g)
	assert.Zero(t, m.Count())
	assert.Greater(t, m.NextSpawn(), 0.0, "timer restarted")
}

func TestTrySpawnAroundCameraWhenInfinite(t *testing.T) {
	m := NewManager(testRNG(), nil)
	m.SetInfinite(true)
	g := filledGrid(t, 8, 8, 0)
	g.Wrap = true
	cam := object.Camera{X: 3200, Y: -3200}

	for i := 0; i < 20; i++ {
		m.TrySpawn(11, cam, g)
	}
	items := m.Items(nil)
	require.Len(t, items, 20)
	for _, p := range items {
		cx, cy := p.Rect().Center()
		tx := int(math.Floor(cx / 32))
		ty := int(math.Floor(cy / 32))
		assert.InDelta(t, 100, tx, config.PickupRingTiles)
		assert.InDelta(t, -100, ty, config.PickupRingTiles)
	}
}

func TestSpawnAtRespectsCapacity(t *testing.T) {
	m := NewManager(testRNG(), nil)
	for i := 0; i < config.MaxPickups; i++ {
		require.True(t, m.SpawnAt(float64(i*20), 0))
	}
	assert.False(t, m.SpawnAt(0, 0))
	assert.Equal(t, config.MaxPickups, m.Count())

	m.Reset()
	assert.Zero(t, m.Count())
}

func TestCollectBuffsAndLogs(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager(testRNG(), logx.NewWith(&buf, "info", "json"))
	p := player.New(0, 0)

	m.SpawnAt(10, 10)
	m.SpawnAt(200, 200)

	assert.Equal(t, 1, m.Collect(p))
	assert.Equal(t, 1, m.Count(), "the far pickup stays")
	assert.Equal(t, config.AOECount+1, p.AOECount())
	assert.InDelta(t, config.ShootInterval*config.BuffShootMultiplier, p.ShootInterval(), 1e-9)

	out := buf.String()
	assert.Contains(t, out, `"msg":"fruit picked"`)
	assert.Contains(t, out, `"aoeN":4`)

	assert.Zero(t, m.Collect(p), "nothing left in reach")
}

func TestDrawRendersLivePickups(t *testing.T) {
	m := NewManager(testRNG(), nil)
	m.SpawnAt(4, 4)
	m.SpawnAt(1000, 1000)

	img := draw.NewImage(32, 32)
	m.Draw(object.DrawContext{Surface: img})
	assert.Equal(t, object.FruitTint, img.RGBA.RGBAAt(5, 5))
}
