package combat

import (
	"github.com/tomz197/swarm/internal/config"
	"github.com/tomz197/swarm/internal/object"
	"github.com/tomz197/swarm/internal/physics"
)

// SpawnInterval returns the seconds between spawns after elapsed seconds of
// play. It shrinks linearly and never drops below the configured floor.
func SpawnInterval(elapsed float64) float64 {
	return max(config.SpawnMinInterval, config.SpawnBaseInterval-config.SpawnAccel*elapsed)
}

// TrySpawn advances the spawn clock by dt and spawns units just outside the
// viewport at cam, facing the player center (px, py), whenever the interval
// has elapsed. Leftover time carries over to the next interval.
func (m *Manager) TrySpawn(dt float64, cam object.Camera, px, py float64) {
	m.elapsed += dt
	m.spawnAcc += dt
	interval := SpawnInterval(m.elapsed)
	if m.spawnAcc < interval {
		return
	}
	m.spawnAcc -= interval

	count := 1
	if m.elapsed > config.SpawnDoubleAfter {
		count = 2
	}
	for i := 0; i < count; i++ {
		m.spawnAtEdge(cam, px, py)
	}
}

// spawnAtEdge places one random unit on a random side of the viewport.
func (m *Manager) spawnAtEdge(cam object.Camera, px, py float64) {
	if m.units.Alloc() == nil {
		return
	}
	if m.worldW <= 0 || m.worldH <= 0 {
		return
	}

	x, y := m.edgePosition(cam)
	if !m.infinite {
		x = physics.Clamp(x, 0, m.worldW-config.SpawnEdgePad)
		y = physics.Clamp(y, 0, m.worldH-config.SpawnEdgePad)
	}
	m.SpawnUnit(m.rollKind(), x, y, px, py)
}

// edgePosition picks a point SpawnMargin outside one of the four viewport edges.
func (m *Manager) edgePosition(cam object.Camera) (float64, float64) {
	margin := config.SpawnMargin
	r := m.rng.Float64()
	switch int(m.rng.Float64() * 4) {
	case 0: // left
		return cam.X - margin - config.SpawnEdgePad, cam.Y + r*m.view.Height
	case 1: // right
		return cam.X + m.view.Width + margin, cam.Y + r*m.view.Height
	case 2: // top
		return cam.X + r*m.view.Width, cam.Y - margin - config.SpawnEdgePad
	default: // bottom
		return cam.X + r*m.view.Width, cam.Y + m.view.Height + margin
	}
}

// rollKind draws a unit kind by the configured weights.
func (m *Manager) rollKind() object.EnemyKind {
	roll := m.rng.Intn(100)
	switch {
	case roll < config.WeightChaser:
		return object.Chaser
	case roll < config.WeightChaser+config.WeightTurret:
		return object.Turret
	case roll < config.WeightChaser+config.WeightTurret+config.WeightLight:
		return object.Light
	}
	return object.Heavy
}
