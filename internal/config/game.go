package config

import "time"

// View resolution - the visible viewport in world pixels.
// Terminal rendering scales this to fit the terminal size.
const (
	ViewWidth  = 480
	ViewHeight = 270
)

// Frame timing
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
	MaxFrameDelta   = 0.1 // Seconds; longer stalls are clamped
)

// Pool capacities
const (
	MaxUnits          = 128
	MaxHostileBullets = 256
	MaxPlayerBullets  = 256
	MaxPickups        = 32
)

// Unit presets: speed (px/s), hit points, size (px)
const (
	ChaserSpeed = 60.0
	ChaserHP    = 3
	ChaserSize  = 24

	TurretSpeed = 0.0
	TurretHP    = 4
	TurretSize  = 24

	LightSpeed = 110.0
	LightHP    = 1
	LightSize  = 20

	HeavySpeed = 40.0
	HeavyHP    = 6
	HeavySize  = 28
)

// Steering blend per unit kind
const (
	SteerDefault = 0.20
	SteerLight   = 0.35
	SteerHeavy   = 0.15
)

// Spawn cadence
const (
	SpawnBaseInterval = 1.6  // Seconds between spawns at t=0
	SpawnMinInterval  = 0.35 // Floor for the spawn interval
	SpawnAccel        = 0.02 // Interval reduction per elapsed second
	SpawnDoubleAfter  = 60.0 // Seconds after which two units spawn per tick
	SpawnMargin       = 64.0 // Distance outside the viewport edge
	SpawnEdgePad      = 24.0 // Extra pad for left/top edges
)

// Spawn weights, in percent. Must sum to 100.
const (
	WeightChaser = 60
	WeightTurret = 20
	WeightLight  = 10
	WeightHeavy  = 10
)

// Turret fire
const (
	TurretFirstShotMin   = 0.2
	TurretFirstShotRange = 0.2
	TurretReloadMin      = 1.0
	TurretReloadRange    = 0.4
	UnarmedCooldown      = 999.0
)

// Projectiles
const (
	HostileBulletSpeed    = 280.0
	HostileBulletLifetime = 3.0
	HostileBulletSize     = 6

	PlayerBulletSpeed    = 420.0
	PlayerBulletLifetime = 1.2
	PlayerBulletSize     = 6
	PlayerBulletDamage   = 1

	AOEBulletSpeed    = 520.0
	AOEBulletLifetime = 0.9
	AOEBulletSize     = 8
)

// InfiniteBound stands in for world size when the world has no edges.
const InfiniteBound = 1 << 29

// Knockback
const (
	KnockbackPower    = 220.0
	KnockbackDuration = 0.12
	KnockbackDecay    = 6.0  // Exponential decay rate per second
	HitImmunity       = 0.10 // Seconds during which new knockback is ignored
)

// Player
const (
	PlayerSpeed         = 150.0
	PlayerFrameWidth    = 24
	PlayerFrameHeight   = 32
	PlayerHitboxWidth   = 16
	PlayerHitboxHeight  = 20
	ShootInterval       = 0.35
	AOEInterval         = 1.0
	AOECount            = 3
	AOEDamage           = 2
	AnimFrames          = 4
	AnimFrameTime       = 0.12
	AnimFallbackTime    = 0.1
	MinShootInterval    = 0.18
	MinAOEInterval      = 0.5
	BuffShootMultiplier = 0.85
	BuffAOEMultiplier   = 0.90
)

// Pickups
const (
	PickupSize           = 12
	PickupIntervalMin    = 7.0
	PickupIntervalRange  = 4.0
	PickupPlacementTries = 64
	PickupRingTiles      = 20
)

// Map
const (
	DefaultMapTiles = 64
	DefaultTileSize = 32
	BlockedTileMin  = 14
	BlockedTileMax  = 22
)

// Session
const (
	DefaultRunSeconds = 180.0
	StatusSeconds     = 2.0 // How long save/load status stays on the HUD
)
