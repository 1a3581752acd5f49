package loop

import (
	"fmt"
	"image/color"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/tomz197/swarm/internal/combat"
	"github.com/tomz197/swarm/internal/config"
	"github.com/tomz197/swarm/internal/draw"
	"github.com/tomz197/swarm/internal/input"
	"github.com/tomz197/swarm/internal/logx"
	"github.com/tomz197/swarm/internal/object"
	"github.com/tomz197/swarm/internal/pickup"
	"github.com/tomz197/swarm/internal/player"
	"github.com/tomz197/swarm/internal/save"
	"github.com/tomz197/swarm/internal/tilemap"
)

// Phase is the session's game phase.
type Phase int

const (
	PhaseTitle   Phase = iota // Title screen
	PhasePlaying              // Active run
	PhaseOver                 // Run clock expired, showing results
)

func (p Phase) String() string {
	switch p {
	case PhaseTitle:
		return "title"
	case PhasePlaying:
		return "playing"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// Background fills the screen where the map has no tile.
var Background = color.RGBA{R: 12, G: 14, B: 20, A: 255}

// Session is one player's game: the map, the hero, the combat and pickup
// managers, the camera and the run bookkeeping. It is not safe for
// concurrent use; every method runs on the frame loop.
type Session struct {
	settings config.Settings
	logger   *log.Logger

	tiles   *tilemap.Grid
	worldW  float64
	worldH  float64
	view    object.View
	camera  object.Camera
	hero    *player.Player
	combat  *combat.Manager
	pickups *pickup.Manager

	phase      Phase
	kills      int
	status     string
	statusTime float64
}

// NewSession builds a session from settings. The map is loaded from
// settings.MapPath when set and generated from the seed otherwise.
func NewSession(settings config.Settings, logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = logx.Discard()
	}
	rng := rand.New(rand.NewSource(settings.Seed))

	var tiles *tilemap.Grid
	if settings.MapPath != "" {
		g, err := tilemap.Load(settings.MapPath)
		if err != nil {
			return nil, fmt.Errorf("load map %s: %w", settings.MapPath, err)
		}
		tiles = g
	} else {
		tiles = tilemap.Generate(settings.MapTiles, settings.MapTiles, config.DefaultTileSize, rng)
	}
	return NewSessionWithMap(settings, logger, tiles, rng), nil
}

// NewSessionWithMap builds a session over an existing grid.
func NewSessionWithMap(settings config.Settings, logger *log.Logger, tiles *tilemap.Grid, rng *rand.Rand) *Session {
	if logger == nil {
		logger = logx.Discard()
	}
	view := object.View{Width: config.ViewWidth, Height: config.ViewHeight}
	w, h := tiles.PixelSize()
	s := &Session{
		settings: settings,
		logger:   logger,
		tiles:    tiles,
		worldW:   float64(w),
		worldH:   float64(h),
		view:     view,
		combat:   combat.NewManager(rng, view),
		pickups:  pickup.NewManager(rng, logger),
		phase:    PhaseTitle,
	}
	s.combat.SetWorldSize(s.worldW, s.worldH)
	s.setInfinite(settings.Infinite)
	s.hero = s.spawnHero()
	s.followHero()
	return s
}

func (s *Session) setInfinite(v bool) {
	s.settings.Infinite = v
	s.tiles.Wrap = v
	s.combat.SetInfinite(v)
	s.pickups.SetInfinite(v)
}

// spawnHero creates a hero centered on the map.
func (s *Session) spawnHero() *player.Player {
	p := player.New(0, 0)
	fw, fh := p.FrameSize()
	p.SetPosition(s.worldW/2-float64(fw)/2, s.worldH/2-float64(fh)/2)
	return p
}

func (s *Session) followHero() {
	cx, cy := s.hero.Center()
	if s.settings.Infinite {
		s.camera.Follow(cx, cy, s.view, 0, 0)
		return
	}
	s.camera.Follow(cx, cy, s.view, s.worldW, s.worldH)
}

// Start begins a fresh run.
func (s *Session) Start() {
	s.combat.Reset()
	s.pickups.Reset()
	s.hero = s.spawnHero()
	s.kills = 0
	s.phase = PhasePlaying
	s.followHero()
	s.logger.Info("run started", "infinite", s.settings.Infinite)
}

// Step advances the session by dt seconds using one frame of input.
func (s *Session) Step(dt float64, in input.Input) {
	dt = min(max(dt, 0), config.MaxFrameDelta)
	if s.statusTime > 0 {
		s.statusTime -= dt
		if s.statusTime <= 0 {
			s.status = ""
		}
	}

	switch s.phase {
	case PhaseTitle:
		if in.Load {
			if s.Load() == nil {
				return
			}
		}
		if in.Start {
			s.Start()
		}
	case PhaseOver:
		if in.Start {
			s.Start()
		}
	case PhasePlaying:
		if in.Save {
			_ = s.Save()
		}
		if in.Load {
			_ = s.Load()
		}
		s.simulate(dt, in)
	}
}

// simulate runs one frame of play in the fixed system order.
func (s *Session) simulate(dt float64, in input.Input) {
	ix, iy := in.Axis()
	s.hero.Update(dt, ix, iy, s.tiles)
	if !s.settings.Infinite {
		s.hero.ClampTo(s.worldW, s.worldH)
	}

	s.hero.UpdateAttack(dt, s.combat)
	s.hero.UpdateAOE(dt, in.AOE, s.combat)

	cx, cy := s.hero.Center()
	s.combat.TrySpawn(dt, s.camera, cx, cy)
	s.combat.UpdateAll(dt, cx, cy)
	s.combat.UpdateBullets(dt)
	s.combat.UpdatePlayerBullets(dt)

	s.combat.CheckPlayerCollision(s.hero)
	s.combat.CheckPlayerHit(s.hero)
	s.kills += s.combat.CheckUnitHits()

	s.pickups.TrySpawn(dt, s.camera, s.tiles)
	s.pickups.Collect(s.hero)

	s.followHero()

	if s.settings.RunSeconds > 0 && s.combat.Elapsed() >= s.settings.RunSeconds {
		s.phase = PhaseOver
		s.logger.Info("run over", "kills", s.kills, "survived", s.combat.Elapsed())
	}
}

// Snapshot captures the persisted part of the session.
func (s *Session) Snapshot() *save.Snapshot {
	snap := &save.Snapshot{
		Infinite:      s.settings.Infinite,
		PlayerX:       s.hero.X,
		PlayerY:       s.hero.Y,
		ShootInterval: s.hero.ShootInterval(),
		AOECount:      s.hero.AOECount(),
		AOEDamage:     s.hero.AOEDamage(),
		AOEInterval:   s.hero.AOEInterval(),
		Elapsed:       s.combat.Elapsed(),
		Kills:         s.kills,
	}
	for _, u := range s.combat.Units(nil) {
		snap.Units = append(snap.Units, save.Unit{
			Kind:         u.Kind,
			X:            u.X,
			Y:            u.Y,
			FireCooldown: u.FireCooldown,
			HP:           u.HP,
			W:            u.W,
			H:            u.H,
		})
	}
	return snap
}

// Apply replaces the run with snap. Projectiles and pickups are cleared.
func (s *Session) Apply(snap *save.Snapshot) {
	s.setInfinite(snap.Infinite)
	s.combat.Reset()
	s.pickups.Reset()

	s.hero = player.New(snap.PlayerX, snap.PlayerY)
	s.hero.SetShootInterval(snap.ShootInterval)
	s.hero.SetAOEParams(snap.AOECount, snap.AOEDamage, snap.AOEInterval)

	cx, cy := s.hero.Center()
	for _, u := range snap.Units {
		s.combat.RestoreUnit(u.Kind, u.X, u.Y, u.FireCooldown, u.HP, u.W, u.H, cx, cy)
	}
	s.combat.SetElapsed(snap.Elapsed)
	s.kills = snap.Kills
	s.phase = PhasePlaying
	s.followHero()
}

// Save writes the current run to the configured save path.
func (s *Session) Save() error {
	snap := s.Snapshot()
	if err := save.Write(s.settings.SavePath, snap); err != nil {
		s.logger.Warn("save failed", "path", s.settings.SavePath, "err", err)
		s.flash("save failed")
		return err
	}
	s.logger.Info("game saved", "path", s.settings.SavePath, "units", len(snap.Units))
	s.flash("saved")
	return nil
}

// Load restores the run from the configured save path. On failure the
// session is left as it was.
func (s *Session) Load() error {
	snap, err := save.Read(s.settings.SavePath)
	if err != nil {
		s.logger.Warn("load failed", "path", s.settings.SavePath, "err", err)
		s.flash("load failed")
		return err
	}
	s.Apply(snap)
	s.logger.Info("game loaded", "path", s.settings.SavePath, "units", len(snap.Units), "elapsed", snap.Elapsed)
	s.flash("loaded")
	return nil
}

func (s *Session) flash(msg string) {
	s.status = msg
	s.statusTime = config.StatusSeconds
}

// Draw renders the world onto surf in back-to-front order.
func (s *Session) Draw(surf draw.Surface) {
	draw.FillRect(surf, 0, 0, surf.Width(), surf.Height(), Background)
	tilemap.Draw(surf, s.tiles, s.camera.X, s.camera.Y)
	ctx := object.DrawContext{Surface: surf, Camera: s.camera}
	s.pickups.Draw(ctx)
	s.combat.DrawUnits(ctx)
	s.combat.DrawBullets(ctx)
	s.combat.DrawPlayerBullets(ctx)
	s.hero.Draw(ctx)
}

// HUD is the text overlay state.
type HUD struct {
	Phase         Phase
	Elapsed       float64
	Remaining     float64 // Negative when the run has no clock
	Kills         int
	Units         int
	ShootInterval float64
	AOECount      int
	AOEReady      bool
	Status        string
}

// HUD returns the values the overlay shows.
func (s *Session) HUD() HUD {
	remaining := -1.0
	if s.settings.RunSeconds > 0 {
		remaining = max(s.settings.RunSeconds-s.combat.Elapsed(), 0)
	}
	return HUD{
		Phase:         s.phase,
		Elapsed:       s.combat.Elapsed(),
		Remaining:     remaining,
		Kills:         s.kills,
		Units:         s.combat.UnitCount(),
		ShootInterval: s.hero.ShootInterval(),
		AOECount:      s.hero.AOECount(),
		AOEReady:      s.hero.AOEReady(),
		Status:        s.status,
	}
}

// Phase returns the current game phase.
func (s *Session) Phase() Phase { return s.phase }

// Kills returns units killed this run.
func (s *Session) Kills() int { return s.kills }

// Player returns the hero.
func (s *Session) Player() *player.Player { return s.hero }

// Combat returns the combat manager.
func (s *Session) Combat() *combat.Manager { return s.combat }

// Pickups returns the pickup manager.
func (s *Session) Pickups() *pickup.Manager { return s.pickups }

// Camera returns the camera's top-left corner.
func (s *Session) Camera() object.Camera { return s.camera }

// Infinite reports whether the world wraps.
func (s *Session) Infinite() bool { return s.settings.Infinite }

// Logger returns the session logger.
func (s *Session) Logger() *log.Logger { return s.logger }
