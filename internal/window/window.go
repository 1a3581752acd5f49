// Package window runs a session in a desktop window with ebiten.
package window

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tomz197/swarm/internal/config"
	"github.com/tomz197/swarm/internal/draw"
	"github.com/tomz197/swarm/internal/input"
	"github.com/tomz197/swarm/internal/loop"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// KeyFunc reports the state of one key.
type KeyFunc func(ebiten.Key) bool

// Controls maps keyboard state to one frame of input. held reports keys that
// are down; pressed reports keys that went down this tick.
func Controls(held, pressed KeyFunc) input.Input {
	anyKey := func(f KeyFunc, keys ...ebiten.Key) bool {
		for _, k := range keys {
			if f(k) {
				return true
			}
		}
		return false
	}
	return input.Input{
		Quit:  anyKey(pressed, ebiten.KeyEscape, ebiten.KeyQ),
		Left:  anyKey(held, ebiten.KeyA, ebiten.KeyArrowLeft),
		Right: anyKey(held, ebiten.KeyD, ebiten.KeyArrowRight),
		Up:    anyKey(held, ebiten.KeyW, ebiten.KeyArrowUp),
		Down:  anyKey(held, ebiten.KeyS, ebiten.KeyArrowDown),
		AOE:   anyKey(held, ebiten.KeyJ, ebiten.KeySpace),
		Save:  anyKey(pressed, ebiten.KeyP),
		Load:  anyKey(pressed, ebiten.KeyL),
		Start: anyKey(pressed, ebiten.KeySpace, ebiten.KeyEnter),
	}
}

var (
	textColor  = color.RGBA{R: 244, G: 244, B: 244, A: 255}
	titleColor = color.RGBA{R: 242, G: 92, B: 84, A: 255}
	hintColor  = color.RGBA{R: 138, G: 148, B: 166, A: 255}
	readyColor = color.RGBA{R: 255, G: 50, B: 200, A: 255}
	statusBg   = color.RGBA{R: 240, G: 230, B: 80, A: 255}
	statusFg   = color.RGBA{R: 11, G: 14, B: 20, A: 255}
)

// Game is an ebiten.Game over a session. The world is drawn at the logical
// view size and ebiten scales it to the window.
type Game struct {
	session *loop.Session
	pixels  *draw.Image
	frame   *ebiten.Image
	face    font.Face
	last    time.Time
}

// New wraps session for ebiten.RunGame.
func New(session *loop.Session) *Game {
	return &Game{
		session: session,
		pixels:  draw.NewImage(config.ViewWidth, config.ViewHeight),
		face:    basicfont.Face7x13,
	}
}

// Update polls the keyboard and advances the session. Quitting ends the
// game with ebiten.Termination.
func (g *Game) Update() error {
	now := time.Now()
	dt := 1.0 / float64(ebiten.TPS())
	if !g.last.IsZero() {
		dt = now.Sub(g.last).Seconds()
	}
	g.last = now

	in := Controls(ebiten.IsKeyPressed, inpututil.IsKeyJustPressed)
	if in.Quit {
		return ebiten.Termination
	}
	g.session.Step(dt, in)
	return nil
}

// Draw renders the world and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.session.Draw(g.pixels)
	if g.frame == nil {
		g.frame = ebiten.NewImage(config.ViewWidth, config.ViewHeight)
	}
	g.frame.WritePixels(g.pixels.RGBA.Pix)
	screen.DrawImage(g.frame, nil)
	g.drawHUD(screen, g.session.HUD())
}

// Layout keeps the logical view size regardless of the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.ViewWidth, config.ViewHeight
}

// Session returns the wrapped session.
func (g *Game) Session() *loop.Session { return g.session }

func (g *Game) centered(screen *ebiten.Image, s string, y int, c color.Color) {
	w := font.MeasureString(g.face, s).Ceil()
	text.Draw(screen, s, g.face, (config.ViewWidth-w)/2, y, c)
}

func (g *Game) drawHUD(screen *ebiten.Image, hud loop.HUD) {
	mid := config.ViewHeight / 2
	switch hud.Phase {
	case loop.PhaseTitle:
		g.centered(screen, "S W A R M", mid-40, titleColor)
		g.centered(screen, "Survive the swarm.", mid-10, textColor)
		g.centered(screen, "SPACE start  L load", mid+14, hintColor)
		g.centered(screen, "WASD move  J area  P save  Q quit", mid+32, hintColor)
	case loop.PhasePlaying:
		label := "TIME " + clock(hud.Elapsed)
		if hud.Remaining >= 0 {
			label = "LEFT " + clock(hud.Remaining)
		}
		text.Draw(screen, fmt.Sprintf("%s  KILLS %d  UNITS %d", label, hud.Kills, hud.Units), g.face, 6, 14, textColor)

		aoe, aoeColor := "wait", hintColor
		if hud.AOEReady {
			aoe, aoeColor = "READY", readyColor
		}
		right := fmt.Sprintf("FIRE %.2fs  AOE x%d ", hud.ShootInterval, hud.AOECount)
		rw := font.MeasureString(g.face, right+"READY").Ceil()
		x := config.ViewWidth - rw - 6
		text.Draw(screen, right, g.face, x, 14, textColor)
		text.Draw(screen, aoe, g.face, x+font.MeasureString(g.face, right).Ceil(), 14, aoeColor)
	case loop.PhaseOver:
		g.centered(screen, "TIME UP", mid-20, titleColor)
		g.centered(screen, fmt.Sprintf("Kills %d   Survived %s", hud.Kills, clock(hud.Elapsed)), mid, textColor)
		g.centered(screen, "SPACE play again  Q quit", mid+20, hintColor)
	}

	if hud.Status != "" {
		msg := strings.ToUpper(hud.Status)
		w := font.MeasureString(g.face, msg).Ceil() + 8
		x, y := (config.ViewWidth-w)/2, config.ViewHeight-20
		vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), 16, statusBg, false)
		text.Draw(screen, msg, g.face, x+4, y+12, statusFg)
	}
}

func clock(seconds float64) string {
	t := max(int(seconds), 0)
	return fmt.Sprintf("%02d:%02d", t/60, t%60)
}

var _ ebiten.Game = (*Game)(nil)
