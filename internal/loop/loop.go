// Package loop runs game sessions: the per-frame simulation order, phases,
// save and load, and the terminal frontend that drives them.
package loop

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/swarm/internal/config"
	"github.com/tomz197/swarm/internal/draw"
	"github.com/tomz197/swarm/internal/input"
)

// Options configures a terminal run.
type Options struct {
	Settings     config.Settings
	Logger       *log.Logger
	TermSizeFunc draw.TermSizeFunc
}

// Run plays one session on a terminal with the standard
// Input → Update → Draw cycle. It returns when the player quits, the input
// stream closes or ctx is cancelled.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	session, err := NewSession(opts.Settings, opts.Logger)
	if err != nil {
		return err
	}
	return NewTerminal(session, w, opts.TermSizeFunc).Run(ctx, input.StartStream(r))
}

// Terminal renders a session to an ANSI terminal.
type Terminal struct {
	session  *Session
	writer   io.Writer
	canvas   *draw.Canvas
	cw       *draw.ChunkWriter
	styles   styles
	termSize draw.TermSizeFunc

	prevPhase  Phase
	prevStatus string
}

// NewTerminal prepares a terminal frontend for session. A nil termSize
// reads the size of stdout.
func NewTerminal(session *Session, w io.Writer, termSize draw.TermSizeFunc) *Terminal {
	if termSize == nil {
		termSize = draw.DefaultTermSizeFunc
	}
	t := &Terminal{
		session:   session,
		writer:    w,
		termSize:  termSize,
		styles:    newStyles(w),
		prevPhase: session.Phase(),
	}
	cols, rows, offCol, offRow := t.fit()
	t.canvas = draw.NewScaledCanvas(cols, rows, config.ViewWidth, config.ViewHeight)
	t.canvas.SetOffset(offCol, offRow)
	t.cw = draw.NewChunkWriter(w, offCol, offRow)
	return t
}

// fit returns the render area for the current terminal size.
func (t *Terminal) fit() (cols, rows, offCol, offRow int) {
	tw, th, err := t.termSize()
	if err != nil || tw <= 0 || th <= 0 {
		tw, th = 80, 24
	}
	return draw.Fit(tw, th, config.ViewWidth, config.ViewHeight)
}

// Run drives the frame loop until quit, stream close or cancellation.
func (t *Terminal) Run(ctx context.Context, stream *input.Stream) error {
	draw.EnterAltScreen(t.writer)
	draw.HideCursor(t.writer)
	defer func() {
		draw.ShowCursor(t.writer)
		draw.ClearScreen(t.writer)
		draw.LeaveAltScreen(t.writer)
	}()
	draw.ClearScreen(t.writer)

	logger := t.session.Logger()
	logger.Info("session started")
	defer logger.Info("session ended", "kills", t.session.Kills(), "phase", t.session.Phase())

	lastTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frameStart := time.Now()
		dt := frameStart.Sub(lastTime).Seconds()
		lastTime = frameStart

		// ===== INPUT PHASE =====
		in := input.ReadInput(stream)
		if in.Quit {
			return nil
		}

		// ===== UPDATE PHASE =====
		t.updateScreen()
		t.session.Step(dt, in)

		// ===== DRAW PHASE =====
		if err := t.Frame(); err != nil {
			return err
		}

		// ===== FRAME TIMING =====
		elapsed := time.Since(frameStart)
		if elapsed < config.TargetFrameTime {
			time.Sleep(config.TargetFrameTime - elapsed)
		}
	}
}

// updateScreen follows terminal resizes. On an actual change the screen is
// cleared so nothing is left outside the new render area.
func (t *Terminal) updateScreen() {
	cols, rows, offCol, offRow := t.fit()
	if cols != t.canvas.TerminalWidth() || rows != t.canvas.TerminalHeight() ||
		offCol != t.canvas.OffsetCol() || offRow != t.canvas.OffsetRow() {
		draw.ClearScreen(t.cw)
		t.canvas.Invalidate()
	}
	t.canvas.Resize(cols, rows)
	t.canvas.SetOffset(offCol, offRow)
	t.cw.SetOffset(offCol, offRow)
}

// Frame draws the session and the text overlay and flushes them.
func (t *Terminal) Frame() error {
	hud := t.session.HUD()

	// Text from the previous phase or status would survive the diff render.
	if hud.Phase != t.prevPhase || hud.Status != t.prevStatus {
		draw.ClearScreen(t.cw)
		t.canvas.Invalidate()
		t.prevPhase = hud.Phase
		t.prevStatus = hud.Status
	}

	t.session.Draw(t.canvas)
	t.canvas.Render(t.cw)
	t.canvas.RenderBorder(t.cw)
	drawOverlay(t.cw, t.styles, hud, t.canvas.TerminalWidth(), t.canvas.TerminalHeight())
	return t.cw.Flush()
}

// Canvas returns the terminal canvas.
func (t *Terminal) Canvas() *draw.Canvas { return t.canvas }
