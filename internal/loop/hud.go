package loop

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/tomz197/swarm/internal/draw"
)

// styles holds the overlay text styles for one terminal.
type styles struct {
	title  lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	ready  lipgloss.Style
	status lipgloss.Style
	hint   lipgloss.Style
}

// newStyles builds styles rendered for w. The game canvas is truecolor, so
// the overlay uses the same profile regardless of what the terminal reports.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w, termenv.WithProfile(termenv.TrueColor))
	return styles{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#F25C54")),
		label:  r.NewStyle().Foreground(lipgloss.Color("#8A94A6")),
		value:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#F4F4F4")),
		ready:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF32C8")),
		status: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#0B0E14")).Background(lipgloss.Color("#F0E650")).Padding(0, 1),
		hint:   r.NewStyle().Faint(true).Foreground(lipgloss.Color("#C8C8C8")),
	}
}

var titleArt = []string{
	` ___ _      __ _   ___ __  __ `,
	`/ __| \    / /_\ | _ \  \/  |`,
	`\__ \\ \/\/ / _ \|   / |\/| |`,
	`|___/ \_/\_/_/ \_\_|_\_|  |_|`,
}

// clock formats seconds as mm:ss.
func clock(seconds float64) string {
	t := max(int(seconds), 0)
	return fmt.Sprintf("%02d:%02d", t/60, t%60)
}

// writeCentered writes s centered on row, measuring its printable width.
func writeCentered(cw *draw.ChunkWriter, termWidth, row int, s string) {
	col := (termWidth-lipgloss.Width(s))/2 + 1
	cw.WriteAt(max(col, 1), row, s)
}

// drawOverlay writes the text layer for the current phase.
func drawOverlay(cw *draw.ChunkWriter, st styles, hud HUD, termWidth, termHeight int) {
	centerY := termHeight / 2
	switch hud.Phase {
	case PhaseTitle:
		top := centerY - len(titleArt) - 2
		for i, line := range titleArt {
			writeCentered(cw, termWidth, top+i, st.title.Render(line))
		}
		writeCentered(cw, termWidth, centerY, st.value.Render("Survive the swarm."))
		writeCentered(cw, termWidth, centerY+2, st.hint.Render("Press SPACE to start, L to load your save"))
		writeCentered(cw, termWidth, centerY+4, st.label.Render("WASD/arrows move  J/space area attack  P save  L load  Q quit"))
	case PhasePlaying:
		drawPlayingHUD(cw, st, hud, termWidth)
	case PhaseOver:
		writeCentered(cw, termWidth, centerY-2, st.title.Render("TIME UP"))
		writeCentered(cw, termWidth, centerY,
			st.label.Render("Kills ")+st.value.Render(fmt.Sprint(hud.Kills))+
				st.label.Render("   Survived ")+st.value.Render(clock(hud.Elapsed)))
		writeCentered(cw, termWidth, centerY+2, st.hint.Render("Press SPACE to play again, Q to quit"))
	}
	if hud.Status != "" {
		writeCentered(cw, termWidth, termHeight-1, st.status.Render(strings.ToUpper(hud.Status)))
	}
}

func drawPlayingHUD(cw *draw.ChunkWriter, st styles, hud HUD, termWidth int) {
	timeLabel, timeValue := "TIME ", clock(hud.Elapsed)
	if hud.Remaining >= 0 {
		timeLabel, timeValue = "LEFT ", clock(hud.Remaining)
	}
	left := st.label.Render(timeLabel) + st.value.Render(timeValue) +
		st.label.Render("  KILLS ") + st.value.Render(fmt.Sprintf("%-4d", hud.Kills)) +
		st.label.Render("  UNITS ") + st.value.Render(fmt.Sprintf("%-3d", hud.Units))
	cw.WriteAt(2, 1, left)

	aoe := st.label.Render("wait ")
	if hud.AOEReady {
		aoe = st.ready.Render("READY")
	}
	right := st.label.Render("FIRE ") + st.value.Render(fmt.Sprintf("%.2fs", hud.ShootInterval)) +
		st.label.Render("  AOE x") + st.value.Render(fmt.Sprintf("%-2d ", hud.AOECount)) + aoe
	cw.WriteAt(max(termWidth-lipgloss.Width(right), 1), 1, right)
}
