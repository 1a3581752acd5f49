package draw

import "image/color"

// Sprite draws one animation frame, selected by row and column, with its
// top-left corner at a screen position.
type Sprite interface {
	FrameSize() (w, h int)
	DrawFrame(s Surface, row, col, x, y int)
}

// FigureSheet is a procedural character sheet. Rows are facings
// (down, right, up, left) and columns are walk-cycle frames.
type FigureSheet struct {
	FrameW, FrameH int
	Body           color.RGBA
	Head           color.RGBA
	Accent         color.RGBA
}

// FrameSize returns the frame dimensions.
func (f FigureSheet) FrameSize() (int, int) {
	return f.FrameW, f.FrameH
}

// DrawFrame renders a simple figure: head, torso, a facing marker and legs
// that alternate with the column.
func (f FigureSheet) DrawFrame(s Surface, row, col, x, y int) {
	w, h := f.FrameW, f.FrameH
	if !Visible(s, x, y, w, h) {
		return
	}
	headW, headH := w/2, h/4
	headX := x + (w-headW)/2
	FillRect(s, headX, y, headW, headH, f.Head)

	torsoY := y + headH
	torsoH := h / 2
	FillRect(s, x+w/6, torsoY, w-2*(w/6), torsoH, f.Body)

	// Facing marker: eyes or back stripe on the head.
	mark := max(w/8, 1)
	switch row {
	case 0: // down
		FillRect(s, headX+mark, y+headH/2, mark, mark, f.Accent)
		FillRect(s, headX+headW-2*mark, y+headH/2, mark, mark, f.Accent)
	case 1: // right
		FillRect(s, headX+headW-mark, y+headH/2, mark, mark, f.Accent)
	case 2: // up
		FillRect(s, headX, y+headH-mark, headW, mark, f.Body)
	case 3: // left
		FillRect(s, headX, y+headH/2, mark, mark, f.Accent)
	}

	legY := torsoY + torsoH
	legH := h - headH - torsoH
	legW := max(w/4, 1)
	var lift [2]int
	switch col % 4 {
	case 1:
		lift[0] = legH / 3
	case 3:
		lift[1] = legH / 3
	}
	FillRect(s, x+w/4, legY, legW, legH-lift[0], f.Accent)
	FillRect(s, x+w-w/4-legW, legY, legW, legH-lift[1], f.Accent)
}

var _ Sprite = FigureSheet{}
