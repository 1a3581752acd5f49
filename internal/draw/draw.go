// Package draw provides pixel surfaces and terminal output helpers.
package draw

import (
	"image"
	"image/color"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Surface is a pixel target in logical coordinates.
type Surface interface {
	Width() int
	Height() int
	Set(x, y int, c color.RGBA)
}

// RectFiller is implemented by surfaces with a faster rectangle fill than
// per-pixel Set calls.
type RectFiller interface {
	FillRect(x, y, w, h int, c color.RGBA)
}

// FillRect fills the rectangle at (x, y) of size w×h, clipped to the surface.
func FillRect(s Surface, x, y, w, h int, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	if f, ok := s.(RectFiller); ok {
		f.FillRect(x, y, w, h, c)
		return
	}
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, s.Width()), min(y+h, s.Height())
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			s.Set(px, py, c)
		}
	}
}

// Visible reports whether a w×h box at (x, y) touches the surface at all.
func Visible(s Surface, x, y, w, h int) bool {
	return x+w > 0 && y+h > 0 && x < s.Width() && y < s.Height()
}

// Image is a Surface backed by an *image.RGBA with a 1:1 pixel mapping.
type Image struct {
	RGBA *image.RGBA
}

// NewImage allocates an image surface of the given size.
func NewImage(width, height int) *Image {
	return &Image{RGBA: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Width returns the image width in pixels.
func (m *Image) Width() int { return m.RGBA.Rect.Dx() }

// Height returns the image height in pixels.
func (m *Image) Height() int { return m.RGBA.Rect.Dy() }

// Set writes one pixel. Out-of-range coordinates are ignored.
func (m *Image) Set(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= m.Width() || y >= m.Height() {
		return
	}
	m.RGBA.SetRGBA(x, y, c)
}

// FillRect fills a clipped rectangle directly in the pixel buffer.
func (m *Image) FillRect(x, y, w, h int, c color.RGBA) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, m.Width()), min(y+h, m.Height())
	for py := y0; py < y1; py++ {
		off := m.RGBA.PixOffset(x0, py)
		for px := x0; px < x1; px++ {
			m.RGBA.Pix[off] = c.R
			m.RGBA.Pix[off+1] = c.G
			m.RGBA.Pix[off+2] = c.B
			m.RGBA.Pix[off+3] = c.A
			off += 4
		}
	}
}

// Clear fills the whole image with c.
func (m *Image) Clear(c color.RGBA) {
	m.FillRect(0, 0, m.Width(), m.Height(), c)
}

var (
	_ Surface    = (*Image)(nil)
	_ RectFiller = (*Image)(nil)
)
