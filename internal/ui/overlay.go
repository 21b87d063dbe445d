//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

const (
	overlayPad        = 4
	overlayLineHeight = 14
)

// Overlay draws the status text over the top-left corner of the screen.
type Overlay struct {
	visible bool
	panel   *ebiten.Image
}

// NewOverlay constructs a visible overlay.
func NewOverlay() *Overlay {
	o := &Overlay{visible: true}
	o.panel = ebiten.NewImage(1, 1)
	o.panel.Fill(color.RGBA{A: 0xa0})
	return o
}

// Toggle shows or hides the overlay.
func (o *Overlay) Toggle() { o.visible = !o.visible }

// Draw renders s onto screen.
func (o *Overlay) Draw(screen *ebiten.Image, s Status) {
	if !o.visible {
		return
	}
	lines := s.Lines()
	width := 0
	for _, l := range lines {
		if w := len(l) * 7; w > width {
			width = w
		}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(width+2*overlayPad), float64(len(lines)*overlayLineHeight+2*overlayPad))
	screen.DrawImage(o.panel, op)
	for i, l := range lines {
		text.Draw(screen, l, basicfont.Face7x13, overlayPad, overlayPad+11+i*overlayLineHeight, color.White)
	}
}
