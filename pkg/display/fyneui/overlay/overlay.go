// Package overlay draws small debug text directly onto a framebuffer image,
// the way a game's own status HUD would, rather than through a separate
// widget the fyne canvas would need to composite.
package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DrawFPS renders text in the top-left corner of img using the standard
// 7x13 bitmap font, white on a translucent black backing so it stays
// legible over any background pixels.
func DrawFPS(img draw.Image, text string) {
	face := basicfont.Face7x13
	backing := image.Rect(0, 0, len(text)*7+2, 13)
	draw.Draw(img, backing, image.NewUniform(color.RGBA{A: 160}), image.Point{}, draw.Over)

	dot := fixed.Point26_6{X: fixed.I(1), Y: fixed.I(11)}
	for _, r := range text {
		advance, ok := face.GlyphAdvance(r)
		if !ok {
			continue
		}
		drawGlyph(img, face, r, dot)
		dot.X += advance
	}
}

func drawGlyph(dst draw.Image, face *basicfont.Face, r rune, dot fixed.Point26_6) {
	dr, mask, maskp, _, ok := face.Glyph(dot, r)
	if !ok {
		return
	}
	draw.DrawMask(dst, dr, image.NewUniform(color.White), image.Point{}, mask, maskp, draw.Over)
}
