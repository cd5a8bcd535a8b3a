// Package tty renders the emulator's framebuffer to a terminal using
// half-block glyphs (two vertical pixels per character cell), so the core
// can be driven headlessly over SSH or in CI without a GUI toolkit.
package tty

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pixelclock/gomeboy/internal/gameboy"
	"github.com/pixelclock/gomeboy/internal/joypad"
	"github.com/pixelclock/gomeboy/pkg/diagnostics"
)

// keymap maps terminal keys to the eight physical buttons.
var keymap = map[rune]joypad.Key{
	'w': joypad.Up,
	'a': joypad.Left,
	's': joypad.Down,
	'd': joypad.Right,
	'j': joypad.A,
	'k': joypad.B,
	' ': joypad.Select,
	'\r': joypad.Start,
}

// Driver renders frames from a GameBoy console onto a tcell screen and
// relays keyboard input back as joypad presses.
type Driver struct {
	gb     *gameboy.GameBoy
	screen tcell.Screen
	rec    *diagnostics.Recorder
	frame  int
}

// RecordTiming attaches a diagnostics recorder; every subsequent Run call
// samples CPU/PPU time for that frame into it.
func (d *Driver) RecordTiming(rec *diagnostics.Recorder) { d.rec = rec }

// New opens a tcell screen and returns a Driver bound to gb.
func New(gb *gameboy.GameBoy) (*Driver, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("tty: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("tty: %w", err)
	}
	return &Driver{gb: gb, screen: screen}, nil
}

// Close releases the terminal.
func (d *Driver) Close() { d.screen.Fini() }

// Run steps one frame, draws it, and drains pending key events. It
// returns false once the user requests quit (Esc or Ctrl-C).
func (d *Driver) Run() bool {
	for d.screen.HasPendingEvent() {
		switch ev := d.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEsc || ev.Key() == tcell.KeyCtrlC {
				return false
			}
			if key, ok := keymap[ev.Rune()]; ok {
				// tcell reports discrete key events, not held state, so
				// each press is delivered as an immediate tap.
				d.gb.InputKey(key, true)
				d.gb.InputKey(key, false)
			}
		}
	}

	var frame []uint32
	if d.rec != nil {
		var cpuTime, ppuTime time.Duration
		frame, cpuTime, ppuTime = d.gb.StepFrameTimed()
		d.rec.Record(diagnostics.FrameTiming{
			Frame: d.frame,
			CPU:   cpuTime,
			PPU:   ppuTime,
			Total: cpuTime + ppuTime,
		})
		d.frame++
	} else {
		frame = d.gb.StepFrame()
	}
	d.draw(frame)
	d.screen.Show()
	return true
}

// draw paints two vertical pixels per terminal cell using the unicode
// upper-half-block glyph, foreground set to the top pixel and background
// to the bottom one.
func (d *Driver) draw(frame []uint32) {
	for y := 0; y < gameboy.ScreenHeight; y += 2 {
		for x := 0; x < gameboy.ScreenWidth; x++ {
			top := argbToColor(frame[y*gameboy.ScreenWidth+x])
			bottom := tcell.ColorBlack
			if y+1 < gameboy.ScreenHeight {
				bottom = argbToColor(frame[(y+1)*gameboy.ScreenWidth+x])
			}
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			d.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}
}

func argbToColor(v uint32) tcell.Color {
	r := uint8(v >> 16)
	g := uint8(v >> 8)
	b := uint8(v)
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
