// Package sdl is an alternate native display driver built on SDL2. Besides
// keyboard input it also polls an attached SDL joystick, giving A, B,
// Select and Start a second, controller-driven input path; the joystick's
// d-pad is not read.
package sdl

import (
	"fmt"

	"github.com/pixelclock/gomeboy/internal/gameboy"
	"github.com/pixelclock/gomeboy/internal/joypad"
	"github.com/veandco/go-sdl2/sdl"
)

var keymap = map[sdl.Keycode]joypad.Key{
	sdl.K_w:      joypad.Up,
	sdl.K_a:      joypad.Left,
	sdl.K_s:      joypad.Down,
	sdl.K_d:      joypad.Right,
	sdl.K_j:      joypad.A,
	sdl.K_k:      joypad.B,
	sdl.K_SPACE:  joypad.Select,
	sdl.K_RETURN: joypad.Start,
}

// padmap maps the SDL joystick's face and Select/Start buttons using the
// layout most USB Game Boy-style pads present.
var padmap = map[uint8]joypad.Key{
	0: joypad.A,
	1: joypad.B,
	6: joypad.Select,
	7: joypad.Start,
}

// Driver owns the SDL window, renderer and texture the framebuffer is
// blitted into every frame.
type Driver struct {
	gb       *gameboy.GameBoy
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	joystick *sdl.Joystick
}

// New initializes SDL's video (and, if present, joystick) subsystems and
// opens a window sized to 3x the native resolution.
func New(gb *gameboy.GameBoy) (*Driver, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_JOYSTICK); err != nil {
		return nil, fmt.Errorf("sdl: %w", err)
	}

	window, err := sdl.CreateWindow("gomeboy",
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		gameboy.ScreenWidth*3, gameboy.ScreenHeight*3, sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, fmt.Errorf("sdl: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return nil, fmt.Errorf("sdl: %w", err)
	}

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888,
		sdl.TEXTUREACCESS_STREAMING, gameboy.ScreenWidth, gameboy.ScreenHeight)
	if err != nil {
		return nil, fmt.Errorf("sdl: %w", err)
	}

	d := &Driver{gb: gb, window: window, renderer: renderer, texture: texture}
	if sdl.NumJoysticks() > 0 {
		d.joystick = sdl.JoystickOpen(0)
	}
	return d, nil
}

// Close releases every SDL resource the driver opened.
func (d *Driver) Close() {
	if d.joystick != nil {
		d.joystick.Close()
	}
	d.texture.Destroy()
	d.renderer.Destroy()
	d.window.Destroy()
	sdl.Quit()
}

// Run steps one frame, blits it to the window and drains pending SDL
// events. It returns false once the user closes the window or presses Esc.
func (d *Driver) Run() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			if e.Keysym.Sym == sdl.K_ESCAPE {
				return false
			}
			if k, ok := keymap[e.Keysym.Sym]; ok {
				d.gb.InputKey(k, e.State == sdl.PRESSED)
			}
		case *sdl.JoyButtonEvent:
			if k, ok := padmap[e.Button]; ok {
				d.gb.InputKey(k, e.State == sdl.PRESSED)
			}
		}
	}

	frame := d.gb.StepFrame()
	pixels := make([]byte, len(frame)*4)
	for i, px := range frame {
		pixels[i*4] = byte(px)
		pixels[i*4+1] = byte(px >> 8)
		pixels[i*4+2] = byte(px >> 16)
		pixels[i*4+3] = byte(px >> 24)
	}
	d.texture.Update(nil, pixels, gameboy.ScreenWidth*4)

	d.renderer.Clear()
	d.renderer.Copy(d.texture, nil, nil)
	d.renderer.Present()
	return true
}
