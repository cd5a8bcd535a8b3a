// Package fyneui is the default windowed GUI driver: a single fyne window
// showing the framebuffer, with a File menu (Open ROM, Save Frame, Copy
// Frame to the clipboard) and an Emulation menu (Pause). It has no boot-ROM
// or snapshot pickers.
package fyneui

import (
	"fmt"
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/pixelclock/gomeboy/internal/gameboy"
	"github.com/pixelclock/gomeboy/internal/joypad"
	"github.com/pixelclock/gomeboy/pkg/display/fyneui/overlay"
	"github.com/pixelclock/gomeboy/pkg/utils"
)

var keymap = map[fyne.KeyName]joypad.Key{
	fyne.KeyW:         joypad.Up,
	fyne.KeyA:         joypad.Left,
	fyne.KeyS:         joypad.Down,
	fyne.KeyD:         joypad.Right,
	fyne.KeyJ:         joypad.A,
	fyne.KeyK:         joypad.B,
	fyne.KeySpace:     joypad.Select,
	fyne.KeyReturn:    joypad.Start,
}

// Driver owns the fyne application and its single main window.
type Driver struct {
	gb     *gameboy.GameBoy
	app    fyne.App
	window fyne.Window
	img    *image.RGBA
	raster *canvas.Raster
}

// New creates the application and main window, but does not show it.
func New(gb *gameboy.GameBoy) *Driver {
	d := &Driver{
		gb:  gb,
		app: app.NewWithID("com.pixelclock.gomeboy"),
	}

	d.window = d.app.NewWindow("gomeboy")
	d.window.Resize(fyne.NewSize(gameboy.ScreenWidth*3, gameboy.ScreenHeight*3))

	d.img = image.NewRGBA(image.Rect(0, 0, gameboy.ScreenWidth, gameboy.ScreenHeight))
	d.raster = canvas.NewRasterFromImage(d.img)
	d.raster.ScaleMode = canvas.ImageScalePixels
	d.window.SetContent(d.raster)

	d.window.SetMainMenu(d.buildMenu())

	if desk, ok := d.window.Canvas().(desktop.Canvas); ok {
		desk.SetOnKeyDown(func(e *fyne.KeyEvent) {
			if k, ok := keymap[e.Name]; ok {
				d.gb.InputKey(k, true)
			}
		})
		desk.SetOnKeyUp(func(e *fyne.KeyEvent) {
			if k, ok := keymap[e.Name]; ok {
				d.gb.InputKey(k, false)
			}
		})
	}

	return d
}

func (d *Driver) buildMenu() *fyne.MainMenu {
	openROM := fyne.NewMenuItem("Open ROM...", func() {
		path, err := utils.AskForFile("Open ROM", ".")
		if err != nil {
			return
		}
		rom, err := utils.LoadFile(path)
		if err != nil {
			d.gb.Errorf("fyneui: loading rom: %v", err)
			return
		}
		if newGB, err := gameboy.New(rom, nil); err == nil {
			*d.gb = *newGB
		}
	})
	copyFrame := fyne.NewMenuItem("Copy Frame", func() {
		if err := utils.CopyImage(d.img); err != nil {
			d.gb.Errorf("fyneui: copy frame: %v", err)
		}
	})
	saveFrame := fyne.NewMenuItem("Save Frame...", func() {
		if err := utils.SaveImage(d.img); err != nil {
			d.gb.Errorf("fyneui: save frame: %v", err)
		}
	})
	pause := fyne.NewMenuItem("Pause", func() {
		if d.gb.Paused() {
			d.gb.Unpause()
		} else {
			d.gb.Pause()
		}
	})
	fileMenu := fyne.NewMenu("File", openROM, saveFrame, copyFrame)
	emuMenu := fyne.NewMenu("Emulation", pause)
	return fyne.NewMainMenu(fileMenu, emuMenu)
}

// Run shows the window, ticking one frame per refresh and blocking until the
// window is closed.
func (d *Driver) Run() {
	d.window.SetCloseIntercept(func() {
		d.window.Close()
	})

	go func() {
		for {
			frame := d.gb.StepFrame()
			for i, px := range frame {
				r := uint8(px >> 16)
				g := uint8(px >> 8)
				b := uint8(px)
				d.img.Set(i%gameboy.ScreenWidth, i/gameboy.ScreenWidth, color.RGBA{R: r, G: g, B: b, A: 255})
			}
			overlay.DrawFPS(d.img, fmt.Sprintf("%dHz", gameboy.ClockSpeed))
			d.raster.Refresh()
		}
	}()

	d.window.ShowAndRun()
}
