// Command gomeboy is the reference host driver for the core: it loads a
// cartridge (and optional boot ROM), paces ticking to the real hardware's
// frame rate (tty and sdl drivers; the fyne driver steps frames without
// pacing), and renders through one of the pkg/display backends. None of
// this is part of the emulation core itself — pacing, input polling,
// windowing and file I/O are the host's job, not the console's.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pixelclock/gomeboy/internal/gameboy"
	"github.com/pixelclock/gomeboy/internal/types"
	"github.com/pixelclock/gomeboy/pkg/diagnostics"
	"github.com/pixelclock/gomeboy/pkg/display/fyneui"
	"github.com/pixelclock/gomeboy/pkg/display/sdl"
	"github.com/pixelclock/gomeboy/pkg/display/tty"
	"github.com/pixelclock/gomeboy/pkg/netdebug"
	"github.com/pixelclock/gomeboy/pkg/romarchive"
	"github.com/pixelclock/gomeboy/pkg/utils"
	"github.com/urfave/cli"
)

// frameTime paces StepFrame calls to the Game Boy's real ~59.7Hz refresh
// rate, matching the teacher's own FrameTime constant.
const frameRate = 59.7275
const frameTime = time.Duration(float64(time.Second) / frameRate)

func main() {
	app := cli.NewApp()
	app.Name = "gomeboy"
	app.Usage = "run a Game Boy ROM"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "rom", Usage: "path to a .gb/.gbc ROM, optionally inside a .7z archive"},
		cli.StringFlag{Name: "boot", Usage: "path to a boot ROM"},
		cli.StringFlag{Name: "model", Value: "auto", Usage: "auto, dmg or cgb"},
		cli.StringFlag{Name: "driver", Value: "tty", Usage: "display driver: fyne, tty or sdl"},
		cli.DurationFlag{Name: "save-every", Value: 10 * time.Second, Usage: "SRAM autosave interval"},
		cli.StringFlag{Name: "debug-server", Usage: "address to serve the framebuffer over websocket"},
		cli.StringFlag{Name: "diagnostics", Usage: "path to write a PNG chart of per-frame CPU/PPU timing on exit (tty driver only)"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "gomeboy:", err)
		os.Exit(1)
	}
}

func loadROM(path string) ([]byte, error) {
	if romarchive.IsArchive(path) {
		return romarchive.Load(path)
	}
	return utils.LoadFile(path)
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		return fmt.Errorf("--rom is required")
	}
	rom, err := loadROM(romPath)
	if err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}

	var boot []byte
	if bootPath := c.String("boot"); bootPath != "" {
		boot, err = loadROM(bootPath)
		if err != nil {
			return fmt.Errorf("loading boot rom: %w", err)
		}
	}

	var opts []gameboy.Opt
	switch c.String("model") {
	case "dmg":
		opts = append(opts, gameboy.AsModel(types.ModelDMG))
	case "cgb":
		opts = append(opts, gameboy.AsModel(types.ModelCGB))
	}
	opts = append(opts, gameboy.SaveEvery(c.Duration("save-every")))

	gb, err := gameboy.New(rom, boot, opts...)
	if err != nil {
		return fmt.Errorf("starting console: %w", err)
	}

	if addr := c.String("debug-server"); addr != "" {
		go serveDebug(addr, gb)
	}

	switch c.String("driver") {
	case "tty":
		return runTTY(gb, c.String("diagnostics"))
	case "fyne":
		fyneui.New(gb).Run()
		return nil
	case "sdl":
		return runSDL(gb)
	default:
		return fmt.Errorf("unknown driver %q", c.String("driver"))
	}
}

func runSDL(gb *gameboy.GameBoy) error {
	d, err := sdl.New(gb)
	if err != nil {
		return err
	}
	defer d.Close()

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	for range ticker.C {
		if !d.Run() {
			return nil
		}
	}
	return nil
}

func serveDebug(addr string, gb *gameboy.GameBoy) {
	srv := netdebug.New(gb)
	_ = srv.ListenAndServe(addr)
}

func runTTY(gb *gameboy.GameBoy, diagnosticsPath string) error {
	d, err := tty.New(gb)
	if err != nil {
		return err
	}
	defer d.Close()

	var rec *diagnostics.Recorder
	if diagnosticsPath != "" {
		rec = diagnostics.NewRecorder()
		d.RecordTiming(rec)
	}

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	for range ticker.C {
		if !d.Run() {
			break
		}
	}

	if rec != nil {
		return rec.WritePNG(diagnosticsPath)
	}
	return nil
}
