// Package gameboy composes the CPU, MMU, PPU, timer, joypad and interrupt
// controller into a single cooperatively-stepped console, and provides the
// save-state and battery-RAM persistence built on top of them.
package gameboy

import (
	"fmt"
	"time"

	"github.com/pixelclock/gomeboy/internal/boot"
	"github.com/pixelclock/gomeboy/internal/cartridge"
	"github.com/pixelclock/gomeboy/internal/cpu"
	"github.com/pixelclock/gomeboy/internal/interrupts"
	"github.com/pixelclock/gomeboy/internal/joypad"
	"github.com/pixelclock/gomeboy/internal/mmu"
	"github.com/pixelclock/gomeboy/internal/ppu"
	"github.com/pixelclock/gomeboy/internal/timer"
	"github.com/pixelclock/gomeboy/internal/types"
	"github.com/pixelclock/gomeboy/pkg/log"
)

// ScreenWidth and ScreenHeight are the Game Boy's fixed LCD dimensions.
const (
	ScreenWidth  = 160
	ScreenHeight = 144
)

// ClockSpeed is the LR35902's clock rate in Hz.
const ClockSpeed = 4194304

// GameBoy composes every emulated component into the single execution
// context the core requires: one owner of CPU+MMU+PPU+timer, stepped one
// M-cycle at a time by Tick.
type GameBoy struct {
	CPU   *cpu.CPU
	MMU   *mmu.MMU
	PPU   *ppu.PPU
	Timer *timer.Controller

	Joypad     *joypad.State
	Interrupts *interrupts.Service
	Cart       *cartridge.Cartridge
	BootROM    *boot.ROM

	log.Logger

	model  types.Model
	paused bool
	ticks  uint64
}

// New constructs a GameBoy from a cartridge ROM image and applies opts.
// bootROM may be nil to skip straight to the post-boot register state.
func New(rom []byte, bootROM []byte, opts ...Opt) (*GameBoy, error) {
	cart, err := cartridge.New(rom)
	if err != nil {
		return nil, fmt.Errorf("gameboy: %w", err)
	}

	model := types.ModelAuto
	if cart.IsCGB() {
		model = types.ModelCGB
	} else {
		model = types.ModelDMG
	}

	irq := interrupts.New()
	pad := joypad.New(irq)
	tmr := timer.New(irq)
	video := ppu.New(irq, model == types.ModelCGB)
	bus := mmu.New(cart, video, tmr, pad, irq, bootROM, model == types.ModelCGB)
	core := cpu.New(bus, irq)

	g := &GameBoy{
		CPU:        core,
		MMU:        bus,
		PPU:        video,
		Timer:      tmr,
		Joypad:     pad,
		Interrupts: irq,
		Cart:       cart,
		Logger:     log.NewNullLogger(),
		model:      model,
	}

	if bootROM == nil {
		g.skipBoot()
	} else {
		g.BootROM = boot.LoadBootROM(bootROM)
		g.Infof("booting with %s", g.BootROM.Model())
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// skipBoot sets CPU/register state to what a real boot ROM would have left
// behind, for cartridges run without one.
func (g *GameBoy) skipBoot() {
	g.CPU.PC = 0x0100
	g.CPU.SP = 0xFFFE
	if g.model == types.ModelCGB {
		g.CPU.A, g.CPU.F = 0x11, 0x80
		g.CPU.B, g.CPU.C = 0x00, 0x00
		g.CPU.D, g.CPU.E = 0xFF, 0x56
		g.CPU.H, g.CPU.L = 0x00, 0x0D
	} else {
		g.CPU.A, g.CPU.F = 0x01, 0xB0
		g.CPU.B, g.CPU.C = 0x00, 0x13
		g.CPU.D, g.CPU.E = 0x00, 0xD8
		g.CPU.H, g.CPU.L = 0x01, 0x4D
	}
}

// Tick performs exactly one M-cycle: the CPU first, then the timer, then
// four PPU dots. This ordering is fixed; every byte-addressable mutation
// the three components make is routed through the MMU and is therefore
// totally ordered across a Tick.
func (g *GameBoy) Tick() {
	g.CPU.Step()
	if g.MMU.DoubleSpeed() {
		g.CPU.Step()
	}
	g.Timer.Tick()
	for i := 0; i < 4; i++ {
		g.PPU.Step()
	}
	g.ticks++
}

// StepFrame ticks the console until the PPU has produced a new frame, and
// returns the 160x144 ARGB framebuffer. Paused consoles tick zero times and
// return the last framebuffer.
func (g *GameBoy) StepFrame() []uint32 {
	if g.paused {
		return g.PPU.Framebuffer()
	}
	for !g.PPU.ConsumeFrameReady() {
		g.Tick()
	}
	return g.PPU.Framebuffer()
}

// StepFrameTimed behaves like StepFrame but also reports wall-clock time
// spent in the CPU and PPU across the frame, for the diagnostics package's
// timing chart. Paused consoles report zero for both.
func (g *GameBoy) StepFrameTimed() (frame []uint32, cpuTime, ppuTime time.Duration) {
	if g.paused {
		return g.PPU.Framebuffer(), 0, 0
	}
	for !g.PPU.ConsumeFrameReady() {
		start := time.Now()
		g.CPU.Step()
		if g.MMU.DoubleSpeed() {
			g.CPU.Step()
		}
		cpuTime += time.Since(start)

		g.Timer.Tick()

		start = time.Now()
		for i := 0; i < 4; i++ {
			g.PPU.Step()
		}
		ppuTime += time.Since(start)

		g.ticks++
	}
	return g.PPU.Framebuffer(), cpuTime, ppuTime
}

// InputKey presses or releases one of the eight physical buttons.
func (g *GameBoy) InputKey(key joypad.Key, pressed bool) {
	if pressed {
		g.Joypad.Press(key)
	} else {
		g.Joypad.Release(key)
	}
}

// Pause stops StepFrame from ticking the console; the CPU retains its
// state and resumes exactly where it left off on Unpause.
func (g *GameBoy) Pause()       { g.paused = true }
func (g *GameBoy) Unpause()     { g.paused = false }
func (g *GameBoy) Paused() bool { return g.paused }

// Model reports which physical console this instance reproduces.
func (g *GameBoy) Model() types.Model { return g.model }

// SetModel swaps the emulated model and resets CPU register state to that
// model's post-boot values. It does not reset VRAM/WRAM/cartridge state.
func (g *GameBoy) SetModel(m types.Model) {
	g.model = m
	g.skipBoot()
}
