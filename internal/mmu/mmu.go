// Package mmu implements the Game Boy's 16-bit memory map: it routes every
// load and store to the owning component (boot overlay, cartridge, VRAM,
// WRAM, OAM, I/O registers, HRAM) and performs the DMA/HDMA side effects
// triggered by writes to those registers.
package mmu

import (
	"github.com/pixelclock/gomeboy/internal/cartridge"
	"github.com/pixelclock/gomeboy/internal/interrupts"
	"github.com/pixelclock/gomeboy/internal/joypad"
	"github.com/pixelclock/gomeboy/internal/ppu"
	"github.com/pixelclock/gomeboy/internal/timer"
	"github.com/pixelclock/gomeboy/internal/types"
)

// CheatPatch is the narrow surface the gameboy package's cheat table needs
// from a Game Genie code set: rewrite a ROM byte read if a patch applies
// to it. GameShark codes have no CheatPatch implementation.
type CheatPatch interface {
	Cheat(address uint16) bool
	Read(address uint16, oldValue uint8) uint8
}

// MMU owns every byte-addressable memory region and dispatches the
// register side effects (DMA, HDMA, boot overlay, speed switch) that
// don't belong to any single subcomponent.
type MMU struct {
	cgb bool

	cart    *cartridge.Cartridge
	ppu     *ppu.PPU
	timer   *timer.Controller
	joypad  *joypad.State
	irq     *interrupts.Service
	wram    *wram
	serial  serial
	hdmaCtl hdma

	hram [0x80]uint8

	bootROM      []byte
	bootDisabled bool

	speedArmed  bool
	doubleSpeed bool

	cheats []CheatPatch
}

// SetCheats replaces the set of active Game Genie patches
// applied to cartridge ROM reads. Pass nil to clear all patches.
func (m *MMU) SetCheats(patches []CheatPatch) { m.cheats = patches }

func (m *MMU) applyCheats(address uint16, value uint8) uint8 {
	for _, c := range m.cheats {
		if c.Cheat(address) {
			value = c.Read(address, value)
		}
	}
	return value
}

// New constructs an MMU wiring the given subcomponents. bootROM may be nil
// or empty to skip the boot sequence entirely.
func New(cart *cartridge.Cartridge, p *ppu.PPU, t *timer.Controller, jp *joypad.State, irq *interrupts.Service, bootROM []byte, cgb bool) *MMU {
	m := &MMU{
		cgb:          cgb,
		cart:         cart,
		ppu:          p,
		timer:        t,
		joypad:       jp,
		irq:          irq,
		wram:         newWRAM(),
		hdmaCtl:      *newHDMA(),
		bootROM:      bootROM,
		bootDisabled: len(bootROM) == 0,
	}
	return m
}

// DoubleSpeed reports whether the CGB speed-switch has selected double
// CPU speed (the timer and PPU dot rate are unaffected; only CPU M-cycle
// pacing changes on real hardware, modeled here as a flag the console
// consults to decide how many CPU steps to run per PPU/timer tick).
func (m *MMU) DoubleSpeed() bool { return m.doubleSpeed }

// TriggerSpeedSwitch is invoked by the CPU's STOP handler; it toggles the
// double-speed flag only if the switch was armed via 0xFF4D bit 0.
func (m *MMU) TriggerSpeedSwitch() {
	if m.cgb && m.speedArmed {
		m.doubleSpeed = !m.doubleSpeed
		m.speedArmed = false
	}
}

func (m *MMU) inBootRange(address uint16) bool {
	if m.bootDisabled {
		return false
	}
	if address < 0x0100 {
		return true
	}
	return m.cgb && len(m.bootROM) > 0x100 && address >= 0x0200 && address < 0x0900
}

// Read returns the byte visible at address.
func (m *MMU) Read(address uint16) uint8 {
	switch {
	case m.inBootRange(address):
		return m.bootROM[address]
	case address <= 0x7FFF:
		if len(m.cheats) == 0 {
			return m.cart.Read(address)
		}
		return m.applyCheats(address, m.cart.Read(address))
	case address <= 0x9FFF:
		return m.ppu.ReadVRAM(address)
	case address <= 0xBFFF:
		return m.cart.Read(address)
	case address <= 0xCFFF:
		return m.wram.readLow(address)
	case address <= 0xDFFF:
		return m.wram.readHigh(address)
	case address <= 0xEFFF:
		return m.wram.readLow(address)
	case address <= 0xFDFF:
		return m.wram.readHigh(address)
	case address <= 0xFE9F:
		return m.ppu.ReadOAM(address)
	case address <= 0xFEFF:
		return 0xFF
	case address <= 0xFF7F:
		return m.readIO(address)
	case address <= 0xFFFE:
		return m.hram[address-0xFF80]
	default: // 0xFFFF
		return m.irq.Enable
	}
}

// Write stores value at address.
func (m *MMU) Write(address uint16, value uint8) {
	switch {
	case address <= 0x7FFF:
		m.cart.Write(address, value)
	case address <= 0x9FFF:
		m.ppu.WriteVRAM(address, value)
	case address <= 0xBFFF:
		m.cart.Write(address, value)
	case address <= 0xCFFF:
		m.wram.writeLow(address, value)
	case address <= 0xDFFF:
		m.wram.writeHigh(address, value)
	case address <= 0xEFFF:
		m.wram.writeLow(address, value)
	case address <= 0xFDFF:
		m.wram.writeHigh(address, value)
	case address <= 0xFE9F:
		m.ppu.WriteOAM(address, value)
	case address <= 0xFEFF:
		// unusable region: silently ignored
	case address <= 0xFF7F:
		m.writeIO(address, value)
	case address <= 0xFFFE:
		m.hram[address-0xFF80] = value
	default: // 0xFFFF
		m.irq.Enable = value
	}
}

func (m *MMU) readIO(address uint16) uint8 {
	switch {
	case address == 0xFF00:
		return m.joypad.Read()
	case address == 0xFF01 || address == 0xFF02:
		return m.serial.read(address)
	case address >= 0xFF04 && address <= 0xFF07:
		return m.readTimer(address)
	case address == 0xFF0F:
		return m.irq.ReadIF()
	case address >= 0xFF10 && address <= 0xFF3F:
		return 0xFF // APU not modeled
	case address == 0xFF46:
		return m.ppu.ReadRegister(address)
	case address >= 0xFF40 && address <= 0xFF4B:
		return m.ppu.ReadRegister(address)
	case address == 0xFF4D:
		if m.cgb {
			v := uint8(0x7E)
			if m.doubleSpeed {
				v |= 0x80
			}
			if m.speedArmed {
				v |= 0x01
			}
			return v
		}
		return 0xFF
	case address == 0xFF4F:
		return m.ppu.ReadRegister(address)
	case address == 0xFF50:
		return 0xFF
	case address >= 0xFF51 && address <= 0xFF54:
		return 0xFF
	case address == 0xFF55:
		if m.cgb {
			return m.hdmaCtl.status
		}
		return 0xFF
	case address >= 0xFF68 && address <= 0xFF6B:
		return m.ppu.ReadRegister(address)
	case address == 0xFF70:
		if m.cgb {
			return m.wram.bank | 0xF8
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *MMU) writeIO(address uint16, value uint8) {
	switch {
	case address == 0xFF00:
		m.joypad.Write(value)
	case address == 0xFF01 || address == 0xFF02:
		m.serial.write(address, value)
	case address >= 0xFF04 && address <= 0xFF07:
		m.writeTimer(address, value)
	case address == 0xFF0F:
		m.irq.WriteIF(value)
	case address >= 0xFF10 && address <= 0xFF3F:
		// APU not modeled: writes silently ignored
	case address == 0xFF46:
		m.triggerDMA(value)
	case address >= 0xFF40 && address <= 0xFF4B:
		m.ppu.WriteRegister(address, value)
	case address == 0xFF4D:
		if m.cgb {
			m.speedArmed = value&0x01 != 0
		}
	case address == 0xFF4F:
		m.ppu.WriteRegister(address, value)
	case address == 0xFF50:
		if value != 0 {
			m.bootDisabled = true
		}
	case address >= 0xFF51 && address <= 0xFF54:
		if m.cgb {
			m.hdmaCtl.write(address, value)
		}
	case address == 0xFF55:
		if m.cgb {
			m.triggerHDMA(value)
		}
	case address >= 0xFF68 && address <= 0xFF6B:
		m.ppu.WriteRegister(address, value)
	case address == 0xFF70:
		if m.cgb {
			m.wram.setBank(value)
		}
	}
}

func (m *MMU) readTimer(address uint16) uint8 {
	switch address {
	case 0xFF04:
		return m.timer.DIV()
	case 0xFF05:
		return m.timer.TIMA()
	case 0xFF06:
		return m.timer.TMA()
	default:
		return m.timer.TAC()
	}
}

func (m *MMU) writeTimer(address uint16, value uint8) {
	switch address {
	case 0xFF04:
		m.timer.WriteDIV()
	case 0xFF05:
		m.timer.WriteTIMA(value)
	case 0xFF06:
		m.timer.WriteTMA(value)
	default:
		m.timer.WriteTAC(value)
	}
}

// triggerDMA performs the instantaneous 160-byte OAM DMA copy described
// by a write to 0xFF46.
func (m *MMU) triggerDMA(value uint8) {
	if value > 0xDF {
		return
	}
	src := uint16(value) << 8
	for i := uint16(0); i < 160; i++ {
		m.ppu.WriteOAMByte(uint8(i), m.Read(src+i))
	}
}

// triggerHDMA performs the instantaneous general-purpose DMA copy
// described by a write to 0xFF55.
func (m *MMU) triggerHDMA(value uint8) {
	src := m.hdmaCtl.source()
	dst := m.hdmaCtl.dest()
	length := hdmaLength(value)
	for i := 0; i < length; i++ {
		m.ppu.WriteVRAM(dst+uint16(i), m.Read(src+uint16(i)))
	}
	m.hdmaCtl.status = 0xFF
}

func (m *MMU) Save(s *types.State) {
	s.WriteBool(m.bootDisabled)
	s.WriteBool(m.speedArmed)
	s.WriteBool(m.doubleSpeed)
	m.wram.Save(s)
	m.serial.Save(s)
	s.Write8(m.hdmaCtl.srcHi)
	s.Write8(m.hdmaCtl.srcLo)
	s.Write8(m.hdmaCtl.dstHi)
	s.Write8(m.hdmaCtl.dstLo)
	s.Write8(m.hdmaCtl.status)
	s.WriteFixed(m.hram[:])
}

func (m *MMU) Load(s *types.State) {
	m.bootDisabled = s.ReadBool()
	m.speedArmed = s.ReadBool()
	m.doubleSpeed = s.ReadBool()
	m.wram.Load(s)
	m.serial.Load(s)
	m.hdmaCtl.srcHi = s.Read8()
	m.hdmaCtl.srcLo = s.Read8()
	m.hdmaCtl.dstHi = s.Read8()
	m.hdmaCtl.dstLo = s.Read8()
	m.hdmaCtl.status = s.Read8()
	s.ReadFixed(m.hram[:])
}

// SerialLog returns the bytes appended by the debug-log tap, used by
// conformance tests that check blargg/mooneye ROM output.
func (m *MMU) SerialLog() []byte { return m.serial.log }

var _ types.Stater = (*MMU)(nil)
