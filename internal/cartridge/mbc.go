package cartridge

import "github.com/pixelclock/gomeboy/internal/types"

// MBC is the behavioral contract every bank controller variant implements:
// byte-level access to the two cartridge-mapped windows, plus save-state
// and battery-RAM persistence hooks. Modeling it as a small interface
// (rather than a class hierarchy) keeps the per-variant logic in one place
// each and lets Cartridge dispatch over it without type switches.
type MBC interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	types.Stater

	// SaveRAM returns the current contents of battery-backed external RAM
	// (and, for MBC3, the RTC epoch), or nil if the cartridge has none.
	SaveRAM() []byte
	// LoadRAM restores external RAM (and RTC epoch) from a prior SaveRAM.
	LoadRAM(data []byte)
}

var mbcConstructor = map[Type]func(rom []byte, h Header) MBC{
	TypeROM:    func(rom []byte, h Header) MBC { return newROM(rom) },
	TypeROMRAM: func(rom []byte, h Header) MBC { return newROM(rom) },
	TypeROMRAMBatt: func(rom []byte, h Header) MBC { return newROM(rom) },

	TypeMBC1:        func(rom []byte, h Header) MBC { return newMBC1(rom, h) },
	TypeMBC1RAM:     func(rom []byte, h Header) MBC { return newMBC1(rom, h) },
	TypeMBC1RAMBatt: func(rom []byte, h Header) MBC { return newMBC1(rom, h) },

	TypeMBC2:     func(rom []byte, h Header) MBC { return newMBC2(rom) },
	TypeMBC2Batt: func(rom []byte, h Header) MBC { return newMBC2(rom) },

	TypeMBC3:             func(rom []byte, h Header) MBC { return newMBC3(rom, h) },
	TypeMBC3RAM:          func(rom []byte, h Header) MBC { return newMBC3(rom, h) },
	TypeMBC3RAMBatt:      func(rom []byte, h Header) MBC { return newMBC3(rom, h) },
	TypeMBC3TimerBatt:    func(rom []byte, h Header) MBC { return newMBC3(rom, h) },
	TypeMBC3TimerRAMBatt: func(rom []byte, h Header) MBC { return newMBC3(rom, h) },

	TypeMBC5:              func(rom []byte, h Header) MBC { return newMBC5(rom, h) },
	TypeMBC5RAM:            func(rom []byte, h Header) MBC { return newMBC5(rom, h) },
	TypeMBC5RAMBatt:        func(rom []byte, h Header) MBC { return newMBC5(rom, h) },
	TypeMBC5Rumble:         func(rom []byte, h Header) MBC { return newMBC5(rom, h) },
	TypeMBC5RumbleRAM:      func(rom []byte, h Header) MBC { return newMBC5(rom, h) },
	TypeMBC5RumbleRAMBatt:  func(rom []byte, h Header) MBC { return newMBC5(rom, h) },
}

// romBanks returns the number of 16KiB ROM banks backing rom.
func romBanks(rom []byte) int {
	n := len(rom) / 0x4000
	if n == 0 {
		n = 1
	}
	return n
}
