package cartridge

import "fmt"

// Type is the cartridge-type byte at 0x0147, selecting which MBC (if any)
// backs the cartridge.
type Type uint8

const (
	TypeROM               Type = 0x00
	TypeMBC1              Type = 0x01
	TypeMBC1RAM           Type = 0x02
	TypeMBC1RAMBatt       Type = 0x03
	TypeMBC2              Type = 0x05
	TypeMBC2Batt          Type = 0x06
	TypeROMRAM            Type = 0x08
	TypeROMRAMBatt        Type = 0x09
	TypeMBC3TimerBatt     Type = 0x0F
	TypeMBC3TimerRAMBatt  Type = 0x10
	TypeMBC3              Type = 0x11
	TypeMBC3RAM           Type = 0x12
	TypeMBC3RAMBatt       Type = 0x13
	TypeMBC5              Type = 0x19
	TypeMBC5RAM           Type = 0x1A
	TypeMBC5RAMBatt       Type = 0x1B
	TypeMBC5Rumble        Type = 0x1C
	TypeMBC5RumbleRAM     Type = 0x1D
	TypeMBC5RumbleRAMBatt Type = 0x1E
)

var ramSizeCodes = map[uint8]uint32{
	0x00: 0,
	0x01: 2 * 1024, // unofficial, some early tooling emits this
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// Header is the parsed cartridge header, 0x0100-0x014F.
type Header struct {
	Title         string
	CGBFlag       uint8 // raw byte at 0x0143
	SGBFlag       bool
	CartridgeType Type
	ROMSize       uint32
	RAMSize       uint32
	HeaderChecksum uint8
	GlobalChecksum uint16
}

// CGBCompatible reports whether the header declares CGB support (0x80) or
// CGB-only (0xC0).
func (h Header) CGBCompatible() bool { return h.CGBFlag == 0x80 || h.CGBFlag == 0xC0 }

// CGBOnly reports whether the cartridge refuses to run on DMG hardware.
func (h Header) CGBOnly() bool { return h.CGBFlag == 0xC0 }

// ParseHeader parses the ROM header at 0x0100-0x014F. A rom shorter than
// 0x150 bytes, or one naming an unsupported cartridge type, returns an
// error.
func ParseHeader(rom []byte) (Header, error) {
	if len(rom) < 0x150 {
		return Header{}, fmt.Errorf("cartridge: rom too short to contain a header: %d bytes", len(rom))
	}
	h := Header{}
	h.CGBFlag = rom[0x143]
	if h.CGBFlag == 0x80 {
		h.Title = trimTitle(rom[0x134:0x143])
	} else {
		h.Title = trimTitle(rom[0x134:0x144])
	}
	h.SGBFlag = rom[0x146] == 0x03
	h.CartridgeType = Type(rom[0x147])
	h.ROMSize = (32 * 1024) << rom[0x148]
	h.RAMSize = ramSizeCodes[rom[0x149]]
	h.HeaderChecksum = rom[0x14D]
	h.GlobalChecksum = uint16(rom[0x14E])<<8 | uint16(rom[0x14F])

	if _, known := mbcConstructor[h.CartridgeType]; !known {
		return h, fmt.Errorf("cartridge: unsupported cartridge type %#02x", uint8(h.CartridgeType))
	}
	return h, nil
}

func trimTitle(b []byte) string {
	n := len(b)
	for n > 0 && b[n-1] == 0x00 {
		n--
	}
	return string(b[:n])
}

// HasBattery reports whether this cartridge type persists SRAM.
func (t Type) HasBattery() bool {
	switch t {
	case TypeMBC1RAMBatt, TypeMBC2Batt, TypeROMRAMBatt,
		TypeMBC3TimerBatt, TypeMBC3TimerRAMBatt, TypeMBC3RAMBatt,
		TypeMBC5RAMBatt, TypeMBC5RumbleRAMBatt:
		return true
	}
	return false
}

// HasRTC reports whether this cartridge type carries an MBC3 real-time clock.
func (t Type) HasRTC() bool {
	return t == TypeMBC3TimerBatt || t == TypeMBC3TimerRAMBatt
}
