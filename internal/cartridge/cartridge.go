// Package cartridge models the Game Boy cartridge slot: header parsing,
// bank-controller dispatch (RomOnly, MBC1, MBC2, MBC3+RTC, MBC5), and
// battery-backed SRAM persistence.
package cartridge

import (
	"fmt"

	"github.com/cespare/xxhash"
	"github.com/pixelclock/gomeboy/internal/types"
)

// Cartridge owns the parsed header and dispatches reads/writes to the
// concrete MBC implementation selected by the header's cartridge-type byte.
type Cartridge struct {
	MBC
	header Header
	hash   string
}

// New parses rom and constructs the appropriate bank controller. A ROM
// shorter than 0x150 bytes, or one naming an unsupported MBC type, is a
// malformed cartridge and returns an error rather than panicking.
func New(rom []byte) (*Cartridge, error) {
	header, err := ParseHeader(rom)
	if err != nil {
		return nil, fmt.Errorf("cartridge: %w", err)
	}
	ctor := mbcConstructor[header.CartridgeType]
	c := &Cartridge{
		MBC:    ctor(rom, header),
		header: header,
		hash:   fmt.Sprintf("%016x", xxhash.Sum64(rom)),
	}
	return c, nil
}

// Header returns the parsed cartridge header.
func (c *Cartridge) Header() Header { return c.header }

// Title returns the cartridge's escaped title string.
func (c *Cartridge) Title() string { return c.header.Title }

// IsCGB reports whether the cartridge declares CGB support.
func (c *Cartridge) IsCGB() bool { return c.header.CGBCompatible() }

// SaveTag is a filesystem-stable identifier for this cartridge's battery
// file, derived from an xxhash of the whole ROM image rather than the
// (sometimes duplicated) title.
func (c *Cartridge) SaveTag() string { return c.hash }

// HasBattery reports whether this cartridge type persists SRAM.
func (c *Cartridge) HasBattery() bool { return c.header.CartridgeType.HasBattery() }

var _ types.Stater = (*Cartridge)(nil)
