package cartridge

import "github.com/pixelclock/gomeboy/internal/types"

// romOnly backs cartridge types 0x00, 0x08 and 0x09: a flat 32KiB ROM with
// no banking, no RAM and no persisted state. The external RAM that types
// 0x08/0x09 declare is not modeled.
type romOnly struct {
	rom []byte
}

func newROM(rom []byte) *romOnly {
	padded := rom
	if len(padded) < 0x8000 {
		padded = make([]byte, 0x8000)
		copy(padded, rom)
		for i := len(rom); i < 0x8000; i++ {
			padded[i] = 0xFF
		}
	}
	return &romOnly{rom: padded}
}

func (r *romOnly) Read(address uint16) uint8 {
	if int(address) < len(r.rom) {
		return r.rom[address]
	}
	return 0xFF
}

func (r *romOnly) Write(address uint16, value uint8) {
	// ROM-only cartridges have no registers; writes are ignored.
}

func (r *romOnly) SaveRAM() []byte      { return nil }
func (r *romOnly) LoadRAM(data []byte)  {}
func (r *romOnly) Save(s *types.State)  {}
func (r *romOnly) Load(s *types.State)  {}
