package cartridge

import "github.com/pixelclock/gomeboy/internal/types"

// mbc2 implements cartridge types 0x05-0x06: ROM-only banking (no secondary
// register) plus 512 4-bit RAM nybbles built into the MBC itself, mirrored
// across the whole 0xA000-0xBFFF window.
type mbc2 struct {
	rom []byte
	ram [512]byte // low nibble significant

	ramEnabled bool
	romBank    uint8
}

func newMBC2(rom []byte) *mbc2 {
	return &mbc2{rom: rom, romBank: 1}
}

func (m *mbc2) bank() int {
	n := int(m.romBank)
	if n == 0 {
		n = 1
	}
	if total := romBanks(m.rom); n >= total {
		n %= total
	}
	return n
}

func (m *mbc2) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.romAt(int(address))
	case address < 0x8000:
		return m.romAt(m.bank()*0x4000 + int(address-0x4000))
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled {
			return 0xFF
		}
		return m.ram[(address-0xA000)%0x200] | 0xF0
	}
	return 0xFF
}

func (m *mbc2) romAt(i int) uint8 {
	if i < len(m.rom) {
		return m.rom[i]
	}
	return 0xFF
}

func (m *mbc2) Write(address uint16, value uint8) {
	switch {
	case address < 0x4000:
		// bit 8 of the address selects RAM-enable vs ROM-bank semantics.
		if address&0x0100 == 0 {
			m.ramEnabled = value&0x0F == 0x0A
		} else {
			value &= 0x0F
			if value == 0 {
				value = 1
			}
			m.romBank = value
		}
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled {
			return
		}
		m.ram[(address-0xA000)%0x200] = value & 0x0F
	}
}

func (m *mbc2) SaveRAM() []byte {
	out := make([]byte, len(m.ram))
	copy(out, m.ram[:])
	return out
}

func (m *mbc2) LoadRAM(data []byte) { copy(m.ram[:], data) }

func (m *mbc2) Save(s *types.State) {
	s.WriteFixed(m.ram[:])
	s.WriteBool(m.ramEnabled)
	s.Write8(m.romBank)
}

func (m *mbc2) Load(s *types.State) {
	s.ReadFixed(m.ram[:])
	m.ramEnabled = s.ReadBool()
	m.romBank = s.Read8()
}
