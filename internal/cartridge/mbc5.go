package cartridge

import "github.com/pixelclock/gomeboy/internal/types"

// mbc5 implements cartridge types 0x19-0x1E: up to 8MiB ROM addressed with
// a full 9-bit bank number, and up to 128KiB RAM. Unlike mbc1/mbc3, bank 0
// is a valid, selectable ROM bank (no zero-substitution).
type mbc5 struct {
	rom []byte
	ram []byte

	ramEnabled bool
	romBankLo  uint8 // 0x2000-0x2FFF
	romBankHi  uint8 // 0x3000-0x3FFF, bit 0 only
	ramBank    uint8 // 0x4000-0x5FFF, 4 bits
}

func newMBC5(rom []byte, h Header) *mbc5 {
	return &mbc5{rom: rom, ram: make([]byte, h.RAMSize), romBankLo: 1}
}

func (m *mbc5) romBank() int {
	n := int(m.romBankHi&0x01)<<8 | int(m.romBankLo)
	if total := romBanks(m.rom); total > 0 {
		n %= total
	}
	return n
}

func (m *mbc5) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.romAt(int(address))
	case address < 0x8000:
		return m.romAt(m.romBank()*0x4000 + int(address-0x4000))
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		off := int(m.ramBank&0x0F)*0x2000 + int(address-0xA000)
		if off < len(m.ram) {
			return m.ram[off]
		}
		return 0xFF
	}
	return 0xFF
}

func (m *mbc5) romAt(i int) uint8 {
	if i < len(m.rom) {
		return m.rom[i]
	}
	return 0xFF
}

func (m *mbc5) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case address < 0x3000:
		m.romBankLo = value
	case address < 0x4000:
		m.romBankHi = value & 0x01
	case address < 0x6000:
		m.ramBank = value & 0x0F
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		off := int(m.ramBank&0x0F)*0x2000 + int(address-0xA000)
		if off < len(m.ram) {
			m.ram[off] = value
		}
	}
}

func (m *mbc5) SaveRAM() []byte {
	if len(m.ram) == 0 {
		return nil
	}
	out := make([]byte, len(m.ram))
	copy(out, m.ram)
	return out
}

func (m *mbc5) LoadRAM(data []byte) { copy(m.ram, data) }

func (m *mbc5) Save(s *types.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramEnabled)
	s.Write8(m.romBankLo)
	s.Write8(m.romBankHi)
	s.Write8(m.ramBank)
}

func (m *mbc5) Load(s *types.State) {
	m.ram = s.ReadData()
	m.ramEnabled = s.ReadBool()
	m.romBankLo = s.Read8()
	m.romBankHi = s.Read8()
	m.ramBank = s.Read8()
}
