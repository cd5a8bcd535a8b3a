package cartridge

import "github.com/pixelclock/gomeboy/internal/types"

// mbc1 implements cartridge types 0x01-0x03: up to 2MiB ROM and 32KiB RAM,
// with a mode latch that decides whether the secondary 2-bit register acts
// as the high ROM-bank bits or as the RAM bank index.
//
// Bank-aliasing follows the canonical rule (bank = bank2<<shift | bank1,
// with the 0x00/0x20/0x40/0x60 -> +1 substitution happening inside bank1's
// own zero check) rather than any looser approximation.
type mbc1 struct {
	rom []byte
	ram []byte

	ramEnabled bool
	bank1      uint8 // 5-bit primary ROM bank register, 0x2000-0x3FFF
	bank2      uint8 // 2-bit secondary register, 0x4000-0x5FFF
	mode       bool  // false=ROM banking mode, true=RAM banking mode

	multicart bool
}

func newMBC1(rom []byte, h Header) *mbc1 {
	m := &mbc1{
		rom:   rom,
		ram:   make([]byte, h.RAMSize),
		bank1: 0x01,
	}
	m.detectMulticart()
	return m
}

// multicartLogo is the Nintendo boot logo, used to heuristically detect
// MBC1M multicart ROMs (which alias bank1 to 4 bits instead of 5).
var multicartLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B,
	0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E,
	0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC,
	0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

func (m *mbc1) detectMulticart() {
	if len(m.rom) != 1024*1024 {
		return
	}
	matches := 0
	for bank := 0; bank < 4; bank++ {
		base := bank * 0x40000
		if base+0x0133 >= len(m.rom) {
			continue
		}
		ok := true
		for i, want := range multicartLogo {
			if m.rom[base+0x0104+i] != want {
				ok = false
				break
			}
		}
		if ok {
			matches++
		}
	}
	m.multicart = matches > 1
}

func (m *mbc1) bankShift() uint8 {
	if m.multicart {
		return 4
	}
	return 5
}

func (m *mbc1) romBank() int {
	bank1 := m.bank1
	if m.multicart {
		bank1 &= 0x0F
	}
	n := int(m.bank2<<m.bankShift()) | int(bank1)
	if total := romBanks(m.rom); n >= total {
		n %= total
	}
	return n
}

func (m *mbc1) zeroBank() int {
	if !m.mode {
		return 0
	}
	n := int(m.bank2 << m.bankShift())
	if total := romBanks(m.rom); n >= total {
		n %= total
	}
	return n
}

func (m *mbc1) ramBankOffset() int {
	if !m.mode || len(m.ram) <= 0x2000 {
		return 0
	}
	return int(m.bank2&0x03) * 0x2000
}

func (m *mbc1) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		base := m.zeroBank() * 0x4000
		return m.romAt(base + int(address))
	case address < 0x8000:
		base := m.romBank() * 0x4000
		return m.romAt(base + int(address-0x4000))
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		off := m.ramBankOffset() + int(address-0xA000)
		if off >= len(m.ram) {
			return 0xFF
		}
		return m.ram[off]
	}
	return 0xFF
}

func (m *mbc1) romAt(i int) uint8 {
	if i < len(m.rom) {
		return m.rom[i]
	}
	return 0xFF
}

func (m *mbc1) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case address < 0x4000:
		value &= 0x1F
		if value == 0 {
			value = 1
		}
		m.bank1 = value
	case address < 0x6000:
		m.bank2 = value & 0x03
	case address < 0x8000:
		m.mode = value&0x01 == 0x01
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		off := m.ramBankOffset() + int(address-0xA000)
		if off < len(m.ram) {
			m.ram[off] = value
		}
	}
}

func (m *mbc1) SaveRAM() []byte {
	if len(m.ram) == 0 {
		return nil
	}
	out := make([]byte, len(m.ram))
	copy(out, m.ram)
	return out
}

func (m *mbc1) LoadRAM(data []byte) { copy(m.ram, data) }

func (m *mbc1) Save(s *types.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramEnabled)
	s.Write8(m.bank1)
	s.Write8(m.bank2)
	s.WriteBool(m.mode)
	s.WriteBool(m.multicart)
}

func (m *mbc1) Load(s *types.State) {
	m.ram = s.ReadData()
	m.ramEnabled = s.ReadBool()
	m.bank1 = s.Read8()
	m.bank2 = s.Read8()
	m.mode = s.ReadBool()
	m.multicart = s.ReadBool()
}
