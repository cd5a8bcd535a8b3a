package cartridge

import (
	"time"

	"github.com/pixelclock/gomeboy/internal/types"
)

// mbc3 implements cartridge types 0x0F-0x13: up to 2MiB ROM, 32KiB RAM, and
// an optional real-time clock whose five registers (S, M, H, DL, DH) can be
// mapped into the 0xA000-0xBFFF window instead of RAM.
//
// The clock free-runs against wall time while the emulator runs. Snapshots
// and battery saves persist only the accumulated offset; the wall-time
// anchor is reset to the current time on load, so time that passes while
// no game is loaded is not counted.
type mbc3 struct {
	rom []byte
	ram []byte

	ramEnabled bool
	romBank    uint8
	ramBank    uint8 // 0-3 selects RAM bank, 0x08-0x0C selects an RTC register

	latchState uint8 // tracks the byte last written to 0x6000-0x7FFF

	rtcHalt    bool
	rtcDayCarry bool
	rtcOffset  int64 // accumulated seconds, frozen while halted
	rtcAnchor  int64 // unix seconds when rtcOffset was last synced
	rtcLatched [5]uint8
	latched    bool

	now func() time.Time
}

func newMBC3(rom []byte, h Header) *mbc3 {
	m := &mbc3{
		rom:     rom,
		ram:     make([]byte, h.RAMSize),
		romBank: 1,
		now:     time.Now,
	}
	m.rtcAnchor = m.now().Unix()
	return m
}

func (m *mbc3) elapsed() int64 {
	if m.rtcHalt {
		return m.rtcOffset
	}
	return m.rtcOffset + (m.now().Unix() - m.rtcAnchor)
}

func (m *mbc3) syncOffset() {
	m.rtcOffset = m.elapsed()
	m.rtcAnchor = m.now().Unix()
}

// rtcRegister computes the live value of RTC register index i (0=S, 1=M,
// 2=H, 3=DL, 4=DH) from the accumulated seconds.
func (m *mbc3) rtcRegister(i uint8) uint8 {
	total := m.elapsed()
	days := total / 86400
	switch i {
	case 0:
		return uint8(total % 60)
	case 1:
		return uint8((total / 60) % 60)
	case 2:
		return uint8((total / 3600) % 24)
	case 3:
		return uint8(days & 0xFF)
	case 4:
		dh := uint8((days >> 8) & 0x01)
		if m.rtcHalt {
			dh |= 0x40
		}
		if days > 0x1FF || m.rtcDayCarry {
			dh |= 0x80
		}
		return dh
	}
	return 0xFF
}

func (m *mbc3) romBankEffective() int {
	n := int(m.romBank & 0x7F)
	if n == 0 {
		n = 1
	}
	if total := romBanks(m.rom); n >= total {
		n %= total
	}
	return n
}

func (m *mbc3) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.romAt(int(address))
	case address < 0x8000:
		return m.romAt(m.romBankEffective()*0x4000 + int(address-0x4000))
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled {
			return 0xFF
		}
		if m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			idx := m.ramBank - 0x08
			if m.latched {
				return m.rtcLatched[idx]
			}
			return m.rtcRegister(idx)
		}
		off := int(m.ramBank)*0x2000 + int(address-0xA000)
		if off < len(m.ram) {
			return m.ram[off]
		}
		return 0xFF
	}
	return 0xFF
}

func (m *mbc3) romAt(i int) uint8 {
	if i < len(m.rom) {
		return m.rom[i]
	}
	return 0xFF
}

func (m *mbc3) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case address < 0x4000:
		value &= 0x7F
		if value == 0 {
			value = 1
		}
		m.romBank = value
	case address < 0x6000:
		m.ramBank = value
	case address < 0x8000:
		if m.latchState == 0x00 && value == 0x01 {
			m.latched = true
			for i := uint8(0); i < 5; i++ {
				m.rtcLatched[i] = m.rtcRegister(i)
			}
		}
		m.latchState = value
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled {
			return
		}
		if m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			m.writeRTC(m.ramBank-0x08, value)
			return
		}
		off := int(m.ramBank)*0x2000 + int(address-0xA000)
		if off < len(m.ram) {
			m.ram[off] = value
		}
	}
}

// writeRTC sets an RTC register directly, rebasing the accumulated offset
// so subsequent reads reflect the overwritten field.
func (m *mbc3) writeRTC(i uint8, value uint8) {
	total := m.elapsed()
	days := total / 86400
	s, mi, h := total%60, (total/60)%60, (total/3600)%24
	switch i {
	case 0:
		s = int64(value % 60)
	case 1:
		mi = int64(value % 60)
	case 2:
		h = int64(value % 24)
	case 3:
		days = (days &^ 0xFF) | int64(value)
	case 4:
		days = (days &^ 0x100) | (int64(value&0x01) << 8)
		m.rtcHalt = value&0x40 != 0
		m.rtcDayCarry = value&0x80 != 0
	}
	m.rtcOffset = days*86400 + h*3600 + mi*60 + s
	m.rtcAnchor = m.now().Unix()
}

func (m *mbc3) SaveRAM() []byte {
	m.syncOffset()
	out := make([]byte, len(m.ram)+10)
	copy(out, m.ram)
	n := len(m.ram)
	out[n] = boolByte(m.rtcHalt)
	out[n+1] = boolByte(m.rtcDayCarry)
	writeInt64(out[n+2:n+10], m.rtcOffset)
	return out
}

func (m *mbc3) LoadRAM(data []byte) {
	n := len(m.ram)
	if len(data) < n {
		copy(m.ram, data)
		return
	}
	copy(m.ram, data[:n])
	if len(data) >= n+10 {
		m.rtcHalt = data[n] != 0
		m.rtcDayCarry = data[n+1] != 0
		m.rtcOffset = readInt64(data[n+2 : n+10])
		m.rtcAnchor = m.now().Unix()
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func writeInt64(b []byte, v int64) {
	u := uint64(v)
	for i := 0; i < 8; i++ {
		b[i] = byte(u >> (8 * i))
	}
}

func readInt64(b []byte) int64 {
	var u uint64
	for i := 0; i < 8; i++ {
		u |= uint64(b[i]) << (8 * i)
	}
	return int64(u)
}

func (m *mbc3) Save(s *types.State) {
	m.syncOffset()
	s.WriteData(m.ram)
	s.WriteBool(m.ramEnabled)
	s.Write8(m.romBank)
	s.Write8(m.ramBank)
	s.Write8(m.latchState)
	s.WriteBool(m.rtcHalt)
	s.WriteBool(m.rtcDayCarry)
	s.Write32(uint32(m.rtcOffset))
	s.Write32(uint32(m.rtcOffset >> 32))
	s.WriteBool(m.latched)
	for _, v := range m.rtcLatched {
		s.Write8(v)
	}
}

func (m *mbc3) Load(s *types.State) {
	m.ram = s.ReadData()
	m.ramEnabled = s.ReadBool()
	m.romBank = s.Read8()
	m.ramBank = s.Read8()
	m.latchState = s.Read8()
	m.rtcHalt = s.ReadBool()
	m.rtcDayCarry = s.ReadBool()
	lo := uint64(s.Read32())
	hi := uint64(s.Read32())
	m.rtcOffset = int64(lo | hi<<32)
	m.rtcAnchor = m.now().Unix()
	m.latched = s.ReadBool()
	for i := range m.rtcLatched {
		m.rtcLatched[i] = s.Read8()
	}
}
