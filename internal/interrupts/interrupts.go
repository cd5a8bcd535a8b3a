// Package interrupts holds the Game Boy's interrupt-flag register pair
// (IF at 0xFF0F, IE at 0xFFFF) shared by every component that can raise an
// interrupt: the PPU (VBlank, LCD-STAT), the timer, the serial port, and
// the joypad.
package interrupts

import "github.com/pixelclock/gomeboy/internal/types"

// Source identifies one of the five interrupt bits, in priority order
// (lowest bit number serviced first).
type Source = uint8

const (
	VBlank Source = iota
	LCDStat
	Timer
	Serial
	Joypad
)

// Vector is the fixed jump target for each interrupt source.
var Vector = [5]uint16{0x40, 0x48, 0x50, 0x58, 0x60}

// Service holds IF/IE and the IME gate. It has no behavior beyond simple
// bit bookkeeping; the CPU decides when to dispatch.
type Service struct {
	Flag   uint8 // IF, 0xFF0F
	Enable uint8 // IE, 0xFFFF
	IME    bool
}

func New() *Service { return &Service{} }

// Request raises the interrupt flag for source.
func (s *Service) Request(source Source) { s.Flag |= 1 << source }

// Clear lowers the interrupt flag for source.
func (s *Service) Clear(source Source) { s.Flag &^= 1 << source }

// Pending returns the bitmask of sources that are both requested and
// enabled, restricted to the five valid interrupt bits.
func (s *Service) Pending() uint8 { return s.Enable & s.Flag & 0x1F }

// ReadIF returns the IF register as the bus sees it: upper three bits
// always read as 1.
func (s *Service) ReadIF() uint8 { return s.Flag&0x1F | 0xE0 }

// WriteIF decomposes a CPU write to 0xFF0F back into the flag bits.
func (s *Service) WriteIF(v uint8) { s.Flag = v & 0x1F }

// NextVector returns the vector address of the highest-priority pending
// interrupt and clears its flag bit. Callers must only invoke this when
// Pending() != 0.
func (s *Service) NextVector() uint16 {
	pending := s.Pending()
	for bit := Source(0); bit < 5; bit++ {
		if pending&(1<<bit) != 0 {
			s.Clear(bit)
			return Vector[bit]
		}
	}
	panic("interrupts: NextVector called with nothing pending")
}

func (s *Service) Save(st *types.State) {
	st.Write8(s.Flag)
	st.Write8(s.Enable)
	st.WriteBool(s.IME)
}

func (s *Service) Load(st *types.State) {
	s.Flag = st.Read8()
	s.Enable = st.Read8()
	s.IME = st.ReadBool()
}
