package mmu

import "github.com/pixelclock/gomeboy/internal/types"

// serial models just enough of the link-cable registers (0xFF01-0xFF02)
// to support the debug-log tap conformance tests rely on: writing 0x81 to
// the control register appends the current data byte to an in-core log.
type serial struct {
	data    uint8
	control uint8
	log     []byte
}

func (s *serial) write(address uint16, value uint8) {
	switch address {
	case 0xFF01:
		s.data = value
	case 0xFF02:
		s.control = value
		if value == 0x81 {
			s.log = append(s.log, s.data)
		}
	}
}

func (s *serial) read(address uint16) uint8 {
	if address == 0xFF01 {
		return s.data
	}
	return s.control | 0x7E
}

func (s *serial) Save(st *types.State) {
	st.Write8(s.data)
	st.Write8(s.control)
	st.WriteData(s.log)
}

func (s *serial) Load(st *types.State) {
	s.data = st.Read8()
	s.control = st.Read8()
	s.log = st.ReadData()
}
