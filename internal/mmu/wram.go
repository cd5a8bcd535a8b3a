package mmu

import "github.com/pixelclock/gomeboy/internal/types"

// wram is the Game Boy's 32 KiB of work RAM: a fixed bank 0 at
// 0xC000-0xCFFF and, on CGB, seven switchable banks at 0xD000-0xDFFF
// selected by SVBK (0xFF70).
type wram struct {
	bank uint8
	raw  [8][0x1000]uint8
}

func newWRAM() *wram {
	return &wram{bank: 1}
}

func (w *wram) readLow(addr uint16) uint8  { return w.raw[0][addr&0x0FFF] }
func (w *wram) writeLow(addr uint16, v uint8) { w.raw[0][addr&0x0FFF] = v }

func (w *wram) readHigh(addr uint16) uint8    { return w.raw[w.bank][addr&0x0FFF] }
func (w *wram) writeHigh(addr uint16, v uint8) { w.raw[w.bank][addr&0x0FFF] = v }

func (w *wram) setBank(v uint8) {
	v &= 0x07
	if v == 0 {
		v = 1
	}
	w.bank = v
}

func (w *wram) Save(s *types.State) {
	s.Write8(w.bank)
	for i := range w.raw {
		s.WriteData(w.raw[i][:])
	}
}

func (w *wram) Load(s *types.State) {
	w.bank = s.Read8()
	for i := range w.raw {
		copy(w.raw[i][:], s.ReadData())
	}
}
