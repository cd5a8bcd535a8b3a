// Package joypad emulates the Game Boy's 8-key input matrix, selected by
// row via the two select bits in the 0xFF00 register.
package joypad

import (
	"github.com/pixelclock/gomeboy/internal/interrupts"
	"github.com/pixelclock/gomeboy/internal/types"
	"github.com/pixelclock/gomeboy/pkg/bits"
)

// Key identifies one of the eight physical buttons.
type Key uint8

const (
	Right Key = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// State is the joypad register plus the currently-pressed key bitmask.
// pressed bit layout matches the register's two rows: bits 0-3 are
// Right/Left/Up/Down or A/B/Select/Start depending on which row is read.
type State struct {
	irq *interrupts.Service

	selectBits uint8 // bits 4-5 of 0xFF00, as last written
	pressed    uint8 // bit i set => key i is held (0=Right..7=Start)
}

func New(irq *interrupts.Service) *State {
	return &State{irq: irq, selectBits: 0x30}
}

// Read returns the value of the 0xFF00 register: select bits as written,
// OR'd with 0x0F when neither row is selected, otherwise the complement of
// the held keys in the selected row (active-low).
func (s *State) Read() uint8 {
	row := uint8(0x0F)
	if !bits.Test(s.selectBits, 4) { // direction keys selected
		row &^= (s.pressed & 0x0F)
	}
	if !bits.Test(s.selectBits, 5) { // action keys selected
		row &^= (s.pressed >> 4) & 0x0F
	}
	return s.selectBits | 0xC0 | row
}

// Write keeps only the two select bits (0x30); the rest of the register is
// read-only from the CPU's perspective.
func (s *State) Write(value uint8) {
	s.selectBits = value & 0x30
}

// Press marks key as held, raising the joypad interrupt if the row owning
// that key is currently selected.
func (s *State) Press(key Key) {
	already := bits.Test(s.pressed, uint8(key))
	s.pressed = bits.Set(s.pressed, uint8(key))
	if already {
		return
	}
	if key < A && !bits.Test(s.selectBits, 4) {
		s.irq.Request(interrupts.Joypad)
	} else if key >= A && !bits.Test(s.selectBits, 5) {
		s.irq.Request(interrupts.Joypad)
	}
}

// Release marks key as no longer held.
func (s *State) Release(key Key) {
	s.pressed = bits.Reset(s.pressed, uint8(key))
}

func (s *State) Save(st *types.State) {
	st.Write8(s.selectBits)
	st.Write8(s.pressed)
}

func (s *State) Load(st *types.State) {
	s.selectBits = st.Read8()
	s.pressed = st.Read8()
}
