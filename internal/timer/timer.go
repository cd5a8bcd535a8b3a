// Package timer emulates the Game Boy's DIV/TIMA/TMA/TAC timer block:
// DIV free-runs at 16384 Hz, TIMA counts at a TAC-selected rate and raises
// the Timer interrupt on overflow.
package timer

import (
	"github.com/pixelclock/gomeboy/internal/interrupts"
	"github.com/pixelclock/gomeboy/internal/types"
)

// timaPeriods maps the two TAC rate-select bits to the number of dots per
// TIMA increment: rates are 4096, 262144, 65536, 16384 Hz respectively.
var timaPeriods = [4]uint16{1024, 16, 64, 256}

// Controller owns DIV/TIMA/TMA/TAC and the sub-dot accumulators needed to
// advance them by a whole M-cycle (4 dots) at a time.
type Controller struct {
	irq *interrupts.Service

	divCounter  uint16 // free-running 16-bit counter; DIV register is its high byte
	timaCounter uint16 // dots accumulated toward the next TIMA increment

	tima uint8
	tma  uint8
	tac  uint8
}

func New(irq *interrupts.Service) *Controller {
	return &Controller{irq: irq}
}

// Tick advances the timer by one M-cycle (4 dots).
func (c *Controller) Tick() {
	c.advance(4)
}

func (c *Controller) advance(dots uint16) {
	c.divCounter += dots
	if c.tac&0x04 == 0 {
		return
	}
	period := timaPeriods[c.tac&0x03]
	c.timaCounter += dots
	for c.timaCounter >= period {
		c.timaCounter -= period
		c.incrementTIMA()
	}
}

func (c *Controller) incrementTIMA() {
	if c.tima == 0xFF {
		c.tima = c.tma
		c.irq.Request(interrupts.Timer)
	} else {
		c.tima++
	}
}

// DIV returns the visible 0xFF04 register (the high byte of the internal counter).
func (c *Controller) DIV() uint8 { return uint8(c.divCounter >> 8) }

// WriteDIV resets the internal counter; any write, regardless of value, zeroes it.
func (c *Controller) WriteDIV() { c.divCounter = 0 }

func (c *Controller) TIMA() uint8       { return c.tima }
func (c *Controller) WriteTIMA(v uint8) { c.tima = v }
func (c *Controller) TMA() uint8        { return c.tma }
func (c *Controller) WriteTMA(v uint8)  { c.tma = v }
func (c *Controller) TAC() uint8        { return c.tac | 0xF8 }
func (c *Controller) WriteTAC(v uint8)  { c.tac = v & 0x07 }

func (c *Controller) Save(s *types.State) {
	s.Write16(c.divCounter)
	s.Write16(c.timaCounter)
	s.Write8(c.tima)
	s.Write8(c.tma)
	s.Write8(c.tac)
}

func (c *Controller) Load(s *types.State) {
	c.divCounter = s.Read16()
	c.timaCounter = s.Read16()
	c.tima = s.Read8()
	c.tma = s.Read8()
	c.tac = s.Read8()
}
