// Package cpu implements the Sharp LR35902 instruction set: registers,
// flags, the base and CB-prefixed opcode tables, and interrupt/HALT/STOP
// handling.
package cpu

import (
	"fmt"

	"github.com/pixelclock/gomeboy/internal/interrupts"
	"github.com/pixelclock/gomeboy/internal/mmu"
	"github.com/pixelclock/gomeboy/internal/types"
)

type mode = uint8

const (
	ModeNormal mode = iota
	ModeHalt
	ModeStop
	ModeHaltBug
	ModeHaltDI
	ModeEnableIME
)

// CPU executes the LR35902 instruction set one whole instruction at a
// time. Step is called once per M-cycle by the console: on the cycle an
// instruction's budget reaches zero, the whole instruction runs and the
// remainder of its M-cycle cost is consumed by idling on subsequent
// calls. Sub-instruction memory access timing is not modeled; only the
// number of M-cycles an instruction consumes is observable from outside.
type CPU struct {
	PC, SP uint16
	Registers

	mmu *mmu.MMU
	IRQ *interrupts.Service

	mode        mode
	doubleSpeed bool
	remaining   uint8 // M-cycles left to idle before the next fetch
	branchExtra uint8 // extra M-cycles added by a taken conditional branch
}

// New constructs a CPU wired to the given bus and interrupt controller.
func New(m *mmu.MMU, irq *interrupts.Service) *CPU {
	c := &CPU{mmu: m, IRQ: irq}
	c.AF = &RegisterPair{&c.A, &c.F}
	c.BC = &RegisterPair{&c.B, &c.C}
	c.DE = &RegisterPair{&c.D, &c.E}
	c.HL = &RegisterPair{&c.H, &c.L}
	return c
}

// SetDoubleSpeed is called by the console when the MMU reports a CGB
// speed-switch has completed; it does not change CPU timing by itself,
// the console decides how many Steps to run per dot budget.
func (c *CPU) SetDoubleSpeed(v bool) { c.doubleSpeed = v }

// Step advances the CPU by one M-cycle.
func (c *CPU) Step() {
	if c.remaining > 0 {
		c.remaining--
		return
	}
	c.stepInstruction()
}

func (c *CPU) stepInstruction() {
	switch c.mode {
	case ModeNormal:
		if c.IRQ.IME && c.hasInterrupts() {
			c.serviceInterrupt()
			return
		}
		c.execute()
	case ModeHalt, ModeStop:
		if c.hasInterrupts() {
			c.mode = ModeNormal
		}
	case ModeHaltDI:
		if c.hasInterrupts() {
			c.mode = ModeNormal
		}
	case ModeEnableIME:
		c.IRQ.IME = true
		c.mode = ModeNormal
		if c.hasInterrupts() {
			c.serviceInterrupt()
			return
		}
		c.execute()
	case ModeHaltBug:
		// the next opcode is fetched without advancing PC, so it runs twice
		opcode := c.mmu.Read(c.PC)
		c.mode = ModeNormal
		c.runOpcode(opcode)
	}
}

func (c *CPU) hasInterrupts() bool {
	return c.IRQ.Pending() != 0
}

func (c *CPU) serviceInterrupt() {
	c.push16(c.PC)
	c.PC = c.IRQ.NextVector()
	c.IRQ.IME = false
	c.remaining = 4
}

func (c *CPU) fetch() uint8 {
	v := c.mmu.Read(c.PC)
	c.PC++
	return v
}

// readOperand fetches the next immediate byte, advancing PC. Kept as a
// distinct name from fetch for instructions that self-read an operand
// rather than receiving it pre-fetched in the operands slice.
func (c *CPU) readOperand() uint8 { return c.fetch() }

func (c *CPU) execute() {
	c.runOpcode(c.fetch())
}

func (c *CPU) runOpcode(opcode uint8) {
	c.branchExtra = 0
	if opcode == 0xCB {
		instr := InstructionSetCB[c.fetch()]
		instr.Execute(c, nil)
		if instr.Cycles > 0 {
			c.remaining = instr.Cycles - 1
		}
		return
	}

	instr := InstructionSet[opcode]
	var operands []byte
	for i := uint8(1); i < instr.Length; i++ {
		operands = append(operands, c.fetch())
	}
	instr.Execute(c, operands)
	total := instr.Cycles + c.branchExtra
	if total > 0 {
		c.remaining = total - 1
	}
}

// registerIndex returns a Register pointer for the given 3-bit register
// encoding used throughout the opcode table (B,C,D,E,H,L,-,A).
func (c *CPU) registerIndex(index uint8) *Register {
	switch index {
	case 0:
		return &c.B
	case 1:
		return &c.C
	case 2:
		return &c.D
	case 3:
		return &c.E
	case 4:
		return &c.H
	case 5:
		return &c.L
	case 7:
		return &c.A
	}
	panic(fmt.Sprintf("invalid register index: %d", index))
}

// registerName returns the name of a Register, used to build opcode
// mnemonics for the generated CB table.
func (c *CPU) registerName(reg *Register) string {
	switch reg {
	case &c.A:
		return "A"
	case &c.B:
		return "B"
	case &c.C:
		return "C"
	case &c.D:
		return "D"
	case &c.E:
		return "E"
	case &c.H:
		return "H"
	case &c.L:
		return "L"
	}
	return ""
}

// registerNames lists the 8 register slot names in opcode-encoding order,
// matching registerIndex (slot 6 is the (HL) indirect operand, handled
// separately by callers).
var registerNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

// registerMap returns a Register pointer by name, for test harnesses that
// iterate registerNames.
func (c *CPU) registerMap(name string) *Register {
	switch name {
	case "A":
		return &c.A
	case "B":
		return &c.B
	case "C":
		return &c.C
	case "D":
		return &c.D
	case "E":
		return &c.E
	case "H":
		return &c.H
	case "L":
		return &c.L
	}
	panic(fmt.Sprintf("invalid register name: %s", name))
}

// registerPairMap returns a RegisterPair pointer by name, for test harnesses.
func (c *CPU) registerPairMap(name string) *RegisterPair {
	switch name {
	case "BC":
		return c.BC
	case "DE":
		return c.DE
	case "HL":
		return c.HL
	case "AF":
		return c.AF
	}
	panic(fmt.Sprintf("invalid register pair name: %s", name))
}

// shouldZeroFlag sets FlagZero if the given value is 0.
func (c *CPU) shouldZeroFlag(value uint8) {
	if value == 0 {
		c.setFlag(FlagZero)
	} else {
		c.clearFlag(FlagZero)
	}
}

func (c *CPU) Save(s *types.State) {
	s.Write8(c.A)
	s.Write8(c.F)
	s.Write8(c.B)
	s.Write8(c.C)
	s.Write8(c.D)
	s.Write8(c.E)
	s.Write8(c.H)
	s.Write8(c.L)
	s.Write16(c.SP)
	s.Write16(c.PC)
	s.Write8(c.mode)
	s.Write8(c.remaining)
	s.WriteBool(c.doubleSpeed)
}

func (c *CPU) Load(s *types.State) {
	c.A = s.Read8()
	c.F = s.Read8()
	c.B = s.Read8()
	c.C = s.Read8()
	c.D = s.Read8()
	c.E = s.Read8()
	c.H = s.Read8()
	c.L = s.Read8()
	c.SP = s.Read16()
	c.PC = s.Read16()
	c.mode = s.Read8()
	c.remaining = s.Read8()
	c.doubleSpeed = s.ReadBool()
}

var _ types.Stater = (*CPU)(nil)
