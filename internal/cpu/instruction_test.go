package cpu

import (
	"testing"

	"github.com/pixelclock/gomeboy/internal/cartridge"
	"github.com/pixelclock/gomeboy/internal/interrupts"
	"github.com/pixelclock/gomeboy/internal/joypad"
	"github.com/pixelclock/gomeboy/internal/mmu"
	"github.com/pixelclock/gomeboy/internal/ppu"
	"github.com/pixelclock/gomeboy/internal/timer"
)

var cpu *CPU

func newTestCPU() *CPU {
	rom := make([]byte, 0x8000)
	cart, err := cartridge.New(rom)
	if err != nil {
		panic(err)
	}
	irq := interrupts.New()
	pad := joypad.New(irq)
	tCtl := timer.New(irq)
	video := ppu.New(irq, false)
	m := mmu.New(cart, video, tCtl, pad, irq, nil, false)
	return New(m, irq)
}

func testInstruction(t *testing.T, name string, opcode uint8, f func(*testing.T, Instruction)) {
	cpu = newTestCPU()
	t.Run(name, func(t *testing.T) {
		f(t, InstructionSet[opcode])
	})
}

func testInstructionCB(t *testing.T, name string, opcode uint8, f func(*testing.T, Instruction)) {
	cpu = newTestCPU()
	t.Run(name, func(t *testing.T) {
		f(t, InstructionSetCB[opcode])
	})
}

func TestLoadInstructions(t *testing.T) {
	testInstruction(t, "LD (BC), A", 0x02, func(t *testing.T, instr Instruction) {
		cpu.A = 0x42
		cpu.BC.SetUint16(0xC234)
		instr.Execute(cpu, nil)
		if cpu.mmu.Read(cpu.BC.Uint16()) != 0x42 {
			t.Errorf("expected 0x42 at 0xC234, got 0x%02X", cpu.mmu.Read(0xC234))
		}
	})
	testInstruction(t, "LD A, (BC)", 0x0A, func(t *testing.T, instr Instruction) {
		cpu.BC.SetUint16(0xC234)
		cpu.mmu.Write(cpu.BC.Uint16(), 0x42)
		instr.Execute(cpu, nil)
		if cpu.A != 0x42 {
			t.Errorf("expected 0x42 in A, got 0x%02X", cpu.A)
		}
	})
	testInstruction(t, "LD (HL+), A", 0x22, func(t *testing.T, instr Instruction) {
		cpu.A = 0x42
		cpu.HL.SetUint16(0xC234)
		instr.Execute(cpu, nil)
		if cpu.mmu.Read(0xC234) != 0x42 {
			t.Errorf("expected 0x42 at 0xC234, got 0x%02X", cpu.mmu.Read(0xC234))
		}
		if cpu.HL.Uint16() != 0xC235 {
			t.Errorf("expected HL to be 0xC235, got 0x%04X", cpu.HL.Uint16())
		}
	})
	testInstruction(t, "LD (HL), n", 0x36, func(t *testing.T, instr Instruction) {
		for i := 0; i < 0xFF; i++ {
			cpu.HL.SetUint16(0xC234)
			instr.Execute(cpu, []uint8{uint8(i)})
			if cpu.mmu.Read(cpu.HL.Uint16()) != uint8(i) {
				t.Errorf("expected 0x%02X at 0xC234, got 0x%02X", i, cpu.mmu.Read(0xC234))
			}
		}
	})
}

func TestArithmeticInstructions(t *testing.T) {
	testInstruction(t, "ADD A, (HL)", 0x86, func(t *testing.T, instr Instruction) {
		cpu.A = 0x42
		cpu.HL.SetUint16(0xC234)
		cpu.mmu.Write(cpu.HL.Uint16(), 0x42)

		instr.Execute(cpu, nil)

		if cpu.A != 0x84 {
			t.Errorf("expected A to be 0x84, got 0x%02X", cpu.A)
		}
		if cpu.isFlagSet(FlagSubtract) || cpu.isFlagSet(FlagZero) || cpu.isFlagSet(FlagHalfCarry) || cpu.isFlagSet(FlagCarry) {
			t.Errorf("expected flags to be 0, got 0x%02X", cpu.F)
		}

		cpu.A = 0x0F
		cpu.mmu.Write(cpu.HL.Uint16(), 0x01)
		instr.Execute(cpu, nil)
		if !cpu.isFlagSet(FlagHalfCarry) {
			t.Errorf("expected half carry flag to be set")
		}

		cpu.A = 0xFF
		cpu.mmu.Write(cpu.HL.Uint16(), 0x01)
		instr.Execute(cpu, nil)
		if !cpu.isFlagSet(FlagZero) || !cpu.isFlagSet(FlagCarry) {
			t.Errorf("expected zero and carry flags set, got 0x%02X", cpu.F)
		}
	})
	testInstruction(t, "SUB (HL)", 0x96, func(t *testing.T, instr Instruction) {
		cpu.A = 0x42
		cpu.HL.SetUint16(0xC234)
		cpu.mmu.Write(cpu.HL.Uint16(), 0x10)

		instr.Execute(cpu, nil)

		if cpu.A != 0x32 {
			t.Errorf("expected A to be 0x32, got 0x%02X", cpu.A)
		}
		if !cpu.isFlagSet(FlagSubtract) {
			t.Errorf("expected subtract flag to be set")
		}
	})
}

func TestLogicInstructionsHL(t *testing.T) {
	testInstruction(t, "AND (HL)", 0xA6, func(t *testing.T, instr Instruction) {
		cpu.A = 0b10101010
		cpu.HL.SetUint16(0xC234)
		cpu.mmu.Write(cpu.HL.Uint16(), 0b11010101)

		instr.Execute(cpu, nil)

		if cpu.A != 0x80 {
			t.Errorf("expected A to be 0x80, got 0x%02X", cpu.A)
		}
		if !cpu.isFlagSet(FlagHalfCarry) {
			t.Errorf("expected half carry flag to be set")
		}
	})
	testInstruction(t, "XOR A", 0xAF, func(t *testing.T, instr Instruction) {
		cpu.A = 0b10101010
		instr.Execute(cpu, nil)
		if cpu.A != 0 {
			t.Errorf("expected A to be 0, got 0x%02X", cpu.A)
		}
		if !cpu.isFlagSet(FlagZero) {
			t.Errorf("expected zero flag to be set")
		}
	})
}
