package cpu

import (
	"testing"
)

func TestBit(t *testing.T) {
	c := newTestCPU()
	t.Run("set", func(t *testing.T) {
		c.A = c.setBit(c.A, 0)
		if c.A != 0x01 {
			t.Errorf("expected 0x01, got 0x%02x", c.A)
		}
	})
	t.Run("clear", func(t *testing.T) {
		c.A = c.clearBit(c.A, 0)
		if c.A != 0x00 {
			t.Errorf("expected A to be 0x00, got 0x%02X", c.A)
		}
	})
	t.Run("test", func(t *testing.T) {
		c.testBit(c.A, 0)
		if !c.isFlagSet(FlagZero) {
			t.Errorf("expected zero flag to be set, got unset")
		}
		c.A = 0x01
		c.testBit(c.A, 0)
		if c.isFlagSet(FlagZero) {
			t.Errorf("expected zero flag to be unset, got set")
		}
	})
}

func TestInstruction_16Bit_Bits(t *testing.T) {
	// 0x40 - 0x7F BIT b,r (Exclude (HL))
	for bit := uint8(0); bit <= 7; bit++ {
		for i, regName := range registerNames {
			if i == 6 {
				continue
			}
			b, opcode := bit, 0x40+bit*8+uint8(i)
			testInstructionCB(t, "BIT", opcode, func(t *testing.T, instr Instruction) {
				*cpu.registerMap(regName) = 1 << b
				instr.Execute(cpu, nil)
				if cpu.isFlagSet(FlagZero) {
					t.Errorf("expected zero flag unset when bit %d is set", b)
				}

				*cpu.registerMap(regName) = 0x00
				instr.Execute(cpu, nil)
				if !cpu.isFlagSet(FlagZero) {
					t.Errorf("expected zero flag set when bit %d is clear", b)
				}
			})
		}
	}
	// 0x80 - 0xBF RES b,r (Exclude (HL))
	for bit := uint8(0); bit <= 7; bit++ {
		for i, regName := range registerNames {
			if i == 6 {
				continue
			}
			b, opcode := bit, 0x80+bit*8+uint8(i)
			testInstructionCB(t, "RES", opcode, func(t *testing.T, instr Instruction) {
				*cpu.registerMap(regName) = 0xFF
				instr.Execute(cpu, nil)
				if *cpu.registerMap(regName)&(1<<b) != 0 {
					t.Errorf("expected bit %d to be cleared, got 0x%02X", b, *cpu.registerMap(regName))
				}
			})
		}
	}
	// 0xC0 - 0xFF SET b,r (Exclude (HL))
	for bit := uint8(0); bit <= 7; bit++ {
		for i, regName := range registerNames {
			if i == 6 {
				continue
			}
			b, opcode := bit, 0xC0+bit*8+uint8(i)
			testInstructionCB(t, "SET", opcode, func(t *testing.T, instr Instruction) {
				*cpu.registerMap(regName) = 0x00
				instr.Execute(cpu, nil)
				if *cpu.registerMap(regName)&(1<<b) == 0 {
					t.Errorf("expected bit %d to be set, got 0x%02X", b, *cpu.registerMap(regName))
				}
			})
		}
	}
}
