package cpu

import "testing"

func TestInstruction_Control(t *testing.T) {
	// 0x00 - NOP
	testInstruction(t, "NOP", 0x00, func(t *testing.T, instruction Instruction) {
		instruction.Execute(cpu, nil)
	})
	// 0x10 - STOP: without an armed speed switch this core continues
	// executing rather than blocking until a button press.
	testInstruction(t, "STOP", 0x10, func(t *testing.T, instruction Instruction) {
		cpu.mode = ModeNormal
		instruction.Execute(cpu, nil)

		if cpu.mode != ModeNormal {
			t.Errorf("Expected CPU to continue running, got mode %d", cpu.mode)
		}
	})
	// 0x76 - HALT
	testInstruction(t, "HALT", 0x76, func(t *testing.T, instruction Instruction) {
		cpu.mode = ModeNormal
		cpu.IRQ.IME = true
		instruction.Execute(cpu, nil)

		if cpu.mode != ModeHalt {
			t.Errorf("Expected CPU to be halted, got mode %d", cpu.mode)
		}
	})
	// 0xF3 - DI
	testInstruction(t, "DI", 0xF3, func(t *testing.T, instruction Instruction) {
		cpu.IRQ.IME = true
		instruction.Execute(cpu, nil)

		if cpu.IRQ.IME {
			t.Errorf("Expected IME to be cleared, got set")
		}
	})
	// 0xFB - EI
	testInstruction(t, "EI", 0xFB, func(t *testing.T, instruction Instruction) {
		cpu.IRQ.IME = false
		instruction.Execute(cpu, nil)

		if cpu.mode != ModeEnableIME {
			t.Errorf("Expected EI to schedule IME enable, got mode %d", cpu.mode)
		}
	})
}
