package gameboy

import (
	"testing"

	"github.com/pixelclock/gomeboy/internal/joypad"
	"github.com/stretchr/testify/require"
)

// blankROM returns a minimal, valid 32KB RomOnly cartridge image with a
// well-formed header so New doesn't need a real game.
func blankROM() []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x134:0x143], "TEST")
	rom[0x147] = 0x00 // ROM ONLY
	rom[0x148] = 0x00 // 32KB
	rom[0x149] = 0x00 // no RAM
	var checksum uint8
	for i := 0x134; i <= 0x14C; i++ {
		checksum = checksum - rom[i] - 1
	}
	rom[0x14D] = checksum
	return rom
}

func newTestGameBoy(t *testing.T) *GameBoy {
	gb, err := New(blankROM(), nil)
	require.NoError(t, err)
	return gb
}

func TestNewSkipsBootWhenNoBootROM(t *testing.T) {
	gb := newTestGameBoy(t)
	require.Equal(t, uint16(0x0100), gb.CPU.PC)
	require.Equal(t, uint16(0xFFFE), gb.CPU.SP)
}

func TestTickAdvancesClock(t *testing.T) {
	gb := newTestGameBoy(t)
	for i := 0; i < 1000; i++ {
		gb.Tick()
	}
	require.Equal(t, uint64(1000), gb.ticks)
}

func TestInputKeyPressAndRelease(t *testing.T) {
	gb := newTestGameBoy(t)
	gb.InputKey(joypad.A, true)
	gb.InputKey(joypad.A, false)
}

func TestPauseStopsStepFrame(t *testing.T) {
	gb := newTestGameBoy(t)
	gb.Pause()
	require.True(t, gb.Paused())
	before := gb.ticks
	gb.StepFrame()
	require.Equal(t, before, gb.ticks)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	gb := newTestGameBoy(t)
	for i := 0; i < 10000; i++ {
		gb.Tick()
	}
	blob, err := gb.Save()
	require.NoError(t, err)

	other, err := New(blankROM(), nil)
	require.NoError(t, err)
	require.NoError(t, other.Load(blob))

	require.Equal(t, gb.CPU.PC, other.CPU.PC)
	require.Equal(t, gb.CPU.SP, other.CPU.SP)
}

func TestLoadRejectsWrongCartridge(t *testing.T) {
	gb := newTestGameBoy(t)
	blob, err := gb.Save()
	require.NoError(t, err)

	otherROM := blankROM()
	copy(otherROM[0x134:0x143], "DIFFERENT")
	var checksum uint8
	for i := 0x134; i <= 0x14C; i++ {
		checksum = checksum - otherROM[i] - 1
	}
	otherROM[0x14D] = checksum

	other, err := New(otherROM, nil)
	require.NoError(t, err)
	require.Error(t, other.Load(blob))
}

func TestSRAMRoundTripOnBatteryCartridge(t *testing.T) {
	rom := blankROM()
	rom[0x147] = 0x03 // MBC1+RAM+BATTERY
	rom[0x149] = 0x02 // 8KB RAM
	gb, err := New(rom, nil)
	require.NoError(t, err)
	require.True(t, gb.Cart.HasBattery())

	data := make([]byte, 0x2000)
	data[0] = 0x42
	gb.LoadSRAM(data)
	require.Equal(t, uint8(0x42), gb.SaveSRAM()[0])
}
