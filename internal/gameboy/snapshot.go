package gameboy

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/cespare/xxhash"
	"github.com/pixelclock/gomeboy/internal/types"
)

// snapshotMagic and snapshotVersion guard against loading a blob produced
// by an incompatible build, or one for a different cartridge.
const (
	snapshotMagic   = "GBSS"
	snapshotVersion = 1
)

// Save serializes CPU/MMU/PPU/timer/joypad/cartridge state into an opaque,
// brotli-compressed blob prefixed with a magic, version, cartridge tag and
// an xxhash checksum of the uncompressed payload.
func (g *GameBoy) Save() ([]byte, error) {
	s := types.NewState()
	g.CPU.Save(s)
	g.MMU.Save(s)
	g.PPU.Save(s)
	g.Timer.Save(s)
	g.Joypad.Save(s)
	g.Cart.Save(s)
	payload := s.Bytes()

	var compressed bytes.Buffer
	w := brotli.NewWriter(&compressed)
	if _, err := w.Write(payload); err != nil {
		return nil, fmt.Errorf("gameboy: compress snapshot: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gameboy: compress snapshot: %w", err)
	}

	var out bytes.Buffer
	out.WriteString(snapshotMagic)
	out.WriteByte(snapshotVersion)
	tag := g.Cart.SaveTag()
	out.WriteByte(uint8(len(tag)))
	out.WriteString(tag)
	var sum [8]byte
	putUint64(sum[:], xxhash.Sum64(payload))
	out.Write(sum[:])
	out.Write(compressed.Bytes())
	return out.Bytes(), nil
}

// Load restores state previously produced by Save. Prior state is left
// untouched if the blob is malformed, the wrong version, or for a
// different cartridge, so a failed Load never leaves the console
// half-restored.
func (g *GameBoy) Load(blob []byte) error {
	if len(blob) < len(snapshotMagic)+1+1+8 {
		return fmt.Errorf("gameboy: snapshot truncated")
	}
	if string(blob[:len(snapshotMagic)]) != snapshotMagic {
		return fmt.Errorf("gameboy: snapshot has wrong magic")
	}
	pos := len(snapshotMagic)
	version := blob[pos]
	pos++
	if version != snapshotVersion {
		return fmt.Errorf("gameboy: snapshot version %d unsupported", version)
	}
	tagLen := int(blob[pos])
	pos++
	if pos+tagLen+8 > len(blob) {
		return fmt.Errorf("gameboy: snapshot truncated")
	}
	tag := string(blob[pos : pos+tagLen])
	pos += tagLen
	if tag != g.Cart.SaveTag() {
		return fmt.Errorf("gameboy: snapshot is for a different cartridge")
	}
	wantSum := getUint64(blob[pos : pos+8])
	pos += 8

	r := brotli.NewReader(bytes.NewReader(blob[pos:]))
	payload, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("gameboy: decompress snapshot: %w", err)
	}
	if xxhash.Sum64(payload) != wantSum {
		return fmt.Errorf("gameboy: snapshot checksum mismatch")
	}

	s := types.StateFromBytes(payload)
	g.CPU.Load(s)
	g.MMU.Load(s)
	g.PPU.Load(s)
	g.Timer.Load(s)
	g.Joypad.Load(s)
	g.Cart.Load(s)
	return nil
}

// SaveSRAM returns the cartridge's battery-backed external RAM (and, for
// MBC3, the RTC epoch), or nil if the cartridge has no battery.
func (g *GameBoy) SaveSRAM() []byte {
	if !g.Cart.HasBattery() {
		return nil
	}
	return g.Cart.SaveRAM()
}

// LoadSRAM restores external RAM from a prior SaveSRAM. It is a no-op on
// cartridges with no battery.
func (g *GameBoy) LoadSRAM(data []byte) {
	if !g.Cart.HasBattery() {
		return
	}
	g.Cart.LoadRAM(data)
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
