// Package ppu implements the Game Boy's pixel processing unit: a
// per-dot pixel-FIFO renderer covering OAM scan, background/window/sprite
// fetchers, CGB color palettes, and the LCDC/STAT/LY register file.
package ppu

import (
	"sort"

	"github.com/pixelclock/gomeboy/internal/interrupts"
	"github.com/pixelclock/gomeboy/internal/ppu/palette"
	"github.com/pixelclock/gomeboy/internal/types"
)

const (
	dotsPerLine    = 456
	oamScanDots    = 80
	linesPerFrame  = 154
	visibleLines   = 144
	screenWidth    = 160
	screenHeight   = 144
)

type oamEntry struct {
	y, x, tile, attr uint8
	index            int
}

// PPU owns VRAM, OAM, the LCD register file, and the per-dot scan state
// machine that produces the 160x144 ARGB framebuffer.
type PPU struct {
	irq *interrupts.Service
	cgb bool

	vram [2][0x2000]uint8
	oam  [160]uint8
	vbk  uint8

	lcdc, stat, ly, lyc         uint8
	scy, scx, wy, wx            uint8
	bgp, obp0, obp1             uint8
	dmaReg                      uint8
	lycFlag                     bool
	lastStatSignal              bool

	bcp, ocp *palette.CGBPalette

	mode Mode
	dot  int

	activeSprites []oamEntry
	bgFIFO        []bgPixel
	sprFIFO       []sprPixel
	f             fetcher
	lx            uint8
	discard       uint8
	emitX         uint8
	windowActive  bool
	windowLine    uint8

	frameReady  bool
	framebuffer [screenWidth * screenHeight]uint32
}

func New(irq *interrupts.Service, cgb bool) *PPU {
	p := &PPU{
		irq:  irq,
		cgb:  cgb,
		bcp:  palette.NewCGBPallette(),
		ocp:  palette.NewCGBPallette(),
		mode: ModeOAMScan,
	}
	return p
}

// Step advances the PPU by one dot.
func (p *PPU) Step() {
	if !p.lcdEnabled() {
		return
	}
	switch p.mode {
	case ModeOAMScan:
		if p.dot == 0 {
			p.scanOAM()
		}
		if p.dot == oamScanDots-1 {
			p.enterMode(ModeDrawing)
			p.resetFetcher()
		}
	case ModeDrawing:
		p.stepDrawing()
	case ModeHBlank:
		// idle until line boundary
	case ModeVBlank:
		// idle until line boundary
	}

	p.dot++
	if p.dot >= dotsPerLine {
		p.dot = 0
		p.advanceLine()
	}
	p.updateSTAT()
}

func (p *PPU) enterMode(m Mode) {
	p.mode = m
}

func (p *PPU) advanceLine() {
	if p.windowActive {
		p.windowLine++
	}
	p.ly++
	if p.ly == visibleLines {
		p.enterMode(ModeVBlank)
		p.irq.Request(interrupts.VBlank)
		p.frameReady = true
	} else if p.ly >= linesPerFrame {
		p.ly = 0
		p.windowLine = 0
		p.enterMode(ModeOAMScan)
	} else if p.mode != ModeVBlank {
		p.enterMode(ModeOAMScan)
	}
	p.checkLYC()
}

// ConsumeFrameReady reports whether a full 70224-dot frame has completed
// since the last call, clearing the flag.
func (p *PPU) ConsumeFrameReady() bool {
	v := p.frameReady
	p.frameReady = false
	return v
}

// Framebuffer returns the current 160x144 ARGB pixel buffer.
func (p *PPU) Framebuffer() []uint32 { return p.framebuffer[:] }

func (p *PPU) checkLYC() {
	p.lycFlag = p.ly == p.lyc
}

func (p *PPU) updateSTAT() {
	signal := false
	if p.stat&statLYCInt != 0 && p.lycFlag {
		signal = true
	}
	switch p.mode {
	case ModeHBlank:
		signal = signal || p.stat&statHBlankInt != 0
	case ModeVBlank:
		signal = signal || p.stat&statVBlankInt != 0
	case ModeOAMScan:
		signal = signal || p.stat&statOAMInt != 0
	}
	if signal && !p.lastStatSignal {
		p.irq.Request(interrupts.LCDStat)
	}
	p.lastStatSignal = signal
}

// scanOAM selects up to 10 sprites covering the current line, in OAM order.
func (p *PPU) scanOAM() {
	p.activeSprites = p.activeSprites[:0]
	height := uint8(8)
	if p.objTall() {
		height = 16
	}
	for i := 0; i < 40 && len(p.activeSprites) < 10; i++ {
		base := i * 4
		y := p.oam[base]
		x := p.oam[base+1]
		if x == 0 {
			continue
		}
		top := int(y) - 16
		if int(p.ly) < top || int(p.ly) >= top+int(height) {
			continue
		}
		p.activeSprites = append(p.activeSprites, oamEntry{
			y: y, x: x, tile: p.oam[base+2], attr: p.oam[base+3], index: i,
		})
	}
	sort.SliceStable(p.activeSprites, func(a, b int) bool {
		return p.activeSprites[a].x < p.activeSprites[b].x
	})
}

func (p *PPU) stepDrawing() {
	if len(p.bgFIFO) > 8 {
		p.checkSpriteSplice()
		if p.checkWindowActivation() {
			p.stepFetcher()
			return
		}
		p.popPixel()
		if p.lx >= screenWidth {
			p.enterMode(ModeHBlank)
			p.stat &^= 0x03
			return
		}
	}
	p.stepFetcher()
}

func (p *PPU) checkWindowActivation() bool {
	if p.windowActive || !p.windowEnabled() {
		return false
	}
	if p.ly < p.wy {
		return false
	}
	if int(p.lx)+7 < int(p.wx) || p.wx > 166 {
		return false
	}
	p.bgFIFO = p.bgFIFO[:0]
	p.sprFIFO = p.sprFIFO[:0]
	p.f = fetcher{isWindow: true}
	p.windowActive = true
	return true
}

func (p *PPU) checkSpriteSplice() {
	if !p.objEnabled() || len(p.activeSprites) == 0 {
		return
	}
	remaining := p.activeSprites[:0:0]
	for _, s := range p.activeSprites {
		screenX := int(s.x) - 8
		if screenX == int(p.emitX) {
			p.spliceSprite(s)
			continue
		}
		remaining = append(remaining, s)
	}
	p.activeSprites = remaining
}

func (p *PPU) popPixel() {
	bg := p.bgFIFO[0]
	p.bgFIFO = p.bgFIFO[1:]
	var spr sprPixel
	if len(p.sprFIFO) > 0 {
		spr = p.sprFIFO[0]
		p.sprFIFO = p.sprFIFO[1:]
	}
	p.emitX++
	if p.discard > 0 {
		p.discard--
		return
	}
	if !p.bgEnabled() && !p.cgb {
		bg.color = 0
	}
	rgb := p.compose(bg, spr)
	idx := int(p.ly)*screenWidth + int(p.lx)
	p.framebuffer[idx] = 0xFF000000 | rgbToARGB(rgb)
	p.lx++
}

func (p *PPU) compose(bg bgPixel, spr sprPixel) [3]uint8 {
	if p.cgb {
		useSprite := false
		if spr.present {
			switch {
			case !p.bgEnabled():
				useSprite = true
			case bg.priority && bg.color != 0:
				useSprite = false
			case spr.bgPriority && bg.color != 0:
				useSprite = false
			default:
				useSprite = true
			}
		}
		if useSprite {
			return p.ocp.GetColour(spr.cgbPalette, spr.color)
		}
		return p.bcp.GetColour(bg.cgbPalette, bg.color)
	}

	useSprite := spr.present
	if useSprite && spr.bgPriority && bg.color != 0 {
		useSprite = false
	}
	if useSprite {
		palByte := p.obp0
		if spr.dmgPalette == 1 {
			palByte = p.obp1
		}
		shade := (palByte >> (spr.color * 2)) & 0x03
		return palette.GetColour(shade)
	}
	shade := (p.bgp >> (bg.color * 2)) & 0x03
	return palette.GetColour(shade)
}

func rgbToARGB(c [3]uint8) uint32 {
	return uint32(c[0])<<16 | uint32(c[1])<<8 | uint32(c[2])
}

// paletteRGB resolves a raw DMG palette byte and color index to RGB,
// used for the blank-screen fill on LCD disable.
func paletteRGB(_ *PPU, palByte uint8, _ bool, colorIndex uint8) [3]uint8 {
	shade := (palByte >> (colorIndex * 2)) & 0x03
	return palette.GetColour(shade)
}

// ReadVRAM reads from the currently-banked VRAM (CPU-facing, 0x8000-0x9FFF).
func (p *PPU) ReadVRAM(address uint16) uint8 {
	return p.vram[p.vbk][address-0x8000]
}

// WriteVRAM writes to the currently-banked VRAM.
func (p *PPU) WriteVRAM(address uint16, value uint8) {
	p.vram[p.vbk][address-0x8000] = value
}

// readVRAMBank reads from an explicit bank, used by the fetchers which must
// read CGB bank 1 tile data regardless of the CPU-facing VBK selection.
func (p *PPU) readVRAMBank(bank uint8, address uint16) uint8 {
	return p.vram[bank][address-0x8000]
}

func (p *PPU) ReadOAM(address uint16) uint8 {
	return p.oam[address-0xFE00]
}

func (p *PPU) WriteOAM(address uint16, value uint8) {
	p.oam[address-0xFE00] = value
}

// WriteOAMByte writes directly by OAM-relative offset (0..159), used by DMA.
func (p *PPU) WriteOAMByte(offset uint8, value uint8) {
	p.oam[offset] = value
}

func (p *PPU) Save(s *types.State) {
	s.WriteData(p.vram[0][:])
	s.WriteData(p.vram[1][:])
	s.WriteData(p.oam[:])
	s.Write8(p.vbk)
	s.Write8(p.lcdc)
	s.Write8(p.stat)
	s.Write8(p.ly)
	s.Write8(p.lyc)
	s.Write8(p.scy)
	s.Write8(p.scx)
	s.Write8(p.wy)
	s.Write8(p.wx)
	s.Write8(p.bgp)
	s.Write8(p.obp0)
	s.Write8(p.obp1)
	s.Write8(p.dmaReg)
	s.WriteBool(p.lycFlag)
	s.Write8(uint8(p.mode))
	s.Write32(uint32(p.dot))
	s.Write8(p.windowLine)
	saveCGBPalette(s, p.bcp)
	saveCGBPalette(s, p.ocp)
}

func (p *PPU) Load(s *types.State) {
	copy(p.vram[0][:], s.ReadData())
	copy(p.vram[1][:], s.ReadData())
	copy(p.oam[:], s.ReadData())
	p.vbk = s.Read8()
	p.lcdc = s.Read8()
	p.stat = s.Read8()
	p.ly = s.Read8()
	p.lyc = s.Read8()
	p.scy = s.Read8()
	p.scx = s.Read8()
	p.wy = s.Read8()
	p.wx = s.Read8()
	p.bgp = s.Read8()
	p.obp0 = s.Read8()
	p.obp1 = s.Read8()
	p.dmaReg = s.Read8()
	p.lycFlag = s.ReadBool()
	p.mode = Mode(s.Read8())
	p.dot = int(s.Read32())
	p.windowLine = s.Read8()
	loadCGBPalette(s, p.bcp)
	loadCGBPalette(s, p.ocp)
	p.resetFetcher()
}

func saveCGBPalette(s *types.State, pal *palette.CGBPalette) {
	saved := pal.GetIndex()
	pal.Incrementing = true
	pal.Index = 0
	for i := 0; i < 64; i++ {
		s.Write8(pal.Read())
	}
	pal.SetIndex(saved)
}

func loadCGBPalette(s *types.State, pal *palette.CGBPalette) {
	pal.Incrementing = true
	pal.Index = 0
	for i := 0; i < 64; i++ {
		pal.Write(s.Read8())
	}
}

var _ types.Stater = (*PPU)(nil)
