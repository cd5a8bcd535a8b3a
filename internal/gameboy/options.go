package gameboy

import (
	"fmt"
	"time"

	"github.com/pixelclock/gomeboy/internal/cheats"
	"github.com/pixelclock/gomeboy/internal/mmu"
	"github.com/pixelclock/gomeboy/internal/types"
	"github.com/pixelclock/gomeboy/pkg/log"
)

// Opt configures a GameBoy at construction time.
type Opt func(gb *GameBoy)

// WithLogger sets the logger used for the console's diagnostic output.
func WithLogger(l log.Logger) Opt {
	return func(gb *GameBoy) {
		gb.Logger = l
	}
}

// AsModel forces the emulated model instead of letting the cartridge
// header's CGB flag decide.
func AsModel(m types.Model) Opt {
	return func(gb *GameBoy) {
		gb.SetModel(m)
	}
}

// WithSRAM restores battery-backed external RAM from a previous SaveSRAM
// call, for cartridges loaded with their existing save data.
func WithSRAM(data []byte) Opt {
	return func(gb *GameBoy) {
		gb.LoadSRAM(data)
	}
}

// SaveEvery persists SRAM on a ticker, for battery cartridges that should
// survive a crash without requiring an explicit save on exit.
func SaveEvery(d time.Duration) Opt {
	return func(gb *GameBoy) {
		if !gb.Cart.HasBattery() {
			return
		}
		t := time.NewTicker(d)
		go func() {
			for range t.C {
				gb.SaveSRAM()
			}
		}()
	}
}

// SerialDebugger polls the serial port's one-byte debug tap and mirrors
// newly logged bytes into output, the pattern blargg/mooneye conformance
// ROMs use to report pass/fail over the link cable.
func SerialDebugger(output *string) Opt {
	return func(gb *GameBoy) {
		seen := 0
		t := time.NewTicker(16 * time.Millisecond)
		go func() {
			for range t.C {
				log := gb.MMU.SerialLog()
				if len(log) > seen {
					*output += string(log[seen:])
					seen = len(log)
				}
			}
		}()
	}
}

// WithCheats decodes Game Genie codes (format ABC-DEF-GHI) and installs
// them as active ROM-read patches. Malformed codes are skipped rather than
// rejecting the whole list, since a typo in one code shouldn't prevent the
// rest from loading.
func WithCheats(codes ...string) Opt {
	return func(gb *GameBoy) {
		genie := cheats.NewGameGenie()
		for i, code := range codes {
			name := fmt.Sprintf("cheat-%d", i)
			if err := genie.Load(code, name); err != nil {
				continue
			}
			genie.Enable(name)
		}
		gb.MMU.SetCheats([]mmu.CheatPatch{genie})
	}
}
