// Package diagnostics renders developer-facing charts of emulator timing.
// It is not part of the emulation core; a host driver samples timing data
// while running and hands it here to produce a PNG report.
package diagnostics

import (
	"fmt"
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var palette = []color.Color{
	color.RGBA{R: 0xd6, G: 0x28, B: 0x28, A: 0xff},
	color.RGBA{G: 0x8a, B: 0x2e, A: 0xff},
	color.RGBA{B: 0xd6, A: 0xff},
}

func colorFor(i int) color.Color { return palette[i%len(palette)] }

// FrameTiming is one frame's wall-clock cost, split by which component of
// Tick consumed it.
type FrameTiming struct {
	Frame int
	CPU   time.Duration
	PPU   time.Duration
	Total time.Duration
}

// Recorder accumulates FrameTiming samples for later charting.
type Recorder struct {
	samples []FrameTiming
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Record appends one frame's timing breakdown.
func (r *Recorder) Record(t FrameTiming) {
	r.samples = append(r.samples, t)
}

// WritePNG renders per-frame CPU/PPU/total timing as a line chart to path.
func (r *Recorder) WritePNG(path string) error {
	p := plot.New()
	p.Title.Text = "gomeboy frame timing"
	p.X.Label.Text = "frame"
	p.Y.Label.Text = "microseconds"

	cpu := make(plotter.XYs, len(r.samples))
	ppu := make(plotter.XYs, len(r.samples))
	total := make(plotter.XYs, len(r.samples))
	for i, s := range r.samples {
		x := float64(s.Frame)
		cpu[i] = plotter.XY{X: x, Y: float64(s.CPU.Microseconds())}
		ppu[i] = plotter.XY{X: x, Y: float64(s.PPU.Microseconds())}
		total[i] = plotter.XY{X: x, Y: float64(s.Total.Microseconds())}
	}

	if err := plotutilAddLines(p, "cpu", cpu, "ppu", ppu, "total", total); err != nil {
		return fmt.Errorf("diagnostics: %w", err)
	}

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

// plotutilAddLines mirrors plotutil.AddLines without pulling in the whole
// plotutil package, since only line series (no error bars, no scatter) are
// needed here.
func plotutilAddLines(p *plot.Plot, nameAndData ...interface{}) error {
	for i := 0; i < len(nameAndData); i += 2 {
		name := nameAndData[i].(string)
		data := nameAndData[i+1].(plotter.XYs)
		line, err := plotter.NewLine(data)
		if err != nil {
			return err
		}
		line.Color = colorFor(i / 2)
		p.Add(line)
		p.Legend.Add(name, line)
	}
	return nil
}
