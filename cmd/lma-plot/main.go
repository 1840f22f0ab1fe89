// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// lma-plot displays the per-second activity of an LMA raw data file.
//
// lma-plot creates 3 PNG files:
//   - PREFIX-count.png: trigger count and above-threshold range per second,
//   - PREFIX-power.png: event power range and threshold (dBm) per second,
//   - PREFIX-hist.png: distribution of the event power (dBm).
//
// Usage: lma-plot [OPTIONS] FILE
//
// Example:
//
//	$> lma-plot -o out/LK ./testdata/LK_NM_240719_214200.dat
package main // import "github.com/go-lpc/lma/cmd/lma-plot"

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"math"
	"os"

	tlog "github.com/go-daq/tdaq/log"
	"github.com/go-lpc/lma/internal/mmap"
	"github.com/go-lpc/lma/raw"
	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const usage = `lma-plot displays the per-second activity of an LMA raw data file.

Usage: lma-plot [OPTIONS] FILE

Example:

 $> lma-plot -o out/LK ./testdata/LK_NM_240719_214200.dat

options:
`

func main() {
	log.SetPrefix("lma-plot: ")
	log.SetFlags(0)

	var (
		oname   = flag.String("o", "lma", "prefix of output PNG files")
		verbose = flag.Bool("v", false, "enable verbose mode")
	)

	flag.Usage = func() {
		fmt.Print(usage)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		log.Fatalf("missing path to input LMA raw file")
	}

	lvl := tlog.LvlWarning
	if *verbose {
		lvl = tlog.LvlDebug
	}
	msg := tlog.NewMsgStream("lma-plot", lvl, os.Stderr)

	err := process(*oname, flag.Arg(0), msg)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func process(oname, fname string, msg tlog.MsgStream) error {
	f, err := mmap.Open(fname)
	if err != nil {
		return fmt.Errorf("could not open %q: %w", fname, err)
	}
	defer f.Close()

	act, err := collect(f.Reader(), msg)
	if err != nil {
		return fmt.Errorf("could not collect activity from %q: %w", fname, err)
	}

	err = act.plot(oname)
	if err != nil {
		return fmt.Errorf("could not plot activity from %q: %w", fname, err)
	}
	return nil
}

// second summarizes the event records of one second of data.
type second struct {
	id        int
	triggers  int
	threshold float64    // dBm
	above     [2]float64 // min, max number of samples above threshold
	power     [2]float64 // min, max power (dBm)
}

type activity struct {
	secs  []second
	power *hbook.H1D
}

func newActivity() *activity {
	return &activity{
		power: hbook.NewH1D(128, -112, 14),
	}
}

func collect(r io.Reader, msg tlog.MsgStream) (*activity, error) {
	var (
		act = newActivity()
		dec = raw.NewReader(r, raw.WithMsgStream(msg))
	)

	for i := 0; ; i++ {
		sec, err := dec.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return act, fmt.Errorf("could not decode second %d: %w", i, err)
		}
		if i == 0 {
			continue
		}
		act.add(i, sec)
	}

	return act, nil
}

func (act *activity) add(id int, sec raw.Second) {
	n := sec.Block.Len()
	if n == 0 {
		act.secs = append(act.secs, second{id: id, threshold: sec.HK.ThresholdDBm()})
		return
	}

	var (
		evt = sec.Block.Event(0)
		cur = second{
			id:        id,
			triggers:  n,
			threshold: sec.HK.ThresholdDBm(),
			above:     [2]float64{float64(evt.AboveThreshold()), float64(evt.AboveThreshold())},
			power:     [2]float64{evt.Power(), evt.Power()},
		}
	)
	for i := 0; i < n; i++ {
		evt := sec.Block.Event(i)
		var (
			above = float64(evt.AboveThreshold())
			power = evt.Power()
		)
		cur.above[0] = math.Min(cur.above[0], above)
		cur.above[1] = math.Max(cur.above[1], above)
		cur.power[0] = math.Min(cur.power[0], power)
		cur.power[1] = math.Max(cur.power[1], power)
		act.power.Fill(power, 1)
	}
	act.secs = append(act.secs, cur)
}

func (act *activity) plot(oname string) error {
	var (
		trigs = make(plotter.XYs, 0, len(act.secs))
		thres = make(plotter.XYs, 0, len(act.secs))
		above [2]plotter.XYs
		power [2]plotter.XYs
	)

	for _, sec := range act.secs {
		x := float64(sec.id)
		trigs = append(trigs, plotter.XY{X: x, Y: float64(sec.triggers)})
		thres = append(thres, plotter.XY{X: x, Y: sec.threshold})
		if sec.triggers == 0 {
			continue
		}
		for i := range above {
			above[i] = append(above[i], plotter.XY{X: x, Y: sec.above[i]})
			power[i] = append(power[i], plotter.XY{X: x, Y: sec.power[i]})
		}
	}

	err := plotLines(oname+"-count.png", "Count", []curve{
		{"Above threshold (min)", above[0], color.RGBA{B: 255, A: 255}},
		{"Above threshold (max)", above[1], color.RGBA{G: 128, B: 255, A: 255}},
		{"Trigger count", trigs, color.RGBA{R: 255, A: 255}},
	})
	if err != nil {
		return fmt.Errorf("could not create count plot: %w", err)
	}

	err = plotLines(oname+"-power.png", "Power [dBm]", []curve{
		{"Trigger power (min)", power[0], color.RGBA{B: 255, A: 255}},
		{"Trigger power (max)", power[1], color.RGBA{G: 128, B: 255, A: 255}},
		{"Threshold", thres, color.RGBA{R: 255, A: 255}},
	})
	if err != nil {
		return fmt.Errorf("could not create power plot: %w", err)
	}

	p := hplot.New()
	p.Title.Text = "Trigger power"
	p.X.Label.Text = "Power [dBm]"
	p.Y.Label.Text = "Entries"

	h := hplot.NewH1D(act.power)
	h.LineStyle.Color = color.RGBA{B: 255, A: 255}
	p.Add(h, hplot.NewGrid())

	err = p.Save(20*vg.Centimeter, 15*vg.Centimeter, oname+"-hist.png")
	if err != nil {
		return fmt.Errorf("could not save power histogram: %w", err)
	}

	return nil
}

type curve struct {
	name  string
	data  plotter.XYs
	color color.Color
}

func plotLines(fname, ylabel string, curves []curve) error {
	p := hplot.New()
	p.X.Label.Text = "Time [s]"
	p.Y.Label.Text = ylabel
	p.Legend.Top = true
	p.Add(hplot.NewGrid())

	for _, c := range curves {
		if len(c.data) == 0 {
			continue
		}
		line, err := plotter.NewLine(c.data)
		if err != nil {
			return fmt.Errorf("could not create line %q: %w", c.name, err)
		}
		line.Width = vg.Points(1)
		line.Color = c.color
		p.Add(line)
		p.Legend.Add(c.name, line)
	}

	err := p.Save(20*vg.Centimeter, 15*vg.Centimeter, fname)
	if err != nil {
		return fmt.Errorf("could not save %q: %w", fname, err)
	}
	return nil
}
