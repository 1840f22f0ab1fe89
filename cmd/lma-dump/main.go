// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// lma-dump decodes and displays LMA raw data files.
//
// Usage: lma-dump [OPTIONS] FILE1 [FILE2 [FILE3 ...]]
//
// Example:
//
//	$> lma-dump ./testdata/LK_NM_240719_214200.dat
//	K 2024/07/19 21:42:00 v10 0x5a -1234
//	K 2024/07/19 21:42:01 v10 0x5a -1234    312 187
//	[...]
//	K 2024/07/19 21:42:11 v10 0x5a -1234    298 201  9 ph 25  35.00000000 -106.50000000 1623.45
//	end of file reached (max data: 243)
package main // import "github.com/go-lpc/lma/cmd/lma-dump"

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"

	tlog "github.com/go-daq/tdaq/log"
	"github.com/go-lpc/lma"
	"github.com/go-lpc/lma/internal/mmap"
	"github.com/go-lpc/lma/raw"
	"golang.org/x/sync/errgroup"
)

const usage = `lma-dump decodes and displays LMA raw data files.

Usage: lma-dump [OPTIONS] FILE1 [FILE2 [FILE3 ...]]

Example:

 $> lma-dump ./testdata/LK_NM_240719_214200.dat
 K 2024/07/19 21:42:00 v10 0x5a -1234
 K 2024/07/19 21:42:01 v10 0x5a -1234    312 187
 [...]

options:
`

func main() {
	xmain(os.Stdout, os.Stderr, os.Args[1:])
}

func xmain(stdout, stderr io.Writer, args []string) {
	log.SetPrefix("lma-dump: ")
	log.SetFlags(0)

	var (
		fset = flag.NewFlagSet("lma-dump", flag.ExitOnError)

		njobs   = fset.Int("j", runtime.NumCPU(), "number of files decoded concurrently")
		verbose = fset.Bool("v", false, "enable verbose mode")
		version = fset.Bool("version", false, "print version and exit")
	)

	fset.Usage = func() {
		fmt.Print(usage)
		fset.PrintDefaults()
	}

	err := fset.Parse(args)
	if err != nil {
		log.Fatalf("could not parse input arguments: %+v", err)
	}

	if *version {
		v, sum := lma.Version()
		fmt.Fprintf(stdout, "lma-dump %s %s\n", v, sum)
		return
	}

	if fset.NArg() == 0 {
		fset.Usage()
		log.Fatalf("missing path to input LMA raw file")
	}

	lvl := tlog.LvlWarning
	if *verbose {
		lvl = tlog.LvlDebug
	}

	err = run(stdout, stderr, fset.Args(), *njobs, lvl)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

// run decodes the files concurrently, each with its own session,
// and writes their reports in order.
func run(stdout, stderr io.Writer, fnames []string, njobs int, lvl tlog.Level) error {
	var (
		grp  errgroup.Group
		outs = make([]bytes.Buffer, len(fnames))
	)
	if njobs > 0 {
		grp.SetLimit(njobs)
	}

	for i := range fnames {
		i := i
		grp.Go(func() error {
			fname := fnames[i]
			msg := tlog.NewMsgStream(filepath.Base(fname), lvl, stderr)
			err := process(&outs[i], fname, msg)
			if err != nil {
				return fmt.Errorf("could not dump file %q: %w", fname, err)
			}
			return nil
		})
	}

	err := grp.Wait()
	for i := range outs {
		_, werr := stdout.Write(outs[i].Bytes())
		if werr != nil && err == nil {
			err = fmt.Errorf("could not write report: %w", werr)
		}
	}
	return err
}

func process(w io.Writer, fname string, msg tlog.MsgStream) error {
	wbuf := bufio.NewWriter(w)
	defer wbuf.Flush()

	f, err := mmap.Open(fname)
	if err != nil {
		return fmt.Errorf("could not open %q: %w", fname, err)
	}
	defer f.Close()

	var (
		r    = raw.NewReader(f.Reader(), raw.WithMsgStream(msg))
		max  = 0
		nsec = 0
	)

loop:
	for ; ; nsec++ {
		sec, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break loop
			}
			return fmt.Errorf("could not decode second %d: %w", nsec, err)
		}

		if nsec == 0 {
			if sec.Skipped > 0 {
				fmt.Fprintf(wbuf, "skipped %d bytes before first status frame\n", sec.Skipped)
			}
			printHK(wbuf, sec.HK)
			fmt.Fprintf(wbuf, "\n")
			continue
		}

		for _, err := range sec.Findings {
			fmt.Fprintf(wbuf, "error in file: %v\n", err)
		}

		maxData := sec.Block.MaxData()
		if maxData > max {
			max = maxData
		}

		printHK(wbuf, sec.HK)
		fmt.Fprintf(wbuf, " %6d %3d", sec.HK.Triggers, maxData)
		if fix := sec.HK.GPS; fix.Valid {
			mode := "pf"
			if fix.PositionHold() {
				mode = "ph"
			}
			fmt.Fprintf(wbuf, " %2d %s %2d %12.8f %13.8f %7.2f",
				fix.SatTracked, mode, fix.Temperature,
				fix.Latitude(), fix.Longitude(), fix.Altitude(),
			)
		}
		fmt.Fprintf(wbuf, "\n")
	}

	if nsec == 0 {
		fmt.Fprintf(wbuf, "no status frame found\n")
		return nil
	}
	fmt.Fprintf(wbuf, "end of file reached (max data: %d)\n", max)
	return nil
}

func printHK(w io.Writer, hk raw.Housekeeping) {
	fmt.Fprintf(w, "%c %4d/%02d/%02d %02d:%02d:%02d v%2d 0x%02x %4d",
		hk.Station, hk.Year, hk.Month, hk.Day,
		hk.Hour, hk.Minute, hk.Second,
		hk.Version, hk.Threshold, hk.PC,
	)
}
