// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// lma-survey compares the GPS position reported by LMA stations with
// their surveyed sites.
//
// For each input file, lma-survey retrieves the last valid GPS fix of the
// station and displays its distance to the site stored in the conditions
// database.
//
// Usage: lma-survey [OPTIONS] FILE1 [FILE2 [FILE3 ...]]
//
// Example:
//
//	$> lma-survey -dsn "lma:xxx@tcp(localhost:3306)/lma" ./testdata/LK_*.dat
//	K LK_NM_240719_214200.dat fix=( 35.00000000, -106.50000000, 1623.45) site=( 35.00001000, -106.50000000, 1622.90) dist=    1.25 m
package main // import "github.com/go-lpc/lma/cmd/lma-survey"

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"

	tlog "github.com/go-daq/tdaq/log"
	"github.com/go-lpc/lma/internal/mmap"
	"github.com/go-lpc/lma/raw"
	"github.com/go-lpc/lma/sitedb"
	"golang.org/x/sync/errgroup"
)

func main() {
	log.SetPrefix("lma-survey: ")
	log.SetFlags(0)

	var (
		dsn   = flag.String("dsn", os.Getenv("LMA_SITEDB"), "data source name of the sites database")
		njobs = flag.Int("j", runtime.NumCPU(), "number of files decoded concurrently")
	)

	flag.Usage = func() {
		fmt.Printf(`lma-survey compares the GPS position reported by LMA stations with their surveyed sites.

Usage: lma-survey [OPTIONS] FILE1 [FILE2 [FILE3 ...]]

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		log.Fatalf("missing path to input LMA raw file")
	}

	db, err := sitedb.Open(*dsn)
	if err != nil {
		log.Fatalf("could not open sites db: %+v", err)
	}
	defer db.Close()

	msg := tlog.NewMsgStream("lma-survey", tlog.LvlWarning, os.Stderr)
	err = run(context.Background(), os.Stdout, db, flag.Args(), *njobs, msg)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

type siteFinder interface {
	Site(ctx context.Context, station rune) (sitedb.Site, error)
}

type survey struct {
	fname   string
	station rune
	fix     raw.GPSFix
	site    sitedb.Site
}

func (s survey) String() string {
	name := filepath.Base(s.fname)
	if !s.fix.Valid {
		return fmt.Sprintf("%c %s no valid GPS fix", s.station, name)
	}
	var (
		fix  = s.fix.Geodetic()
		site = s.site.Geodetic()
		dist = raw.Distance(fix.Cartesian(), site.Cartesian())
	)
	return fmt.Sprintf(
		"%c %s fix=(%12.8f, %13.8f, %7.2f) site=(%12.8f, %13.8f, %7.2f) dist=%8.2f m",
		s.station, name,
		fix.Lat, fix.Lng, fix.Alt,
		site.Lat, site.Lng, site.Alt,
		dist,
	)
}

func run(ctx context.Context, w io.Writer, db siteFinder, fnames []string, njobs int, msg tlog.MsgStream) error {
	surveys := make([]survey, len(fnames))
	grp, ctx := errgroup.WithContext(ctx)
	if njobs > 0 {
		grp.SetLimit(njobs)
	}

	for i := range fnames {
		i := i
		grp.Go(func() error {
			fname := fnames[i]
			s, err := lastFix(fname, msg)
			if err != nil {
				return fmt.Errorf("could not survey %q: %w", fname, err)
			}
			if s.fix.Valid {
				s.site, err = db.Site(ctx, s.station)
				if err != nil {
					return fmt.Errorf("could not survey %q: %w", fname, err)
				}
			}
			surveys[i] = s
			return nil
		})
	}

	err := grp.Wait()
	if err != nil {
		return err
	}

	for _, s := range surveys {
		fmt.Fprintf(w, "%v\n", s)
	}
	return nil
}

// lastFix returns the last valid GPS fix found in the named file.
func lastFix(fname string, msg tlog.MsgStream) (survey, error) {
	s := survey{fname: fname}

	f, err := mmap.Open(fname)
	if err != nil {
		return s, fmt.Errorf("could not open file: %w", err)
	}
	defer f.Close()

	r := raw.NewReader(f.Reader(), raw.WithMsgStream(msg))
	for {
		sec, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return s, fmt.Errorf("could not decode file: %w", err)
		}
		s.station = sec.HK.Station
		if sec.HK.GPS.Valid {
			s.fix = sec.HK.GPS
		}
	}

	if s.station == 0 {
		return s, errors.New("no status frame in file")
	}
	return s, nil
}
