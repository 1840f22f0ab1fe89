// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rawtest builds synthetic LMA raw data streams for tests.
package rawtest // import "github.com/go-lpc/lma/internal/rawtest"

import (
	"encoding/binary"
)

// Frame holds the fields packed into a status frame.
type Frame struct {
	Year      int // years since 2000
	Month     int
	Day       int
	Hour      int
	Minute    int
	Second    int
	Version   int
	Threshold int
	PC        int
	Triggers  int
	Station   rune
	Fifo      int
	GPS       uint16
}

// Words packs the frame into its 9 status words.
func (f Frame) Words() [9]uint16 {
	var (
		id = uint16(f.Station - 'A' + 1)
		pc = f.PC
		w  [9]uint16
	)

	w[0] = 0x8000 | uint16(f.Version&0x3f)<<7 | uint16(f.Year&0x7f)
	w[1] = 0x8000 | (f.GPS&0x8000)>>2 | (id&0x80)<<5 |
		uint16(f.Triggers>>5)&0x0c00 | uint16(f.Threshold&0xff)
	if pc >= 0 {
		w[1] |= 0x4000
	} else {
		pc = -pc
	}
	w[2] = 0x8000 | uint16(f.Fifo&0x07)<<12 | uint16(f.Second&0x3f)<<6 | uint16(f.Minute&0x3f)
	w[3] = 0x8000 | uint16(f.Hour&0x1f)<<9 | uint16(f.Day&0x1f)<<4 | uint16(f.Month&0x0f)
	w[4] = 0x8000 | uint16(f.Triggers&0x7fff)
	w[5] = 0x8000 | (id&0x7f)<<8
	w[6] = 0x8000 | uint16(pc&0x7fff)
	w[7] = 0x8000 | f.GPS&0x7fff
	w[8] = 0xaa55
	return w
}

// Event returns the 3 words of a well-formed event record.
// When v11 is set, bits 14..16 of micro go into word 0.
func Event(micro uint32, maxData int, v11 bool) [3]uint16 {
	var w [3]uint16
	w[0] = 0x0023 // ticks
	if v11 {
		w[0] |= uint16(micro>>14&0x07) << 8
	}
	w[1] = 0xc000 | uint16(micro&0x3fff)
	w[2] = uint16(maxData & 0x00ff)
	return w
}

// Stream accumulates words and encodes them as little-endian bytes.
type Stream struct {
	words []uint16
}

// Words appends raw words to the stream.
func (s *Stream) Words(ws ...uint16) *Stream {
	s.words = append(s.words, ws...)
	return s
}

// Status appends a status frame to the stream.
func (s *Stream) Status(f Frame) *Stream {
	w := f.Words()
	return s.Words(w[:]...)
}

// Events appends well-formed event records with the given micro-times.
func (s *Stream) Events(v11 bool, micros ...uint32) *Stream {
	for i, micro := range micros {
		w := Event(micro, i%256, v11)
		s.Words(w[:]...)
	}
	return s
}

// Len returns the number of words in the stream.
func (s *Stream) Len() int { return len(s.words) }

// Bytes returns the encoded stream.
func (s *Stream) Bytes() []byte {
	p := make([]byte, 2*len(s.words))
	for i, w := range s.words {
		binary.LittleEndian.PutUint16(p[2*i:], w)
	}
	return p
}
