// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package raw decodes LMA station raw data files.
//
// A raw file is a stream of 16-bit little-endian words. Every second the
// station emits a 9-word status (housekeeping) frame, terminated by the
// sync word 0xAA55. The event records triggered during that second are
// written, 3 words each, before the status frame that counts them.
package raw // import "github.com/go-lpc/lma/raw"

const (
	Sync = 0xaa55 // status frame sync word

	hdrMask    = 0xbf00 // status header shape mask
	hdrPattern = 0x8500 // status header shape, once masked

	StatusLen = 9 // number of words in a status frame
	RecordLen = 3 // number of words in an event record
)

// Status is a status frame, in stream order.
// Word 0 carries the header shape, word 8 the sync word.
type Status [StatusLen]uint16

func isHeader(w uint16) bool { return w&hdrMask == hdrPattern }

// Block is the sequence of event records read between two status frames.
type Block []uint16

// Len returns the number of complete event records in the block.
func (blk Block) Len() int {
	return len(blk) / RecordLen
}

// Event returns the i-th event record of the block.
func (blk Block) Event(i int) Event {
	var evt Event
	copy(evt[:], blk[i*RecordLen:(i+1)*RecordLen])
	return evt
}

// MaxData returns the largest peak power ADC value over the block.
func (blk Block) MaxData() int {
	max := 0
	for i := 0; i+RecordLen <= len(blk); i += RecordLen {
		if v := int(blk[i+2] & 0x00ff); v > max {
			max = v
		}
	}
	return max
}
