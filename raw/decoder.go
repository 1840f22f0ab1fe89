// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package raw

import (
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/xerrors"
)

// ErrOverrun is returned when no status frame terminates an event block
// within the bound of the data format. The stream is corrupted past
// that point.
var ErrOverrun = errors.New("raw: too many words between status frames")

// Decoder reads status frames and event blocks from an underlying
// stream of 16-bit little-endian words.
type Decoder struct {
	r io.Reader

	buf  []byte
	err  error
	n    int64 // number of words read
	ring ring
}

// NewDecoder creates a decoder that reads words from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:   r,
		buf: make([]byte, 2),
	}
}

// Offset returns the number of bytes consumed so far.
func (dec *Decoder) Offset() int64 {
	return 2 * dec.n
}

// FindStatus scans forward for the next status frame and returns it,
// with the number of bytes skipped before the frame.
// FindStatus returns io.EOF when the stream ends before a frame is found.
func (dec *Decoder) FindStatus() (Status, int, error) {
	beg := dec.n
	dec.ring = ring{}
	for {
		w := dec.readU16()
		if dec.err != nil {
			return Status{}, int(2 * (dec.n - beg)), dec.eof()
		}
		dec.ring.push(w)
		if dec.ring.match() {
			skip := dec.n - beg - StatusLen
			return dec.ring.drain(), int(2 * skip), nil
		}
	}
}

// ReadBlock reads the event records following a status frame, up to and
// including the next status frame.
// At most max words of event records are accepted: ReadBlock returns
// ErrOverrun when the next status frame does not show up within that bound,
// and io.EOF when the stream ends first.
func (dec *Decoder) ReadBlock(max int) (Block, Status, error) {
	var (
		st  Status
		blk = make([]uint16, 0, 1024)
	)

	for len(blk) < max+StatusLen {
		w := dec.readU16()
		if dec.err != nil {
			return nil, st, dec.eof()
		}
		blk = append(blk, w)

		n := len(blk)
		if w == Sync && n >= StatusLen && isHeader(blk[n-StatusLen]) {
			copy(st[:], blk[n-StatusLen:])
			return Block(blk[:n-StatusLen]), st, nil
		}
	}

	return nil, st, xerrors.Errorf(
		"raw: no status frame within %d words (offset=%d): %w",
		max, dec.Offset(), ErrOverrun,
	)
}

func (dec *Decoder) eof() error {
	switch {
	case errors.Is(dec.err, io.EOF), errors.Is(dec.err, io.ErrUnexpectedEOF):
		return io.EOF
	default:
		return xerrors.Errorf("raw: could not read word at offset %d: %w", dec.Offset(), dec.err)
	}
}

func (dec *Decoder) readU16() uint16 {
	if dec.err != nil {
		return 0
	}
	_, dec.err = io.ReadFull(dec.r, dec.buf[:2])
	if dec.err != nil {
		return 0
	}
	dec.n++
	return binary.LittleEndian.Uint16(dec.buf[:2])
}
