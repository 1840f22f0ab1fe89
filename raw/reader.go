// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package raw

import (
	"io"

	"github.com/go-daq/tdaq/log"
)

// Second is one status frame with the event block it terminates.
type Second struct {
	Status  Status
	HK      Housekeeping
	Block   Block // empty for the first status frame of a stream
	Skipped int   // number of bytes skipped before the first status frame

	// Findings lists the inconsistencies detected between the block
	// and its status frame. They do not interrupt the decoding.
	Findings []error
}

// Option configures a Reader.
type Option func(*Reader)

// WithMsgStream sets the message stream used to report diagnostics.
func WithMsgStream(msg log.MsgStream) Option {
	return func(r *Reader) {
		r.msg = msg
	}
}

// WithMaxDataLen overrides the maximum number of words of event records
// accepted between two status frames.
func WithMaxDataLen(n int) Option {
	return func(r *Reader) {
		r.max = n
	}
}

// Reader decodes a raw data stream, one second at a time.
// A Reader owns the GPS state of its stream.
type Reader struct {
	dec *Decoder
	gps GPSState
	msg log.MsgStream

	max    int    // maximum block length, 0 to use the layout's
	layout Layout // layout of the last status frame
	nsecs  int
	err    error
}

// NewReader returns a Reader decoding data from r.
func NewReader(r io.Reader, opts ...Option) *Reader {
	rdr := &Reader{
		dec: NewDecoder(r),
		msg: log.NewMsgStream("raw", log.LvlInfo, io.Discard),
	}
	for _, opt := range opts {
		opt(rdr)
	}
	return rdr
}

// Next decodes the next second of data.
// Next returns io.EOF at the end of the stream. An error wrapping
// ErrOverrun means the stream is corrupted: it is returned by every
// subsequent call.
func (r *Reader) Next() (Second, error) {
	if r.err != nil {
		return Second{}, r.err
	}

	var sec Second
	switch r.nsecs {
	case 0:
		st, skip, err := r.dec.FindStatus()
		if err != nil {
			r.err = err
			return sec, err
		}
		if skip > 0 {
			r.msg.Debugf("skipped %d bytes before first status frame", skip)
		}
		sec.Status = st
		sec.Skipped = skip
		sec.HK = DecodeHK(st, &r.gps)

	default:
		blk, st, err := r.dec.ReadBlock(r.maxDataLen())
		if err != nil {
			r.err = err
			return sec, err
		}
		sec.Status = st
		sec.Block = blk
		sec.HK = DecodeHK(st, &r.gps)
		sec.Findings = r.check(sec.HK, blk)
	}

	r.nsecs++
	r.layout = sec.HK.Layout()
	r.msg.Debugf(
		"status %c %v: version=%d triggers=%d records=%d",
		sec.HK.Station, sec.HK.Time().Format("2006-01-02 15:04:05"),
		sec.HK.Version, sec.HK.Triggers, sec.Block.Len(),
	)

	return sec, nil
}

func (r *Reader) maxDataLen() int {
	if r.max > 0 {
		return r.max
	}
	return r.layout.MaxDataLen()
}

func (r *Reader) check(hk Housekeeping, blk Block) []error {
	var errs []error
	if len(blk)%RecordLen != 0 {
		errs = append(errs, &PartialRecordError{Words: len(blk)})
	}
	if n := blk.Len(); n != hk.Triggers {
		errs = append(errs, &TriggerMismatchError{Want: hk.Triggers, Got: n})
	}
	if err := Validate(blk, hk.Layout()); err != nil {
		errs = append(errs, err)
	}
	for _, err := range errs {
		r.msg.Warnf("second %v: %+v", hk.Time().Format("15:04:05"), err)
	}
	return errs
}
