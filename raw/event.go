// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package raw

import (
	"fmt"
)

// Layout describes the bit layout of event records, which depends
// on the data format version.
type Layout uint8

const (
	V10 Layout = 10 // 14-bit micro-time
	V11 Layout = 11 // 17-bit micro-time, extended with 3 bits of word 0
)

// LayoutFor returns the event record layout of the data format version.
// Any version other than 10 uses the V11 layout.
func LayoutFor(version int) Layout {
	if version == 10 {
		return V10
	}
	return V11
}

func (l Layout) String() string {
	switch l {
	case V10:
		return "v10"
	default:
		return "v11"
	}
}

// MaxDataLen returns the maximum number of words of event records
// between two status frames.
func (l Layout) MaxDataLen() int {
	switch l {
	case V10:
		return 12500 * RecordLen
	default:
		return 100000 * RecordLen
	}
}

// Micro returns the micro-time of the event record.
func (l Layout) Micro(evt Event) uint32 {
	micro := uint32(evt[1] & 0x3fff)
	if l == V10 {
		return micro
	}
	return micro | uint32(evt[0]>>8&0x07)<<14
}

// Ticks returns the sample clock ticks of the event record.
func (l Layout) Ticks(evt Event) int {
	if l == V10 {
		return int(evt[0] & 0x07ff)
	}
	return int(evt[0] & 0x00ff)
}

// Event is a triggered event record.
// Its 3 samples follow a positive, negative, positive sign pattern.
type Event [RecordLen]uint16

// MaxData returns the peak power of the event (ADC).
func (evt Event) MaxData() int {
	return int(evt[2] & 0x00ff)
}

// Power returns the peak power of the event in dBm.
func (evt Event) Power() float64 {
	return adcToDBm(evt.MaxData())
}

// AboveThreshold returns the number of samples above threshold.
func (evt Event) AboveThreshold() int {
	return int(evt[0]>>11)&0x0f | int(evt[2]&0x7f00)>>4
}

func (evt Event) polarityOK() bool {
	return evt[0]&0x8000 == 0 &&
		evt[1]&0xc000 == 0xc000 &&
		evt[2]&0x8000 == 0
}

// Validate checks the event records of blk: each record must follow the
// positive, negative, positive sign pattern and the micro-time must
// strictly increase from one record to the next.
// Validate stops at the first offending record and returns a
// *PolarityError or a *MonotonicityError.
// Trailing words that do not form a complete record are ignored.
func Validate(blk Block, l Layout) error {
	last := int64(-1)
	for i, n := 0, blk.Len(); i < n; i++ {
		evt := blk.Event(i)
		if !evt.polarityOK() {
			return &PolarityError{Index: i, Event: evt}
		}
		micro := int64(l.Micro(evt))
		if micro <= last {
			return &MonotonicityError{Index: i, Micro: uint32(micro), Last: uint32(last)}
		}
		last = micro
	}
	return nil
}

// PolarityError reports an event record not following the
// positive, negative, positive sign pattern.
type PolarityError struct {
	Index int // index of the event record in its block
	Event Event
}

func (err *PolarityError) Error() string {
	return fmt.Sprintf(
		"raw: event %d is not pos-neg-pos (0x%04x 0x%04x 0x%04x)",
		err.Index, err.Event[0], err.Event[1], err.Event[2],
	)
}

// MonotonicityError reports an event record whose micro-time does not
// follow the one of the previous record.
type MonotonicityError struct {
	Index int // index of the event record in its block
	Micro uint32
	Last  uint32
}

func (err *MonotonicityError) Error() string {
	return fmt.Sprintf(
		"raw: event %d breaks micro-time monotonicity (micro=%d, previous=%d)",
		err.Index, err.Micro, err.Last,
	)
}

// TriggerMismatchError reports a status frame whose trigger count
// disagrees with the number of event records preceding it.
type TriggerMismatchError struct {
	Want int // trigger count declared by the status frame
	Got  int // number of event records read
}

func (err *TriggerMismatchError) Error() string {
	return fmt.Sprintf(
		"raw: wrong number of triggers between status frames (status=%d, records=%d)",
		err.Want, err.Got,
	)
}

// PartialRecordError reports an event block whose length is not
// a multiple of the event record length.
type PartialRecordError struct {
	Words int // number of words in the block
}

func (err *PartialRecordError) Error() string {
	return fmt.Sprintf("raw: event block of %d words is not made of %d-word records", err.Words, RecordLen)
}
