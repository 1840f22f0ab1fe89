// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package raw

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/go-lpc/lma/internal/rawtest"
)

var testFrame = rawtest.Frame{
	Year: 24, Month: 7, Day: 19,
	Hour: 21, Minute: 42, Second: 35,
	Version:   10,
	Threshold: 0x5a,
	PC:        -1234,
	Triggers:  2,
	Station:   'K',
	GPS:       0x4100,
}

func statusOf(f rawtest.Frame) Status {
	return Status(f.Words())
}

func TestFindStatus(t *testing.T) {
	v12 := testFrame
	v12.Version = 12

	for _, tc := range []struct {
		name string
		raw  []byte
		want Status
		skip int
		err  error
	}{
		{
			name: "no data",
			raw:  nil,
			err:  io.EOF,
		},
		{
			name: "short-stream",
			raw:  new(rawtest.Stream).Words(1, 2, 3, 4, 5).Bytes(),
			err:  io.EOF,
		},
		{
			name: "odd-byte",
			raw:  append(new(rawtest.Stream).Words(1, 2, 3, 4, 5, 6, 7, 8).Bytes(), 0xaa),
			err:  io.EOF,
		},
		{
			name: "status-first",
			raw:  new(rawtest.Stream).Status(testFrame).Bytes(),
			want: statusOf(testFrame),
		},
		{
			name: "garbage-then-status",
			raw:  new(rawtest.Stream).Words(0x0001, 0xaa55, 0x8500).Status(testFrame).Bytes(),
			want: statusOf(testFrame),
			skip: 6,
		},
		{
			name: "events-then-status",
			raw:  new(rawtest.Stream).Events(false, 1, 2, 3).Status(testFrame).Events(false, 4).Bytes(),
			want: statusOf(testFrame),
			skip: 18,
		},
		{
			name: "sync-without-header",
			raw:  new(rawtest.Stream).Status(v12).Bytes(),
			err:  io.EOF,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dec := NewDecoder(bytes.NewReader(tc.raw))
			st, skip, err := dec.FindStatus()
			switch {
			case err != nil && tc.err == nil:
				t.Fatalf("could not find status: %+v", err)
			case err == nil && tc.err != nil:
				t.Fatalf("expected an error: %+v", tc.err)
			case err != nil && tc.err != nil:
				if !errors.Is(err, tc.err) {
					t.Fatalf("invalid error:\ngot= %+v\nwant=%+v", err, tc.err)
				}
				return
			}

			if got, want := st, tc.want; got != want {
				t.Fatalf("invalid status:\ngot= %04x\nwant=%04x", got, want)
			}
			if got, want := skip, tc.skip; got != want {
				t.Fatalf("invalid skip count: got=%d, want=%d", got, want)
			}
		})
	}
}

func TestFindStatusSequence(t *testing.T) {
	f1 := testFrame
	f2 := testFrame
	f2.Second++

	raw := new(rawtest.Stream).
		Words(0x1234).
		Status(f1).
		Events(false, 10, 20).
		Status(f2).
		Bytes()

	dec := NewDecoder(bytes.NewReader(raw))
	for i, want := range []struct {
		st   Status
		skip int
	}{
		{statusOf(f1), 2},
		{statusOf(f2), 12},
	} {
		st, skip, err := dec.FindStatus()
		if err != nil {
			t.Fatalf("frame %d: could not find status: %+v", i, err)
		}
		if st != want.st {
			t.Fatalf("frame %d: invalid status:\ngot= %04x\nwant=%04x", i, st, want.st)
		}
		if skip != want.skip {
			t.Fatalf("frame %d: invalid skip: got=%d, want=%d", i, skip, want.skip)
		}
	}

	_, _, err := dec.FindStatus()
	if !errors.Is(err, io.EOF) {
		t.Fatalf("invalid error: got=%+v, want=%+v", err, io.EOF)
	}
	if got, want := dec.Offset(), int64(len(raw)); got != want {
		t.Fatalf("invalid offset: got=%d, want=%d", got, want)
	}
}

func TestReadBlock(t *testing.T) {
	const max = 6

	for _, tc := range []struct {
		name string
		raw  []byte
		want int // number of words in block
		err  error
	}{
		{
			name: "empty-block",
			raw:  new(rawtest.Stream).Status(testFrame).Bytes(),
			want: 0,
		},
		{
			name: "two-events",
			raw:  new(rawtest.Stream).Events(false, 1, 2).Status(testFrame).Bytes(),
			want: 6,
		},
		{
			name: "partial-record",
			raw:  new(rawtest.Stream).Events(false, 1).Words(0x0001).Status(testFrame).Bytes(),
			want: 4,
		},
		{
			name: "max-len-block",
			raw:  new(rawtest.Stream).Words(1, 2, 3, 4, 5, 6).Status(testFrame).Bytes(),
			want: max,
		},
		{
			name: "overrun",
			raw:  new(rawtest.Stream).Words(1, 2, 3, 4, 5, 6, 7).Status(testFrame).Bytes(),
			err:  ErrOverrun,
		},
		{
			name: "overrun-no-status",
			raw:  new(rawtest.Stream).Words(make([]uint16, max+StatusLen)...).Bytes(),
			err:  ErrOverrun,
		},
		{
			name: "eof-before-bound",
			raw:  new(rawtest.Stream).Words(make([]uint16, max+StatusLen-1)...).Bytes(),
			err:  io.EOF,
		},
		{
			name: "eof-mid-block",
			raw:  new(rawtest.Stream).Events(false, 1).Bytes(),
			err:  io.EOF,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dec := NewDecoder(bytes.NewReader(tc.raw))
			blk, st, err := dec.ReadBlock(max)
			switch {
			case err != nil && tc.err == nil:
				t.Fatalf("could not read block: %+v", err)
			case err == nil && tc.err != nil:
				t.Fatalf("expected an error: %+v", tc.err)
			case err != nil && tc.err != nil:
				if !errors.Is(err, tc.err) {
					t.Fatalf("invalid error:\ngot= %+v\nwant=%+v", err, tc.err)
				}
				return
			}

			if got, want := len(blk), tc.want; got != want {
				t.Fatalf("invalid block length: got=%d, want=%d", got, want)
			}
			if got, want := st, statusOf(testFrame); got != want {
				t.Fatalf("invalid status:\ngot= %04x\nwant=%04x", got, want)
			}
		})
	}
}

func TestRing(t *testing.T) {
	var r ring
	for i := 0; i < StatusLen-1; i++ {
		r.push(uint16(i))
		if r.full() {
			t.Fatalf("ring full after %d words", i+1)
		}
	}
	for i := StatusLen - 1; i < 2*StatusLen+3; i++ {
		r.push(uint16(i))
		if !r.full() {
			t.Fatalf("ring not full after %d words", i+1)
		}
		if got, want := r.peek(0), uint16(i-StatusLen+1); got != want {
			t.Fatalf("invalid oldest word: got=%d, want=%d", got, want)
		}
		if got, want := r.peek(StatusLen-1), uint16(i); got != want {
			t.Fatalf("invalid newest word: got=%d, want=%d", got, want)
		}
	}

	st := r.drain()
	for i, v := range st {
		if got, want := v, uint16(i+StatusLen+3); got != want {
			t.Fatalf("invalid drained word %d: got=%d, want=%d", i, got, want)
		}
	}
	if r.full() || r.n != 0 {
		t.Fatalf("ring not empty after drain")
	}
}
