// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package raw

// ring is a fixed-capacity window over the last StatusLen words read.
type ring struct {
	buf [StatusLen]uint16
	beg int // index of the oldest word
	n   int // number of words held
}

// push appends w, evicting the oldest word once the ring is full.
func (r *ring) push(w uint16) {
	if r.n < len(r.buf) {
		r.buf[(r.beg+r.n)%len(r.buf)] = w
		r.n++
		return
	}
	r.buf[r.beg] = w
	r.beg = (r.beg + 1) % len(r.buf)
}

func (r *ring) full() bool { return r.n == len(r.buf) }

// peek returns the i-th word, counted from the oldest one.
func (r *ring) peek(i int) uint16 {
	return r.buf[(r.beg+i)%len(r.buf)]
}

// drain copies the ring content, oldest first, into a status frame
// and empties the ring.
func (r *ring) drain() Status {
	var st Status
	for i := range st {
		st[i] = r.peek(i)
	}
	r.beg = 0
	r.n = 0
	return st
}

// match reports whether the ring holds a complete status frame.
func (r *ring) match() bool {
	return r.full() && r.peek(StatusLen-1) == Sync && isHeader(r.peek(0))
}
