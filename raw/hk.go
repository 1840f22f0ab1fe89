// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package raw

import (
	"time"
)

// Housekeeping holds the engineering values decoded from a status frame.
type Housekeeping struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int

	Version   int    // data format version
	Threshold int    // trigger threshold (ADC)
	PC        int    // signed phase count
	Triggers  int    // number of event records declared for the last second
	Station   rune   // station identifier
	Fifo      int    // FIFO status
	GPSInfo   uint16 // GPS word carried by this frame

	// GPS is only finalized on frames where Second%12 == 11.
	GPS GPSFix
}

// Time returns the UTC time stamp of the status frame.
func (hk Housekeeping) Time() time.Time {
	return time.Date(hk.Year, time.Month(hk.Month), hk.Day, hk.Hour, hk.Minute, hk.Second, 0, time.UTC)
}

// HasGPS reports whether this frame closes a 12-frame GPS cycle.
func (hk Housekeeping) HasGPS() bool {
	return hk.Second%gpsCycle == gpsCycle-1
}

// ThresholdDBm returns the trigger threshold in dBm.
func (hk Housekeeping) ThresholdDBm() float64 {
	return adcToDBm(hk.Threshold)
}

// Layout returns the event record layout announced by the frame.
func (hk Housekeeping) Layout() Layout {
	return LayoutFor(hk.Version)
}

func adcToDBm(v int) float64 {
	return 0.488*float64(v) - 111.0
}

// DecodeHK decodes the status frame st.
// The GPS fix is assembled across frames into gps, which must be the same
// value for all the frames of a stream. A nil gps skips the assembly.
func DecodeHK(st Status, gps *GPSState) Housekeeping {
	hk := Housekeeping{
		Year:   int(st[0]&0x7f) + 2000,
		Month:  int(st[3] & 0x0f),
		Day:    int(st[3]>>4) & 0x1f,
		Hour:   int(st[3]>>9) & 0x1f,
		Minute: int(st[2] & 0x3f),
		Second: int(st[2]>>6) & 0x3f,

		Version:   int(st[0]>>7) & 0x3f,
		Threshold: int(st[1] & 0xff),
		PC:        int(st[6] & 0x7fff),
		Triggers:  int(st[1]&0x0c00)<<5 | int(st[4]&0x7fff),
		Station:   rune(int(st[1]&0x1000)>>5|int(st[5]>>8)&0x7f) + 'A' - 1,
		Fifo:      int(st[2]>>12) & 0x07,
		GPSInfo:   (st[1]&0x2000)<<2 | st[7]&0x7fff,
	}
	if st[1]&0x4000 == 0 {
		hk.PC = -hk.PC
	}

	if gps != nil {
		hk.GPS = gps.latch(hk.Second, hk.GPSInfo)
	}
	return hk
}
