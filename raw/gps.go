// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package raw

const (
	gpsCycle = 12 // number of status frames carrying a complete GPS fix

	masPerDeg = 3600000 // milliarcseconds per degree
)

// GPSFix is the GPS state of a station, assembled over a 12-frame cycle.
type GPSFix struct {
	// Valid is set when the fix was finalized and every part of it
	// was latched during the decoding session.
	Valid bool

	Lat         int32  // latitude (milliarcseconds)
	Lng         int32  // longitude (milliarcseconds)
	Alt         int32  // altitude (cm)
	Velocity    uint32 // velocity, as reported by the receiver
	Heading     uint16 // heading, as reported by the receiver
	SatVisible  int    // number of visible satellites
	SatTracked  int    // number of tracked satellites
	SatStatus   uint16 // receiver status word
	Temperature int    // receiver temperature (Celsius)
	Humidity    int    // not reported by the hardware, always 0
}

// Latitude returns the latitude in degrees.
func (fix GPSFix) Latitude() float64 {
	return float64(fix.Lat) * 90.0 / (90 * masPerDeg)
}

// Longitude returns the longitude in degrees.
func (fix GPSFix) Longitude() float64 {
	return float64(fix.Lng) * 180.0 / (180 * masPerDeg)
}

// Altitude returns the altitude in meters.
func (fix GPSFix) Altitude() float64 {
	return float64(fix.Alt) / 100.0
}

// PositionHold reports whether the receiver runs in position-hold mode,
// as opposed to computing a position fix.
func (fix GPSFix) PositionHold() bool {
	return fix.SatStatus&0xe000 == 0x8000
}

// Geodetic returns the position of the fix.
func (fix GPSFix) Geodetic() Geodetic {
	return Geodetic{
		Lat: fix.Latitude(),
		Lng: fix.Longitude(),
		Alt: fix.Altitude(),
	}
}

// GPSState holds the parts of a GPS fix latched from previous status frames.
// The zero value is ready to use. A GPSState must not be shared between streams.
type GPSState struct {
	lat [2]uint16 // high, low halves
	lng [2]uint16
	alt [2]uint16
	vel [2]uint16

	hdg      uint16
	satVis   int
	satTrack int
	satStat  uint16

	seen uint16 // bitset of latched cycle slots
}

const gpsSeenAll = 1<<(gpsCycle-1) - 1

// latch stores the GPS word v of the frame at second sec and, on the last
// frame of the cycle, returns the assembled fix.
func (gps *GPSState) latch(sec int, v uint16) GPSFix {
	slot := sec % gpsCycle
	switch slot {
	case 0:
		gps.lat[0] = v
	case 1:
		gps.lat[1] = v
	case 2:
		gps.lng[0] = v
	case 3:
		gps.lng[1] = v
	case 4:
		gps.alt[0] = v
	case 5:
		gps.alt[1] = v
	case 6:
		gps.vel[0] = v
	case 7:
		gps.vel[1] = v
	case 8:
		gps.hdg = v
	case 9:
		gps.satVis = int(v>>8) & 0xff
		gps.satTrack = int(v & 0xff)
	case 10:
		gps.satStat = v
	case 11:
		return GPSFix{
			Valid:       gps.seen == gpsSeenAll,
			Lat:         int32(join(gps.lat)),
			Lng:         int32(join(gps.lng)),
			Alt:         int32(join(gps.alt)),
			Velocity:    join(gps.vel),
			Heading:     gps.hdg,
			SatVisible:  gps.satVis,
			SatTracked:  gps.satTrack,
			SatStatus:   gps.satStat,
			Temperature: int(v>>8) - 40,
		}
	}
	gps.seen |= 1 << slot
	return GPSFix{}
}

func join(v [2]uint16) uint32 {
	return uint32(v[0])<<16 | uint32(v[1])
}
