// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package raw

import (
	"math"
)

const (
	earthEquaRadius = 6378137.0 // equatorial Earth radius (m)
	earthPoleRadius = 6356752.0 // polar Earth radius (m)
)

// Geodetic is a position on the Earth ellipsoid.
type Geodetic struct {
	Lat float64 // latitude (degrees)
	Lng float64 // longitude (degrees)
	Alt float64 // altitude (m)
}

// Cartesian is an Earth-centered, Earth-fixed position, in meters.
type Cartesian struct {
	X, Y, Z float64
}

// Cartesian converts the geodetic position to Earth-centered coordinates.
func (g Geodetic) Cartesian() Cartesian {
	var (
		lat = g.Lat * math.Pi / 180
		lng = g.Lng * math.Pi / 180

		a2 = earthEquaRadius * earthEquaRadius
		b2 = earthPoleRadius * earthPoleRadius

		cos = math.Cos(lat)
		sin = math.Sin(lat)
		den = math.Sqrt(a2*cos*cos + b2*sin*sin)
	)

	return Cartesian{
		X: (a2/den + g.Alt) * cos * math.Cos(lng),
		Y: (a2/den + g.Alt) * cos * math.Sin(lng),
		Z: (b2/den + g.Alt) * sin,
	}
}

// Distance returns the euclidean distance between two positions, in meters.
func Distance(p1, p2 Cartesian) float64 {
	return math.Sqrt(
		(p1.X-p2.X)*(p1.X-p2.X) +
			(p1.Y-p2.Y)*(p1.Y-p2.Y) +
			(p1.Z-p2.Z)*(p1.Z-p2.Z),
	)
}
