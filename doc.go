// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lma holds code to decode the raw data files written by the
// stations of a Lightning Mapping Array.
//
// The data format is handled by package raw.
// Station surveys are stored in a database accessed with package sitedb.
package lma // import "github.com/go-lpc/lma"

import (
	"fmt"
	"runtime/debug"
)

const modulePath = "github.com/go-lpc/lma"

// Version returns the version of lma and its checksum.
// The returned values are only valid in binaries built with module support.
func Version() (version, sum string) {
	b, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	return versionOf(b)
}

func versionOf(b *debug.BuildInfo) (version, sum string) {
	if b == nil {
		return "", ""
	}

	mods := append([]*debug.Module{&b.Main}, b.Deps...)
	for _, m := range mods {
		if m == nil || m.Path != modulePath {
			continue
		}
		if r := m.Replace; r != nil {
			switch {
			case r.Version != "" && r.Path != "":
				return fmt.Sprintf("%s %s", r.Path, r.Version), r.Sum
			case r.Version != "":
				return r.Version, r.Sum
			case r.Path != "":
				return r.Path, r.Sum
			}
			return m.Version + "*", ""
		}
		return m.Version, m.Sum
	}
	return "", ""
}
