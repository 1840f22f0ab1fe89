// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sitedb

import (
	"context"
	"database/sql/driver"
	"testing"

	"github.com/go-lpc/lma/internal/fakedb"
	"github.com/google/go-cmp/cmp"
)

func init() {
	drvName = "fakedb"
}

func TestOpen(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open sitedb: %+v", err)
	}
	defer db.Close()
}

func TestSite(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open sitedb: %+v", err)
	}
	defer db.Close()

	_ = fakedb.Run(context.Background(), fakedb.Rows{
		Names: []string{"station", "lat", "lng", "alt", "delay"},
		Values: [][]driver.Value{
			{"K", 34.0, -106.9, 1500.5, 12.0},
		},
	}, func(ctx context.Context) error {
		site, err := db.Site(ctx, 'K')
		if err != nil {
			t.Fatalf("could not retrieve site: %+v", err)
		}

		want := Site{Station: 'K', Lat: 34.0, Lng: -106.9, Alt: 1500.5, Delay: 12.0}
		if diff := cmp.Diff(want, site); diff != "" {
			t.Fatalf("invalid site (-want +got):\n%s", diff)
		}

		args := fakedb.Args()
		if got, want := len(args), 1; got != want {
			t.Fatalf("invalid number of query args: got=%d, want=%d", got, want)
		}
		if got, want := args[0].Value, driver.Value("K"); got != want {
			t.Fatalf("invalid query arg: got=%v, want=%v", got, want)
		}
		return nil
	})
}

func TestSiteMissing(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open sitedb: %+v", err)
	}
	defer db.Close()

	_ = fakedb.Run(context.Background(), fakedb.Rows{
		Names: []string{"station", "lat", "lng", "alt", "delay"},
	}, func(ctx context.Context) error {
		_, err := db.Site(ctx, 'Z')
		if err == nil {
			t.Fatalf("expected an error")
		}
		if got, want := err.Error(), "sitedb: no site for station Z"; got != want {
			t.Fatalf("invalid error:\ngot= %q\nwant=%q", got, want)
		}
		return nil
	})
}

func TestSites(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open sitedb: %+v", err)
	}
	defer db.Close()

	for _, tc := range []struct {
		name string
		rows fakedb.Rows
		want []Site
		err  string
	}{
		{
			name: "two-sites",
			rows: fakedb.Rows{
				Names: []string{"station", "lat", "lng", "alt", "delay"},
				Values: [][]driver.Value{
					{"A", 34.1, -107.0, 1400.0, 0.0},
					{"B", 34.2, -106.8, 1700.0, 5.0},
				},
			},
			want: []Site{
				{Station: 'A', Lat: 34.1, Lng: -107.0, Alt: 1400.0},
				{Station: 'B', Lat: 34.2, Lng: -106.8, Alt: 1700.0, Delay: 5.0},
			},
		},
		{
			name: "invalid-station",
			rows: fakedb.Rows{
				Names: []string{"station", "lat", "lng", "alt", "delay"},
				Values: [][]driver.Value{
					{"AB", 34.1, -107.0, 1400.0, 0.0},
				},
			},
			err: `sitedb: could not retrieve sites: invalid station identifier "AB"`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_ = fakedb.Run(context.Background(), tc.rows, func(ctx context.Context) error {
				sites, err := db.Sites(ctx)
				switch {
				case err != nil && tc.err == "":
					t.Fatalf("could not retrieve sites: %+v", err)
				case err == nil && tc.err != "":
					t.Fatalf("expected an error: %s", tc.err)
				case err != nil:
					if got, want := err.Error(), tc.err; got != want {
						t.Fatalf("invalid error:\ngot= %q\nwant=%q", got, want)
					}
					return nil
				}
				if diff := cmp.Diff(tc.want, sites); diff != "" {
					t.Fatalf("invalid sites (-want +got):\n%s", diff)
				}
				return nil
			})
		})
	}
}
