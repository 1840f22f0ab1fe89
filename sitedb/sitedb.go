// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sitedb holds types to retrieve the surveyed sites of the LMA
// stations from the network conditions database.
package sitedb // import "github.com/go-lpc/lma/sitedb"

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/go-lpc/lma/raw"
)

const timeout = 5 * time.Second

var (
	drvName = "mysql"
)

// Site is the surveyed location of a station.
type Site struct {
	Station rune
	Lat     float64 // latitude (degrees)
	Lng     float64 // longitude (degrees)
	Alt     float64 // altitude (m)
	Delay   float64 // cable delay (ns)
}

// Geodetic returns the position of the site.
func (site Site) Geodetic() raw.Geodetic {
	return raw.Geodetic{Lat: site.Lat, Lng: site.Lng, Alt: site.Alt}
}

// DB exposes convenience methods to retrieve the station sites.
type DB struct {
	db *sql.DB
}

// Open opens a connection to the sites database described by dsn,
// e.g. "user:password@tcp(host)/lma".
func Open(dsn string) (*DB, error) {
	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sitedb: could not open db: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sitedb: could not ping db: %w", err)
	}

	return &DB{db: db}, nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

// Site returns the last surveyed site of the station.
func (db *DB) Site(ctx context.Context, station rune) (Site, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sites, err := db.query(ctx,
		"SELECT station, lat, lng, alt, delay FROM sites WHERE station=? ORDER BY datetime DESC LIMIT 1",
		string(station),
	)
	if err != nil {
		return Site{}, fmt.Errorf("sitedb: could not retrieve site of station %c: %w", station, err)
	}

	if len(sites) == 0 {
		return Site{}, fmt.Errorf("sitedb: no site for station %c", station)
	}

	return sites[0], nil
}

// Sites returns the sites of all the stations.
func (db *DB) Sites(ctx context.Context) ([]Site, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sites, err := db.query(ctx, "SELECT station, lat, lng, alt, delay FROM sites ORDER BY station")
	if err != nil {
		return nil, fmt.Errorf("sitedb: could not retrieve sites: %w", err)
	}
	return sites, nil
}

func (db *DB) query(ctx context.Context, query string, args ...interface{}) ([]Site, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not run query: %w", err)
	}
	defer rows.Close()

	var sites []Site
	for rows.Next() {
		var (
			site Site
			id   string
		)
		err = rows.Scan(&id, &site.Lat, &site.Lng, &site.Alt, &site.Delay)
		if err != nil {
			return nil, fmt.Errorf("could not scan row %d: %w", len(sites), err)
		}
		if len(id) != 1 {
			return nil, fmt.Errorf("invalid station identifier %q", id)
		}
		site.Station = rune(id[0])
		sites = append(sites, site)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not scan db: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	return sites, nil
}
