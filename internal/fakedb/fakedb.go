// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fakedb registers an in-memory database/sql driver, named "fakedb",
// that replays canned rows for every query.
package fakedb // import "github.com/go-lpc/lma/internal/fakedb"

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"sync"
)

var query struct {
	mu   sync.Mutex
	rows Rows
	args []driver.NamedValue
}

// Run runs f while every query returns a copy of rows.
func Run(ctx context.Context, rows Rows, f func(ctx context.Context) error) error {
	query.mu.Lock()
	defer query.mu.Unlock()
	query.rows = rows
	query.args = nil

	return f(ctx)
}

// Args returns the arguments of the last query run under Run.
// Args must be called from within the function passed to Run.
func Args() []driver.NamedValue {
	return query.args
}

func init() {
	sql.Register("fakedb", &Driver{})
}

type Driver struct{}

func (drv *Driver) Open(name string) (driver.Conn, error) {
	return &Conn{}, nil
}

type Conn struct{}

func (c *Conn) Prepare(query string) (driver.Stmt, error) {
	return &Stmt{}, nil
}

func (c *Conn) Close() error {
	return nil
}

func (c *Conn) Begin() (driver.Tx, error) {
	return nil, errors.New("fakedb: transactions not supported")
}

type Stmt struct{}

func (stmt *Stmt) Close() error {
	return nil
}

// NumInput returns -1: placeholders are not checked.
func (stmt *Stmt) NumInput() int {
	return -1
}

func (stmt *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	return nil, errors.New("fakedb: exec not supported")
}

func (stmt *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	nvs := make([]driver.NamedValue, len(args))
	for i, v := range args {
		nvs[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return stmt.QueryContext(context.Background(), nvs)
}

func (stmt *Stmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query.args = args
	rows := &Rows{
		Names:  query.rows.Names,
		Values: append([][]driver.Value(nil), query.rows.Values...),
	}
	return rows, nil
}

// Rows holds the column names and values returned by a query.
type Rows struct {
	Names  []string
	Values [][]driver.Value
}

func (rows *Rows) Columns() []string {
	return rows.Names
}

func (rows *Rows) Close() error {
	return nil
}

func (rows *Rows) Next(dest []driver.Value) error {
	if len(rows.Values) == 0 {
		return io.EOF
	}
	copy(dest, rows.Values[0])
	rows.Values = rows.Values[1:]
	return nil
}

var (
	_ driver.Driver           = (*Driver)(nil)
	_ driver.Conn             = (*Conn)(nil)
	_ driver.Stmt             = (*Stmt)(nil)
	_ driver.StmtQueryContext = (*Stmt)(nil)
	_ driver.Rows             = (*Rows)(nil)
)
