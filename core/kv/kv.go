// Copyright 2024 The Erigon Authors
// (original work)
// Copyright 2026 The Cardano-Go Authors
// (ledger-state adaptation)
// This file is part of ledgerstate.
//
// ledgerstate is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ledgerstate is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with ledgerstate. If not, see <http://www.gnu.org/licenses/>.

// Package kv is the storage-neutral contract the WAL, state, archive and
// index stores are all built on. It exists so every store can be tested
// against an in-memory fake without pulling in libmdbx, and so the on-disk
// engine can be swapped without touching store logic.
package kv

import "context"

// TableCfg declares the set of named tables (MDBX DBIs) a store opens, plus
// whether a table allows duplicate keys (DupSort). Stores hand their
// TableCfg to the backend at construction time (an Opener, or
// kvmemory.New in tests).
type TableCfg map[string]TableFlags

type TableFlags uint

const (
	Default TableFlags = 0
	DupSort TableFlags = 1 << iota
)

// Cursor iterates a table in key order, starting from Seek's prefix.
type Cursor interface {
	// Seek positions the cursor at the first key >= prefix and returns it.
	// A nil prefix seeks to the first key in the table. Returns (nil, nil,
	// nil) past the end.
	Seek(prefix []byte) (k, v []byte, err error)
	// Next advances the cursor. Returns (nil, nil, nil) past the end.
	Next() (k, v []byte, err error)
	Close()
}

// Tx is a read-only view, consistent for its lifetime regardless of
// concurrent writers (MDBX MVCC semantics).
type Tx interface {
	GetOne(table string, key []byte) ([]byte, error)
	Has(table string, key []byte) (bool, error)
	Cursor(table string) (Cursor, error)
	// Commit releases a read transaction's snapshot. Read transactions
	// never mutate state, but must still be explicitly released.
	Commit() error
	Rollback()
}

// RwTx is the single writer transaction live at any one time per DB.
type RwTx interface {
	Tx
	Put(table string, k, v []byte) error
	Delete(table string, k []byte) error
}

// DB is one logical store's handle onto its backing MDBX environment.
type DB interface {
	// View opens a read-only Tx for the duration of f.
	View(ctx context.Context, f func(Tx) error) error
	// Update opens the single RwTx for the duration of f. Callers must not
	// call Update concurrently from two goroutines against the same DB;
	// the backend enforces this with its own writer mutex.
	Update(ctx context.Context, f func(RwTx) error) error
	Close() error
}

// Opener constructs a DB backed by a directory on disk, with the supplied
// table configuration pre-registered. cacheSizeMB is a hint forwarded to
// the backend's page-cache / map-size configuration (spec's
// `cache_size_mb` option).
type Opener func(path string, tables TableCfg, cacheSizeMB int) (DB, error)
