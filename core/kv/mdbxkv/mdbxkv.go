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

// Package mdbxkv is the libmdbx-backed implementation of core/kv. It is the
// only DB implementation the daemon uses; an in-memory fake used by tests
// lives in core/kv/kvmemory.
package mdbxkv

import (
	"context"
	"fmt"
	"sync"

	"github.com/erigontech/mdbx-go/mdbx"

	"github.com/cardano-go/ledgerstate/core/kv"
)

// env wraps one mdbx.Env. Every logical store (wal, state, archive, index)
// opens its own env so that the single-writer discipline of each (spec §5)
// is enforced by MDBX itself rather than by an in-process mutex shared
// across unrelated stores.
type env struct {
	e       *mdbx.Env
	dbis    map[string]mdbx.DBI
	writeMu sync.Mutex
}

// Open creates or opens an MDBX environment at path with the given table
// set. cacheSizeMB sizes the memory map; 0 uses the backend default.
func Open(path string, tables kv.TableCfg, cacheSizeMB int) (kv.DB, error) {
	e, err := mdbx.NewEnv()
	if err != nil {
		return nil, fmt.Errorf("mdbxkv: new env: %w", err)
	}
	if err := e.SetOption(mdbx.OptMaxDB, uint64(len(tables)+8)); err != nil {
		return nil, fmt.Errorf("mdbxkv: set max dbs: %w", err)
	}
	if cacheSizeMB > 0 {
		sizeBytes := uint64(cacheSizeMB) * 1024 * 1024
		if err := e.SetGeometry(-1, -1, int(sizeBytes), -1, -1, -1); err != nil {
			return nil, fmt.Errorf("mdbxkv: set geometry: %w", err)
		}
	}
	if err := e.Open(path, mdbx.NoSubdir|mdbx.Coalesce|mdbx.LifoReclaim, 0644); err != nil {
		return nil, fmt.Errorf("mdbxkv: open %s: %w", path, err)
	}

	dbis := make(map[string]mdbx.DBI, len(tables))
	if err := e.Update(func(txn *mdbx.Txn) error {
		for name, flags := range tables {
			dbiFlags := mdbx.Create
			if flags&kv.DupSort != 0 {
				dbiFlags |= mdbx.DupSort
			}
			dbi, err := txn.OpenDBI(name, dbiFlags, nil, nil)
			if err != nil {
				return fmt.Errorf("open table %s: %w", name, err)
			}
			dbis[name] = dbi
		}
		return nil
	}); err != nil {
		e.Close()
		return nil, err
	}

	return &env{e: e, dbis: dbis}, nil
}

func (d *env) dbi(table string) (mdbx.DBI, error) {
	dbi, ok := d.dbis[table]
	if !ok {
		return 0, fmt.Errorf("mdbxkv: unknown table %q", table)
	}
	return dbi, nil
}

func (d *env) View(ctx context.Context, f func(kv.Tx) error) error {
	return d.e.View(func(txn *mdbx.Txn) error {
		return f(&tx{d: d, txn: txn})
	})
}

func (d *env) Update(ctx context.Context, f func(kv.RwTx) error) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	return d.e.Update(func(txn *mdbx.Txn) error {
		return f(&tx{d: d, txn: txn, writable: true})
	})
}

func (d *env) Close() error {
	d.e.Close()
	return nil
}

type tx struct {
	d        *env
	txn      *mdbx.Txn
	writable bool
}

func (t *tx) GetOne(table string, key []byte) ([]byte, error) {
	dbi, err := t.d.dbi(table)
	if err != nil {
		return nil, err
	}
	v, err := t.txn.Get(dbi, key)
	if mdbx.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	return v, nil
}

func (t *tx) Has(table string, key []byte) (bool, error) {
	v, err := t.GetOne(table, key)
	return v != nil, err
}

func (t *tx) Put(table string, k, v []byte) error {
	dbi, err := t.d.dbi(table)
	if err != nil {
		return err
	}
	if err := t.txn.Put(dbi, k, v, 0); err != nil {
		return fmt.Errorf("put %s: %w", table, err)
	}
	return nil
}

func (t *tx) Delete(table string, k []byte) error {
	dbi, err := t.d.dbi(table)
	if err != nil {
		return err
	}
	if err := t.txn.Del(dbi, k, nil); err != nil && !mdbx.IsNotFound(err) {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

func (t *tx) Cursor(table string) (kv.Cursor, error) {
	dbi, err := t.d.dbi(table)
	if err != nil {
		return nil, err
	}
	c, err := t.txn.OpenCursor(dbi)
	if err != nil {
		return nil, fmt.Errorf("open cursor %s: %w", table, err)
	}
	return &cursor{c: c}, nil
}

func (t *tx) Commit() error {
	if !t.writable {
		return nil
	}
	_, err := t.txn.Commit()
	return err
}

func (t *tx) Rollback() {
	t.txn.Abort()
}

type cursor struct {
	c        *mdbx.Cursor
	started  bool
	seekedTo []byte
}

func (c *cursor) Seek(prefix []byte) ([]byte, []byte, error) {
	k, v, err := c.c.Get(prefix, nil, mdbx.SetRange)
	if mdbx.IsNotFound(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	c.started = true
	return k, v, nil
}

func (c *cursor) Next() ([]byte, []byte, error) {
	k, v, err := c.c.Get(nil, nil, mdbx.Next)
	if mdbx.IsNotFound(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return k, v, nil
}

func (c *cursor) Close() {
	c.c.Close()
}
