// Copyright 2026 The Cardano-Go Authors
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

// Package kvmemory is an in-process, ordered-by-key fake of core/kv backed
// by google/btree, used by every store's unit tests so they don't need a
// real MDBX file on disk. It honors the same single-writer discipline as
// mdbxkv via an in-process mutex.
package kvmemory

import (
	"bytes"
	"context"
	"sync"

	"github.com/google/btree"

	"github.com/cardano-go/ledgerstate/core/kv"
)

type entry struct {
	k, v []byte
}

func (e *entry) Less(than btree.Item) bool {
	return bytes.Compare(e.k, than.(*entry).k) < 0
}

type table struct {
	tree *btree.BTree
}

type memDB struct {
	mu      sync.RWMutex
	writeMu sync.Mutex
	tables  map[string]*table
}

// New returns an empty in-memory DB with the given tables pre-registered.
func New(tables kv.TableCfg) kv.DB {
	m := &memDB{tables: make(map[string]*table, len(tables))}
	for name := range tables {
		m.tables[name] = &table{tree: btree.New(32)}
	}
	return m
}

func (m *memDB) View(ctx context.Context, f func(kv.Tx) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return f(&memTx{db: m})
}

func (m *memDB) Update(ctx context.Context, f func(kv.RwTx) error) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	m.mu.Lock()
	defer m.mu.Unlock()
	return f(&memTx{db: m, writable: true})
}

func (m *memDB) Close() error { return nil }

type memTx struct {
	db       *memDB
	writable bool
}

func (t *memTx) table(name string) *table {
	tb, ok := t.db.tables[name]
	if !ok {
		tb = &table{tree: btree.New(32)}
		t.db.tables[name] = tb
	}
	return tb
}

func (t *memTx) GetOne(table string, key []byte) ([]byte, error) {
	item := t.table(table).tree.Get(&entry{k: key})
	if item == nil {
		return nil, nil
	}
	return item.(*entry).v, nil
}

func (t *memTx) Has(table string, key []byte) (bool, error) {
	v, err := t.GetOne(table, key)
	return v != nil, err
}

func (t *memTx) Put(table string, k, v []byte) error {
	kk := append([]byte(nil), k...)
	vv := append([]byte(nil), v...)
	t.table(table).tree.ReplaceOrInsert(&entry{k: kk, v: vv})
	return nil
}

func (t *memTx) Delete(table string, k []byte) error {
	t.table(table).tree.Delete(&entry{k: k})
	return nil
}

func (t *memTx) Cursor(table string) (kv.Cursor, error) {
	return &memCursor{tree: t.table(table).tree}, nil
}

func (t *memTx) Commit() error { return nil }
func (t *memTx) Rollback()     {}

type memCursor struct {
	tree    *btree.BTree
	current *entry
}

func (c *memCursor) Seek(prefix []byte) ([]byte, []byte, error) {
	var found *entry
	c.tree.AscendGreaterOrEqual(&entry{k: prefix}, func(item btree.Item) bool {
		found = item.(*entry)
		return false
	})
	c.current = found
	if found == nil {
		return nil, nil, nil
	}
	return found.k, found.v, nil
}

func (c *memCursor) Next() ([]byte, []byte, error) {
	if c.current == nil {
		return nil, nil, nil
	}
	var next *entry
	seenCurrent := false
	c.tree.AscendGreaterOrEqual(c.current, func(item btree.Item) bool {
		e := item.(*entry)
		if !seenCurrent {
			seenCurrent = true
			return true
		}
		next = e
		return false
	})
	c.current = next
	if next == nil {
		return nil, nil, nil
	}
	return next.k, next.v, nil
}

func (c *memCursor) Close() {}
