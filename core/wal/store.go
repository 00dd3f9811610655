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

package wal

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/cardano-go/ledgerstate/core/kv"
	"github.com/cardano-go/ledgerstate/core/ledgererror"
	"github.com/cardano-go/ledgerstate/core/types"
)

const component = "wal"

// Store is the append-only log of chain points a ledger has observed, plus
// the indexes needed to locate a point and to find the current tip/start
// without scanning. One Store owns one kv.DB; callers never write to that
// DB through any other path (spec §4.2 "the WAL is the single entry point
// for all chain-state mutation").
type Store struct {
	db kv.DB

	mu    sync.Mutex
	tipCh chan struct{}
}

// Open attaches a Store to db, which must already have Tables() registered.
func Open(db kv.DB) *Store {
	return &Store{db: db, tipCh: make(chan struct{})}
}

func seqKey(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func decodeSeqKey(b []byte) uint64 { return binary.BigEndian.Uint64(b) }

func pointKey(p types.ChainPoint) []byte {
	b := make([]byte, 40)
	binary.BigEndian.PutUint64(b[:8], uint64(p.Augmented()+1))
	copy(b[8:], p.Hash[:])
	return b
}

// notifyTipLocked closes the current tip channel (waking every WatchTip
// caller) and installs a fresh one. Caller must hold mu.
func (s *Store) notifyTipLocked() {
	close(s.tipCh)
	s.tipCh = make(chan struct{})
}

// WatchTip returns a channel that closes the next time the tip changes
// (Append or ResetTo). Callers re-invoke WatchTip after each wakeup to
// keep watching; this is the classic broadcast-by-closing-a-channel
// pattern, so a slow consumer can never block a writer.
func (s *Store) WatchTip() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tipCh
}

func (s *Store) readMetaSeq(tx kv.Tx, key []byte) (seq uint64, found bool, err error) {
	b, err := tx.GetOne(TableMeta, key)
	if err != nil {
		return 0, false, ledgererror.Wrap(component, ledgererror.KindWal, "read meta", err)
	}
	if b == nil {
		return 0, false, nil
	}
	return decodeSeqKey(b), true, nil
}

// Append writes the next record after the current tip (or the first
// record, if the log is empty) and returns its sequence number.
func (s *Store) Append(ctx context.Context, point types.ChainPoint, value LogValue) (uint64, error) {
	var seq uint64
	err := s.db.Update(ctx, func(tx kv.RwTx) error {
		tip, found, err := s.readMetaSeq(tx, metaKeyTip)
		if err != nil {
			return err
		}
		if found {
			seq = tip + 1
		} else {
			seq = 0
		}
		rec := Record{Sequence: seq, Point: point, Value: value}
		eb, err := encodeRecord(rec)
		if err != nil {
			return err
		}
		if err := tx.Put(TableLog, seqKey(seq), eb); err != nil {
			return ledgererror.Wrap(component, ledgererror.KindWal, "put log", err)
		}
		if err := tx.Put(TableByPoint, pointKey(point), seqKey(seq)); err != nil {
			return ledgererror.Wrap(component, ledgererror.KindWal, "put by-point index", err)
		}
		if err := tx.Put(TableMeta, metaKeyTip, seqKey(seq)); err != nil {
			return ledgererror.Wrap(component, ledgererror.KindWal, "put tip", err)
		}
		if !found {
			if err := tx.Put(TableMeta, metaKeyStart, seqKey(seq)); err != nil {
				return ledgererror.Wrap(component, ledgererror.KindWal, "put start", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	s.notifyTipLocked()
	s.mu.Unlock()
	return seq, nil
}

// IterFrom calls fn for every record with Sequence >= from, in increasing
// order, until fn returns false or an error, or the log is exhausted.
func (s *Store) IterFrom(ctx context.Context, from uint64, fn func(Record) (bool, error)) error {
	return s.db.View(ctx, func(tx kv.Tx) error {
		c, err := tx.Cursor(TableLog)
		if err != nil {
			return ledgererror.Wrap(component, ledgererror.KindWal, "open cursor", err)
		}
		defer c.Close()
		k, v, err := c.Seek(seqKey(from))
		if err != nil {
			return ledgererror.Wrap(component, ledgererror.KindWal, "seek", err)
		}
		for k != nil {
			rec, err := decodeRecord(v)
			if err != nil {
				return err
			}
			cont, err := fn(rec)
			if err != nil || !cont {
				return err
			}
			k, v, err = c.Next()
			if err != nil {
				return ledgererror.Wrap(component, ledgererror.KindWal, "next", err)
			}
		}
		return nil
	})
}

// IterRange calls fn for every record with from <= Sequence <= to.
func (s *Store) IterRange(ctx context.Context, from, to uint64, fn func(Record) error) error {
	return s.IterFrom(ctx, from, func(r Record) (bool, error) {
		if r.Sequence > to {
			return false, nil
		}
		if err := fn(r); err != nil {
			return false, err
		}
		return true, nil
	})
}

// LocatePoint returns the sequence of the record at point, if any.
func (s *Store) LocatePoint(ctx context.Context, point types.ChainPoint) (seq uint64, found bool, err error) {
	err = s.db.View(ctx, func(tx kv.Tx) error {
		b, e := tx.GetOne(TableByPoint, pointKey(point))
		if e != nil {
			return ledgererror.Wrap(component, ledgererror.KindWal, "get by-point", e)
		}
		if b == nil {
			return nil
		}
		seq = decodeSeqKey(b)
		found = true
		return nil
	})
	return seq, found, err
}

// FindTip returns the most recently appended record.
func (s *Store) FindTip(ctx context.Context) (Record, bool, error) {
	return s.findMeta(ctx, metaKeyTip)
}

// FindStart returns the oldest record still retained.
func (s *Store) FindStart(ctx context.Context) (Record, bool, error) {
	return s.findMeta(ctx, metaKeyStart)
}

func (s *Store) findMeta(ctx context.Context, key []byte) (Record, bool, error) {
	var rec Record
	var found bool
	err := s.db.View(ctx, func(tx kv.Tx) error {
		seq, ok, err := s.readMetaSeq(tx, key)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		b, err := tx.GetOne(TableLog, seqKey(seq))
		if err != nil {
			return ledgererror.Wrap(component, ledgererror.KindWal, "get log", err)
		}
		if b == nil {
			return ledgererror.New(component, ledgererror.KindInvariantViolation, "meta points at missing record")
		}
		rec, err = decodeRecord(b)
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return rec, found, err
}

// TruncateFront deletes every record with Sequence < keepFrom, advancing
// "start". Nothing in the daemon calls it, so max_ledger_history does not
// bound the retained WAL.
func (s *Store) TruncateFront(ctx context.Context, keepFrom uint64) error {
	return s.db.Update(ctx, func(tx kv.RwTx) error {
		c, err := tx.Cursor(TableLog)
		if err != nil {
			return ledgererror.Wrap(component, ledgererror.KindWal, "open cursor", err)
		}
		defer c.Close()
		k, v, err := c.Seek(nil)
		if err != nil {
			return ledgererror.Wrap(component, ledgererror.KindWal, "seek", err)
		}
		var last uint64
		var any bool
		for k != nil {
			seq := decodeSeqKey(k)
			if seq >= keepFrom {
				break
			}
			rec, err := decodeRecord(v)
			if err != nil {
				return err
			}
			if err := tx.Delete(TableLog, k); err != nil {
				return ledgererror.Wrap(component, ledgererror.KindWal, "delete log", err)
			}
			if err := tx.Delete(TableByPoint, pointKey(rec.Point)); err != nil {
				return ledgererror.Wrap(component, ledgererror.KindWal, "delete by-point", err)
			}
			last = seq
			any = true
			k, v, err = c.Next()
			if err != nil {
				return ledgererror.Wrap(component, ledgererror.KindWal, "next", err)
			}
		}
		if any {
			_ = last
			if err := tx.Put(TableMeta, metaKeyStart, seqKey(keepFrom)); err != nil {
				return ledgererror.Wrap(component, ledgererror.KindWal, "put start", err)
			}
		}
		return nil
	})
}

// ResetTo deletes every record with Sequence > seq and moves the tip back
// to seq. Used by ledgerd doctor rebuild-stores; Engine.Rollback does not
// truncate the WAL but appends Undo and Mark records.
func (s *Store) ResetTo(ctx context.Context, seq uint64) error {
	err := s.db.Update(ctx, func(tx kv.RwTx) error {
		c, err := tx.Cursor(TableLog)
		if err != nil {
			return ledgererror.Wrap(component, ledgererror.KindWal, "open cursor", err)
		}
		defer c.Close()
		k, v, err := c.Seek(seqKey(seq + 1))
		if err != nil {
			return ledgererror.Wrap(component, ledgererror.KindWal, "seek", err)
		}
		for k != nil {
			rec, err := decodeRecord(v)
			if err != nil {
				return err
			}
			if err := tx.Delete(TableLog, k); err != nil {
				return ledgererror.Wrap(component, ledgererror.KindWal, "delete log", err)
			}
			if err := tx.Delete(TableByPoint, pointKey(rec.Point)); err != nil {
				return ledgererror.Wrap(component, ledgererror.KindWal, "delete by-point", err)
			}
			k, v, err = c.Next()
			if err != nil {
				return ledgererror.Wrap(component, ledgererror.KindWal, "next", err)
			}
		}
		return tx.Put(TableMeta, metaKeyTip, seqKey(seq))
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.notifyTipLocked()
	s.mu.Unlock()
	return nil
}
