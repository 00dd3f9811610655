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

package archive

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/cardano-go/ledgerstate/core/kv"
	"github.com/cardano-go/ledgerstate/core/ledgererror"
	"github.com/cardano-go/ledgerstate/core/types"
)

// LogEntry is one historical record, retained even after statestore's
// current view moves past it. Payload is the bytes the writer handed to
// AppendLog; core/boundary stores CBOR-encoded EpochState and RewardLog
// values here, and readers decode them with the type they expect.
type LogEntry struct {
	Slot    uint64
	Payload []byte
}

func logKey(ns types.Namespace, key types.EntityKey, slot uint64) []byte {
	b := make([]byte, 48)
	binary.BigEndian.PutUint64(b[:8], xxhash.Sum64String(string(ns)))
	binary.BigEndian.PutUint64(b[8:16], slot)
	copy(b[16:], key[:])
	return b
}

func logNamespacePrefix(ns types.Namespace) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, xxhash.Sum64String(string(ns)))
	return b
}

// AppendLog records one historical delta application for (ns, key) at slot.
func AppendLog(tx kv.RwTx, ns types.Namespace, key types.EntityKey, slot uint64, payload []byte) error {
	if err := tx.Put(TableLogs, logKey(ns, key, slot), payload); err != nil {
		return ledgererror.Wrap(component, ledgererror.KindArchive, "put log", err)
	}
	return nil
}

// DeleteLog removes the single log entry at (ns, key, slot), used by undo.
func DeleteLog(tx kv.RwTx, ns types.Namespace, key types.EntityKey, slot uint64) error {
	if err := tx.Delete(TableLogs, logKey(ns, key, slot)); err != nil {
		return ledgererror.Wrap(component, ledgererror.KindArchive, "delete log", err)
	}
	return nil
}

// IterEntityLogs calls fn for every log entry recorded against (ns, key),
// in increasing slot order.
func IterEntityLogs(tx kv.Tx, ns types.Namespace, key types.EntityKey, fn func(LogEntry) (bool, error)) error {
	prefix := logNamespacePrefix(ns)
	c, err := tx.Cursor(TableLogs)
	if err != nil {
		return ledgererror.Wrap(component, ledgererror.KindArchive, "open cursor", err)
	}
	defer c.Close()

	from := make([]byte, 48)
	copy(from, prefix)
	copy(from[16:], key[:])
	k, v, err := c.Seek(from)
	if err != nil {
		return ledgererror.Wrap(component, ledgererror.KindArchive, "seek", err)
	}
	// Keys are ordered by slot before entity key, so other entities' entries
	// interleave with this one's; skip them rather than stopping.
	for k != nil && bytes.HasPrefix(k, prefix) {
		if bytes.Equal(k[16:], key[:]) {
			slot := binary.BigEndian.Uint64(k[8:16])
			cont, err := fn(LogEntry{Slot: slot, Payload: v})
			if err != nil || !cont {
				return err
			}
		}
		k, v, err = c.Next()
		if err != nil {
			return ledgererror.Wrap(component, ledgererror.KindArchive, "next", err)
		}
	}
	return nil
}

// IterNamespaceRange calls fn for every log entry in ns with
// fromSlot <= slot <= toSlot, across all entities, in (slot, key) order as
// stored.
func IterNamespaceRange(tx kv.Tx, ns types.Namespace, fromSlot, toSlot uint64, fn func(key types.EntityKey, entry LogEntry) (bool, error)) error {
	prefix := logNamespacePrefix(ns)
	c, err := tx.Cursor(TableLogs)
	if err != nil {
		return ledgererror.Wrap(component, ledgererror.KindArchive, "open cursor", err)
	}
	defer c.Close()

	from := make([]byte, 16)
	copy(from, prefix)
	binary.BigEndian.PutUint64(from[8:], fromSlot)
	k, v, err := c.Seek(from)
	if err != nil {
		return ledgererror.Wrap(component, ledgererror.KindArchive, "seek", err)
	}
	for k != nil && bytes.HasPrefix(k, prefix) {
		slot := binary.BigEndian.Uint64(k[8:16])
		if slot > toSlot {
			break
		}
		var ek types.EntityKey
		copy(ek[:], k[16:])
		cont, err := fn(ek, LogEntry{Slot: slot, Payload: v})
		if err != nil || !cont {
			return err
		}
		k, v, err = c.Next()
		if err != nil {
			return ledgererror.Wrap(component, ledgererror.KindArchive, "next", err)
		}
	}
	return nil
}
