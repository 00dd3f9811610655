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

package index

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/cardano-go/ledgerstate/core/kv"
	"github.com/cardano-go/ledgerstate/core/ledgererror"
)

func archiveIndexKey(d Dimension, lookupKey []byte, slot uint64) []byte {
	b := make([]byte, 24)
	binary.BigEndian.PutUint64(b[:8], dimHash(d))
	binary.BigEndian.PutUint64(b[8:16], xxhash.Sum64(lookupKey))
	binary.BigEndian.PutUint64(b[16:], slot)
	return b
}

func archiveIndexPrefix(d Dimension, lookupKey []byte) []byte {
	b := make([]byte, 16)
	binary.BigEndian.PutUint64(b[:8], dimHash(d))
	binary.BigEndian.PutUint64(b[8:], xxhash.Sum64(lookupKey))
	return b
}

// PutArchiveIndex records that slot contains a transaction matching
// (d, lookupKey).
func PutArchiveIndex(tx kv.RwTx, d Dimension, lookupKey []byte, slot uint64) error {
	if err := tx.Put(TableArchiveIndex, archiveIndexKey(d, lookupKey, slot), nil); err != nil {
		return ledgererror.Wrap(component, ledgererror.KindIndex, "put archive index", err)
	}
	return nil
}

// DeleteArchiveIndex removes a previously recorded match.
func DeleteArchiveIndex(tx kv.RwTx, d Dimension, lookupKey []byte, slot uint64) error {
	if err := tx.Delete(TableArchiveIndex, archiveIndexKey(d, lookupKey, slot)); err != nil {
		return ledgererror.Wrap(component, ledgererror.KindIndex, "delete archive index", err)
	}
	return nil
}

// QueryArchiveIndex calls fn for every slot matching (d, lookupKey), in
// increasing slot order.
func QueryArchiveIndex(tx kv.Tx, d Dimension, lookupKey []byte, fn func(slot uint64) (bool, error)) error {
	prefix := archiveIndexPrefix(d, lookupKey)
	c, err := tx.Cursor(TableArchiveIndex)
	if err != nil {
		return ledgererror.Wrap(component, ledgererror.KindIndex, "open cursor", err)
	}
	defer c.Close()

	k, _, err := c.Seek(prefix)
	if err != nil {
		return ledgererror.Wrap(component, ledgererror.KindIndex, "seek", err)
	}
	for k != nil && bytes.HasPrefix(k, prefix) {
		slot := binary.BigEndian.Uint64(k[16:])
		cont, err := fn(slot)
		if err != nil || !cont {
			return err
		}
		k, _, err = c.Next()
		if err != nil {
			return ledgererror.Wrap(component, ledgererror.KindIndex, "next", err)
		}
	}
	return nil
}
