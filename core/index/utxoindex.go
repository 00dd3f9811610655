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
	"github.com/cardano-go/ledgerstate/core/types"
)

const component = "index"

func dimHash(d Dimension) uint64 {
	return xxhash.Sum64String(d.String())
}

func utxoIndexKey(d Dimension, lookupKey []byte, ref types.TxORef) []byte {
	refB := ref.Bytes()
	b := make([]byte, 8+len(lookupKey)+36)
	binary.BigEndian.PutUint64(b[:8], dimHash(d))
	copy(b[8:8+len(lookupKey)], lookupKey)
	copy(b[8+len(lookupKey):], refB[:])
	return b
}

func utxoIndexPrefix(d Dimension, lookupKey []byte) []byte {
	b := make([]byte, 8+len(lookupKey))
	binary.BigEndian.PutUint64(b[:8], dimHash(d))
	copy(b[8:], lookupKey)
	return b
}

// PutUTxOIndex records that ref matches (d, lookupKey).
func PutUTxOIndex(tx kv.RwTx, d Dimension, lookupKey []byte, ref types.TxORef) error {
	if err := tx.Put(TableUTxoIndex, utxoIndexKey(d, lookupKey, ref), nil); err != nil {
		return ledgererror.Wrap(component, ledgererror.KindIndex, "put utxo index", err)
	}
	return nil
}

// DeleteUTxOIndex removes a previously recorded match.
func DeleteUTxOIndex(tx kv.RwTx, d Dimension, lookupKey []byte, ref types.TxORef) error {
	if err := tx.Delete(TableUTxoIndex, utxoIndexKey(d, lookupKey, ref)); err != nil {
		return ledgererror.Wrap(component, ledgererror.KindIndex, "delete utxo index", err)
	}
	return nil
}

// QueryUTxOIndex calls fn for every TxORef matching (d, lookupKey).
func QueryUTxOIndex(tx kv.Tx, d Dimension, lookupKey []byte, fn func(types.TxORef) (bool, error)) error {
	prefix := utxoIndexPrefix(d, lookupKey)
	c, err := tx.Cursor(TableUTxoIndex)
	if err != nil {
		return ledgererror.Wrap(component, ledgererror.KindIndex, "open cursor", err)
	}
	defer c.Close()

	k, _, err := c.Seek(prefix)
	if err != nil {
		return ledgererror.Wrap(component, ledgererror.KindIndex, "seek", err)
	}
	for k != nil && bytes.HasPrefix(k, prefix) {
		refBytes := k[len(prefix):]
		ref, err := types.ParseTxORef(refBytes)
		if err != nil {
			return ledgererror.Wrap(component, ledgererror.KindDecoding, "parse txo ref", err)
		}
		cont, err := fn(ref)
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
