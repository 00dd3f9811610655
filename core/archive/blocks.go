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
	"encoding/binary"

	"github.com/cardano-go/ledgerstate/core/kv"
	"github.com/cardano-go/ledgerstate/core/ledgererror"
	"github.com/cardano-go/ledgerstate/core/types"
)

func blockKey(p types.ChainPoint) []byte {
	b := make([]byte, 40)
	binary.BigEndian.PutUint64(b[:8], p.Slot)
	copy(b[8:], p.Hash[:])
	return b
}

// PutBlock stores a block's raw CBOR bytes at its chain point, compressing
// when compress is true. Blocks are never overwritten once written; callers
// that re-apply the same point (shouldn't happen outside tests) will
// simply replace the bytes, since MDBX Put is an upsert.
func PutBlock(tx kv.RwTx, point types.ChainPoint, rawCBOR []byte, compress bool) error {
	stored, err := compressBlock(rawCBOR, compress)
	if err != nil {
		return err
	}
	if err := tx.Put(TableBlocks, blockKey(point), stored); err != nil {
		return ledgererror.Wrap(component, ledgererror.KindArchive, "put block", err)
	}
	return nil
}

// GetBlock returns the decompressed raw CBOR bytes at point, if present.
func GetBlock(tx kv.Tx, point types.ChainPoint) ([]byte, bool, error) {
	raw, err := tx.GetOne(TableBlocks, blockKey(point))
	if err != nil {
		return nil, false, ledgererror.Wrap(component, ledgererror.KindArchive, "get block", err)
	}
	if raw == nil {
		return nil, false, nil
	}
	body, err := decompressBlock(raw)
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

// DeleteBlock removes a block's bytes, used only by TruncateBlocksFrom and
// by rollback's block-undo path.
func DeleteBlock(tx kv.RwTx, point types.ChainPoint) error {
	if err := tx.Delete(TableBlocks, blockKey(point)); err != nil {
		return ledgererror.Wrap(component, ledgererror.KindArchive, "delete block", err)
	}
	return nil
}

// IterBlocksFrom calls fn for every block with slot >= fromSlot, in
// increasing (slot, hash) order, until fn returns false or an error.
func IterBlocksFrom(tx kv.Tx, fromSlot uint64, fn func(point types.ChainPoint, rawCBOR []byte) (bool, error)) error {
	prefix := make([]byte, 8)
	binary.BigEndian.PutUint64(prefix, fromSlot)

	c, err := tx.Cursor(TableBlocks)
	if err != nil {
		return ledgererror.Wrap(component, ledgererror.KindArchive, "open cursor", err)
	}
	defer c.Close()

	k, v, err := c.Seek(prefix)
	if err != nil {
		return ledgererror.Wrap(component, ledgererror.KindArchive, "seek", err)
	}
	for k != nil {
		point := decodeBlockKey(k)
		body, err := decompressBlock(v)
		if err != nil {
			return err
		}
		cont, err := fn(point, body)
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

func decodeBlockKey(k []byte) types.ChainPoint {
	slot := binary.BigEndian.Uint64(k[:8])
	var hash types.TxHash
	copy(hash[:], k[8:])
	return types.SpecificPoint(slot, hash)
}

// TruncateBlocksFrom deletes every block with slot >= fromSlot, used by
// ledgerd doctor rebuild-stores when it resets the archive to a chain
// point.
func TruncateBlocksFrom(tx kv.RwTx, fromSlot uint64) error {
	prefix := make([]byte, 8)
	binary.BigEndian.PutUint64(prefix, fromSlot)

	c, err := tx.Cursor(TableBlocks)
	if err != nil {
		return ledgererror.Wrap(component, ledgererror.KindArchive, "open cursor", err)
	}
	defer c.Close()

	var keys [][]byte
	k, _, err := c.Seek(prefix)
	if err != nil {
		return ledgererror.Wrap(component, ledgererror.KindArchive, "seek", err)
	}
	for k != nil {
		keys = append(keys, append([]byte(nil), k...))
		k, _, err = c.Next()
		if err != nil {
			return ledgererror.Wrap(component, ledgererror.KindArchive, "next", err)
		}
	}
	for _, kk := range keys {
		if err := tx.Delete(TableBlocks, kk); err != nil {
			return ledgererror.Wrap(component, ledgererror.KindArchive, "delete block", err)
		}
	}
	return nil
}
