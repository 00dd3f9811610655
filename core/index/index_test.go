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
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardano-go/ledgerstate/core/kv"
	"github.com/cardano-go/ledgerstate/core/kv/kvmemory"
	"github.com/cardano-go/ledgerstate/core/types"
)

func newTestDB(t *testing.T) kv.DB {
	t.Helper()
	return kvmemory.New(Tables())
}

func TestUTxOIndexPutQueryDelete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	addr := []byte("addr1abc")
	var h types.TxHash
	h[0] = 1
	ref := types.TxORef{TxHash: h, Index: 0}

	err := db.Update(ctx, func(tx kv.RwTx) error {
		return PutUTxOIndex(tx, DimAddress, addr, ref)
	})
	require.NoError(t, err)

	var got []types.TxORef
	err = db.View(ctx, func(tx kv.Tx) error {
		return QueryUTxOIndex(tx, DimAddress, addr, func(r types.TxORef) (bool, error) {
			got = append(got, r)
			return true, nil
		})
	})
	require.NoError(t, err)
	require.Equal(t, []types.TxORef{ref}, got)

	err = db.Update(ctx, func(tx kv.RwTx) error {
		return DeleteUTxOIndex(tx, DimAddress, addr, ref)
	})
	require.NoError(t, err)

	got = nil
	err = db.View(ctx, func(tx kv.Tx) error {
		return QueryUTxOIndex(tx, DimAddress, addr, func(r types.TxORef) (bool, error) {
			got = append(got, r)
			return true, nil
		})
	})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestUTxOIndexDisjointAcrossDimensions(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	key := []byte("shared-key")
	var h types.TxHash
	h[0] = 2
	ref := types.TxORef{TxHash: h, Index: 1}

	err := db.Update(ctx, func(tx kv.RwTx) error {
		return PutUTxOIndex(tx, DimPayment, key, ref)
	})
	require.NoError(t, err)

	var got []types.TxORef
	err = db.View(ctx, func(tx kv.Tx) error {
		return QueryUTxOIndex(tx, DimStake, key, func(r types.TxORef) (bool, error) {
			got = append(got, r)
			return true, nil
		})
	})
	require.NoError(t, err)
	require.Empty(t, got, "same lookup key under a different dimension must not match")
}

func TestArchiveIndexOrdersBySlot(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	key := []byte("label-721")

	for _, slot := range []uint64{30, 10, 20} {
		err := db.Update(ctx, func(tx kv.RwTx) error {
			return PutArchiveIndex(tx, DimMetadataLabel, key, slot)
		})
		require.NoError(t, err)
	}

	var slots []uint64
	err := db.View(ctx, func(tx kv.Tx) error {
		return QueryArchiveIndex(tx, DimMetadataLabel, key, func(slot uint64) (bool, error) {
			slots = append(slots, slot)
			return true, nil
		})
	})
	require.NoError(t, err)
	require.Equal(t, []uint64{10, 20, 30}, slots)
}

func TestWriterRejectsWrongClass(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	var h types.TxHash
	ref := types.TxORef{TxHash: h, Index: 0}

	err := db.Update(ctx, func(tx kv.RwTx) error {
		w := NewWriter(tx)
		return w.IndexOutput(ref, []Entry{{Dim: DimSpentTxO, LookupKey: []byte("x")}})
	})
	require.Error(t, err)

	err = db.Update(ctx, func(tx kv.RwTx) error {
		w := NewWriter(tx)
		return w.IndexTx(1, []Entry{{Dim: DimAddress, LookupKey: []byte("x")}})
	})
	require.Error(t, err)
}

func TestWriterIndexAndUnindexOutput(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	var h types.TxHash
	h[0] = 5
	ref := types.TxORef{TxHash: h, Index: 0}
	entries := []Entry{
		{Dim: DimAddress, LookupKey: []byte("addr")},
		{Dim: DimScriptHash, LookupKey: []byte("script")},
	}

	err := db.Update(ctx, func(tx kv.RwTx) error {
		return NewWriter(tx).IndexOutput(ref, entries)
	})
	require.NoError(t, err)

	err = db.View(ctx, func(tx kv.Tx) error {
		var found bool
		err := QueryUTxOIndex(tx, DimScriptHash, []byte("script"), func(r types.TxORef) (bool, error) {
			found = true
			return true, nil
		})
		require.NoError(t, err)
		require.True(t, found)
		return nil
	})
	require.NoError(t, err)

	err = db.Update(ctx, func(tx kv.RwTx) error {
		return NewWriter(tx).UnindexOutput(ref, entries)
	})
	require.NoError(t, err)

	err = db.View(ctx, func(tx kv.Tx) error {
		var found bool
		err := QueryUTxOIndex(tx, DimScriptHash, []byte("script"), func(r types.TxORef) (bool, error) {
			found = true
			return true, nil
		})
		require.NoError(t, err)
		require.False(t, found)
		return nil
	})
	require.NoError(t, err)
}
