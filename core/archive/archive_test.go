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
	"context"
	"strings"
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

func TestPutGetBlockRoundTripsCompressed(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	var h types.TxHash
	h[0] = 3
	point := types.SpecificPoint(42, h)
	body := []byte(strings.Repeat("block-body", 50))

	err := db.Update(ctx, func(tx kv.RwTx) error {
		return PutBlock(tx, point, body, true)
	})
	require.NoError(t, err)

	err = db.View(ctx, func(tx kv.Tx) error {
		got, found, err := GetBlock(tx, point)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, body, got)
		return nil
	})
	require.NoError(t, err)
}

func TestPutGetBlockRoundTripsUncompressed(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	var h types.TxHash
	h[0] = 4
	point := types.SpecificPoint(7, h)
	body := []byte("small block")

	err := db.Update(ctx, func(tx kv.RwTx) error {
		return PutBlock(tx, point, body, false)
	})
	require.NoError(t, err)

	err = db.View(ctx, func(tx kv.Tx) error {
		got, found, err := GetBlock(tx, point)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, body, got)
		return nil
	})
	require.NoError(t, err)
}

func TestIterBlocksFromOrdersBySlot(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	for i := uint64(0); i < 5; i++ {
		var h types.TxHash
		h[0] = byte(i)
		p := types.SpecificPoint(i*10, h)
		err := db.Update(ctx, func(tx kv.RwTx) error {
			return PutBlock(tx, p, []byte{byte(i)}, false)
		})
		require.NoError(t, err)
	}

	var slots []uint64
	err := db.View(ctx, func(tx kv.Tx) error {
		return IterBlocksFrom(tx, 20, func(point types.ChainPoint, raw []byte) (bool, error) {
			slots = append(slots, point.Slot)
			return true, nil
		})
	})
	require.NoError(t, err)
	require.Equal(t, []uint64{20, 30, 40}, slots)
}

func TestAppendAndIterEntityLogs(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	key := types.CredentialKey(types.Credential{9})

	for _, slot := range []uint64{5, 10, 15} {
		err := db.Update(ctx, func(tx kv.RwTx) error {
			return AppendLog(tx, types.NSAccounts, key, slot, []byte{byte(slot)})
		})
		require.NoError(t, err)
	}

	var got []uint64
	err := db.View(ctx, func(tx kv.Tx) error {
		return IterEntityLogs(tx, types.NSAccounts, key, func(e LogEntry) (bool, error) {
			got = append(got, e.Slot)
			return true, nil
		})
	})
	require.NoError(t, err)
	require.Equal(t, []uint64{5, 10, 15}, got)
}

func TestIterNamespaceRangeBoundsBySlot(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	k1 := types.CredentialKey(types.Credential{1})
	k2 := types.CredentialKey(types.Credential{2})

	for _, e := range []struct {
		key  types.EntityKey
		slot uint64
	}{{k1, 5}, {k2, 10}, {k1, 15}, {k2, 25}} {
		err := db.Update(ctx, func(tx kv.RwTx) error {
			return AppendLog(tx, types.NSAccounts, e.key, e.slot, []byte{1})
		})
		require.NoError(t, err)
	}

	var slots []uint64
	err := db.View(ctx, func(tx kv.Tx) error {
		return IterNamespaceRange(tx, types.NSAccounts, 6, 20, func(key types.EntityKey, entry LogEntry) (bool, error) {
			slots = append(slots, entry.Slot)
			return true, nil
		})
	})
	require.NoError(t, err)
	require.Equal(t, []uint64{10, 15}, slots)
}

func TestTruncateBlocksFrom(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	for i := uint64(0); i < 5; i++ {
		var h types.TxHash
		h[0] = byte(i)
		p := types.SpecificPoint(i*10, h)
		err := db.Update(ctx, func(tx kv.RwTx) error {
			return PutBlock(tx, p, []byte{byte(i)}, false)
		})
		require.NoError(t, err)
	}

	err := db.Update(ctx, func(tx kv.RwTx) error {
		return TruncateBlocksFrom(tx, 20)
	})
	require.NoError(t, err)

	var slots []uint64
	err = db.View(ctx, func(tx kv.Tx) error {
		return IterBlocksFrom(tx, 0, func(point types.ChainPoint, raw []byte) (bool, error) {
			slots = append(slots, point.Slot)
			return true, nil
		})
	})
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 10}, slots)
}
