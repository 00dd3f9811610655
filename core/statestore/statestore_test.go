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

package statestore

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

func cred(b byte) types.Credential {
	var c types.Credential
	c[0] = b
	return c
}

func TestAccountDeltaApplyAndUndoRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	c := cred(7)

	err := db.Update(ctx, func(tx kv.RwTx) error {
		w := NewWriter(tx)
		return w.ApplyAccountDelta(&types.AccountDelta{Credential: c, Op: types.AccOpRegister, Slot: 100})
	})
	require.NoError(t, err)

	delta := &types.AccountDelta{Credential: c, Op: types.AccOpAdjustStake, StakeDelta: 500}
	err = db.Update(ctx, func(tx kv.RwTx) error {
		w := NewWriter(tx)
		return w.ApplyAccountDelta(delta)
	})
	require.NoError(t, err)

	err = db.View(ctx, func(tx kv.Tx) error {
		r := NewReader(tx)
		acc, present, err := GetAccount(r, c)
		require.NoError(t, err)
		require.True(t, present)
		require.EqualValues(t, 500, acc.Stake.Live.Controlled)
		return nil
	})
	require.NoError(t, err)

	err = db.Update(ctx, func(tx kv.RwTx) error {
		w := NewWriter(tx)
		return w.UndoAccountDelta(delta)
	})
	require.NoError(t, err)

	err = db.View(ctx, func(tx kv.Tx) error {
		r := NewReader(tx)
		acc, present, err := GetAccount(r, c)
		require.NoError(t, err)
		require.True(t, present)
		require.EqualValues(t, 0, acc.Stake.Live.Controlled)
		return nil
	})
	require.NoError(t, err)
}

func TestAccountDeregisterDeletesEntity(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	c := cred(1)

	err := db.Update(ctx, func(tx kv.RwTx) error {
		w := NewWriter(tx)
		return w.ApplyAccountDelta(&types.AccountDelta{Credential: c, Op: types.AccOpRegister})
	})
	require.NoError(t, err)

	err = db.Update(ctx, func(tx kv.RwTx) error {
		w := NewWriter(tx)
		return w.ApplyAccountDelta(&types.AccountDelta{Credential: c, Op: types.AccOpDeregister})
	})
	require.NoError(t, err)

	err = db.View(ctx, func(tx kv.Tx) error {
		r := NewReader(tx)
		_, present, err := GetAccount(r, c)
		require.NoError(t, err)
		require.False(t, present)
		return nil
	})
	require.NoError(t, err)
}

func TestAdjustStakeOnUnregisteredAccountSoftSkips(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	c := cred(2)

	err := db.Update(ctx, func(tx kv.RwTx) error {
		w := NewWriter(tx)
		return w.ApplyAccountDelta(&types.AccountDelta{Credential: c, Op: types.AccOpAdjustStake, StakeDelta: 10})
	})
	require.ErrorIs(t, err, types.ErrSoftSkip)
}

func TestApplyAndUndoUTxOSet(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	var txHash types.TxHash
	txHash[0] = 9
	outputs := []types.Output{
		{Index: 0, Coin: 1000, Raw: types.EraTaggedOutput{Era: 4, RawCBOR: []byte("a")}},
		{Index: 1, Coin: 2000, Raw: types.EraTaggedOutput{Era: 4, RawCBOR: []byte("b")}},
	}

	err := db.Update(ctx, func(tx kv.RwTx) error {
		w := NewWriter(tx)
		_, err := w.ApplyUTxOSet(outputs, txHash, nil)
		return err
	})
	require.NoError(t, err)

	ref0 := types.TxORef{TxHash: txHash, Index: 0}
	var consumedResolved []ConsumedOutput
	err = db.Update(ctx, func(tx kv.RwTx) error {
		w := NewWriter(tx)
		var txHash2 types.TxHash
		txHash2[0] = 10
		resolved, err := w.ApplyUTxOSet(nil, txHash2, []types.TxORef{ref0})
		consumedResolved = resolved
		return err
	})
	require.NoError(t, err)
	require.Len(t, consumedResolved, 1)
	require.Equal(t, ref0, consumedResolved[0].Ref)
	require.Equal(t, "a", string(consumedResolved[0].Output.RawCBOR))

	err = db.View(ctx, func(tx kv.Tx) error {
		r := NewReader(tx)
		_, present, err := r.GetUTxO(ref0)
		require.NoError(t, err)
		require.False(t, present)
		return nil
	})
	require.NoError(t, err)

	err = db.Update(ctx, func(tx kv.RwTx) error {
		w := NewWriter(tx)
		var txHash2 types.TxHash
		txHash2[0] = 10
		return w.UndoUTxOSet(nil, txHash2, consumedResolved)
	})
	require.NoError(t, err)

	err = db.View(ctx, func(tx kv.Tx) error {
		r := NewReader(tx)
		out, present, err := r.GetUTxO(ref0)
		require.NoError(t, err)
		require.True(t, present)
		require.EqualValues(t, 4, out.Era)
		return nil
	})
	require.NoError(t, err)
}

func TestScanNamespace(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	for i := byte(0); i < 3; i++ {
		c := cred(i)
		err := db.Update(ctx, func(tx kv.RwTx) error {
			w := NewWriter(tx)
			return w.ApplyAccountDelta(&types.AccountDelta{Credential: c, Op: types.AccOpRegister})
		})
		require.NoError(t, err)
	}

	var count int
	err := db.View(ctx, func(tx kv.Tx) error {
		r := NewReader(tx)
		return ScanNamespace(r, types.NSAccounts, func(key types.EntityKey, raw []byte) (bool, error) {
			count++
			return true, nil
		})
	})
	require.NoError(t, err)
	require.Equal(t, 3, count)
}
