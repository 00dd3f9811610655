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

package rewards

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardano-go/ledgerstate/core/kv"
	"github.com/cardano-go/ledgerstate/core/kv/kvmemory"
	"github.com/cardano-go/ledgerstate/core/statestore"
	"github.com/cardano-go/ledgerstate/core/types"
)

func TestRunProducesPendingRewardsForDelegatorAndOperator(t *testing.T) {
	db := kvmemory.New(statestore.Tables())
	pp := types.NewPParamsSet()

	operatorCred := types.Credential{1}
	operator := types.PoolID{7}
	delegatorCred := types.Credential{2}

	require.NoError(t, db.Update(context.Background(), func(tx kv.RwTx) error {
		w := statestore.NewWriter(tx)
		if err := w.ApplyAccountDelta(&types.AccountDelta{Credential: operatorCred, Op: types.AccOpRegister}); err != nil {
			return err
		}
		if err := w.ApplyAccountDelta(&types.AccountDelta{Credential: delegatorCred, Op: types.AccOpRegister}); err != nil {
			return err
		}
		if err := w.ApplyPoolDelta(&types.PoolDelta{
			Operator: operator, Op: types.PoolOpRegister,
			Params: types.PoolParams{
				Pledge: 10_000, Cost: 340_000_000, Margin: types.Margin{Num: 1, Den: 10},
				RewardAccount: operatorCred, Owners: []types.Credential{operatorCred},
			},
		}); err != nil {
			return err
		}
		if err := w.ApplyAccountDelta(&types.AccountDelta{
			Credential: delegatorCred, Op: types.AccOpDelegatePool, Pool: &operator, ScheduleEpoch: 0,
		}); err != nil {
			return err
		}
		if err := w.ApplyAccountDelta(&types.AccountDelta{
			Credential: operatorCred, Op: types.AccOpAdvanceScheduled, ScheduleEpoch: 0, WaitStake: 500_000_000_000,
		}); err != nil {
			return err
		}
		if err := w.ApplyAccountDelta(&types.AccountDelta{
			Credential: delegatorCred, Op: types.AccOpAdvanceScheduled, ScheduleEpoch: 0, WaitStake: 1_000_000_000_000,
		}); err != nil {
			return err
		}
		return w.ApplyPoolDelta(&types.PoolDelta{Operator: operator, Op: types.PoolOpBlockMinted})
	}))

	var result Result
	require.NoError(t, db.Update(context.Background(), func(tx kv.RwTx) error {
		r := statestore.NewReader(tx)
		w := statestore.NewWriter(tx)
		ending := &types.EpochState{
			Number:      0,
			InitialPots: types.Pots{Reserves: 1_000_000_000_000_000},
			RunningFees: 1_000_000,
		}
		var err error
		result, err = Run(r, w, ending, pp)
		return err
	}))

	require.Greater(t, result.PotDelta.AvailableRewards, uint64(0))
	require.NoError(t, db.View(context.Background(), func(tx kv.Tx) error {
		r := statestore.NewReader(tx)
		pr, present, err := statestore.GetPendingReward(r, operatorCred)
		require.NoError(t, err)
		require.True(t, present)
		require.NotEmpty(t, pr.AsLeader)

		delegatorPr, present, err := statestore.GetPendingReward(r, delegatorCred)
		require.NoError(t, err)
		require.True(t, present)
		require.True(t, delegatorPr.IsSpendable)
		return nil
	}))
}

func TestRunSkipsRetiredPools(t *testing.T) {
	db := kvmemory.New(statestore.Tables())
	pp := types.NewPParamsSet()
	operator := types.PoolID{3}

	require.NoError(t, db.Update(context.Background(), func(tx kv.RwTx) error {
		w := statestore.NewWriter(tx)
		if err := w.ApplyPoolDelta(&types.PoolDelta{Operator: operator, Op: types.PoolOpRegister}); err != nil {
			return err
		}
		return w.ApplyPoolDelta(&types.PoolDelta{Operator: operator, Op: types.PoolOpApplyRetire})
	}))

	require.NoError(t, db.Update(context.Background(), func(tx kv.RwTx) error {
		r := statestore.NewReader(tx)
		w := statestore.NewWriter(tx)
		ending := &types.EpochState{InitialPots: types.Pots{Reserves: 1_000_000}}
		result, err := Run(r, w, ending, pp)
		require.NoError(t, err)
		require.Empty(t, result.PendingRewardDelta)
		return nil
	}))
}
