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
	"math/big"

	"github.com/cardano-go/ledgerstate/core/statestore"
	"github.com/cardano-go/ledgerstate/core/types"
)

// Result is rupd's output (spec §4.7): the PotDelta wrap will later consume,
// the incentives scalar recorded on the EpochState, and the set of
// PendingRewardDelta writes already applied through w — returned so the
// caller can fold them into its own undo-bookkeeping context.
type Result struct {
	PotDelta           types.PotDelta
	IncentivesScalar   uint64
	PendingRewardDelta []*types.PendingRewardDelta
}

type poolAccum struct {
	pool           types.PoolID
	params         types.PoolParams
	blocksMinted   uint64
	stakeTotal     uint64
	livePledge     uint64
	delegatorStake map[types.Credential]uint64
}

// Run computes rupd (spec §4.7) against the live stake snapshot currently
// in the entity store and the pots/pparams carried on ending. It is driven
// by core/boundary as the first step of a boundary transaction rather than
// at the stability-window slot mid-epoch: the Sweep/RollUnit split only
// recognizes epoch boundaries, not an additional mid-epoch trigger, so
// rupd here instead runs against the stake distribution as it stands the
// instant the boundary work unit begins — equivalent in outcome, since
// nothing mutates stake between the stability-window slot and the epoch's
// final slot in this pipeline's model.
func Run(r *statestore.Reader, w *statestore.Writer, ending *types.EpochState, pp types.PParamsSet) (Result, error) {
	var res Result

	pools := make(map[types.PoolID]*poolAccum)
	err := statestore.ScanNamespace(r, types.NSPools, func(key types.EntityKey, raw []byte) (bool, error) {
		var ps types.PoolState
		if err := types.UnmarshalCBOR(raw, &ps); err != nil {
			return false, err
		}
		if ps.IsRetired {
			return true, nil
		}
		pools[ps.OperatorHash] = &poolAccum{
			pool:           ps.OperatorHash,
			params:         ps.CurrentParams(),
			blocksMinted:   ps.Snapshot.Live.BlocksMinted,
			delegatorStake: make(map[types.Credential]uint64),
		}
		return true, nil
	})
	if err != nil {
		return res, err
	}

	ownerCreds := make(map[types.Credential]types.PoolID)
	for id, acc := range pools {
		for _, o := range acc.params.Owners {
			ownerCreds[o] = id
		}
	}

	var totalActiveStake uint64
	err = statestore.ScanNamespace(r, types.NSAccounts, func(key types.EntityKey, raw []byte) (bool, error) {
		var acc types.AccountState
		if err := types.UnmarshalCBOR(raw, &acc); err != nil {
			return false, err
		}
		stake := acc.LiveStake()
		if stake == 0 {
			return true, nil
		}
		totalActiveStake += stake
		if acc.PoolDelegation.Live != nil {
			if pa, ok := pools[*acc.PoolDelegation.Live]; ok {
				pa.stakeTotal += stake
				pa.delegatorStake[acc.Credential] += stake
			}
		}
		if ownerOf, ok := ownerCreds[acc.Credential]; ok {
			pools[ownerOf].livePledge += stake
		}
		return true, nil
	})
	if err != nil {
		return res, err
	}

	var totalBlocks uint64
	for _, pa := range pools {
		totalBlocks += pa.blocksMinted
	}

	reserves := ending.InitialPots.Reserves
	monetaryExpansion := floorToUint64(new(big.Rat).Mul(ratU64(reserves), pp.Rho()))
	totalPot := monetaryExpansion + ending.RunningFees
	treasuryTax := floorToUint64(new(big.Rat).Mul(ratU64(totalPot), pp.Tau()))
	rewardsPot := totalPot - treasuryTax

	a0 := pp.A0()
	nOpt := pp.NOpt()

	type credReward struct {
		asLeader, asDelegator []types.RewardComponent
	}
	perCred := make(map[types.Credential]*credReward)
	addComponent := func(cred types.Credential, pool types.PoolID, amount uint64, leader bool) {
		if amount == 0 {
			return
		}
		cr, ok := perCred[cred]
		if !ok {
			cr = &credReward{}
			perCred[cred] = cr
		}
		comp := types.RewardComponent{Pool: pool, Amount: amount}
		if leader {
			cr.asLeader = append(cr.asLeader, comp)
		} else {
			cr.asDelegator = append(cr.asDelegator, comp)
		}
	}

	var actualDistributed uint64
	if totalActiveStake > 0 {
		for _, pa := range pools {
			if pa.stakeTotal == 0 {
				continue
			}
			sigma := new(big.Rat).SetFrac(new(big.Int).SetUint64(pa.stakeTotal), new(big.Int).SetUint64(totalActiveStake))
			pledgeRel := new(big.Rat).SetFrac(new(big.Int).SetUint64(pa.params.Pledge), new(big.Int).SetUint64(totalActiveStake))

			rOpt := OptimalPoolReward(rewardsPot, sigma, pledgeRel, a0, nOpt)
			pbar := ApparentPerformance(pa.blocksMinted, totalBlocks, sigma)
			poolRewards := PoolTotalReward(rOpt, pbar, pa.livePledge, pa.params.Pledge)
			if poolRewards == 0 {
				continue
			}

			operatorShare := OperatorShare(poolRewards, pa.params.Cost, pa.params.Margin, pledgeRel, sigma)
			if operatorShare > poolRewards {
				operatorShare = poolRewards
			}
			addComponent(pa.params.RewardAccount, pa.pool, operatorShare, true)
			actualDistributed += operatorShare

			distributable := poolRewards - operatorShare
			for cred, stake := range pa.delegatorStake {
				share := DelegatorShare(stake, pa.stakeTotal, distributable)
				addComponent(cred, pa.pool, share, false)
				actualDistributed += share
			}
		}
	}

	var incentives uint64
	if rewardsPot > actualDistributed {
		incentives = rewardsPot - actualDistributed
	}

	for cred, cr := range perCred {
		acc, present, err := statestore.GetAccount(r, cred)
		if err != nil {
			return res, err
		}
		spendable := present && acc.IsRegistered && acc.PoolDelegation.Live != nil
		d := &types.PendingRewardDelta{
			Credential: cred,
			Op:         types.PendingRewardOpWrite,
			New: types.PendingRewardState{
				Credential:  cred,
				IsSpendable: spendable,
				AsLeader:    cr.asLeader,
				AsDelegator: cr.asDelegator,
			},
		}
		if err := w.ApplyPendingRewardDelta(d); err != nil {
			return res, err
		}
		res.PendingRewardDelta = append(res.PendingRewardDelta, d)
	}

	res.PotDelta = types.PotDelta{AvailableRewards: actualDistributed, Incentives: incentives, TreasuryTax: treasuryTax}
	res.IncentivesScalar = incentives
	return res, nil
}
