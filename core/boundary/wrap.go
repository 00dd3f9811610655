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

package boundary

import (
	cmath "github.com/cardano-go/ledgerstate/common/math"
	"github.com/cardano-go/ledgerstate/core/chainsummary"
	"github.com/cardano-go/ledgerstate/core/statestore"
	"github.com/cardano-go/ledgerstate/core/types"
)

// wrapResult carries the values the start pass and the pot-conservation
// caller need after wrap runs, beyond what lives in the committed deltas.
type wrapResult struct {
	distributedRewards uint64
	unspendableRewards uint64
	finalPots          types.Pots
}

// runWrap finalizes the ending epoch (spec §4.6 "Wrap"): drains pending
// rewards, retires pools and expires DReps, enacts governance actions,
// refunds deposits, and computes the ending epoch's final pots. It reads
// through r and writes every mutation through w and c, all scoped to the
// same kv.RwTx the caller opened — nothing here commits on its own.
//
// ending is the EpochState at MarkerGo, the live record roll.go and
// EpochStateVisitor have been accumulating against all epoch. start's
// commit later replaces MarkerGo wholesale with the freshly-built record
// for the next epoch; see the package doc for why this runs against go
// rather than the mark slot the boundary prose names.
func runWrap(r *statestore.Reader, w *statestore.Writer, c *ctx, ending *types.EpochState, startingEpoch uint64, pp types.PParamsSet, summary chainsummary.Summary) (wrapResult, error) {
	var res wrapResult
	var treasuryOut, depositsRefunded uint64

	// --- Rewards visitor ---------------------------------------------
	var drainedCreds []types.Credential
	err := statestore.ScanNamespace(r, types.NSPendingRewards, func(key types.EntityKey, raw []byte) (bool, error) {
		var pr types.PendingRewardState
		if err := types.UnmarshalCBOR(raw, &pr); err != nil {
			return false, err
		}
		acc, present, err := statestore.GetAccount(r, pr.Credential)
		if err != nil {
			return false, err
		}
		total := pr.Total()
		if present && acc.IsRegistered {
			d := &types.AccountDelta{Credential: pr.Credential, Op: types.AccOpAssignRewards, RewardAmount: total}
			if err := w.ApplyAccountDelta(d); err != nil {
				return false, err
			}
			c.addAccount(d)
			res.distributedRewards += total
			for _, comp := range pr.AsLeader {
				c.addRewardLog(types.RewardLog{Credential: pr.Credential, Pool: comp.Pool, Amount: comp.Amount, AsLeader: true})
			}
			for _, comp := range pr.AsDelegator {
				c.addRewardLog(types.RewardLog{Credential: pr.Credential, Pool: comp.Pool, Amount: comp.Amount, AsLeader: false})
			}
		} else {
			res.unspendableRewards += total
		}
		drainedCreds = append(drainedCreds, pr.Credential)
		return true, nil
	})
	if err != nil {
		return res, err
	}
	for _, cred := range drainedCreds {
		d := &types.PendingRewardDelta{Credential: cred, Op: types.PendingRewardOpDelete}
		if err := w.ApplyPendingRewardDelta(d); err != nil {
			return res, err
		}
		c.addPendingReward(d)
	}

	// --- Retires visitor -----------------------------------------------
	retiredPools := make(map[types.PoolID]bool)
	err = statestore.ScanNamespace(r, types.NSPools, func(key types.EntityKey, raw []byte) (bool, error) {
		var ps types.PoolState
		if err := types.UnmarshalCBOR(raw, &ps); err != nil {
			return false, err
		}
		if !ps.IsRetiringBy(startingEpoch) || ps.IsRetired {
			return true, nil
		}
		retiredPools[ps.OperatorHash] = true
		d := &types.PoolDelta{Operator: ps.OperatorHash, Op: types.PoolOpApplyRetire}
		if err := w.ApplyPoolDelta(d); err != nil {
			return false, err
		}
		c.addPool(d)
		if acc, present, err := statestore.GetAccount(r, ps.RewardAccount); err != nil {
			return false, err
		} else if present && acc.IsRegistered {
			amt := pp.PoolDeposit()
			ad := &types.AccountDelta{Credential: ps.RewardAccount, Op: types.AccOpAssignRewards, RewardAmount: amt}
			if err := w.ApplyAccountDelta(ad); err != nil {
				return false, err
			}
			c.addAccount(ad)
			depositsRefunded += amt
		}
		return true, nil
	})
	if err != nil {
		return res, err
	}

	expiredDReps := make(map[types.DRepID]bool)
	inactivityPeriod := pp.DRepInactivityEpochs()
	err = statestore.ScanNamespace(r, types.NSDReps, func(key types.EntityKey, raw []byte) (bool, error) {
		var ds types.DRepState
		if err := types.UnmarshalCBOR(raw, &ds); err != nil {
			return false, err
		}
		if ds.Expired || ds.LastActiveSlot == nil {
			return true, nil
		}
		lastActiveEpoch, _, err := summary.SlotEpoch(*ds.LastActiveSlot)
		if err != nil {
			return false, err
		}
		if !ds.IsExpiringBy(lastActiveEpoch, startingEpoch, inactivityPeriod) {
			return true, nil
		}
		expiredDReps[ds.Identifier] = true
		d := &types.DRepDelta{Identifier: ds.Identifier, Op: types.DRepOpApplyExpire}
		if err := w.ApplyDRepDelta(d); err != nil {
			return false, err
		}
		c.addDRep(d)
		return true, nil
	})
	if err != nil {
		return res, err
	}

	// --- Drop delegations to retired pools / expired dreps --------------
	if len(retiredPools) > 0 || len(expiredDReps) > 0 {
		err = statestore.ScanNamespace(r, types.NSAccounts, func(key types.EntityKey, raw []byte) (bool, error) {
			var acc types.AccountState
			if err := types.UnmarshalCBOR(raw, &acc); err != nil {
				return false, err
			}
			if acc.PoolDelegation.Live != nil && retiredPools[*acc.PoolDelegation.Live] {
				d := &types.AccountDelta{Credential: acc.Credential, Op: types.AccOpDelegatePool, Pool: nil, ScheduleEpoch: startingEpoch}
				if err := w.ApplyAccountDelta(d); err != nil {
					return false, err
				}
				c.addAccount(d)
			}
			if acc.DRepDelegation.Live != nil && expiredDReps[*acc.DRepDelegation.Live] {
				d := &types.AccountDelta{Credential: acc.Credential, Op: types.AccOpDelegateDRep, DRep: nil, ScheduleEpoch: startingEpoch}
				if err := w.ApplyAccountDelta(d); err != nil {
					return false, err
				}
				c.addAccount(d)
			}
			return true, nil
		})
		if err != nil {
			return res, err
		}
	}

	// --- Governance enactment -------------------------------------------
	mergedPParams := pp.Clone()
	pparamsChanged := false
	err = statestore.ScanNamespace(r, types.NSProposals, func(key types.EntityKey, raw []byte) (bool, error) {
		var prop types.ProposalState
		if err := types.UnmarshalCBOR(raw, &prop); err != nil {
			return false, err
		}
		if !prop.IsEnactingAt(startingEpoch) {
			return true, nil
		}
		switch prop.Action.Kind {
		case types.ActionHardFork:
			mergedPParams.Set(types.ParamProtocolMajor, uint64(prop.Action.HardForkVersion))
			pparamsChanged = true
		case types.ActionParamChange:
			mergedPParams = mergedPParams.Merge(prop.Action.ParamDelta)
			pparamsChanged = true
		case types.ActionTreasuryWithdrawal:
			for _, wd := range prop.Action.Withdrawals {
				acc, present, err := statestore.GetAccount(r, wd.Credential)
				if err != nil {
					return false, err
				}
				if present && acc.IsRegistered {
					ad := &types.AccountDelta{Credential: wd.Credential, Op: types.AccOpAssignRewards, RewardAmount: wd.Amount}
					if err := w.ApplyAccountDelta(ad); err != nil {
						return false, err
					}
					c.addAccount(ad)
					treasuryOut += wd.Amount
				}
				// Unregistered recipients: the amount never left treasury
				// (spec Open Question (c), resolved: fold back rather than
				// credit), so no delta and no treasuryOut contribution.
			}
		}
		if racc, present, err := statestore.GetAccount(r, prop.ReturnAccount); err != nil {
			return false, err
		} else if present && racc.IsRegistered {
			ad := &types.AccountDelta{Credential: prop.ReturnAccount, Op: types.AccOpAssignRewards, RewardAmount: prop.Deposit}
			if err := w.ApplyAccountDelta(ad); err != nil {
				return false, err
			}
			c.addAccount(ad)
			depositsRefunded += prop.Deposit
		}
		d := &types.ProposalDelta{ID: key, Op: types.ProposalOpApplyEnact}
		if err := w.ApplyProposalDelta(d); err != nil {
			return false, err
		}
		c.addProposal(d)
		return true, nil
	})
	if err != nil {
		return res, err
	}
	if pparamsChanged {
		d := &types.EpochDelta{Marker: types.MarkerGo, Op: types.EpochOpSetPParamsScheduled, PParams: mergedPParams, AtEpoch: startingEpoch}
		if err := w.ApplyEpochDelta(d); err != nil {
			return res, err
		}
		c.addEpoch(d)
	}

	// --- Pot adjustment --------------------------------------------------
	potDelta := types.PotDelta{}
	if ending.PotDelta != nil {
		potDelta = *ending.PotDelta
	}
	final := ending.InitialPots.Apply(potDelta)
	final.Treasury = cmath.MustSub(final.Treasury, treasuryOut)
	if ending.RunningDeposits >= 0 {
		final.Deposits = cmath.MustAdd(final.Deposits, uint64(ending.RunningDeposits))
	} else {
		final.Deposits = cmath.MustSub(final.Deposits, uint64(-ending.RunningDeposits))
	}
	final.Deposits = cmath.MustSub(final.Deposits, depositsRefunded)
	final.Fees = 0 // folded into AvailableRewards by rupd already

	fd := &types.EpochDelta{
		Marker: types.MarkerGo, Op: types.EpochOpSetFinalPots,
		FinalPots: final, PotDelta: potDelta,
		EffectiveRewards: res.distributedRewards, UnspendableRewards: res.unspendableRewards,
		TreasuryTaxAmount: potDelta.TreasuryTax,
	}
	if err := w.ApplyEpochDelta(fd); err != nil {
		return res, err
	}
	c.addEpoch(fd)

	res.finalPots = final
	return res, nil
}
