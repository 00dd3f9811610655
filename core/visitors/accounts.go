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

package visitors

import "github.com/cardano-go/ledgerstate/core/types"

// AccountsVisitor tracks stake registration, delegation and the live
// controlled-stake figure that changes as UTxO entries move in and out of
// an account's staking reach. It is always enabled (spec §4.5: accounts
// and epochstate are never disabled in production).
type AccountsVisitor struct{ NoopVisitor }

func (AccountsVisitor) Name() string { return "accounts" }

func (AccountsVisitor) VisitInput(ctx *BlockCtx, tx types.Tx, ref types.TxORef, out types.EraTaggedOutput) error {
	return nil
}

func (AccountsVisitor) VisitOutput(ctx *BlockCtx, tx types.Tx, idx uint32, out types.EraTaggedOutput) error {
	return nil
}

// AdjustStakeFromInput and AdjustStakeFromOutput are called by the
// pipeline for each resolved input and each produced output that carries a
// stake credential, since doing so requires the consumed input's prior
// coin value (read from state, not available from
// the decoded block alone) as well as the produced output's coin.
func (AccountsVisitor) AdjustStakeFromInput(ctx *BlockCtx, cred types.Credential, coin uint64) {
	ctx.AddAccountDelta(&types.AccountDelta{
		Credential: cred,
		Op:         types.AccOpAdjustStake,
		StakeDelta: -int64(coin),
	})
}

func (AccountsVisitor) AdjustStakeFromOutput(ctx *BlockCtx, cred types.Credential, coin uint64) {
	ctx.AddAccountDelta(&types.AccountDelta{
		Credential: cred,
		Op:         types.AccOpAdjustStake,
		StakeDelta: int64(coin),
	})
}

func (AccountsVisitor) VisitCert(ctx *BlockCtx, tx types.Tx, cert types.Certificate) error {
	switch cert.Kind {
	case types.CertStakeReg:
		ctx.AddAccountDelta(&types.AccountDelta{
			Credential: cert.Credential,
			Op:         types.AccOpRegister,
			Slot:       ctx.Slot,
		})
	case types.CertStakeDereg:
		ctx.AddAccountDelta(&types.AccountDelta{
			Credential: cert.Credential,
			Op:         types.AccOpDeregister,
		})
	case types.CertStakeDelegate:
		pool := cert.Pool
		ctx.AddAccountDelta(&types.AccountDelta{
			Credential:    cert.Credential,
			Op:            types.AccOpDelegatePool,
			Pool:          &pool,
			ScheduleEpoch: ctx.Epoch + 1,
		})
	case types.CertVoteDelegate:
		ctx.AddAccountDelta(&types.AccountDelta{
			Credential:    cert.Credential,
			Op:            types.AccOpDelegateDRep,
			DRep:          cert.DRep,
			ScheduleEpoch: ctx.Epoch + 1,
		})
	}
	return nil
}
