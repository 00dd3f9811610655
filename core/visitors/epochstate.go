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

// EpochStateVisitor accumulates the running per-epoch totals the wrap pass
// folds into Pots: fees, net deposit movement and the block-minted tally.
// Always enabled (spec §4.5), since the epoch boundary's pot conservation
// check depends on it.
type EpochStateVisitor struct{ NoopVisitor }

func (EpochStateVisitor) Name() string { return "epochstate" }

func (EpochStateVisitor) VisitRoot(ctx *BlockCtx, b types.Block) error {
	ctx.AddEpochDelta(&types.EpochDelta{Marker: types.MarkerGo, Op: types.EpochOpBlockMinted})
	var totalFee uint64
	for _, tx := range b.Txs {
		totalFee += tx.Fee
	}
	if totalFee > 0 {
		ctx.AddEpochDelta(&types.EpochDelta{Marker: types.MarkerGo, Op: types.EpochOpAddFees, Fees: totalFee})
	}
	return nil
}

func (EpochStateVisitor) VisitCert(ctx *BlockCtx, tx types.Tx, cert types.Certificate) error {
	switch cert.Kind {
	case types.CertStakeReg, types.CertPoolReg, types.CertDRepReg, types.CertGovProposal:
		if cert.Deposit > 0 {
			ctx.AddEpochDelta(&types.EpochDelta{Marker: types.MarkerGo, Op: types.EpochOpAdjustDeposits, Deposits: int64(cert.Deposit)})
		}
	case types.CertStakeDereg:
		if cert.Deposit > 0 {
			ctx.AddEpochDelta(&types.EpochDelta{Marker: types.MarkerGo, Op: types.EpochOpAdjustDeposits, Deposits: -int64(cert.Deposit)})
		}
	}
	return nil
}
