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

// Package visitors implements the per-concern block visitors the roll
// pipeline drives over a decoded block: accounts, assets, epochstate,
// dreps and pools. Each visitor only accumulates deltas and index entries
// into a shared BlockCtx; nothing here touches storage directly, so
// visitors can run against a block before any kv.RwTx is open (spec §4.5
// step 4 "pure function of the decoded block and current state reads").
package visitors

import (
	"github.com/cardano-go/ledgerstate/core/index"
	"github.com/cardano-go/ledgerstate/core/types"
)

// BlockCtx accumulates everything a pass over one block produces: entity
// deltas bound for core/statestore, and index entries bound for
// core/index. PParams is the epoch's live protocol parameters, needed for
// deposit amounts and pool/drep parameter bounds.
type BlockCtx struct {
	Slot    uint64
	Epoch   uint64
	PParams types.PParamsSet

	AccountDeltas      []*types.AccountDelta
	PoolDeltas         []*types.PoolDelta
	DRepDeltas         []*types.DRepDelta
	ProposalDeltas     []*types.ProposalDelta
	EpochDeltas        []*types.EpochDelta
	PendingRewardDelta []*types.PendingRewardDelta

	OutputEntries map[types.TxORef][]index.Entry
	TxEntries     []index.Entry
}

func NewBlockCtx(slot, epoch uint64, pparams types.PParamsSet) *BlockCtx {
	return &BlockCtx{
		Slot:          slot,
		Epoch:         epoch,
		PParams:       pparams,
		OutputEntries: make(map[types.TxORef][]index.Entry),
	}
}

func (c *BlockCtx) AddAccountDelta(d *types.AccountDelta)   { c.AccountDeltas = append(c.AccountDeltas, d) }
func (c *BlockCtx) AddPoolDelta(d *types.PoolDelta)         { c.PoolDeltas = append(c.PoolDeltas, d) }
func (c *BlockCtx) AddDRepDelta(d *types.DRepDelta)         { c.DRepDeltas = append(c.DRepDeltas, d) }
func (c *BlockCtx) AddProposalDelta(d *types.ProposalDelta) { c.ProposalDeltas = append(c.ProposalDeltas, d) }
func (c *BlockCtx) AddEpochDelta(d *types.EpochDelta)       { c.EpochDeltas = append(c.EpochDeltas, d) }

func (c *BlockCtx) AddOutputEntry(ref types.TxORef, e index.Entry) {
	c.OutputEntries[ref] = append(c.OutputEntries[ref], e)
}

func (c *BlockCtx) AddTxEntry(e index.Entry) {
	c.TxEntries = append(c.TxEntries, e)
}

// Visitor is the closed interface every block-processing concern
// implements. The pipeline calls VisitRoot once per block, then the
// per-input/output/mint/cert hooks once per occurrence within each tx.
type Visitor interface {
	Name() string
	VisitRoot(ctx *BlockCtx, b types.Block) error
	VisitInput(ctx *BlockCtx, tx types.Tx, ref types.TxORef, out types.EraTaggedOutput) error
	VisitOutput(ctx *BlockCtx, tx types.Tx, idx uint32, out types.EraTaggedOutput) error
	VisitMint(ctx *BlockCtx, tx types.Tx, m types.MintEvent) error
	VisitCert(ctx *BlockCtx, tx types.Tx, cert types.Certificate) error
}

// NoopVisitor can be embedded by a visitor that only cares about a subset
// of hooks, matching the teacher corpus's habit of embedding no-op base
// implementations rather than repeating empty method bodies everywhere.
type NoopVisitor struct{}

func (NoopVisitor) VisitRoot(*BlockCtx, types.Block) error                            { return nil }
func (NoopVisitor) VisitInput(*BlockCtx, types.Tx, types.TxORef, types.EraTaggedOutput) error { return nil }
func (NoopVisitor) VisitOutput(*BlockCtx, types.Tx, uint32, types.EraTaggedOutput) error      { return nil }
func (NoopVisitor) VisitMint(*BlockCtx, types.Tx, types.MintEvent) error               { return nil }
func (NoopVisitor) VisitCert(*BlockCtx, types.Tx, types.Certificate) error             { return nil }
