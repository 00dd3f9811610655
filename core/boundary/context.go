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

// Package boundary implements the epoch-boundary work unit (spec §4.6):
// wrap finalizes the ending epoch, start initializes the one that follows.
// Both passes only accumulate deltas and archive logs into a shared
// context; nothing touches storage until Commit, mirroring the way
// core/visitors separates pure accumulation from core/pipeline's writes.
//
// Marker rotation. roll.go and EpochStateVisitor already read and write
// the live epoch exclusively at types.MarkerGo — that is the mechanical,
// tested definition of "the current epoch" everywhere outside this
// package. wrap therefore finalizes the record at go, and start replaces
// go wholesale with a freshly built EpochState for the epoch that
// follows; go never goes through an intermediate mark/set stage. mark and
// set are repurposed as a two-deep rolling history of the two most
// recently finalized epochs (set holds the one just finalized, mark the
// one before that), giving in-entity-store lookback without an archive
// read, rather than the forward-looking snapshot lag their names suggest
// elsewhere. See DESIGN.md for the full rationale.
package boundary

import "github.com/cardano-go/ledgerstate/core/types"

// ctx accumulates every entity delta and archive log a boundary pass
// produces, in the order the passes ran, so Commit can replay them
// against one kv.RwTx without each pass needing to know about storage.
type ctx struct {
	accountDeltas      []*types.AccountDelta
	poolDeltas         []*types.PoolDelta
	drepDeltas         []*types.DRepDelta
	proposalDeltas     []*types.ProposalDelta
	epochDeltas        []*types.EpochDelta
	pendingRewardDeltas []*types.PendingRewardDelta

	rewardLogs []types.RewardLog
}

func newCtx() *ctx { return &ctx{} }

func (c *ctx) addAccount(d *types.AccountDelta)     { c.accountDeltas = append(c.accountDeltas, d) }
func (c *ctx) addPool(d *types.PoolDelta)           { c.poolDeltas = append(c.poolDeltas, d) }
func (c *ctx) addDRep(d *types.DRepDelta)           { c.drepDeltas = append(c.drepDeltas, d) }
func (c *ctx) addProposal(d *types.ProposalDelta)   { c.proposalDeltas = append(c.proposalDeltas, d) }
func (c *ctx) addEpoch(d *types.EpochDelta)         { c.epochDeltas = append(c.epochDeltas, d) }
func (c *ctx) addPendingReward(d *types.PendingRewardDelta) {
	c.pendingRewardDeltas = append(c.pendingRewardDeltas, d)
}
func (c *ctx) addRewardLog(l types.RewardLog) { c.rewardLogs = append(c.rewardLogs, l) }
