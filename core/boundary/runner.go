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
	"context"
	"encoding/binary"

	"github.com/cardano-go/ledgerstate/core/archive"
	"github.com/cardano-go/ledgerstate/core/chainsummary"
	"github.com/cardano-go/ledgerstate/core/kv"
	"github.com/cardano-go/ledgerstate/core/ledgererror"
	"github.com/cardano-go/ledgerstate/core/rewards"
	"github.com/cardano-go/ledgerstate/core/statestore"
	"github.com/cardano-go/ledgerstate/core/types"
)

const component = "boundary"

// Runner implements pipeline.BoundaryRunner, driving wrap then start against
// a single state transaction and archiving the results in a second one.
// core/pipeline holds Runner through the BoundaryRunner interface, never
// importing this package directly (spec §4.5 "Sweep" stays storage-agnostic).
type Runner struct {
	State   kv.DB
	Archive kv.DB

	// Compress is passed to archive.NewWriter for the boundary's archive
	// commit. archive.Writer applies it to block bodies only, so the logs
	// the boundary archives are stored uncompressed either way.
	Compress bool
}

func NewRunner(state, archiveDB kv.DB, compress bool) *Runner {
	return &Runner{State: state, Archive: archiveDB, Compress: compress}
}

// RunBoundary finalizes the epoch containing boundarySlot and initializes
// the one that follows (spec §4.6). It is synchronous and runs inside the
// roll pipeline's Sweep, between the two RollUnit calls that straddle the
// boundary.
func (run *Runner) RunBoundary(ctx context.Context, boundarySlot uint64) error {
	var eras []types.EraSummary
	if err := run.State.View(ctx, func(tx kv.Tx) error {
		list, _, err := statestore.GetEraSummaries(statestore.NewReader(tx))
		eras = list
		return err
	}); err != nil {
		return ledgererror.Wrap(component, ledgererror.KindState, "load era summaries", err)
	}
	summary := chainsummary.New(eras)

	startingEpoch, _, err := summary.SlotEpoch(boundarySlot + 1)
	if err != nil {
		return ledgererror.Wrap(component, ledgererror.KindState, "resolve starting epoch", err)
	}

	c := newCtx()
	var endingEpochNumber uint64
	var endingSnapshot types.EpochState

	err = run.State.Update(ctx, func(tx kv.RwTx) error {
		r := statestore.NewReader(tx)
		w := statestore.NewWriter(tx)

		ending, present, err := statestore.GetEpoch(r, types.MarkerGo)
		if err != nil {
			return err
		}
		if !present {
			return ledgererror.New(component, ledgererror.KindInvariantViolation, "no active epoch state at boundary")
		}
		endingEpochNumber = ending.Number

		rupdResult, err := rewards.Run(r, w, ending, ending.PParams.Live)
		if err != nil {
			return err
		}
		for _, d := range rupdResult.PendingRewardDelta {
			c.addPendingReward(d)
		}
		provisional := ending.InitialPots.Apply(rupdResult.PotDelta)
		stashD := &types.EpochDelta{
			Marker: types.MarkerGo, Op: types.EpochOpSetFinalPots,
			FinalPots: provisional, PotDelta: rupdResult.PotDelta,
		}
		if err := w.ApplyEpochDelta(stashD); err != nil {
			return err
		}
		c.addEpoch(stashD)
		incD := &types.EpochDelta{Marker: types.MarkerGo, Op: types.EpochOpSetIncentives, Incentives: rupdResult.IncentivesScalar}
		if err := w.ApplyEpochDelta(incD); err != nil {
			return err
		}
		c.addEpoch(incD)

		ending, present, err = statestore.GetEpoch(r, types.MarkerGo)
		if err != nil {
			return err
		}
		if !present {
			return ledgererror.New(component, ledgererror.KindInvariantViolation, "active epoch state vanished during rupd")
		}

		if _, err := runWrap(r, w, c, ending, startingEpoch, ending.PParams.Live, summary); err != nil {
			return err
		}

		wrapped, present, err := statestore.GetEpoch(r, types.MarkerGo)
		if err != nil {
			return err
		}
		if !present {
			return ledgererror.New(component, ledgererror.KindInvariantViolation, "active epoch state vanished during wrap")
		}
		endingSnapshot = *wrapped

		return runStart(r, w, c, wrapped, startingEpoch, summary)
	})
	if err != nil {
		return ledgererror.Wrap(component, ledgererror.KindState, "run boundary", err)
	}

	return run.archiveResults(ctx, endingEpochNumber, endingSnapshot, summary, c)
}

// archiveResults writes the queued reward logs plus the full ending
// EpochState as the epoch log (spec §4.6 wrap commit), keyed by the ending
// epoch's start slot.
func (run *Runner) archiveResults(ctx context.Context, endingEpochNumber uint64, ending types.EpochState, summary chainsummary.Summary, c *ctx) error {
	startSlot, err := summary.EpochStartSlot(endingEpochNumber)
	if err != nil {
		return ledgererror.Wrap(component, ledgererror.KindState, "resolve ending epoch start slot", err)
	}

	return run.Archive.Update(ctx, func(tx kv.RwTx) error {
		w := archive.NewWriter(tx, run.Compress)

		epochPayload, err := types.MarshalCBOR(ending)
		if err != nil {
			return ledgererror.Wrap(component, ledgererror.KindDecoding, "encode epoch log", err)
		}
		if err := w.AppendLog(types.NSEpochLog, epochLogKey(endingEpochNumber), startSlot, epochPayload); err != nil {
			return err
		}

		for _, l := range c.rewardLogs {
			payload, err := types.MarshalCBOR(l)
			if err != nil {
				return ledgererror.Wrap(component, ledgererror.KindDecoding, "encode reward log", err)
			}
			if err := w.AppendLog(types.NSRewardLog, types.CredentialKey(l.Credential), startSlot, payload); err != nil {
				return err
			}
		}
		return nil
	})
}

// epochLogKey encodes an epoch number as an EntityKey so the epoch log,
// which is one record per boundary rather than per credential, still fits
// archive.AppendLog's fixed key shape.
func epochLogKey(epoch uint64) types.EntityKey {
	var k types.EntityKey
	binary.BigEndian.PutUint64(k[:8], epoch)
	return k
}
