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
	"golang.org/x/crypto/blake2b"

	"github.com/cardano-go/ledgerstate/core/chainsummary"
	"github.com/cardano-go/ledgerstate/core/statestore"
	"github.com/cardano-go/ledgerstate/core/types"
)

// runStart initializes the epoch that follows the one runWrap just
// finalized (spec §4.6 "Start"): rotates every account's and pool's
// snapshot, derives the new epoch nonce, carries over the scheduled
// pparams, closes and opens an era on a protocol-major change, and
// installs the rotated mark/set/go history.
//
// ending is the same record runWrap finalized, still held at MarkerGo; its
// FinalPots becomes the next epoch's InitialPots and its PParams.Scheduled
// (if any, set by wrap's governance-enactment step) is advanced here.
func runStart(r *statestore.Reader, w *statestore.Writer, c *ctx, ending *types.EpochState, startingEpoch uint64, summary chainsummary.Summary) error {
	// --- Snapshot rotation: accounts -------------------------------------
	err := statestore.ScanNamespace(r, types.NSAccounts, func(key types.EntityKey, raw []byte) (bool, error) {
		var acc types.AccountState
		if err := types.UnmarshalCBOR(raw, &acc); err != nil {
			return false, err
		}
		d := &types.AccountDelta{Credential: acc.Credential, Op: types.AccOpAdvanceScheduled, ScheduleEpoch: startingEpoch, WaitStake: acc.LiveStake()}
		if err := w.ApplyAccountDelta(d); err != nil {
			return false, err
		}
		c.addAccount(d)
		return true, nil
	})
	if err != nil {
		return err
	}

	// --- Snapshot rotation: pools -----------------------------------------
	err = statestore.ScanNamespace(r, types.NSPools, func(key types.EntityKey, raw []byte) (bool, error) {
		var ps types.PoolState
		if err := types.UnmarshalCBOR(raw, &ps); err != nil {
			return false, err
		}
		d := &types.PoolDelta{Operator: ps.OperatorHash, Op: types.PoolOpAdvanceScheduled, ScheduleEpoch: startingEpoch}
		if err := w.ApplyPoolDelta(d); err != nil {
			return false, err
		}
		c.addPool(d)
		return true, nil
	})
	if err != nil {
		return err
	}

	// --- PParams: promote whatever wrap scheduled ------------------------
	pparams := ending.PParams.Clone()
	pparams.Advance(startingEpoch)

	// --- Nonces -----------------------------------------------------------
	// The rolling per-block VRF candidate this formula folds in isn't
	// modeled (types.Block carries no VRF certificate), so Candidate and
	// PrevLabHash stay at their zero value; the nonce still advances
	// deterministically epoch over epoch via the prior epoch's nonce.
	var candidate, prevLabHash [32]byte
	var priorNonce [32]byte
	if ending.Nonces != nil {
		candidate = ending.Nonces.Candidate
		prevLabHash = ending.Nonces.PrevLabHash
		priorNonce = ending.Nonces.Epoch
	}
	seed := make([]byte, 0, 96)
	seed = append(seed, candidate[:]...)
	seed = append(seed, prevLabHash[:]...)
	seed = append(seed, priorNonce[:]...)
	newNonces := types.Nonces{Epoch: blake2b.Sum256(seed)}

	// --- Era transition -----------------------------------------------------
	if eras, ok, err := statestore.GetEraSummaries(r); err != nil {
		return err
	} else if ok && len(eras) > 0 {
		edge := eras[len(eras)-1]
		newMajor := pparams.Live.ProtocolMajor()
		if edge.ProtocolMajor != newMajor {
			startSlot, err := summary.EpochStartSlot(startingEpoch)
			if err != nil {
				return err
			}
			ts, err := summary.SlotTime(startSlot)
			if err != nil {
				return err
			}
			bound := types.EraBound{Epoch: startingEpoch, Slot: startSlot, Timestamp: ts}
			closedEdge := edge.Clone()
			closedEdge.End = &bound
			newEdge := types.EraSummary{
				ProtocolMajor: newMajor,
				Start:         bound,
				EpochLength:   pparams.Live.EpochLength(),
				SlotLength:    pparams.Live.SlotLengthMillis(),
				PParams:       pparams.Live,
			}
			updated := append(append([]types.EraSummary{}, eras[:len(eras)-1]...), closedEdge, newEdge)
			if err := w.PutEraSummaries(updated); err != nil {
				return err
			}
		}
	}

	// --- Build the new epoch's live record ---------------------------------
	newState := types.EpochState{
		Number:      startingEpoch,
		PParams:     pparams,
		InitialPots: *ending.FinalPots,
		Nonces:      &newNonces,
	}

	// --- Commit: rotate the two-deep history, install the new live epoch --
	if oldSet, present, err := statestore.GetEpoch(r, types.MarkerSet); err != nil {
		return err
	} else if present {
		d := &types.EpochDelta{Marker: types.MarkerMark, Op: types.EpochOpInit, New: *oldSet}
		if err := w.ApplyEpochDelta(d); err != nil {
			return err
		}
		c.addEpoch(d)
	}

	setD := &types.EpochDelta{Marker: types.MarkerSet, Op: types.EpochOpInit, New: *ending}
	if err := w.ApplyEpochDelta(setD); err != nil {
		return err
	}
	c.addEpoch(setD)

	goD := &types.EpochDelta{Marker: types.MarkerGo, Op: types.EpochOpInit, New: newState}
	if err := w.ApplyEpochDelta(goD); err != nil {
		return err
	}
	c.addEpoch(goD)

	return nil
}
