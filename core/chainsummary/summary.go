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

// Package chainsummary answers era/epoch/time queries against a sequence
// of EraSummary records, purely in memory (spec §4.8: "these queries are
// pure; implementers must not require I/O"). The caller is responsible
// for loading the era list from statestore and handing it to New; this
// package never touches a kv.Tx.
package chainsummary

import (
	"fmt"

	"github.com/cardano-go/ledgerstate/core/types"
)

// Summary is an immutable snapshot of the era list, ordered oldest first.
// The last entry is always the "edge" era (End == nil); every era before
// it is closed.
type Summary struct {
	eras []types.EraSummary
}

// New builds a Summary from eras, which must be ordered oldest-first with
// exactly one open (edge) era at the end. New does not validate this
// beyond what EraForSlot/EraForEpoch need to fail loudly on — callers
// construct the list themselves (engine bootstrap, era-transition commit)
// and are expected to maintain the invariant.
func New(eras []types.EraSummary) Summary {
	cp := make([]types.EraSummary, len(eras))
	copy(cp, eras)
	return Summary{eras: cp}
}

// Eras returns the era list, oldest first.
func (s Summary) Eras() []types.EraSummary {
	cp := make([]types.EraSummary, len(s.eras))
	copy(cp, s.eras)
	return cp
}

func (s Summary) edge() (types.EraSummary, error) {
	if len(s.eras) == 0 {
		return types.EraSummary{}, fmt.Errorf("chainsummary: empty era list")
	}
	return s.eras[len(s.eras)-1], nil
}

// EraForSlot returns the edge era if slot is at or past its start;
// otherwise the unique closed era whose [start,end) slot range contains
// it (spec §4.8).
func (s Summary) EraForSlot(slot uint64) (types.EraSummary, error) {
	edge, err := s.edge()
	if err != nil {
		return types.EraSummary{}, err
	}
	if slot >= edge.Start.Slot {
		return edge, nil
	}
	for _, e := range s.eras[:len(s.eras)-1] {
		if slot >= e.Start.Slot && (e.End == nil || slot < e.End.Slot) {
			return e, nil
		}
	}
	return types.EraSummary{}, fmt.Errorf("chainsummary: no era covers slot %d", slot)
}

// EraForEpoch is EraForSlot's symmetric counterpart over epoch numbers
// (spec §4.8: "symmetric behavior for era_for_epoch").
func (s Summary) EraForEpoch(epoch uint64) (types.EraSummary, error) {
	edge, err := s.edge()
	if err != nil {
		return types.EraSummary{}, err
	}
	if epoch >= edge.Start.Epoch {
		return edge, nil
	}
	for _, e := range s.eras[:len(s.eras)-1] {
		if epoch >= e.Start.Epoch && (e.End == nil || epoch < e.End.Epoch) {
			return e, nil
		}
	}
	return types.EraSummary{}, fmt.Errorf("chainsummary: no era covers epoch %d", epoch)
}

// SlotEpoch returns the epoch slot belongs to and its offset within that
// epoch (spec §4.8: "(start.epoch + Δ/epoch_length, Δ mod epoch_length)").
func (s Summary) SlotEpoch(slot uint64) (epoch uint64, offset uint64, err error) {
	e, err := s.EraForSlot(slot)
	if err != nil {
		return 0, 0, err
	}
	if slot < e.Start.Slot {
		return 0, 0, fmt.Errorf("chainsummary: slot %d precedes its era start %d", slot, e.Start.Slot)
	}
	delta := slot - e.Start.Slot
	return e.Start.Epoch + delta/e.EpochLength, delta % e.EpochLength, nil
}

// SlotTime returns the unix-seconds timestamp of slot (spec §4.8:
// "start.timestamp + Δ·slot_length"; slot_length is stored in
// milliseconds, so the product is converted back to seconds).
func (s Summary) SlotTime(slot uint64) (int64, error) {
	e, err := s.EraForSlot(slot)
	if err != nil {
		return 0, err
	}
	if slot < e.Start.Slot {
		return 0, fmt.Errorf("chainsummary: slot %d precedes its era start %d", slot, e.Start.Slot)
	}
	delta := slot - e.Start.Slot
	return e.Start.Timestamp + int64(delta*e.SlotLength/1000), nil
}

// EpochStartSlot returns the first slot of epoch, the inverse direction
// of SlotEpoch, used by EndSlot and to compute the boundary's
// epoch_start_slot temporal key (spec §4.6).
func (s Summary) EpochStartSlot(epoch uint64) (uint64, error) {
	e, err := s.EraForEpoch(epoch)
	if err != nil {
		return 0, err
	}
	if epoch < e.Start.Epoch {
		return 0, fmt.Errorf("chainsummary: epoch %d precedes its era start %d", epoch, e.Start.Epoch)
	}
	return e.Start.Slot + (epoch-e.Start.Epoch)*e.EpochLength, nil
}

// EndSlot implements pipeline.EpochBoundary: the last slot of the epoch
// containing slot, i.e. EpochStartSlot(epoch+1) - 1. Sweep uses this to
// decide where a roll batch needs to split at an epoch boundary. epoch+1
// always resolves against the same era as slot or a later one, since an
// edge era (unbounded) always matches any epoch at or past its start.
func (s Summary) EndSlot(slot uint64) (uint64, error) {
	epoch, _, err := s.SlotEpoch(slot)
	if err != nil {
		return 0, err
	}
	next, err := s.EpochStartSlot(epoch + 1)
	if err != nil {
		return 0, err
	}
	return next - 1, nil
}
