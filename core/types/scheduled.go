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

package types

// EpochScheduled holds a live value plus an optional value scheduled to
// become live at AtEpoch. It is a two-slot record, not a priority queue: a
// value never advances on its own, and scheduling a new value overwrites
// whatever was previously scheduled within the same epoch (spec §9,
// "latest writer wins").
type EpochScheduled[T any] struct {
	Live      T
	Scheduled *T
	AtEpoch   uint64
}

// Schedule overwrites the scheduled slot, to become live at epoch.
func (s *EpochScheduled[T]) Schedule(v T, epoch uint64) {
	cp := v
	s.Scheduled = &cp
	s.AtEpoch = epoch
}

// Advance promotes Scheduled to Live if one is pending for startingEpoch.
// Called exactly once per entity per start boundary (spec §9).
func (s *EpochScheduled[T]) Advance(startingEpoch uint64) bool {
	if s.Scheduled == nil || s.AtEpoch > startingEpoch {
		return false
	}
	s.Live = *s.Scheduled
	s.Scheduled = nil
	return true
}

// Clone deep-copies the scheduled slot so undo snapshots are not aliased.
func (s EpochScheduled[T]) Clone() EpochScheduled[T] {
	out := s
	if s.Scheduled != nil {
		cp := *s.Scheduled
		out.Scheduled = &cp
	}
	return out
}
