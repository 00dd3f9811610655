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

// Anchor is a governance metadata anchor (URL + content hash), shared by
// DReps and proposals.
type Anchor struct {
	URL  string
	Hash [32]byte
}

// DRepState is a registered delegated representative.
type DRepState struct {
	Identifier     DRepID
	VotingPower    uint64
	InitialSlot    *uint64
	LastActiveSlot *uint64
	Retired        bool
	Expired        bool
	Anchor         *Anchor
}

func (d DRepState) Clone() DRepState {
	out := d
	if d.InitialSlot != nil {
		v := *d.InitialSlot
		out.InitialSlot = &v
	}
	if d.LastActiveSlot != nil {
		v := *d.LastActiveSlot
		out.LastActiveSlot = &v
	}
	if d.Anchor != nil {
		a := *d.Anchor
		out.Anchor = &a
	}
	return out
}

// IsExpiringBy reports whether the DRep's inactivity period has elapsed by
// startingEpoch, given the epoch the DRep was last active in and the
// protocol's drep-inactivity-period in epochs (spec §4.6: "last-activity +
// inactivity-period <= starting_epoch"). The slot->epoch conversion of
// LastActiveSlot is the boundary pass's responsibility (via chainsummary),
// not this type's, so it stays pure and I/O-free.
func (d DRepState) IsExpiringBy(lastActiveEpoch, startingEpoch, inactivityPeriodEpochs uint64) bool {
	if d.LastActiveSlot == nil {
		return false
	}
	return lastActiveEpoch+inactivityPeriodEpochs <= startingEpoch
}
