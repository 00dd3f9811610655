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

// EraBound marks either the start or the end of an era.
type EraBound struct {
	Epoch     uint64
	Slot      uint64
	Timestamp int64 // unix seconds
}

// EraSummary is a run of consecutive epochs under one protocol-major
// version. End is nil for the current, unbounded ("edge") era.
type EraSummary struct {
	ProtocolMajor uint16
	Start         EraBound
	End           *EraBound
	EpochLength   uint64
	SlotLength    uint64 // milliseconds
	PParams       PParamsSet
}

func (e EraSummary) Clone() EraSummary {
	out := e
	out.PParams = e.PParams.Clone()
	if e.End != nil {
		end := *e.End
		out.End = &end
	}
	return out
}

func (e EraSummary) IsEdge() bool { return e.End == nil }
