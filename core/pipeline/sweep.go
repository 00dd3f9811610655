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

package pipeline

import "context"

// BoundaryRunner executes the wrap-then-start epoch boundary work unit
// (spec §4.6) synchronously, ending the epoch that contains boundarySlot.
// Implemented by core/boundary; declared here so pipeline can drive it
// without importing it back (boundary has no need to call into pipeline).
type BoundaryRunner interface {
	RunBoundary(ctx context.Context, boundarySlot uint64) error
}

// EpochBoundary reports the last slot of the epoch containing slot, so
// Sweep knows where a batch needs to split. Implemented by
// core/chainsummary.
type EpochBoundary interface {
	EndSlot(slot uint64) (uint64, error)
}

// Sweep runs batch through RollUnit, splitting at every epoch boundary it
// straddles and running the boundary work unit synchronously in between
// (spec §4.5 "Sweep split"). A batch spanning several epochs — as happens
// during bulk import of historical data — recurses through each boundary
// in turn; each recursive call recomputes the next boundary from the
// remaining batch's first slot rather than assuming a fixed epoch length.
func (p *RollPipeline) Sweep(ctx context.Context, boundary EpochBoundary, runner BoundaryRunner, batch []RawBlock) error {
	if len(batch) == 0 {
		return nil
	}
	endSlot, err := boundary.EndSlot(batch[0].Point.Slot)
	if err != nil {
		return err
	}

	splitAt := len(batch)
	crosses := false
	for i, rb := range batch {
		if rb.Point.Slot > endSlot {
			splitAt = i
			crosses = true
			break
		}
	}
	if !crosses {
		return p.RollUnit(ctx, batch)
	}

	if splitAt > 0 {
		if err := p.RollUnit(ctx, batch[:splitAt]); err != nil {
			return err
		}
	}
	if err := runner.RunBoundary(ctx, endSlot); err != nil {
		return err
	}
	return p.Sweep(ctx, boundary, runner, batch[splitAt:])
}
