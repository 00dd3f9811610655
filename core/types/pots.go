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

import (
	cmath "github.com/cardano-go/ledgerstate/common/math"
)

// Pots is the five scalar accumulators tracking monetary supply partitions.
type Pots struct {
	Reserves uint64
	Treasury uint64
	Utxos    uint64
	Deposits uint64
	Fees     uint64
}

// PotDelta is the triple produced by rupd and consumed by the wrap boundary
// pass (spec §4.6 "Pot adjustment").
type PotDelta struct {
	AvailableRewards uint64
	Incentives       uint64
	TreasuryTax      uint64
}

// Apply moves AvailableRewards+Incentives out of reserves and TreasuryTax
// into treasury, per the closed-form arithmetic of spec §3. An underflow
// (reserves too small to fund the delta) is an invariant violation: the
// caller is expected to have validated the delta against a fresh read of
// Pots before calling Apply, so this panics rather than silently
// saturating (spec: "treated as an invariant violation if triggered").
func (p Pots) Apply(d PotDelta) Pots {
	out := p
	out.Reserves = cmath.MustSub(p.Reserves, cmath.MustAdd(d.AvailableRewards, d.Incentives))
	out.Treasury = cmath.MustAdd(p.Treasury, d.TreasuryTax)
	return out
}

// Conserved reports whether applying d to before yields after exactly,
// i.e. the testable property of spec §8 "Pot conservation at epoch
// boundary", expressed over reserves+treasury+utxos only (the dimension
// the property statement covers) given the amount actually distributed to
// accounts and the amount that went unspendable.
func Conserved(before, after Pots, distributedRewards, unspendableRewards uint64) bool {
	lhs := before.Reserves + before.Treasury + before.Utxos
	rhs := after.Reserves + after.Treasury + after.Utxos + distributedRewards
	if rhs < unspendableRewards {
		return false
	}
	rhs -= unspendableRewards
	return lhs == rhs
}
