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

// Nonces carries the rolling epoch nonce material (spec §4.6 "Nonces").
type Nonces struct {
	Epoch       [32]byte // this epoch's finalized nonce
	Candidate   [32]byte // rolling nonce accumulated during this epoch
	PrevLabHash [32]byte // last block header hash of the previous epoch
}

// EpochState is the per-epoch accounting record. Three marker keys exist in
// the entity keyspace for the epochs namespace: mark (ending), set
// (waiting), go (active) — see spec §3 and §9.
type EpochState struct {
	Number             uint64
	PParams            EpochScheduled[PParamsSet]
	InitialPots        Pots
	FinalPots          *Pots
	PotDelta           *PotDelta
	Nonces             *Nonces
	BlocksMinted       uint64
	LargestStableSlot  uint64
	RunningFees        uint64 // accumulated tx fees this epoch, folded into Fees pot at wrap
	RunningDeposits    int64  // net deposit change this epoch (registrations minus refunds)
	EffectiveRewards   *uint64
	UnspendableRewards *uint64
	TreasuryTax        *uint64
	Incentives         *uint64
}

func (e EpochState) Clone() EpochState {
	out := e
	out.PParams = EpochScheduled[PParamsSet]{
		Live:    e.PParams.Live.Clone(),
		AtEpoch: e.PParams.AtEpoch,
	}
	if e.PParams.Scheduled != nil {
		cp := e.PParams.Scheduled.Clone()
		out.PParams.Scheduled = &cp
	}
	if e.FinalPots != nil {
		fp := *e.FinalPots
		out.FinalPots = &fp
	}
	if e.PotDelta != nil {
		pd := *e.PotDelta
		out.PotDelta = &pd
	}
	if e.Nonces != nil {
		n := *e.Nonces
		out.Nonces = &n
	}
	if e.EffectiveRewards != nil {
		v := *e.EffectiveRewards
		out.EffectiveRewards = &v
	}
	if e.UnspendableRewards != nil {
		v := *e.UnspendableRewards
		out.UnspendableRewards = &v
	}
	if e.TreasuryTax != nil {
		v := *e.TreasuryTax
		out.TreasuryTax = &v
	}
	if e.Incentives != nil {
		v := *e.Incentives
		out.Incentives = &v
	}
	return out
}

// ResetCounters zeroes the per-epoch counters on a newly-started epoch
// (spec §4.6 start pass "Reset").
func (e *EpochState) ResetCounters() {
	e.BlocksMinted = 0
	e.RunningFees = 0
	e.RunningDeposits = 0
	e.FinalPots = nil
	e.PotDelta = nil
	e.EffectiveRewards = nil
	e.UnspendableRewards = nil
	e.TreasuryTax = nil
	e.Incentives = nil
}
