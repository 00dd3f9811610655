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

// AccountStake is the controlled-stake / accumulated-rewards pair that
// rotates through mark/set/go at each epoch boundary.
type AccountStake struct {
	Controlled  uint64
	RewardsSum  uint64
}

// AccountState is a stake-key registration and its delegation/reward state.
type AccountState struct {
	Credential      Credential
	PoolDelegation  EpochScheduled[*PoolID]
	DRepDelegation  EpochScheduled[*DRepID]
	Stake           EpochScheduled[AccountStake]
	RegisteredAtSlot uint64
	IsRegistered    bool
}

// Clone deep-copies an AccountState for undo-snapshot capture.
func (a AccountState) Clone() AccountState {
	out := a
	out.PoolDelegation = a.PoolDelegation.Clone()
	out.DRepDelegation = a.DRepDelegation.Clone()
	out.Stake = a.Stake.Clone()
	return out
}

// LiveStake returns the currently active controlled-stake amount, used by
// the start boundary's snapshot rotation ("wait <- live_stake()").
func (a AccountState) LiveStake() uint64 {
	return a.Stake.Live.Controlled
}
