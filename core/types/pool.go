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

import "math/big"

// Margin is a stake-pool margin fraction, kept as an exact rational.
type Margin struct {
	Num, Den int64
}

func (m Margin) Rat() *big.Rat { return big.NewRat(m.Num, m.Den) }

// Relay is a pool's network relay announcement; opaque beyond what rewards
// and retirement bookkeeping need.
type Relay struct {
	Host string
	Port uint16
}

// PoolMetadata is the pool's off-chain metadata anchor.
type PoolMetadata struct {
	URL  string
	Hash [32]byte
}

// PoolSnapshot is the per-epoch view of a pool consulted by leader election
// and by rewards (spec §3 PoolState.snapshot).
type PoolSnapshot struct {
	IsPending    bool
	IsRetired    bool
	BlocksMinted uint64
	Params       PoolParams
}

// PoolParams is the subset of a pool's registration fields that matter to
// the rewards formulas and are snapshotted at epoch boundaries.
type PoolParams struct {
	Pledge       uint64
	Cost         uint64
	Margin       Margin
	RewardAccount Credential
	Owners       []Credential
}

// PoolState is a registered stake pool.
type PoolState struct {
	OperatorHash  PoolID
	VRFKeyHash    [32]byte
	Pledge        uint64
	Cost          uint64
	Margin        Margin
	RewardAccount Credential
	Owners        []Credential
	Relays        []Relay
	Metadata      *PoolMetadata
	Snapshot      EpochScheduled[PoolSnapshot]
	RetiringEpoch *uint64
	IsRetired     bool
}

func (p PoolState) Clone() PoolState {
	out := p
	out.Owners = append([]Credential(nil), p.Owners...)
	out.Relays = append([]Relay(nil), p.Relays...)
	out.Snapshot = p.Snapshot.Clone()
	if p.Metadata != nil {
		m := *p.Metadata
		out.Metadata = &m
	}
	if p.RetiringEpoch != nil {
		e := *p.RetiringEpoch
		out.RetiringEpoch = &e
	}
	return out
}

// CurrentParams builds the PoolParams view of this pool's live registration,
// as consulted by rupd (spec §4.7).
func (p PoolState) CurrentParams() PoolParams {
	return PoolParams{
		Pledge:        p.Pledge,
		Cost:          p.Cost,
		Margin:        p.Margin,
		RewardAccount: p.RewardAccount,
		Owners:        p.Owners,
	}
}

// IsRetiringBy reports whether the pool's retirement epoch has arrived by
// the time startingEpoch begins (spec §4.6: "retiring_epoch <= starting_epoch").
func (p PoolState) IsRetiringBy(startingEpoch uint64) bool {
	return p.RetiringEpoch != nil && *p.RetiringEpoch <= startingEpoch
}
