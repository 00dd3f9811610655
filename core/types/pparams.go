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

// ParamTag names one protocol parameter. The set is small and fixed; a
// sparse map keyed by tag (rather than a flat struct with zero-value
// ambiguity) is what lets Merge overlay only the fields a ParamChange
// action actually touches.
type ParamTag uint16

const (
	ParamProtocolMajor ParamTag = iota
	ParamProtocolMinor
	ParamMinFeeA
	ParamMinFeeB
	ParamMaxBlockBodySize
	ParamMaxTxSize
	ParamKeyDeposit
	ParamPoolDeposit
	ParamEpochLength // in slots
	ParamSlotLength  // in seconds, fixed-point milliseconds
	ParamNOpt        // desired number of pools (n_opt)
	ParamA0Num       // pledge influence, numerator
	ParamA0Den       // pledge influence, denominator
	ParamRhoNum      // monetary expansion rate, numerator
	ParamRhoDen
	ParamTauNum // treasury tax rate, numerator
	ParamTauDen
	ParamMinPoolCost
	ParamDRepInactivityEpochs
	ParamGovActionLifetimeEpochs
	ParamStabilityWindow // 3k/f in slots
)

// PParamsSet is a sparse map from parameter tag to raw value. Values are
// stored as uint64 regardless of logical type (rationals are split across
// two tags, Num/Den) so the whole set can be merged field-by-field without
// a type switch.
type PParamsSet struct {
	values map[ParamTag]uint64
}

func NewPParamsSet() PParamsSet {
	return PParamsSet{values: make(map[ParamTag]uint64)}
}

func (p PParamsSet) Clone() PParamsSet {
	out := NewPParamsSet()
	for k, v := range p.values {
		out.values[k] = v
	}
	return out
}

func (p *PParamsSet) Set(tag ParamTag, v uint64) {
	if p.values == nil {
		p.values = make(map[ParamTag]uint64)
	}
	p.values[tag] = v
}

func (p PParamsSet) get(tag ParamTag, def uint64) uint64 {
	if v, ok := p.values[tag]; ok {
		return v
	}
	return def
}

// Merge overlays delta onto p, per-field: every tag present in delta wins,
// every tag absent in delta keeps p's value (spec §3: "overlays a delta
// onto a base set, per-field").
func (p PParamsSet) Merge(delta PParamsSet) PParamsSet {
	out := p.Clone()
	for k, v := range delta.values {
		out.Set(k, v)
	}
	return out
}

// Typed accessors with protocol-version-dependent defaults (spec §3).
// Defaults below are the Shelley-era genesis defaults; later eras are
// expected to always set these explicitly via ParamChange, so the default
// only matters pre-Shelley or in tests that build a bare PParamsSet.

func (p PParamsSet) ProtocolMajor() uint16 { return uint16(p.get(ParamProtocolMajor, 2)) }
func (p PParamsSet) ProtocolMinor() uint16 { return uint16(p.get(ParamProtocolMinor, 0)) }

func (p PParamsSet) EpochLength() uint64 { return p.get(ParamEpochLength, 432000) }
func (p PParamsSet) SlotLengthMillis() uint64 { return p.get(ParamSlotLength, 1000) }

func (p PParamsSet) NOpt() uint64 { return p.get(ParamNOpt, 150) }

func (p PParamsSet) A0() *big.Rat {
	num := int64(p.get(ParamA0Num, 3))
	den := int64(p.get(ParamA0Den, 10))
	if den == 0 {
		den = 1
	}
	return big.NewRat(num, den)
}

func (p PParamsSet) Rho() *big.Rat {
	num := int64(p.get(ParamRhoNum, 3))
	den := int64(p.get(ParamRhoDen, 1000))
	if den == 0 {
		den = 1
	}
	return big.NewRat(num, den)
}

func (p PParamsSet) Tau() *big.Rat {
	num := int64(p.get(ParamTauNum, 1))
	den := int64(p.get(ParamTauDen, 5))
	if den == 0 {
		den = 1
	}
	return big.NewRat(num, den)
}

func (p PParamsSet) MinPoolCost() uint64 { return p.get(ParamMinPoolCost, 340000000) }
func (p PParamsSet) KeyDeposit() uint64  { return p.get(ParamKeyDeposit, 2000000) }
func (p PParamsSet) PoolDeposit() uint64 { return p.get(ParamPoolDeposit, 500000000) }

func (p PParamsSet) DRepInactivityEpochs() uint64 {
	return p.get(ParamDRepInactivityEpochs, 20)
}

func (p PParamsSet) GovActionLifetimeEpochs() uint64 {
	return p.get(ParamGovActionLifetimeEpochs, 6)
}

// StabilityWindow returns 3k/f in slots (spec glossary), defaulting to the
// mainnet Shelley value when unset.
func (p PParamsSet) StabilityWindow() uint64 {
	return p.get(ParamStabilityWindow, 129600)
}
