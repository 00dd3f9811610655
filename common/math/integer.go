// Copyright 2017 The go-ethereum Authors
// (original work)
// Copyright 2024 The Erigon Authors
// (modifications)
// Copyright 2026 The Cardano-Go Authors
// (ledger-state adaptation)
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

// Package math holds small overflow-aware integer helpers shared by the
// pots, rewards and pparams packages.
package math

import (
	"math/bits"
)

// Integer limit values.
const (
	MaxUint32 = 1<<32 - 1
	MaxUint64 = 1<<64 - 1
)

// SafeAdd returns x+y and whether the addition overflowed.
func SafeAdd(x, y uint64) (uint64, bool) {
	sum, carryOut := bits.Add64(x, y, 0)
	return sum, carryOut != 0
}

// SafeSub returns x-y and whether the subtraction underflowed.
func SafeSub(x, y uint64) (uint64, bool) {
	diff, borrowOut := bits.Sub64(x, y, 0)
	return diff, borrowOut != 0
}

// SafeMul returns x*y and whether the multiplication overflowed.
func SafeMul(x, y uint64) (uint64, bool) {
	hi, lo := bits.Mul64(x, y)
	return lo, hi != 0
}

// AbsoluteDifference returns |x-y| without risking underflow.
func AbsoluteDifference(x, y uint64) uint64 {
	if x > y {
		return x - y
	}
	return y - x
}

// MustAdd adds x and y, panicking on overflow. Used on pots/pot-delta
// arithmetic where an overflow is an invariant violation (spec: "saturating
// semantics on underflow, treated as an invariant violation if triggered").
func MustAdd(x, y uint64) uint64 {
	sum, overflow := SafeAdd(x, y)
	if overflow {
		panic("ledgerstate: uint64 addition overflow")
	}
	return sum
}

// MustSub subtracts y from x, panicking on underflow.
func MustSub(x, y uint64) uint64 {
	diff, underflow := SafeSub(x, y)
	if underflow {
		panic("ledgerstate: uint64 subtraction underflow")
	}
	return diff
}

// CeilDiv divides x by y, rounding up.
func CeilDiv(x, y int) int {
	if y == 0 {
		return 0
	}
	return (x + y - 1) / y
}
