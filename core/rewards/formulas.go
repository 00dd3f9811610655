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

// Package rewards implements the Shelley-style reward-sharing formulas
// (spec §4.7) and the rupd work unit that applies them against a stake
// snapshot. All intermediate arithmetic is exact rational (math/big.Rat);
// only the final per-pool and per-account amounts are floored to uint64.
package rewards

import (
	"math/big"

	"github.com/cardano-go/ledgerstate/core/types"
)

func floorToUint64(r *big.Rat) uint64 {
	if r.Sign() <= 0 {
		return 0
	}
	q := new(big.Int).Quo(r.Num(), r.Denom())
	return q.Uint64()
}

func ratU64(v uint64) *big.Rat { return new(big.Rat).SetUint64(v) }

func minRat(a, b *big.Rat) *big.Rat {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// OptimalPoolReward computes R_opt (spec §4.7 step 1): the reward a pool
// would earn at 100% performance, given its relative stake sigma and
// relative pledge p against the total rewards pot R.
func OptimalPoolReward(rewardsPot uint64, sigma, pledgeRel *big.Rat, a0 *big.Rat, nOpt uint64) uint64 {
	if nOpt == 0 {
		return 0
	}
	z0 := new(big.Rat).SetFrac(big.NewInt(1), new(big.Int).SetUint64(nOpt))
	sigmaP := minRat(sigma, z0)
	pledgeP := minRat(pledgeRel, z0)

	// inner = (sigma' - pledge'*(z0-sigma')/z0) / z0
	diff := new(big.Rat).Sub(z0, sigmaP)
	num := new(big.Rat).Mul(pledgeP, diff)
	num.Quo(num, z0)
	inner := new(big.Rat).Sub(sigmaP, num)
	inner.Quo(inner, z0)

	// pledgeTerm = pledge' * a0 * inner
	pledgeTerm := new(big.Rat).Mul(pledgeP, a0)
	pledgeTerm.Mul(pledgeTerm, inner)

	sum := new(big.Rat).Add(sigmaP, pledgeTerm)

	onePlusA0 := new(big.Rat).Add(big.NewRat(1, 1), a0)
	rOpt := new(big.Rat).Mul(ratU64(rewardsPot), sum)
	rOpt.Quo(rOpt, onePlusA0)

	return floorToUint64(rOpt)
}

// ApparentPerformance computes pbar (spec §4.7 step 2). This implementation
// always takes the d < 4/5 branch: the data model carries no
// decentralization parameter (post-Shelley networks run fully
// decentralized, d=0), so a pool's performance is always judged against
// its share of active stake rather than clamped to 1.
func ApparentPerformance(blocksMinted, totalBlocksThisEpoch uint64, sigmaActive *big.Rat) *big.Rat {
	if sigmaActive.Sign() == 0 {
		return new(big.Rat)
	}
	n := uint64(1)
	if totalBlocksThisEpoch > n {
		n = totalBlocksThisEpoch
	}
	beta := new(big.Rat).SetFrac(new(big.Int).SetUint64(blocksMinted), new(big.Int).SetUint64(n))
	return new(big.Rat).Quo(beta, sigmaActive)
}

// PoolTotalReward computes pool_rewards (spec §4.7 step 3): R_opt scaled by
// apparent performance, zeroed out if the pool's live (owner-controlled)
// pledge has fallen below its declared pledge.
func PoolTotalReward(rOpt uint64, pbar *big.Rat, livePledge, declaredPledge uint64) uint64 {
	if livePledge < declaredPledge {
		return 0
	}
	return floorToUint64(new(big.Rat).Mul(ratU64(rOpt), pbar))
}

// OperatorShare computes the fixed-cost-plus-margin cut of poolRewards the
// pool operator keeps (spec §4.7 step 4).
func OperatorShare(poolRewards, cost uint64, margin types.Margin, pledgeRel, stakeRel *big.Rat) uint64 {
	if poolRewards <= cost {
		return poolRewards
	}
	if stakeRel.Sign() == 0 {
		return poolRewards
	}
	m := margin.Rat()
	oneMinusM := new(big.Rat).Sub(big.NewRat(1, 1), m)
	sOverSigma := new(big.Rat).Quo(pledgeRel, stakeRel)
	factor := new(big.Rat).Add(m, new(big.Rat).Mul(oneMinusM, sOverSigma))

	remaining := new(big.Rat).Sub(ratU64(poolRewards), ratU64(cost))
	share := floorToUint64(new(big.Rat).Mul(remaining, factor))
	return cost + share
}

// DelegatorShare computes one delegator's pro-rata cut of the amount left
// over once the operator's share has been taken (spec §4.7 step 5).
func DelegatorShare(delegatorStake, poolTotalStake, distributable uint64) uint64 {
	if poolTotalStake == 0 {
		return 0
	}
	frac := new(big.Rat).SetFrac(new(big.Int).SetUint64(delegatorStake), new(big.Int).SetUint64(poolTotalStake))
	return floorToUint64(new(big.Rat).Mul(frac, ratU64(distributable)))
}
