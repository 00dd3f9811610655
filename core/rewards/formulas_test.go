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

package rewards

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardano-go/ledgerstate/core/types"
)

func TestOptimalPoolRewardMaximalCase(t *testing.T) {
	const (
		rewardsPot       = 35_730_783_712_305
		poolStake        = 100_000_000_000_000
		declaredPledge   = 100_000_000_000_000
		circulatingAsDen = 30_035_967_612_278_277
		nOpt             = 150
	)
	a0 := big.NewRat(3, 10)
	sigma := new(big.Rat).SetFrac64(poolStake, circulatingAsDen)
	pledgeRel := new(big.Rat).SetFrac64(declaredPledge, circulatingAsDen)

	got := OptimalPoolReward(rewardsPot, sigma, pledgeRel, a0, nOpt)
	require.InDelta(t, float64(98_354_332_965), float64(got), float64(98_354_332_965)*0.01)
}

func TestApparentPerformanceEdgeCaseZeroStake(t *testing.T) {
	pbar := ApparentPerformance(5, 100, new(big.Rat))
	require.Equal(t, int64(0), pbar.Num().Int64())
}

func TestApparentPerformanceFullShare(t *testing.T) {
	sigma := big.NewRat(1, 10)
	pbar := ApparentPerformance(10, 100, sigma)
	require.Equal(t, big.NewRat(1, 1).Cmp(pbar), 0)
}

func TestPoolTotalRewardZeroedOnUnderPledge(t *testing.T) {
	pbar := big.NewRat(1, 1)
	got := PoolTotalReward(1_000_000, pbar, 10, 20)
	require.Equal(t, uint64(0), got)
}

func TestOperatorShareTakesEverythingBelowCost(t *testing.T) {
	margin := types.Margin{Num: 1, Den: 10}
	got := OperatorShare(100, 500, margin, big.NewRat(1, 2), big.NewRat(1, 2))
	require.Equal(t, uint64(100), got)
}

func TestOperatorShareSplitsAboveCost(t *testing.T) {
	margin := types.Margin{Num: 1, Den: 5} // 20%
	poolRewards := uint64(1_000_000)
	cost := uint64(340_000)
	pledgeRel := big.NewRat(1, 10)
	stakeRel := big.NewRat(1, 5)

	got := OperatorShare(poolRewards, cost, margin, pledgeRel, stakeRel)
	require.Greater(t, got, cost)
	require.LessOrEqual(t, got, poolRewards)
}

func TestDelegatorShareProRata(t *testing.T) {
	got := DelegatorShare(250, 1000, 4000)
	require.Equal(t, uint64(1000), got)
}

func TestDelegatorShareZeroPoolStake(t *testing.T) {
	require.Equal(t, uint64(0), DelegatorShare(10, 0, 4000))
}
