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

package visitors

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardano-go/ledgerstate/core/index"
	"github.com/cardano-go/ledgerstate/core/types"
)

func TestAccountsVisitorRegisterAndDelegate(t *testing.T) {
	ctx := NewBlockCtx(100, 5, types.NewPParamsSet())
	v := AccountsVisitor{}
	cred := types.Credential{1}

	require.NoError(t, v.VisitCert(ctx, types.Tx{}, types.Certificate{Kind: types.CertStakeReg, Credential: cred}))
	require.Len(t, ctx.AccountDeltas, 1)
	require.Equal(t, types.AccOpRegister, ctx.AccountDeltas[0].Op)

	pool := types.PoolID{2}
	require.NoError(t, v.VisitCert(ctx, types.Tx{}, types.Certificate{Kind: types.CertStakeDelegate, Credential: cred, Pool: pool}))
	require.Len(t, ctx.AccountDeltas, 2)
	require.Equal(t, types.AccOpDelegatePool, ctx.AccountDeltas[1].Op)
	require.Equal(t, pool, *ctx.AccountDeltas[1].Pool)
	require.Equal(t, uint64(6), ctx.AccountDeltas[1].ScheduleEpoch)
}

func TestAssetsVisitorTagOutput(t *testing.T) {
	ctx := NewBlockCtx(1, 0, types.NewPParamsSet())
	v := AssetsVisitor{}
	cred := types.Credential{9}
	ref := types.TxORef{Index: 0}
	v.TagOutput(ctx, ref, types.Output{Address: []byte("addr"), StakeCredential: &cred})

	entries := ctx.OutputEntries[ref]
	require.Len(t, entries, 2)
	dims := map[index.Dimension]bool{}
	for _, e := range entries {
		dims[e.Dim] = true
	}
	require.True(t, dims[index.DimAddress])
	require.True(t, dims[index.DimStake])
}

func TestAssetsVisitorMintTagsPolicyAndAsset(t *testing.T) {
	ctx := NewBlockCtx(1, 0, types.NewPParamsSet())
	v := AssetsVisitor{}
	var policy [28]byte
	policy[0] = 5
	require.NoError(t, v.VisitMint(ctx, types.Tx{}, types.MintEvent{Policy: policy, Asset: []byte("token"), Amount: 10}))
	require.Len(t, ctx.TxEntries, 2)
	require.Equal(t, index.DimPolicy, ctx.TxEntries[0].Dim)
	require.Equal(t, index.DimAsset, ctx.TxEntries[1].Dim)
}

func TestPoolsVisitorBlockMintedOnIssuer(t *testing.T) {
	ctx := NewBlockCtx(1, 0, types.NewPParamsSet())
	v := PoolsVisitor{}
	pool := types.PoolID{3}
	require.NoError(t, v.VisitRoot(ctx, types.Block{IssuerPool: &pool}))
	require.Len(t, ctx.PoolDeltas, 1)
	require.Equal(t, types.PoolOpBlockMinted, ctx.PoolDeltas[0].Op)
	require.Equal(t, pool, ctx.PoolDeltas[0].Operator)
}

func TestEpochStateVisitorAccumulatesFeesAndBlockCount(t *testing.T) {
	ctx := NewBlockCtx(1, 0, types.NewPParamsSet())
	v := EpochStateVisitor{}
	require.NoError(t, v.VisitRoot(ctx, types.Block{Txs: []types.Tx{{Fee: 100}, {Fee: 50}}}))
	require.Len(t, ctx.EpochDeltas, 2)
	require.Equal(t, types.EpochOpBlockMinted, ctx.EpochDeltas[0].Op)
	require.Equal(t, types.EpochOpAddFees, ctx.EpochDeltas[1].Op)
	require.EqualValues(t, 150, ctx.EpochDeltas[1].Fees)
}

func TestDRepsVisitorRegisterAndActivity(t *testing.T) {
	ctx := NewBlockCtx(1, 0, types.NewPParamsSet())
	v := DRepsVisitor{}
	id := types.DRepID{4}
	require.NoError(t, v.VisitCert(ctx, types.Tx{}, types.Certificate{Kind: types.CertDRepReg, DRep: &id}))
	require.Len(t, ctx.DRepDeltas, 1)
	require.Equal(t, types.DRepOpRegister, ctx.DRepDeltas[0].Op)
}
