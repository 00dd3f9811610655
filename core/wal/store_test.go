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

package wal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardano-go/ledgerstate/core/kv/kvmemory"
	"github.com/cardano-go/ledgerstate/core/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db := kvmemory.New(Tables())
	return Open(db)
}

func point(slot uint64, b byte) types.ChainPoint {
	var h types.TxHash
	h[0] = b
	return types.SpecificPoint(slot, h)
}

func TestAppendAssignsSequentialSequences(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seq0, err := s.Append(ctx, types.Origin, LogValue{Kind: LogMark})
	require.NoError(t, err)
	require.Equal(t, uint64(0), seq0)

	seq1, err := s.Append(ctx, point(1, 1), LogValue{Kind: LogApply, RawBlock: []byte("a")})
	require.NoError(t, err)
	require.Equal(t, uint64(1), seq1)

	tip, found, err := s.FindTip(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, seq1, tip.Sequence)

	start, found, err := s.FindStart(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, seq0, start.Sequence)
}

func TestLocatePoint(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := point(5, 9)
	seq, err := s.Append(ctx, p, LogValue{Kind: LogApply})
	require.NoError(t, err)

	got, found, err := s.LocatePoint(ctx, p)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, seq, got)

	_, found, err = s.LocatePoint(ctx, point(6, 9))
	require.NoError(t, err)
	require.False(t, found)
}

func TestIterFromAndRange(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	for i := uint64(0); i < 5; i++ {
		_, err := s.Append(ctx, point(i, byte(i)), LogValue{Kind: LogApply})
		require.NoError(t, err)
	}

	var seqs []uint64
	err := s.IterFrom(ctx, 2, func(r Record) (bool, error) {
		seqs = append(seqs, r.Sequence)
		return true, nil
	})
	require.NoError(t, err)
	require.Equal(t, []uint64{2, 3, 4}, seqs)

	seqs = nil
	err = s.IterRange(ctx, 1, 3, func(r Record) error {
		seqs = append(seqs, r.Sequence)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2, 3}, seqs)
}

func TestResetToTruncatesTail(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	for i := uint64(0); i < 5; i++ {
		_, err := s.Append(ctx, point(i, byte(i)), LogValue{Kind: LogApply})
		require.NoError(t, err)
	}

	require.NoError(t, s.ResetTo(ctx, 2))

	tip, found, err := s.FindTip(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, uint64(2), tip.Sequence)

	_, found, err = s.LocatePoint(ctx, point(3, 3))
	require.NoError(t, err)
	require.False(t, found)

	seq, err := s.Append(ctx, point(3, 99), LogValue{Kind: LogApply})
	require.NoError(t, err)
	require.Equal(t, uint64(3), seq)
}

func TestTruncateFrontAdvancesStart(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	for i := uint64(0); i < 5; i++ {
		_, err := s.Append(ctx, point(i, byte(i)), LogValue{Kind: LogApply})
		require.NoError(t, err)
	}

	require.NoError(t, s.TruncateFront(ctx, 3))

	start, found, err := s.FindStart(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, uint64(3), start.Sequence)

	_, found, err = s.LocatePoint(ctx, point(1, 1))
	require.NoError(t, err)
	require.False(t, found)
}

func TestWatchTipClosesOnChange(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	sig := s.WatchTip()

	select {
	case <-sig:
		t.Fatal("tip signal fired before any change")
	default:
	}

	_, err := s.Append(ctx, point(1, 1), LogValue{Kind: LogApply})
	require.NoError(t, err)

	select {
	case <-sig:
	default:
		t.Fatal("tip signal did not fire after append")
	}
}
