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

package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardano-go/ledgerstate/core/archive"
	"github.com/cardano-go/ledgerstate/core/index"
	"github.com/cardano-go/ledgerstate/core/kv"
	"github.com/cardano-go/ledgerstate/core/kv/kvmemory"
	"github.com/cardano-go/ledgerstate/core/statestore"
	"github.com/cardano-go/ledgerstate/core/types"
	"github.com/cardano-go/ledgerstate/core/wal"
)

// fakeDecoder looks blocks up by the raw bytes they were registered under,
// and decodes a stored UTxO's raw CBOR straight back into a types.Output:
// in these tests the "wire format" is just the Output's own canonical
// CBOR encoding, since the real era-aware codec is a decoder concern this
// package never touches.
type fakeDecoder struct {
	blocks map[string]types.Block
}

func (f fakeDecoder) DecodeBlock(raw []byte) (types.Block, error) {
	b, ok := f.blocks[string(raw)]
	if !ok {
		return types.Block{}, fmt.Errorf("fakeDecoder: unknown block %x", raw)
	}
	return b, nil
}

func (f fakeDecoder) DecodeOutput(out types.EraTaggedOutput) (types.Output, error) {
	var o types.Output
	if err := types.UnmarshalCBOR(out.RawCBOR, &o); err != nil {
		return types.Output{}, err
	}
	return o, nil
}

type fakeNotifier struct {
	applied []types.ChainPoint
}

func (f *fakeNotifier) NotifyApply(p types.ChainPoint, raw []byte) {
	f.applied = append(f.applied, p)
}

func mkOutput(idx uint32, coin uint64, cred *types.Credential) types.Output {
	o := types.Output{Index: idx, Coin: coin, Address: []byte{0xAA, byte(idx)}, StakeCredential: cred}
	b, err := types.MarshalCBOR(o)
	if err != nil {
		panic(err)
	}
	o.Raw = types.EraTaggedOutput{Era: 5, RawCBOR: b}
	return o
}

func txHash(b byte) types.TxHash {
	var h types.TxHash
	h[0] = b
	return h
}

type testRig struct {
	stores   Stores
	notifier *fakeNotifier
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	stateDB := kvmemory.New(statestore.Tables())
	archiveDB := kvmemory.New(archive.Tables())
	indexDB := kvmemory.New(index.Tables())
	walDB := kvmemory.New(wal.Tables())

	err := stateDB.Update(context.Background(), func(tx kv.RwTx) error {
		w := statestore.NewWriter(tx)
		return w.ApplyEpochDelta(&types.EpochDelta{
			Marker: types.MarkerGo,
			Op:     types.EpochOpInit,
			New: types.EpochState{
				Number:  10,
				PParams: types.EpochScheduled[types.PParamsSet]{Live: types.NewPParamsSet()},
			},
		})
	})
	require.NoError(t, err)

	return &testRig{
		stores: Stores{
			State:   stateDB,
			Archive: archiveDB,
			Index:   indexDB,
			Wal:     wal.Open(walDB),
		},
		notifier: &fakeNotifier{},
	}
}

func TestRollUnitProducesAndConsumesAcrossBatch(t *testing.T) {
	rig := newTestRig(t)
	cred := types.Credential{7}

	producingTx := types.Tx{
		Hash:    txHash(1),
		Outputs: []types.Output{mkOutput(0, 1000, &cred)},
	}
	block1 := types.Block{Slot: 100, Hash: txHash(0x10), Txs: []types.Tx{producingTx}}
	raw1 := []byte("block-1")

	ref := types.TxORef{TxHash: producingTx.Hash, Index: 0}
	consumingTx := types.Tx{
		Hash:    txHash(2),
		Inputs:  []types.Input{{Ref: ref}},
		Outputs: []types.Output{mkOutput(0, 1000, nil)},
	}
	block2 := types.Block{Slot: 101, Hash: txHash(0x20), Txs: []types.Tx{consumingTx}}
	raw2 := []byte("block-2")

	decoder := fakeDecoder{blocks: map[string]types.Block{
		string(raw1): block1,
		string(raw2): block2,
	}}

	p := New(rig.stores, decoder, rig.notifier, DefaultConfig())

	batch := []RawBlock{
		{Point: types.SpecificPoint(100, block1.Hash), Raw: raw1},
		{Point: types.SpecificPoint(101, block2.Hash), Raw: raw2},
	}
	require.NoError(t, p.RollUnit(context.Background(), batch))

	// The first output was consumed within the same batch: gone from
	// state, but the second block's own output lives.
	err := rig.stores.State.View(context.Background(), func(tx kv.Tx) error {
		r := statestore.NewReader(tx)
		_, present, err := r.GetUTxO(ref)
		require.NoError(t, err)
		require.False(t, present)

		ref2 := types.TxORef{TxHash: consumingTx.Hash, Index: 0}
		_, present2, err := r.GetUTxO(ref2)
		require.NoError(t, err)
		require.True(t, present2)
		return nil
	})
	require.NoError(t, err)

	// Tip was notified for both blocks, in order.
	require.Len(t, rig.notifier.applied, 2)
	require.Equal(t, uint64(100), rig.notifier.applied[0].Slot)
	require.Equal(t, uint64(101), rig.notifier.applied[1].Slot)

	// Archive holds both block bodies.
	err = rig.stores.Archive.View(context.Background(), func(tx kv.Tx) error {
		raw, present, err := archive.GetBlock(tx, types.SpecificPoint(100, block1.Hash))
		require.NoError(t, err)
		require.True(t, present)
		require.Equal(t, raw1, raw)
		return nil
	})
	require.NoError(t, err)

	// WAL recorded one Apply record per block.
	tip, found, err := rig.stores.Wal.FindTip(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, uint64(1), tip.Sequence)
}

func TestRollUnitSkipsWalAndTipDuringBulkImport(t *testing.T) {
	rig := newTestRig(t)
	block := types.Block{Slot: 5, Hash: txHash(0x30)}
	raw := []byte("bulk-block")
	decoder := fakeDecoder{blocks: map[string]types.Block{string(raw): block}}

	cfg := DefaultConfig()
	cfg.BulkImport = true
	p := New(rig.stores, decoder, rig.notifier, cfg)

	batch := []RawBlock{{Point: types.SpecificPoint(5, block.Hash), Raw: raw}}
	require.NoError(t, p.RollUnit(context.Background(), batch))

	require.Empty(t, rig.notifier.applied)
	_, found, err := rig.stores.Wal.FindTip(context.Background())
	require.NoError(t, err)
	require.False(t, found)
}

func TestRollUnitTagsOutputInIndex(t *testing.T) {
	rig := newTestRig(t)
	cred := types.Credential{9}
	tx := types.Tx{Hash: txHash(3), Outputs: []types.Output{mkOutput(0, 500, &cred)}}
	block := types.Block{Slot: 1, Hash: txHash(0x40), Txs: []types.Tx{tx}}
	raw := []byte("indexed-block")
	decoder := fakeDecoder{blocks: map[string]types.Block{string(raw): block}}

	p := New(rig.stores, decoder, rig.notifier, DefaultConfig())
	batch := []RawBlock{{Point: types.SpecificPoint(1, block.Hash), Raw: raw}}
	require.NoError(t, p.RollUnit(context.Background(), batch))

	ref := types.TxORef{TxHash: tx.Hash, Index: 0}
	err := rig.stores.Index.View(context.Background(), func(kvtx kv.Tx) error {
		var found bool
		err := index.QueryUTxOIndex(kvtx, index.DimStake, cred[:], func(got types.TxORef) (bool, error) {
			if got == ref {
				found = true
			}
			return true, nil
		})
		require.NoError(t, err)
		require.True(t, found)
		return nil
	})
	require.NoError(t, err)
}

type fixedBoundary struct{ end uint64 }

// EndSlot reports end for every slot up to end; a later slot is treated as
// lying in an epoch that ends at that slot, so only one boundary exists.
func (f fixedBoundary) EndSlot(slot uint64) (uint64, error) {
	if slot > f.end {
		return slot, nil
	}
	return f.end, nil
}

type recordingBoundaryRunner struct{ ran []uint64 }

func (r *recordingBoundaryRunner) RunBoundary(ctx context.Context, boundarySlot uint64) error {
	r.ran = append(r.ran, boundarySlot)
	return nil
}

func TestSweepSplitsAtEpochBoundary(t *testing.T) {
	rig := newTestRig(t)
	b1 := types.Block{Slot: 10, Hash: txHash(0x50)}
	b2 := types.Block{Slot: 20, Hash: txHash(0x60)}
	raw1, raw2 := []byte("s1"), []byte("s2")
	decoder := fakeDecoder{blocks: map[string]types.Block{string(raw1): b1, string(raw2): b2}}
	p := New(rig.stores, decoder, rig.notifier, DefaultConfig())

	batch := []RawBlock{
		{Point: types.SpecificPoint(10, b1.Hash), Raw: raw1},
		{Point: types.SpecificPoint(20, b2.Hash), Raw: raw2},
	}
	runner := &recordingBoundaryRunner{}
	require.NoError(t, p.Sweep(context.Background(), fixedBoundary{end: 15}, runner, batch))

	require.Equal(t, []uint64{15}, runner.ran)
	require.Len(t, rig.notifier.applied, 2)
}
