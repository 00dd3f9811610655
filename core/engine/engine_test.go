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

package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardano-go/ledgerstate/core/archive"
	"github.com/cardano-go/ledgerstate/core/index"
	"github.com/cardano-go/ledgerstate/core/kv"
	"github.com/cardano-go/ledgerstate/core/kv/kvmemory"
	"github.com/cardano-go/ledgerstate/core/pipeline"
	"github.com/cardano-go/ledgerstate/core/statestore"
	"github.com/cardano-go/ledgerstate/core/types"
	"github.com/cardano-go/ledgerstate/core/wal"
)

// fakeDecoder treats raw bytes as an opaque registry key, and decodes a
// stored UTxO's RawCBOR straight back into a types.Output — a stand-in
// for the real era-aware wire codec, which this package never touches.
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

type noopBoundary struct{}

func (noopBoundary) RunBoundary(ctx context.Context, boundarySlot uint64) error { return nil }

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
	stores  pipeline.Stores
	decoder fakeDecoder
	engine  *Engine
	bus     *TipBus
}

func newTestRig(t *testing.T, blocks map[string]types.Block) *testRig {
	t.Helper()
	stateDB := kvmemory.New(statestore.Tables())
	archiveDB := kvmemory.New(archive.Tables())
	indexDB := kvmemory.New(index.Tables())
	walDB := kvmemory.New(wal.Tables())

	require.NoError(t, stateDB.Update(context.Background(), func(tx kv.RwTx) error {
		w := statestore.NewWriter(tx)
		if err := w.ApplyEpochDelta(&types.EpochDelta{
			Marker: types.MarkerGo,
			Op:     types.EpochOpInit,
			New: types.EpochState{
				Number:  0,
				PParams: types.EpochScheduled[types.PParamsSet]{Live: types.NewPParamsSet()},
			},
		}); err != nil {
			return err
		}
		return w.PutEraSummaries([]types.EraSummary{{
			ProtocolMajor: 2,
			Start:         types.EraBound{Epoch: 0, Slot: 0, Timestamp: 0},
			EpochLength:   1_000_000,
			SlotLength:    1000,
			PParams:       types.NewPParamsSet(),
		}})
	}))

	stores := pipeline.Stores{
		State:   stateDB,
		Archive: archiveDB,
		Index:   indexDB,
		Wal:     wal.Open(walDB),
	}
	decoder := fakeDecoder{blocks: blocks}
	bus := NewTipBus()
	return &testRig{
		stores:  stores,
		decoder: decoder,
		bus:     bus,
		engine:  New(stores, decoder, noopBoundary{}, bus, 4),
	}
}

func mkBlock(slot uint64, hashByte byte, txs []types.Tx) types.Block {
	return types.Block{Slot: slot, Hash: txHash(hashByte), Txs: txs}
}

func TestApplyBlockAdvancesCursorAndNotifies(t *testing.T) {
	block := mkBlock(10, 0x10, nil)
	raw := []byte("b10")
	rig := newTestRig(t, map[string]types.Block{string(raw): block})

	sub := rig.bus.subscribe()
	defer sub.Unsubscribe()

	slot, err := rig.engine.ApplyBlock(context.Background(), raw)
	require.NoError(t, err)
	require.Equal(t, uint64(10), slot)

	ev := <-sub.Events
	require.Equal(t, TipApply, ev.Kind)
	require.Equal(t, uint64(10), ev.Point.Slot)

	require.NoError(t, rig.stores.State.View(context.Background(), func(tx kv.Tx) error {
		cp, present, err := statestore.NewReader(tx).GetCursor()
		require.NoError(t, err)
		require.True(t, present)
		require.Equal(t, uint64(10), cp.Slot)
		return nil
	}))
}

func TestImportBatchSkipsWalAndTip(t *testing.T) {
	block := mkBlock(5, 0x20, nil)
	raw := []byte("bulk")
	rig := newTestRig(t, map[string]types.Block{string(raw): block})

	last, err := rig.engine.ImportBatch(context.Background(), [][]byte{raw})
	require.NoError(t, err)
	require.Equal(t, uint64(5), last)

	_, found, err := rig.stores.Wal.FindTip(context.Background())
	require.NoError(t, err)
	require.False(t, found)
}

// TestRollbackUnwindsToTargetPoint reproduces the rollback scenario: apply
// blocks at slots 10,20,30,40,50, then roll back to slot 20. The WAL tail
// must hold Undo(50),Undo(40),Undo(30),Mark(20); the state cursor must
// read back as slot 20; the archive must hold only slots {10,20}; and
// re-applying 30,40,50 must reproduce the pre-rollback UTxO set exactly.
func TestRollbackUnwindsToTargetPoint(t *testing.T) {
	cred := types.Credential{3}
	slots := []uint64{10, 20, 30, 40, 50}
	rawFor := map[uint64][]byte{}
	blocks := map[string]types.Block{}
	outputsBySlot := map[uint64]types.Output{}

	for i, slot := range slots {
		out := mkOutput(0, 1000+uint64(i), &cred)
		outputsBySlot[slot] = out
		tx := types.Tx{Hash: txHash(byte(slot)), Outputs: []types.Output{out}}
		raw := []byte(fmt.Sprintf("block-%d", slot))
		rawFor[slot] = raw
		blocks[string(raw)] = mkBlock(slot, byte(slot), []types.Tx{tx})
	}

	rig := newTestRig(t, blocks)
	for _, slot := range slots {
		_, err := rig.engine.ApplyBlock(context.Background(), rawFor[slot])
		require.NoError(t, err)
	}

	// Snapshot the pre-rollback UTxO set for the final equivalence check.
	refFor := func(slot uint64) types.TxORef {
		return types.TxORef{TxHash: txHash(byte(slot)), Index: 0}
	}
	var preRollback []types.TxORef
	require.NoError(t, rig.stores.State.View(context.Background(), func(tx kv.Tx) error {
		r := statestore.NewReader(tx)
		for _, slot := range slots {
			_, present, err := r.GetUTxO(refFor(slot))
			require.NoError(t, err)
			if present {
				preRollback = append(preRollback, refFor(slot))
			}
		}
		return nil
	}))
	require.Len(t, preRollback, 5)

	target := types.SpecificPoint(20, txHash(20))
	require.NoError(t, rig.engine.Rollback(context.Background(), target))

	// WAL tail: Undo(50), Undo(40), Undo(30), Mark(20).
	var tailKinds []wal.LogValueKind
	var tailSlots []uint64
	require.NoError(t, rig.stores.Wal.IterFrom(context.Background(), 5, func(r wal.Record) (bool, error) {
		tailKinds = append(tailKinds, r.Value.Kind)
		tailSlots = append(tailSlots, r.Point.Slot)
		return true, nil
	}))
	require.Equal(t, []wal.LogValueKind{wal.LogUndo, wal.LogUndo, wal.LogUndo, wal.LogMark}, tailKinds)
	require.Equal(t, []uint64{50, 40, 30, 20}, tailSlots)

	// State cursor reads back at slot 20.
	require.NoError(t, rig.stores.State.View(context.Background(), func(tx kv.Tx) error {
		cp, present, err := statestore.NewReader(tx).GetCursor()
		require.NoError(t, err)
		require.True(t, present)
		require.Equal(t, uint64(20), cp.Slot)
		return nil
	}))

	// Rolled-back outputs are gone; slots 10 and 20 survive.
	require.NoError(t, rig.stores.State.View(context.Background(), func(tx kv.Tx) error {
		r := statestore.NewReader(tx)
		for _, slot := range []uint64{30, 40, 50} {
			_, present, err := r.GetUTxO(refFor(slot))
			require.NoError(t, err)
			require.False(t, present)
		}
		for _, slot := range []uint64{10, 20} {
			_, present, err := r.GetUTxO(refFor(slot))
			require.NoError(t, err)
			require.True(t, present)
		}
		return nil
	}))

	// Archive holds only slots {10, 20}.
	require.NoError(t, rig.stores.Archive.View(context.Background(), func(tx kv.Tx) error {
		var seen []uint64
		err := archive.IterBlocksFrom(tx, 0, func(p types.ChainPoint, raw []byte) (bool, error) {
			seen = append(seen, p.Slot)
			return true, nil
		})
		require.NoError(t, err)
		require.Equal(t, []uint64{10, 20}, seen)
		return nil
	}))

	// Re-applying the undone blocks restores the original UTxO set.
	for _, slot := range []uint64{30, 40, 50} {
		_, err := rig.engine.ApplyBlock(context.Background(), rawFor[slot])
		require.NoError(t, err)
	}
	require.NoError(t, rig.stores.State.View(context.Background(), func(tx kv.Tx) error {
		r := statestore.NewReader(tx)
		for _, slot := range slots {
			_, present, err := r.GetUTxO(refFor(slot))
			require.NoError(t, err)
			require.True(t, present)
		}
		return nil
	}))
}
