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

// Package engine wires core/pipeline, core/boundary and core/wal into the
// four external operations a block source and its consumers drive the
// ledger through (spec §6): import_batch, apply_block, rollback and
// watch_tip. Everything here runs on the single control thread spec §5
// describes; Engine.mu exists only to make that discipline explicit: it
// serializes callers that arrive concurrently, one after another, rather
// than allowing concurrent mutation.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/cardano-go/ledgerstate/core/archive"
	"github.com/cardano-go/ledgerstate/core/chainsummary"
	"github.com/cardano-go/ledgerstate/core/index"
	"github.com/cardano-go/ledgerstate/core/kv"
	"github.com/cardano-go/ledgerstate/core/ledgererror"
	"github.com/cardano-go/ledgerstate/core/pipeline"
	"github.com/cardano-go/ledgerstate/core/statestore"
	"github.com/cardano-go/ledgerstate/core/types"
	"github.com/cardano-go/ledgerstate/core/visitors"
	"github.com/cardano-go/ledgerstate/core/wal"
)

const component = "engine"

// ErrCrossesEpochBoundary is returned by Rollback when the target point
// lies in an earlier epoch than the current tip. Wrap/start effects are
// not themselves recorded in the WAL (several of their EpochDelta ops are
// declared non-undoable placeholders — core/types' Undoable() docs), so
// unwinding block-level deltas alone cannot restore pre-boundary epoch
// state; the documented recovery path is `ledgerd doctor rebuild-stores`,
// not an in-place undo.
var ErrCrossesEpochBoundary = fmt.Errorf("%s: rollback target crosses an epoch boundary, rebuild state instead", component)

// Engine drives the roll pipeline and boundary runner against one set of
// backing stores, exposing the block-source-facing operations spec §6
// names. It owns two RollPipeline instances sharing the same Stores,
// Decoder and Notifier but different Config: bulk trusts its source and
// skips WAL/tip bookkeeping (spec §4.5 "Batching discipline"), live keeps
// both for crash-safety and subscriber delivery.
type Engine struct {
	stores   pipeline.Stores
	decoder  pipeline.Decoder
	boundary pipeline.BoundaryRunner
	bus      *TipBus
	reads    *ReadPool

	live *pipeline.RollPipeline
	bulk *pipeline.RollPipeline

	mu sync.Mutex
}

// New builds an Engine. boundary is almost always a *core/boundary.Runner,
// declared here through pipeline.BoundaryRunner so this package never
// needs to import core/boundary directly.
func New(stores pipeline.Stores, decoder pipeline.Decoder, boundary pipeline.BoundaryRunner, bus *TipBus, readConcurrency int) *Engine {
	bulkCfg := pipeline.DefaultConfig()
	bulkCfg.BulkImport = true
	return &Engine{
		stores:   stores,
		decoder:  decoder,
		boundary: boundary,
		bus:      bus,
		reads:    NewReadPool(readConcurrency),
		live:     pipeline.New(stores, decoder, bus, pipeline.DefaultConfig()),
		bulk:     pipeline.New(stores, decoder, bus, bulkCfg),
	}
}

// ReadPool exposes the engine's bounded read-side façade pool, e.g. for a
// chainsummary query or a doctor dump that must not starve the write path.
func (e *Engine) ReadPool() *ReadPool { return e.reads }

func (e *Engine) loadSummary(ctx context.Context) (chainsummary.Summary, error) {
	var eras []types.EraSummary
	err := e.stores.State.View(ctx, func(tx kv.Tx) error {
		list, present, err := statestore.GetEraSummaries(statestore.NewReader(tx))
		if err != nil {
			return err
		}
		if !present {
			return ledgererror.New(component, ledgererror.KindInvariantViolation, "no era summaries recorded, store is not bootstrapped")
		}
		eras = list
		return nil
	})
	if err != nil {
		return chainsummary.Summary{}, err
	}
	return chainsummary.New(eras), nil
}

func (e *Engine) decodeBatch(raw [][]byte) ([]pipeline.RawBlock, error) {
	batch := make([]pipeline.RawBlock, len(raw))
	for i, rb := range raw {
		b, err := e.decoder.DecodeBlock(rb)
		if err != nil {
			return nil, ledgererror.Wrap(component, ledgererror.KindDecoding, "decode block for point resolution", err)
		}
		batch[i] = pipeline.RawBlock{Point: types.SpecificPoint(b.Slot, b.Hash), Raw: rb}
	}
	return batch, nil
}

// ImportBatch runs a trusted, already-finalized batch of raw blocks
// through the bulk pipeline (spec §6 import_batch), skipping WAL commit
// and tip notification, and returns the slot of the last block applied.
func (e *Engine) ImportBatch(ctx context.Context, raw [][]byte) (uint64, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	batch, err := e.decodeBatch(raw)
	if err != nil {
		return 0, err
	}
	summary, err := e.loadSummary(ctx)
	if err != nil {
		return 0, err
	}
	if err := e.bulk.Sweep(ctx, summary, e.boundary, batch); err != nil {
		return 0, err
	}
	return batch[len(batch)-1].Point.Slot, nil
}

// ApplyBlock runs one live block through the pipeline, appending it to the
// WAL, committing state/archive/index, and broadcasting the new tip (spec
// §6 apply_block). Returns its slot.
func (e *Engine) ApplyBlock(ctx context.Context, raw []byte) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	batch, err := e.decodeBatch([][]byte{raw})
	if err != nil {
		return 0, err
	}
	summary, err := e.loadSummary(ctx)
	if err != nil {
		return 0, err
	}
	if err := e.live.Sweep(ctx, summary, e.boundary, batch); err != nil {
		return 0, err
	}
	return batch[0].Point.Slot, nil
}

// WatchTip subscribes to tip events from the chain point after `from`,
// replaying the archived/recorded blocks after it before handing the
// caller a live subscription — so nothing delivered during the replay can
// be missed or duplicated across the handoff to live broadcast (spec §6
// "replay-then-live-stream semantics on subscribe").
func (e *Engine) WatchTip(ctx context.Context, from types.ChainPoint, deliver func(TipEvent) error) (*Subscription, error) {
	e.mu.Lock()
	sub := e.bus.subscribe()
	e.mu.Unlock()

	fromSlot := uint64(0)
	if !from.IsOrigin {
		fromSlot = from.Slot + 1
	}
	err := e.stores.Archive.View(ctx, func(tx kv.Tx) error {
		return archive.IterBlocksFrom(tx, fromSlot, func(point types.ChainPoint, rawCBOR []byte) (bool, error) {
			if err := deliver(TipEvent{Kind: TipApply, Point: point, Raw: rawCBOR}); err != nil {
				return false, err
			}
			return true, nil
		})
	})
	if err != nil {
		sub.Unsubscribe()
		return nil, err
	}
	return sub, nil
}

// Rollback unwinds every applied block after point, in reverse commit
// order, restoring the UTxO set, entity state, archive and secondary
// indexes to what they were immediately after point, then appends a Mark
// record to the WAL at point (spec §6 rollback; scenario 3's worked
// example). It refuses to cross an epoch boundary; see
// ErrCrossesEpochBoundary.
func (e *Engine) Rollback(ctx context.Context, point types.ChainPoint) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	targetSeq, found, err := e.stores.Wal.LocatePoint(ctx, point)
	if err != nil {
		return err
	}
	if !point.IsOrigin && !found {
		return ledgererror.New(component, ledgererror.KindInvariantViolation, "rollback target not found in WAL")
	}
	if point.IsOrigin {
		targetSeq = 0
	}

	tip, present, err := e.stores.Wal.FindTip(ctx)
	if err != nil {
		return err
	}
	if !present {
		return ledgererror.New(component, ledgererror.KindInvariantViolation, "rollback against an empty WAL")
	}
	if tip.Point == point {
		return nil
	}

	if err := e.checkSameEpoch(ctx, point, tip.Point); err != nil {
		return err
	}

	var records []wal.Record
	startSeq := targetSeq
	if !point.IsOrigin {
		startSeq = targetSeq + 1
	}
	// An earlier rollback leaves Undo records after the blocks it unwound;
	// each cancels the latest Apply still outstanding, so only blocks that
	// are still applied get unwound here.
	if err := e.stores.Wal.IterFrom(ctx, startSeq, func(r wal.Record) (bool, error) {
		switch r.Value.Kind {
		case wal.LogApply:
			records = append(records, r)
		case wal.LogUndo:
			if n := len(records); n > 0 && records[n-1].Point == r.Point {
				records = records[:n-1]
			}
		}
		return true, nil
	}); err != nil {
		return err
	}

	for i := len(records) - 1; i >= 0; i-- {
		if err := e.undoRecord(ctx, records[i]); err != nil {
			return err
		}
		if _, err := e.stores.Wal.Append(ctx, records[i].Point, wal.LogValue{Kind: wal.LogUndo, RawBlock: records[i].Value.RawBlock, Deltas: records[i].Value.Deltas, ResolvedInputs: records[i].Value.ResolvedInputs}); err != nil {
			return err
		}
		e.bus.NotifyUndo(records[i].Point, records[i].Value.RawBlock)
	}

	if _, err := e.stores.Wal.Append(ctx, point, wal.LogValue{Kind: wal.LogMark}); err != nil {
		return err
	}

	return e.stores.State.Update(ctx, func(tx kv.RwTx) error {
		return statestore.NewWriter(tx).SetCursor(point)
	})
}

// checkSameEpoch refuses a rollback whose target lies in an earlier epoch
// than the current tip; see ErrCrossesEpochBoundary.
func (e *Engine) checkSameEpoch(ctx context.Context, point, tip types.ChainPoint) error {
	summary, err := e.loadSummary(ctx)
	if err != nil {
		return err
	}
	tipEpoch, _, err := summary.SlotEpoch(tip.Slot)
	if err != nil {
		return err
	}
	targetSlot := uint64(0)
	if !point.IsOrigin {
		targetSlot = point.Slot
	}
	targetEpoch, _, err := summary.SlotEpoch(targetSlot)
	if err != nil {
		return err
	}
	if point.IsOrigin || targetEpoch < tipEpoch {
		return ErrCrossesEpochBoundary
	}
	return nil
}

// undoRecord reverses one Apply WAL record's effect on state, archive and
// index, mirroring RollUnit's phases 4/6/9/10 in reverse. Rollback hands
// it only the Apply records still in effect past its target; a record of
// any other kind carries nothing to reverse and is ignored.
func (e *Engine) undoRecord(ctx context.Context, rec wal.Record) error {
	if rec.Value.Kind != wal.LogApply {
		return nil
	}
	block, err := e.decoder.DecodeBlock(rec.Value.RawBlock)
	if err != nil {
		return ledgererror.Wrap(component, ledgererror.KindDecoding, "decode block for undo", err)
	}

	resolvedByRef := make(map[types.TxORef]types.EraTaggedOutput, len(rec.Value.ResolvedInputs))
	for _, ri := range rec.Value.ResolvedInputs {
		resolvedByRef[ri.Ref] = ri.Output
	}

	if err := e.stores.State.Update(ctx, func(tx kv.RwTx) error {
		w := statestore.NewWriter(tx)
		for _, blob := range rec.Value.Deltas {
			d, err := types.DecodeDelta(blob)
			if err != nil {
				return err
			}
			if err := undoDelta(w, d); err != nil {
				return err
			}
		}
		for _, t := range block.Txs {
			consumed := make([]statestore.ConsumedOutput, 0, len(t.Inputs))
			for _, in := range t.Inputs {
				out, ok := resolvedByRef[in.Ref]
				if !ok {
					return ledgererror.New(component, ledgererror.KindInvariantViolation, "undo missing resolved input: "+in.Ref.String())
				}
				consumed = append(consumed, statestore.ConsumedOutput{Ref: in.Ref, Output: out})
			}
			if err := w.UndoUTxOSet(t.Outputs, t.Hash, consumed); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if err := e.stores.Archive.Update(ctx, func(tx kv.RwTx) error {
		return archive.DeleteBlock(tx, rec.Point)
	}); err != nil {
		return err
	}

	return e.stores.Index.Update(ctx, func(tx kv.RwTx) error {
		w := index.NewWriter(tx)
		for _, t := range block.Txs {
			for _, o := range t.Outputs {
				ref := types.TxORef{TxHash: t.Hash, Index: o.Index}
				if err := w.UnindexOutput(ref, visitors.EntriesForOutput(o)); err != nil {
					return err
				}
			}
			for _, in := range t.Inputs {
				raw, ok := resolvedByRef[in.Ref]
				if !ok {
					continue
				}
				consumedOut, err := e.decoder.DecodeOutput(raw)
				if err != nil {
					return ledgererror.Wrap(component, ledgererror.KindDecoding, "decode resolved input for reindex", err)
				}
				if err := w.IndexOutput(in.Ref, visitors.EntriesForOutput(consumedOut)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// undoDelta type-switches d to its concrete variant and calls the matching
// statestore UndoXDelta method. Non-undoable ops are no-ops, by design
// (core/types' Undoable() docs, spec §9 "Undo gaps").
func undoDelta(w *statestore.Writer, d types.Delta) error {
	if !d.Undoable() {
		return nil
	}
	switch v := d.(type) {
	case *types.AccountDelta:
		return w.UndoAccountDelta(v)
	case *types.PoolDelta:
		return w.UndoPoolDelta(v)
	case *types.DRepDelta:
		return w.UndoDRepDelta(v)
	case *types.ProposalDelta:
		return w.UndoProposalDelta(v)
	case *types.EpochDelta:
		return w.UndoEpochDelta(v)
	case *types.PendingRewardDelta:
		return w.UndoPendingRewardDelta(v)
	default:
		return ledgererror.New(component, ledgererror.KindInvariantViolation, "undo: unknown delta variant")
	}
}
