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
	"errors"

	"github.com/cardano-go/ledgerstate/core/archive"
	"github.com/cardano-go/ledgerstate/core/index"
	"github.com/cardano-go/ledgerstate/core/kv"
	"github.com/cardano-go/ledgerstate/core/ledgererror"
	"github.com/cardano-go/ledgerstate/core/statestore"
	"github.com/cardano-go/ledgerstate/core/types"
	"github.com/cardano-go/ledgerstate/core/visitors"
	"github.com/cardano-go/ledgerstate/core/wal"
)

const component = "pipeline"

// Decoder performs the era-aware, I/O-free parse phase 1 needs (spec §4.5
// "Decode blocks ... No I/O"), plus the UTxO-bytes decode phase 3 needs
// once a resolved output's raw CBOR has been loaded from state. The wire
// format itself is a decoder concern, out of this package's scope, so
// RollPipeline takes one as a dependency rather than growing one.
type Decoder interface {
	DecodeBlock(raw []byte) (types.Block, error)
	DecodeOutput(out types.EraTaggedOutput) (types.Output, error)
}

// TipNotifier receives phase 11's per-block tip events, in commit order.
type TipNotifier interface {
	NotifyApply(point types.ChainPoint, raw []byte)
}

// RawBlock is one roll-unit batch element.
type RawBlock struct {
	Point types.ChainPoint
	Raw   []byte
}

// RollPipeline drives the eleven-phase roll work unit (spec §4.5) over
// Stores, using Decoder to parse blocks and UTxO bytes and Notifier to
// broadcast new tips. One RollPipeline is not safe for concurrent
// RollUnit calls: the single-writer discipline is enforced by the
// underlying kv.DB.Update calls, but BlockCtx accumulation is sequential
// by design (spec §5 "a single control thread drives the work-unit
// lifecycle").
type RollPipeline struct {
	Stores   Stores
	Decoder  Decoder
	Notifier TipNotifier
	Config   Config

	accounts visitors.AccountsVisitor
	assets   visitors.AssetsVisitor
	epoch    visitors.EpochStateVisitor
	dreps    visitors.DRepsVisitor
	pools    visitors.PoolsVisitor
}

func New(stores Stores, decoder Decoder, notifier TipNotifier, cfg Config) *RollPipeline {
	return &RollPipeline{Stores: stores, Decoder: decoder, Notifier: notifier, Config: cfg}
}

// blockWork is the per-block working state threaded through phases 4-11.
type blockWork struct {
	point    types.ChainPoint
	raw      []byte
	block    types.Block
	ctx      *visitors.BlockCtx
	consumed []types.TxORef
}

// RollUnit processes one contiguous batch of blocks through all eleven
// phases. Any failure aborts the unit cleanly: nothing short of the WAL
// append (phase 5) has touched persistent state, and the WAL is itself
// recoverable (spec §4.5 preamble).
func (p *RollPipeline) RollUnit(ctx context.Context, batch []RawBlock) error {
	if len(batch) == 0 {
		return nil
	}

	// Phase 1: decode blocks. No I/O.
	works := make([]*blockWork, len(batch))
	for i, rb := range batch {
		b, err := p.Decoder.DecodeBlock(rb.Raw)
		if err != nil {
			return ledgererror.Wrap(component, ledgererror.KindDecoding, "decode block", err)
		}
		works[i] = &blockWork{point: rb.Point, raw: rb.Raw, block: b}
	}

	// Phase 2: load UTxOs. Inputs produced earlier in this same batch are
	// resolved from an in-memory map instead of state; everything else is
	// read from state in one pass.
	producedInBatch := make(map[types.TxORef]types.Output)
	for _, w := range works {
		for _, tx := range w.block.Txs {
			for _, o := range tx.Outputs {
				producedInBatch[types.TxORef{TxHash: tx.Hash, Index: o.Index}] = o
			}
		}
	}

	var toLoad []types.TxORef
	for _, w := range works {
		for _, tx := range w.block.Txs {
			for _, in := range tx.Inputs {
				if _, ok := producedInBatch[in.Ref]; ok {
					continue
				}
				toLoad = append(toLoad, in.Ref)
			}
		}
	}

	loadedRaw := make(map[types.TxORef]types.EraTaggedOutput, len(toLoad))
	var epochNumber uint64
	pparams := types.NewPParamsSet()
	err := p.Stores.State.View(ctx, func(tx kv.Tx) error {
		r := statestore.NewReader(tx)
		for _, ref := range toLoad {
			out, present, err := r.GetUTxO(ref)
			if err != nil {
				return err
			}
			if !present {
				return ledgererror.New(component, ledgererror.KindInvariantViolation, "consumed input absent from utxo set: "+ref.String())
			}
			loadedRaw[ref] = out
		}
		es, present, err := statestore.GetEpoch(r, types.MarkerGo)
		if err != nil {
			return err
		}
		if present {
			epochNumber = es.Number
			pparams = es.PParams.Live
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Phase 3: decode loaded UTxOs once, per batch.
	resolved := make(map[types.TxORef]types.Output, len(loadedRaw)+len(producedInBatch))
	rawByRef := make(map[types.TxORef]types.EraTaggedOutput, len(loadedRaw)+len(producedInBatch))
	for ref, raw := range loadedRaw {
		out, err := p.Decoder.DecodeOutput(raw)
		if err != nil {
			return ledgererror.Wrap(component, ledgererror.KindDecoding, "decode utxo", err)
		}
		out.Index = ref.Index
		resolved[ref] = out
		rawByRef[ref] = raw
	}
	for ref, out := range producedInBatch {
		resolved[ref] = out
		rawByRef[ref] = out.Raw
	}

	// Phase 4: compute delta. Each visitor runs its full pass over a block
	// before the next visitor starts, in the fixed order accounts, assets,
	// epoch state, dreps, pools (spec §4.5 phase 4); accounts and epoch
	// state always run, the rest are configurable.
	for _, w := range works {
		w.ctx = visitors.NewBlockCtx(w.block.Slot, epochNumber, pparams)
		if err := p.runAccounts(w, resolved); err != nil {
			return err
		}
		if p.Config.EnableAssets {
			if err := p.runAssets(w); err != nil {
				return err
			}
		}
		if err := p.runEpochState(w); err != nil {
			return err
		}
		if p.Config.EnableDReps {
			if err := p.runDReps(w); err != nil {
				return err
			}
		}
		if p.Config.EnablePools {
			if err := p.runPools(w); err != nil {
				return err
			}
		}
	}

	// Phase 5: commit WAL. Skipped during bulk import (spec's "batching
	// discipline"): the source is already finalized, so there is nothing
	// to undo.
	if !p.Config.BulkImport {
		for _, w := range works {
			deltas, err := encodeAllDeltas(w.ctx)
			if err != nil {
				return err
			}
			inputs := make([]wal.ResolvedInput, 0, len(w.consumed))
			for _, ref := range w.consumed {
				inputs = append(inputs, wal.ResolvedInput{Ref: ref, Output: rawByRef[ref]})
			}
			value := wal.LogValue{Kind: wal.LogApply, RawBlock: w.raw, Deltas: deltas, ResolvedInputs: inputs}
			if _, err := p.Stores.Wal.Append(ctx, w.point, value); err != nil {
				return err
			}
		}
	}

	// Phases 6-8: load entities, apply entities, commit state. The
	// RwTx itself plays the role of phase 6's in-memory map: MDBX gives
	// read-your-writes within one transaction, so there is no need for a
	// separate load-then-apply staging structure.
	err = p.Stores.State.Update(ctx, func(tx kv.RwTx) error {
		w := statestore.NewWriter(tx)
		for _, bw := range works {
			for _, t := range bw.block.Txs {
				consumed := make([]types.TxORef, len(t.Inputs))
				for i, in := range t.Inputs {
					consumed[i] = in.Ref
				}
				if _, err := w.ApplyUTxOSet(t.Outputs, t.Hash, consumed); err != nil {
					return err
				}
			}
			if err := applyBlockDeltas(w, bw.ctx); err != nil {
				return err
			}
		}
		return w.SetCursor(works[len(works)-1].point)
	})
	if err != nil {
		return err
	}

	// Phase 9: commit archive.
	err = p.Stores.Archive.Update(ctx, func(tx kv.RwTx) error {
		w := archive.NewWriter(tx, p.Config.Compress)
		for _, bw := range works {
			if err := w.PutBlock(bw.point, bw.raw); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Phase 10: commit indexes. Consumed outputs are unindexed using the
	// same deterministic tagging the output was indexed under when
	// produced (spec §4.4 "the store inserts or removes the composite
	// keys").
	err = p.Stores.Index.Update(ctx, func(tx kv.RwTx) error {
		w := index.NewWriter(tx)
		for _, bw := range works {
			for ref, entries := range bw.ctx.OutputEntries {
				if err := w.IndexOutput(ref, entries); err != nil {
					return err
				}
			}
			if len(bw.ctx.TxEntries) > 0 {
				if err := w.IndexTx(bw.block.Slot, bw.ctx.TxEntries); err != nil {
					return err
				}
			}
			for _, ref := range bw.consumed {
				out, ok := resolved[ref]
				if !ok {
					continue
				}
				if err := w.UnindexOutput(ref, visitors.EntriesForOutput(out)); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Phase 11: notify tip. Skipped during bulk import alongside the WAL.
	if !p.Config.BulkImport && p.Notifier != nil {
		for _, bw := range works {
			p.Notifier.NotifyApply(bw.point, bw.raw)
		}
	}

	return nil
}

func (p *RollPipeline) runAccounts(w *blockWork, resolved map[types.TxORef]types.Output) error {
	if err := p.accounts.VisitRoot(w.ctx, w.block); err != nil {
		return err
	}
	for _, tx := range w.block.Txs {
		for _, in := range tx.Inputs {
			out, ok := resolved[in.Ref]
			if !ok {
				return ledgererror.New(component, ledgererror.KindInvariantViolation, "unresolved input: "+in.Ref.String())
			}
			w.consumed = append(w.consumed, in.Ref)
			if out.StakeCredential != nil {
				p.accounts.AdjustStakeFromInput(w.ctx, *out.StakeCredential, out.Coin)
			}
			if err := p.accounts.VisitInput(w.ctx, tx, in.Ref, out.Raw); err != nil {
				return err
			}
		}
		for _, o := range tx.Outputs {
			if o.StakeCredential != nil {
				p.accounts.AdjustStakeFromOutput(w.ctx, *o.StakeCredential, o.Coin)
			}
			if err := p.accounts.VisitOutput(w.ctx, tx, o.Index, o.Raw); err != nil {
				return err
			}
		}
		for _, cert := range tx.Certs {
			if err := p.accounts.VisitCert(w.ctx, tx, cert); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *RollPipeline) runAssets(w *blockWork) error {
	for _, tx := range w.block.Txs {
		for _, in := range tx.Inputs {
			p.assets.TagConsumedInput(w.ctx, in.Ref)
		}
		for _, o := range tx.Outputs {
			ref := types.TxORef{TxHash: tx.Hash, Index: o.Index}
			p.assets.TagOutput(w.ctx, ref, o)
		}
		for _, m := range tx.Mints {
			if err := p.assets.VisitMint(w.ctx, tx, m); err != nil {
				return err
			}
		}
		for _, cert := range tx.Certs {
			if err := p.assets.VisitCert(w.ctx, tx, cert); err != nil {
				return err
			}
		}
		if len(tx.Metadata) > 0 {
			p.assets.TagMetadata(w.ctx, tx.Metadata)
		}
	}
	return nil
}

func (p *RollPipeline) runEpochState(w *blockWork) error {
	if err := p.epoch.VisitRoot(w.ctx, w.block); err != nil {
		return err
	}
	for _, tx := range w.block.Txs {
		for _, cert := range tx.Certs {
			if err := p.epoch.VisitCert(w.ctx, tx, cert); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *RollPipeline) runDReps(w *blockWork) error {
	for _, tx := range w.block.Txs {
		for _, cert := range tx.Certs {
			if err := p.dreps.VisitCert(w.ctx, tx, cert); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *RollPipeline) runPools(w *blockWork) error {
	if err := p.pools.VisitRoot(w.ctx, w.block); err != nil {
		return err
	}
	for _, tx := range w.block.Txs {
		for _, cert := range tx.Certs {
			if err := p.pools.VisitCert(w.ctx, tx, cert); err != nil {
				return err
			}
		}
	}
	return nil
}

// encodeAllDeltas flattens every delta kind in ctx into the opaque blob
// list the WAL record carries, in a fixed type order (arrival order within
// a type is already preserved by the slices themselves).
func encodeAllDeltas(ctx *visitors.BlockCtx) ([][]byte, error) {
	var out [][]byte
	for _, d := range ctx.AccountDeltas {
		b, err := types.EncodeDelta(d)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	for _, d := range ctx.PoolDeltas {
		b, err := types.EncodeDelta(d)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	for _, d := range ctx.DRepDeltas {
		b, err := types.EncodeDelta(d)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	for _, d := range ctx.ProposalDeltas {
		b, err := types.EncodeDelta(d)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	for _, d := range ctx.EpochDeltas {
		b, err := types.EncodeDelta(d)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	for _, d := range ctx.PendingRewardDelta {
		b, err := types.EncodeDelta(d)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// applyBlockDeltas applies every delta queued in ctx to the state writer,
// in the same fixed type order encodeAllDeltas serializes them in.
func applyBlockDeltas(w *statestore.Writer, ctx *visitors.BlockCtx) error {
	for _, d := range ctx.AccountDeltas {
		if err := w.ApplyAccountDelta(d); err != nil && !errors.Is(err, types.ErrSoftSkip) {
			return err
		}
	}
	for _, d := range ctx.PoolDeltas {
		if err := w.ApplyPoolDelta(d); err != nil && !errors.Is(err, types.ErrSoftSkip) {
			return err
		}
	}
	for _, d := range ctx.DRepDeltas {
		if err := w.ApplyDRepDelta(d); err != nil && !errors.Is(err, types.ErrSoftSkip) {
			return err
		}
	}
	for _, d := range ctx.ProposalDeltas {
		if err := w.ApplyProposalDelta(d); err != nil && !errors.Is(err, types.ErrSoftSkip) {
			return err
		}
	}
	for _, d := range ctx.EpochDeltas {
		if err := w.ApplyEpochDelta(d); err != nil && !errors.Is(err, types.ErrSoftSkip) {
			return err
		}
	}
	for _, d := range ctx.PendingRewardDelta {
		if err := w.ApplyPendingRewardDelta(d); err != nil && !errors.Is(err, types.ErrSoftSkip) {
			return err
		}
	}
	return nil
}
