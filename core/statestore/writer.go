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

package statestore

import (
	"github.com/cardano-go/ledgerstate/core/kv"
	"github.com/cardano-go/ledgerstate/core/ledgererror"
	"github.com/cardano-go/ledgerstate/core/types"
)

// Writer scopes every mutation a single pipeline pass makes to one kv.RwTx.
// A Writer is not safe for concurrent use; callers obtain one per
// db.Update call (spec §4.3 "one writer transaction live at any time").
type Writer struct {
	tx kv.RwTx
}

func NewWriter(tx kv.RwTx) *Writer { return &Writer{tx: tx} }

// ConsumedOutput pairs a consumed input with the output it referenced, as
// read immediately before deletion. The pipeline forwards these to the WAL
// so a later undo can re-create them without consulting the archive.
type ConsumedOutput struct {
	Ref    types.TxORef
	Output types.EraTaggedOutput
}

// GetUTxO reads one entry without consuming it.
func (w *Writer) GetUTxO(ref types.TxORef) (types.EraTaggedOutput, bool, error) {
	key := ref.Bytes()
	raw, err := w.tx.GetOne(TableUTxo, key[:])
	if err != nil {
		return types.EraTaggedOutput{}, false, ledgererror.Wrap(component, ledgererror.KindState, "get utxo", err)
	}
	if raw == nil {
		return types.EraTaggedOutput{}, false, nil
	}
	var out types.EraTaggedOutput
	if err := types.UnmarshalCBOR(raw, &out); err != nil {
		return types.EraTaggedOutput{}, false, ledgererror.Wrap(component, ledgererror.KindDecoding, "decode utxo", err)
	}
	return out, true, nil
}

// ApplyUTxOSet writes every produced output and deletes every consumed
// input, returning the (ref, prior-output) pairs it deleted so the caller
// can hand them to the WAL for undo. An input absent from the UTxO set is
// an invariant violation: the decoder only emits inputs it resolved.
func (w *Writer) ApplyUTxOSet(produced []types.Output, producedTx types.TxHash, consumed []types.TxORef) ([]ConsumedOutput, error) {
	resolved := make([]ConsumedOutput, 0, len(consumed))
	for _, ref := range consumed {
		out, present, err := w.GetUTxO(ref)
		if err != nil {
			return nil, err
		}
		if !present {
			return nil, ledgererror.New(component, ledgererror.KindInvariantViolation, "consumed input absent from utxo set: "+ref.String())
		}
		key := ref.Bytes()
		if err := w.tx.Delete(TableUTxo, key[:]); err != nil {
			return nil, ledgererror.Wrap(component, ledgererror.KindState, "delete utxo", err)
		}
		resolved = append(resolved, ConsumedOutput{Ref: ref, Output: out})
	}
	for _, o := range produced {
		ref := types.TxORef{TxHash: producedTx, Index: o.Index}
		key := ref.Bytes()
		b, err := types.MarshalCBOR(o.Raw)
		if err != nil {
			return nil, ledgererror.Wrap(component, ledgererror.KindDecoding, "encode utxo", err)
		}
		if err := w.tx.Put(TableUTxo, key[:], b); err != nil {
			return nil, ledgererror.Wrap(component, ledgererror.KindState, "put utxo", err)
		}
	}
	return resolved, nil
}

// UndoUTxOSet reverses ApplyUTxOSet given the same produced/resolved sets:
// deletes what was produced, restores what was consumed.
func (w *Writer) UndoUTxOSet(produced []types.Output, producedTx types.TxHash, resolved []ConsumedOutput) error {
	for _, o := range produced {
		ref := types.TxORef{TxHash: producedTx, Index: o.Index}
		key := ref.Bytes()
		if err := w.tx.Delete(TableUTxo, key[:]); err != nil {
			return ledgererror.Wrap(component, ledgererror.KindState, "delete utxo (undo)", err)
		}
	}
	for _, c := range resolved {
		key := c.Ref.Bytes()
		b, err := types.MarshalCBOR(c.Output)
		if err != nil {
			return ledgererror.Wrap(component, ledgererror.KindDecoding, "encode utxo (undo)", err)
		}
		if err := w.tx.Put(TableUTxo, key[:], b); err != nil {
			return ledgererror.Wrap(component, ledgererror.KindState, "put utxo (undo)", err)
		}
	}
	return nil
}

// SetCursor records the chain point this writer's commit will advance
// state to (spec §4.2 "a writer records the new cursor on commit"). The
// pipeline calls this once per roll unit, after the last block's entities
// and UTxO delta have been applied, just before the RwTx commits.
func (w *Writer) SetCursor(point types.ChainPoint) error {
	b, err := types.MarshalCBOR(point)
	if err != nil {
		return ledgererror.Wrap(component, ledgererror.KindDecoding, "encode cursor", err)
	}
	if err := w.tx.Put(TableMeta, metaKeyCursor, b); err != nil {
		return ledgererror.Wrap(component, ledgererror.KindState, "put cursor", err)
	}
	return nil
}

func (w *Writer) loadRaw(ns types.Namespace, key types.EntityKey) ([]byte, error) {
	raw, err := w.tx.GetOne(TableEntity, entityStoreKey(ns, key))
	if err != nil {
		return nil, ledgererror.Wrap(component, ledgererror.KindState, "get entity", err)
	}
	return raw, nil
}

func (w *Writer) storeRaw(ns types.Namespace, key types.EntityKey, raw []byte) error {
	if raw == nil {
		if err := w.tx.Delete(TableEntity, entityStoreKey(ns, key)); err != nil {
			return ledgererror.Wrap(component, ledgererror.KindState, "delete entity", err)
		}
		return nil
	}
	if err := w.tx.Put(TableEntity, entityStoreKey(ns, key), raw); err != nil {
		return ledgererror.Wrap(component, ledgererror.KindState, "put entity", err)
	}
	return nil
}

// loadTyped decodes the value at (ns, key) into *T. The zero value of T is
// never returned as "present": a present-but-zero entity and an absent one
// are distinguished by the bool, not by the pointer's pointee.
func loadTyped[T any](w *Writer, ns types.Namespace, key types.EntityKey) (*T, bool, error) {
	raw, err := w.loadRaw(ns, key)
	if err != nil {
		return nil, false, err
	}
	if raw == nil {
		return nil, false, nil
	}
	var v T
	if err := types.UnmarshalCBOR(raw, &v); err != nil {
		return nil, false, ledgererror.Wrap(component, ledgererror.KindDecoding, "decode entity", err)
	}
	return &v, true, nil
}

// storeTyped persists v, or deletes the entry if v is nil. Because v is a
// concrete *T here rather than a boxed any, a nil v compares equal to nil
// directly; there is no typed-nil-in-interface trap to fall into.
func storeTyped[T any](w *Writer, ns types.Namespace, key types.EntityKey, v *T) error {
	if v == nil {
		return w.storeRaw(ns, key, nil)
	}
	b, err := types.MarshalCBOR(v)
	if err != nil {
		return ledgererror.Wrap(component, ledgererror.KindDecoding, "encode entity", err)
	}
	return w.storeRaw(ns, key, b)
}

// ApplyAccountDelta loads the addressed account, applies d, and persists
// the result (or deletes it, for deregistration).
func (w *Writer) ApplyAccountDelta(d *types.AccountDelta) error {
	existing, present, err := loadTyped[types.AccountState](w, types.NSAccounts, d.Key())
	if err != nil {
		return err
	}
	next, err := d.Apply(existing, present)
	if err != nil {
		return err
	}
	return storeTyped(w, types.NSAccounts, d.Key(), next)
}

func (w *Writer) ApplyPoolDelta(d *types.PoolDelta) error {
	existing, present, err := loadTyped[types.PoolState](w, types.NSPools, d.Key())
	if err != nil {
		return err
	}
	next, err := d.Apply(existing, present)
	if err != nil {
		return err
	}
	return storeTyped(w, types.NSPools, d.Key(), next)
}

func (w *Writer) ApplyDRepDelta(d *types.DRepDelta) error {
	existing, present, err := loadTyped[types.DRepState](w, types.NSDReps, d.Key())
	if err != nil {
		return err
	}
	next, err := d.Apply(existing, present)
	if err != nil {
		return err
	}
	return storeTyped(w, types.NSDReps, d.Key(), next)
}

func (w *Writer) ApplyProposalDelta(d *types.ProposalDelta) error {
	existing, present, err := loadTyped[types.ProposalState](w, types.NSProposals, d.Key())
	if err != nil {
		return err
	}
	next, err := d.Apply(existing, present)
	if err != nil {
		return err
	}
	return storeTyped(w, types.NSProposals, d.Key(), next)
}

func (w *Writer) ApplyEpochDelta(d *types.EpochDelta) error {
	existing, present, err := loadTyped[types.EpochState](w, types.NSEpochs, d.Key())
	if err != nil {
		return err
	}
	next, err := d.Apply(existing, present)
	if err != nil {
		return err
	}
	return storeTyped(w, types.NSEpochs, d.Key(), next)
}

func (w *Writer) ApplyPendingRewardDelta(d *types.PendingRewardDelta) error {
	existing, present, err := loadTyped[types.PendingRewardState](w, types.NSPendingRewards, d.Key())
	if err != nil {
		return err
	}
	next, err := d.Apply(existing, present)
	if err != nil {
		return err
	}
	return storeTyped(w, types.NSPendingRewards, d.Key(), next)
}

// UndoAccountDelta restores the entity state captured by a prior Apply.
// Callers must not call this for a non-undoable delta (d.Undoable()
// false); Engine.Rollback's undoDelta checks this before reaching here and
// skips such deltas. Boundary effects are not re-derived on rollback (spec
// §9 "undo gaps"; see engine.ErrCrossesEpochBoundary).
func (w *Writer) UndoAccountDelta(d *types.AccountDelta) error {
	prior, ok := d.Undo()
	if !ok {
		return ledgererror.New(component, ledgererror.KindInvariantViolation, "attempted undo of non-undoable account delta")
	}
	return storeTyped(w, types.NSAccounts, d.Key(), prior)
}

func (w *Writer) UndoPoolDelta(d *types.PoolDelta) error {
	prior, ok := d.Undo()
	if !ok {
		return ledgererror.New(component, ledgererror.KindInvariantViolation, "attempted undo of non-undoable pool delta")
	}
	return storeTyped(w, types.NSPools, d.Key(), prior)
}

func (w *Writer) UndoDRepDelta(d *types.DRepDelta) error {
	prior, ok := d.Undo()
	if !ok {
		return ledgererror.New(component, ledgererror.KindInvariantViolation, "attempted undo of non-undoable drep delta")
	}
	return storeTyped(w, types.NSDReps, d.Key(), prior)
}

func (w *Writer) UndoProposalDelta(d *types.ProposalDelta) error {
	prior, ok := d.Undo()
	if !ok {
		return ledgererror.New(component, ledgererror.KindInvariantViolation, "attempted undo of non-undoable proposal delta")
	}
	return storeTyped(w, types.NSProposals, d.Key(), prior)
}

func (w *Writer) UndoEpochDelta(d *types.EpochDelta) error {
	prior, ok := d.Undo()
	if !ok {
		return ledgererror.New(component, ledgererror.KindInvariantViolation, "attempted undo of non-undoable epoch delta")
	}
	return storeTyped(w, types.NSEpochs, d.Key(), prior)
}

func (w *Writer) UndoPendingRewardDelta(d *types.PendingRewardDelta) error {
	prior, ok := d.Undo()
	if !ok {
		return ledgererror.New(component, ledgererror.KindInvariantViolation, "attempted undo of non-undoable pending reward delta")
	}
	return storeTyped(w, types.NSPendingRewards, d.Key(), prior)
}
