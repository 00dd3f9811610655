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

package index

import (
	"github.com/cardano-go/ledgerstate/core/kv"
	"github.com/cardano-go/ledgerstate/core/ledgererror"
	"github.com/cardano-go/ledgerstate/core/types"
)

// Entry is one (dimension, lookup key) tag the pipeline attaches to either
// a produced TxORef (ClassUTxO dimensions) or a slot (ClassArchive
// dimensions). Writer.Apply dispatches on d.Class().
type Entry struct {
	Dim       Dimension
	LookupKey []byte
}

// Writer scopes one pipeline pass's index writes to a single kv.RwTx.
type Writer struct {
	tx kv.RwTx
}

func NewWriter(tx kv.RwTx) *Writer { return &Writer{tx: tx} }

// IndexOutput tags ref with every UTxO-class entry. Called once per
// produced output, with the entries the relevant visitors derived from it
// (address, payment credential, stake credential, policy/asset per mint,
// datum hash, script hash).
func (w *Writer) IndexOutput(ref types.TxORef, entries []Entry) error {
	for _, e := range entries {
		if e.Dim.Class() != ClassUTxO {
			return ledgererror.New(component, ledgererror.KindInvariantViolation, "archive-class dimension passed to IndexOutput: "+e.Dim.String())
		}
		if err := PutUTxOIndex(w.tx, e.Dim, e.LookupKey, ref); err != nil {
			return err
		}
	}
	return nil
}

// UnindexOutput reverses IndexOutput, used both when an output is consumed
// (so its dead index entries don't linger) and on undo.
func (w *Writer) UnindexOutput(ref types.TxORef, entries []Entry) error {
	for _, e := range entries {
		if err := DeleteUTxOIndex(w.tx, e.Dim, e.LookupKey, ref); err != nil {
			return err
		}
	}
	return nil
}

// IndexTx tags slot with every archive-class entry a transaction produced
// (spent-txo, account-certs, metadata labels).
func (w *Writer) IndexTx(slot uint64, entries []Entry) error {
	for _, e := range entries {
		if e.Dim.Class() != ClassArchive {
			return ledgererror.New(component, ledgererror.KindInvariantViolation, "utxo-class dimension passed to IndexTx: "+e.Dim.String())
		}
		if err := PutArchiveIndex(w.tx, e.Dim, e.LookupKey, slot); err != nil {
			return err
		}
	}
	return nil
}

// UnindexTx reverses IndexTx, used on undo.
func (w *Writer) UnindexTx(slot uint64, entries []Entry) error {
	for _, e := range entries {
		if err := DeleteArchiveIndex(w.tx, e.Dim, e.LookupKey, slot); err != nil {
			return err
		}
	}
	return nil
}
