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

package archive

import (
	"github.com/cardano-go/ledgerstate/core/kv"
	"github.com/cardano-go/ledgerstate/core/types"
)

// Writer scopes one pipeline pass's archive writes to a single kv.RwTx,
// mirroring core/statestore's Writer.
type Writer struct {
	tx       kv.RwTx
	compress bool
}

// NewWriter returns a Writer; compress controls whether block bodies are
// zlib-compressed (spec's storage-size/throughput tradeoff, exposed as a
// config option rather than hardcoded).
func NewWriter(tx kv.RwTx, compress bool) *Writer {
	return &Writer{tx: tx, compress: compress}
}

func (w *Writer) PutBlock(point types.ChainPoint, rawCBOR []byte) error {
	return PutBlock(w.tx, point, rawCBOR, w.compress)
}

func (w *Writer) DeleteBlock(point types.ChainPoint) error {
	return DeleteBlock(w.tx, point)
}

func (w *Writer) AppendLog(ns types.Namespace, key types.EntityKey, slot uint64, payload []byte) error {
	return AppendLog(w.tx, ns, key, slot, payload)
}

func (w *Writer) DeleteLog(ns types.Namespace, key types.EntityKey, slot uint64) error {
	return DeleteLog(w.tx, ns, key, slot)
}
