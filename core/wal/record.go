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

// Package wal is the append-only write-ahead log every chain point passes
// through before it is reflected in the state, archive or index stores.
// It knows nothing about entity semantics: Apply/Undo payloads are opaque
// blobs produced and consumed by core/pipeline and core/statestore.
package wal

import (
	"fmt"

	"github.com/cardano-go/ledgerstate/core/types"
)

type LogValueKind uint8

const (
	LogApply LogValueKind = iota
	LogUndo
	LogMark
)

func (k LogValueKind) String() string {
	switch k {
	case LogApply:
		return "apply"
	case LogUndo:
		return "undo"
	case LogMark:
		return "mark"
	default:
		return "unknown"
	}
}

// ResolvedInput pairs a consumed transaction input with the output it
// referenced, as observed at apply time. Undo needs these to re-produce
// the outputs a block's inputs consumed, since the UTxO set itself no
// longer holds them once a later block has run.
type ResolvedInput struct {
	Ref    types.TxORef
	Output types.EraTaggedOutput
}

// LogValue is the closed sum of WAL payloads (spec §4.2): Apply and Undo
// carry the raw block bytes, the opaque entity-delta blobs the pipeline
// produced for it, and the resolved inputs needed to reconstruct consumed
// outputs; Mark carries nothing beyond the record's own ChainPoint.
type LogValue struct {
	Kind           LogValueKind
	RawBlock       []byte
	Deltas         [][]byte
	ResolvedInputs []ResolvedInput
}

// Record is one WAL entry: a monotonically increasing Sequence, the chain
// point it corresponds to, and its payload.
type Record struct {
	Sequence uint64
	Point    types.ChainPoint
	Value    LogValue
}

type encodedRecord struct {
	Sequence uint64
	IsOrigin bool
	Slot     uint64
	Hash     types.TxHash
	Kind     LogValueKind
	RawBlock []byte
	Deltas   [][]byte
	Inputs   []ResolvedInput
}

func encodeRecord(r Record) ([]byte, error) {
	er := encodedRecord{
		Sequence: r.Sequence,
		IsOrigin: r.Point.IsOrigin,
		Slot:     r.Point.Slot,
		Hash:     r.Point.Hash,
		Kind:     r.Value.Kind,
		RawBlock: r.Value.RawBlock,
		Deltas:   r.Value.Deltas,
		Inputs:   r.Value.ResolvedInputs,
	}
	b, err := types.MarshalCBOR(er)
	if err != nil {
		return nil, fmt.Errorf("wal: encode record: %w", err)
	}
	return b, nil
}

func decodeRecord(b []byte) (Record, error) {
	var er encodedRecord
	if err := types.UnmarshalCBOR(b, &er); err != nil {
		return Record{}, fmt.Errorf("wal: decode record: %w", err)
	}
	return Record{
		Sequence: er.Sequence,
		Point: types.ChainPoint{
			IsOrigin: er.IsOrigin,
			Slot:     er.Slot,
			Hash:     er.Hash,
		},
		Value: LogValue{
			Kind:           er.Kind,
			RawBlock:       er.RawBlock,
			Deltas:         er.Deltas,
			ResolvedInputs: er.Inputs,
		},
	}, nil
}
