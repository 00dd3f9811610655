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
	"encoding/binary"

	"github.com/cardano-go/ledgerstate/core/index"
	"github.com/cardano-go/ledgerstate/core/types"
)

// AssetsVisitor tags produced outputs and minted assets across every
// UTxO-class dimension plus DimSpentTxO/DimPolicy for the archive view.
// Disable-able; unlike accounts/epochstate it carries no state-mutation
// responsibility, only indexing.
type AssetsVisitor struct{ NoopVisitor }

func (AssetsVisitor) Name() string { return "assets" }

func (AssetsVisitor) VisitOutput(ctx *BlockCtx, tx types.Tx, idx uint32, out types.EraTaggedOutput) error {
	return nil
}

// EntriesForOutput derives the UTxO-class index entries a produced output
// carries. It is exported and pure (no BlockCtx) so the pipeline can call
// it a second time, against the same decoded Output, to reconstruct the
// entries a now-consumed reference was indexed under when it unindexes it
// (spec §4.4 "the store inserts or removes the composite keys").
func EntriesForOutput(o types.Output) []index.Entry {
	var entries []index.Entry
	if len(o.Address) > 0 {
		entries = append(entries, index.Entry{Dim: index.DimAddress, LookupKey: o.Address})
	}
	if o.PaymentCredential != nil {
		entries = append(entries, index.Entry{Dim: index.DimPayment, LookupKey: o.PaymentCredential[:]})
	}
	if o.StakeCredential != nil {
		entries = append(entries, index.Entry{Dim: index.DimStake, LookupKey: o.StakeCredential[:]})
	}
	if o.ScriptHash != nil {
		entries = append(entries, index.Entry{Dim: index.DimScriptHash, LookupKey: o.ScriptHash[:]})
	}
	if o.DatumHash != nil {
		entries = append(entries, index.Entry{Dim: index.DimDatum, LookupKey: o.DatumHash[:]})
	}
	return entries
}

// TagOutput attaches index entries for a produced output. Called by the
// pipeline (which already has the ref handy) rather than from VisitOutput
// directly, since TxORef needs the tx hash the visitor interface doesn't
// carry on its own.
func (AssetsVisitor) TagOutput(ctx *BlockCtx, ref types.TxORef, o types.Output) {
	for _, e := range EntriesForOutput(o) {
		ctx.AddOutputEntry(ref, e)
	}
}

// TagConsumedInput marks a consumed ref under DimSpentTxO, keyed at the
// consuming transaction's slot.
func (AssetsVisitor) TagConsumedInput(ctx *BlockCtx, ref types.TxORef) {
	refB := ref.Bytes()
	ctx.AddTxEntry(index.Entry{Dim: index.DimSpentTxO, LookupKey: refB[:]})
}

func (AssetsVisitor) VisitMint(ctx *BlockCtx, tx types.Tx, m types.MintEvent) error {
	ctx.AddTxEntry(index.Entry{Dim: index.DimPolicy, LookupKey: m.Policy[:]})
	assetKey := make([]byte, 28+len(m.Asset))
	copy(assetKey, m.Policy[:])
	copy(assetKey[28:], m.Asset)
	ctx.AddTxEntry(index.Entry{Dim: index.DimAsset, LookupKey: assetKey})
	return nil
}

func (AssetsVisitor) VisitCert(ctx *BlockCtx, tx types.Tx, cert types.Certificate) error {
	switch cert.Kind {
	case types.CertStakeReg, types.CertStakeDereg, types.CertStakeDelegate:
		ctx.AddTxEntry(index.Entry{Dim: index.DimAccountCerts, LookupKey: cert.Credential[:]})
	}
	return nil
}

// TagMetadata indexes every metadata label a tx carried, called directly
// by the pipeline since metadata lives on types.Tx rather than flowing
// through one of the per-item hooks.
func (AssetsVisitor) TagMetadata(ctx *BlockCtx, md map[uint64][]byte) {
	for label := range md {
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, label)
		ctx.AddTxEntry(index.Entry{Dim: index.DimMetadataLabel, LookupKey: b})
	}
}
