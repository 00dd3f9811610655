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

// Package statestore is the current-state view: the live UTxO set and the
// namespaced entity keyspace (accounts, pools, dreps, proposals, epoch and
// era singletons, pending rewards). It holds exactly one logical value per
// key; history lives in core/archive.
package statestore

import "github.com/cardano-go/ledgerstate/core/kv"

const (
	// TableUTxo maps a 36-byte TxORef encoding to a CBOR-encoded
	// EraTaggedOutput.
	TableUTxo = "StateUTxo"

	// TableEntity maps an 8-byte namespace hash prefix plus a 32-byte
	// EntityKey to a CBOR-encoded entity value. The namespace prefix keeps
	// every namespace's keys disjoint even though several namespaces key
	// by the same underlying credential (spec §3).
	TableEntity = "StateEntity"

	// TableMeta holds the single "cursor" key: the chain point the writer
	// most recently committed. A writer records this on every commit so a
	// restart (or the archive/index stores' retry-by-re-derive path) can
	// tell how far state has actually advanced.
	TableMeta = "StateMeta"
)

func Tables() kv.TableCfg {
	return kv.TableCfg{
		TableUTxo:   kv.Default,
		TableEntity: kv.Default,
		TableMeta:   kv.Default,
	}
}

var metaKeyCursor = []byte("cursor")
