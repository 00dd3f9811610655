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

package wal

import "github.com/cardano-go/ledgerstate/core/kv"

const (
	// TableLog holds the WAL itself: an 8-byte big-endian Sequence key
	// mapping to a CBOR-encoded Record.
	TableLog = "WalLog"

	// TableByPoint indexes Sequence by chain point, keyed by the point's
	// augmented slot (8-byte big-endian, offset by one so Origin sorts
	// first) followed by the 32-byte block hash. Used by LocatePoint to
	// support rollback target lookup without a full log scan.
	TableByPoint = "WalByPoint"

	// TableMeta holds the two singleton pointers into TableLog: "tip" and
	// "start", each an 8-byte big-endian Sequence.
	TableMeta = "WalMeta"
)

// Tables returns the table configuration the WAL registers with its kv.DB.
func Tables() kv.TableCfg {
	return kv.TableCfg{
		TableLog:     kv.Default,
		TableByPoint: kv.Default,
		TableMeta:    kv.Default,
	}
}

var (
	metaKeyTip   = []byte("tip")
	metaKeyStart = []byte("start")
)
