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

// Package archive is the append-only historical record: full block bodies
// keyed by chain point, and per-namespace entity logs keyed by
// (temporal_key, entity_key). Unlike core/statestore it keeps every past
// entry rather than one current value per key, so it can serve
// point-in-time and time-range queries the current-state view cannot.
// Entries are removed only through its explicit delete functions, which
// rollback uses to drop the blocks it unwinds.
package archive

import "github.com/cardano-go/ledgerstate/core/kv"

const (
	// TableBlocks maps an 8-byte big-endian slot followed by the 32-byte
	// block hash to an (optionally zlib-compressed) CBOR block body.
	TableBlocks = "ArchiveBlocks"

	// TableLogs maps an 8-byte namespace hash prefix, an 8-byte big-endian
	// temporal key (the slot a log entry was recorded at) and a 32-byte
	// EntityKey to the payload bytes passed to AppendLog, stored as given.
	TableLogs = "ArchiveLogs"
)

func Tables() kv.TableCfg {
	return kv.TableCfg{
		TableBlocks: kv.Default,
		TableLogs:   kv.Default,
	}
}
