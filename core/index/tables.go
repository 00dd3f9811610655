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

import "github.com/cardano-go/ledgerstate/core/kv"

const (
	// TableUTxoIndex holds dim_hash(8) || lookup_key(var) || txo_ref(36)
	// -> empty, for every ClassUTxO dimension.
	TableUTxoIndex = "IndexUTxo"

	// TableArchiveIndex holds dim_hash(8) || lookup_key_hash(8) || slot(8)
	// -> empty, for every ClassArchive dimension.
	TableArchiveIndex = "IndexArchive"
)

func Tables() kv.TableCfg {
	return kv.TableCfg{
		TableUTxoIndex:    kv.Default,
		TableArchiveIndex: kv.Default,
	}
}
