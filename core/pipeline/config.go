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

// Package pipeline drives the eleven-phase roll work unit over a batch of
// decoded blocks: load, compute deltas via core/visitors, commit to
// core/wal, core/statestore, core/archive and core/index in that order,
// then notify subscribers of the new tip (spec §4.5).
package pipeline

import (
	"github.com/cardano-go/ledgerstate/core/kv"
	"github.com/cardano-go/ledgerstate/core/wal"
)

// Config controls which optional visitors run and how a roll unit commits.
// Accounts and epoch-state are never disabled: the boundary pass depends
// on both being current (spec §4.5 "the core never skips accounts or
// epoch-state visitors in production").
type Config struct {
	EnableAssets bool
	EnableDReps  bool
	EnablePools  bool

	// Compress controls zlib compression of archived block bodies.
	Compress bool

	// BulkImport skips WAL commit (phase 5) and tip notification (phase
	// 11) for throughput, trusting that the underlying block source
	// (Mithril-sourced historical data) is already finalized and will
	// never need undo (spec §4.5 "Batching discipline").
	BulkImport bool
}

// DefaultConfig enables every visitor and disables bulk-import skipping;
// callers doing a one-off historical import flip BulkImport explicitly.
func DefaultConfig() Config {
	return Config{EnableAssets: true, EnableDReps: true, EnablePools: true}
}

// Stores bundles the four independently-committed backing stores a roll
// unit touches. State, Archive and Index are separate kv.DB handles (spec
// §4.3: "commits are independent of the state writer but must be ordered
// after it"); Wal wraps its own DB internally.
type Stores struct {
	State   kv.DB
	Archive kv.DB
	Index   kv.DB
	Wal     *wal.Store
}
