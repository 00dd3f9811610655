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

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cardano-go/ledgerstate/core/archive"
	"github.com/cardano-go/ledgerstate/core/index"
	"github.com/cardano-go/ledgerstate/core/kv"
	"github.com/cardano-go/ledgerstate/core/kv/mdbxkv"
	"github.com/cardano-go/ledgerstate/core/statestore"
	"github.com/cardano-go/ledgerstate/core/types"
)

// newDoctorCmd implements the recovery path core/engine.Engine.Rollback
// documents but refuses to perform itself: a rollback target whose epoch
// precedes the current tip's epoch (core/engine.ErrCrossesEpochBoundary)
// crosses deltas the design declares non-undoable (pool transition,
// account transition, pparams update, proposal refunds). Unwinding the WAL
// and archive past such a point is mechanical; recomputing state across
// the boundary is not, so rebuild-stores drops the state and index stores
// entirely and leaves them empty for a full resync from the reset point,
// rather than attempting a partial, unsound rewind.
func newDoctorCmd() *cobra.Command {
	doctor := &cobra.Command{
		Use:   "doctor",
		Short: "Storage recovery tools",
	}
	doctor.AddCommand(newRebuildStoresCmd())
	return doctor
}

func newRebuildStoresCmd() *cobra.Command {
	var toSlot uint64
	var toHashHex string
	cmd := &cobra.Command{
		Use:   "rebuild-stores",
		Short: "Reset the WAL and archive to a chain point and wipe state/index for a full resync",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			log := a.logger

			target, err := parseChainPoint(toSlot, toHashHex)
			if err != nil {
				return err
			}

			stores, err := openStores(a.cfg)
			if err != nil {
				return err
			}

			seq, found, err := stores.Wal.LocatePoint(cmd.Context(), target)
			if err != nil {
				stores.Close()
				return err
			}
			if !found {
				stores.Close()
				return fmt.Errorf("ledgerd: chain point slot=%d not found in the WAL", toSlot)
			}
			if err := stores.Wal.ResetTo(cmd.Context(), seq); err != nil {
				stores.Close()
				return err
			}
			if err := stores.Archive.Update(cmd.Context(), func(tx kv.RwTx) error {
				return archive.TruncateBlocksFrom(tx, target.Slot+1)
			}); err != nil {
				stores.Close()
				return err
			}
			stores.Close()

			if err := wipeStore(a.cfg.StoragePath, "state", statestore.Tables(), a.cfg.CacheSizeMB); err != nil {
				return err
			}
			if err := wipeStore(a.cfg.StoragePath, "index", index.Tables(), a.cfg.CacheSizeMB); err != nil {
				return err
			}

			log.Info("rebuild-stores complete")
			fmt.Printf("WAL and archive reset to slot %d; state and index are empty and must be resynced from that point by an external block source.\n", target.Slot)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&toSlot, "to-slot", 0, "slot of the chain point to reset to")
	cmd.Flags().StringVar(&toHashHex, "to-hash", "", "hex-encoded 32-byte block hash of the chain point to reset to")
	_ = cmd.MarkFlagRequired("to-hash")
	return cmd
}

func parseChainPoint(slot uint64, hashHex string) (types.ChainPoint, error) {
	raw, err := hex.DecodeString(hashHex)
	if err != nil || len(raw) != len(types.TxHash{}) {
		return types.ChainPoint{}, fmt.Errorf("ledgerd: --to-hash must be a %d-byte hex string", len(types.TxHash{}))
	}
	var h types.TxHash
	copy(h[:], raw)
	return types.SpecificPoint(slot, h), nil
}

// wipeStore closes nothing (the caller has already released the
// environment); it removes the on-disk MDBX file for name and reopens an
// empty environment with the same table set, so the store exists but
// holds no data.
func wipeStore(storagePath, name string, tables kv.TableCfg, cacheSizeMB int) error {
	path := filepath.Join(storagePath, name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ledgerd: remove %s store: %w", name, err)
	}
	db, err := mdbxkv.Open(path, tables, cacheSizeMB)
	if err != nil {
		return fmt.Errorf("ledgerd: reinitialize %s store: %w", name, err)
	}
	return db.Close()
}
