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
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardano-go/ledgerstate/core/archive"
	"github.com/cardano-go/ledgerstate/core/kv"
	"github.com/cardano-go/ledgerstate/core/statestore"
	"github.com/cardano-go/ledgerstate/core/types"
)

func newDataCmd() *cobra.Command {
	data := &cobra.Command{
		Use:   "data",
		Short: "Inspect a ledgerd storage directory",
	}
	data.AddCommand(newDumpStateCmd())
	data.AddCommand(newDumpLogsCmd())
	data.AddCommand(newDumpBlocksCmd())
	data.AddCommand(newComputeNonceCmd())
	return data
}

func newDumpStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump-state",
		Short: "Print the state cursor and the three epoch markers as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			stores, err := openStores(a.cfg)
			if err != nil {
				return err
			}
			defer stores.Close()

			type dump struct {
				Cursor *types.ChainPoint `json:"cursor,omitempty"`
				Mark   *types.EpochState `json:"mark,omitempty"`
				Set    *types.EpochState `json:"set,omitempty"`
				Go     *types.EpochState `json:"go,omitempty"`
			}
			var out dump
			err = stores.State.View(cmd.Context(), func(tx kv.Tx) error {
				r := statestore.NewReader(tx)
				if cp, present, err := r.GetCursor(); err != nil {
					return err
				} else if present {
					out.Cursor = &cp
				}
				var err error
				if out.Mark, _, err = statestore.GetEpoch(r, types.MarkerMark); err != nil {
					return err
				}
				if out.Set, _, err = statestore.GetEpoch(r, types.MarkerSet); err != nil {
					return err
				}
				if out.Go, _, err = statestore.GetEpoch(r, types.MarkerGo); err != nil {
					return err
				}
				return nil
			})
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
}

func newDumpLogsCmd() *cobra.Command {
	var epoch uint64
	var credHex string
	cmd := &cobra.Command{
		Use:   "dump-logs",
		Short: "Print archived epoch or reward logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			stores, err := openStores(a.cfg)
			if err != nil {
				return err
			}
			defer stores.Close()

			var key types.EntityKey
			var ns types.Namespace
			switch {
			case credHex != "":
				raw, err := hex.DecodeString(credHex)
				if err != nil || len(raw) != len(types.Credential{}) {
					return fmt.Errorf("ledgerd: --credential must be a %d-byte hex string", len(types.Credential{}))
				}
				var cred types.Credential
				copy(cred[:], raw)
				key = types.CredentialKey(cred)
				ns = types.NSRewardLog
			default:
				key = epochLogKeyFor(epoch)
				ns = types.NSEpochLog
			}

			var entries []archive.LogEntry
			err = stores.Archive.View(cmd.Context(), func(tx kv.Tx) error {
				return archive.IterEntityLogs(tx, ns, key, func(e archive.LogEntry) (bool, error) {
					entries = append(entries, e)
					return true, nil
				})
			})
			if err != nil {
				return err
			}
			return printJSON(entries)
		},
	}
	cmd.Flags().Uint64Var(&epoch, "epoch", 0, "epoch number for the epoch log")
	cmd.Flags().StringVar(&credHex, "credential", "", "hex-encoded stake credential for the reward log")
	return cmd
}

// epochLogKeyFor mirrors core/boundary's unexported epochLogKey: an epoch
// log entry is keyed by its epoch number, big-endian, in the key's first
// eight bytes.
func epochLogKeyFor(epoch uint64) types.EntityKey {
	var k types.EntityKey
	binary.BigEndian.PutUint64(k[:8], epoch)
	return k
}

func newDumpBlocksCmd() *cobra.Command {
	var fromSlot uint64
	var limit int
	cmd := &cobra.Command{
		Use:   "dump-blocks",
		Short: "List archived block points from a starting slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			stores, err := openStores(a.cfg)
			if err != nil {
				return err
			}
			defer stores.Close()

			type row struct {
				Slot  uint64 `json:"slot"`
				Bytes int    `json:"bytes"`
			}
			var rows []row
			err = stores.Archive.View(cmd.Context(), func(tx kv.Tx) error {
				return archive.IterBlocksFrom(tx, fromSlot, func(p types.ChainPoint, raw []byte) (bool, error) {
					rows = append(rows, row{Slot: p.Slot, Bytes: len(raw)})
					return limit <= 0 || len(rows) < limit, nil
				})
			})
			if err != nil {
				return err
			}
			return printJSON(rows)
		},
	}
	cmd.Flags().Uint64Var(&fromSlot, "from", 0, "slot to start listing from")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum blocks to print (0 = unlimited)")
	return cmd
}

func newComputeNonceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compute-nonce",
		Short: "Print the active epoch's finalized and rolling nonces",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			stores, err := openStores(a.cfg)
			if err != nil {
				return err
			}
			defer stores.Close()

			var nonces *types.Nonces
			err = stores.State.View(cmd.Context(), func(tx kv.Tx) error {
				es, present, err := statestore.GetEpoch(statestore.NewReader(tx), types.MarkerGo)
				if err != nil || !present {
					return err
				}
				nonces = es.Nonces
				return nil
			})
			if err != nil {
				return err
			}
			if nonces == nil {
				return fmt.Errorf("ledgerd: no nonce recorded for the active epoch yet")
			}
			return printJSON(map[string]string{
				"epoch":      hex.EncodeToString(nonces.Epoch[:]),
				"candidate":  hex.EncodeToString(nonces.Candidate[:]),
				"prev_lab_hash": hex.EncodeToString(nonces.PrevLabHash[:]),
			})
		},
	}
}

func printJSON(v any) error {
	enc, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("ledgerd: encode output: %w", err)
	}
	fmt.Println(string(enc))
	return nil
}
