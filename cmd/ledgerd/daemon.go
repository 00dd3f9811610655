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
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cardano-go/ledgerstate/core/boundary"
	"github.com/cardano-go/ledgerstate/core/engine"
	"github.com/cardano-go/ledgerstate/core/types"
	"github.com/cardano-go/ledgerstate/internal/logging"
)

// unwiredDecoder satisfies pipeline.Decoder so the engine can be
// constructed without a real block source attached. Every method errors;
// nothing in this binary calls them until a block source external
// collaborator is wired in, per the documented scope boundary.
type unwiredDecoder struct{}

func (unwiredDecoder) DecodeBlock(raw []byte) (types.Block, error) {
	return types.Block{}, fmt.Errorf("ledgerd: no block decoder wired: external collaborator")
}

func (unwiredDecoder) DecodeOutput(out types.EraTaggedOutput) (types.Output, error) {
	return types.Output{}, fmt.Errorf("ledgerd: no block decoder wired: external collaborator")
}

func newDaemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the ledger-state engine, waiting for an external block source",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync()
			log := logging.Component(a.logger, "daemon")

			stores, err := openStores(a.cfg)
			if err != nil {
				return err
			}
			defer stores.Close()

			runner := boundary.NewRunner(stores.State, stores.Archive, true)
			bus := engine.NewTipBus()
			eng := engine.New(stores.Stores, unwiredDecoder{}, runner, bus, a.cfg.ReadConcurrency)
			_ = eng.ReadPool()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info("ledgerd daemon started",
				zap.String("storage_path", a.cfg.StoragePath),
				zap.Int("read_concurrency", a.cfg.ReadConcurrency),
			)
			log.Warn("no block source wired: the daemon is idle until an external collaborator feeds it blocks")

			<-ctx.Done()
			log.Info("ledgerd daemon stopping")
			return nil
		},
	}
}
