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

// Command ledgerd is the reference CLI binary wiring internal/config,
// internal/logging and core/engine together. It is an external-collaborator
// surface: block acquisition and era-aware CBOR decoding are not part of
// the core and are not implemented here either, so daemon ingestion is a
// stub that wires and opens everything the engine needs and then waits to
// be fed by a real block source.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cardano-go/ledgerstate/core/ledgererror"
	"github.com/cardano-go/ledgerstate/internal/config"
	"github.com/cardano-go/ledgerstate/internal/logging"
	"go.uber.org/zap"
)

var configPath string

// app bundles what every subcommand needs; each subcommand builds it
// itself by calling loadApp.
type app struct {
	cfg    config.Config
	logger *zap.Logger
}

func loadApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ledgerd",
		Short:         "Cardano ledger-state engine daemon and maintenance tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the TOML config file (defaults applied if omitted)")

	root.AddCommand(newDaemonCmd())
	root.AddCommand(newBootstrapCmd())
	root.AddCommand(newDataCmd())
	root.AddCommand(newDoctorCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Exit codes: 0 on success, nonzero on panics or an explicit
		// StopEpochReached, matching the documented CLI surface.
		if ledgererror.Is(err, ledgererror.KindStopEpochReached) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
