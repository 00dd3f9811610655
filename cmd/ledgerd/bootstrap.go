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

	"github.com/spf13/cobra"
)

func newBootstrapCmd() *cobra.Command {
	bootstrap := &cobra.Command{
		Use:   "bootstrap",
		Short: "Bootstrap a fresh storage directory",
	}
	bootstrap.AddCommand(&cobra.Command{
		Use:   "mithril",
		Short: "Seed genesis state from a Mithril snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Fetching and verifying a Mithril snapshot is a block-source
			// concern, entirely outside this engine's scope.
			return fmt.Errorf("not implemented: external collaborator")
		},
	})
	return bootstrap
}
