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
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/cardano-go/ledgerstate/core/types"
)

func TestRootCommandWiresExpectedSubcommands(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"daemon", "bootstrap", "data", "doctor"} {
		require.True(t, names[want], "missing subcommand %q", want)
	}

	dataNames := map[string]bool{}
	for _, c := range findCommand(root, "data").Commands() {
		dataNames[c.Name()] = true
	}
	for _, want := range []string{"dump-state", "dump-logs", "dump-blocks", "compute-nonce"} {
		require.True(t, dataNames[want], "missing data subcommand %q", want)
	}

	require.NotNil(t, findCommand(findCommand(root, "bootstrap"), "mithril"))
	require.NotNil(t, findCommand(findCommand(root, "doctor"), "rebuild-stores"))
}

func TestBootstrapMithrilStubsExternalCollaborator(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"bootstrap", "mithril"})
	err := root.Execute()
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "external collaborator"))
}

func TestParseChainPointRejectsWrongLengthHash(t *testing.T) {
	_, err := parseChainPoint(10, "abcd")
	require.Error(t, err)
}

func TestParseChainPointAcceptsValidHash(t *testing.T) {
	hash := strings.Repeat("ab", len(types.TxHash{}))
	point, err := parseChainPoint(42, hash)
	require.NoError(t, err)
	require.Equal(t, uint64(42), point.Slot)
}

func TestEpochLogKeyForIsBigEndian(t *testing.T) {
	k := epochLogKeyFor(1)
	require.Equal(t, byte(1), k[7])
	require.Equal(t, byte(0), k[0])
}

func findCommand(parent *cobra.Command, name string) *cobra.Command {
	for _, c := range parent.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}
