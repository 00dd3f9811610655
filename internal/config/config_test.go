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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaultsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledgerd.toml")
	body := `
storage_path = "/var/lib/ledgerd"
cache_size_mb = 2048
stop_epoch = 450
rupd_snapshot_dump = "/var/lib/ledgerd/rupd"
force_protocol = 7

[logging]
level = "debug"
development = true
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/var/lib/ledgerd", cfg.StoragePath)
	require.Equal(t, 2048, cfg.CacheSizeMB)
	require.NotNil(t, cfg.StopEpoch)
	require.Equal(t, uint64(450), *cfg.StopEpoch)
	require.Equal(t, "/var/lib/ledgerd/rupd", cfg.RupdSnapshotDump)
	require.NotNil(t, cfg.ForceProtocol)
	require.Equal(t, uint16(7), *cfg.ForceProtocol)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.True(t, cfg.Logging.Development)
	// Untouched fields keep their Default() value.
	require.Equal(t, 16, cfg.ReadConcurrency)
}

func TestValidateRejectsEmptyStoragePath(t *testing.T) {
	cfg := Default()
	cfg.StoragePath = ""
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsNegativeCacheSize(t *testing.T) {
	cfg := Default()
	cfg.CacheSizeMB = -1
	require.Error(t, cfg.Validate())
}
