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

// Package config loads the daemon's TOML configuration file and applies
// defaults for options the file omits. The recognized option set mirrors
// the documented configuration surface: stop_epoch, storage_path,
// cache_size_mb, max_ledger_history, rupd_snapshot_dump, force_protocol,
// plus the ambient logging and read-concurrency knobs cmd/ledgerd needs
// that have no ledger-domain meaning of their own.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Logging holds the ambient structured-logging options.
type Logging struct {
	Level       string `toml:"level"`       // zap level name: debug, info, warn, error
	Development bool   `toml:"development"` // human-readable console encoding instead of JSON
}

// Config is the full recognized option set (spec's "Configuration
// (recognized options)" list) plus the ambient fields the daemon needs to
// wire logging and the read pool.
type Config struct {
	// StopEpoch is read from stop_epoch; nothing in the daemon acts on it,
	// so no epoch boundary halts the daemon.
	StopEpoch *uint64 `toml:"stop_epoch"`
	// StoragePath is the directory the wal/state/archive/index MDBX
	// environments are created under, one subdirectory each.
	StoragePath string `toml:"storage_path"`
	// CacheSizeMB sizes each MDBX environment's memory map, in megabytes.
	// Zero uses the backend's own default.
	CacheSizeMB int `toml:"cache_size_mb"`
	// MaxLedgerHistory is read from max_ledger_history; nothing acts on it,
	// so WAL and archive history are retained in full.
	MaxLedgerHistory *uint64 `toml:"max_ledger_history"`
	// RupdSnapshotDump is read from rupd_snapshot_dump; the rewards update
	// does not consult it and writes no CSV snapshots.
	RupdSnapshotDump string `toml:"rupd_snapshot_dump"`
	// ForceProtocol is read from force_protocol; bootstrap does not consult
	// it.
	ForceProtocol *uint16 `toml:"force_protocol"`

	// ReadConcurrency sizes the engine's bounded read pool (spec §5).
	ReadConcurrency int `toml:"read_concurrency"`

	Logging Logging `toml:"logging"`
}

// Default returns the configuration a bare daemon invocation runs with
// when no file is supplied.
func Default() Config {
	return Config{
		StoragePath:     "./ledgerdata",
		CacheSizeMB:     1024,
		ReadConcurrency: 16,
		Logging:         Logging{Level: "info"},
	}
}

// Load reads and parses the TOML file at path, starting from Default and
// letting any field the file sets override it. A missing path is not an
// error: the daemon is expected to run on defaults alone for local
// experimentation, matching the teacher's own config's "everything has a
// sane zero value" posture.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate reports the first recognized-option constraint violation, if
// any: storage_path must be set, cache_size_mb and read_concurrency must
// not be negative.
func (c Config) Validate() error {
	if c.StoragePath == "" {
		return fmt.Errorf("config: storage_path must be set")
	}
	if c.CacheSizeMB < 0 {
		return fmt.Errorf("config: cache_size_mb must not be negative")
	}
	if c.ReadConcurrency < 0 {
		return fmt.Errorf("config: read_concurrency must not be negative")
	}
	return nil
}
