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
	"os"
	"path/filepath"

	"github.com/cardano-go/ledgerstate/core/archive"
	"github.com/cardano-go/ledgerstate/core/index"
	"github.com/cardano-go/ledgerstate/core/kv"
	"github.com/cardano-go/ledgerstate/core/kv/mdbxkv"
	"github.com/cardano-go/ledgerstate/core/pipeline"
	"github.com/cardano-go/ledgerstate/core/statestore"
	"github.com/cardano-go/ledgerstate/core/wal"
	"github.com/cardano-go/ledgerstate/internal/config"
)

// openedStores bundles the four MDBX environments one invocation owns, so
// every subcommand closes exactly what it opened.
type openedStores struct {
	pipeline.Stores
	dbs []kv.DB
}

func (s *openedStores) Close() {
	for _, db := range s.dbs {
		db.Close()
	}
}

// openStores opens (creating if absent) the wal/state/archive/index MDBX
// environments under cfg.StoragePath, one subdirectory each — mirroring
// the one-env-per-logical-store layout core/kv/mdbxkv.Open is built for.
func openStores(cfg config.Config) (*openedStores, error) {
	if err := os.MkdirAll(cfg.StoragePath, 0o755); err != nil {
		return nil, fmt.Errorf("ledgerd: create storage path: %w", err)
	}

	open := func(name string, tables kv.TableCfg) (kv.DB, error) {
		path := filepath.Join(cfg.StoragePath, name)
		db, err := mdbxkv.Open(path, tables, cfg.CacheSizeMB)
		if err != nil {
			return nil, fmt.Errorf("ledgerd: open %s store: %w", name, err)
		}
		return db, nil
	}

	stateDB, err := open("state", statestore.Tables())
	if err != nil {
		return nil, err
	}
	archiveDB, err := open("archive", archive.Tables())
	if err != nil {
		stateDB.Close()
		return nil, err
	}
	indexDB, err := open("index", index.Tables())
	if err != nil {
		stateDB.Close()
		archiveDB.Close()
		return nil, err
	}
	walDB, err := open("wal", wal.Tables())
	if err != nil {
		stateDB.Close()
		archiveDB.Close()
		indexDB.Close()
		return nil, err
	}

	return &openedStores{
		Stores: pipeline.Stores{
			State:   stateDB,
			Archive: archiveDB,
			Index:   indexDB,
			Wal:     wal.Open(walDB),
		},
		dbs: []kv.DB{stateDB, archiveDB, indexDB, walDB},
	}, nil
}
