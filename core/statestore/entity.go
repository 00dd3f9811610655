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

package statestore

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/cardano-go/ledgerstate/core/ledgererror"
	"github.com/cardano-go/ledgerstate/core/types"
)

const component = "statestore"

// entityStoreKey builds the 40-byte TableEntity key: an 8-byte xxhash of
// the namespace name followed by the 32-byte EntityKey.
func entityStoreKey(ns types.Namespace, key types.EntityKey) []byte {
	h := xxhash.Sum64String(string(ns))
	b := make([]byte, 40)
	binary.BigEndian.PutUint64(b[:8], h)
	copy(b[8:], key[:])
	return b
}

// namespacePrefix returns the 8-byte prefix shared by every key in ns, used
// to scan one namespace via a cursor.
func namespacePrefix(ns types.Namespace) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, xxhash.Sum64String(string(ns)))
	return b
}

// GetEntity decodes the value stored at (ns, key) into out, which must be
// a pointer. Returns (false, nil) if absent.
func GetEntity(raw []byte, out any) (bool, error) {
	if raw == nil {
		return false, nil
	}
	if err := types.UnmarshalCBOR(raw, out); err != nil {
		return false, ledgererror.Wrap(component, ledgererror.KindDecoding, "decode entity", err)
	}
	return true, nil
}

// EncodeEntity CBOR-encodes v for storage.
func EncodeEntity(v any) ([]byte, error) {
	b, err := types.MarshalCBOR(v)
	if err != nil {
		return nil, ledgererror.Wrap(component, ledgererror.KindDecoding, "encode entity", err)
	}
	return b, nil
}
