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

// Package types holds the data model shared by every ledger-state
// component: identifiers, entities, deltas and the CBOR encoding used to
// persist them.
package types

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// TxHash is a transaction hash (blake2b-256 in the real ledger; opaque here).
type TxHash [32]byte

func (h TxHash) String() string { return hex.EncodeToString(h[:]) }

// TxORef is a (transaction hash, output index) pair, the canonical
// identifier of a UTxO entry.
type TxORef struct {
	TxHash TxHash
	Index  uint32
}

// Bytes encodes the reference as tx_hash(32) || index_be(4), the canonical
// 36-byte lexicographically-ordered key.
func (r TxORef) Bytes() [36]byte {
	var b [36]byte
	copy(b[:32], r.TxHash[:])
	binary.BigEndian.PutUint32(b[32:], r.Index)
	return b
}

// ParseTxORef decodes the 36-byte canonical encoding.
func ParseTxORef(b []byte) (TxORef, error) {
	if len(b) != 36 {
		return TxORef{}, fmt.Errorf("types: txo ref must be 36 bytes, got %d", len(b))
	}
	var r TxORef
	copy(r.TxHash[:], b[:32])
	r.Index = binary.BigEndian.Uint32(b[32:])
	return r, nil
}

func (r TxORef) String() string {
	return fmt.Sprintf("%s#%d", r.TxHash, r.Index)
}

// Credential is a 28-byte payment or stake credential hash.
type Credential [28]byte

func (c Credential) String() string { return hex.EncodeToString(c[:]) }

// PoolID is a 28-byte stake pool operator key hash.
//
// Spec Open Question (b) flags that the original implementation truncates
// entity keys to this 28-byte width as a known hack. Here it is the type's
// native width from the start rather than a workaround, so no truncation
// ever happens at a call site; see DESIGN.md.
type PoolID [28]byte

func (p PoolID) String() string { return hex.EncodeToString(p[:]) }

// DRepID is a 28-byte delegated-representative identifier.
type DRepID [28]byte

func (d DRepID) String() string { return hex.EncodeToString(d[:]) }

// EntityKey is the 32-byte key every entity is addressed by in the entity
// keyspace. Shorter natural keys (Credential, PoolID, DRepID) are
// zero-padded on the right; composite keys are CBOR-encoded first.
type EntityKey [32]byte

func CredentialKey(c Credential) EntityKey {
	var k EntityKey
	copy(k[:], c[:])
	return k
}

func PoolKey(p PoolID) EntityKey {
	var k EntityKey
	copy(k[:], p[:])
	return k
}

func DRepKey(d DRepID) EntityKey {
	var k EntityKey
	copy(k[:], d[:])
	return k
}

// Namespace groups entity types under a fixed-width keyspace prefix.
type Namespace string

const (
	NSAccounts       Namespace = "accounts"
	NSPools          Namespace = "pools"
	NSDReps          Namespace = "dreps"
	NSProposals      Namespace = "proposals"
	NSEpochs         Namespace = "epochs"
	NSEras           Namespace = "eras"
	NSPendingRewards Namespace = "pending-rewards"

	// NSRewardLog and NSEpochLog tag archive-only history records (spec
	// §4.6 wrap commit: "emit the queued logs... plus the full ending
	// EpochState as the epoch log"). They are never entity namespaces in
	// statestore's sense, so they are deliberately absent from
	// AllNamespaces.
	NSRewardLog Namespace = "reward-log"
	NSEpochLog  Namespace = "epoch-log"
)

// AllNamespaces lists every namespace the entity keyspace ever holds.
// Nothing in this module iterates it.
var AllNamespaces = []Namespace{
	NSAccounts, NSPools, NSDReps, NSProposals, NSEpochs, NSEras, NSPendingRewards,
}

// Singleton marker keys within the epochs/eras namespaces (spec §3, §9).
var (
	MarkerMark EntityKey = singletonKey("mark")
	MarkerSet  EntityKey = singletonKey("set")
	MarkerGo   EntityKey = singletonKey("go")
	MarkerEras EntityKey = singletonKey("eras")
)

func singletonKey(name string) EntityKey {
	var k EntityKey
	copy(k[:], name)
	return k
}
