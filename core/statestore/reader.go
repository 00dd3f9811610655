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
	"bytes"

	"github.com/cardano-go/ledgerstate/core/kv"
	"github.com/cardano-go/ledgerstate/core/ledgererror"
	"github.com/cardano-go/ledgerstate/core/types"
)

// Reader is a read-only view over one kv.Tx snapshot, used by façades that
// serve concurrent queries against a consistent point in time (spec §5
// "readers never block on or are blocked by the single writer").
type Reader struct {
	tx kv.Tx
}

func NewReader(tx kv.Tx) *Reader { return &Reader{tx: tx} }

// GetCursor returns the chain point state was most recently committed to.
func (r *Reader) GetCursor() (types.ChainPoint, bool, error) {
	raw, err := r.tx.GetOne(TableMeta, metaKeyCursor)
	if err != nil {
		return types.ChainPoint{}, false, ledgererror.Wrap(component, ledgererror.KindState, "get cursor", err)
	}
	if raw == nil {
		return types.ChainPoint{}, false, nil
	}
	var p types.ChainPoint
	if err := types.UnmarshalCBOR(raw, &p); err != nil {
		return types.ChainPoint{}, false, ledgererror.Wrap(component, ledgererror.KindDecoding, "decode cursor", err)
	}
	return p, true, nil
}

func (r *Reader) GetUTxO(ref types.TxORef) (types.EraTaggedOutput, bool, error) {
	key := ref.Bytes()
	raw, err := r.tx.GetOne(TableUTxo, key[:])
	if err != nil {
		return types.EraTaggedOutput{}, false, ledgererror.Wrap(component, ledgererror.KindState, "get utxo", err)
	}
	if raw == nil {
		return types.EraTaggedOutput{}, false, nil
	}
	var out types.EraTaggedOutput
	if err := types.UnmarshalCBOR(raw, &out); err != nil {
		return types.EraTaggedOutput{}, false, ledgererror.Wrap(component, ledgererror.KindDecoding, "decode utxo", err)
	}
	return out, true, nil
}

// GetAccount, GetPool, GetDRep, GetProposal, GetEpoch and GetPendingReward
// each load one namespace's entity by key.
func GetAccount(r *Reader, c types.Credential) (*types.AccountState, bool, error) {
	return getNS[types.AccountState](r, types.NSAccounts, types.CredentialKey(c))
}

func GetPool(r *Reader, id types.PoolID) (*types.PoolState, bool, error) {
	return getNS[types.PoolState](r, types.NSPools, types.PoolKey(id))
}

func GetDRep(r *Reader, id types.DRepID) (*types.DRepState, bool, error) {
	return getNS[types.DRepState](r, types.NSDReps, types.DRepKey(id))
}

func GetProposal(r *Reader, key types.EntityKey) (*types.ProposalState, bool, error) {
	return getNS[types.ProposalState](r, types.NSProposals, key)
}

func GetEpoch(r *Reader, marker types.EntityKey) (*types.EpochState, bool, error) {
	return getNS[types.EpochState](r, types.NSEpochs, marker)
}

func GetPendingReward(r *Reader, c types.Credential) (*types.PendingRewardState, bool, error) {
	return getNS[types.PendingRewardState](r, types.NSPendingRewards, types.CredentialKey(c))
}

func getNS[T any](r *Reader, ns types.Namespace, key types.EntityKey) (*T, bool, error) {
	raw, err := r.tx.GetOne(TableEntity, entityStoreKey(ns, key))
	if err != nil {
		return nil, false, ledgererror.Wrap(component, ledgererror.KindState, "get entity", err)
	}
	if raw == nil {
		return nil, false, nil
	}
	var v T
	if err := types.UnmarshalCBOR(raw, &v); err != nil {
		return nil, false, ledgererror.Wrap(component, ledgererror.KindDecoding, "decode entity", err)
	}
	return &v, true, nil
}

// ScanNamespace calls fn for every entity key in ns, in key order, passing
// the raw CBOR payload for the caller to decode with the concrete type it
// already knows for that namespace. Iteration stops early if fn returns
// false or an error.
func ScanNamespace(r *Reader, ns types.Namespace, fn func(key types.EntityKey, raw []byte) (bool, error)) error {
	prefix := namespacePrefix(ns)
	c, err := r.tx.Cursor(TableEntity)
	if err != nil {
		return ledgererror.Wrap(component, ledgererror.KindState, "open cursor", err)
	}
	defer c.Close()
	k, v, err := c.Seek(prefix)
	if err != nil {
		return ledgererror.Wrap(component, ledgererror.KindState, "seek", err)
	}
	for k != nil && bytes.HasPrefix(k, prefix) {
		var ek types.EntityKey
		copy(ek[:], k[8:])
		cont, err := fn(ek, v)
		if err != nil || !cont {
			return err
		}
		k, v, err = c.Next()
		if err != nil {
			return ledgererror.Wrap(component, ledgererror.KindState, "next", err)
		}
	}
	return nil
}
