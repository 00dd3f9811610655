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

// Package index holds the secondary indexes over the UTxO set and the
// archive: per-dimension lookups from an attribute value to the set of
// matching TxO references (UTxO-class dimensions) or block slots
// (archive-class dimensions).
package index

type Class uint8

const (
	ClassUTxO Class = iota
	ClassArchive
)

type Dimension uint8

const (
	DimAddress Dimension = iota
	DimPayment
	DimStake
	DimPolicy
	DimAsset
	DimDatum
	DimSpentTxO
	DimAccountCerts
	DimMetadataLabel

	// DimScriptHash and DimRewardAccount are UTxO-class additions beyond
	// spec.md's named dimension list, grounded in the original
	// implementation's rolldb dimension set: native-script hashes are
	// looked up the same way payment credentials are, and pool
	// reward-account payouts need to reconcile against the account that
	// received them.
	DimScriptHash
	DimRewardAccount
)

var allDimensions = []Dimension{
	DimAddress, DimPayment, DimStake, DimPolicy, DimAsset, DimDatum,
	DimSpentTxO, DimAccountCerts, DimMetadataLabel, DimScriptHash, DimRewardAccount,
}

func AllDimensions() []Dimension {
	out := make([]Dimension, len(allDimensions))
	copy(out, allDimensions)
	return out
}

func (d Dimension) String() string {
	switch d {
	case DimAddress:
		return "address"
	case DimPayment:
		return "payment"
	case DimStake:
		return "stake"
	case DimPolicy:
		return "policy"
	case DimAsset:
		return "asset"
	case DimDatum:
		return "datum"
	case DimSpentTxO:
		return "spent-txo"
	case DimAccountCerts:
		return "account-certs"
	case DimMetadataLabel:
		return "metadata"
	case DimScriptHash:
		return "script-hash"
	case DimRewardAccount:
		return "reward-account"
	default:
		return "unknown"
	}
}

// Class reports whether d indexes TxO references (queried by output
// attribute) or block slots (queried by transaction-level attribute).
func (d Dimension) Class() Class {
	switch d {
	case DimSpentTxO, DimAccountCerts, DimMetadataLabel:
		return ClassArchive
	default:
		return ClassUTxO
	}
}
