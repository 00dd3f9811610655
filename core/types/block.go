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

package types

// EraTaggedOutput is the stored form of a UTxO entry: the era controls
// decoder selection for RawCBOR (spec §3).
type EraTaggedOutput struct {
	Era     uint16
	RawCBOR []byte
}

// ChainPoint identifies a position in the chain: either Origin, or a
// specific (slot, hash) pair.
type ChainPoint struct {
	IsOrigin bool
	Slot     uint64
	Hash     TxHash // block header hash; reused type, 32 bytes
}

var Origin = ChainPoint{IsOrigin: true}

func SpecificPoint(slot uint64, hash TxHash) ChainPoint {
	return ChainPoint{Slot: slot, Hash: hash}
}

// Augmented returns the secondary-index key used by the WAL to map chain
// points to sequences: -1 represents Origin, matching spec §4.1
// ("augmented slot, where -1 represents origin").
func (p ChainPoint) Augmented() int64 {
	if p.IsOrigin {
		return -1
	}
	return int64(p.Slot)
}

// CertKind discriminates the certificates a block visitor may see. Only
// the kinds the rewards/accounts/pools/dreps visitors dispatch on are
// modeled; anything else is passed through as CertOther.
type CertKind uint8

const (
	CertStakeReg CertKind = iota
	CertStakeDereg
	CertStakeDelegate
	CertPoolReg
	CertPoolRetire
	CertDRepReg
	CertDRepDereg
	CertDRepUpdate
	CertVoteDelegate
	CertGovProposal
	CertGovVote
	CertOther
)

// Certificate is the decoder's typed view of one on-chain certificate.
type Certificate struct {
	Kind CertKind

	Credential Credential // stake-reg/dereg, delegate, drep-*
	Pool       PoolID     // pool-reg/retire, stake-delegate target
	DRep       *DRepID    // drep-reg/dereg/update, vote-delegate target

	RetireAtEpoch uint64 // pool-retire
	Deposit       uint64 // stake-reg/pool-reg/drep-reg/gov-proposal

	PoolParams *PoolParams // pool-reg
	Anchor     *Anchor     // drep-reg/update, gov-proposal

	Proposal *ProposalState // gov-proposal
}

// MintEvent is one policy's minted/burned asset quantities within a tx.
type MintEvent struct {
	Policy [28]byte
	Asset  []byte
	Amount int64 // negative for burns
}

// Input is a transaction input reference, paired by the pipeline with its
// resolved output once loaded from state.
type Input struct {
	Ref TxORef
}

// Output is a decoded transaction output; Index is its position in
// Tx.Outputs. StakeCredential, PaymentCredential and ScriptHash are
// pre-extracted by the decoder from Address where present, so visitors
// never need to parse an address themselves.
type Output struct {
	Index             uint32
	Address           []byte
	Coin              uint64
	Raw               EraTaggedOutput
	StakeCredential   *Credential
	PaymentCredential *Credential
	ScriptHash        *[28]byte
	DatumHash         *[32]byte
}

// Tx is the decoder's typed view of one transaction.
type Tx struct {
	Hash        TxHash
	Inputs      []Input
	Outputs     []Output
	Mints       []MintEvent
	Certs       []Certificate
	Withdrawals map[Credential]uint64
	Fee         uint64
	Metadata    map[uint64][]byte
}

// Block is the decoder's typed view of one decoded block (spec §1
// "decoder... produces an immutable view exposing transactions, inputs,
// outputs, certificates, mint, metadata, update proposals").
type Block struct {
	Era          uint16
	Slot         uint64
	Hash         TxHash
	Txs          []Tx
	UpdateParams *PParamsSet // era-specific protocol-parameter update proposal, if any
	IssuerPool   *PoolID     // the pool whose operational certificate signed this block, if any
}
