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

// ActionKind discriminates the closed sum of governance-proposal actions
// (spec §3 ProposalState.action). The set is compile-time fixed (spec §9);
// a switch over ActionKind must be exhaustive.
type ActionKind uint8

const (
	ActionHardFork ActionKind = iota
	ActionParamChange
	ActionTreasuryWithdrawal
	ActionOther
)

// Withdrawal is one (credential, amount) pair of a TreasuryWithdrawal action.
type Withdrawal struct {
	Credential Credential
	Amount     uint64
}

// Action is the closed sum of proposal-action variants. Exactly one of the
// payload fields is meaningful, selected by Kind; OtherTag carries through
// any variant the distillation does not model further (spec: "other
// variants passed through untouched").
type Action struct {
	Kind ActionKind

	HardForkVersion uint16 // ActionHardFork
	ParamDelta      PParamsSet // ActionParamChange
	Withdrawals     []Withdrawal // ActionTreasuryWithdrawal

	OtherTag     string // ActionOther
	OtherPayload []byte // ActionOther, opaque CBOR passthrough
}

// ProposalState is a pending or enacted governance action.
type ProposalState struct {
	Action         Action
	Deposit        uint64
	ReturnAccount  Credential
	Anchor         *Anchor
	EnactmentEpoch *uint64
}

func (p ProposalState) Clone() ProposalState {
	out := p
	out.Action.Withdrawals = append([]Withdrawal(nil), p.Action.Withdrawals...)
	out.Action.ParamDelta = p.Action.ParamDelta.Clone()
	if p.Anchor != nil {
		a := *p.Anchor
		out.Anchor = &a
	}
	if p.EnactmentEpoch != nil {
		e := *p.EnactmentEpoch
		out.EnactmentEpoch = &e
	}
	return out
}

// IsEnactingAt reports whether this proposal enacts exactly when
// startingEpoch begins (spec §4.6: "proposals whose enactment-epoch equals
// starting_epoch").
func (p ProposalState) IsEnactingAt(startingEpoch uint64) bool {
	return p.EnactmentEpoch != nil && *p.EnactmentEpoch == startingEpoch
}
