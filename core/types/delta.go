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

import "errors"

// ErrSoftSkip is returned by a delta's Apply when its target entity is
// absent and the delta's kind is not allowed to default-create one (spec
// §4.5 phase 7: "logs and skips"). Callers should log at warn and continue.
var ErrSoftSkip = errors.New("types: delta target entity absent, skipped")

// Delta is the common shape every entity-delta variant satisfies. The set
// of concrete variants below is compile-time-fixed (spec §9); callers that
// need to apply a Delta type-switch on the concrete type, which the Go
// compiler can check for exhaustiveness via a default branch that errors.
type Delta interface {
	Namespace() Namespace
	Key() EntityKey
	// Undoable reports whether Undo restores byte-identical Prior state.
	// Several boundary deltas are not (spec §9 "Undo gaps"); Engine.Rollback
	// skips undoing them and refuses any rollback that would cross an epoch
	// boundary (engine.ErrCrossesEpochBoundary). Boundary effects are not
	// re-derived on rollback.
	Undoable() bool
}

// --- Accounts ---------------------------------------------------------

type AccountOp uint8

const (
	AccOpRegister AccountOp = iota
	AccOpDeregister
	AccOpAdjustStake
	AccOpDelegatePool
	AccOpDelegateDRep
	AccOpAssignRewards
	AccOpAdvanceScheduled // start boundary snapshot rotation; non-undoable
)

// AccountDelta is the closed sum of account mutations. Exactly the fields
// relevant to Op are meaningful; Prior/Existed are undo metadata captured
// by Apply, per spec §4.5 phase 7 ("values are captured into the delta
// struct Prior to mutation").
type AccountDelta struct {
	Credential Credential
	Op         AccountOp

	Slot          uint64 // AccOpRegister
	StakeDelta    int64  // AccOpAdjustStake, signed
	Pool          *PoolID
	DRep          *DRepID
	ScheduleEpoch uint64 // AccOpDelegatePool/DelegateDRep
	RewardAmount  uint64 // AccOpAssignRewards
	WaitStake     uint64 // AccOpAdvanceScheduled: pre-computed live_stake() to move into wait

	Prior   *AccountState
	Existed bool
}

func (d *AccountDelta) Namespace() Namespace { return NSAccounts }
func (d *AccountDelta) Key() EntityKey       { return CredentialKey(d.Credential) }
func (d *AccountDelta) Undoable() bool       { return d.Op != AccOpAdvanceScheduled }

// Apply mutates (or creates/deletes) existing in place, returning the new
// value (nil means "delete"). present reports whether existing was found.
func (d *AccountDelta) Apply(existing *AccountState, present bool) (*AccountState, error) {
	d.Existed = present
	if present {
		cp := existing.Clone()
		d.Prior = &cp
	} else {
		d.Prior = nil
	}

	switch d.Op {
	case AccOpRegister:
		if present {
			return existing, nil
		}
		return &AccountState{Credential: d.Credential, RegisteredAtSlot: d.Slot, IsRegistered: true}, nil
	case AccOpDeregister:
		if !present {
			return nil, ErrSoftSkip
		}
		return nil, nil
	case AccOpAdjustStake:
		if !present {
			return nil, ErrSoftSkip
		}
		live := existing.Stake.Live
		if d.StakeDelta >= 0 {
			live.Controlled += uint64(d.StakeDelta)
		} else {
			dec := uint64(-d.StakeDelta)
			if dec > live.Controlled {
				live.Controlled = 0
			} else {
				live.Controlled -= dec
			}
		}
		existing.Stake.Live = live
		return existing, nil
	case AccOpDelegatePool:
		if !present {
			return nil, ErrSoftSkip
		}
		existing.PoolDelegation.Schedule(d.Pool, d.ScheduleEpoch)
		return existing, nil
	case AccOpDelegateDRep:
		if !present {
			return nil, ErrSoftSkip
		}
		existing.DRepDelegation.Schedule(d.DRep, d.ScheduleEpoch)
		return existing, nil
	case AccOpAssignRewards:
		if !present {
			return nil, ErrSoftSkip
		}
		live := existing.Stake.Live
		live.RewardsSum += d.RewardAmount
		existing.Stake.Live = live
		return existing, nil
	case AccOpAdvanceScheduled:
		if !present {
			return nil, ErrSoftSkip
		}
		existing.PoolDelegation.Advance(d.ScheduleEpoch)
		existing.DRepDelegation.Advance(d.ScheduleEpoch)
		prevLive := existing.Stake.Live
		existing.Stake.Schedule(AccountStake{Controlled: d.WaitStake, RewardsSum: prevLive.RewardsSum}, d.ScheduleEpoch)
		existing.Stake.Advance(d.ScheduleEpoch)
		return existing, nil
	default:
		return existing, errors.New("types: unknown AccountOp")
	}
}

// Undo reverses Apply using captured Prior state. Returns the restored
// value (nil if the entity did not exist before Apply).
func (d *AccountDelta) Undo() (*AccountState, bool) {
	if !d.Undoable() {
		return nil, false
	}
	if !d.Existed {
		return nil, true
	}
	return d.Prior, true
}

// --- Pools --------------------------------------------------------------

type PoolOp uint8

const (
	PoolOpRegister PoolOp = iota
	PoolOpUpdate
	PoolOpScheduleRetire
	PoolOpApplyRetire // wrap boundary: marks retired, non-undoable
	PoolOpBlockMinted
	PoolOpAdvanceScheduled // start boundary; non-undoable
)

type PoolDelta struct {
	Operator PoolID
	Op       PoolOp

	Params        PoolParams
	VRFKeyHash    [32]byte
	Relays        []Relay
	Metadata      *PoolMetadata
	RetireAtEpoch uint64
	ScheduleEpoch uint64

	Prior   *PoolState
	Existed bool
}

func (d *PoolDelta) Namespace() Namespace { return NSPools }
func (d *PoolDelta) Key() EntityKey       { return PoolKey(d.Operator) }
func (d *PoolDelta) Undoable() bool {
	return d.Op != PoolOpApplyRetire && d.Op != PoolOpAdvanceScheduled
}

func (d *PoolDelta) Apply(existing *PoolState, present bool) (*PoolState, error) {
	d.Existed = present
	if present {
		cp := existing.Clone()
		d.Prior = &cp
	}

	switch d.Op {
	case PoolOpRegister:
		ps := &PoolState{
			OperatorHash:  d.Operator,
			VRFKeyHash:    d.VRFKeyHash,
			Pledge:        d.Params.Pledge,
			Cost:          d.Params.Cost,
			Margin:        d.Params.Margin,
			RewardAccount: d.Params.RewardAccount,
			Owners:        d.Params.Owners,
			Relays:        d.Relays,
			Metadata:      d.Metadata,
		}
		if present {
			ps.Snapshot = existing.Snapshot
			ps.RetiringEpoch = nil
			ps.IsRetired = false
		}
		return ps, nil
	case PoolOpUpdate:
		if !present {
			return nil, ErrSoftSkip
		}
		existing.Pledge = d.Params.Pledge
		existing.Cost = d.Params.Cost
		existing.Margin = d.Params.Margin
		existing.RewardAccount = d.Params.RewardAccount
		existing.Owners = d.Params.Owners
		existing.Relays = d.Relays
		existing.Metadata = d.Metadata
		return existing, nil
	case PoolOpScheduleRetire:
		if !present {
			return nil, ErrSoftSkip
		}
		epoch := d.RetireAtEpoch
		existing.RetiringEpoch = &epoch
		return existing, nil
	case PoolOpApplyRetire:
		if !present {
			return nil, ErrSoftSkip
		}
		existing.IsRetired = true
		snap := existing.Snapshot.Live
		snap.IsRetired = true
		existing.Snapshot.Live = snap
		return existing, nil
	case PoolOpBlockMinted:
		if !present {
			return nil, ErrSoftSkip
		}
		existing.Snapshot.Live.BlocksMinted++
		return existing, nil
	case PoolOpAdvanceScheduled:
		if !present {
			return nil, ErrSoftSkip
		}
		next := PoolSnapshot{
			IsPending:    false,
			IsRetired:    existing.IsRetiringBy(d.ScheduleEpoch) || existing.IsRetired,
			BlocksMinted: 0,
			Params:       existing.CurrentParams(),
		}
		existing.Snapshot.Schedule(next, d.ScheduleEpoch)
		existing.Snapshot.Advance(d.ScheduleEpoch)
		return existing, nil
	default:
		return existing, errors.New("types: unknown PoolOp")
	}
}

func (d *PoolDelta) Undo() (*PoolState, bool) {
	if !d.Undoable() {
		return nil, false
	}
	if !d.Existed {
		return nil, true
	}
	return d.Prior, true
}

// --- DReps ----------------------------------------------------------------

type DRepOp uint8

const (
	DRepOpRegister DRepOp = iota
	DRepOpDeregister
	DRepOpTouchActivity
	DRepOpApplyExpire // wrap boundary; non-undoable
)

type DRepDelta struct {
	Identifier DRepID
	Op         DRepOp

	Slot   uint64
	Anchor *Anchor

	Prior   *DRepState
	Existed bool
}

func (d *DRepDelta) Namespace() Namespace { return NSDReps }
func (d *DRepDelta) Key() EntityKey       { return DRepKey(d.Identifier) }
func (d *DRepDelta) Undoable() bool       { return d.Op != DRepOpApplyExpire }

func (d *DRepDelta) Apply(existing *DRepState, present bool) (*DRepState, error) {
	d.Existed = present
	if present {
		cp := existing.Clone()
		d.Prior = &cp
	}
	switch d.Op {
	case DRepOpRegister:
		if present {
			return existing, nil
		}
		slot := d.Slot
		return &DRepState{Identifier: d.Identifier, InitialSlot: &slot, LastActiveSlot: &slot, Anchor: d.Anchor}, nil
	case DRepOpDeregister:
		if !present {
			return nil, ErrSoftSkip
		}
		return nil, nil
	case DRepOpTouchActivity:
		if !present {
			return nil, ErrSoftSkip
		}
		slot := d.Slot
		existing.LastActiveSlot = &slot
		if d.Anchor != nil {
			existing.Anchor = d.Anchor
		}
		return existing, nil
	case DRepOpApplyExpire:
		if !present {
			return nil, ErrSoftSkip
		}
		existing.Expired = true
		return existing, nil
	default:
		return existing, errors.New("types: unknown DRepOp")
	}
}

func (d *DRepDelta) Undo() (*DRepState, bool) {
	if !d.Undoable() {
		return nil, false
	}
	if !d.Existed {
		return nil, true
	}
	return d.Prior, true
}

// --- Proposals --------------------------------------------------------

type ProposalOp uint8

const (
	ProposalOpRegister ProposalOp = iota
	ProposalOpApplyEnact // wrap boundary; non-undoable (refund + remove)
	ProposalOpApplyDrop  // wrap boundary; non-undoable (refund + remove, no enactment)
)

type ProposalDelta struct {
	ID EntityKey // proposal id, opaque (governance-action id, zero-padded)
	Op ProposalOp

	NewProposal ProposalState // ProposalOpRegister

	Existed bool
	Prior   *ProposalState
}

func (d *ProposalDelta) Namespace() Namespace { return NSProposals }
func (d *ProposalDelta) Key() EntityKey       { return d.ID }
func (d *ProposalDelta) Undoable() bool       { return d.Op == ProposalOpRegister }

func (d *ProposalDelta) Apply(existing *ProposalState, present bool) (*ProposalState, error) {
	d.Existed = present
	if present {
		cp := existing.Clone()
		d.Prior = &cp
	}
	switch d.Op {
	case ProposalOpRegister:
		if present {
			return existing, nil
		}
		np := d.NewProposal
		return &np, nil
	case ProposalOpApplyEnact, ProposalOpApplyDrop:
		if !present {
			return nil, ErrSoftSkip
		}
		return nil, nil
	default:
		return existing, errors.New("types: unknown ProposalOp")
	}
}

func (d *ProposalDelta) Undo() (*ProposalState, bool) {
	if !d.Undoable() {
		return nil, false
	}
	if !d.Existed {
		return nil, true
	}
	return d.Prior, true
}

// --- Epoch singleton (mark/set/go) -----------------------------------

type EpochOp uint8

const (
	EpochOpInit EpochOp = iota
	EpochOpSetPParamsScheduled
	EpochOpSetNonces
	EpochOpSetFinalPots
	EpochOpSetIncentives
	EpochOpResetCounters // start boundary; non-undoable
	EpochOpBlockMinted
	EpochOpAddFees
	EpochOpAdjustDeposits
)

// EpochDelta mutates one marker slot of the epochs namespace.
type EpochDelta struct {
	Marker EntityKey // MarkerMark / MarkerSet / MarkerGo
	Op     EpochOp

	New        EpochState // EpochOpInit
	PParams    PParamsSet
	AtEpoch    uint64
	Nonces     Nonces
	FinalPots  Pots
	PotDelta   PotDelta
	Incentives uint64
	Fees       uint64 // EpochOpAddFees
	Deposits   int64  // EpochOpAdjustDeposits, signed

	// EpochOpSetFinalPots also carries the rupd/wrap reward-accounting
	// scalars alongside FinalPots/PotDelta, since they become known at the
	// same commit point.
	EffectiveRewards   uint64
	UnspendableRewards uint64
	TreasuryTaxAmount  uint64

	Prior   *EpochState
	Existed bool
}

func (d *EpochDelta) Namespace() Namespace { return NSEpochs }
func (d *EpochDelta) Key() EntityKey       { return d.Marker }
func (d *EpochDelta) Undoable() bool       { return d.Op != EpochOpResetCounters }

func (d *EpochDelta) Apply(existing *EpochState, present bool) (*EpochState, error) {
	d.Existed = present
	if present {
		cp := existing.Clone()
		d.Prior = &cp
	}
	switch d.Op {
	case EpochOpInit:
		ns := d.New
		return &ns, nil
	case EpochOpSetPParamsScheduled:
		if !present {
			return nil, ErrSoftSkip
		}
		existing.PParams.Schedule(d.PParams, d.AtEpoch)
		return existing, nil
	case EpochOpSetNonces:
		if !present {
			return nil, ErrSoftSkip
		}
		n := d.Nonces
		existing.Nonces = &n
		return existing, nil
	case EpochOpSetFinalPots:
		if !present {
			return nil, ErrSoftSkip
		}
		fp := d.FinalPots
		pd := d.PotDelta
		existing.FinalPots = &fp
		existing.PotDelta = &pd
		er, ur, tt := d.EffectiveRewards, d.UnspendableRewards, d.TreasuryTaxAmount
		existing.EffectiveRewards = &er
		existing.UnspendableRewards = &ur
		existing.TreasuryTax = &tt
		return existing, nil
	case EpochOpSetIncentives:
		if !present {
			return nil, ErrSoftSkip
		}
		v := d.Incentives
		existing.Incentives = &v
		return existing, nil
	case EpochOpResetCounters:
		if !present {
			return nil, ErrSoftSkip
		}
		existing.ResetCounters()
		return existing, nil
	case EpochOpBlockMinted:
		if !present {
			return nil, ErrSoftSkip
		}
		existing.BlocksMinted++
		return existing, nil
	case EpochOpAddFees:
		if !present {
			return nil, ErrSoftSkip
		}
		existing.RunningFees += d.Fees
		return existing, nil
	case EpochOpAdjustDeposits:
		if !present {
			return nil, ErrSoftSkip
		}
		existing.RunningDeposits += d.Deposits
		return existing, nil
	default:
		return existing, errors.New("types: unknown EpochOp")
	}
}

func (d *EpochDelta) Undo() (*EpochState, bool) {
	if !d.Undoable() {
		return nil, false
	}
	if !d.Existed {
		return nil, true
	}
	return d.Prior, true
}

// --- Pending rewards ------------------------------------------------------

type PendingRewardOp uint8

const (
	PendingRewardOpWrite PendingRewardOp = iota
	PendingRewardOpDelete
)

type PendingRewardDelta struct {
	Credential Credential
	Op         PendingRewardOp
	New        PendingRewardState

	Prior   *PendingRewardState
	Existed bool
}

func (d *PendingRewardDelta) Namespace() Namespace { return NSPendingRewards }
func (d *PendingRewardDelta) Key() EntityKey       { return CredentialKey(d.Credential) }
func (d *PendingRewardDelta) Undoable() bool       { return true }

func (d *PendingRewardDelta) Apply(existing *PendingRewardState, present bool) (*PendingRewardState, error) {
	d.Existed = present
	if present {
		cp := existing.Clone()
		d.Prior = &cp
	}
	switch d.Op {
	case PendingRewardOpWrite:
		np := d.New
		return &np, nil
	case PendingRewardOpDelete:
		return nil, nil
	default:
		return existing, errors.New("types: unknown PendingRewardOp")
	}
}

func (d *PendingRewardDelta) Undo() (*PendingRewardState, bool) {
	if !d.Existed {
		return nil, true
	}
	return d.Prior, true
}

// --- WAL wire encoding --------------------------------------------------

// deltaKind tags which variant an encodedDelta wraps, since the WAL stores
// every delta as an opaque blob alongside the raw block (spec §4.5 phase 5)
// and must recover the concrete type on decode to call its Undo.
type deltaKind uint8

const (
	deltaKindAccount deltaKind = iota
	deltaKindPool
	deltaKindDRep
	deltaKindProposal
	deltaKindEpoch
	deltaKindPendingReward
)

// encodedDelta is the tagged union written to the WAL. Exactly one pointer
// field is non-nil, matching Kind. Using exported Prior/Existed fields on
// every delta variant (rather than keeping them private) is what lets this
// round-trip through CBOR at all: a delta decoded back out of the WAL
// carries its own undo metadata, so rollback calls Undo() directly instead
// of re-deriving prior state by replaying history.
type encodedDelta struct {
	Kind     deltaKind
	Account  *AccountDelta       `codec:",omitempty"`
	Pool     *PoolDelta          `codec:",omitempty"`
	DRep     *DRepDelta          `codec:",omitempty"`
	Proposal *ProposalDelta      `codec:",omitempty"`
	Epoch    *EpochDelta         `codec:",omitempty"`
	Pending  *PendingRewardDelta `codec:",omitempty"`
}

// EncodeDelta serializes any closed-sum Delta variant for WAL storage.
func EncodeDelta(d Delta) ([]byte, error) {
	var ed encodedDelta
	switch v := d.(type) {
	case *AccountDelta:
		ed = encodedDelta{Kind: deltaKindAccount, Account: v}
	case *PoolDelta:
		ed = encodedDelta{Kind: deltaKindPool, Pool: v}
	case *DRepDelta:
		ed = encodedDelta{Kind: deltaKindDRep, DRep: v}
	case *ProposalDelta:
		ed = encodedDelta{Kind: deltaKindProposal, Proposal: v}
	case *EpochDelta:
		ed = encodedDelta{Kind: deltaKindEpoch, Epoch: v}
	case *PendingRewardDelta:
		ed = encodedDelta{Kind: deltaKindPendingReward, Pending: v}
	default:
		return nil, errors.New("types: unknown Delta implementation")
	}
	return MarshalCBOR(ed)
}

// DecodeDelta reverses EncodeDelta, returning the concrete variant as a
// Delta. Callers that need the concrete type (e.g. core/statestore's
// UndoXDelta methods) type-assert on the result.
func DecodeDelta(b []byte) (Delta, error) {
	var ed encodedDelta
	if err := UnmarshalCBOR(b, &ed); err != nil {
		return nil, err
	}
	switch ed.Kind {
	case deltaKindAccount:
		return ed.Account, nil
	case deltaKindPool:
		return ed.Pool, nil
	case deltaKindDRep:
		return ed.DRep, nil
	case deltaKindProposal:
		return ed.Proposal, nil
	case deltaKindEpoch:
		return ed.Epoch, nil
	case deltaKindPendingReward:
		return ed.Pending, nil
	default:
		return nil, errors.New("types: unknown encoded delta kind")
	}
}
