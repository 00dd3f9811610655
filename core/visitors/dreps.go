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

package visitors

import "github.com/cardano-go/ledgerstate/core/types"

// DRepsVisitor tracks delegated-representative registration, deregistration
// and activity (any vote or registration-refresh resets the inactivity
// clock the boundary pass checks against DRepInactivityEpochs).
type DRepsVisitor struct{ NoopVisitor }

func (DRepsVisitor) Name() string { return "dreps" }

func (DRepsVisitor) VisitCert(ctx *BlockCtx, tx types.Tx, cert types.Certificate) error {
	switch cert.Kind {
	case types.CertDRepReg:
		if cert.DRep == nil {
			return nil
		}
		ctx.AddDRepDelta(&types.DRepDelta{
			Identifier: *cert.DRep,
			Op:         types.DRepOpRegister,
			Slot:       ctx.Slot,
			Anchor:     cert.Anchor,
		})
	case types.CertDRepDereg:
		if cert.DRep == nil {
			return nil
		}
		ctx.AddDRepDelta(&types.DRepDelta{Identifier: *cert.DRep, Op: types.DRepOpDeregister})
	case types.CertDRepUpdate, types.CertGovVote:
		if cert.DRep == nil {
			return nil
		}
		ctx.AddDRepDelta(&types.DRepDelta{
			Identifier: *cert.DRep,
			Op:         types.DRepOpTouchActivity,
			Slot:       ctx.Slot,
			Anchor:     cert.Anchor,
		})
	}
	return nil
}
