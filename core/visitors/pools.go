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

// PoolsVisitor tracks pool registration, parameter updates, retirement
// scheduling and per-block minting counts.
type PoolsVisitor struct{ NoopVisitor }

func (PoolsVisitor) Name() string { return "pools" }

func (PoolsVisitor) VisitRoot(ctx *BlockCtx, b types.Block) error {
	if b.IssuerPool != nil {
		ctx.AddPoolDelta(&types.PoolDelta{Operator: *b.IssuerPool, Op: types.PoolOpBlockMinted})
	}
	return nil
}

func (PoolsVisitor) VisitCert(ctx *BlockCtx, tx types.Tx, cert types.Certificate) error {
	switch cert.Kind {
	case types.CertPoolReg:
		if cert.PoolParams == nil {
			return nil
		}
		ctx.AddPoolDelta(&types.PoolDelta{
			Operator: cert.Pool,
			Op:       types.PoolOpRegister,
			Params:   *cert.PoolParams,
		})
	case types.CertPoolRetire:
		ctx.AddPoolDelta(&types.PoolDelta{
			Operator:      cert.Pool,
			Op:            types.PoolOpScheduleRetire,
			RetireAtEpoch: cert.RetireAtEpoch,
		})
	}
	return nil
}
