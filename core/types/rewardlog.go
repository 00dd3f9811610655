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

// RewardLog is the archived record of one account's drained reward at a
// wrap boundary: one entry per pool component, tagging whether the
// account earned it as a pool's leader or as a delegator (spec §4.6
// "one RewardLog(pool, amount, as_leader) per component").
type RewardLog struct {
	Credential Credential
	Pool       PoolID
	Amount     uint64
	AsLeader   bool
}
