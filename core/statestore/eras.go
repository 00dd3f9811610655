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

import "github.com/cardano-go/ledgerstate/core/types"

// eraList is the single entity stored under NSEras/MarkerEras: the whole
// era-summary sequence, oldest first, with the edge (open) era last. It
// is small and rewritten in full on every era transition rather than
// modeled as per-era entities, since core/chainsummary only ever needs
// the complete list to build a Summary.
type eraList struct {
	Eras []types.EraSummary
}

// GetEraSummaries returns the persisted era list, oldest first. A fresh
// store with no era transition recorded yet returns ok=false; the caller
// (engine bootstrap) is expected to seed the genesis era itself.
func GetEraSummaries(r *Reader) ([]types.EraSummary, bool, error) {
	v, ok, err := getNS[eraList](r, types.NSEras, types.MarkerEras)
	if err != nil || !ok {
		return nil, ok, err
	}
	return v.Eras, true, nil
}

// PutEraSummaries overwrites the persisted era list (spec §4.6 "Start"
// commit: "write era transitions").
func (w *Writer) PutEraSummaries(eras []types.EraSummary) error {
	return storeTyped(w, types.NSEras, types.MarkerEras, &eraList{Eras: eras})
}
