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

// Package ledgererror defines the closed set of error kinds every store and
// pipeline stage reports through, so callers can branch on Kind without
// string matching (spec's error-handling design section).
package ledgererror

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	KindDecoding Kind = iota
	KindInvariantViolation
	KindStopEpochReached
	KindGenesisFieldMissing
	KindState
	KindArchive
	KindWal
	KindIndex
)

func (k Kind) String() string {
	switch k {
	case KindDecoding:
		return "decoding"
	case KindInvariantViolation:
		return "invariant_violation"
	case KindStopEpochReached:
		return "stop_epoch_reached"
	case KindGenesisFieldMissing:
		return "genesis_field_missing"
	case KindState:
		return "state"
	case KindArchive:
		return "archive"
	case KindWal:
		return "wal"
	case KindIndex:
		return "index"
	default:
		return "unknown"
	}
}

// LedgerError is the wrapper every exported error from core/* satisfies.
// Component identifies the subsystem that raised it ("wal", "statestore",
// "archive", "index", "pipeline", "boundary", "rewards"); Kind is the
// closed error-kind enum above.
type LedgerError struct {
	Kind      Kind
	Component string
	Msg       string
	Err       error
}

func (e *LedgerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Component, e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Component, e.Kind, e.Msg)
}

func (e *LedgerError) Unwrap() error { return e.Err }

func New(component string, kind Kind, msg string) error {
	return &LedgerError{Kind: kind, Component: component, Msg: msg}
}

func Wrap(component string, kind Kind, msg string, err error) error {
	if err == nil {
		return nil
	}
	return &LedgerError{Kind: kind, Component: component, Msg: msg, Err: err}
}

// Is reports whether err (or a wrapped cause) is a LedgerError of kind k.
func Is(err error, k Kind) bool {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Kind == k
	}
	return false
}

// ErrInvariantViolation is a sentinel base for invariant checks that do not
// need a component-specific message builder (e.g. in tests).
var ErrInvariantViolation = errors.New("invariant violation")
